package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xhad/leaksift/pkg/extract"
)

func TestTitle(t *testing.T) {
	text := "some preamble\n###### Leaked Card\nbody text"
	assert.Equal(t, "Leaked Card", extract.Title(text))
}

func TestTitleSkipsMainSection(t *testing.T) {
	text := "###### The Main Menu\n###### Fullz USA\n"
	assert.Equal(t, "Fullz USA", extract.Title(text))
}

func TestTitleKeepsMainPrefixedHeadings(t *testing.T) {
	assert.Equal(t, "Main Menu", extract.Title("###### Main Menu\n"))
	assert.Equal(t, "Main", extract.Title("###### Main\n"))
}

func TestTitleMissing(t *testing.T) {
	assert.Equal(t, "", extract.Title("no headings here"))
	assert.Equal(t, "", extract.Title(""))
}

func TestPrices(t *testing.T) {
	text := "###### Cards\nUS card **250$** each\nEU card **90$** fresh\n"
	assert.Equal(t, []float64{90, 250}, extract.Prices(text))
}

func TestPricesNoMarkers(t *testing.T) {
	assert.Empty(t, extract.Prices("plain text with no price markers"))
	assert.Empty(t, extract.Prices("price 250$ but not bolded"))
}

func TestPricesSkipsGuidesAndBotnets(t *testing.T) {
	assert.Empty(t, extract.Prices("carding guide **250$** \n"))
	assert.Empty(t, extract.Prices("botnet access **90$** \n"))
}

func TestPricesSkipsBulkLines(t *testing.T) {
	text := "cards 5 pcs **100$** bulk\nsingle card **40$** \n"
	assert.Equal(t, []float64{40}, extract.Prices(text))
}

func TestPricesSkipsMixedPackages(t *testing.T) {
	assert.Empty(t, extract.Prices("mix package **75$** \n"))
}

func TestPricesBounds(t *testing.T) {
	text := "a **0$** b\nc **1000000$** d\nd **999999$** e\n"
	assert.Equal(t, []float64{999999}, extract.Prices(text))
}

func TestPricesDeduplicates(t *testing.T) {
	text := "card one **50$** a\ncard two **50$** b\n"
	assert.Equal(t, []float64{50}, extract.Prices(text))
}

func TestLocations(t *testing.T) {
	text := "Fresh fullz from Germany and france, shipping worldwide"
	locations := extract.Locations(text)
	assert.Contains(t, locations, "Germany")
	assert.Contains(t, locations, "France")
}

func TestLocationsEmpty(t *testing.T) {
	assert.Empty(t, extract.Locations("no geography in this text"))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "2023-11-02", extract.Date("posted 2023-11-02 by seller"))
	assert.Equal(t, "2023-11-02 14:30", extract.Date("posted 2023-11-02 14:30"))
	assert.Equal(t, "", extract.Date("posted yesterday"))
}

func TestDomains(t *testing.T) {
	text := "accounts for paypal.com and shop.example.co.uk plus logo.png and market.onion"
	domains := extract.Domains(text)
	assert.Contains(t, domains, "paypal.com")
	assert.Contains(t, domains, "shop.example.co.uk")
	assert.NotContains(t, domains, "logo.png")
	assert.NotContains(t, domains, "market.onion")
}

func TestDomainsExcludesDumpNames(t *testing.T) {
	domains := extract.Domains("leaked database-full.onion.to dump")
	assert.NotContains(t, domains, "database-full.onion.to")
}

func TestParentDomain(t *testing.T) {
	assert.Equal(t, "example.com", extract.ParentDomain("a.b.example.com"))
	assert.Equal(t, "example.com", extract.ParentDomain("example.com"))
	assert.Equal(t, "x.co", extract.ParentDomain("x.co"))
}

func TestUniqueParentDomains(t *testing.T) {
	parents, total := extract.UniqueParentDomains([]string{"a.b.example.com", "example.com", "x.co"})
	assert.Equal(t, []string{"example.com", "x.co"}, parents)
	assert.Equal(t, 2, total)
}

func TestFindCountry(t *testing.T) {
	code, ok := extract.FindCountry("Germany")
	assert.True(t, ok)
	assert.Equal(t, "DE", code)

	code, ok = extract.FindCountry("california")
	assert.True(t, ok)
	assert.Equal(t, "US", code)

	code, ok = extract.FindCountry("us")
	assert.True(t, ok)
	assert.Equal(t, "US", code)

	_, ok = extract.FindCountry("Springfield")
	assert.False(t, ok)
}

func TestProductInfo(t *testing.T) {
	text := "###### Product Information\n\nAged paypal account\n\n##### Fields\n" +
		"__ Price: **35 USD**\nCity : Miami\n\nState : Florida\n\n"
	listing := extract.ProductInfo(text)
	assert.Equal(t, "Aged paypal account", listing.Info)
	assert.Equal(t, "35 USD", listing.Price)
	assert.Equal(t, "Miami, Florida", listing.Location)
}

func TestProductInfoAbsent(t *testing.T) {
	listing := extract.ProductInfo("###### Something else entirely")
	assert.Equal(t, "", listing.Info)
	assert.Equal(t, "", listing.Price)
	assert.Equal(t, "", listing.Location)
}
