package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xhad/leaksift/internal/models"
	"github.com/xhad/leaksift/pkg/analysis"
)

func TestTopDomains(t *testing.T) {
	rows := []string{
		"paypal.com,google.com",
		"paypal.com",
		"google.com,paypal.com,x.co",
		"",
	}
	top := analysis.TopDomains(rows, 2)
	assert.Equal(t, []analysis.DomainCount{
		{Domain: "paypal.com", Count: 3},
		{Domain: "google.com", Count: 2},
	}, top)
}

func TestTopDomainsRawOccurrence(t *testing.T) {
	// One record with five domains contributes five increments.
	top := analysis.TopDomains([]string{"a.com,b.com,c.com,d.com,e.com"}, 0)
	assert.Len(t, top, 5)
	for _, dc := range top {
		assert.Equal(t, 1, dc.Count)
	}
}

func TestCategorizeOS(t *testing.T) {
	buckets := analysis.CategorizeOS([]string{
		"Windows 10 Home", "windows server 2019", "Ubuntu 20.04",
		"Arch Linux", "Mac OS X", "", "BeOS",
	})
	assert.Equal(t, 2, buckets["Windows"])
	assert.Equal(t, 2, buckets["Linux"])
	assert.Equal(t, 1, buckets["MacOS"])
	assert.Equal(t, 2, buckets["Unrecognized"])
}

func TestWindowsVersionsFiltersSmallBands(t *testing.T) {
	var names []string
	for i := 0; i < 50; i++ {
		names = append(names, "Windows 10 Pro")
	}
	for i := 0; i < 3; i++ {
		names = append(names, "Windows 11 Home")
	}
	for i := 0; i < 47; i++ {
		names = append(names, "Windows Server 2016")
	}

	versions := analysis.WindowsVersions(names)
	assert.Equal(t, 50, versions["Windows 10"])
	assert.Equal(t, 47, versions["Windows Server"])
	assert.NotContains(t, versions, "Windows 11")
}

func TestWindowsVersionsIgnoresNonWindows(t *testing.T) {
	versions := analysis.WindowsVersions([]string{"Ubuntu", "Mac OS X"})
	assert.Empty(t, versions)
}

func TestTopOS(t *testing.T) {
	top := analysis.TopOS([]string{"Windows 10", "Windows 10", "", "Ubuntu"}, 2)
	assert.Equal(t, []analysis.OSCount{
		{Name: "Windows 10", Count: 2},
		{Name: "Ubuntu", Count: 1},
	}, top)
}

func TestBreakdown(t *testing.T) {
	records := []models.VictimRecord{
		{Country: "IT", OS: "Windows 10", Price: 10},
		{Country: "IT", OS: "Windows 7", Price: 20},
		{Country: "DE", OS: "Windows 10", Price: 5},
	}
	b := analysis.Breakdown("paypal.com", 3, records)

	assert.Equal(t, "paypal.com", b.Domain)
	assert.Equal(t, 3, b.Count)
	assert.Equal(t, 2, b.Countries["IT"])
	assert.Equal(t, 1, b.Countries["DE"])
	assert.Equal(t, []float64{10, 20}, b.PricesByCountry["IT"])
	assert.Equal(t, 2, b.OSCounts["Windows 10"])
}
