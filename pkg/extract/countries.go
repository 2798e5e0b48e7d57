package extract

import "strings"

// countryNames maps ISO 3166-1 country names to their alpha-2 codes. It is
// the reference vocabulary for both substring location matching and the
// deterministic country lookup used before any fallback call.
var countryNames = map[string]string{
	"Afghanistan": "AF", "Albania": "AL", "Algeria": "DZ", "Andorra": "AD",
	"Angola": "AO", "Argentina": "AR", "Armenia": "AM", "Australia": "AU",
	"Austria": "AT", "Azerbaijan": "AZ", "Bahamas": "BS", "Bahrain": "BH",
	"Bangladesh": "BD", "Barbados": "BB", "Belarus": "BY", "Belgium": "BE",
	"Belize": "BZ", "Benin": "BJ", "Bhutan": "BT", "Bolivia": "BO",
	"Bosnia and Herzegovina": "BA", "Botswana": "BW", "Brazil": "BR",
	"Brunei": "BN", "Bulgaria": "BG", "Burkina Faso": "BF", "Burundi": "BI",
	"Cambodia": "KH", "Cameroon": "CM", "Canada": "CA", "Chad": "TD",
	"Chile": "CL", "China": "CN", "Colombia": "CO", "Costa Rica": "CR",
	"Croatia": "HR", "Cuba": "CU", "Cyprus": "CY", "Czechia": "CZ",
	"Denmark": "DK", "Djibouti": "DJ", "Dominica": "DM",
	"Dominican Republic": "DO", "Ecuador": "EC", "Egypt": "EG",
	"El Salvador": "SV", "Estonia": "EE", "Eswatini": "SZ", "Ethiopia": "ET",
	"Fiji": "FJ", "Finland": "FI", "France": "FR", "Gabon": "GA",
	"Gambia": "GM", "Georgia": "GE", "Germany": "DE", "Ghana": "GH",
	"Greece": "GR", "Grenada": "GD", "Guatemala": "GT", "Guinea": "GN",
	"Guyana": "GY", "Haiti": "HT", "Honduras": "HN", "Hungary": "HU",
	"Iceland": "IS", "India": "IN", "Indonesia": "ID", "Iran": "IR",
	"Iraq": "IQ", "Ireland": "IE", "Israel": "IL", "Italy": "IT",
	"Jamaica": "JM", "Japan": "JP", "Jordan": "JO", "Kazakhstan": "KZ",
	"Kenya": "KE", "Kiribati": "KI", "Kosovo": "XK", "Kuwait": "KW",
	"Kyrgyzstan": "KG", "Laos": "LA", "Latvia": "LV", "Lebanon": "LB",
	"Lesotho": "LS", "Liberia": "LR", "Libya": "LY", "Liechtenstein": "LI",
	"Lithuania": "LT", "Luxembourg": "LU", "Madagascar": "MG", "Malawi": "MW",
	"Malaysia": "MY", "Maldives": "MV", "Mali": "ML", "Malta": "MT",
	"Mauritania": "MR", "Mauritius": "MU", "Mexico": "MX", "Moldova": "MD",
	"Monaco": "MC", "Mongolia": "MN", "Montenegro": "ME", "Morocco": "MA",
	"Mozambique": "MZ", "Myanmar": "MM", "Namibia": "NA", "Nepal": "NP",
	"Netherlands": "NL", "New Zealand": "NZ", "Nicaragua": "NI", "Niger": "NE",
	"Nigeria": "NG", "North Korea": "KP", "North Macedonia": "MK",
	"Norway": "NO", "Oman": "OM", "Pakistan": "PK", "Panama": "PA",
	"Papua New Guinea": "PG", "Paraguay": "PY", "Peru": "PE",
	"Philippines": "PH", "Poland": "PL", "Portugal": "PT", "Qatar": "QA",
	"Romania": "RO", "Russia": "RU", "Rwanda": "RW", "Samoa": "WS",
	"San Marino": "SM", "Saudi Arabia": "SA", "Senegal": "SN", "Serbia": "RS",
	"Seychelles": "SC", "Sierra Leone": "SL", "Singapore": "SG",
	"Slovakia": "SK", "Slovenia": "SI", "Solomon Islands": "SB",
	"Somalia": "SO", "South Africa": "ZA", "South Korea": "KR",
	"South Sudan": "SS", "Spain": "ES", "Sri Lanka": "LK", "Sudan": "SD",
	"Suriname": "SR", "Sweden": "SE", "Switzerland": "CH", "Syria": "SY",
	"Taiwan": "TW", "Tajikistan": "TJ", "Tanzania": "TZ", "Thailand": "TH",
	"Togo": "TG", "Tonga": "TO", "Trinidad and Tobago": "TT", "Tunisia": "TN",
	"Turkey": "TR", "Turkmenistan": "TM", "Uganda": "UG", "Ukraine": "UA",
	"United Arab Emirates": "AE", "United Kingdom": "GB",
	"United States": "US", "Uruguay": "UY", "Uzbekistan": "UZ",
	"Vanuatu": "VU", "Venezuela": "VE", "Vietnam": "VN", "Yemen": "YE",
	"Zambia": "ZM", "Zimbabwe": "ZW",
}

// countryAliases covers common informal names the scraped listings use.
var countryAliases = map[string]string{
	"usa":            "US",
	"u.s.a":          "US",
	"u.s.":           "US",
	"america":        "US",
	"uk":             "GB",
	"great britain":  "GB",
	"england":        "GB",
	"scotland":       "GB",
	"wales":          "GB",
	"holland":        "NL",
	"uae":            "AE",
	"south korea":    "KR",
	"korea":          "KR",
	"czech republic": "CZ",
	"russian federation": "RU",
}

// subdivisionCountry maps well-known first-level subdivisions to their
// country code, standing in for a full subdivision database. Free-text items
// that miss here escalate to the fallback resolver.
var subdivisionCountry = map[string]string{
	// US states
	"alabama": "US", "alaska": "US", "arizona": "US", "arkansas": "US",
	"california": "US", "colorado": "US", "connecticut": "US",
	"delaware": "US", "florida": "US", "hawaii": "US",
	"idaho": "US", "illinois": "US", "indiana": "US", "iowa": "US",
	"kansas": "US", "kentucky": "US", "louisiana": "US", "maine": "US",
	"maryland": "US", "massachusetts": "US", "michigan": "US",
	"minnesota": "US", "mississippi": "US", "missouri": "US", "montana": "US",
	"nebraska": "US", "nevada": "US", "new hampshire": "US",
	"new jersey": "US", "new mexico": "US", "new york": "US",
	"north carolina": "US", "north dakota": "US", "ohio": "US",
	"oklahoma": "US", "oregon": "US", "pennsylvania": "US",
	"rhode island": "US", "south carolina": "US", "south dakota": "US",
	"tennessee": "US", "texas": "US", "utah": "US", "vermont": "US",
	"virginia": "US", "washington": "US", "west virginia": "US",
	"wisconsin": "US", "wyoming": "US",
	// Canadian provinces
	"alberta": "CA", "british columbia": "CA", "manitoba": "CA",
	"new brunswick": "CA", "newfoundland": "CA", "nova scotia": "CA",
	"ontario": "CA", "quebec": "CA", "saskatchewan": "CA",
	// Australian states
	"new south wales": "AU", "queensland": "AU", "south australia": "AU",
	"tasmania": "AU", "victoria": "AU", "western australia": "AU",
	// German states frequently seen in stealer logs
	"bavaria": "DE", "bayern": "DE", "hessen": "DE",
	"nordrhein-westfalen": "DE", "sachsen": "DE",
}

var alpha2 = func() map[string]bool {
	set := make(map[string]bool, len(countryNames))
	for _, code := range countryNames {
		set[code] = true
	}
	set["XK"] = true
	return set
}()

// FindCountry reduces a free-text location fragment to an alpha-2 country
// code. It tries, in order: an alpha-2 code as-is, an exact country name, a
// known alias, and a known subdivision. Returns false when nothing matches.
func FindCountry(location string) (string, bool) {
	loc := strings.TrimSpace(location)
	if loc == "" {
		return "", false
	}

	if len(loc) == 2 && alpha2[strings.ToUpper(loc)] {
		return strings.ToUpper(loc), true
	}

	lower := strings.ToLower(loc)
	for name, code := range countryNames {
		if strings.ToLower(name) == lower {
			return code, true
		}
	}
	if code, ok := countryAliases[lower]; ok {
		return code, true
	}
	if code, ok := subdivisionCountry[lower]; ok {
		return code, true
	}

	return "", false
}

// IsAlpha2 reports whether code is a known two-letter country code.
func IsAlpha2(code string) bool {
	return len(code) == 2 && alpha2[strings.ToUpper(code)]
}
