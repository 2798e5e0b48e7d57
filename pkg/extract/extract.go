// Package extract holds the deterministic field heuristics that run before
// any fallback resolution. Every function is pure: raw text in, candidate
// out, with absence expressed as an empty value rather than an error.
package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	headingMarker = "######"
	priceFloor    = 0.0
	priceCeiling  = 1000000.0
)

var (
	priceRe = regexp.MustCompile(`\s\*\*\d+\$\*\*\s`)
	dateRe  = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}( \d{2}:\d{2})?\b`)
)

// Title returns the first heading-marked line whose text does not carry a
// " Main " section infix, or empty if the text has no usable heading. A
// heading that merely starts with "Main" is kept.
func Title(text string) string {
	if !strings.Contains(text, headingMarker) {
		return ""
	}
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, headingMarker) {
			continue
		}
		title := strings.TrimSpace(strings.ReplaceAll(line, "#", ""))
		if strings.Contains(title, " Main ") {
			continue
		}
		if title != "" {
			return title
		}
	}
	return ""
}

// Prices scans line by line for currency-marked numeric tokens and returns
// the sorted unique values inside (0, 1000000). Bundle, guide and botnet
// listings are skipped outright, as are lines qualified with a piece count
// of 0 or 2-9: those describe bulk packages whose totals would bias any
// per-item statistic.
func Prices(text string) []float64 {
	text = strings.ReplaceAll(text, "Tutorials and Guides", "")
	text = strings.ReplaceAll(text, "Wallets Botnet logs", "")

	lower := strings.ToLower(text)
	if strings.Contains(lower, "guide") || strings.Contains(lower, "botnet") {
		return nil
	}
	if !strings.Contains(text, "$**") {
		return nil
	}

	seen := make(map[float64]bool)
	var prices []float64
	for _, line := range strings.Split(text, "\n") {
		line = strings.ToLower(line)
		if !strings.Contains(line, "**") || !strings.Contains(line, "$") {
			continue
		}
		if strings.Contains(line, "mix") { // mixed data packages
			continue
		}
		if hasBulkQualifier(line) {
			continue
		}
		for _, match := range priceRe.FindAllString(line, -1) {
			raw := strings.TrimSpace(strings.NewReplacer("*", "", "$", "").Replace(match))
			number, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			if number > priceFloor && number < priceCeiling && !seen[number] {
				seen[number] = true
				prices = append(prices, number)
			}
		}
	}
	sort.Float64s(prices)
	return prices
}

func hasBulkQualifier(line string) bool {
	for _, pcs := range []string{"0", "2", "3", "4", "5", "6", "7", "8", "9"} {
		for _, word := range []string{"pcs", "piece"} {
			if strings.Contains(line, pcs+word) || strings.Contains(line, pcs+" "+word) {
				return true
			}
		}
	}
	return false
}

// Locations returns every country from the reference vocabulary mentioned in
// the text, matched case-insensitively as a substring. Set semantics; order
// is sorted for determinism only.
func Locations(text string) []string {
	lower := strings.ToLower(text)
	found := make(map[string]bool)
	for name := range countryNames {
		if strings.Contains(lower, strings.ToLower(name)) {
			found[name] = true
		}
	}
	countries := make([]string, 0, len(found))
	for name := range found {
		countries = append(countries, name)
	}
	sort.Strings(countries)
	return countries
}

// Date returns the first ISO-like yyyy-mm-dd[ hh:mm] token, or empty.
func Date(text string) string {
	return dateRe.FindString(text)
}
