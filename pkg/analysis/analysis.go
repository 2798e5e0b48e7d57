// Package analysis holds the read-only projections the external visualizer
// consumes. Everything here is a pure function over rows the store already
// fetched; results are plain ordered structs with no rendering dependency.
package analysis

import (
	"sort"
	"strings"

	"github.com/xhad/leaksift/internal/models"
)

// The reported Windows version distribution drops bands below this share of
// all Windows entries. Noise suppression, applied on purpose.
const windowsVersionFloor = 0.05

type DomainCount struct {
	Domain string
	Count  int
}

type OSCount struct {
	Name  string
	Count int
}

// DomainBreakdown is the per-domain projection: how often and where machines
// holding that domain were compromised, and on what systems.
type DomainBreakdown struct {
	Domain          string
	Count           int
	Countries       map[string]int
	PricesByCountry map[string][]float64
	OSCounts        map[string]int
}

// TopDomains tallies raw occurrence frequency over comma-joined domain sets
// and returns the n most common. A record contributing five domains
// contributes five tally increments, not one.
func TopDomains(domainRows []string, n int) []DomainCount {
	tally := make(map[string]int)
	for _, row := range domainRows {
		if row == "" {
			continue
		}
		for _, domain := range strings.Split(row, ",") {
			domain = strings.TrimSpace(domain)
			if domain != "" {
				tally[domain]++
			}
		}
	}

	counts := make([]DomainCount, 0, len(tally))
	for domain, count := range tally {
		counts = append(counts, DomainCount{Domain: domain, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Domain < counts[j].Domain
	})

	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// Breakdown aggregates the victim rows matching one domain into per-country
// and per-OS counters plus price lists.
func Breakdown(domain string, count int, records []models.VictimRecord) DomainBreakdown {
	b := DomainBreakdown{
		Domain:          domain,
		Count:           count,
		Countries:       make(map[string]int),
		PricesByCountry: make(map[string][]float64),
		OSCounts:        make(map[string]int),
	}
	for _, rec := range records {
		b.Countries[rec.Country]++
		b.PricesByCountry[rec.Country] = append(b.PricesByCountry[rec.Country], rec.Price)
		b.OSCounts[rec.OS]++
	}
	return b
}

// CategorizeOS buckets free-text OS strings into the broad families. An
// empty or unmatched string counts as Unrecognized.
func CategorizeOS(names []string) map[string]int {
	buckets := map[string]int{"Windows": 0, "Linux": 0, "MacOS": 0, "Unrecognized": 0}
	for _, name := range names {
		lower := strings.ToLower(name)
		switch {
		case name == "":
			buckets["Unrecognized"]++
		case strings.Contains(lower, "windows"):
			buckets["Windows"]++
		case strings.Contains(lower, "linux") || strings.Contains(lower, "ubuntu"):
			buckets["Linux"]++
		case strings.Contains(lower, "mac") || strings.Contains(lower, "os x"):
			buckets["MacOS"]++
		default:
			buckets["Unrecognized"]++
		}
	}
	return buckets
}

// WindowsVersions bands Windows OS strings by version and drops bands under
// five percent of all Windows entries from the result.
func WindowsVersions(names []string) map[string]int {
	versions := make(map[string]int)
	for _, name := range names {
		lower := strings.ToLower(name)
		if !strings.Contains(lower, "windows") {
			continue
		}
		switch {
		case strings.Contains(lower, "windows 10"):
			versions["Windows 10"]++
		case strings.Contains(lower, "windows 11"):
			versions["Windows 11"]++
		case strings.Contains(lower, "windows 8"):
			versions["Windows 8/8.1"]++
		case strings.Contains(lower, "windows server"):
			versions["Windows Server"]++
		case strings.Contains(lower, "windows 7"):
			versions["Windows 7"]++
		case strings.Contains(lower, "windows vista"):
			versions["Windows Vista"]++
		default:
			versions["Other Windows"]++
		}
	}

	total := 0
	for _, count := range versions {
		total += count
	}
	if total == 0 {
		return versions
	}

	for version, count := range versions {
		if float64(count)/float64(total) < windowsVersionFloor {
			delete(versions, version)
		}
	}
	return versions
}

// TopOS tallies raw OS strings and returns the n most common, with the
// empty string reported as "Unknown OS".
func TopOS(names []string, n int) []OSCount {
	tally := make(map[string]int)
	for _, name := range names {
		if name == "" {
			name = "Unknown OS"
		}
		tally[name]++
	}

	counts := make([]OSCount, 0, len(tally))
	for name, count := range tally {
		counts = append(counts, OSCount{Name: name, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})

	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
