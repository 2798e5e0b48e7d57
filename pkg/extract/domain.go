package extract

import (
	"regexp"
	"sort"
	"strings"
)

var (
	domainRe = regexp.MustCompile(`\b([a-zA-Z][\w-]*\.[\w.-]+)\b`)
	// Image files, anonymity-network hosts and database-dump names look
	// domain-like but are noise for the compromised-domain field.
	excludedExtRe     = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|bmp|svg|onion|oni|All|date|sc)$`)
	excludedDumpRe    = regexp.MustCompile(`(?i)database[\w-]*\.(o|onion|o[\w.-]+)$`)
)

// Domains returns the set of host-like tokens found in the text, sorted for
// determinism.
func Domains(text string) []string {
	found := make(map[string]bool)
	for _, match := range domainRe.FindAllStringSubmatch(text, -1) {
		domain := match[1]
		if excludedExtRe.MatchString(domain) || excludedDumpRe.MatchString(domain) {
			continue
		}
		found[domain] = true
	}
	domains := make([]string, 0, len(found))
	for d := range found {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}

// ParentDomain reduces a host to its registrable parent: the last label plus
// TLD, with any subdomain labels discarded.
func ParentDomain(domain string) string {
	parts := strings.Split(domain, ".")
	if len(parts) > 2 {
		return strings.Join(parts[len(parts)-2:], ".")
	}
	return domain
}

// UniqueParentDomains reduces each domain to its parent and deduplicates.
// The returned count always equals the cardinality of the returned set.
func UniqueParentDomains(domains []string) ([]string, int) {
	seen := make(map[string]bool, len(domains))
	var parents []string
	for _, domain := range domains {
		parent := ParentDomain(strings.TrimSpace(domain))
		if parent == "" || seen[parent] {
			continue
		}
		seen[parent] = true
		parents = append(parents, parent)
	}
	sort.Strings(parents)
	return parents, len(parents)
}
