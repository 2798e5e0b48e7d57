package extract

import (
	"regexp"
	"sort"
	"strings"
)

var (
	productInfoRe  = regexp.MustCompile(`(?s)###### Product Information\n\n(.*?)\n\n##### Fields`)
	imageRefRe     = regexp.MustCompile(`(?s)!\(.*?\)\n\n`)
	productPriceRe = regexp.MustCompile(`__ Price: \*\*(.*?)\*\*`)
	cityStateRe    = regexp.MustCompile(`City : (.+?)\n\nState : (.+?)\n\n`)
)

// ProductListing carries the fields of the structured "Product Information"
// listing format some marketplaces use instead of free-form headings.
type ProductListing struct {
	Info     string
	Price    string
	Location string
}

// ProductInfo parses the structured listing format: the section body between
// the Product Information heading and the Fields table, the bold price
// marker, and City/State pairs joined into a location set. Empty fields mean
// the text does not use this format.
func ProductInfo(text string) ProductListing {
	var listing ProductListing

	if m := productInfoRe.FindStringSubmatch(text); m != nil {
		listing.Info = strings.TrimSpace(imageRefRe.ReplaceAllString(m[1], ""))
	}
	if m := productPriceRe.FindStringSubmatch(text); m != nil {
		listing.Price = strings.TrimSpace(m[1])
	}

	pairs := cityStateRe.FindAllStringSubmatch(text, -1)
	if len(pairs) > 0 {
		seen := make(map[string]bool, len(pairs))
		var locations []string
		for _, pair := range pairs {
			loc := strings.TrimSpace(pair[1]) + ", " + strings.TrimSpace(pair[2])
			if !seen[loc] {
				seen[loc] = true
				locations = append(locations, loc)
			}
		}
		sort.Strings(locations)
		listing.Location = strings.Join(locations, ", ")
	}

	return listing
}
