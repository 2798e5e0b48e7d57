package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xhad/leaksift/internal/models"
)

// RecordResult is the parsed full-record extraction payload. Each field is a
// tagged variant so consumers handle unknown, single and multiple uniformly.
type RecordResult struct {
	Product  models.Field
	Location models.Field
	Price    models.Field
	Domain   models.Field
}

// CleanPayload strips an incidental markdown code fence and leading filler
// from a model response so the structural parse sees bare JSON. The models
// sometimes wrap payloads in ```json fences or prefix a stray token.
func CleanPayload(s string) string {
	s = strings.TrimSpace(s)

	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		s = strings.TrimPrefix(s, "json")
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	s = strings.TrimSpace(s)

	// A stray leading character before the payload body is trimmed as a
	// best effort; anything worse is left for the structural parse to flag.
	if len(s) > 1 && s[0] != '{' && s[0] != '[' && (s[1] == '{' || s[1] == '[') {
		s = s[1:]
	}

	return strings.TrimSpace(s)
}

// ParseRecord decodes a full-record extraction response. Structural failure
// is classified as ErrUnparseable; the caller degrades the record instead of
// aborting the batch.
func ParseRecord(raw string) (RecordResult, error) {
	cleaned := CleanPayload(raw)

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return RecordResult{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	result := RecordResult{
		Product:  fieldFromJSON(payload["product"]),
		Location: fieldFromJSON(payload["location"]),
		Price:    fieldFromJSON(payload["price"]),
		Domain:   fieldFromJSON(payload["domain"]),
	}
	if result.Product.IsUnknown() {
		// Some responses name the category product_name instead.
		result.Product = fieldFromJSON(payload["product_name"])
	}

	return result, nil
}

// fieldFromJSON normalizes the model's loose value typing: a category may
// come back as null, a string, a number, or a list of either.
func fieldFromJSON(raw json.RawMessage) models.Field {
	if len(raw) == 0 || string(raw) == "null" {
		return models.UnknownField()
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return models.SingleField(single)
	}

	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return models.SingleField(strconv.FormatFloat(number, 'f', -1, 64))
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		var values []string
		for _, item := range list {
			if f := fieldFromJSON(item); !f.IsUnknown() {
				values = append(values, f.Values()...)
			}
		}
		return models.MultiField(values...)
	}

	return models.UnknownField()
}

// ParseList splits a location-normalization response into its items,
// tolerating bracket wrapping and quoting around each element.
func ParseList(raw string) []string {
	cleaned := strings.Trim(CleanPayload(raw), "[]")
	var items []string
	for _, item := range strings.Split(cleaned, ",") {
		item = strings.Trim(strings.TrimSpace(item), `'"`)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
