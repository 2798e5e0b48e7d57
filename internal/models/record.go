package models

import (
	"sort"
	"strings"
)

// RawDocument is one scraped JSON file as found on disk. It is never mutated.
type RawDocument struct {
	ID        string   `json:"-"`
	Text      string   `json:"text"`
	Timestamp string   `json:"timestamp"`
	Domains   []string `json:"domain_names"`
	Country   string   `json:"country"`
	Installed string   `json:"installed"`
	Updated   string   `json:"updated"`
	OS        string   `json:"os"`
	Price     float64  `json:"price"`
}

// NormalizedRecord is the canonical row persisted for one source document.
type NormalizedRecord struct {
	ID         int64
	Title      string
	Location   string
	Price      string
	FoundDate  string
	Domains    string
	Timestamp  string
	SourceFile string
}

// VictimRecord is one row of the machine-compromise dataset. Domains holds
// only deduplicated parent domains and TotalDomains their cardinality.
type VictimRecord struct {
	ID           int64
	Domains      string
	TotalDomains int
	Country      string
	Cookies      int
	Installed    string
	Updated      string
	OS           string
	Price        float64
	Filename     string
}

type FieldKind int

const (
	FieldUnknown FieldKind = iota
	FieldSingle
	FieldMultiple
)

// Unknown is the sentinel stored for fields that could not be resolved.
const Unknown = "Unknown"

// Field is an extracted or resolved field value: unknown, a single value, or
// a set of values. Consumers must handle all three kinds.
type Field struct {
	kind   FieldKind
	values []string
}

func UnknownField() Field {
	return Field{kind: FieldUnknown}
}

func SingleField(v string) Field {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, Unknown) {
		return UnknownField()
	}
	return Field{kind: FieldSingle, values: []string{v}}
}

// MultiField builds a field from a candidate set. Duplicates collapse and a
// set of one degrades to a single value, so kind reflects real ambiguity.
func MultiField(vals ...string) Field {
	seen := make(map[string]bool, len(vals))
	var uniq []string
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" || strings.EqualFold(v, Unknown) || seen[v] {
			continue
		}
		seen[v] = true
		uniq = append(uniq, v)
	}
	sort.Strings(uniq)
	switch len(uniq) {
	case 0:
		return UnknownField()
	case 1:
		return Field{kind: FieldSingle, values: uniq}
	default:
		return Field{kind: FieldMultiple, values: uniq}
	}
}

func (f Field) Kind() FieldKind { return f.kind }

func (f Field) IsUnknown() bool { return f.kind == FieldUnknown }

// Value returns the single value, or the Unknown sentinel for anything else.
func (f Field) Value() string {
	if f.kind == FieldSingle {
		return f.values[0]
	}
	return Unknown
}

func (f Field) Values() []string {
	out := make([]string, len(f.values))
	copy(out, f.values)
	return out
}

// String renders the field the way rows store it: the Unknown sentinel, the
// single value, or the comma-joined set.
func (f Field) String() string {
	if f.kind == FieldUnknown {
		return Unknown
	}
	return strings.Join(f.values, ", ")
}
