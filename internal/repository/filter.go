package repository

import (
	"fmt"
	"strings"
)

// Condition is one clause of a Filter.
type Condition struct {
	Field string
	Value interface{}
	// Contains matches array fields holding Value instead of fields equal to it.
	Contains bool
}

// Filter is a conjunction of conditions. The zero Filter matches everything.
type Filter struct {
	conds []Condition
}

// Where matches documents whose field equals value.
func Where(field string, value interface{}) Filter {
	return Filter{}.Where(field, value)
}

// Has matches documents whose array field contains value.
func Has(field string, value interface{}) Filter {
	return Filter{}.Has(field, value)
}

// Where adds an equality condition.
func (f Filter) Where(field string, value interface{}) Filter {
	return f.with(Condition{Field: field, Value: value})
}

// Has adds a condition matching array fields that contain value.
func (f Filter) Has(field string, value interface{}) Filter {
	return f.with(Condition{Field: field, Value: value, Contains: true})
}

func (f Filter) with(c Condition) Filter {
	conds := make([]Condition, len(f.conds), len(f.conds)+1)
	copy(conds, f.conds)
	return Filter{conds: append(conds, c)}
}

// Conditions returns the clauses in the order they were added.
func (f Filter) Conditions() []Condition {
	return f.conds
}

// IsEmpty reports whether the filter matches everything.
func (f Filter) IsEmpty() bool {
	return len(f.conds) == 0
}

// String renders the filter as "field value" pairs for messages.
func (f Filter) String() string {
	parts := make([]string, 0, len(f.conds))
	for _, c := range f.conds {
		parts = append(parts, fmt.Sprintf("%s %v", c.Field, c.Value))
	}
	return strings.Join(parts, " and ")
}

// Containment renders the filter as a JSON containment document:
// equality becomes {"field": value}, membership {"field": [value, ...]}.
func (f Filter) Containment() map[string]interface{} {
	doc := make(map[string]interface{}, len(f.conds))
	for _, c := range f.conds {
		if !c.Contains {
			doc[c.Field] = c.Value
			continue
		}
		values, _ := doc[c.Field].([]interface{})
		doc[c.Field] = append(values, c.Value)
	}
	return doc
}

func (f Filter) describe() (field, value string) {
	if len(f.conds) == 0 {
		return "filter", "(none)"
	}
	c := f.conds[0]
	return c.Field, fmt.Sprint(c.Value)
}
