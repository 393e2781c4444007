package models

import (
	"bytes"
	"encoding/json"
)

// Optional holds a field of a partial payload. Set is true whenever the field
// appeared in the JSON body, including an explicit null, so "omitted" and
// "present with a zero value" stay distinguishable.
type Optional[T any] struct {
	Value T
	Set   bool
}

// UnmarshalJSON marks the field present. null resets Value to the zero value.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// ApplyTo overwrites *dst when the field was present.
func (o Optional[T]) ApplyTo(dst *T) {
	if o.Set {
		*dst = o.Value
	}
}
