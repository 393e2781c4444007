package models

import (
	"sort"
	"time"
)

// Now returns the current UTC time at millisecond precision, the finest
// resolution BSON dates keep, so a document reads back with the timestamps
// it was written with.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Document is implemented by every entity persisted in the document store.
type Document interface {
	GetID() string
	SetID(id string)
	// Touch sets UpdatedAt, and CreatedAt when it has not been set yet.
	Touch(now time.Time)
	GetTimestamps() Timestamps
	// Normalize replaces nil collections with empty ones.
	Normalize()
	// UniqueKeys returns field -> value for every field under a uniqueness constraint.
	UniqueKeys() map[string]string
}

// Defaulter is implemented by documents with creation-time defaults that
// depend on the clock.
type Defaulter interface {
	ApplyDefaults(now time.Time)
}

// Patch is a partial payload for D. Only present fields are applied.
type Patch[D Document] interface {
	ApplyTo(d D)
}

// Schema describes one entity type.
type Schema[D Document] struct {
	Name       string // display name used in messages, e.g. "Project"
	Collection string // table / collection name
	New        func() D
}

// UniqueFields lists the fields under a uniqueness constraint, sorted.
func (s Schema[D]) UniqueFields() []string {
	keys := s.New().UniqueKeys()
	fields := make([]string, 0, len(keys))
	for f := range keys {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Timestamps is embedded by documents to get createdAt/updatedAt handling.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Touch implements Document.
func (t *Timestamps) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// GetTimestamps implements Document.
func (t Timestamps) GetTimestamps() Timestamps { return t }

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
