package mocks

import (
	"context"
	"encoding/json"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/portfolio-api/internal/apperror"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/repository"
)

var (
	_ repository.Collection[*models.Project]  = (*MemoryCollection[*models.Project])(nil)
	_ repository.Collection[*models.BlogPost] = (*MemoryCollection[*models.BlogPost])(nil)
)

// MemoryCollection is an in-memory implementation of repository.Collection.
// It hands out copies so callers cannot mutate stored documents, keys
// documents by UUID and enforces the schema's unique fields.
type MemoryCollection[D models.Document] struct {
	mu     sync.Mutex
	schema models.Schema[D]
	docs   []D

	// Err, when set, is returned by every operation.
	Err          error
	InsertError  error
	ReplaceError error
	DeleteError  error
	InsertCalls  int
}

func NewMemoryCollection[D models.Document](schema models.Schema[D]) *MemoryCollection[D] {
	return &MemoryCollection[D]{schema: schema}
}

// NewRepositories returns in-memory repositories for both content types.
func NewRepositories() (*repository.Repositories, *MemoryCollection[*models.Project], *MemoryCollection[*models.BlogPost]) {
	projects := NewMemoryCollection(models.ProjectSchema)
	posts := NewMemoryCollection(models.BlogPostSchema)
	return &repository.Repositories{Projects: projects, Posts: posts}, projects, posts
}

// Len returns the number of stored documents.
func (m *MemoryCollection[D]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

func (m *MemoryCollection[D]) List(ctx context.Context, f repository.Filter) ([]D, error) {
	docs := []D{}
	err := m.Stream(ctx, f, func(d D) error {
		docs = append(docs, d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (m *MemoryCollection[D]) Stream(ctx context.Context, f repository.Filter, fn func(D) error) error {
	m.mu.Lock()
	if m.Err != nil {
		m.mu.Unlock()
		return m.Err
	}
	var matched []D
	for _, d := range m.docs {
		if matches(d, f) {
			matched = append(matched, m.clone(d))
		}
	}
	m.mu.Unlock()

	for _, d := range matched {
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryCollection[D]) Count(ctx context.Context, f repository.Filter) (int, error) {
	docs, err := m.List(ctx, f)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (m *MemoryCollection[D]) Get(ctx context.Context, id string) (D, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero D
	if m.Err != nil {
		return zero, m.Err
	}
	if _, err := uuid.Parse(id); err != nil {
		return zero, apperror.InvalidKey(m.schema.Name, id)
	}
	i := m.indexOf(id)
	if i < 0 {
		return zero, apperror.NotFound(m.schema.Name, id)
	}
	return m.clone(m.docs[i]), nil
}

func (m *MemoryCollection[D]) FindOne(ctx context.Context, f repository.Filter) (D, error) {
	docs, err := m.List(ctx, f)
	if err != nil {
		var zero D
		return zero, err
	}
	if len(docs) == 0 {
		var zero D
		field, value := "filter", f.String()
		if conds := f.Conditions(); len(conds) > 0 {
			field, value = conds[0].Field, toString(conds[0].Value)
		}
		return zero, apperror.NotFoundBy(m.schema.Name, field, value)
	}
	return docs[0], nil
}

func (m *MemoryCollection[D]) Insert(ctx context.Context, d D) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InsertCalls++
	if m.Err != nil {
		return m.Err
	}
	if m.InsertError != nil {
		return m.InsertError
	}
	if err := m.checkUnique(d, ""); err != nil {
		return err
	}

	d.SetID(uuid.NewString())
	m.docs = append(m.docs, m.clone(d))
	return nil
}

func (m *MemoryCollection[D]) Replace(ctx context.Context, d D) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if m.ReplaceError != nil {
		return m.ReplaceError
	}
	id := d.GetID()
	if _, err := uuid.Parse(id); err != nil {
		return apperror.InvalidKey(m.schema.Name, id)
	}
	i := m.indexOf(id)
	if i < 0 {
		return apperror.NotFound(m.schema.Name, id)
	}
	if err := m.checkUnique(d, id); err != nil {
		return err
	}

	m.docs[i] = m.clone(d)
	return nil
}

func (m *MemoryCollection[D]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperror.InvalidKey(m.schema.Name, id)
	}
	i := m.indexOf(id)
	if i < 0 {
		return apperror.NotFound(m.schema.Name, id)
	}

	m.docs = append(m.docs[:i], m.docs[i+1:]...)
	return nil
}

func (m *MemoryCollection[D]) indexOf(id string) int {
	for i, d := range m.docs {
		if d.GetID() == id {
			return i
		}
	}
	return -1
}

func (m *MemoryCollection[D]) checkUnique(d D, selfID string) error {
	for field, value := range d.UniqueKeys() {
		for _, other := range m.docs {
			if other.GetID() != selfID && other.UniqueKeys()[field] == value {
				return apperror.Conflict(m.schema.Name, field, value)
			}
		}
	}
	return nil
}

func (m *MemoryCollection[D]) clone(d D) D {
	data, err := json.Marshal(d)
	if err != nil {
		panic(err)
	}
	c := m.schema.New()
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}
	return c
}

// matches evaluates f against the JSON form of d, the same view the
// Postgres containment query sees.
func matches(d models.Document, f repository.Filter) bool {
	var fields map[string]interface{}
	data, _ := json.Marshal(d)
	_ = json.Unmarshal(data, &fields)

	for _, c := range f.Conditions() {
		want := normalize(c.Value)
		got := fields[c.Field]
		if !c.Contains {
			if !reflect.DeepEqual(got, want) {
				return false
			}
			continue
		}
		items, _ := got.([]interface{})
		found := false
		for _, item := range items {
			if reflect.DeepEqual(item, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func normalize(v interface{}) interface{} {
	var out interface{}
	data, _ := json.Marshal(v)
	_ = json.Unmarshal(data, &out)
	return out
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, _ := json.Marshal(v)
	return string(data)
}
