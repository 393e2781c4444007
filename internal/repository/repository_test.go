package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFilterContainment(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   map[string]interface{}
	}{
		{
			name:   "empty filter matches everything",
			filter: Filter{},
			want:   map[string]interface{}{},
		},
		{
			name:   "equality",
			filter: Where("category", "Backend").Where("featured", true),
			want:   map[string]interface{}{"category": "Backend", "featured": true},
		},
		{
			name:   "membership accumulates",
			filter: Filter{}.Has("tags", "go").Has("tags", "web"),
			want:   map[string]interface{}{"tags": []interface{}{"go", "web"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Containment())
		})
	}
}

func TestFilterIsImmutable(t *testing.T) {
	base := Where("featured", true)
	a := base.Where("category", "A")
	b := base.Where("category", "B")

	assert.Len(t, base.Conditions(), 1)
	assert.Equal(t, "A", a.Conditions()[1].Value)
	assert.Equal(t, "B", b.Conditions()[1].Value)
}

func TestFilterString(t *testing.T) {
	assert.Equal(t, "slug hello", Where("slug", "hello").String())
	assert.True(t, Filter{}.IsEmpty())
}

func TestBsonFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   bson.D
	}{
		{
			name:   "empty",
			filter: Filter{},
			want:   bson.D{},
		},
		{
			name:   "equality and membership",
			filter: Where("featured", false).Has("technologies", "go"),
			want:   bson.D{{Key: "featured", Value: false}, {Key: "technologies", Value: "go"}},
		},
		{
			name:   "repeated membership uses $all",
			filter: Filter{}.Has("tags", "a").Has("tags", "b").Has("tags", "c"),
			want:   bson.D{{Key: "tags", Value: bson.M{"$all": bson.A{"a", "b", "c"}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bsonFilter(tt.filter))
		})
	}
}

func TestConstraintField(t *testing.T) {
	assert.Equal(t, "slug", constraintField("blog_posts", "blog_posts_slug_key"))
	assert.Equal(t, "id", constraintField("blog_posts", "blog_posts_pkey"))
	assert.Equal(t, "id", constraintField("blog_posts", ""))
}

func TestDuplicateField(t *testing.T) {
	msg := `E11000 duplicate key error collection: portfolio.blog_posts index: blog_posts_slug_key dup key: { slug: "hello" }`
	assert.Equal(t, "slug", duplicateField("blog_posts", []string{"slug"}, msg))
	assert.Equal(t, "id", duplicateField("projects", nil, msg))
}
