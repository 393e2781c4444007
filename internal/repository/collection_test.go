package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/portfolio-api/internal/models"
)

func sampleProject() *models.Project {
	now := models.Now()
	live := "https://demo.example"
	p := &models.Project{
		Title:        "Portfolio",
		Description:  "Site",
		Image:        "https://i/1.png",
		Technologies: []string{"go", "mongo"},
		Category:     "Backend",
		LiveURL:      &live,
		Featured:     true,
	}
	p.Touch(now)
	return p
}

func samplePost() *models.BlogPost {
	readTime := 4
	b := &models.BlogPost{
		Title:       "Hello",
		Slug:        "hello",
		Excerpt:     "Short",
		Content:     "<p>Body</p>",
		Author:      "Me",
		PublishedAt: models.Now(),
		ReadTime:    &readTime,
		Tags:        []string{"go"},
	}
	b.Touch(models.Now())
	return b
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestMongoEncodeDecodeRoundTrip(t *testing.T) {
	r := &mongoCollection[*models.Project]{schema: models.ProjectSchema}
	oid := primitive.NewObjectID()
	p := sampleProject()

	doc, err := r.encode(oid, p)
	require.NoError(t, err)
	require.NotEmpty(t, doc)
	assert.Equal(t, "_id", doc[0].Key)
	assert.Equal(t, oid, doc[0].Value)
	for _, e := range doc {
		assert.NotEqual(t, "id", e.Key)
	}

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	got, err := r.decode(bson.Raw(raw))
	require.NoError(t, err)

	// the body returned on create must match the one read back
	p.SetID(oid.Hex())
	assert.JSONEq(t, mustJSON(t, p), mustJSON(t, got))
	assert.Equal(t, p.CreatedAt, got.CreatedAt)
}

func TestMongoRoundTripBlogPost(t *testing.T) {
	r := &mongoCollection[*models.BlogPost]{schema: models.BlogPostSchema}
	oid := primitive.NewObjectID()
	b := samplePost()

	doc, err := r.encode(oid, b)
	require.NoError(t, err)
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	got, err := r.decode(bson.Raw(raw))
	require.NoError(t, err)

	b.SetID(oid.Hex())
	assert.JSONEq(t, mustJSON(t, b), mustJSON(t, got))
}

func TestMongoDecodeNormalizes(t *testing.T) {
	r := &mongoCollection[*models.Project]{schema: models.ProjectSchema}
	oid := primitive.NewObjectID()

	raw, err := bson.Marshal(bson.D{
		{Key: "_id", Value: oid},
		{Key: "title", Value: "Legacy"},
		{Key: "technologies", Value: nil},
	})
	require.NoError(t, err)

	got, err := r.decode(bson.Raw(raw))
	require.NoError(t, err)
	assert.Equal(t, oid.Hex(), got.ID)
	assert.Equal(t, []string{}, got.Technologies)
	assert.Nil(t, got.LiveURL)
}

func TestPostgresEncodeDecodeRoundTrip(t *testing.T) {
	r := &pgCollection[*models.BlogPost]{schema: models.BlogPostSchema}
	b := samplePost()
	b.SetID("6f0e3b4e-1d2c-4b5a-9e8f-7a6b5c4d3e2f")

	raw, err := r.encode(b)
	require.NoError(t, err)

	got, err := r.decode(b.ID, raw)
	require.NoError(t, err)
	assert.JSONEq(t, mustJSON(t, b), mustJSON(t, got))

	created, updated := timestamps(got)
	assert.Equal(t, b.CreatedAt, created)
	assert.Equal(t, b.UpdatedAt, updated)
}

func TestPostgresDecodeNormalizes(t *testing.T) {
	r := &pgCollection[*models.BlogPost]{schema: models.BlogPostSchema}

	got, err := r.decode("6f0e3b4e-1d2c-4b5a-9e8f-7a6b5c4d3e2f", []byte(`{"title":"T","tags":null}`))
	require.NoError(t, err)
	assert.Equal(t, "6f0e3b4e-1d2c-4b5a-9e8f-7a6b5c4d3e2f", got.ID)
	assert.Equal(t, []string{}, got.Tags)

	_, err = r.decode("6f0e3b4e-1d2c-4b5a-9e8f-7a6b5c4d3e2f", []byte(`{not json`))
	assert.Error(t, err)
}

func TestTimestamps(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &models.Project{}
	p.Touch(created)
	p.Touch(created.Add(time.Minute))

	c, u := timestamps(p)
	assert.Equal(t, created, c)
	assert.Equal(t, created.Add(time.Minute), u)
}
