package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantValue bool
	}{
		{name: "absent", body: `{}`, wantSet: false, wantValue: false},
		{name: "explicit false", body: `{"featured":false}`, wantSet: true, wantValue: false},
		{name: "explicit true", body: `{"featured":true}`, wantSet: true, wantValue: true},
		{name: "null", body: `{"featured":null}`, wantSet: true, wantValue: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p ProjectPatch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			assert.Equal(t, tt.wantSet, p.Featured.Set)
			assert.Equal(t, tt.wantValue, p.Featured.Value)
		})
	}
}

func TestProjectPatchApplyTo(t *testing.T) {
	live := "https://example.com"
	stored := func() *Project {
		return &Project{
			Title:        "Portfolio",
			Description:  "Personal site",
			Image:        "https://i/1.png",
			Technologies: []string{"go"},
			Category:     "Web",
			LiveURL:      &live,
			Featured:     true,
		}
	}

	t.Run("empty patch preserves everything", func(t *testing.T) {
		p := stored()
		var patch ProjectPatch
		require.NoError(t, json.Unmarshal([]byte(`{}`), &patch))
		patch.ApplyTo(p)
		assert.Equal(t, stored(), p)
	})

	t.Run("false overrides true", func(t *testing.T) {
		p := stored()
		var patch ProjectPatch
		require.NoError(t, json.Unmarshal([]byte(`{"featured":false}`), &patch))
		patch.ApplyTo(p)
		assert.False(t, p.Featured)
		assert.Equal(t, "Portfolio", p.Title)
	})

	t.Run("empty string and empty array override", func(t *testing.T) {
		p := stored()
		var patch ProjectPatch
		require.NoError(t, json.Unmarshal([]byte(`{"title":"","technologies":[]}`), &patch))
		patch.ApplyTo(p)
		assert.Equal(t, "", p.Title)
		assert.Equal(t, []string{}, p.Technologies)
	})

	t.Run("null clears liveUrl", func(t *testing.T) {
		p := stored()
		var patch ProjectPatch
		require.NoError(t, json.Unmarshal([]byte(`{"liveUrl":null}`), &patch))
		patch.ApplyTo(p)
		assert.Nil(t, p.LiveURL)
	})
}

func TestProjectJSONShape(t *testing.T) {
	p := ProjectSchema.New()
	p.Normalize()

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, []interface{}{}, got["technologies"])
	assert.Equal(t, false, got["featured"])
	assert.Contains(t, got, "liveUrl")
	assert.Nil(t, got["liveUrl"])
	assert.NotContains(t, got, "githubUrl")
	assert.Contains(t, got, "createdAt")
}

func TestBlogPostDefaults(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	b := BlogPostSchema.New()
	b.ApplyDefaults(now)
	assert.Equal(t, now, b.PublishedAt)

	earlier := now.Add(-48 * time.Hour)
	b = &BlogPost{PublishedAt: earlier}
	b.ApplyDefaults(now)
	assert.Equal(t, earlier, b.PublishedAt)
}

func TestTouch(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	p := &Project{}
	p.Touch(created)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, created, p.UpdatedAt)

	p.Touch(updated)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, updated, p.UpdatedAt)
}

func TestUniqueFields(t *testing.T) {
	assert.Empty(t, ProjectSchema.UniqueFields())
	assert.Equal(t, []string{"slug"}, BlogPostSchema.UniqueFields())
}

func TestNormalize(t *testing.T) {
	empty := ""
	p := &Project{LiveURL: &empty}
	p.Normalize()
	assert.NotNil(t, p.Technologies)
	assert.Nil(t, p.LiveURL)

	b := &BlogPost{}
	b.Normalize()
	assert.Equal(t, []string{}, b.Tags)
}

func TestNowIsMillisecondUTC(t *testing.T) {
	now := Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%int(time.Millisecond))
}

func TestNormalizeTruncatesPublishedAt(t *testing.T) {
	b := &BlogPost{PublishedAt: time.Date(2024, 3, 1, 12, 0, 0, 731719747, time.FixedZone("CEST", 2*3600))}
	b.Normalize()
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 731000000, time.UTC), b.PublishedAt)
}
