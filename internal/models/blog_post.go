package models

import "time"

// BlogPost is an article on the blog. Slug is the public lookup key and is
// unique across all posts.
type BlogPost struct {
	ID          string    `json:"id" bson:"-"`
	Title       string    `json:"title" bson:"title" validate:"notblank"`
	Slug        string    `json:"slug" bson:"slug" validate:"notblank"`
	Excerpt     string    `json:"excerpt" bson:"excerpt" validate:"notblank"`
	Content     string    `json:"content" bson:"content" validate:"required"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	Author      string    `json:"author" bson:"author" validate:"notblank"`
	PublishedAt time.Time `json:"publishedAt" bson:"publishedAt" validate:"required"`
	ReadTime    *int      `json:"readTime,omitempty" bson:"readTime,omitempty" validate:"omitempty,gte=0"`
	Tags        []string  `json:"tags" bson:"tags"`
	Featured    bool      `json:"featured" bson:"featured"`

	Timestamps `bson:",inline"`
}

// BlogPostSchema describes the blog_posts collection.
var BlogPostSchema = Schema[*BlogPost]{
	Name:       "BlogPost",
	Collection: "blog_posts",
	New: func() *BlogPost {
		return &BlogPost{Tags: []string{}}
	},
}

func (b *BlogPost) GetID() string   { return b.ID }
func (b *BlogPost) SetID(id string) { b.ID = id }

// UniqueKeys implements Document.
func (b *BlogPost) UniqueKeys() map[string]string {
	return map[string]string{"slug": b.Slug}
}

// Normalize implements Document. publishedAt is brought to the precision
// of Now.
func (b *BlogPost) Normalize() {
	b.Tags = emptyIfNil(b.Tags)
	if !b.PublishedAt.IsZero() {
		b.PublishedAt = b.PublishedAt.UTC().Truncate(time.Millisecond)
	}
}

// ApplyDefaults sets publishedAt to the creation time when it was omitted.
func (b *BlogPost) ApplyDefaults(now time.Time) {
	if b.PublishedAt.IsZero() {
		b.PublishedAt = now
	}
}

// BlogPostPatch is the create/update payload for a BlogPost.
type BlogPostPatch struct {
	Title       Optional[string]    `json:"title"`
	Slug        Optional[string]    `json:"slug"`
	Excerpt     Optional[string]    `json:"excerpt"`
	Content     Optional[string]    `json:"content"`
	Image       Optional[string]    `json:"image"`
	Author      Optional[string]    `json:"author"`
	PublishedAt Optional[time.Time] `json:"publishedAt"`
	ReadTime    Optional[*int]      `json:"readTime"`
	Tags        Optional[[]string]  `json:"tags"`
	Featured    Optional[bool]      `json:"featured"`
}

// ApplyTo implements Patch.
func (p BlogPostPatch) ApplyTo(d *BlogPost) {
	p.Title.ApplyTo(&d.Title)
	p.Slug.ApplyTo(&d.Slug)
	p.Excerpt.ApplyTo(&d.Excerpt)
	p.Content.ApplyTo(&d.Content)
	p.Image.ApplyTo(&d.Image)
	p.Author.ApplyTo(&d.Author)
	p.PublishedAt.ApplyTo(&d.PublishedAt)
	p.ReadTime.ApplyTo(&d.ReadTime)
	p.Tags.ApplyTo(&d.Tags)
	p.Featured.ApplyTo(&d.Featured)
}
