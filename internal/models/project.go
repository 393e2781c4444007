package models

// Project is a portfolio entry shown on the projects page.
type Project struct {
	ID           string   `json:"id" bson:"-"`
	Title        string   `json:"title" bson:"title" validate:"notblank"`
	Description  string   `json:"description" bson:"description" validate:"notblank"`
	Image        string   `json:"image" bson:"image" validate:"notblank"`
	Technologies []string `json:"technologies" bson:"technologies"`
	Category     string   `json:"category" bson:"category" validate:"notblank"`
	GithubURL    string   `json:"githubUrl,omitempty" bson:"githubUrl,omitempty"`
	LiveURL      *string  `json:"liveUrl" bson:"liveUrl,omitempty"`
	Featured     bool     `json:"featured" bson:"featured"`

	Timestamps `bson:",inline"`
}

// ProjectSchema describes the projects collection.
var ProjectSchema = Schema[*Project]{
	Name:       "Project",
	Collection: "projects",
	New: func() *Project {
		return &Project{Technologies: []string{}}
	},
}

func (p *Project) GetID() string                 { return p.ID }
func (p *Project) SetID(id string)               { p.ID = id }
func (p *Project) UniqueKeys() map[string]string { return map[string]string{} }

// Normalize implements Document.
func (p *Project) Normalize() {
	p.Technologies = emptyIfNil(p.Technologies)
	if p.LiveURL != nil && *p.LiveURL == "" {
		p.LiveURL = nil
	}
}

// ProjectPatch is the create/update payload for a Project.
type ProjectPatch struct {
	Title        Optional[string]   `json:"title"`
	Description  Optional[string]   `json:"description"`
	Image        Optional[string]   `json:"image"`
	Technologies Optional[[]string] `json:"technologies"`
	Category     Optional[string]   `json:"category"`
	GithubURL    Optional[string]   `json:"githubUrl"`
	LiveURL      Optional[*string]  `json:"liveUrl"`
	Featured     Optional[bool]     `json:"featured"`
}

// ApplyTo implements Patch.
func (p ProjectPatch) ApplyTo(d *Project) {
	p.Title.ApplyTo(&d.Title)
	p.Description.ApplyTo(&d.Description)
	p.Image.ApplyTo(&d.Image)
	p.Technologies.ApplyTo(&d.Technologies)
	p.Category.ApplyTo(&d.Category)
	p.GithubURL.ApplyTo(&d.GithubURL)
	p.LiveURL.ApplyTo(&d.LiveURL)
	p.Featured.ApplyTo(&d.Featured)
}
