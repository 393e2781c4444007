package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/portfolio-api/internal/apperror"
	"github.com/portfolio-api/internal/models"
)

func validProject() *models.Project {
	return &models.Project{
		Title:        "X",
		Description:  "Y",
		Image:        "https://i/1.png",
		Technologies: []string{},
		Category:     "Backend",
	}
}

func validPost() *models.BlogPost {
	return &models.BlogPost{
		Title:       "Hello",
		Slug:        "hello",
		Excerpt:     "Short",
		Content:     "<p>Body</p>",
		Author:      "Me",
		PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Tags:        []string{},
	}
}

func TestValidateProject(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name       string
		mutate     func(p *models.Project)
		wantErrors int
		wantFields []string
	}{
		{
			name:       "valid project",
			mutate:     func(p *models.Project) {},
			wantErrors: 0,
		},
		{
			name:       "missing title",
			mutate:     func(p *models.Project) { p.Title = "" },
			wantErrors: 1,
			wantFields: []string{"title"},
		},
		{
			name:       "whitespace-only category",
			mutate:     func(p *models.Project) { p.Category = "   " },
			wantErrors: 1,
			wantFields: []string{"category"},
		},
		{
			name: "every required field missing",
			mutate: func(p *models.Project) {
				*p = models.Project{}
			},
			wantErrors: 4,
			wantFields: []string{"title", "description", "image", "category"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProject()
			tt.mutate(p)

			errs := validator.Validate(p)
			if len(errs) != tt.wantErrors {
				t.Fatalf("Validate() returned %d errors, want %d: %+v", len(errs), tt.wantErrors, errs)
			}
			for i, field := range tt.wantFields {
				if errs[i].Field != field {
					t.Errorf("errs[%d].Field = %q, want %q", i, errs[i].Field, field)
				}
			}
		})
	}
}

func TestValidateBlogPost(t *testing.T) {
	validator := NewValidator()
	negative := -1

	tests := []struct {
		name       string
		mutate     func(b *models.BlogPost)
		wantFields []string
	}{
		{
			name:   "valid post",
			mutate: func(b *models.BlogPost) {},
		},
		{
			name:       "missing slug",
			mutate:     func(b *models.BlogPost) { b.Slug = "" },
			wantFields: []string{"slug"},
		},
		{
			name:       "zero publishedAt",
			mutate:     func(b *models.BlogPost) { b.PublishedAt = time.Time{} },
			wantFields: []string{"publishedAt"},
		},
		{
			name:       "negative readTime",
			mutate:     func(b *models.BlogPost) { b.ReadTime = &negative },
			wantFields: []string{"readTime"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validPost()
			tt.mutate(b)

			errs := validator.Validate(b)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("Validate() returned %d errors, want %d: %+v", len(errs), len(tt.wantFields), errs)
			}
			for i, field := range tt.wantFields {
				if errs[i].Field != field {
					t.Errorf("errs[%d].Field = %q, want %q", i, errs[i].Field, field)
				}
			}
		})
	}
}

func TestValidateContact(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name       string
		req        models.ContactRequest
		wantFields []string
	}{
		{
			name: "valid submission",
			req:  models.ContactRequest{Name: "A", Email: "a@example.com", Message: "hi"},
		},
		{
			name:       "invalid email format",
			req:        models.ContactRequest{Name: "A", Email: "not-an-email", Message: "hi"},
			wantFields: []string{"email"},
		},
		{
			name:       "everything missing",
			req:        models.ContactRequest{},
			wantFields: []string{"name", "email", "message"},
		},
		{
			name: "subject too long",
			req: models.ContactRequest{
				Name: "A", Email: "a@example.com", Message: "hi",
				Subject: strings.Repeat("s", 201),
			},
			wantFields: []string{"subject"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validator.Validate(tt.req)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("Validate() returned %d errors, want %d: %+v", len(errs), len(tt.wantFields), errs)
			}
			for i, field := range tt.wantFields {
				if errs[i].Field != field {
					t.Errorf("errs[%d].Field = %q, want %q", i, errs[i].Field, field)
				}
			}
		})
	}
}

func TestCheck(t *testing.T) {
	validator := NewValidator()

	if err := validator.Check("Project", validProject()); err != nil {
		t.Fatalf("Check() on valid project = %v, want nil", err)
	}

	p := validProject()
	p.Title = ""
	p.Image = ""
	err := validator.Check("Project", p)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Check() = %v, want ErrValidation", err)
	}

	want := "Project validation failed: title is required, image is required"
	if err.Error() != want {
		t.Errorf("Check() message = %q, want %q", err.Error(), want)
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatal("Check() should return *apperror.AppError")
	}
	if len(appErr.Fields) != 2 {
		t.Errorf("Fields = %v, want [title image]", appErr.Fields)
	}
}
