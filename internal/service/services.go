package service

import (
	"github.com/rs/zerolog"

	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/mailer"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/repository"
	"github.com/portfolio-api/internal/validation"
)

type (
	ProjectService = ContentService[*models.Project, models.ProjectPatch]
	BlogService    = ContentService[*models.BlogPost, models.BlogPostPatch]
)

// Services holds all service interfaces
type Services struct {
	Projects ProjectService
	Posts    BlogService
	Contact  ContactService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, m mailer.Mailer, cfg *config.Config, log zerolog.Logger) *Services {
	v := validation.NewValidator()

	return &Services{
		Projects: NewContentService[*models.Project, models.ProjectPatch](repos.Projects, models.ProjectSchema, v, log),
		Posts:    NewContentService[*models.BlogPost, models.BlogPostPatch](repos.Posts, models.BlogPostSchema, v, log),
		Contact:  newContactService(m, v, cfg.Contact.Recipient, log),
	}
}
