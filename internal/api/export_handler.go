package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/portfolio-api/internal/apperror"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/repository"
	"github.com/portfolio-api/internal/service"
)

// Resources accepted by the export and import endpoints.
const (
	resourceProjects = "projects"
	resourceBlog     = "blog"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /api/exports?resource=...&format=...
// Streams the export directly to the response
func (h *ExportHandler) StreamExport(c *gin.Context) {
	ctx := c.Request.Context()

	resource, err := resourceParam(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	format := c.Query("format")
	if format == "" {
		format = models.FormatNDJSON // Default to NDJSON for streaming
	}
	if format != models.FormatNDJSON && format != models.FormatJSON {
		respondError(c, h.log, apperror.BadRequest("format must be one of: ndjson, json"))
		return
	}

	c.Header("Content-Type", service.ContentType(format))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", resource, format))

	switch resource {
	case resourceProjects:
		_, err = service.Export[*models.Project, models.ProjectPatch](ctx, h.services.Projects, c.Writer, format, repository.Filter{}, h.log)
	case resourceBlog:
		_, err = service.Export[*models.BlogPost, models.BlogPostPatch](ctx, h.services.Posts, c.Writer, format, repository.Filter{}, h.log)
	}

	if err != nil {
		// Can't return error JSON after streaming has started
		if !c.Writer.Written() {
			c.Writer.Header().Del("Content-Type")
			c.Writer.Header().Del("Content-Disposition")
			respondError(c, h.log, err)
			return
		}
		h.log.Error().Err(err).Str("resource", resource).Msg("Export failed")
	}
}

func resourceParam(c *gin.Context) (string, error) {
	resource := c.Query("resource")
	switch resource {
	case resourceProjects, resourceBlog:
		return resource, nil
	case "":
		return "", apperror.BadRequest("resource parameter is required (projects, blog)")
	default:
		return "", apperror.BadRequest("resource must be one of: projects, blog")
	}
}
