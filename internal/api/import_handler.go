package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/portfolio-api/internal/apperror"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/service"
)

const maxUploadSize = 10 << 20

// ImportHandler handles import endpoints
type ImportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(services *service.Services, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		services: services,
		log:      log.With().Str("handler", "import").Logger(),
	}
}

// CreateImport handles POST /api/imports?resource=...
// Accepts an NDJSON file upload (multipart field "file") or a raw NDJSON body
// and imports it synchronously.
func (h *ImportHandler) CreateImport(c *gin.Context) {
	ctx := c.Request.Context()

	resource, err := resourceParam(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	var body io.Reader = c.Request.Body
	if c.ContentType() == "multipart/form-data" {
		file, err := h.uploadedFile(c)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		defer file.Close()
		body = file
	}

	h.log.Info().Str("resource", resource).Msg("Starting import")

	var result *models.ImportResult
	switch resource {
	case resourceProjects:
		result, err = service.Import[*models.Project, models.ProjectPatch](ctx, h.services.Projects, body, h.log)
	case resourceBlog:
		result, err = service.Import[*models.BlogPost, models.BlogPostPatch](ctx, h.services.Posts, body, h.log)
	}

	if err != nil {
		if tooLarge(err) {
			err = errTooLarge
		}
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

var errTooLarge = apperror.BadRequest("file too large, max size is 10 MB")

// uploadedFile opens the multipart field "file". Unreadable uploads are
// rejected as bad requests.
func (h *ImportHandler) uploadedFile(c *gin.Context) (multipart.File, error) {
	fh, err := c.FormFile("file")
	switch {
	case err == nil:
		return fh.Open()
	case errors.Is(err, http.ErrMissingFile):
		return nil, apperror.BadRequest(`multipart upload must carry the NDJSON file in field "file"`)
	case tooLarge(err):
		return nil, errTooLarge
	default:
		return nil, apperror.BadRequest("malformed multipart upload")
	}
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
