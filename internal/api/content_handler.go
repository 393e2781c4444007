package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/portfolio-api/internal/apperror"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/repository"
	"github.com/portfolio-api/internal/service"
)

type filterKind int

const (
	filterEquals filterKind = iota
	filterBool
	filterContains
)

// queryFilter maps a list query parameter onto a document field.
type queryFilter struct {
	param string
	field string
	kind  filterKind
}

// ContentHandler serves the CRUD routes of one content type
type ContentHandler[D models.Document, P models.Patch[D]] struct {
	svc     service.ContentService[D, P]
	filters []queryFilter
	removed string
	log     zerolog.Logger
}

// NewProjectHandler creates the handler for /api/projects
func NewProjectHandler(svc service.ProjectService, log zerolog.Logger) *ContentHandler[*models.Project, models.ProjectPatch] {
	return &ContentHandler[*models.Project, models.ProjectPatch]{
		svc: svc,
		filters: []queryFilter{
			{param: "category", field: "category", kind: filterEquals},
			{param: "featured", field: "featured", kind: filterBool},
			{param: "technology", field: "technologies", kind: filterContains},
		},
		removed: "Project removed",
		log:     log.With().Str("handler", "projects").Logger(),
	}
}

// NewBlogHandler creates the handler for /api/blog
func NewBlogHandler(svc service.BlogService, log zerolog.Logger) *ContentHandler[*models.BlogPost, models.BlogPostPatch] {
	return &ContentHandler[*models.BlogPost, models.BlogPostPatch]{
		svc: svc,
		filters: []queryFilter{
			{param: "tag", field: "tags", kind: filterContains},
			{param: "featured", field: "featured", kind: filterBool},
			{param: "author", field: "author", kind: filterEquals},
		},
		removed: "Blog post removed",
		log:     log.With().Str("handler", "blog").Logger(),
	}
}

// List handles GET /api/<resource>
func (h *ContentHandler[D, P]) List(c *gin.Context) {
	f, err := h.filterFromQuery(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	docs, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// Get handles GET /api/<resource>/:id
func (h *ContentHandler[D, P]) Get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GetBy returns a handler looking documents up by the path parameter
// named after field, e.g. GET /api/blog/slug/:slug.
func (h *ContentHandler[D, P]) GetBy(field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := h.svc.GetBy(c.Request.Context(), field, c.Param(field))
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

// Create handles POST /api/<resource>
func (h *ContentHandler[D, P]) Create(c *gin.Context) {
	payload, err := h.bindPayload(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	doc, err := h.svc.Create(c.Request.Context(), payload)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// Update handles PUT /api/<resource>/:id
func (h *ContentHandler[D, P]) Update(c *gin.Context) {
	payload, err := h.bindPayload(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	doc, err := h.svc.Update(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Delete handles DELETE /api/<resource>/:id
func (h *ContentHandler[D, P]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.removed})
}

// bindPayload decodes the JSON body. An empty body is an empty payload.
func (h *ContentHandler[D, P]) bindPayload(c *gin.Context) (P, error) {
	var payload P
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		return payload, apperror.InvalidBody(err)
	}
	return payload, nil
}

func (h *ContentHandler[D, P]) filterFromQuery(c *gin.Context) (repository.Filter, error) {
	var f repository.Filter
	for _, qf := range h.filters {
		raw, ok := c.GetQuery(qf.param)
		if !ok || raw == "" {
			continue
		}

		switch qf.kind {
		case filterBool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return f, apperror.BadRequest(qf.param + " must be true or false")
			}
			f = f.Where(qf.field, b)
		case filterContains:
			f = f.Has(qf.field, raw)
		default:
			f = f.Where(qf.field, raw)
		}
	}
	return f, nil
}
