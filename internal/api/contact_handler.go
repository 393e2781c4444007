package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/portfolio-api/internal/apperror"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/service"
)

// ContactHandler handles the contact form endpoint
type ContactHandler struct {
	svc service.ContactService
	log zerolog.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(svc service.ContactService, log zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		svc: svc,
		log: log.With().Str("handler", "contact").Logger(),
	}
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, apperror.InvalidBody(err))
		return
	}

	if err := h.svc.Submit(c.Request.Context(), req); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message received"})
}
