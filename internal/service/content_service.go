package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/portfolio-api/internal/apperror"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/repository"
	"github.com/portfolio-api/internal/validation"
)

// ContentService defines the content operations for one document type.
// P is the partial payload accepted by Create and Update.
type ContentService[D models.Document, P models.Patch[D]] interface {
	Schema() models.Schema[D]
	List(ctx context.Context, f repository.Filter) ([]D, error)
	Stream(ctx context.Context, f repository.Filter, fn func(D) error) error
	Count(ctx context.Context, f repository.Filter) (int, error)
	Get(ctx context.Context, id string) (D, error)
	GetBy(ctx context.Context, field, value string) (D, error)
	Create(ctx context.Context, payload P) (D, error)
	Update(ctx context.Context, id string, payload P) (D, error)
	Delete(ctx context.Context, id string) error
}

// contentService is the concrete implementation of ContentService
type contentService[D models.Document, P models.Patch[D]] struct {
	repo      repository.Collection[D]
	schema    models.Schema[D]
	validator *validation.Validator
	now       func() time.Time
	log       zerolog.Logger
}

// NewContentService creates a ContentService over repo
func NewContentService[D models.Document, P models.Patch[D]](
	repo repository.Collection[D],
	schema models.Schema[D],
	validator *validation.Validator,
	log zerolog.Logger,
) ContentService[D, P] {
	return newContentService[D, P](repo, schema, validator, models.Now, log)
}

func newContentService[D models.Document, P models.Patch[D]](
	repo repository.Collection[D],
	schema models.Schema[D],
	validator *validation.Validator,
	now func() time.Time,
	log zerolog.Logger,
) *contentService[D, P] {
	return &contentService[D, P]{
		repo:      repo,
		schema:    schema,
		validator: validator,
		now:       now,
		log:       log.With().Str("service", schema.Collection).Logger(),
	}
}

func (s *contentService[D, P]) Schema() models.Schema[D] {
	return s.schema
}

func (s *contentService[D, P]) List(ctx context.Context, f repository.Filter) ([]D, error) {
	return s.repo.List(ctx, f)
}

func (s *contentService[D, P]) Stream(ctx context.Context, f repository.Filter, fn func(D) error) error {
	return s.repo.Stream(ctx, f, fn)
}

func (s *contentService[D, P]) Count(ctx context.Context, f repository.Filter) (int, error) {
	return s.repo.Count(ctx, f)
}

func (s *contentService[D, P]) Get(ctx context.Context, id string) (D, error) {
	return s.repo.Get(ctx, id)
}

// GetBy looks a document up by an alternate key such as a slug.
func (s *contentService[D, P]) GetBy(ctx context.Context, field, value string) (D, error) {
	return s.repo.FindOne(ctx, repository.Where(field, value))
}

// Create validates the payload, fills defaults and timestamps, and stores
// the new document. Nothing is written when validation or the uniqueness
// check fails.
func (s *contentService[D, P]) Create(ctx context.Context, payload P) (D, error) {
	var zero D
	now := s.now()

	d := s.schema.New()
	payload.ApplyTo(d)
	if def, ok := any(d).(models.Defaulter); ok {
		def.ApplyDefaults(now)
	}
	d.Normalize()

	if err := s.validator.Check(s.schema.Name, d); err != nil {
		return zero, err
	}
	if err := s.checkUnique(ctx, d, nil); err != nil {
		return zero, err
	}

	d.Touch(now)
	if err := s.repo.Insert(ctx, d); err != nil {
		return zero, err
	}

	s.log.Info().Str("id", d.GetID()).Msg("Document created")
	return d, nil
}

// Update merges the fields present in payload onto the stored document.
func (s *contentService[D, P]) Update(ctx context.Context, id string, payload P) (D, error) {
	var zero D

	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	before := d.UniqueKeys()

	payload.ApplyTo(d)
	d.SetID(id)
	d.Normalize()

	if err := s.validator.Check(s.schema.Name, d); err != nil {
		return zero, err
	}
	if err := s.checkUnique(ctx, d, before); err != nil {
		return zero, err
	}

	d.Touch(s.now())
	if err := s.repo.Replace(ctx, d); err != nil {
		return zero, err
	}

	s.log.Info().Str("id", id).Msg("Document updated")
	return d, nil
}

func (s *contentService[D, P]) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("id", id).Msg("Document deleted")
	return nil
}

// checkUnique rejects d when another document already holds one of its
// unique values. Fields whose value equals the one in before are skipped.
// The store's unique indexes still catch concurrent writers.
func (s *contentService[D, P]) checkUnique(ctx context.Context, d D, before map[string]string) error {
	for field, value := range d.UniqueKeys() {
		if prev, ok := before[field]; ok && prev == value {
			continue
		}

		other, err := s.repo.FindOne(ctx, repository.Where(field, value))
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			continue
		case err != nil:
			return err
		case other.GetID() != d.GetID():
			return apperror.Conflict(s.schema.Name, field, value)
		}
	}
	return nil
}
