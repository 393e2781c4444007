package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/portfolio-api/internal/apperror"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/repository"
)

type flusher interface {
	Flush()
}

// ContentType returns the media type of an export format.
func ContentType(format string) string {
	if format == models.FormatJSON {
		return "application/json"
	}
	return "application/x-ndjson"
}

// Export streams every document matching f to w as NDJSON or a JSON array
// and returns how many were written. Writers that can flush are flushed
// every 100 documents.
func Export[D models.Document, P models.Patch[D]](ctx context.Context, svc ContentService[D, P], w io.Writer, format string, f repository.Filter, log zerolog.Logger) (int, error) {
	schema := svc.Schema()
	log = log.With().Str("service", "export").Str("resource", schema.Collection).Logger()
	log.Info().Str("format", format).Msg("Starting export")

	var err error
	var count int
	switch format {
	case models.FormatNDJSON:
		count, err = exportNDJSON(ctx, svc, w, f)
	case models.FormatJSON:
		count, err = exportJSON(ctx, svc, w, f)
	default:
		return 0, apperror.BadRequest(fmt.Sprintf("unsupported format: %s", format))
	}

	if err != nil {
		log.Error().Err(err).Int("count", count).Msg("Export failed")
		return count, err
	}
	log.Info().Int("count", count).Msg("Export completed")
	return count, nil
}

func exportNDJSON[D models.Document, P models.Patch[D]](ctx context.Context, svc ContentService[D, P], w io.Writer, f repository.Filter) (int, error) {
	fl, _ := w.(flusher)
	enc := json.NewEncoder(w)
	count := 0

	err := svc.Stream(ctx, f, func(d D) error {
		if err := enc.Encode(d); err != nil {
			return err
		}
		count++

		// Flush every 100 records for streaming
		if count%100 == 0 && fl != nil {
			fl.Flush()
		}
		return nil
	})
	return count, err
}

func exportJSON[D models.Document, P models.Patch[D]](ctx context.Context, svc ContentService[D, P], w io.Writer, f repository.Filter) (int, error) {
	count := 0

	// the opening bracket waits for the first document so a failed read
	// leaves w untouched
	err := svc.Stream(ctx, f, func(d D) error {
		sep := ","
		if count == 0 {
			sep = "["
		}
		if _, err := io.WriteString(w, sep); err != nil {
			return err
		}

		data, err := json.Marshal(d)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, err
	}

	closing := "]"
	if count == 0 {
		closing = "[]"
	}
	_, err = io.WriteString(w, closing)
	return count, err
}
