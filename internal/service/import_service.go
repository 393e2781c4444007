package service

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/portfolio-api/internal/apperror"
	"github.com/portfolio-api/internal/models"
)

const maxLineBytes = 1024 * 1024

// Import creates one document per NDJSON line read from r. Lines that fail
// to parse or validate are reported and skipped; processing continues. A
// store outage aborts the import and is returned together with the partial
// result.
func Import[D models.Document, P models.Patch[D]](ctx context.Context, svc ContentService[D, P], r io.Reader, log zerolog.Logger) (*models.ImportResult, error) {
	schema := svc.Schema()
	log = log.With().Str("service", "import").Str("resource", schema.Collection).Logger()

	result := &models.ImportResult{Resource: schema.Collection}

	scanner := bufio.NewScanner(r)
	// Increase buffer size for long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineBytes)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			continue
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		result.Total++

		var payload P
		if err := json.Unmarshal([]byte(line), &payload); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, decodeLineError(lineNum, err))
			continue
		}

		if _, err := svc.Create(ctx, payload); err != nil {
			if errors.Is(err, apperror.ErrUnavailable) {
				log.Error().Err(err).Int("line", lineNum).Msg("Import aborted")
				return result, err
			}
			result.Failed++
			result.Errors = append(result.Errors, lineError(lineNum, err))
			continue
		}
		result.Successful++
	}

	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("reading line %d: %w", lineNum+1, err)
	}

	log.Info().
		Int("total", result.Total).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("Import completed")

	return result, nil
}

func decodeLineError(line int, err error) models.LineError {
	appErr := apperror.InvalidBody(err)
	if len(appErr.Fields) > 0 {
		return models.LineError{Line: line, Field: appErr.Fields[0], Message: appErr.Message}
	}
	return models.LineError{Line: line, Field: "json", Message: "invalid JSON"}
}

func lineError(line int, err error) models.LineError {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return models.LineError{
			Line:    line,
			Field:   strings.Join(appErr.Fields, ","),
			Message: appErr.Message,
		}
	}
	return models.LineError{Line: line, Message: err.Error()}
}
