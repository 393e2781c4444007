package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/portfolio-api/internal/apperror"
	"github.com/portfolio-api/internal/database"
	"github.com/portfolio-api/internal/models"
)

// pgCollection stores documents as JSONB rows keyed by a UUID. The seq
// column keeps insertion order.
type pgCollection[D models.Document] struct {
	db     *database.DB
	schema models.Schema[D]
	table  string
}

// NewPostgresCollection creates a JSONB-backed collection for the schema
func NewPostgresCollection[D models.Document](db *database.DB, schema models.Schema[D]) Collection[D] {
	return &pgCollection[D]{
		db:     db,
		schema: schema,
		table:  pq.QuoteIdentifier(schema.Collection),
	}
}

// List retrieves every matching document
func (r *pgCollection[D]) List(ctx context.Context, f Filter) ([]D, error) {
	docs := []D{}
	err := r.Stream(ctx, f, func(d D) error {
		docs = append(docs, d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Stream streams matching documents to fn
func (r *pgCollection[D]) Stream(ctx context.Context, f Filter, fn func(D) error) error {
	return r.query(ctx, f, 0, fn)
}

func (r *pgCollection[D]) query(ctx context.Context, f Filter, limit int, fn func(D) error) error {
	containment, err := json.Marshal(f.Containment())
	if err != nil {
		return fmt.Errorf("encoding %s filter: %w", r.schema.Name, err)
	}

	query := fmt.Sprintf(`SELECT id, doc FROM %s WHERE doc @> $1::jsonb ORDER BY seq`, r.table)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.db.QueryContext(ctx, query, string(containment))
	if err != nil {
		return r.classify(err, "listing")
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return r.classify(err, "scanning")
		}

		d, err := r.decode(id, raw)
		if err != nil {
			return err
		}
		if err := fn(d); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return r.classify(err, "listing")
	}
	return nil
}

// Count returns the number of matching documents
func (r *pgCollection[D]) Count(ctx context.Context, f Filter) (int, error) {
	containment, err := json.Marshal(f.Containment())
	if err != nil {
		return 0, fmt.Errorf("encoding %s filter: %w", r.schema.Name, err)
	}

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE doc @> $1::jsonb`, r.table)
	if err := r.db.QueryRowContext(ctx, query, string(containment)).Scan(&count); err != nil {
		return 0, r.classify(err, "counting")
	}
	return count, nil
}

// Get retrieves a document by ID
func (r *pgCollection[D]) Get(ctx context.Context, id string) (D, error) {
	var zero D
	if _, err := uuid.Parse(id); err != nil {
		return zero, apperror.InvalidKey(r.schema.Name, id)
	}

	var raw []byte
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, r.table)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, apperror.NotFound(r.schema.Name, id)
	}
	if err != nil {
		return zero, r.classify(err, "fetching")
	}

	return r.decode(id, raw)
}

// FindOne retrieves the first document matching f
func (r *pgCollection[D]) FindOne(ctx context.Context, f Filter) (D, error) {
	var found D
	var ok bool
	err := r.query(ctx, f, 1, func(d D) error {
		found, ok = d, true
		return nil
	})
	if err != nil {
		return found, err
	}
	if !ok {
		field, value := f.describe()
		return found, apperror.NotFoundBy(r.schema.Name, field, value)
	}
	return found, nil
}

// Insert stores a new document under a fresh UUID
func (r *pgCollection[D]) Insert(ctx context.Context, d D) error {
	id := uuid.NewString()
	d.SetID(id)

	raw, err := r.encode(d)
	if err != nil {
		d.SetID("")
		return err
	}

	created, updated := timestamps(d)
	query := fmt.Sprintf(`INSERT INTO %s (id, doc, created_at, updated_at) VALUES ($1, $2, $3, $4)`, r.table)
	if _, err := r.db.ExecContext(ctx, query, id, raw, created, updated); err != nil {
		d.SetID("")
		return r.classifyWrite(err, d, "inserting")
	}
	return nil
}

// Replace overwrites the stored document
func (r *pgCollection[D]) Replace(ctx context.Context, d D) error {
	id := d.GetID()
	if _, err := uuid.Parse(id); err != nil {
		return apperror.InvalidKey(r.schema.Name, id)
	}

	raw, err := r.encode(d)
	if err != nil {
		return err
	}

	_, updated := timestamps(d)
	query := fmt.Sprintf(`UPDATE %s SET doc = $2, updated_at = $3 WHERE id = $1`, r.table)
	res, err := r.db.ExecContext(ctx, query, id, raw, updated)
	if err != nil {
		return r.classifyWrite(err, d, "updating")
	}

	return r.expectOne(res, id)
}

// Delete removes a document by ID
func (r *pgCollection[D]) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.InvalidKey(r.schema.Name, id)
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return r.classify(err, "deleting")
	}

	return r.expectOne(res, id)
}

func (r *pgCollection[D]) expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return r.classify(err, "reading result")
	}
	if n == 0 {
		return apperror.NotFound(r.schema.Name, id)
	}
	return nil
}

func (r *pgCollection[D]) encode(d D) ([]byte, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", r.schema.Name, err)
	}
	return raw, nil
}

func (r *pgCollection[D]) decode(id string, raw []byte) (D, error) {
	d := r.schema.New()
	if err := json.Unmarshal(raw, d); err != nil {
		var zero D
		return zero, fmt.Errorf("decoding %s %s: %w", r.schema.Name, id, err)
	}
	d.SetID(id)
	d.Normalize()
	return d, nil
}

// classifyWrite maps a unique violation to a Conflict naming the field.
func (r *pgCollection[D]) classifyWrite(err error, d D, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		field := constraintField(r.schema.Collection, pqErr.Constraint)
		return apperror.Conflict(r.schema.Name, field, d.UniqueKeys()[field])
	}
	return r.classify(err, op)
}

func (r *pgCollection[D]) classify(err error, op string) error {
	if isPostgresUnavailable(err) {
		return apperror.Unavailable(err)
	}
	return fmt.Errorf("%s %s: %w", op, r.schema.Name, err)
}

// constraintField recovers the field from a <table>_<field>_key index name.
func constraintField(table, constraint string) string {
	prefix := table + "_"
	if !strings.HasPrefix(constraint, prefix) || !strings.HasSuffix(constraint, "_key") {
		return "id"
	}
	field := strings.TrimSuffix(strings.TrimPrefix(constraint, prefix), "_key")
	if field == "" {
		return "id"
	}
	return field
}

func isPostgresUnavailable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code.Class() == "08": // connection exception
			return true
		case pqErr.Code == "57P01", pqErr.Code == "57P03", pqErr.Code == "53300":
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &netErr)
}

func timestamps(d models.Document) (created, updated time.Time) {
	ts := d.GetTimestamps()
	return ts.CreatedAt, ts.UpdatedAt
}
