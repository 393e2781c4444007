package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portfolio-api/internal/apperror"
	"github.com/portfolio-api/internal/database"
	"github.com/portfolio-api/internal/models"
)

// mongoCollection stores documents with an ObjectID _id. Documents carry
// their id outside the bson encoding, so it is spliced in on write and
// read back from the raw document.
type mongoCollection[D models.Document] struct {
	coll   *mongo.Collection
	schema models.Schema[D]
}

// NewMongoCollection creates a MongoDB-backed collection for the schema
func NewMongoCollection[D models.Document](m *database.MongoDB, schema models.Schema[D]) Collection[D] {
	return &mongoCollection[D]{
		coll:   m.DB.Collection(schema.Collection),
		schema: schema,
	}
}

// List retrieves every matching document
func (r *mongoCollection[D]) List(ctx context.Context, f Filter) ([]D, error) {
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

// Stream streams matching documents to fn, oldest first
func (r *mongoCollection[D]) Stream(ctx context.Context, f Filter, fn func(D) error) error {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bsonFilter(f), opts)
	if err != nil {
		return r.classify(err, "listing")
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		d, err := r.decode(cur.Current)
		if err != nil {
			return err
		}
		if err := fn(d); err != nil {
			return err
		}
	}
	if err := cur.Err(); err != nil {
		return r.classify(err, "listing")
	}
	return nil
}

// Count returns the number of matching documents
func (r *mongoCollection[D]) Count(ctx context.Context, f Filter) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bsonFilter(f))
	if err != nil {
		return 0, r.classify(err, "counting")
	}
	return int(n), nil
}

// Get retrieves a document by ID
func (r *mongoCollection[D]) Get(ctx context.Context, id string) (D, error) {
	var zero D
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return zero, apperror.InvalidKey(r.schema.Name, id)
	}

	raw, err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return zero, apperror.NotFound(r.schema.Name, id)
	}
	if err != nil {
		return zero, r.classify(err, "fetching")
	}
	return r.decode(raw)
}

// FindOne retrieves the first document matching f
func (r *mongoCollection[D]) FindOne(ctx context.Context, f Filter) (D, error) {
	var zero D
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	raw, err := r.coll.FindOne(ctx, bsonFilter(f), opts).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		field, value := f.describe()
		return zero, apperror.NotFoundBy(r.schema.Name, field, value)
	}
	if err != nil {
		return zero, r.classify(err, "fetching")
	}
	return r.decode(raw)
}

// Insert stores a new document under a fresh ObjectID
func (r *mongoCollection[D]) Insert(ctx context.Context, d D) error {
	oid := primitive.NewObjectID()
	doc, err := r.encode(oid, d)
	if err != nil {
		return err
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return r.classifyWrite(err, d, "inserting")
	}
	d.SetID(oid.Hex())
	return nil
}

// Replace overwrites the stored document
func (r *mongoCollection[D]) Replace(ctx context.Context, d D) error {
	oid, err := primitive.ObjectIDFromHex(d.GetID())
	if err != nil {
		return apperror.InvalidKey(r.schema.Name, d.GetID())
	}

	doc, err := r.encode(oid, d)
	if err != nil {
		return err
	}

	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, doc)
	if err != nil {
		return r.classifyWrite(err, d, "updating")
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound(r.schema.Name, d.GetID())
	}
	return nil
}

// Delete removes a document by ID
func (r *mongoCollection[D]) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperror.InvalidKey(r.schema.Name, id)
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return r.classify(err, "deleting")
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound(r.schema.Name, id)
	}
	return nil
}

// encode marshals d and prepends the _id element.
func (r *mongoCollection[D]) encode(oid primitive.ObjectID, d D) (bson.D, error) {
	raw, err := bson.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", r.schema.Name, err)
	}

	var fields bson.D
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", r.schema.Name, err)
	}
	return append(bson.D{{Key: "_id", Value: oid}}, fields...), nil
}

func (r *mongoCollection[D]) decode(raw bson.Raw) (D, error) {
	d := r.schema.New()
	if err := bson.Unmarshal(raw, d); err != nil {
		var zero D
		return zero, fmt.Errorf("decoding %s: %w", r.schema.Name, err)
	}
	if oid, ok := raw.Lookup("_id").ObjectIDOK(); ok {
		d.SetID(oid.Hex())
	}
	d.Normalize()
	return d, nil
}

func (r *mongoCollection[D]) classifyWrite(err error, d D, op string) error {
	if mongo.IsDuplicateKeyError(err) {
		field := duplicateField(r.schema.Collection, r.schema.UniqueFields(), err.Error())
		return apperror.Conflict(r.schema.Name, field, d.UniqueKeys()[field])
	}
	return r.classify(err, op)
}

func (r *mongoCollection[D]) classify(err error, op string) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.Is(err, context.DeadlineExceeded) {
		return apperror.Unavailable(err)
	}
	return fmt.Errorf("%s %s: %w", op, r.schema.Name, err)
}

// bsonFilter renders f as a MongoDB query. Equality on an array field
// matches any element, so membership needs no operator unless the same
// field is tested more than once.
func bsonFilter(f Filter) bson.D {
	filter := bson.D{}
	seen := map[string]int{}

	for _, c := range f.Conditions() {
		i, dup := seen[c.Field]
		switch {
		case !dup:
			seen[c.Field] = len(filter)
			filter = append(filter, bson.E{Key: c.Field, Value: c.Value})
		case c.Contains:
			filter[i].Value = appendAll(filter[i].Value, c.Value)
		default:
			filter[i].Value = c.Value
		}
	}
	return filter
}

func appendAll(existing, value interface{}) bson.M {
	if all, ok := existing.(bson.M); ok {
		all["$all"] = append(all["$all"].(bson.A), value)
		return all
	}
	return bson.M{"$all": bson.A{existing, value}}
}

// duplicateField picks the unique field whose index the server named in
// the duplicate key error.
func duplicateField(collection string, fields []string, msg string) string {
	for _, f := range fields {
		if strings.Contains(msg, database.UniqueIndexName(collection, f)) {
			return f
		}
	}
	if len(fields) > 0 {
		return fields[0]
	}
	return "id"
}
