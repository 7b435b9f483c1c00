// Package mongostore keeps each document collection in a MongoDB collection
// of the same name.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"gamescope/app/internal/backend"
	"gamescope/app/internal/docstore"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// record is the stored shape. Document fields live under "data" so that
// user fields can never collide with the metadata.
type record struct {
	ID        string         `bson:"_id"`
	Data      map[string]any `bson:"data"`
	CreatedAt time.Time      `bson:"createdAt"`
	UpdatedAt time.Time      `bson:"updatedAt"`
}

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

// Connect dials uri and pings the server before returning.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	log.Println("Connected to MongoDB successfully")
	return &Store{client: client, db: client.Database(database), now: time.Now}, nil
}

func (s *Store) List(ctx context.Context, collection string, q backend.Query) ([]backend.Document, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, buildFilter(q), findOptions(q))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var records []record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	docs := make([]backend.Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, r.toBackend(collection))
	}
	return docs, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (backend.Document, error) {
	var r record
	err := s.db.Collection(collection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&r)
	if err != nil {
		return backend.Document{}, mapError(fmt.Sprintf("get %s/%s", collection, id), err)
	}
	return r.toBackend(collection), nil
}

func (s *Store) Create(ctx context.Context, collection, id string, data map[string]any) (backend.Document, error) {
	now := s.now().UTC().Truncate(time.Millisecond)
	r := record{ID: id, Data: docstore.Merge(nil, data), CreatedAt: now, UpdatedAt: now}

	if _, err := s.db.Collection(collection).InsertOne(ctx, r); err != nil {
		return backend.Document{}, mapError(fmt.Sprintf("create %s/%s", collection, id), err)
	}
	return r.toBackend(collection), nil
}

func (s *Store) Update(ctx context.Context, collection, id string, data map[string]any) (backend.Document, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var r record
	err := s.db.Collection(collection).
		FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, buildUpdate(data, s.now()), opts).
		Decode(&r)
	if err != nil {
		return backend.Document{}, mapError(fmt.Sprintf("update %s/%s", collection, id), err)
	}
	return r.toBackend(collection), nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return mapError(fmt.Sprintf("delete %s/%s", collection, id), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete %s/%s: %w", collection, id, docstore.ErrNotFound)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// buildFilter turns equality filters into a match on the data subdocument.
func buildFilter(q backend.Query) bson.D {
	filter := bson.D{}
	for _, f := range q.Filters {
		filter = append(filter, bson.E{Key: "data." + f.Field, Value: f.Value})
	}
	return filter
}

// findOptions sorts by the requested field, then by insertion.
func findOptions(q backend.Query) *options.FindOptions {
	sortBy := bson.D{}
	if q.OrderDesc != "" {
		sortBy = append(sortBy, bson.E{Key: "data." + q.OrderDesc, Value: -1})
	}
	sortBy = append(sortBy, bson.E{Key: "createdAt", Value: 1})
	return options.Find().SetSort(sortBy)
}

// buildUpdate sets each field individually, so fields not named in data
// are kept.
func buildUpdate(data map[string]any, now time.Time) bson.D {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	set := bson.D{}
	for _, k := range keys {
		set = append(set, bson.E{Key: "data." + k, Value: data[k]})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: now.UTC().Truncate(time.Millisecond)})
	return bson.D{{Key: "$set", Value: set}}
}

func mapError(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, docstore.ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, docstore.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r record) toBackend(collection string) backend.Document {
	return backend.Document{
		ID:         r.ID,
		Collection: collection,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		Data:       plain(r.Data),
	}
}

// plain converts driver container types to the JSON-friendly shapes used
// everywhere else.
func plain(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch val := v.(type) {
	case primitive.D:
		return plain(val.Map())
	case primitive.M:
		return plain(val)
	case primitive.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plainValue(item)
		}
		return out
	case primitive.DateTime:
		return val.Time().UTC()
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	}
	return v
}

var _ docstore.Repository = (*Store)(nil)
