// Package firestorestore keeps documents in Cloud Firestore. Collections map
// one to one; document fields are stored as top-level Firestore fields.
package firestorestore

import (
	"context"
	"fmt"
	"sort"

	"gamescope/app/internal/backend"
	"gamescope/app/internal/docstore"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Store struct {
	client *firestore.Client
}

// Connect opens a client for projectID using application default credentials.
func Connect(ctx context.Context, projectID string) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("connect to Firestore: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) List(ctx context.Context, collection string, q backend.Query) ([]backend.Document, error) {
	query := s.client.Collection(collection).Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, "==", f.Value)
	}
	if q.OrderDesc != "" {
		query = query.OrderBy(q.OrderDesc, firestore.Desc)
	}

	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, mapError(fmt.Sprintf("list %s", collection), err)
	}

	docs := make([]backend.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, toBackend(collection, snap))
	}
	if q.OrderDesc == "" {
		docstore.SortCreated(docs)
	}
	return docs, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (backend.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return backend.Document{}, mapError(fmt.Sprintf("get %s/%s", collection, id), err)
	}
	return toBackend(collection, snap), nil
}

func (s *Store) Create(ctx context.Context, collection, id string, data map[string]any) (backend.Document, error) {
	ref := s.client.Collection(collection).Doc(id)
	if _, err := ref.Create(ctx, data); err != nil {
		return backend.Document{}, mapError(fmt.Sprintf("create %s/%s", collection, id), err)
	}
	return s.Get(ctx, collection, id)
}

func (s *Store) Update(ctx context.Context, collection, id string, data map[string]any) (backend.Document, error) {
	ref := s.client.Collection(collection).Doc(id)
	if _, err := ref.Update(ctx, toUpdates(data)); err != nil {
		return backend.Document{}, mapError(fmt.Sprintf("update %s/%s", collection, id), err)
	}
	return s.Get(ctx, collection, id)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	// Without the precondition Firestore deletes missing documents silently.
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		return mapError(fmt.Sprintf("delete %s/%s", collection, id), err)
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	return s.client.Close()
}

// toUpdates addresses each key as a single field path, so keys containing
// dots are not split into nested paths.
func toUpdates(data map[string]any) []firestore.Update {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: data[k]})
	}
	return updates
}

func mapError(op string, err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%s: %w", op, docstore.ErrNotFound)
	case codes.AlreadyExists:
		return fmt.Errorf("%s: %w", op, docstore.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func toBackend(collection string, snap *firestore.DocumentSnapshot) backend.Document {
	return backend.Document{
		ID:         snap.Ref.ID,
		Collection: collection,
		CreatedAt:  snap.CreateTime,
		UpdatedAt:  snap.UpdateTime,
		Data:       snap.Data(),
	}
}

var _ docstore.Repository = (*Store)(nil)
