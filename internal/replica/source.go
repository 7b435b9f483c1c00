package replica

import (
	"context"
	"log"

	"gamescope/app/internal/backend"
)

// Decoder turns a raw document into a typed record.
type Decoder[T any] func(backend.Document) (T, error)

// Source describes where a list comes from.
type Source[T any] struct {
	Store      backend.DocumentStore
	Collection string
	Query      backend.Query
	Decode     Decoder[T]
	// Logger receives a warning for every dropped document.
	// Nil means the standard logger.
	Logger *log.Logger
}

// Fetch lists the collection and decodes each document. Documents that
// fail to decode are dropped and logged; they never fail the whole fetch.
func (s Source[T]) Fetch(ctx context.Context) ([]T, error) {
	docs, err := s.Store.ListDocuments(ctx, s.Collection, s.Query)
	if err != nil {
		return nil, err
	}

	records := make([]T, 0, len(docs))
	for _, doc := range docs {
		rec, err := s.Decode(doc)
		if err != nil {
			s.warnf("Warning: dropping malformed %s document %q: %v", s.Collection, doc.ID, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s Source[T]) warnf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
