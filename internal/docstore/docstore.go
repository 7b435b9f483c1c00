// Package docstore defines the storage contract behind the document API and
// the helpers shared by its drivers.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gamescope/app/internal/backend"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrConflict = errors.New("document already exists")
)

// Repository stores schemaless documents grouped in named collections.
//
// Implementations return ErrNotFound and ErrConflict (possibly wrapped) so
// handlers can map them to status codes without knowing the driver.
type Repository interface {
	List(ctx context.Context, collection string, q backend.Query) ([]backend.Document, error)
	Get(ctx context.Context, collection, id string) (backend.Document, error)
	Create(ctx context.Context, collection, id string, data map[string]any) (backend.Document, error)
	// Update merges data into the stored fields and returns the result.
	Update(ctx context.Context, collection, id string, data map[string]any) (backend.Document, error)
	Delete(ctx context.Context, collection, id string) error
	Close(ctx context.Context) error
}

// Matches reports whether data satisfies every equality filter.
func Matches(data map[string]any, filters []backend.Filter) bool {
	for _, f := range filters {
		v, ok := data[f.Field]
		if !ok || !equalValues(v, f.Value) {
			return false
		}
	}
	return true
}

// SortDesc orders docs by field, descending. Documents lacking the field sort
// last; ties keep creation order.
func SortDesc(docs []backend.Document, field string) {
	if field == "" {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		a, aok := docs[i].Data[field]
		b, bok := docs[j].Data[field]
		switch {
		case !aok:
			return false
		case !bok:
			return true
		}
		return compareValues(a, b) > 0
	})
}

// SortCreated orders docs oldest first.
func SortCreated(docs []backend.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})
}

// Merge returns a copy of base with patch applied on top.
func Merge(base, patch map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

func equalValues(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func compareValues(a, b any) int {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	sa, sb := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
