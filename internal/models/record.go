package models

import (
	"fmt"
	"strings"

	"gamescope/app/internal/backend"

	"github.com/go-viper/mapstructure/v2"
)

// Collection names shared by the client and the server.
const (
	CollectionGames     = "games"
	CollectionReviews   = "reviews"
	CollectionFavorites = "favorites"
)

// MissingFieldError reports a document that lacks a required field.
type MissingFieldError struct {
	Collection string
	ID         string
	Field      string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s/%s: missing required field %q", e.Collection, e.ID, e.Field)
}

// decodeDocument copies doc.Data into out after checking that every
// required field is present and non-blank.
func decodeDocument(doc backend.Document, out any, required ...string) error {
	for _, field := range required {
		v, ok := doc.Data[field]
		if !ok || v == nil {
			return &MissingFieldError{Collection: doc.Collection, ID: doc.ID, Field: field}
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			return &MissingFieldError{Collection: doc.Collection, ID: doc.ID, Field: field}
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "doc",
		Result:  out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(doc.Data); err != nil {
		return fmt.Errorf("%s/%s: %w", doc.Collection, doc.ID, err)
	}
	return nil
}
