// Package backend describes the hosted auth + document-store collaborator
// the client talks to. Screens depend on these interfaces only.
package backend

import (
	"context"
	"time"
)

// User is the authenticated account as seen by the client.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Document is one persisted record in a named collection.
type Document struct {
	ID         string         `json:"id"`
	Collection string         `json:"collection"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Data       map[string]any `json:"data"`
}

// Filter is an equality predicate on a single field.
type Filter struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// Query narrows a list call. Filters are ANDed; OrderDesc, when set, sorts
// by that field descending. There is no pagination: lists are unbounded.
type Query struct {
	Filters   []Filter
	OrderDesc string
}

// Equal is shorthand for building a Filter.
func Equal(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// Where returns a query over the given filters.
func Where(filters ...Filter) Query {
	return Query{Filters: filters}
}

// OrderedDesc returns a copy of q sorted descending by field.
func (q Query) OrderedDesc(field string) Query {
	q.OrderDesc = field
	return q
}

// Auth is the account/session half of the collaborator.
type Auth interface {
	CurrentUser(ctx context.Context) (User, error)
	CreateSession(ctx context.Context, email, password string) (User, error)
	DeleteSession(ctx context.Context) error
	UpdateDisplayName(ctx context.Context, name string) (User, error)
}

// DocumentStore is the document half of the collaborator.
// DeleteDocument fails with a NotFound error when the ID is already gone.
type DocumentStore interface {
	ListDocuments(ctx context.Context, collection string, q Query) ([]Document, error)
	GetDocument(ctx context.Context, collection, id string) (Document, error)
	CreateDocument(ctx context.Context, collection, id string, data map[string]any) (Document, error)
	UpdateDocument(ctx context.Context, collection, id string, data map[string]any) (Document, error)
	DeleteDocument(ctx context.Context, collection, id string) error
}

// Client is the full collaborator.
type Client interface {
	Auth
	DocumentStore
}
