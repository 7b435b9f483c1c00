// Package testutil provides an in-memory backend for tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gamescope/app/internal/backend"
)

// Operation names accepted by FailNext, FailWhen, Hold and Calls.
const (
	OpCurrentUser       = "currentUser"
	OpCreateSession     = "createSession"
	OpDeleteSession     = "deleteSession"
	OpUpdateDisplayName = "updateDisplayName"
	OpList              = "list"
	OpGet               = "get"
	OpCreate            = "create"
	OpUpdate            = "update"
	OpDelete            = "delete"
)

type account struct {
	user     backend.User
	password string
}

// Backend is an in-memory implementation of backend.Client.
//
// Errors are returned as opaque messages, like a hosted SDK would, so tests
// also exercise the message classifier.
//
// Thread-safety: all methods are safe for concurrent use.
type Backend struct {
	mu       sync.Mutex
	accounts map[string]*account
	current  string
	docs     map[string]map[string]backend.Document
	clock    time.Time
	calls    map[string]int
	queued   map[string][]error
	hooks    map[string]func(collection, id string) error
	holds    map[string]chan struct{}
}

// NewBackend returns an empty backend with no signed-in user.
func NewBackend() *Backend {
	return &Backend{
		accounts: make(map[string]*account),
		docs:     make(map[string]map[string]backend.Document),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		calls:    make(map[string]int),
		queued:   make(map[string][]error),
		hooks:    make(map[string]func(string, string) error),
		holds:    make(map[string]chan struct{}),
	}
}

// AddUser registers an account.
func (b *Backend) AddUser(user backend.User, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[user.ID] = &account{user: user, password: password}
}

// SignIn makes userID the current session user.
func (b *Backend) SignIn(userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = userID
}

// Expire drops the current session, as if the token expired server-side.
func (b *Backend) Expire() {
	b.SignIn("")
}

// User returns the stored account.
func (b *Backend) User(id string) backend.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a, ok := b.accounts[id]; ok {
		return a.user
	}
	return backend.User{}
}

// Seed stores a document directly, bypassing failure injection.
func (b *Backend) Seed(collection, id string, data map[string]any) backend.Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.put(collection, id, data)
}

// Docs returns the stored documents of a collection in creation order.
func (b *Backend) Docs(collection string) []backend.Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sorted(collection)
}

// FailNext queues err for the next call of op.
func (b *Backend) FailNext(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queued[op] = append(b.queued[op], err)
}

// FailWhen installs a hook consulted on every call of op. A non-nil result
// fails that call.
func (b *Backend) FailWhen(op string, fn func(collection, id string) error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks[op] = fn
}

// Hold blocks every call of op until the returned release func is called
// or the call's context is cancelled.
func (b *Backend) Hold(op string) (release func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan struct{})
	b.holds[op] = ch
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			if b.holds[op] == ch {
				delete(b.holds, op)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns how many times op was invoked.
func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

// TotalCalls returns the number of calls across all operations.
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

// enter records the call, waits on any hold and returns an injected error.
func (b *Backend) enter(ctx context.Context, op, collection, id string) error {
	b.mu.Lock()
	b.calls[op]++
	hold := b.holds[op]
	b.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if q := b.queued[op]; len(q) > 0 {
		b.queued[op] = q[1:]
		return q[0]
	}
	if hook := b.hooks[op]; hook != nil {
		if err := hook(collection, id); err != nil {
			return err
		}
	}
	if op != OpCreateSession && b.current == "" {
		return errors.New("401 unauthorized: no active session")
	}
	return nil
}

// region --- Auth ---

func (b *Backend) CurrentUser(ctx context.Context) (backend.User, error) {
	if err := b.enter(ctx, OpCurrentUser, "", ""); err != nil {
		return backend.User{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accounts[b.current].user, nil
}

func (b *Backend) CreateSession(ctx context.Context, email, password string) (backend.User, error) {
	if err := b.enter(ctx, OpCreateSession, "", ""); err != nil {
		return backend.User{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, a := range b.accounts {
		if a.user.Email == email && a.password == password {
			b.current = id
			return a.user, nil
		}
	}
	return backend.User{}, errors.New("401 unauthorized: invalid credentials")
}

func (b *Backend) DeleteSession(ctx context.Context) error {
	if err := b.enter(ctx, OpDeleteSession, "", ""); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = ""
	return nil
}

func (b *Backend) UpdateDisplayName(ctx context.Context, name string) (backend.User, error) {
	if err := b.enter(ctx, OpUpdateDisplayName, "", ""); err != nil {
		return backend.User{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.accounts[b.current]
	a.user.Name = name
	return a.user, nil
}

// endregion

// region --- Documents ---

func (b *Backend) ListDocuments(ctx context.Context, collection string, q backend.Query) ([]backend.Document, error) {
	if err := b.enter(ctx, OpList, collection, ""); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []backend.Document
	for _, doc := range b.sorted(collection) {
		if matches(doc, q.Filters) {
			out = append(out, doc)
		}
	}
	if q.OrderDesc != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return fmt.Sprint(out[i].Data[q.OrderDesc]) > fmt.Sprint(out[j].Data[q.OrderDesc])
		})
	}
	return out, nil
}

func (b *Backend) GetDocument(ctx context.Context, collection, id string) (backend.Document, error) {
	if err := b.enter(ctx, OpGet, collection, id); err != nil {
		return backend.Document{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	doc, ok := b.docs[collection][id]
	if !ok {
		return backend.Document{}, notFound(collection, id)
	}
	return clone(doc), nil
}

func (b *Backend) CreateDocument(ctx context.Context, collection, id string, data map[string]any) (backend.Document, error) {
	if err := b.enter(ctx, OpCreate, collection, id); err != nil {
		return backend.Document{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.docs[collection][id]; exists {
		return backend.Document{}, fmt.Errorf("409 conflict: document %s/%s already exists", collection, id)
	}
	return b.put(collection, id, data), nil
}

func (b *Backend) UpdateDocument(ctx context.Context, collection, id string, data map[string]any) (backend.Document, error) {
	if err := b.enter(ctx, OpUpdate, collection, id); err != nil {
		return backend.Document{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	doc, ok := b.docs[collection][id]
	if !ok {
		return backend.Document{}, notFound(collection, id)
	}
	for k, v := range data {
		doc.Data[k] = v
	}
	b.clock = b.clock.Add(time.Second)
	doc.UpdatedAt = b.clock
	b.docs[collection][id] = doc
	return clone(doc), nil
}

func (b *Backend) DeleteDocument(ctx context.Context, collection, id string) error {
	if err := b.enter(ctx, OpDelete, collection, id); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.docs[collection][id]; !ok {
		return notFound(collection, id)
	}
	delete(b.docs[collection], id)
	return nil
}

// endregion

func (b *Backend) put(collection, id string, data map[string]any) backend.Document {
	if b.docs[collection] == nil {
		b.docs[collection] = make(map[string]backend.Document)
	}
	b.clock = b.clock.Add(time.Second)
	doc := backend.Document{
		ID:         id,
		Collection: collection,
		CreatedAt:  b.clock,
		UpdatedAt:  b.clock,
		Data:       make(map[string]any, len(data)),
	}
	for k, v := range data {
		doc.Data[k] = v
	}
	b.docs[collection][id] = doc
	return clone(doc)
}

func (b *Backend) sorted(collection string) []backend.Document {
	out := make([]backend.Document, 0, len(b.docs[collection]))
	for _, doc := range b.docs[collection] {
		out = append(out, clone(doc))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func matches(doc backend.Document, filters []backend.Filter) bool {
	for _, f := range filters {
		if doc.Data[f.Field] != f.Value {
			return false
		}
	}
	return true
}

func clone(doc backend.Document) backend.Document {
	data := make(map[string]any, len(doc.Data))
	for k, v := range doc.Data {
		data[k] = v
	}
	doc.Data = data
	return doc
}

func notFound(collection, id string) error {
	return fmt.Errorf("404 not found: document %s/%s", collection, id)
}

var _ backend.Client = (*Backend)(nil)
