// Package replica keeps screen-local copies of remote collections: it
// fetches documents, reconciles them into an ordered in-memory list, and
// applies mutations to that list by ID once the backend has acknowledged them.
package replica

import "sync"

// Keyed is a record with a stable backend-assigned ID.
type Keyed interface {
	comparable
	Key() string
}

// List is an ordered in-memory collection of records.
//
// Records are held by pointer. A record that is not touched by a mutation or
// a refresh keeps its pointer, so callers can compare pointers to detect
// which rows changed. Every mutation addresses records by ID, never by
// position, so out-of-order completions cannot hit the wrong row.
//
// Each mutation is also journaled under a version number. A refresh that
// started before a mutation replays it over the fetched records, so local
// changes survive a fetch that was already in flight when they were made.
type List[T Keyed] struct {
	mu      sync.RWMutex
	items   []*T
	version uint64
	journal []mutation[T]
}

type mutation[T Keyed] struct {
	version uint64
	apply   func(l *List[T])
}

// NewList returns a list holding items in order.
func NewList[T Keyed](items ...T) *List[T] {
	l := &List[T]{}
	for _, item := range items {
		rec := item
		l.items = append(l.items, &rec)
	}
	return l
}

// Items returns a snapshot of the current records. The pointers are shared
// with the list and must be treated as read-only.
func (l *List[T]) Items() []*T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*T, len(l.items))
	copy(out, l.items)
	return out
}

// Values returns a copy of the current records.
func (l *List[T]) Values() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, len(l.items))
	for i, p := range l.items {
		out[i] = *p
	}
	return out
}

func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Find returns the record with the given ID.
func (l *List[T]) Find(id string) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.index(id); i >= 0 {
		return *l.items[i], true
	}
	var zero T
	return zero, false
}

// Version returns the number of the latest local mutation. Pass it to
// Reconcile to replay every mutation made after this point.
func (l *List[T]) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

// Replace swaps in a freshly fetched set and forgets the journal. Records
// whose value is unchanged keep their existing pointer.
func (l *List[T]) Replace(fetched []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.replace(fetched)
	l.journal = nil
}

// Reconcile swaps in records fetched as of version since, then replays the
// mutations made after it. Journal entries at or before since are dropped.
func (l *List[T]) Reconcile(fetched []T, since uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.replace(fetched)

	kept := l.journal[:0]
	for _, m := range l.journal {
		if m.version <= since {
			continue
		}
		m.apply(l)
		kept = append(kept, m)
	}
	clear(l.journal[len(kept):])
	l.journal = kept
}

func (l *List[T]) replace(fetched []T) {
	existing := make(map[string]*T, len(l.items))
	for _, p := range l.items {
		existing[(*p).Key()] = p
	}

	next := make([]*T, 0, len(fetched))
	for _, rec := range fetched {
		if p, ok := existing[rec.Key()]; ok && *p == rec {
			next = append(next, p)
			continue
		}
		r := rec
		next = append(next, &r)
	}
	l.items = next
}

// record journals fn and applies it. l.mu must be held.
func (l *List[T]) record(fn func(l *List[T])) {
	l.version++
	l.journal = append(l.journal, mutation[T]{version: l.version, apply: fn})
	fn(l)
}

// Prepend inserts rec at the front. A record with the same ID is removed first.
func (l *List[T]) Prepend(rec T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(func(l *List[T]) {
		l.remove(rec.Key())
		r := rec
		l.items = append([]*T{&r}, l.items...)
	})
}

// Append inserts rec at the end. A record with the same ID is removed first.
func (l *List[T]) Append(rec T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(func(l *List[T]) {
		l.remove(rec.Key())
		r := rec
		l.items = append(l.items, &r)
	})
}

// Patch replaces the record with the given ID by fn applied to it.
// It reports whether a record was found.
func (l *List[T]) Patch(id string, fn func(T) T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.index(id) < 0 {
		return false
	}
	l.record(func(l *List[T]) { l.patch(id, fn) })
	return true
}

// Remove deletes the record with the given ID and reports whether it existed.
func (l *List[T]) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	found := l.index(id) >= 0
	l.record(func(l *List[T]) { l.remove(id) })
	return found
}

func (l *List[T]) patch(id string, fn func(T) T) {
	i := l.index(id)
	if i < 0 {
		return
	}
	next := fn(*l.items[i])
	if next != *l.items[i] {
		l.items[i] = &next
	}
}

func (l *List[T]) remove(id string) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	return true
}

func (l *List[T]) index(id string) int {
	for i, p := range l.items {
		if (*p).Key() == id {
			return i
		}
	}
	return -1
}
