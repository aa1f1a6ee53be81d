// Package memstore is a small typed in-memory table with sequential ids. The
// memory repositories of each service are thin wrappers over it.
package memstore

import (
	"errors"
	"sort"
	"sync"
)

// ErrDuplicate is returned when a write would give two rows the same unique
// key.
var ErrDuplicate = errors.New("duplicate key")

// Table stores values of T keyed by a service-local sequential id. Values are
// copied in and out, so callers never share a row with the table.
type Table[T any] struct {
	mu   sync.RWMutex
	rows map[int64]T
	next int64
}

func New[T any]() *Table[T] {
	return &Table[T]{rows: make(map[int64]T)}
}

// Insert allocates the next id and stores the value built for it.
func (t *Table[T]) Insert(build func(id int64) T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	v := build(t.next)
	t.rows[t.next] = v
	return v
}

// InsertUnique is Insert that fails with ErrDuplicate when another row
// already has the new row's key. key must return a comparable value.
func (t *Table[T]) InsertUnique(build func(id int64) T, key func(T) any) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := build(t.next + 1)
	if t.clashLocked(0, key(v), key) {
		var zero T
		return zero, ErrDuplicate
	}
	t.next++
	t.rows[t.next] = v
	return v, nil
}

func (t *Table[T]) Get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	return v, ok
}

// Find returns the lowest-id row matching fn.
func (t *Table[T]) Find(fn func(T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, id := range t.sortedIDs() {
		if v := t.rows[id]; fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// List returns rows in id order. limit <= 0 means no limit.
func (t *Table[T]) List(limit, offset int) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := t.sortedIDs()
	if offset < 0 {
		offset = 0
	}
	if offset > len(ids) {
		return []T{}
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}

// Update applies fn to a copy of the row under the write lock and stores the
// result only if fn succeeds. The read-modify-write is atomic with respect to
// every other Table call.
func (t *Table[T]) Update(id int64, fn func(*T) error) (T, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updateLocked(id, fn)
}

// UpdateWhere is Update for the lowest-id row matching match.
func (t *Table[T]) UpdateWhere(match func(T) bool, fn func(*T) error) (T, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range t.sortedIDs() {
		if match(t.rows[id]) {
			return t.updateLocked(id, fn)
		}
	}
	var zero T
	return zero, false, nil
}

// UpdateUnique is Update that also rejects the result with ErrDuplicate when
// another row has the same key.
func (t *Table[T]) UpdateUnique(id int64, fn func(*T) error, key func(T) any) (T, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updateLocked(id, func(v *T) error {
		if err := fn(v); err != nil {
			return err
		}
		if t.clashLocked(id, key(*v), key) {
			return ErrDuplicate
		}
		return nil
	})
}

func (t *Table[T]) clashLocked(self int64, k any, key func(T) any) bool {
	for id, row := range t.rows {
		if id != self && key(row) == k {
			return true
		}
	}
	return false
}

func (t *Table[T]) updateLocked(id int64, fn func(*T) error) (T, bool, error) {
	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false, nil
	}
	if err := fn(&v); err != nil {
		return t.rows[id], true, err
	}
	t.rows[id] = v
	return v, true, nil
}

func (t *Table[T]) Delete(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func (t *Table[T]) sortedIDs() []int64 {
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
