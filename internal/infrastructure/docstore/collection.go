package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Collection is an ordered sequence of records of one type with an id index.
// Records are handled by value: readers get copies and writers put whole
// records back through a Tx.
type Collection[T any] struct {
	store *Store
	name  string
	key   func(*T) string

	mu      sync.RWMutex
	loaded  bool
	records []T
	index   map[string]int
}

func (c *Collection[T]) Name() string {
	return c.name
}

// Load reads the collection from the backend unless it is already cached.
// Absent or empty storage becomes an empty collection that is written back
// immediately.
func (c *Collection[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(ctx)
}

func (c *Collection[T]) loadLocked(ctx context.Context) error {
	if c.loaded {
		return nil
	}

	data, err := c.store.backend.Read(ctx, c.name)
	if err != nil {
		return &IOError{Op: "read", Collection: c.name, Err: err}
	}

	records := []T{}
	if len(bytes.TrimSpace(data)) == 0 {
		if err := c.writeLocked(ctx, records); err != nil {
			return err
		}
	} else if err := json.Unmarshal(data, &records); err != nil {
		return &IOError{Op: "decode", Collection: c.name, Err: err}
	}
	if records == nil {
		records = []T{}
	}

	index, err := c.buildIndex(records)
	if err != nil {
		return &IOError{Op: "decode", Collection: c.name, Err: err}
	}

	c.records = records
	c.index = index
	c.loaded = true
	return nil
}

func (c *Collection[T]) buildIndex(records []T) (map[string]int, error) {
	index := make(map[string]int, len(records))
	for i := range records {
		id := c.key(&records[i])
		if id == "" {
			return nil, fmt.Errorf("record %d: %w", i, ErrEmptyKey)
		}
		if _, exists := index[id]; exists {
			return nil, fmt.Errorf("record %d (%s): %w", i, id, ErrDuplicateKey)
		}
		index[id] = i
	}
	return index, nil
}

func (c *Collection[T]) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loaded = false
	c.records = nil
	c.index = nil
}

func (c *Collection[T]) ensureLoadedLocked(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	if !c.store.autoInit {
		return fmt.Errorf("%w: %s", ErrNotInitialized, c.name)
	}
	return c.loadLocked(ctx)
}

// view runs fn under the shared lock once the collection is loaded.
func (c *Collection[T]) view(ctx context.Context, fn func()) error {
	for {
		c.mu.RLock()
		if c.loaded {
			fn()
			c.mu.RUnlock()
			return nil
		}
		c.mu.RUnlock()

		if !c.store.autoInit {
			return fmt.Errorf("%w: %s", ErrNotInitialized, c.name)
		}
		if err := c.Load(ctx); err != nil {
			return err
		}
	}
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var (
		rec   T
		found bool
	)
	err := c.view(ctx, func() {
		if i, ok := c.index[id]; ok {
			rec, found = c.records[i], true
		}
	})
	return rec, found, err
}

// First returns the first record, in collection order, matching pred.
func (c *Collection[T]) First(ctx context.Context, pred func(*T) bool) (T, bool, error) {
	var (
		rec   T
		found bool
	)
	err := c.view(ctx, func() {
		for i := range c.records {
			if pred(&c.records[i]) {
				rec, found = c.records[i], true
				return
			}
		}
	})
	return rec, found, err
}

// Filter returns copies of the records matching pred, in collection order.
// A nil pred matches everything.
func (c *Collection[T]) Filter(ctx context.Context, pred func(*T) bool) ([]T, error) {
	out := []T{}
	err := c.view(ctx, func() {
		for i := range c.records {
			if pred == nil || pred(&c.records[i]) {
				out = append(out, c.records[i])
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	return c.Filter(ctx, nil)
}

func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	var n int
	err := c.view(ctx, func() {
		n = len(c.records)
	})
	return n, err
}

// Mutate applies fn to a working copy of the collection while holding the
// collection's exclusive lock, then rewrites the full collection. If fn
// returns an error nothing is written and that error is returned unchanged.
// If the write fails the cache keeps its previous content and an *IOError is
// returned.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(tx *Tx[T]) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoadedLocked(ctx); err != nil {
		return err
	}

	tx := &Tx[T]{
		key:     c.key,
		records: append(make([]T, 0, len(c.records)+1), c.records...),
		index:   make(map[string]int, len(c.index)+1),
	}
	for id, i := range c.index {
		tx.index[id] = i
	}

	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty {
		return nil
	}

	if err := c.writeLocked(ctx, tx.records); err != nil {
		return err
	}
	c.records = tx.records
	c.index = tx.index
	return nil
}

func (c *Collection[T]) writeLocked(ctx context.Context, records []T) error {
	data, err := encode(records)
	if err != nil {
		return &IOError{Op: "encode", Collection: c.name, Err: err}
	}
	if err := c.store.backend.Write(ctx, c.name, data); err != nil {
		return &IOError{Op: "write", Collection: c.name, Err: err}
	}
	return nil
}

func encode[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Tx is the working copy handed to a Mutate callback. It is only valid
// inside that callback.
type Tx[T any] struct {
	key     func(*T) string
	records []T
	index   map[string]int
	dirty   bool
}

func (tx *Tx[T]) Get(id string) (T, bool) {
	if i, ok := tx.index[id]; ok {
		return tx.records[i], true
	}
	var zero T
	return zero, false
}

func (tx *Tx[T]) First(pred func(*T) bool) (T, bool) {
	for i := range tx.records {
		if pred(&tx.records[i]) {
			return tx.records[i], true
		}
	}
	var zero T
	return zero, false
}

func (tx *Tx[T]) Len() int {
	return len(tx.records)
}

// Insert appends rec; its key must not exist yet.
func (tx *Tx[T]) Insert(rec T) error {
	id := tx.key(&rec)
	if id == "" {
		return ErrEmptyKey
	}
	if _, exists := tx.index[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, id)
	}
	tx.index[id] = len(tx.records)
	tx.records = append(tx.records, rec)
	tx.dirty = true
	return nil
}

// Delete removes the record with id, keeping the order of the rest. It
// reports whether the record existed.
func (tx *Tx[T]) Delete(id string) bool {
	i, exists := tx.index[id]
	if !exists {
		return false
	}
	tx.records = append(tx.records[:i], tx.records[i+1:]...)
	delete(tx.index, id)
	for j := i; j < len(tx.records); j++ {
		tx.index[tx.key(&tx.records[j])] = j
	}
	tx.dirty = true
	return true
}

// Put replaces the record with rec's key in place, or appends it.
func (tx *Tx[T]) Put(rec T) error {
	id := tx.key(&rec)
	if id == "" {
		return ErrEmptyKey
	}
	if i, exists := tx.index[id]; exists {
		tx.records[i] = rec
		tx.dirty = true
		return nil
	}
	return tx.Insert(rec)
}
