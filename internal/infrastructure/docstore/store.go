// Package docstore keeps named collections of records in memory and rewrites
// a whole collection to durable storage on every mutation.
//
// Each collection is loaded at most once per process (or once per Reset).
// Mutations on a collection are serialized by that collection's lock; the
// cache only changes after the backend has accepted the new content.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNotInitialized is returned when a collection is accessed before Init
	// on a store built without AutoInit.
	ErrNotInitialized = errors.New("docstore: collection not initialized")

	ErrDuplicateKey = errors.New("docstore: duplicate key")
	ErrEmptyKey     = errors.New("docstore: empty key")
)

// Backend is durable storage holding one serialized JSON array per
// collection. Read returns nil data when the collection has never been
// written. Write must replace the stored content atomically.
type Backend interface {
	Read(ctx context.Context, collection string) ([]byte, error)
	Write(ctx context.Context, collection string, data []byte) error
}

// IOError wraps a backend failure or undecodable stored content.
type IOError struct {
	Op         string
	Collection string
	Err        error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("docstore: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

type Options struct {
	// AutoInit loads a collection on its first access. When false every
	// access before Init fails with ErrNotInitialized.
	AutoInit bool
}

type loader interface {
	Name() string
	Load(ctx context.Context) error
	reset()
}

type Store struct {
	backend  Backend
	autoInit bool

	mu          sync.Mutex
	collections []loader
	names       map[string]struct{}
}

func New(backend Backend, opts Options) *Store {
	return &Store{
		backend:  backend,
		autoInit: opts.AutoInit,
		names:    make(map[string]struct{}),
	}
}

func (s *Store) AutoInit() bool {
	return s.autoInit
}

// Register binds a named collection of T to the store. key extracts the
// unique identifier of a record. Registering the same name twice panics.
func Register[T any](s *Store, name string, key func(*T) string) *Collection[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.names[name]; exists {
		panic(fmt.Sprintf("docstore: collection %q registered twice", name))
	}

	c := &Collection[T]{
		store: s,
		name:  name,
		key:   key,
	}
	s.names[name] = struct{}{}
	s.collections = append(s.collections, c)
	return c
}

// Init loads every registered collection. Collections that are already
// loaded are left alone, so calling Init repeatedly is safe.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	collections := append([]loader(nil), s.collections...)
	s.mu.Unlock()

	for _, c := range collections {
		if err := c.Load(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Reset drops every cached collection. The next Init (or, with AutoInit, the
// next access) reads durable storage again.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.collections {
		c.reset()
	}
}
