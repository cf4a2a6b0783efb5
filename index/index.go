// Package index provides in-memory multi-key indexes over a growing
// collection of records. Each declared key is either unique (a second
// record under the same value is rejected) or non-unique (records
// accumulate in insertion order).
package index

import (
	"fmt"
	"slices"
	"sync"
)

// Key declares one sub-index. Values returns the key values of a record;
// an empty slice means the record is not indexed under this key.
type Key[T any] struct {
	Field  string
	Unique bool
	Values func(*T) []string
}

// Unique declares a unique key read from a single field
func Unique[T any](field string, value func(*T) string) Key[T] {
	return Key[T]{Field: field, Unique: true, Values: single(value)}
}

// Multi declares a non-unique key read from a single field
func Multi[T any](field string, value func(*T) string) Key[T] {
	return Key[T]{Field: field, Values: single(value)}
}

// MultiValued declares a non-unique key where one record may be filed
// under several values
func MultiValued[T any](field string, values func(*T) []string) Key[T] {
	return Key[T]{Field: field, Values: values}
}

func single[T any](value func(*T) string) func(*T) []string {
	return func(rec *T) []string {
		if v := value(rec); v != "" {
			return []string{v}
		}
		return nil
	}
}

// DuplicateKeyError is returned when a unique key value is inserted twice.
type DuplicateKeyError struct {
	Index string
	Field string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key in %s.%s: %s", e.Index, e.Field, e.Value)
}

type subIndex[T any] struct {
	key  Key[T]
	one  map[string]*T
	many map[string][]*T
}

// Index holds one sub-index per declared key. It supports a single writer
// with concurrent readers.
type Index[T any] struct {
	name string

	mu    sync.RWMutex
	order []string
	subs  map[string]*subIndex[T]
	count int
}

// New creates an index with the given key declarations
func New[T any](name string, keys ...Key[T]) *Index[T] {
	ix := &Index[T]{
		name: name,
		subs: make(map[string]*subIndex[T], len(keys)),
	}
	for _, k := range keys {
		sub := &subIndex[T]{key: k}
		if k.Unique {
			sub.one = make(map[string]*T)
		} else {
			sub.many = make(map[string][]*T)
		}
		ix.subs[k.Field] = sub
		ix.order = append(ix.order, k.Field)
	}
	return ix
}

// Name returns the name given at construction
func (ix *Index[T]) Name() string {
	return ix.name
}

// Add files the record under every declared key. Unique keys are all
// checked before anything is written, so a rejected record leaves the
// index unchanged.
func (ix *Index[T]) Add(rec *T) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	values := make([][]string, len(ix.order))
	for i, field := range ix.order {
		sub := ix.subs[field]
		values[i] = sub.key.Values(rec)
		if !sub.key.Unique {
			continue
		}
		seen := make(map[string]struct{}, len(values[i]))
		for _, v := range values[i] {
			if _, exists := sub.one[v]; exists {
				return &DuplicateKeyError{Index: ix.name, Field: field, Value: v}
			}
			if _, dup := seen[v]; dup {
				return &DuplicateKeyError{Index: ix.name, Field: field, Value: v}
			}
			seen[v] = struct{}{}
		}
	}

	for i, field := range ix.order {
		sub := ix.subs[field]
		for _, v := range values[i] {
			if sub.key.Unique {
				sub.one[v] = rec
			} else {
				sub.many[v] = append(sub.many[v], rec)
			}
		}
	}
	ix.count++
	return nil
}

// Get looks a record up by a unique key
func (ix *Index[T]) Get(field, value string) (*T, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	sub, ok := ix.subs[field]
	if !ok || !sub.key.Unique {
		return nil, false
	}
	rec, ok := sub.one[value]
	return rec, ok
}

// All returns the records filed under a non-unique key value, in
// insertion order. The result is never nil and must not be modified.
func (ix *Index[T]) All(field, value string) []*T {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	sub, ok := ix.subs[field]
	if !ok || sub.key.Unique {
		return []*T{}
	}
	recs, ok := sub.many[value]
	if !ok {
		return []*T{}
	}
	return slices.Clip(recs)
}

// Keys returns the sorted distinct values of a key
func (ix *Index[T]) Keys(field string) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	sub, ok := ix.subs[field]
	if !ok {
		return []string{}
	}

	var keys []string
	if sub.key.Unique {
		keys = make([]string, 0, len(sub.one))
		for k := range sub.one {
			keys = append(keys, k)
		}
	} else {
		keys = make([]string, 0, len(sub.many))
		for k := range sub.many {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of records added
func (ix *Index[T]) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.count
}

// KeyCount returns the number of distinct values of a key
func (ix *Index[T]) KeyCount(field string) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	sub, ok := ix.subs[field]
	switch {
	case !ok:
		return 0
	case sub.key.Unique:
		return len(sub.one)
	default:
		return len(sub.many)
	}
}
