package store

import (
	"errors"
	"sync"
)

var (
	ErrNotFound  = errors.New("entity not found")
	ErrDuplicate = errors.New("duplicate id")
)

// Collection is an in-memory, insertion-ordered set of entities keyed by id.
// Values are copied in and out so callers never share memory with the store.
type Collection[T any] struct {
	mu    sync.RWMutex
	idOf  func(*T) string
	order []string
	items map[string]*T
}

func NewCollection[T any](idOf func(*T) string) *Collection[T] {
	return &Collection[T]{idOf: idOf, items: make(map[string]*T)}
}

func (c *Collection[T]) Insert(v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.idOf(&v)
	if _, ok := c.items[id]; ok {
		return ErrDuplicate
	}
	c.items[id] = &v
	c.order = append(c.order, id)
	return nil
}

func (c *Collection[T]) Get(id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.items[id]; ok {
		return *v, nil
	}
	var zero T
	return zero, ErrNotFound
}

// List returns all entities in insertion order.
func (c *Collection[T]) List() []T {
	return c.Filter(nil)
}

// Filter returns the entities for which keep returns true, in insertion order.
// A nil keep selects everything.
func (c *Collection[T]) Filter(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		v := *c.items[id]
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Update applies mutate to the stored entity under the write lock and returns
// the result. mutate must not change the id.
func (c *Collection[T]) Update(id string, mutate func(*T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	cur, ok := c.items[id]
	if !ok {
		return zero, ErrNotFound
	}
	next := *cur
	if err := mutate(&next); err != nil {
		return zero, err
	}
	c.items[id] = &next
	return next, nil
}

func (c *Collection[T]) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return ErrNotFound
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
