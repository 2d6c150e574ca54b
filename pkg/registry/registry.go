package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/arthur-debert/sifter/pkg/errors"
)

// Entry describes a registered item without exposing the item itself
type Entry struct {
	Name        string
	Description string
}

// Registry is a generic, thread-safe registry for storing and retrieving items by name
type Registry[T any] interface {
	// Register adds an item with a human-readable description
	Register(name, description string, item T) error

	// Get retrieves an item from the registry
	Get(name string) (T, error)

	// List returns all registered names in sorted order
	List() []string

	// Entries returns name/description pairs in sorted order
	Entries() []Entry

	// Has checks if an item is registered
	Has(name string) bool

	// Clear removes all items from the registry
	Clear()

	// Count returns the number of registered items
	Count() int
}

type entry[T any] struct {
	item        T
	description string
}

type registry[T any] struct {
	kind  string
	mu    sync.RWMutex
	items map[string]entry[T]
}

// New creates a new Registry instance. kind names what the registry holds
// ("condition", "processor", ...) and is used in error messages.
func New[T any](kind string) Registry[T] {
	return &registry[T]{
		kind:  kind,
		items: make(map[string]entry[T]),
	}
}

func (r *registry[T]) Register(name, description string, item T) error {
	if name == "" {
		return errors.Newf(errors.ErrInvalidInput, "%s name cannot be empty", r.kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "%s '%s' is already registered", r.kind, name)
	}

	r.items[name] = entry[T]{item: item, description: description}
	return nil
}

func (r *registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.items[name]
	if !exists {
		var zero T
		return zero, errors.Newf(errors.ErrPluginNotFound, "unknown %s '%s' (available: %s)",
			r.kind, name, strings.Join(r.sortedNames(), ", ")).
			WithDetail("kind", r.kind).
			WithDetail("name", name)
	}

	return e.item, nil
}

func (r *registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames()
}

func (r *registry[T]) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.sortedNames()
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{Name: name, Description: r.items[name].description})
	}
	return entries
}

func (r *registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.items[name]
	return exists
}

func (r *registry[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[string]entry[T])
}

func (r *registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}

// sortedNames must be called with the lock held
func (r *registry[T]) sortedNames() []string {
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MustRegister registers an item and panics if registration fails
// This is useful for init() functions where registration errors are programming errors
func MustRegister[T any](reg Registry[T], name, description string, item T) {
	if err := reg.Register(name, description, item); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", name, err))
	}
}
