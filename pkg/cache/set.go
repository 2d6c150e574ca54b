package cache

import (
	stderrors "errors"

	"github.com/spf13/afero"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/registry"
)

// Set is the collection of caches built for a single file.
type Set struct {
	path    string
	entries map[Kind]Cache
	closed  bool
}

// NewSet returns an empty set bound to path.
func NewSet(path string) *Set {
	return &Set{path: path, entries: make(map[Kind]Cache)}
}

// Build creates one cache per requested kind. A kind whose factory is unknown,
// fails or panics is reported through onErr and left out of the set, so
// evaluators asking for it see it as unavailable.
func Build(fs afero.Fs, path string, kinds []Kind, reg registry.Registry[Factory], onErr func(Kind, error)) *Set {
	set := NewSet(path)
	for _, kind := range kinds {
		factory, err := reg.Get(string(kind))
		if err != nil {
			report(onErr, kind, err)
			continue
		}

		var c Cache
		err = errors.Guard(func() error {
			var ferr error
			c, ferr = factory(fs, path)
			return ferr
		})
		if err != nil {
			report(onErr, kind, errors.Wrapf(err, errors.ErrCacheLoad, "failed to build %s cache", kind).
				WithDetail("path", path))
			continue
		}
		set.Put(c)
	}
	return set
}

func report(onErr func(Kind, error), kind Kind, err error) {
	if onErr != nil {
		onErr(kind, err)
	}
}

// Path is the file the set was built for.
func (s *Set) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Put adds c to the set, replacing any cache of the same kind.
func (s *Set) Put(c Cache) {
	if c == nil {
		return
	}
	s.entries[c.Kind()] = c
}

// Get returns the cache of the given kind, if present and not yet closed.
func (s *Set) Get(kind Kind) (Cache, bool) {
	if s == nil || s.closed {
		return nil, false
	}
	c, ok := s.entries[kind]
	return c, ok
}

// Len reports how many caches the set holds.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Closed reports whether Close has been called.
func (s *Set) Closed() bool {
	return s == nil || s.closed
}

// Close disposes every cache in the set. It is safe to call more than once.
func (s *Set) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for kind, c := range s.entries {
		err := errors.Guard(c.Close)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, errors.ErrCacheLoad, "failed to close %s cache", kind))
		}
	}
	s.entries = nil
	return stderrors.Join(errs...)
}

// Lookup returns the cache of the given kind as its concrete type.
func Lookup[T Cache](s *Set, kind Kind) (T, bool) {
	var zero T
	c, ok := s.Get(kind)
	if !ok {
		return zero, false
	}
	typed, ok := c.(T)
	return typed, ok
}
