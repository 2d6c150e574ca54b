package cache

import (
	"github.com/spf13/afero"

	"github.com/arthur-debert/sifter/pkg/registry"
)

// Kind names a cache implementation. Plugins declare the kinds they read.
type Kind string

const (
	// KindText decodes the file as text once and shares the result.
	KindText Kind = "text"
	// KindImage decodes image headers (and pixels on demand).
	KindImage Kind = "image"
)

// Cache is a per-file view. Close releases whatever the cache holds; any
// access after Close behaves as if the data were unavailable.
type Cache interface {
	Kind() Kind
	Close() error
}

// Factory builds a cache bound to one file. Factories should be cheap: loading
// happens on first access.
type Factory func(fs afero.Fs, path string) (Cache, error)

var factories = registry.New[Factory]("cache")

// Factories returns the registry of known cache kinds.
func Factories() registry.Registry[Factory] {
	return factories
}

func init() {
	registry.MustRegister(factories, string(KindText), "decoded text content of the file", Factory(NewText))
	registry.MustRegister(factories, string(KindImage), "decoded image header and pixels", Factory(NewImage))
}

// UnionKinds merges the kind lists keeping first-seen order and dropping
// duplicates.
func UnionKinds(lists ...[]Kind) []Kind {
	seen := make(map[Kind]bool)
	var out []Kind
	for _, list := range lists {
		for _, k := range list {
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
