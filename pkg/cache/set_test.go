package cache

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/registry"
)

type fakeCache struct {
	kind   Kind
	closed int
}

func (f *fakeCache) Kind() Kind { return f.kind }
func (f *fakeCache) Close() error {
	f.closed++
	return nil
}

func TestUnionKinds(t *testing.T) {
	got := UnionKinds(
		[]Kind{KindText},
		nil,
		[]Kind{KindImage, KindText, ""},
	)
	assert.Equal(t, []Kind{KindText, KindImage}, got)
	assert.Empty(t, UnionKinds())
}

func TestBuild(t *testing.T) {
	fs := afero.NewMemMapFs()
	reg := registry.New[Factory]("cache")
	built := map[Kind]*fakeCache{}
	for _, k := range []Kind{"a", "b"} {
		k := k
		require.NoError(t, reg.Register(string(k), "", func(afero.Fs, string) (Cache, error) {
			c := &fakeCache{kind: k}
			built[k] = c
			return c, nil
		}))
	}
	require.NoError(t, reg.Register("broken", "", func(afero.Fs, string) (Cache, error) {
		panic("factory exploded")
	}))

	var failed []Kind
	set := Build(fs, "/f.txt", []Kind{"a", "missing", "broken", "b"}, reg, func(k Kind, err error) {
		failed = append(failed, k)
		assert.Error(t, err)
	})

	assert.Equal(t, "/f.txt", set.Path())
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []Kind{"missing", "broken"}, failed)

	c, ok := set.Get("a")
	require.True(t, ok)
	assert.Same(t, built["a"], c)

	typed, ok := Lookup[*fakeCache](set, "b")
	require.True(t, ok)
	assert.Same(t, built["b"], typed)

	_, ok = Lookup[*Text](set, "b")
	assert.False(t, ok, "wrong concrete type should not be returned")
}

func TestSetClose(t *testing.T) {
	set := NewSet("/x")
	a := &fakeCache{kind: "a"}
	set.Put(a)

	require.NoError(t, set.Close())
	require.NoError(t, set.Close())

	assert.Equal(t, 1, a.closed, "Close should dispose each cache once")
	assert.True(t, set.Closed())
	_, ok := set.Get("a")
	assert.False(t, ok, "closed set should not hand out caches")
}

func TestSetNil(t *testing.T) {
	var set *Set
	_, ok := set.Get(KindText)
	assert.False(t, ok)
	assert.Equal(t, 0, set.Len())
	assert.NoError(t, set.Close())
}

func TestBuildUnknownKindError(t *testing.T) {
	var got error
	Build(afero.NewMemMapFs(), "/f", []Kind{"nope"}, Factories(), func(_ Kind, err error) { got = err })
	assert.True(t, errors.IsErrorCode(got, errors.ErrPluginNotFound))
}

func TestDefaultFactories(t *testing.T) {
	assert.True(t, Factories().Has(string(KindText)))
	assert.True(t, Factories().Has(string(KindImage)))
}
