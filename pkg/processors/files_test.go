package processors

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/testutil"
	"github.com/arthur-debert/sifter/pkg/types"
)

func runContext(fs afero.Fs) *types.RunContext {
	return types.NewRunContext(fs, zerolog.Nop())
}

func matched(file string, values ...string) types.ProcessInput {
	return types.NewProcessInput(file, types.Yes(values...), values)
}

func readZip(t *testing.T, fs afero.Fs, path string) map[string]string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		_ = rc.Close()
		entries[f.Name] = string(body)
	}
	return entries
}

func TestCopy(t *testing.T) {
	fs := testutil.NewMemFs(t, "/src", testutil.FileTree{
		"a.txt": "alpha",
		"sub":   testutil.FileTree{"b.txt": "bravo"},
	})

	c, err := NewCopy(types.OriginalFile, CopyOptions{Destination: "/out", Root: "/src"})
	require.NoError(t, err)
	require.NoError(t, c.Init(runContext(fs)))

	got, err := c.Process(context.Background(), matched("/src/sub/b.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{"/out/sub/b.txt"}, got.OutputFiles)
	body, err := afero.ReadFile(fs, "/out/sub/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "bravo", string(body))

	t.Run("existing destination is skipped", func(t *testing.T) {
		got, err := c.Process(context.Background(), matched("/src/sub/b.txt"))
		require.NoError(t, err)
		assert.Equal(t, types.ProcessingNotApplicable, got.Type)
		assert.Empty(t, got.OutputFiles)
	})

	t.Run("overwrite replaces", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fs, "/out/sub/b.txt", []byte("stale"), 0644))
		over, err := NewCopy(types.OriginalFile, CopyOptions{Destination: "/out", Root: "/src", Overwrite: true})
		require.NoError(t, err)
		require.NoError(t, over.Init(runContext(fs)))
		_, err = over.Process(context.Background(), matched("/src/sub/b.txt"))
		require.NoError(t, err)
		body, _ := afero.ReadFile(fs, "/out/sub/b.txt")
		assert.Equal(t, "bravo", string(body))
	})

	t.Run("missing source errors", func(t *testing.T) {
		_, err := c.Process(context.Background(), matched("/src/missing.txt"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
	})

	t.Run("destination required", func(t *testing.T) {
		_, err := NewCopy(types.OriginalFile, CopyOptions{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrPluginOptions))
	})
}

func TestCopyThenZipChain(t *testing.T) {
	fs := testutil.NewMemFs(t, "/src", testutil.FileTree{"a.txt": "alpha"})
	c, err := NewCopy(types.OriginalFile, CopyOptions{Destination: "/stage"})
	require.NoError(t, err)
	z, err := NewZip(types.PreviousOutput, ZipOptions{Destination: "/zips"})
	require.NoError(t, err)

	m := NewMulti(types.OriginalFile, c, z)
	require.NoError(t, m.Init(runContext(fs)))

	got, err := m.Process(context.Background(), matched("/src/a.txt"))
	require.NoError(t, err)
	assert.Equal(t, types.ProcessingSuccess, got.Type)
	assert.Equal(t, []string{"/stage/a.txt", "/zips/a.txt.zip"}, got.OutputFiles)
	assert.Equal(t, map[string]string{"a.txt": "alpha"}, readZip(t, fs, "/zips/a.txt.zip"))
}

func TestZipPerRun(t *testing.T) {
	fs := testutil.NewMemFs(t, "/src", testutil.FileTree{
		"a.txt": "alpha",
		"x":     testutil.FileTree{"a.txt": "other alpha"},
		"y":     testutil.FileTree{"b.txt": "bravo"},
	})

	z, err := NewZip(types.OriginalFile, ZipOptions{Destination: "/out", Mode: ZipPerRun})
	require.NoError(t, err)
	assert.Equal(t, types.ProducesNever, z.ProducesFiles())
	require.NoError(t, z.Init(runContext(fs)))

	for _, f := range []string{"/src/a.txt", "/src/x/a.txt", "/src/y/b.txt"} {
		got, err := z.Process(context.Background(), matched(f))
		require.NoError(t, err)
		assert.Empty(t, got.OutputFiles)
	}
	exists, _ := afero.Exists(fs, "/out/sifter.zip")
	assert.False(t, exists, "archive is written on finalize")

	require.NoError(t, z.ProcessAggregated(context.Background()))
	assert.Equal(t, map[string]string{
		"a.txt":   "alpha",
		"a_1.txt": "other alpha",
		"b.txt":   "bravo",
	}, readZip(t, fs, "/out/sifter.zip"))
}

func TestZipPerRunEntryNamesStayUnique(t *testing.T) {
	fs := testutil.NewMemFs(t, "/src", testutil.FileTree{
		"a": testutil.FileTree{"x.txt": "first"},
		"b": testutil.FileTree{"x.txt": "second"},
		"c": testutil.FileTree{"x_1.txt": "third"},
	})

	z, err := NewZip(types.OriginalFile, ZipOptions{Destination: "/out", Mode: ZipPerRun})
	require.NoError(t, err)
	require.NoError(t, z.Init(runContext(fs)))
	for _, f := range []string{"/src/a/x.txt", "/src/b/x.txt", "/src/c/x_1.txt"} {
		_, err := z.Process(context.Background(), matched(f))
		require.NoError(t, err)
	}
	require.NoError(t, z.ProcessAggregated(context.Background()))

	assert.Equal(t, map[string]string{
		"x.txt":     "first",
		"x_1.txt":   "second",
		"x_1_1.txt": "third",
	}, readZip(t, fs, "/out/sifter.zip"))
}

func TestUniqueEntry(t *testing.T) {
	seen := map[string]bool{}
	var got []string
	for _, name := range []string{"a.txt", "a.txt", "a_1.txt", "a.txt", "Makefile", "Makefile"} {
		got = append(got, uniqueEntry(seen, name))
	}
	assert.Equal(t, []string{"a.txt", "a_1.txt", "a_1_1.txt", "a_2.txt", "Makefile", "Makefile_1"}, got)
}

func TestZipRootAndModes(t *testing.T) {
	fs := testutil.NewMemFs(t, "/src", testutil.FileTree{"x": testutil.FileTree{"a.txt": "alpha"}})

	z, err := NewZip(types.OriginalFile, ZipOptions{Destination: "/out", Mode: ZipPerRun, Archive: "all.zip", Root: "/src"})
	require.NoError(t, err)
	require.NoError(t, z.Init(runContext(fs)))
	_, err = z.Process(context.Background(), matched("/src/x/a.txt"))
	require.NoError(t, err)
	require.NoError(t, z.ProcessAggregated(context.Background()))
	assert.Contains(t, readZip(t, fs, "/out/all.zip"), "x/a.txt")

	_, err = NewZip(types.OriginalFile, ZipOptions{Destination: "/out", Mode: "tar"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrPluginOptions))
}

func TestCSV(t *testing.T) {
	fs := afero.NewMemMapFs()
	c, err := NewCSV(types.OriginalFile, "/reports/out.csv")
	require.NoError(t, err)
	require.NoError(t, c.Init(runContext(fs)))

	_, err = c.Process(context.Background(), matched("/a.txt", "foo", "bar"))
	require.NoError(t, err)
	_, err = c.Process(context.Background(), types.NewProcessInput("/b.txt", types.No(), nil))
	require.NoError(t, err)
	assert.Len(t, c.Rows(), 2)

	require.NoError(t, c.ProcessAggregated(context.Background()))

	f, err := fs.Open("/reports/out.csv")
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"path", "match", "values"},
		{"/a.txt", "yes", "foo; bar"},
		{"/b.txt", "no", ""},
	}, records)

	_, err = NewCSV(types.OriginalFile, "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrPluginOptions))
}

func TestRegisteredProcessors(t *testing.T) {
	names := plugins.Processors().List()
	sort.Strings(names)
	for _, want := range []string{"copy", "csv", "multi", "notify", "s3", "sql", "zip"} {
		assert.Contains(t, names, want)
	}
}
