package testutil

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/sifter/pkg/types"
)

func TestWriteTree(t *testing.T) {
	fs := NewMemFs(t, "/root", FileTree{
		"a.txt": "alpha",
		"sub": FileTree{
			"b.bin": []byte{0, 1},
		},
	})

	data, err := afero.ReadFile(fs, "/root/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(data))

	exists, err := afero.Exists(fs, "/root/sub/b.bin")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMockSourceStopsWhenConsumerBreaks(t *testing.T) {
	rec := &Recorder{}
	src := &MockSource{Rec: rec, Paths: []string{"/1", "/2", "/3"}}

	var seen []string
	for p := range src.Files(context.Background()) {
		seen = append(seen, p)
		if len(seen) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"/1", "/2"}, seen)
	assert.Equal(t, 0, rec.Count("yield:/3"))
}

func TestRecordingProgress(t *testing.T) {
	rp := &RecordingProgress{}
	sinks := rp.Sinks()
	sinks.Tested("/a", types.MatchNo, nil)
	sinks.Matched("/b", types.MatchYes, []string{"v"})
	sinks.Complete(false)

	assert.Equal(t, []string{"/a"}, rp.TestedFiles())
	assert.Equal(t, []string{"/b"}, rp.MatchedFiles())
	assert.Equal(t, []bool{false}, rp.Completed)
}

func TestGetTestChecksum(t *testing.T) {
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", GetTestChecksum("hello"))
}
