package cache

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, fs afero.Fs, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, afero.WriteFile(fs, path, buf.Bytes(), 0644))
}

func TestImageConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	writePNG(t, fs, "/pic.png", 4, 3)

	c, err := NewImage(fs, "/pic.png")
	require.NoError(t, err)
	img := c.(*Image)

	cfg, format, ok := img.Config()
	require.True(t, ok)
	assert.Equal(t, "png", format)
	assert.Equal(t, 4, cfg.Width)
	assert.Equal(t, 3, cfg.Height)

	decoded, ok := img.Image()
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 4, 3), decoded.Bounds())

	require.NoError(t, img.Close())
	_, _, ok = img.Config()
	assert.False(t, ok)
}

func TestImageNotAnImage(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a.txt", []byte("plain text"), 0644))

	c, _ := NewImage(fs, "/a.txt")
	_, _, ok := c.(*Image).Config()
	assert.False(t, ok)
}
