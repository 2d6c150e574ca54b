package cache

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/spf13/afero"
)

// Image decodes image files. Config only reads the header; Image decodes the
// whole file and keeps it until Close.
type Image struct {
	fs   afero.Fs
	path string

	closed       bool
	configLoaded bool
	config       image.Config
	format       string
	configErr    error

	imgLoaded bool
	img       image.Image
	imgErr    error
}

// NewImage is the Factory for KindImage.
func NewImage(fs afero.Fs, path string) (Cache, error) {
	return &Image{fs: fs, path: path}, nil
}

func (i *Image) Kind() Kind { return KindImage }

// Config returns the dimensions and color model and the format name
// ("png", "jpeg", "gif"). ok is false for non-images.
func (i *Image) Config() (image.Config, string, bool) {
	if i.closed {
		return image.Config{}, "", false
	}
	if !i.configLoaded {
		i.configLoaded = true
		f, err := i.fs.Open(i.path)
		if err != nil {
			i.configErr = err
		} else {
			i.config, i.format, i.configErr = image.DecodeConfig(f)
			_ = f.Close()
		}
	}
	return i.config, i.format, i.configErr == nil
}

// Image returns the decoded image.
func (i *Image) Image() (image.Image, bool) {
	if i.closed {
		return nil, false
	}
	if !i.imgLoaded {
		i.imgLoaded = true
		f, err := i.fs.Open(i.path)
		if err != nil {
			i.imgErr = err
		} else {
			i.img, _, i.imgErr = image.Decode(f)
			_ = f.Close()
		}
	}
	return i.img, i.imgErr == nil
}

func (i *Image) Close() error {
	i.closed = true
	i.img = nil
	return nil
}
