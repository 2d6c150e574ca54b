package processors

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// CopyOptions configures the copy processor.
type CopyOptions struct {
	Destination string `koanf:"destination"`
	// Root is stripped from source paths so the copy keeps the layout below
	// it. Files outside Root are copied flat.
	Root      string `koanf:"root"`
	Overwrite bool   `koanf:"overwrite"`
}

// Copy copies each file into a destination directory. The copy is the output.
type Copy struct {
	Base
	opts CopyOptions
}

func NewCopy(source types.InputFileSource, opts CopyOptions) (*Copy, error) {
	if opts.Destination == "" {
		return nil, errors.New(errors.ErrPluginOptions, "copy needs a destination")
	}
	return &Copy{Base: NewBase("copy", source, types.ProducesAlways), opts: opts}, nil
}

func (c *Copy) Process(ctx context.Context, in types.ProcessInput) (types.ProcessingResult, error) {
	return EachFile(ctx, in, c.copyFile)
}

func (c *Copy) target(file string) string {
	if c.opts.Root != "" {
		if rel, err := filepath.Rel(c.opts.Root, file); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.Join(c.opts.Destination, rel)
		}
	}
	return filepath.Join(c.opts.Destination, filepath.Base(file))
}

func (c *Copy) copyFile(_ context.Context, file string, _ types.ProcessInput) (types.ProcessingResult, error) {
	dest := c.target(file)

	if !c.opts.Overwrite {
		if exists, _ := afero.Exists(c.fs, dest); exists {
			return types.Skipped("exists: " + dest), nil
		}
	}

	if err := copyFile(c.fs, file, dest); err != nil {
		return types.ProcessingResult{}, err
	}
	c.logger.Debug().Str("from", file).Str("to", dest).Msg("copied")
	return types.Success("copied to "+dest, dest), nil
}

func copyFile(fs afero.Fs, src, dest string) error {
	in, err := fs.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot open %s", src)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", src)
	}
	if info.IsDir() {
		return errors.Newf(errors.ErrInvalidInput, "%s is a directory", src)
	}

	if err := fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(dest))
	}
	out, err := fs.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot create %s", dest)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", dest)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", dest)
	}
	return nil
}

func init() {
	plugins.RegisterProcessor("copy", "copies files into a destination directory", func(o plugins.Options) (types.Processor, error) {
		var opts CopyOptions
		if err := o.Decode(&opts); err != nil {
			return nil, err
		}
		return NewCopy(o.Input, opts)
	})
}
