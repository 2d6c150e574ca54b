package filesource

import (
	"context"
	stderrors "errors"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/logging"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// errStopWalk ends a walk early without reporting an error.
var errStopWalk = stderrors.New("stop walk")

// DirectoryOptions configures the directory source.
type DirectoryOptions struct {
	Root      string `koanf:"root"`
	Recursive bool   `koanf:"recursive"`
	// Include and Exclude are glob patterns matched against the base name and
	// against the path relative to Root. Exclude wins.
	Include    []string `koanf:"include"`
	Exclude    []string `koanf:"exclude"`
	SkipHidden bool     `koanf:"skip_hidden"`
}

// DefaultDirectoryOptions walks the current directory recursively, skipping
// dot files.
func DefaultDirectoryOptions() DirectoryOptions {
	return DirectoryOptions{Root: ".", Recursive: true, SkipHidden: true}
}

// Directory yields the regular files below Root in lexical order.
type Directory struct {
	opts   DirectoryOptions
	fs     afero.Fs
	rc     *types.RunContext
	logger zerolog.Logger
}

func NewDirectory(opts DirectoryOptions) (*Directory, error) {
	if opts.Root == "" {
		opts.Root = "."
	}
	for _, p := range append(append([]string{}, opts.Include...), opts.Exclude...) {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, errors.Wrapf(err, errors.ErrPluginOptions, "invalid pattern %q", p)
		}
	}
	return &Directory{
		opts:   opts,
		fs:     afero.NewOsFs(),
		logger: logging.GetLogger("filesource.directory"),
	}, nil
}

func (d *Directory) Name() string { return "directory" }

func (d *Directory) Init(rc *types.RunContext) error {
	d.rc = rc
	if rc != nil && rc.Fs != nil {
		d.fs = rc.Fs
	}
	info, err := d.fs.Stat(d.opts.Root)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileNotFound, "cannot read root %s", d.opts.Root)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrInvalidInput, "root %s is not a directory", d.opts.Root)
	}
	return nil
}

func (d *Directory) Cleanup() error {
	d.rc = nil
	return nil
}

func (d *Directory) Files(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		root := filepath.Clean(d.opts.Root)
		err := afero.Walk(d.fs, root, func(path string, info os.FileInfo, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.rc.StopRequested() {
				return errStopWalk
			}
			if err != nil {
				// unreadable entries are reported and skipped
				if !yield("", errors.Wrapf(err, errors.ErrSourceWalk, "cannot read %s", path)) {
					return errStopWalk
				}
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if path == root {
				return nil
			}
			if info.IsDir() {
				if !d.opts.Recursive || (d.opts.SkipHidden && hidden(info.Name())) || d.excluded(root, path) {
					return filepath.SkipDir
				}
				return nil
			}
			if !info.Mode().IsRegular() || !d.wanted(root, path, info.Name()) {
				return nil
			}
			if !yield(path, nil) {
				return errStopWalk
			}
			return nil
		})

		switch {
		case err == nil, stderrors.Is(err, errStopWalk), err == filepath.SkipDir:
		case errors.IsCanceled(err):
			yield("", err)
		default:
			yield("", errors.Wrapf(err, errors.ErrSourceWalk, "cannot walk %s", root))
		}
	}
}

func (d *Directory) wanted(root, path, name string) bool {
	if d.opts.SkipHidden && hidden(name) {
		return false
	}
	if d.excluded(root, path) {
		return false
	}
	if len(d.opts.Include) == 0 {
		return true
	}
	return matchAny(d.opts.Include, root, path)
}

func (d *Directory) excluded(root, path string) bool {
	return len(d.opts.Exclude) > 0 && matchAny(d.opts.Exclude, root, path)
}

func matchAny(patterns []string, root, path string) bool {
	base := filepath.Base(path)
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func init() {
	plugins.RegisterSource("directory", "walks a directory tree, optionally filtered by globs", func(o plugins.Options) (types.FileSource, error) {
		opts := DefaultDirectoryOptions()
		if err := o.Decode(&opts); err != nil {
			return nil, err
		}
		return NewDirectory(opts)
	})
}
