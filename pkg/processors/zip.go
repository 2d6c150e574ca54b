package processors

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// ZipMode selects one archive per file or one per run.
type ZipMode string

const (
	ZipPerFile ZipMode = "per_file"
	ZipPerRun  ZipMode = "per_run"
)

// ZipOptions configures the zip processor.
type ZipOptions struct {
	Destination string  `koanf:"destination"`
	Mode        ZipMode `koanf:"mode"`
	// Archive names the per-run archive.
	Archive string `koanf:"archive"`
	Root    string `koanf:"root"`
}

// Zip archives files. In per_file mode every file gets its own archive,
// which is the output. In per_run mode entries are collected while the run
// streams and written into one archive when the run is finalized.
type Zip struct {
	Base
	opts    ZipOptions
	pending []string
}

func NewZip(source types.InputFileSource, opts ZipOptions) (*Zip, error) {
	if opts.Destination == "" {
		return nil, errors.New(errors.ErrPluginOptions, "zip needs a destination")
	}
	produces := types.ProducesAlways
	switch opts.Mode {
	case "", ZipPerFile:
		opts.Mode = ZipPerFile
	case ZipPerRun:
		produces = types.ProducesNever
		if opts.Archive == "" {
			opts.Archive = "sifter.zip"
		}
	default:
		return nil, errors.Newf(errors.ErrPluginOptions, "unknown zip mode %q (want per_file or per_run)", opts.Mode)
	}
	return &Zip{Base: NewBase("zip", source, produces), opts: opts}, nil
}

func (z *Zip) Init(rc *types.RunContext) error {
	z.pending = nil
	return z.Base.Init(rc)
}

func (z *Zip) Process(ctx context.Context, in types.ProcessInput) (types.ProcessingResult, error) {
	return EachFile(ctx, in, z.zipFile)
}

func (z *Zip) zipFile(_ context.Context, file string, _ types.ProcessInput) (types.ProcessingResult, error) {
	if z.opts.Mode == ZipPerRun {
		z.pending = append(z.pending, file)
		return types.Success("queued for " + z.opts.Archive), nil
	}

	archive := filepath.Join(z.opts.Destination, filepath.Base(file)+".zip")
	if err := z.write(archive, []string{file}); err != nil {
		return types.ProcessingResult{}, err
	}
	return types.Success("zipped to "+archive, archive), nil
}

func (z *Zip) ProcessAggregated(ctx context.Context) error {
	if z.opts.Mode != ZipPerRun || len(z.pending) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	archive := filepath.Join(z.opts.Destination, z.opts.Archive)
	files := z.pending
	z.pending = nil
	if err := z.write(archive, files); err != nil {
		return errors.Wrapf(err, errors.ErrProcessorFlush, "cannot write %s", archive)
	}
	z.logger.Info().Str("archive", archive).Int("entries", len(files)).Msg("archive written")
	return nil
}

func (z *Zip) entryName(file string) string {
	if z.opts.Root != "" {
		if rel, err := filepath.Rel(z.opts.Root, file); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.Base(file)
}

func (z *Zip) write(archive string, files []string) error {
	if err := z.fs.MkdirAll(filepath.Dir(archive), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(archive))
	}
	out, err := z.fs.OpenFile(archive, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot create %s", archive)
	}

	zw := zip.NewWriter(out)
	seen := make(map[string]bool)
	for _, file := range files {
		name := uniqueEntry(seen, z.entryName(file))
		if err := addEntry(z.fs, zw, file, name); err != nil {
			_ = zw.Close()
			_ = out.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot finish %s", archive)
	}
	return out.Close()
}

// uniqueEntry returns name, or name with the first free "_N" suffix, and
// marks the result as taken.
func uniqueEntry(seen map[string]bool, name string) string {
	candidate := name
	ext := filepath.Ext(name)
	for n := 1; seen[candidate]; n++ {
		candidate = strings.TrimSuffix(name, ext) + "_" + strconv.Itoa(n) + ext
	}
	seen[candidate] = true
	return candidate
}

func addEntry(fs afero.Fs, zw *zip.Writer, file, name string) error {
	in, err := fs.Open(file)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot open %s", file)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", file)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot build zip header for %s", file)
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot add %s", name)
	}
	if _, err := io.Copy(w, in); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot add %s", name)
	}
	return nil
}

func init() {
	plugins.RegisterProcessor("zip", "archives files, one zip per file or one per run", func(o plugins.Options) (types.Processor, error) {
		var opts ZipOptions
		if err := o.Decode(&opts); err != nil {
			return nil, err
		}
		return NewZip(o.Input, opts)
	})
}
