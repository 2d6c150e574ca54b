package processors

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

var csvHeader = []string{"path", "match", "values"}

// CSV collects one row per processed file and writes them to Output when the
// run is finalized. Values are joined with "; ".
type CSV struct {
	Base
	output string
	rows   [][]string
}

func NewCSV(source types.InputFileSource, output string) (*CSV, error) {
	if output == "" {
		return nil, errors.New(errors.ErrPluginOptions, "csv needs an output path")
	}
	return &CSV{Base: NewBase("csv", source, types.ProducesNever), output: output}, nil
}

func (c *CSV) Init(rc *types.RunContext) error {
	c.rows = nil
	return c.Base.Init(rc)
}

func (c *CSV) Process(ctx context.Context, in types.ProcessInput) (types.ProcessingResult, error) {
	return EachFile(ctx, in, func(_ context.Context, file string, in types.ProcessInput) (types.ProcessingResult, error) {
		c.rows = append(c.rows, []string{file, in.Match.Type.String(), strings.Join(in.Values, "; ")})
		return types.Success("row recorded"), nil
	})
}

// Rows returns the rows recorded so far.
func (c *CSV) Rows() [][]string { return c.rows }

func (c *CSV) ProcessAggregated(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.fs.MkdirAll(filepath.Dir(c.output), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(c.output))
	}
	f, err := c.fs.OpenFile(c.output, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot create %s", c.output)
	}

	w := csv.NewWriter(f)
	_ = w.Write(csvHeader)
	_ = w.WriteAll(c.rows)
	if err := w.Error(); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", c.output)
	}
	c.logger.Info().Str("output", c.output).Int("rows", len(c.rows)).Msg("csv written")
	return f.Close()
}

func init() {
	plugins.RegisterProcessor("csv", "writes one CSV row per file when the run finishes", func(o plugins.Options) (types.Processor, error) {
		var opts struct {
			Output string `koanf:"output"`
		}
		if err := o.Decode(&opts); err != nil {
			return nil, err
		}
		return NewCSV(o.Input, opts.Output)
	})
}
