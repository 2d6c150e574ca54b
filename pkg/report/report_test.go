// pkg/report/report_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: bytes.Buffer as the terminal
// PURPOSE: Test result capping, error buffering and the run summary

package report

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/sifter/pkg/config"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/types"
)

func outputConfig() config.OutputConfig {
	return config.OutputConfig{MaxResults: 3, MaxErrors: 2, ErrorMessageWidth: 20, Color: config.ColorNever}
}

func TestPrinterMatchedOnly(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, outputConfig(), Options{})
	sinks := p.Sinks()

	sinks.Tested("/a.go", types.MatchYes, []string{"12"})
	sinks.Matched("/a.go", types.MatchYes, []string{"12"})
	sinks.Tested("/b.go", types.MatchNo, []string{})
	sinks.Complete(false)

	out := buf.String()
	assert.Contains(t, out, "match  /a.go  12\n")
	assert.NotContains(t, out, "/b.go")
	assert.Contains(t, out, "Run complete")
	assert.Contains(t, out, "Tested:  2")
	assert.Contains(t, out, "Matched: 1")
	assert.Contains(t, out, "Errors:  0")
}

func TestPrinterShowTested(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, outputConfig(), Options{ShowTested: true})
	sinks := p.Sinks()

	sinks.Tested("/a.go", types.MatchYes, []string{"x", "y"})
	sinks.Matched("/a.go", types.MatchYes, []string{"x", "y"})
	sinks.Tested("/b.bin", types.MatchNotApplicable, nil)
	sinks.Tested("/c.go", types.MatchNo, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3, "a matched file is printed once")
	assert.Equal(t, "match  /a.go  x, y", lines[0])
	assert.Equal(t, "n/a    /b.bin", lines[1])
	assert.Equal(t, "no     /c.go", lines[2])
}

func TestPrinterCapsResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, outputConfig(), Options{})
	sinks := p.Sinks()

	for i := 0; i < 10; i++ {
		sinks.Matched(fmt.Sprintf("/f%d", i), types.MatchYes, nil)
	}
	sinks.Complete(false)

	out := buf.String()
	assert.Contains(t, out, "/f2")
	assert.NotContains(t, out, "/f3")
	assert.Equal(t, 1, strings.Count(out, "output limited to 3 results"))
	assert.Contains(t, out, "Matched: 10", "capping output does not cap counting")

	_, matched, _ := p.Counts()
	assert.Equal(t, 10, matched)
}

func TestPrinterUnlimitedResults(t *testing.T) {
	var buf bytes.Buffer
	cfg := outputConfig()
	cfg.MaxResults = 0
	p := NewPrinter(&buf, cfg, Options{})

	for i := 0; i < 10; i++ {
		p.Sinks().Matched(fmt.Sprintf("/f%d", i), types.MatchYes, nil)
	}
	assert.Contains(t, buf.String(), "/f9")
	assert.NotContains(t, buf.String(), "output limited")
}

func TestPrinterErrorBuffer(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, outputConfig(), Options{})
	sinks := p.Sinks()

	sinks.Error(errors.New(errors.ErrFieldEval, "short"), "/a")
	sinks.Error(errors.New(errors.ErrProcessorRun, "a much longer message that\nspans lines"), "/b")
	sinks.Error(errors.New(errors.ErrProcessorRun, "dropped"), "/c")
	sinks.Error(errors.New(errors.ErrPluginInit, "also dropped"), "")

	entries := p.Errors()
	require.Len(t, entries, 2)
	assert.Equal(t, ErrorEntry{File: "/a", Message: "short"}, entries[0])
	assert.Equal(t, "/b", entries[1].File)
	assert.Equal(t, "a much longer messa…", entries[1].Message)

	_, _, count := p.Counts()
	assert.Equal(t, 4, count)

	sinks.Complete(false)
	out := buf.String()
	assert.Contains(t, out, "Errors (showing 2 of 4)")
	assert.Contains(t, out, "/a: short")
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "Errors:  4")
}

func TestPrinterRunLevelError(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, outputConfig(), Options{})
	p.Sinks().Error(errors.New(errors.ErrPluginInit, "boom"), "")
	p.Sinks().Complete(false)

	assert.Contains(t, buf.String(), "run: boom")
}

func TestPrinterInterruptedAndCompleteOnce(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, outputConfig(), Options{})
	p.Interrupted()
	p.Sinks().Complete(false)
	p.Sinks().Complete(false)

	assert.Equal(t, 1, strings.Count(buf.String(), "Run interrupted"))
}

func TestPrinterStyledSummaryBox(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, outputConfig(), Options{Styled: true})
	p.Sinks().Complete(false)

	assert.Contains(t, buf.String(), "╭")
	assert.Contains(t, buf.String(), "Matched: 0")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 6, "hello…"},
		{"no limit", "hello world", 0, "hello world"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.width))
		})
	}
}

func TestStyled(t *testing.T) {
	assert.True(t, Styled(config.ColorAlways, nil))
	assert.False(t, Styled(config.ColorNever, os.Stdout))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, Styled(config.ColorAuto, os.Stdout))
}
