package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/sifter/pkg/config"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/types"
)

// Options select what a Printer shows.
type Options struct {
	// ShowTested prints every tested file with its outcome, not only matches.
	ShowTested bool
	// Styled turns on colors and the bordered summary.
	Styled bool
}

// ErrorEntry is one buffered error.
type ErrorEntry struct {
	File    string
	Message string
}

// Printer writes run events to w. It is safe for use from the engine's
// goroutine while another goroutine calls Interrupted.
type Printer struct {
	w        io.Writer
	cfg      config.OutputConfig
	opts     Options
	styled   bool
	renderer *lipgloss.Renderer

	mu          sync.Mutex
	tested      int
	matched     int
	printed     int
	truncated   bool
	errorCount  int
	errors      []ErrorEntry
	interrupted bool
	completed   bool
}

func NewPrinter(w io.Writer, cfg config.OutputConfig, opts Options) *Printer {
	renderer := lipgloss.NewRenderer(w)
	if opts.Styled {
		renderer.SetColorProfile(termenv.ANSI256)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		w:        w,
		cfg:      cfg,
		opts:     opts,
		styled:   opts.Styled,
		renderer: renderer,
	}
}

// Sinks returns the progress callbacks that feed this printer.
func (p *Printer) Sinks() types.Progress {
	return types.Progress{
		OnTested:   p.onTested,
		OnMatched:  p.onMatched,
		OnError:    p.onError,
		OnComplete: p.onComplete,
	}
}

// Interrupted marks the run as stopped by the user; the summary says so.
func (p *Printer) Interrupted() {
	p.mu.Lock()
	p.interrupted = true
	p.mu.Unlock()
}

// Errors returns the buffered errors, oldest first.
func (p *Printer) Errors() []ErrorEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ErrorEntry, len(p.errors))
	copy(out, p.errors)
	return out
}

// Counts returns how many files were tested and matched, and how many errors
// were reported, including those beyond the buffer.
func (p *Printer) Counts() (tested, matched, errorCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tested, p.matched, p.errorCount
}

func (p *Printer) onTested(file string, result types.MatchType, values []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tested++
	if p.opts.ShowTested {
		p.printResult(p.outcome(result), file, values)
	}
}

func (p *Printer) onMatched(file string, result types.MatchType, values []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.matched++
	if !p.opts.ShowTested {
		p.printResult(p.paint(matchStyle, "match"), file, values)
	}
}

func (p *Printer) outcome(result types.MatchType) string {
	switch result {
	case types.MatchYes:
		return p.paint(matchStyle, "match")
	case types.MatchNo:
		return p.paint(noMatchStyle, "no   ")
	default:
		return p.paint(naStyle, "n/a  ")
	}
}

// printResult writes one file line unless max_results lines are out already.
// Caller holds mu.
func (p *Printer) printResult(label, file string, values []string) {
	if p.cfg.MaxResults > 0 && p.printed >= p.cfg.MaxResults {
		if !p.truncated {
			p.truncated = true
			fmt.Fprintln(p.w, p.paint(mutedStyle, fmt.Sprintf("... output limited to %d results", p.cfg.MaxResults)))
		}
		return
	}
	p.printed++

	line := label + "  " + file
	if len(values) > 0 {
		line += "  " + p.paint(valueStyle, strings.Join(values, ", "))
	}
	fmt.Fprintln(p.w, line)
}

func (p *Printer) onError(err error, file string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errorCount++
	if p.cfg.MaxErrors > 0 && len(p.errors) >= p.cfg.MaxErrors {
		return
	}
	p.errors = append(p.errors, ErrorEntry{
		File:    file,
		Message: Truncate(oneLine(errors.Message(err)), p.cfg.ErrorMessageWidth),
	})
}

func (p *Printer) onComplete(bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.completed {
		return
	}
	p.completed = true

	if len(p.errors) > 0 {
		fmt.Fprintln(p.w)
		heading := "Errors"
		if p.errorCount > len(p.errors) {
			heading = fmt.Sprintf("Errors (showing %d of %d)", len(p.errors), p.errorCount)
		}
		fmt.Fprintln(p.w, p.errorHeadingStyle().Render(heading))
		for _, e := range p.errors {
			where := e.File
			if where == "" {
				where = "run"
			}
			fmt.Fprintf(p.w, "  %s %s: %s\n", p.paint(errorStyle, "✗"), where, e.Message)
		}
	}

	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.summary())
}

// summary renders the closing box. Caller holds mu.
func (p *Printer) summary() string {
	status := "Run complete"
	if p.interrupted {
		status = "Run interrupted"
	}
	lines := []string{
		p.headingStyle().Render(status),
		fmt.Sprintf("Tested:  %d", p.tested),
		fmt.Sprintf("Matched: %d", p.matched),
		fmt.Sprintf("Errors:  %d", p.errorCount),
	}
	body := strings.Join(lines, "\n")
	if !p.styled {
		return body
	}
	return p.boxStyle().Render(body)
}

// Truncate shortens s to at most width cells, ending with an ellipsis when
// cut. A width of zero or less leaves s alone.
func Truncate(s string, width int) string {
	if width <= 0 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
