package report

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/sifter/pkg/config"
)

// Styled decides whether output written to out gets colors, following the
// configured color mode. In auto mode NO_COLOR, a non-terminal and an
// Ascii-only terminal all disable styling.
func Styled(mode string, out *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if out == nil {
		return false
	}
	if !isatty.IsTerminal(out.Fd()) && !isatty.IsCygwinTerminal(out.Fd()) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

var (
	matchStyle   = pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	noMatchStyle = pterm.NewStyle(pterm.FgGray)
	naStyle      = pterm.NewStyle(pterm.FgYellow)
	errorStyle   = pterm.NewStyle(pterm.FgRed, pterm.Bold)
	valueStyle   = pterm.NewStyle(pterm.FgCyan)
	mutedStyle   = pterm.NewStyle(pterm.FgGray)
)

const (
	borderColor  = lipgloss.Color("#7D56F4")
	headingColor = lipgloss.Color("#FAFAFA")
	errorColor   = lipgloss.Color("#FF5F87")
)

// paint applies s when styling is on.
func (p *Printer) paint(s *pterm.Style, text string) string {
	if !p.styled || text == "" {
		return text
	}
	return s.Sprint(text)
}

func (p *Printer) boxStyle() lipgloss.Style {
	return p.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1)
}

func (p *Printer) headingStyle() lipgloss.Style {
	return p.renderer.NewStyle().Foreground(headingColor).Bold(true)
}

func (p *Printer) errorHeadingStyle() lipgloss.Style {
	return p.renderer.NewStyle().Foreground(errorColor).Bold(true)
}
