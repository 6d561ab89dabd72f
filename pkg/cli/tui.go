package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for terminal output.
type Theme struct {
	Accept lipgloss.Color // accepted verdicts
	Reject lipgloss.Color // rejected verdicts and errors
	Label  lipgloss.Color // field labels
	Dim    lipgloss.Color // secondary text
}

// DefaultTheme is the default theme.
var DefaultTheme = Theme{
	Accept: lipgloss.Color("#00ff9f"),
	Reject: lipgloss.Color("#ff5f56"),
	Label:  lipgloss.Color("#00b7ff"),
	Dim:    lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Accept lipgloss.Style
	Reject lipgloss.Style
	Label  lipgloss.Style
	Dim    lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Accept: lipgloss.NewStyle().Bold(true).Foreground(t.Accept),
		Reject: lipgloss.NewStyle().Bold(true).Foreground(t.Reject),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(t.Label),
		Dim:    lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Verdict renders a pass/fail banner followed by a message.
func (s Styles) Verdict(accepted bool, message string) string {
	if accepted {
		return s.Accept.Render("✓ ACCEPTED") + "  " + message
	}
	return s.Reject.Render("✗ REJECTED") + "  " + message
}

// Fields renders label-value pairs as aligned lines.
func (s Styles) Fields(pairs ...[2]string) string {
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}
	var b strings.Builder
	for _, p := range pairs {
		label := p[0] + strings.Repeat(" ", width-len(p[0]))
		fmt.Fprintf(&b, "  %s  %s\n", s.Label.Render(label), p[1])
	}
	return b.String()
}
