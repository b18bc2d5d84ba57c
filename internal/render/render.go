// Package render lays out a notebook for the terminal: line numbers, the
// line text, and each line's result aligned in a column on the right.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nickandperla.net/sumflow/internal/sheet"
)

var (
	gutterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	failedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	resultStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	variableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
)

// Renderer writes notebooks. The zero value renders without color.
type Renderer struct {
	Color bool
	// MaxTextWidth truncates long lines; 0 means no limit.
	MaxTextWidth int
}

// New creates a Renderer.
func New(color bool) *Renderer {
	return &Renderer{Color: color, MaxTextWidth: 60}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.Color || text == "" {
		return text
	}
	return s.Render(text)
}

// Title writes a heading line.
func (r *Renderer) Title(w io.Writer, title string) error {
	_, err := fmt.Fprintln(w, r.style(titleStyle, title))
	return err
}

// Sheet writes lines alongside their results. lines and results must
// have the same length.
func (r *Renderer) Sheet(w io.Writer, lines []string, results []sheet.LineResult) error {
	if len(lines) != len(results) {
		return fmt.Errorf("render: %d lines but %d results", len(lines), len(results))
	}

	texts := make([]string, len(lines))
	textWidth := 0
	for i, l := range lines {
		texts[i] = r.truncate(strings.TrimRight(l, " \t\r"))
		textWidth = max(textWidth, lipgloss.Width(texts[i]))
	}
	gutterWidth := len(fmt.Sprint(len(lines)))

	var sb strings.Builder
	for i, res := range results {
		num := fmt.Sprintf("%*d", gutterWidth, i+1)
		if res.State == sheet.Failed {
			num = r.style(failedStyle, num)
		} else {
			num = r.style(gutterStyle, num)
		}
		sb.WriteString(num)
		sb.WriteString("  ")

		result := r.result(res)
		if result == "" {
			sb.WriteString(texts[i])
		} else {
			sb.WriteString(texts[i])
			sb.WriteString(strings.Repeat(" ", textWidth-lipgloss.Width(texts[i])))
			sb.WriteString("  ")
			sb.WriteString(result)
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *Renderer) result(res sheet.LineResult) string {
	if !res.OK() {
		return ""
	}
	out := r.style(resultStyle, res.Formatted)
	if res.Variable != "" {
		out += " " + r.style(variableStyle, "("+res.Variable+")")
	}
	return out
}

func (r *Renderer) truncate(s string) string {
	if r.MaxTextWidth <= 0 || lipgloss.Width(s) <= r.MaxTextWidth {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > r.MaxTextWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
