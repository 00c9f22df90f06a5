package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/accordion/pkg/debug"
)

// BodyRenderer turns a row body into the lines of its detail region at a
// given width.
type BodyRenderer interface {
	Render(body string, width int) []string
}

// PlainRenderer word-wraps bodies without markdown styling.
type PlainRenderer struct{}

func (PlainRenderer) Render(body string, width int) []string {
	body = strings.TrimRight(body, "\n")
	if strings.TrimSpace(body) == "" {
		return nil
	}
	if width < 1 {
		width = 1
	}
	wrapped := lipgloss.NewStyle().Width(width).Render(body)
	return splitLines(wrapped)
}

// MarkdownRenderer renders bodies with glamour. Term renderers are created
// per wrap width and reused.
type MarkdownRenderer struct {
	style string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer for a glamour standard style
// ("dark", "light", "notty", ...). An empty style detects the terminal
// background.
func NewMarkdownRenderer(style string) *MarkdownRenderer {
	return &MarkdownRenderer{style: style, renderers: make(map[int]*glamour.TermRenderer)}
}

func (m *MarkdownRenderer) termRenderer(width int) (*glamour.TermRenderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.renderers[width]; ok {
		return r, nil
	}
	styleOpt := glamour.WithAutoStyle()
	if m.style != "" {
		styleOpt = glamour.WithStandardStyle(m.style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	m.renderers[width] = r
	return r, nil
}

func (m *MarkdownRenderer) Render(body string, width int) []string {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	if width < 1 {
		width = 1
	}
	r, err := m.termRenderer(width)
	if err != nil {
		debug.Log("ui: glamour renderer unavailable: %v", err)
		return PlainRenderer{}.Render(body, width)
	}
	out, err := r.Render(body)
	if err != nil {
		debug.Log("ui: markdown render failed: %v", err)
		return PlainRenderer{}.Render(body, width)
	}
	return splitLines(out)
}

// splitLines splits a rendered block and drops blank lines at both ends.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	start, end := 0, len(lines)
	for start < end && isBlank(lines[start]) {
		start++
	}
	for end > start && isBlank(lines[end-1]) {
		end--
	}
	if start == end {
		return nil
	}
	return lines[start:end]
}

func isBlank(line string) bool {
	return strings.TrimSpace(ansi.Strip(line)) == ""
}
