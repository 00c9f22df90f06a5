package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestPlainRendererWraps(t *testing.T) {
	lines := PlainRenderer{}.Render("the quick brown fox jumps over the lazy dog", 10)
	if len(lines) < 4 {
		t.Fatalf("got %d lines, want wrapping at width 10: %q", len(lines), lines)
	}
	for _, l := range lines {
		if w := lipgloss.Width(l); w > 10 {
			t.Errorf("line %q is %d wide", l, w)
		}
	}
}

func TestPlainRendererBlank(t *testing.T) {
	for _, body := range []string{"", "   ", "\n\n"} {
		if lines := (PlainRenderer{}).Render(body, 20); lines != nil {
			t.Errorf("Render(%q) = %q, want nil", body, lines)
		}
	}
}

func TestSplitLinesTrimsBlankEnds(t *testing.T) {
	got := splitLines("\n  \nfirst\n\nsecond\n \x1b[0m\n")
	if len(got) != 3 || got[0] != "first" || got[2] != "second" {
		t.Errorf("splitLines = %q", got)
	}
	if splitLines("\n \n") != nil {
		t.Error("all-blank input should give nil")
	}
}

func TestMarkdownRenderer(t *testing.T) {
	r := NewMarkdownRenderer("notty")
	lines := r.Render("# Heading\n\nSome *body* text.", 40)
	if len(lines) == 0 {
		t.Fatal("no lines rendered")
	}
	joined := ansi.Strip(strings.Join(lines, "\n"))
	if !strings.Contains(joined, "Heading") || !strings.Contains(joined, "body") {
		t.Errorf("rendered markdown lost content: %q", joined)
	}
	if r.Render("  ", 40) != nil {
		t.Error("blank body should render nothing")
	}

	r.Render("again", 40)
	r.Render("narrow", 20)
	if len(r.renderers) != 2 {
		t.Errorf("renderers cached per width = %d, want 2", len(r.renderers))
	}
}
