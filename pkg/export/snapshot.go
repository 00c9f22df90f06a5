package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
)

// LineKind classifies a snapshot line.
type LineKind int

const (
	LineHeader LineKind = iota
	LineSelected
	LineDetail
	LineGap
)

// Line is one terminal line of the list, without styling.
type Line struct {
	Text string
	Kind LineKind
	// Open is set on headers whose row is expanded.
	Open bool
}

// SnapshotOptions controls list snapshot export.
type SnapshotOptions struct {
	Path    string // Output path; format inferred from extension when Format empty
	Format  string // "svg" or "png" (case-insensitive)
	Title   string // Rendered in the header block
	Columns int    // Terminal width the lines were rendered at
	Lines   []Line
}

// ErrNoLines is returned when there is nothing to draw.
var ErrNoLines = errors.New("no lines to export")

const (
	cellW      = 7 // basicfont.Face7x13
	lineH      = 16
	pad        = 16
	headerH    = 56
	fontFamily = "font-family:monospace;font-size:12px"
)

var (
	colorBackdrop = color.RGBA{R: 0x28, G: 0x2a, B: 0x36, A: 0xff}
	colorHeaderBG = color.RGBA{R: 0x44, G: 0x47, B: 0x5a, A: 0xff}
	colorSelectBG = color.RGBA{R: 0x38, G: 0x3a, B: 0x4a, A: 0xff}
	colorText     = color.RGBA{R: 0xf8, G: 0xf8, B: 0xf2, A: 0xff}
	colorSubtle   = color.RGBA{R: 0xbf, G: 0xbf, B: 0xbf, A: 0xff}
	colorOpen     = color.RGBA{R: 0x50, G: 0xfa, B: 0x7b, A: 0xff}
	colorAccent   = color.RGBA{R: 0xbd, G: 0x93, B: 0xf9, A: 0xff}
)

// SaveSnapshot renders the list lines as a static SVG or PNG image.
func SaveSnapshot(opts SnapshotOptions) error {
	if len(opts.Lines) == 0 {
		return ErrNoLines
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	format, err := snapshotFormat(opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildSnapshotLayout(opts)
	switch format {
	case "png":
		return renderSnapshotPNG(opts.Path, layout)
	default:
		f, err := os.Create(opts.Path)
		if err != nil {
			return err
		}
		if err := renderSnapshotSVG(f, layout); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
}

func snapshotFormat(opts SnapshotOptions) (string, error) {
	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		default:
			format = "svg"
		}
	}
	if format != "svg" && format != "png" {
		return "", fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	return format, nil
}

type snapshotLayout struct {
	Width  int
	Height int
	Title  string
	Info   string
	Lines  []Line
}

func buildSnapshotLayout(opts SnapshotOptions) snapshotLayout {
	cols := opts.Columns
	open := 0
	for _, l := range opts.Lines {
		if n := len([]rune(l.Text)); n > cols {
			cols = n
		}
		if l.Open {
			open++
		}
	}
	title := opts.Title
	if title == "" {
		title = "accordion"
	}
	return snapshotLayout{
		Width:  pad*2 + cols*cellW,
		Height: headerH + pad + len(opts.Lines)*lineH + pad,
		Title:  title,
		Info:   fmt.Sprintf("lines: %d  open: %d", len(opts.Lines), open),
		Lines:  opts.Lines,
	}
}

// lineY is the baseline of line i.
func lineY(i int) int {
	return headerH + pad + i*lineH + lineH - 4
}

func lineColor(l Line) color.RGBA {
	switch {
	case l.Kind == LineDetail:
		return colorSubtle
	case l.Open:
		return colorOpen
	default:
		return colorText
	}
}

func renderSnapshotPNG(path string, layout snapshotLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(8, 8, float64(layout.Width)-16, headerH-12, 8)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colorAccent)
	dc.DrawStringAnchored(layout.Title, pad, 24, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(layout.Info, pad, 40, 0, 0.5)

	for i, l := range layout.Lines {
		if l.Kind == LineSelected {
			dc.SetColor(colorSelectBG)
			dc.DrawRectangle(pad-4, float64(headerH+pad+i*lineH), float64(layout.Width-2*pad+8), lineH)
			dc.Fill()
		}
		if l.Text == "" {
			continue
		}
		dc.SetColor(lineColor(l))
		dc.DrawString(l.Text, pad, float64(lineY(i)))
	}

	return dc.SavePNG(path)
}

func renderSnapshotSVG(w io.Writer, layout snapshotLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(8, 8, layout.Width-16, headerH-12, 8, 8, fmt.Sprintf("fill:%s", css(colorHeaderBG)))
	canvas.Text(pad, 28, layout.Title, fmt.Sprintf("fill:%s;%s;font-weight:bold", css(colorAccent), fontFamily))
	canvas.Text(pad, 44, layout.Info, fmt.Sprintf("fill:%s;%s", css(colorSubtle), fontFamily))

	for i, l := range layout.Lines {
		if l.Kind == LineSelected {
			canvas.Rect(pad-4, headerH+pad+i*lineH, layout.Width-2*pad+8, lineH, fmt.Sprintf("fill:%s", css(colorSelectBG)))
		}
		if l.Text == "" {
			continue
		}
		canvas.Text(pad, lineY(i), l.Text,
			fmt.Sprintf("fill:%s;%s;white-space:pre", css(lineColor(l)), fontFamily))
	}

	canvas.End()
	return nil
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
