package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/accordion/pkg/debug"
	"github.com/vanderheijden86/accordion/pkg/expand"
	"github.com/vanderheijden86/accordion/pkg/export"
	"github.com/vanderheijden86/accordion/pkg/metrics"
	"github.com/vanderheijden86/accordion/pkg/model"
)

// Columns of the header line: cursor mark, space, toggle glyph, space.
const (
	toggleCol    = 2
	headerPrefix = 4
	// detailIndent is the detail pane's left border plus padding, after the
	// header prefix.
	detailIndent = 2
)

// ListOption configures a List.
type ListOption func(*List)

// WithGap sets the number of blank lines between rows.
func WithGap(g int) ListOption {
	return func(l *List) {
		if g >= 0 {
			l.gap = g
		}
	}
}

// WithWrap makes cursor movement wrap around at both ends.
func WithWrap(w bool) ListOption {
	return func(l *List) { l.wrap = w }
}

// List is a virtual window over the rows of an Adapter. Only the positions
// on screen hold views; views scrolled out of the window are recycled into
// the positions scrolling in.
type List struct {
	adapter  *Adapter
	timeline *Timeline
	theme    Theme

	width  int
	height int
	gap    int
	wrap   bool

	offset int
	cursor int
	// window holds the bound views in position order, starting at offset.
	window []*RowView
}

// NewList creates a list over adapter.
func NewList(adapter *Adapter, timeline *Timeline, theme Theme, opts ...ListOption) *List {
	l := &List{adapter: adapter, timeline: timeline, theme: theme}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Adapter returns the list's adapter.
func (l *List) Adapter() *Adapter { return l.adapter }

// Timeline returns the list's frame clock.
func (l *List) Timeline() *Timeline { return l.timeline }

// Cursor is the selected position.
func (l *List) Cursor() expand.Position { return expand.Position(l.cursor) }

// Offset is the first position in the window.
func (l *List) Offset() expand.Position { return expand.Position(l.offset) }

// Size returns the list's width and height.
func (l *List) Size() (int, int) { return l.width, l.height }

// Window returns the bound views in position order.
func (l *List) Window() []*RowView { return l.window }

// ViewAt returns the view bound to pos, if pos is in the window.
func (l *List) ViewAt(pos expand.Position) (*RowView, bool) {
	i := int(pos) - l.offset
	if i < 0 || i >= len(l.window) {
		return nil, false
	}
	return l.window[i], true
}

// SetSize resizes the list. A width change reflows every detail pane, so
// cached heights are dropped and the window is rebound.
func (l *List) SetSize(width, height int) error {
	if height < 0 {
		height = 0
	}
	l.height = height
	if width != l.width {
		l.width = width
		l.adapter.SetWidth(max(width-headerPrefix-detailIndent, 1))
		if err := l.rebind(); err != nil {
			return err
		}
	}
	return l.scrollToCursor()
}

// SetRows replaces the data and rebinds the window.
func (l *List) SetRows(rows []model.Row) error {
	l.adapter.SetData(NewRowsAdapter(rows))
	if err := l.rebind(); err != nil {
		return err
	}
	if n := len(rows); l.cursor >= n {
		l.cursor = max(n-1, 0)
	}
	return l.scrollToCursor()
}

// rebind forgets cached heights and binds every windowed view again at its
// position.
func (l *List) rebind() error {
	l.adapter.Controller().ForgetHeights()
	count := l.adapter.Count()
	kept := l.window[:0]
	for _, v := range l.window {
		if int(v.pos) >= count {
			l.adapter.Recycle(v)
			continue
		}
		if _, err := l.adapter.GetView(v.pos, v); err != nil {
			return err
		}
		kept = append(kept, v)
	}
	l.window = kept
	return nil
}

// sync binds views for the positions that fit on screen and lays them out.
func (l *List) sync() error {
	defer metrics.Timer(metrics.LayoutPass)()

	count := l.adapter.Count()
	l.offset = clamp(l.offset, 0, max(count-1, 0))

	old := make(map[expand.Position]*RowView, len(l.window))
	for _, v := range l.window {
		old[v.pos] = v
	}

	// Estimate the window from what is known, so views that will not be
	// needed can be handed to incoming positions.
	end, used := l.offset, 0
	for end < count && used < l.height {
		used += l.estimate(old, expand.Position(end)) + l.gap
		end++
	}
	var scrap []*RowView
	for pos, v := range old {
		if int(pos) < l.offset || int(pos) >= end {
			scrap = append(scrap, v)
			delete(old, pos)
		}
	}
	sort.Slice(scrap, func(i, j int) bool { return scrap[i].id < scrap[j].id })

	window := make([]*RowView, 0, end-l.offset)
	used = 0
	for pos := l.offset; pos < count && used < l.height; pos++ {
		v, ok := old[expand.Position(pos)]
		if ok {
			delete(old, expand.Position(pos))
		} else {
			var recycled *RowView
			if len(scrap) > 0 {
				recycled, scrap = scrap[0], scrap[1:]
				debug.Log("ui: recycling view %d from position %d to %d", recycled.id, recycled.pos, pos)
			}
			var err error
			if v, err = l.adapter.GetView(expand.Position(pos), recycled); err != nil {
				return err
			}
		}
		v.detail.Layout(l.adapter.Width(), l.adapter.Renderer())
		window = append(window, v)
		used += v.Height() + l.gap
	}
	for _, v := range old {
		scrap = append(scrap, v)
	}
	for _, v := range scrap {
		l.adapter.Recycle(v)
	}
	l.window = window
	return nil
}

// estimate is the expected height of pos, excluding the gap.
func (l *List) estimate(old map[expand.Position]*RowView, pos expand.Position) int {
	if v, ok := old[pos]; ok {
		return v.Height()
	}
	if l.adapter.Controller().IsOpen(pos) {
		h, _ := l.adapter.Controller().Height(pos)
		return 1 + h
	}
	return 1
}

// rowTop returns the screen line of pos's header, or -1 when pos is not in
// the window.
func (l *List) rowTop(pos expand.Position) int {
	y := 0
	for _, v := range l.window {
		if v.pos == pos {
			return y
		}
		y += v.Height() + l.gap
	}
	return -1
}

// scrollToCursor moves the window so the cursor row is fully on screen, or
// at least starts the window when it is taller than the screen.
func (l *List) scrollToCursor() error {
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	// Every row takes at least one line.
	if l.height > 0 && l.cursor-l.offset >= l.height {
		l.offset = l.cursor - l.height + 1
	}
	for {
		if err := l.sync(); err != nil {
			return err
		}
		if l.offset >= l.cursor || l.height <= 0 {
			return nil
		}
		top := l.rowTop(l.Cursor())
		if top >= 0 {
			v, _ := l.ViewAt(l.Cursor())
			if top+v.Height() <= l.height {
				return nil
			}
		}
		l.offset++
	}
}

// MoveCursor moves the selection by delta rows.
func (l *List) MoveCursor(delta int) error {
	count := l.adapter.Count()
	if count == 0 {
		return nil
	}
	next := l.cursor + delta
	if l.wrap {
		next = ((next % count) + count) % count
	} else {
		next = clamp(next, 0, count-1)
	}
	l.cursor = next
	return l.scrollToCursor()
}

// PageDown moves the selection by one screen of rows.
func (l *List) PageDown() error {
	return l.MoveCursor(max(len(l.window)-1, 1))
}

// PageUp moves the selection back by one screen of rows.
func (l *List) PageUp() error {
	return l.MoveCursor(-max(len(l.window)-1, 1))
}

// Top selects the first row.
func (l *List) Top() error {
	l.cursor = 0
	return l.scrollToCursor()
}

// Bottom selects the last row.
func (l *List) Bottom() error {
	l.cursor = max(l.adapter.Count()-1, 0)
	return l.scrollToCursor()
}

// Select moves the cursor to pos.
func (l *List) Select(pos expand.Position) error {
	l.cursor = clamp(int(pos), 0, max(l.adapter.Count()-1, 0))
	return l.scrollToCursor()
}

// Scroll moves the window by delta rows without moving the cursor further
// than needed to keep it on screen.
func (l *List) Scroll(delta int) error {
	l.offset = clamp(l.offset+delta, 0, max(l.adapter.Count()-1, 0))
	if err := l.sync(); err != nil {
		return err
	}
	if l.cursor < l.offset {
		l.cursor = l.offset
	} else if last := l.offset + len(l.window) - 1; l.cursor > last && last >= l.offset {
		l.cursor = last
	}
	return nil
}

// Activate presses the toggle of pos. It reports false when pos is not on
// screen.
func (l *List) Activate(pos expand.Position) (bool, error) {
	v, ok := l.ViewAt(pos)
	if !ok {
		return false, nil
	}
	if !v.toggle.Activate() {
		return false, nil
	}
	if !l.timeline.Active() {
		v.toggle.CancelAnimation()
	}
	return true, l.sync()
}

// ActivateCursor presses the toggle of the selected row.
func (l *List) ActivateCursor() (bool, error) {
	if l.adapter.Count() == 0 {
		return false, nil
	}
	return l.Activate(l.Cursor())
}

// Frame advances running transitions by one frame. It reports whether msg
// belonged to this list.
func (l *List) Frame(msg FrameMsg) (bool, error) {
	if !l.timeline.Update(msg) {
		return false, nil
	}
	for _, v := range l.window {
		v.toggle.tick()
	}
	return true, l.sync()
}

// Settle completes every running transition.
func (l *List) Settle() error {
	l.timeline.Flush()
	for _, v := range l.window {
		v.toggle.CancelAnimation()
	}
	return l.sync()
}

// HitTest maps a screen cell to the row under it. onToggle is true when the
// cell is the row's toggle glyph.
func (l *List) HitTest(x, y int) (pos expand.Position, onToggle bool, ok bool) {
	top := 0
	for _, v := range l.window {
		h := v.Height()
		if y >= top && y < top+h {
			onToggle = y == top && x >= toggleCol-1 && x <= toggleCol+1
			return v.pos, onToggle, true
		}
		top += h + l.gap
	}
	return expand.NoPosition, false, false
}

// View renders the window.
func (l *List) View() string {
	if l.height <= 0 {
		return ""
	}
	lines := make([]string, 0, l.height)
	for _, v := range l.window {
		lines = append(lines, l.renderHeader(v))
		for _, dl := range v.detail.VisibleLines() {
			lines = append(lines, strings.Repeat(" ", headerPrefix)+l.theme.Detail.Render(dl))
		}
		for i := 0; i < l.gap; i++ {
			lines = append(lines, "")
		}
		if len(lines) >= l.height {
			break
		}
	}
	if len(lines) > l.height {
		lines = lines[:l.height]
	}
	for len(lines) < l.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (l *List) glyph(v *RowView) (string, bool) {
	if strings.TrimSpace(v.row.Body) == "" {
		return "·", false
	}
	if l.adapter.Controller().State(v.pos).Opening() {
		return "▾", true
	}
	return "▸", false
}

func (l *List) renderHeader(v *RowView) string {
	t := l.theme
	selected := int(v.pos) == l.cursor

	mark := " "
	if selected {
		mark = t.Cursor.Render("▌")
	}
	g, open := l.glyph(v)
	glyphStyle := t.Glyph
	switch {
	case v.toggle.Flashing():
		glyphStyle = t.GlyphActive
	case open:
		glyphStyle = t.GlyphOpen
	}

	avail := l.width - headerPrefix
	age := FormatTimeRel(v.row.UpdatedAt)
	if age != "" && avail > 30 {
		avail -= runewidth.StringWidth(age) + 1
	} else {
		age = ""
	}
	title := truncate(v.row.Title, avail)
	rest := avail - runewidth.StringWidth(title)

	var b strings.Builder
	b.WriteString(title)
	used := runewidth.StringWidth(title)
	if s := v.row.Summary; s != "" && rest > 3 {
		s = truncate(s, rest-2)
		b.WriteString("  ")
		b.WriteString(t.Summary.Render(s))
		used += 2 + runewidth.StringWidth(s)
		rest = avail - used
	}
	if tags := formatTags(v.row.Tags); tags != "" && rest > 3 {
		tags = truncate(tags, rest-2)
		b.WriteString("  ")
		b.WriteString(t.Tag.Render(tags))
		used += 2 + runewidth.StringWidth(tags)
	}
	body := b.String()
	if age != "" {
		body += strings.Repeat(" ", max(avail-used, 0)+1) + t.Age.Render(age)
	}

	titleStyle := t.Title
	if selected {
		titleStyle = t.Selected
	}
	return mark + " " + glyphStyle.Render(g) + " " + titleStyle.Render(body)
}

// SnapshotLines returns the window as plain text lines.
func (l *List) SnapshotLines() []export.Line {
	var out []export.Line
	for _, v := range l.window {
		g, open := l.glyph(v)
		mark := " "
		kind := export.LineHeader
		if int(v.pos) == l.cursor {
			mark = ">"
			kind = export.LineSelected
		}
		text := mark + " " + g + " " + truncate(v.row.Title, max(l.width-headerPrefix, 1))
		out = append(out, export.Line{Text: text, Kind: kind, Open: open})
		for _, dl := range v.detail.VisibleLines() {
			out = append(out, export.Line{
				Text: strings.Repeat(" ", headerPrefix) + "│ " + strings.TrimRight(ansi.Strip(dl), " "),
				Kind: export.LineDetail,
			})
		}
		for i := 0; i < l.gap; i++ {
			out = append(out, export.Line{Kind: export.LineGap})
		}
		if len(out) >= l.height {
			break
		}
	}
	if len(out) > l.height {
		out = out[:l.height]
	}
	return out
}
