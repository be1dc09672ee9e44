package state

// List is the scrolling, filterable commit list of one picker. The cursor
// indexes the filtered rows; Offset is the first row drawn.
type List struct {
	all    []Item
	shown  []Item
	query  Query
	cursor int
	offset int
}

// NewList builds a list over items with the cursor on the first row.
func NewList(items []Item) *List {
	l := &List{all: items}
	l.refilter()
	return l
}

// Rows are the items that pass the current query.
func (l *List) Rows() []Item { return l.shown }

// Total counts every input item, matched or not.
func (l *List) Total() int { return len(l.all) }

// Query exposes the filter text and caret for drawing.
func (l *List) Query() *Query { return &l.query }

// Cursor is the index of the selected row.
func (l *List) Cursor() int { return l.cursor }

// Offset is the index of the first visible row.
func (l *List) Offset() int { return l.offset }

// Current returns the selected row.
func (l *List) Current() (Item, bool) {
	if l.cursor < 0 || l.cursor >= len(l.shown) {
		return Item{}, false
	}
	return l.shown[l.cursor], true
}

// Edit applies fn to the query and refilters when the text changed. Like
// fzf, a changed query puts the cursor back on the first match.
func (l *List) Edit(fn func(*Query) bool) bool {
	before := l.query.String()
	if !fn(&l.query) {
		return false
	}
	if l.query.String() != before {
		l.refilter()
	}
	return true
}

func (l *List) refilter() {
	l.shown = Filter(l.all, l.query.String())
	l.cursor, l.offset = 0, 0
}

// Step moves the cursor by delta rows, wrapping at either end.
func (l *List) Step(delta int) bool {
	n := len(l.shown)
	if n == 0 || delta == 0 {
		return false
	}
	l.cursor = ((l.cursor+delta)%n + n) % n
	return true
}

// Jump moves the cursor by delta rows, stopping at either end. Paging and
// home/end are jumps.
func (l *List) Jump(delta int) bool {
	n := len(l.shown)
	if n == 0 {
		return false
	}
	to := l.cursor + delta
	if to < 0 {
		to = 0
	}
	if to > n-1 {
		to = n - 1
	}
	if to == l.cursor {
		return false
	}
	l.cursor = to
	return true
}

// Window scrolls so the cursor sits inside a view of rows lines and returns
// the visible slice. rows <= 0 means everything is visible.
func (l *List) Window(rows int) []Item {
	if rows <= 0 || len(l.shown) <= rows {
		l.offset = 0
		return l.shown
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+rows {
		l.offset = l.cursor - rows + 1
	}
	if l.offset > len(l.shown)-rows {
		l.offset = len(l.shown) - rows
	}
	return l.shown[l.offset : l.offset+rows]
}
