package state

import "unicode"

// Query is the single-line editor behind the filter prompt. Every edit
// reports whether it changed anything so callers can skip redraws.
type Query struct {
	runes []rune
	pos   int
}

func (q *Query) String() string { return string(q.runes) }

// Pos is the caret offset in runes.
func (q *Query) Pos() int { return q.pos }

// Empty reports whether nothing has been typed.
func (q *Query) Empty() bool { return len(q.runes) == 0 }

// Insert puts text at the caret.
func (q *Query) Insert(text string) bool {
	in := []rune(text)
	if len(in) == 0 {
		return false
	}
	out := make([]rune, 0, len(q.runes)+len(in))
	out = append(out, q.runes[:q.pos]...)
	out = append(out, in...)
	out = append(out, q.runes[q.pos:]...)
	q.runes = out
	q.pos += len(in)
	return true
}

// Backspace removes the rune before the caret.
func (q *Query) Backspace() bool {
	if q.pos == 0 {
		return false
	}
	q.cut(q.pos-1, q.pos)
	return true
}

// DeleteWord removes the word before the caret, like readline's ctrl-w.
func (q *Query) DeleteWord() bool {
	start := q.wordStart()
	if start == q.pos {
		return false
	}
	q.cut(start, q.pos)
	return true
}

// Clear empties the query.
func (q *Query) Clear() bool {
	if q.Empty() {
		return false
	}
	q.runes, q.pos = nil, 0
	return true
}

// Left and the other caret moves never change the text.
func (q *Query) Left() bool      { return q.seek(q.pos - 1) }
func (q *Query) Right() bool     { return q.seek(q.pos + 1) }
func (q *Query) Home() bool      { return q.seek(0) }
func (q *Query) End() bool       { return q.seek(len(q.runes)) }
func (q *Query) WordLeft() bool  { return q.seek(q.wordStart()) }
func (q *Query) WordRight() bool { return q.seek(q.wordEnd()) }

func (q *Query) seek(to int) bool {
	if to < 0 || to > len(q.runes) || to == q.pos {
		return false
	}
	q.pos = to
	return true
}

func (q *Query) cut(from, to int) {
	q.runes = append(q.runes[:from:from], q.runes[to:]...)
	q.pos = from
}

func (q *Query) wordStart() int {
	i := q.pos
	for i > 0 && unicode.IsSpace(q.runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(q.runes[i-1]) {
		i--
	}
	return i
}

func (q *Query) wordEnd() int {
	i := q.pos
	for i < len(q.runes) && !unicode.IsSpace(q.runes[i]) {
		i++
	}
	for i < len(q.runes) && unicode.IsSpace(q.runes[i]) {
		i++
	}
	return i
}
