package state

import (
	"reflect"
	"testing"
)

func texts(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Text
	}
	return out
}

func newTestList(lines ...string) *List {
	return NewList(ItemsFromLines(lines))
}

func TestItemsFromLinesStripsColour(t *testing.T) {
	items := ItemsFromLines([]string{"* \x1b[33mabc1234\x1b[m fix"})
	if items[0].Text != "* abc1234 fix" {
		t.Fatalf("expected escapes stripped, got %q", items[0].Text)
	}
	if items[0].Line != "* \x1b[33mabc1234\x1b[m fix" {
		t.Fatalf("expected raw line kept, got %q", items[0].Line)
	}
}

func TestQueryEditing(t *testing.T) {
	var q Query
	q.Insert("fix parser")
	if q.String() != "fix parser" || q.Pos() != 10 {
		t.Fatalf("unexpected query %q at %d", q.String(), q.Pos())
	}
	if !q.WordLeft() || q.Pos() != 4 {
		t.Fatalf("expected caret at word start 4, got %d", q.Pos())
	}
	q.Insert("the ")
	if q.String() != "fix the parser" {
		t.Fatalf("expected insert at caret, got %q", q.String())
	}
	q.End()
	if !q.DeleteWord() || q.String() != "fix the " {
		t.Fatalf("expected last word deleted, got %q", q.String())
	}
	q.Home()
	if q.Backspace() {
		t.Fatalf("backspace at start must be a no-op")
	}
	if q.Left() {
		t.Fatalf("left at start must be a no-op")
	}
	if !q.WordRight() || q.Pos() != 4 {
		t.Fatalf("expected caret after first word, got %d", q.Pos())
	}
	q.Right()
	if !q.Backspace() || q.String() != "fix he " {
		t.Fatalf("expected rune before caret removed, got %q", q.String())
	}
	if !q.Clear() || !q.Empty() || q.Pos() != 0 {
		t.Fatalf("expected cleared query")
	}
	if q.Clear() {
		t.Fatalf("clearing an empty query must report no change")
	}
}

func TestMatchSyntax(t *testing.T) {
	text := "* abc1234 Fix parser for merges"
	cases := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"fxprs", true},
		{"'fxprs", false},
		{"'parser", true},
		{"^* abc", true},
		{"^abc", false},
		{"merges$", true},
		{"parser$", false},
		{"!docs", true},
		{"!parser", false},
		{"fix merges", true},
		{"fix docs", false},
		{"FIX", true},
	}
	for _, tc := range cases {
		if got := Match(tc.query, text); got != tc.want {
			t.Fatalf("Match(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}

func TestFilterKeepsInputOrder(t *testing.T) {
	items := ItemsFromLines([]string{"c docs", "b fix docs", "a docs tweak"})
	got := texts(Filter(items, "docs"))
	want := []string{"c docs", "b fix docs", "a docs tweak"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected input order %v, got %v", want, got)
	}
	if got := Filter(items, "zzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", texts(got))
	}
}

func TestListEditRefiltersAndResetsCursor(t *testing.T) {
	l := newTestList("one", "two", "three")
	l.Step(2)
	if !l.Edit(func(q *Query) bool { return q.Insert("t") }) {
		t.Fatalf("expected edit applied")
	}
	if got := texts(l.Rows()); !reflect.DeepEqual(got, []string{"two", "three"}) {
		t.Fatalf("unexpected rows %v", got)
	}
	if l.Cursor() != 0 {
		t.Fatalf("expected cursor on first match, got %d", l.Cursor())
	}
	l.Step(1)
	if !l.Edit(func(q *Query) bool { return q.Left() }) || l.Cursor() != 1 {
		t.Fatalf("caret moves must not refilter, cursor %d", l.Cursor())
	}
	if l.Edit(func(q *Query) bool { return q.Left() }) {
		t.Fatalf("expected no change at start of query")
	}
	if l.Total() != 3 {
		t.Fatalf("expected total 3, got %d", l.Total())
	}
}

func TestListStepWraps(t *testing.T) {
	l := newTestList("a", "b", "c")
	l.Step(-1)
	if l.Cursor() != 2 {
		t.Fatalf("expected wrap to last row, got %d", l.Cursor())
	}
	l.Step(1)
	if l.Cursor() != 0 {
		t.Fatalf("expected wrap to first row, got %d", l.Cursor())
	}
	if newTestList().Step(1) {
		t.Fatalf("empty list must not move")
	}
}

func TestListJumpClamps(t *testing.T) {
	l := newTestList("a", "b", "c", "d", "e")
	if !l.Jump(2) || l.Cursor() != 2 {
		t.Fatalf("expected cursor 2, got %d", l.Cursor())
	}
	if !l.Jump(10) || l.Cursor() != 4 {
		t.Fatalf("expected clamp to last row, got %d", l.Cursor())
	}
	if l.Jump(1) {
		t.Fatalf("expected no movement past the end")
	}
	if !l.Jump(-10) || l.Cursor() != 0 {
		t.Fatalf("expected clamp to first row, got %d", l.Cursor())
	}
	if _, ok := newTestList().Current(); ok {
		t.Fatalf("empty list has no current row")
	}
}

func TestListWindowFollowsCursor(t *testing.T) {
	l := newTestList("a", "b", "c", "d", "e")
	l.Jump(4)
	if got := texts(l.Window(2)); !reflect.DeepEqual(got, []string{"d", "e"}) {
		t.Fatalf("expected last page, got %v", got)
	}
	if l.Offset() != 3 {
		t.Fatalf("expected offset 3, got %d", l.Offset())
	}
	l.Jump(-3)
	if got := texts(l.Window(2)); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("expected window to scroll up to cursor, got %v", got)
	}
	if got := l.Window(0); len(got) != 5 || l.Offset() != 0 {
		t.Fatalf("expected everything visible without a height")
	}
}
