package table

import (
	"reflect"
	"testing"
)

func TestFormatAlignsColumns(t *testing.T) {
	rows := [][]string{
		{"show", "s", "show the commit"},
		{"cherry-pick", "p", "cherry-pick onto HEAD"},
	}
	got := Format(rows, []Alignment{AlignLeft, AlignLeft, AlignLeft})
	want := []string{
		"show         s  show the commit",
		"cherry-pick  p  cherry-pick onto HEAD",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected rows:\n%q\n%q", got, want)
	}
}

func TestFormatRightAlignment(t *testing.T) {
	got := Format([][]string{{"a", "1"}, {"b", "100"}}, []Alignment{AlignLeft, AlignRight})
	want := []string{"a    1", "b  100"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected rows %q", got)
	}
}

func TestFormatMeasuresVisibleWidth(t *testing.T) {
	rows := [][]string{
		{"\x1b[1mab\x1b[0m", "x"},
		{"abcd", "y"},
	}
	got := Format(rows, nil)
	if got[0] != "\x1b[1mab\x1b[0m    x" {
		t.Fatalf("styled cell padded by byte length: %q", got[0])
	}
}

func TestFormatEmpty(t *testing.T) {
	if Format(nil, nil) != nil {
		t.Fatalf("expected nil for no rows")
	}
}
