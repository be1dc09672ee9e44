package state

import "github.com/charmbracelet/x/ansi"

// Item is one selectable row. Line is handed back on selection and keeps the
// colour of the input; Text is what the query matches against.
type Item struct {
	Line string
	Text string
}

// ItemsFromLines turns picker input into items, stripping escapes from the
// matchable text.
func ItemsFromLines(lines []string) []Item {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, Item{Line: line, Text: ansi.Strip(line)})
	}
	return items
}
