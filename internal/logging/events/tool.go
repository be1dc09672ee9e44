package events

import "github.com/atomicstack/commit-browser/internal/logging"

type ToolTracer struct{}

type PickerTracer struct{}

type FilterTracer struct{}

var (
	Tool   = ToolTracer{}
	Picker = PickerTracer{}
	Filter = FilterTracer{}
)

func (ToolTracer) Probe(name, path string, found bool) {
	logging.Trace("tool.probe", map[string]interface{}{"tool": name, "path": path, "found": found})
}

func (PickerTracer) Start(kind string, lines int, nested bool) {
	logging.Trace("picker.start", map[string]interface{}{"kind": kind, "lines": lines, "nested": nested})
}

func (PickerTracer) Interrupt(kind string, running bool) {
	logging.Trace("picker.interrupt", map[string]interface{}{"kind": kind, "running": running})
}

func (PickerTracer) Exit(kind string, code int, selected string) {
	logging.Trace("picker.exit", map[string]interface{}{"kind": kind, "code": code, "selected": selected})
}

func (PickerTracer) Binding(key, command string) {
	logging.Trace("picker.binding", map[string]interface{}{"key": key, "command": command})
}

func (PickerTracer) Cursor(cursor int) {
	logging.Trace("picker.cursor", map[string]interface{}{"cursor": cursor})
}

func (FilterTracer) Changed(query string, matches int) {
	logging.Trace("filter.change", map[string]interface{}{"query": query, "matches": matches})
}

func (FilterTracer) Cursor(pos int) {
	logging.Trace("filter.cursor", map[string]interface{}{"cursor": pos})
}
