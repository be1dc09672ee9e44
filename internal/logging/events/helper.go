package events

import "github.com/atomicstack/commit-browser/internal/logging"

type HelperTracer struct{}

type ActionTracer struct{}

var (
	Helper = HelperTracer{}
	Action = ActionTracer{}
)

func (HelperTracer) Dispatch(mode string, args []string, depth int) {
	logging.Trace("helper.dispatch", map[string]interface{}{"mode": mode, "args": args, "depth": depth})
}

func (HelperTracer) Rejected(mode string) {
	logging.Trace("helper.rejected", map[string]interface{}{"mode": mode})
}

func (HelperTracer) NoCommit(mode, input string) {
	logging.Trace("helper.no-commit", map[string]interface{}{"mode": mode, "input": input})
}

func (ActionTracer) Invoke(id, commit string) {
	logging.Trace("action.invoke", map[string]interface{}{"id": id, "commit": commit})
}

func (ActionTracer) Preview(id, commit string) {
	logging.Trace("action.preview", map[string]interface{}{"id": id, "commit": commit})
}

func (ActionTracer) Error(id string, err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"id": id, "error": err.Error()})
}

func (ActionTracer) Unknown(id string) {
	logging.Trace("action.unknown", map[string]interface{}{"id": id})
}
