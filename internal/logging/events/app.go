package events

import "github.com/atomicstack/commit-browser/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Session(repo, ref string, depth int) {
	logging.Trace("app.session", map[string]interface{}{"repo": repo, "ref": ref, "depth": depth})
}

func (AppTracer) Finish(commands int, exit bool) {
	logging.Trace("app.finish", map[string]interface{}{"commands": commands, "exit": exit})
}
