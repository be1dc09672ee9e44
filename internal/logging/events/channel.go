package events

import "github.com/atomicstack/commit-browser/internal/logging"

type ChannelTracer struct{}

var Channel = ChannelTracer{}

func (ChannelTracer) Queue(path, command string) {
	logging.Trace("channel.queue", map[string]interface{}{"path": path, "command": command})
}

func (ChannelTracer) Control(path, command string) {
	logging.Trace("channel.control", map[string]interface{}{"path": path, "command": command})
}

func (ChannelTracer) Forward(from, to string, count int) {
	logging.Trace("channel.forward", map[string]interface{}{"from": from, "to": to, "count": count})
}

func (ChannelTracer) Replay(command string, err error) {
	payload := map[string]interface{}{"command": command}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("channel.replay", payload)
}

func (ChannelTracer) WatchFallback(path string, err error) {
	logging.Trace("channel.watch-fallback", map[string]interface{}{"path": path, "error": err.Error()})
}
