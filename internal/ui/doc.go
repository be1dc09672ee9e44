// Package ui contains the Bubble Tea programs used when the external fuzzy
// finder or pager is not installed: a single-level line picker with a live
// preview panel and key bindings, and a scrollable pager.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages. Messages are
//     routed through a typed handler registry so each tea.Msg is handled by a
//     focused function (key presses, resizes, preview results, finished
//     binding commands).
//   - Key presses are first matched against the caller's bindings, then
//     against filter editing (internal/ui/input.go), then against list
//     navigation (internal/ui/navigation.go).
//   - Bindings that run a command hand the terminal over with
//     tea.ExecProcess and refresh the preview when the command returns.
//
// State ownership:
//   - List state lives in internal/ui/state.List: rows in input order, the
//     query being edited, the cursor and the scroll window.
//   - Preview output is produced asynchronously by the caller's PreviewFunc;
//     stale results are dropped by sequence number.
package ui
