// Package ui contains the Bubble Tea program that renders the control box.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages.
//   - Key presses go to the active form (login or add-contact) unless they
//     are global bindings. Everything else is routed through a typed handler
//     registry so each tea.Msg is handled by a focused function.
//   - After every update the mode is derived from the controlbox.Controller:
//     the toggle while the box is hidden, otherwise the login or contacts
//     pane the controller selected.
//
// State ownership:
//   - Session visibility and pane selection live in controlbox.Controller.
//     The model never decides them itself; it calls Open, Close, SwitchTab
//     and Render and reads the result back.
//   - Roster and chat data live in internal/state and are kept current by
//     the dispatcher. The roster rows, filter and viewport are held in an
//     internal/ui/state.List.
//   - Actions that talk to the host off the UI goroutine run through the
//     internal/ui/command bus.
//
// Backend interactions:
//   - A backend.Watcher streams host bridge events. Update waits for them and
//     hands each to applyBackendEvent, which lets the dispatcher update the
//     stores and fan lifecycle events out through the host.Hub.
//   - Online count and unread counter redraws are debounced with sequenced
//     ticks so bursts of roster or chat updates collapse into one redraw.
package ui
