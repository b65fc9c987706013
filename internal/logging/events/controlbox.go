package events

import "github.com/atomicstack/controlbox/internal/logging"

type ControlBoxTracer struct{}

type HubTracer struct{}

var (
	ControlBox = ControlBoxTracer{}
	Hub        = HubTracer{}
)

func (ControlBoxTracer) Added(closed bool) {
	logging.Trace("controlbox.added", map[string]interface{}{"closed": closed})
}

func (ControlBoxTracer) Restore(record map[string]interface{}) {
	logging.Trace("controlbox.restore", map[string]interface{}{"record": record})
}

func (ControlBoxTracer) Render(pane string, visible bool) {
	logging.Trace("controlbox.render", map[string]interface{}{"pane": pane, "visible": visible})
}

func (ControlBoxTracer) Connection(connected bool) {
	logging.Trace("controlbox.connection", map[string]interface{}{"connected": connected})
}

func (ControlBoxTracer) Open(persisted bool) {
	logging.Trace("controlbox.open", map[string]interface{}{"persisted": persisted})
}

func (ControlBoxTracer) Close(persisted bool) {
	logging.Trace("controlbox.close", map[string]interface{}{"persisted": persisted})
}

func (ControlBoxTracer) Ignored(op string) {
	logging.Trace("controlbox.ignored", map[string]interface{}{"op": op, "reason": "sticky"})
}

func (ControlBoxTracer) Show() {
	logging.Trace("controlbox.show", nil)
}

func (ControlBoxTracer) Hide() {
	logging.Trace("controlbox.hide", nil)
}

func (ControlBoxTracer) SwitchTab(tab string, persisted bool) {
	logging.Trace("controlbox.tab", map[string]interface{}{"tab": tab, "persisted": persisted})
}

func (ControlBoxTracer) Persist(keys []string) {
	logging.Trace("controlbox.persist", map[string]interface{}{"keys": keys})
}

func (ControlBoxTracer) PersistError(keys []string, err error) {
	logging.Trace("controlbox.persist.error", map[string]interface{}{"keys": keys, "error": err.Error()})
}

func (HubTracer) Dispatch(event string) {
	logging.Trace("hub.dispatch", map[string]interface{}{"event": event})
}

func (HubTracer) Emit(event string) {
	logging.Trace("hub.emit", map[string]interface{}{"event": event})
}

func (HubTracer) CloseAll(ids []string) {
	logging.Trace("hub.close", map[string]interface{}{"ids": ids})
}
