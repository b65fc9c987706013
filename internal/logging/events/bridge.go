package events

import "github.com/atomicstack/controlbox/internal/logging"

type BridgeTracer struct{}

var Bridge = BridgeTracer{}

func (BridgeTracer) Dial(url string, attempt int) {
	logging.Trace("bridge.dial", map[string]interface{}{"url": url, "attempt": attempt})
}

func (BridgeTracer) DialError(url string, err error) {
	logging.Trace("bridge.dial.error", map[string]interface{}{"url": url, "error": err.Error()})
}

func (BridgeTracer) Receive(kind string) {
	logging.Trace("bridge.receive", map[string]interface{}{"type": kind})
}

func (BridgeTracer) Send(kind string) {
	logging.Trace("bridge.send", map[string]interface{}{"type": kind})
}

func (BridgeTracer) Decode(kind string, err error) {
	logging.Trace("bridge.decode.error", map[string]interface{}{"type": kind, "error": err.Error()})
}
