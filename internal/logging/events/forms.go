package events

import "github.com/atomicstack/controlbox/internal/logging"

type LoginTracer struct{}

type ContactsTracer struct{}

type ToggleTracer struct{}

type loginReason string

const (
	LoginReasonInvalid loginReason = "invalid"
	LoginReasonEmpty   loginReason = "empty"
)

var (
	Login    = LoginTracer{}
	Contacts = ContactsTracer{}
	Toggle   = ToggleTracer{}
)

func (LoginTracer) Validate(input string, ok bool) {
	logging.Trace("login.validate", map[string]interface{}{"input": input, "ok": ok})
}

func (LoginTracer) Submit(jid string) {
	logging.Trace("login.submit", map[string]interface{}{"jid": jid})
}

func (LoginTracer) Reject(input string, reason loginReason) {
	logging.Trace("login.reject", map[string]interface{}{"input": input, "reason": string(reason)})
}

func (LoginTracer) Route(from string) {
	logging.Trace("login.route.clear", map[string]interface{}{"fragment": from})
}

func (LoginTracer) Status(code int, message string) {
	logging.Trace("login.status", map[string]interface{}{"code": code, "message": message})
}

func (ContactsTracer) Add(jid, name string) {
	logging.Trace("contacts.add", map[string]interface{}{"jid": jid, "name": name})
}

func (ContactsTracer) Reject(jid string) {
	logging.Trace("contacts.add.reject", map[string]interface{}{"jid": jid})
}

func (ContactsTracer) Search(seq uint64, query string) {
	logging.Trace("contacts.search", map[string]interface{}{"seq": seq, "query": query})
}

func (ContactsTracer) Results(seq uint64, count int) {
	logging.Trace("contacts.search.results", map[string]interface{}{"seq": seq, "count": count})
}

func (ContactsTracer) Stale(seq, latest uint64) {
	logging.Trace("contacts.search.stale", map[string]interface{}{"seq": seq, "latest": latest})
}

func (ContactsTracer) FormToggle(expanded bool) {
	logging.Trace("contacts.form", map[string]interface{}{"expanded": expanded})
}

func (ToggleTracer) Count(seq uint64, count int) {
	logging.Trace("toggle.count", map[string]interface{}{"seq": seq, "count": count})
}

func (ToggleTracer) Redraw(count int) {
	logging.Trace("toggle.redraw", map[string]interface{}{"count": count})
}

func (ToggleTracer) Click(visible bool) {
	logging.Trace("toggle.click", map[string]interface{}{"visible": visible})
}
