package dom

// Event is a dispatched document event. Dispatch is target-only; there
// is no capture or bubble phase. Raw carries the originating runtime
// event object, when one exists, so listeners can hand it back out
// unchanged.
type Event struct {
	Type   string
	Target *Element
	Detail map[string]interface{}
	Raw    interface{}
}

// Listener handles a dispatched event
type Listener func(*Event)

// NewEvent creates an event of the given type
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}
