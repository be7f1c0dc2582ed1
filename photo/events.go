package photo

// EventKind tags a pipeline Event.
type EventKind int

const (
	// EventStatus carries a free-text status line.
	EventStatus EventKind = iota
	// EventProgress reports metadata copy progress (Current of Total).
	EventProgress
	// EventComplete is the terminal success event; Result is set.
	EventComplete
	// EventError is the terminal failure event; Message holds the error.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventStatus:
		return "status"
	case EventProgress:
		return "progress"
	case EventComplete:
		return "complete"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one message of a pipeline run, delivered in emission order.
type Event struct {
	Kind    EventKind
	Message string
	Current int
	Total   int
	Result  *ProcessingResult
}

// Terminal reports whether e ends a run.
func (e Event) Terminal() bool {
	return e.Kind == EventComplete || e.Kind == EventError
}

// Listener receives pipeline events. Calls are serialized but may come from
// worker goroutines during the metadata copy stage.
type Listener func(Event)

// ChannelListener forwards events into ch. The caller owns ch and must keep
// draining it until a terminal event arrives.
func ChannelListener(ch chan<- Event) Listener {
	return func(e Event) { ch <- e }
}
