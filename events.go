package iec104

import "fmt"

// EventKind discriminates the Event union emitted to the consumer sink.
type EventKind int

const (
	EventConnected EventKind = iota
	EventDisconnected
	EventDataTransferStarted
	EventDataTransferStopped
	EventDataUpdate
	EventAsduReceived
	EventCommandConfirm
	EventInterrogationComplete
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "Connected"
	case EventDisconnected:
		return "Disconnected"
	case EventDataTransferStarted:
		return "DataTransferStarted"
	case EventDataTransferStopped:
		return "DataTransferStopped"
	case EventDataUpdate:
		return "DataUpdate"
	case EventAsduReceived:
		return "AsduReceived"
	case EventCommandConfirm:
		return "CommandConfirm"
	case EventInterrogationComplete:
		return "InterrogationComplete"
	case EventError:
		return "Error"
	default:
		return "Unknown"
	}
}

// CommandConfirmInfo is the payload of an EventCommandConfirm event.
type CommandConfirmInfo struct {
	IOA     IOA
	Success bool
}

// InterrogationCompleteInfo is the payload of an EventInterrogationComplete
// event.
type InterrogationCompleteInfo struct {
	CommonAddress uint16
}

// Event is the closed tagged union delivered to the consumer sink. Only
// the field(s) matching Kind are meaningful.
type Event struct {
	Kind EventKind

	Points                 []DataPoint
	Asdu                   ASDU
	CommandConfirm         CommandConfirmInfo
	InterrogationComplete  InterrogationCompleteInfo
	Err                    error
}

func (e Event) String() string {
	switch e.Kind {
	case EventDataUpdate:
		return fmt.Sprintf("%s(%d points)", e.Kind, len(e.Points))
	case EventError:
		return fmt.Sprintf("%s(%v)", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

// EventSink is a bounded, single-producer/single-consumer queue of Events.
// It is lossy on overflow: the protocol loop never blocks waiting for a
// slow consumer, it just drops the event and logs a warning.
type EventSink struct {
	ch chan Event
}

// NewEventSink returns a sink buffering up to capacity events.
func NewEventSink(capacity int) *EventSink {
	if capacity <= 0 {
		capacity = 1
	}
	return &EventSink{ch: make(chan Event, capacity)}
}

// Events returns the channel consumers should range over.
func (s *EventSink) Events() <-chan Event { return s.ch }

// emit attempts a non-blocking send, dropping the event if the sink is
// full.
func (s *EventSink) emit(e Event) {
	select {
	case s.ch <- e:
	default:
		_lg.Warnf("event sink full, dropping %s event", e.Kind)
	}
}

func (s *EventSink) close() { close(s.ch) }
