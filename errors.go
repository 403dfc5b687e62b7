package iec104

import "fmt"

// FlowControlError is returned synchronously to the caller when an I-frame
// is requested while unacked_out has already reached K. The Link stays
// Active; this is always recoverable.
type FlowControlError struct {
	K uint16
}

func (e *FlowControlError) Error() string {
	return fmt.Sprintf("iec104: too many unconfirmed frames (K=%d)", e.K)
}

// StateError is returned synchronously when an API call is invalid for the
// Link's current state, e.g. sending an I-frame while not Active.
type StateError struct {
	Op    string
	State LinkState
}

func (e *StateError) Error() string {
	return fmt.Sprintf("iec104: cannot %s while %s", e.Op, e.State)
}

// ProtocolError reports a fatal wire-protocol violation: an unknown type
// id, unknown cause of transmission, unknown U-function, a sequence-number
// mismatch, an unexpected U-frame, or an acknowledgement for frames never
// sent. Any ProtocolError closes the Link.
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string { return "iec104: protocol error: " + e.Msg }

// TimeoutError reports a fatal timer expiry. The Link raises it only for T1:
// an I-frame, STARTDT/STOPDT or TESTFR left unconfirmed, including the
// TESTFR sent after T3 of receive silence. T2 never produces an error — it
// only triggers an internal S-frame send.
type TimeoutError struct {
	Timer string // "t1"
}

func (e *TimeoutError) Error() string { return "iec104: " + e.Timer + " timeout" }

// CodecError reports a malformed ASDU body on an otherwise well-formed
// frame. It is surfaced as an Error event; the Link stays up.
type CodecError struct {
	Msg string
}

func (e *CodecError) Error() string { return "iec104: codec error: " + e.Msg }
