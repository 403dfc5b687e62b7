package iec104

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"
)

// LinkState is the Link's position in the connection/flow-control state
// machine from spec §4.4.
type LinkState int

const (
	StateDisconnected LinkState = iota
	StateConnected
	StateActive
	StateStopping
)

func (s LinkState) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnected:
		return "Connected"
	case StateActive:
		return "Active"
	case StateStopping:
		return "Stopping"
	default:
		return "Unknown"
	}
}

// Link is one TCP session against a controlled station: the APCI/ASDU
// codec, the sliding-window flow-control accounting and the T1/T2/T3 timers
// all live here. A Link is single-use — once it reaches Disconnected the
// caller must build a new one to reconnect, it never re-enters a prior
// flow-control state without resetting its counters.
//
// The state is guarded by one mutex rather than owned by a single actor
// goroutine: a background reader drains the socket and a ticker polls the
// timers, both taking the lock around the handful of fields they touch.
type Link struct {
	cfg  *Config
	sink *EventSink

	mu     sync.Mutex
	conn   net.Conn
	framer *Framer
	state  LinkState

	sendSeq    uint16
	recvSeq    uint16
	unackedOut uint16
	unackedIn  uint16

	lastRecvAt           time.Time
	awaitingConfirmSince *time.Time
	unackedInSince       *time.Time
	testFrPending        bool

	startDTConCh chan error
	stopDTConCh  chan error

	stopPoll chan struct{}
	readDone chan struct{}
}

// NewLink builds a Link in state Disconnected. Events observed over the
// session's lifetime are delivered on sink.
func NewLink(cfg *Config, sink *EventSink) *Link {
	return &Link{
		cfg:    cfg,
		sink:   sink,
		framer: NewFramer(),
		state:  StateDisconnected,
	}
}

// State returns the Link's current state.
func (l *Link) State() LinkState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Events returns the channel of observed Events for this Link.
func (l *Link) Events() <-chan Event {
	return l.sink.Events()
}

// Connect dials cfg.Address, performs the STARTDT handshake and blocks
// until the Link reaches Active or ctx/T1 expires.
func (l *Link) Connect(ctx context.Context) error {
	if err := l.cfg.Validate(); err != nil {
		return err
	}

	d := net.Dialer{Timeout: l.cfg.ConnectTimeout}
	conn, err := d.DialContext(ctx, "tcp", l.cfg.Address)
	if err != nil {
		return fmt.Errorf("iec104: dial %s: %w", l.cfg.Address, err)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}

	l.mu.Lock()
	l.conn = conn
	l.state = StateConnected
	l.sendSeq, l.recvSeq, l.unackedOut, l.unackedIn = 0, 0, 0, 0
	l.awaitingConfirmSince = nil
	l.unackedInSince = nil
	l.testFrPending = false
	l.lastRecvAt = time.Now()
	l.startDTConCh = make(chan error, 1)
	l.mu.Unlock()

	l.sink.emit(Event{Kind: EventConnected})
	_lg.Infof("iec104: connected to %s", l.cfg.Address)

	l.readDone = make(chan struct{})
	l.stopPoll = make(chan struct{})
	go l.readLoop()
	go l.timerLoop()

	if err := l.sendUAct(UStartDtAct); err != nil {
		_ = l.teardown(err)
		return err
	}

	select {
	case err := <-l.startDTConCh:
		if err != nil {
			return err
		}
		return nil
	case <-time.After(l.cfg.T1):
		err := &TimeoutError{Timer: "t1"}
		l.fatal(err)
		return err
	case <-ctx.Done():
		_ = l.teardown(ctx.Err())
		return ctx.Err()
	}
}

// Close performs the STOPDT handshake (if Active) and tears the Link down.
// It is safe to call more than once.
func (l *Link) Close() error {
	l.mu.Lock()
	state := l.state
	l.mu.Unlock()

	if state == StateActive {
		l.mu.Lock()
		l.stopDTConCh = make(chan error, 1)
		l.mu.Unlock()
		if err := l.sendUAct(UStopDtAct); err == nil {
			l.mu.Lock()
			l.state = StateStopping
			l.mu.Unlock()
			select {
			case <-l.stopDTConCh:
			case <-time.After(l.cfg.T1):
			}
		}
	}
	return l.teardown(nil)
}

func (l *Link) teardown(cause error) error {
	l.mu.Lock()
	if l.state == StateDisconnected {
		l.mu.Unlock()
		return nil
	}
	l.state = StateDisconnected
	conn := l.conn
	l.mu.Unlock()

	if l.stopPoll != nil {
		close(l.stopPoll)
	}
	if conn != nil {
		_ = conn.Close()
	}
	if l.readDone != nil {
		<-l.readDone
	}

	if cause != nil {
		_lg.Errorf("iec104: link closed: %v", cause)
	} else {
		_lg.Infof("iec104: link closed")
	}
	l.sink.emit(Event{Kind: EventDisconnected})
	return nil
}

// fatal reports err as an Error event and tears the Link down. It must
// never be called while l.mu is held: teardown re-acquires it.
func (l *Link) fatal(err error) {
	l.sink.emit(Event{Kind: EventError, Err: err})
	go func() { _ = l.teardown(err) }()
}

func (l *Link) sendUAct(fn UFunction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sendUFrameLocked(fn)
}

func (l *Link) sendUFrameLocked(fn UFunction) error {
	apci := NewUFrame(fn)
	frame, err := EncodeAPDU(apci, nil)
	if err != nil {
		return err
	}
	if _, err := l.conn.Write(frame); err != nil {
		return fmt.Errorf("iec104: write u-frame: %w", err)
	}
	if fn == UStartDtAct || fn == UStopDtAct || fn == UTestFrAct {
		now := time.Now()
		l.awaitingConfirmSince = &now
	}
	_lg.Debugf("iec104: sent %s", fn)
	return nil
}

func (l *Link) sendSFrameLocked() error {
	apci := NewSFrame(l.recvSeq)
	frame, err := EncodeAPDU(apci, nil)
	if err != nil {
		return err
	}
	if _, err := l.conn.Write(frame); err != nil {
		return fmt.Errorf("iec104: write s-frame: %w", err)
	}
	l.unackedIn = 0
	l.unackedInSince = nil
	_lg.Debugf("iec104: sent S-frame recv_seq=%d", l.recvSeq)
	return nil
}

// sendIFrame writes asdu as an I-frame's payload, enforcing the K window.
func (l *Link) sendIFrame(asdu []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateActive {
		return &StateError{Op: "send I-frame", State: l.state}
	}
	if l.unackedOut >= l.cfg.K {
		return &FlowControlError{K: l.cfg.K}
	}

	apci := NewIFrame(l.sendSeq, l.recvSeq)
	frame, err := EncodeAPDU(apci, asdu)
	if err != nil {
		return err
	}
	if _, err := l.conn.Write(frame); err != nil {
		return fmt.Errorf("iec104: write i-frame: %w", err)
	}

	l.sendSeq = seqNext(l.sendSeq)
	l.unackedOut++
	l.unackedIn = 0
	l.unackedInSince = nil
	if l.awaitingConfirmSince == nil {
		now := time.Now()
		l.awaitingConfirmSince = &now
	}
	return nil
}

// SendGeneralInterrogation requests a full data refresh for commonAddress.
func (l *Link) SendGeneralInterrogation(commonAddress uint16) error {
	return l.sendIFrame(BuildGeneralInterrogation(commonAddress))
}

// SendCounterInterrogation requests a counter freeze/read for commonAddress.
func (l *Link) SendCounterInterrogation(commonAddress uint16, group byte) error {
	return l.sendIFrame(BuildCounterInterrogation(commonAddress, group))
}

// SendClockSync sends a clock synchronization command carrying t.
func (l *Link) SendClockSync(commonAddress uint16, t time.Time) error {
	return l.sendIFrame(BuildClockSync(commonAddress, BuildClockSyncFromTime(t)))
}

// SendSingleCommand issues a single command against ioa.
func (l *Link) SendSingleCommand(commonAddress uint16, ioa IOA, value bool, selectBeforeOperate bool) error {
	return l.sendIFrame(BuildSingleCommand(commonAddress, ioa, value, selectBeforeOperate))
}

// SendDoubleCommand issues a double command against ioa.
func (l *Link) SendDoubleCommand(commonAddress uint16, ioa IOA, value DoublePointValue, selectBeforeOperate bool) error {
	return l.sendIFrame(BuildDoubleCommand(commonAddress, ioa, value, selectBeforeOperate))
}

// SendSetpointFloat issues a short-floating-point setpoint against ioa.
func (l *Link) SendSetpointFloat(commonAddress uint16, ioa IOA, value float32, selectBeforeOperate bool) error {
	return l.sendIFrame(BuildSetpointFloat(commonAddress, ioa, value, selectBeforeOperate))
}

func (l *Link) readLoop() {
	defer close(l.readDone)
	buf := make([]byte, 4096)
	for {
		n, err := l.conn.Read(buf)
		if err != nil {
			l.mu.Lock()
			live := l.state != StateDisconnected
			l.mu.Unlock()
			if live {
				go func() { _ = l.teardown(fmt.Errorf("iec104: peer closed: %w", err)) }()
			}
			return
		}

		l.mu.Lock()
		l.lastRecvAt = time.Now()
		l.testFrPending = false
		frames, ferr := l.framer.Feed(buf[:n])

		var fatalErr error
		for _, f := range frames {
			if fe := l.handleFrameLocked(f); fe != nil {
				fatalErr = fe
				break
			}
		}
		if fatalErr == nil && ferr != nil {
			fatalErr = &ProtocolError{Msg: ferr.Error()}
		}
		l.mu.Unlock()

		if fatalErr != nil {
			l.fatal(fatalErr)
			return
		}
	}
}

func (l *Link) handleFrameLocked(f Frame) error {
	switch f.APCI.Type {
	case FrameTypeI:
		return l.handleIFrameLocked(f)
	case FrameTypeS:
		return l.ackSentLocked(f.APCI.RecvSeq)
	case FrameTypeU:
		return l.handleUFrameLocked(f.APCI.UFunc)
	default:
		return &ProtocolError{Msg: "unknown frame type on wire"}
	}
}

func (l *Link) handleIFrameLocked(f Frame) error {
	if l.state != StateActive {
		return &ProtocolError{Msg: "received I-frame while not Active"}
	}
	if err := l.ackSentLocked(f.APCI.RecvSeq); err != nil {
		return err
	}
	if f.APCI.SendSeq != l.recvSeq {
		return &ProtocolError{Msg: fmt.Sprintf("sequence mismatch: expected send_seq %d, got %d", l.recvSeq, f.APCI.SendSeq)}
	}
	if len(f.ASDU) >= AsduHeaderLen {
		if _, herr := ParseASDUHeader(f.ASDU); herr != nil {
			return &ProtocolError{Msg: herr.Error()}
		}
	}

	asdu, err := ParseASDU(f.ASDU)
	l.recvSeq = seqNext(l.recvSeq)
	l.unackedIn++
	if l.unackedInSince == nil {
		now := time.Now()
		l.unackedInSince = &now
	}
	if l.unackedIn >= l.cfg.W {
		if werr := l.sendSFrameLocked(); werr != nil {
			return &ProtocolError{Msg: werr.Error()}
		}
	}

	if err != nil {
		l.sink.emit(Event{Kind: EventError, Err: &CodecError{Msg: err.Error()}})
		return nil
	}
	l.dispatchAsduLocked(asdu)
	return nil
}

func (l *Link) dispatchAsduLocked(asdu ASDU) {
	h := asdu.Header
	switch {
	case len(asdu.Points) > 0:
		l.sink.emit(Event{Kind: EventDataUpdate, Points: asdu.Points})
	case isInterrogationType(h.TypeID) && h.COT == CotActTerm:
		l.sink.emit(Event{Kind: EventInterrogationComplete, InterrogationComplete: InterrogationCompleteInfo{CommonAddress: h.CommonAddress}})
	case isInterrogationType(h.TypeID):
		_lg.Debugf("iec104: %s cot=%d for ca=%d", h.TypeID, h.COT, h.CommonAddress)
	case isCommandType(h.TypeID):
		var ioa IOA
		if len(asdu.Raw) >= AsduHeaderLen+IOALength {
			ioa = parseIOA(asdu.Raw[AsduHeaderLen : AsduHeaderLen+IOALength])
		}
		switch {
		case h.IsNegativeConfirm():
			l.sink.emit(Event{Kind: EventCommandConfirm, CommandConfirm: CommandConfirmInfo{IOA: ioa, Success: false}})
		case h.COT == CotActConfirm:
			l.sink.emit(Event{Kind: EventCommandConfirm, CommandConfirm: CommandConfirmInfo{IOA: ioa, Success: true}})
		default:
			l.sink.emit(Event{Kind: EventAsduReceived, Asdu: asdu})
		}
	default:
		l.sink.emit(Event{Kind: EventAsduReceived, Asdu: asdu})
	}
}

// ackSentLocked applies an incoming recv_seq against the outbound window,
// per spec §4.4's ack math: oldest = (send_seq - unacked_out) mod 32768,
// acked = distance(oldest, recv_seq). A recv_seq claiming to acknowledge
// more frames than are outstanding is a protocol violation.
func (l *Link) ackSentLocked(rs uint16) error {
	oldest := seqSub(l.sendSeq, l.unackedOut)
	acked := seqDistance(oldest, rs)
	if acked > l.unackedOut {
		return &ProtocolError{Msg: fmt.Sprintf("ack for unsent frames: recv_seq=%d oldest=%d unacked_out=%d", rs, oldest, l.unackedOut)}
	}
	l.unackedOut -= acked
	if l.unackedOut == 0 {
		l.awaitingConfirmSince = nil
	} else if acked > 0 {
		now := time.Now()
		l.awaitingConfirmSince = &now
	}
	return nil
}

func (l *Link) handleUFrameLocked(fn UFunction) error {
	switch fn {
	case UStartDtCon:
		if l.state != StateConnected {
			return &ProtocolError{Msg: "unexpected STARTDT confirmation"}
		}
		l.state = StateActive
		l.sendSeq, l.recvSeq, l.unackedOut, l.unackedIn = 0, 0, 0, 0
		l.awaitingConfirmSince = nil
		l.unackedInSince = nil
		l.sink.emit(Event{Kind: EventDataTransferStarted})
		if l.startDTConCh != nil {
			select {
			case l.startDTConCh <- nil:
			default:
			}
		}
		return nil
	case UStopDtCon:
		if l.state != StateStopping {
			return &ProtocolError{Msg: "unexpected STOPDT confirmation"}
		}
		l.state = StateConnected
		l.awaitingConfirmSince = nil
		l.sink.emit(Event{Kind: EventDataTransferStopped})
		if l.stopDTConCh != nil {
			select {
			case l.stopDTConCh <- nil:
			default:
			}
		}
		return nil
	case UTestFrAct:
		if err := l.sendUFrameLocked(UTestFrCon); err != nil {
			return &ProtocolError{Msg: err.Error()}
		}
		return nil
	case UTestFrCon:
		if l.unackedOut == 0 {
			l.awaitingConfirmSince = nil
		}
		return nil
	default:
		return &ProtocolError{Msg: fmt.Sprintf("unexpected %s from peer", fn)}
	}
}

func (l *Link) timerLoop() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-l.stopPoll:
			return
		case <-ticker.C:
			l.pollTimers()
		}
	}
}

func (l *Link) pollTimers() {
	l.mu.Lock()
	if l.state == StateDisconnected {
		l.mu.Unlock()
		return
	}

	now := time.Now()
	var fatalErr error
	var needSFrame, needTestFr bool

	if l.awaitingConfirmSince != nil && now.Sub(*l.awaitingConfirmSince) >= l.cfg.T1 {
		fatalErr = &TimeoutError{Timer: "t1"}
	} else {
		if l.unackedInSince != nil && now.Sub(*l.unackedInSince) >= l.cfg.T2 {
			needSFrame = true
		}
		if !l.testFrPending && now.Sub(l.lastRecvAt) >= l.cfg.T3 {
			needTestFr = true
		}
	}

	if fatalErr == nil && needSFrame {
		if err := l.sendSFrameLocked(); err != nil {
			fatalErr = &ProtocolError{Msg: err.Error()}
		}
	}
	if fatalErr == nil && needTestFr {
		if err := l.sendUFrameLocked(UTestFrAct); err != nil {
			fatalErr = &ProtocolError{Msg: err.Error()}
		} else {
			l.testFrPending = true
		}
	}
	l.mu.Unlock()

	if fatalErr != nil {
		l.fatal(fatalErr)
	}
}
