package iec104

import (
	"context"
	"time"
)

// Client in IEC 104 is also called master or controlling station.
// Server in IEC 104 is also called slave or controlled station; this
// module only implements the Client side.
//
// Client is a thin convenience wrapper around Config, Link and EventSink
// for callers who want the simplest possible entry point: build one with
// NewClient, call Connect, range over Events, and Close when done.
type Client struct {
	cfg  *Config
	sink *EventSink
	link *Link
}

// NewClient returns a Client targeting address with every Config field at
// its default. Use Config() to reach the builder chain before Connect.
func NewClient(address string) *Client {
	cfg := NewConfig(address)
	return &Client{cfg: cfg, sink: NewEventSink(64)}
}

// Config returns the Client's Config for in-place tuning before Connect,
// e.g. client.Config().SetTimers(...).SetWindow(...).
func (c *Client) Config() *Config {
	return c.cfg
}

// Connect dials the server and performs the STARTDT handshake, blocking
// until the Link is Active or ctx/T1 expires.
func (c *Client) Connect(ctx context.Context) error {
	c.link = NewLink(c.cfg, c.sink)
	return c.link.Connect(ctx)
}

// Close performs the STOPDT handshake and tears down the connection.
func (c *Client) Close() error {
	if c.link == nil {
		return nil
	}
	return c.link.Close()
}

// State reports the Client's current link state.
func (c *Client) State() LinkState {
	if c.link == nil {
		return StateDisconnected
	}
	return c.link.State()
}

// Events returns the channel of observed Events.
func (c *Client) Events() <-chan Event {
	return c.sink.Events()
}

// SendGeneralInterrogation requests a full data refresh for commonAddress.
func (c *Client) SendGeneralInterrogation(commonAddress uint16) error {
	return c.link.SendGeneralInterrogation(commonAddress)
}

// SendCounterInterrogation requests a counter freeze/read for commonAddress.
func (c *Client) SendCounterInterrogation(commonAddress uint16, group byte) error {
	return c.link.SendCounterInterrogation(commonAddress, group)
}

// SendClockSync sends a clock synchronization command carrying t.
func (c *Client) SendClockSync(commonAddress uint16, t time.Time) error {
	return c.link.SendClockSync(commonAddress, t)
}

// SendSingleCommand issues a single command against ioa.
func (c *Client) SendSingleCommand(commonAddress uint16, ioa IOA, value bool, selectBeforeOperate bool) error {
	return c.link.SendSingleCommand(commonAddress, ioa, value, selectBeforeOperate)
}

// SendDoubleCommand issues a double command against ioa.
func (c *Client) SendDoubleCommand(commonAddress uint16, ioa IOA, value DoublePointValue, selectBeforeOperate bool) error {
	return c.link.SendDoubleCommand(commonAddress, ioa, value, selectBeforeOperate)
}

// SendSetpointFloat issues a short-floating-point setpoint against ioa.
func (c *Client) SendSetpointFloat(commonAddress uint16, ioa IOA, value float32, selectBeforeOperate bool) error {
	return c.link.SendSetpointFloat(commonAddress, ioa, value, selectBeforeOperate)
}
