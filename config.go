package iec104

import (
	"fmt"
	"time"
)

const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultT1             = 15 * time.Second
	DefaultT2             = 10 * time.Second
	DefaultT3             = 20 * time.Second
	DefaultK              = 12
	DefaultW              = 8
)

// Config holds everything a Link needs to dial and run a session: the
// remote address and the timing/window parameters from spec §6. Build one
// with NewConfig and the SetXxx chain, in the teacher's own builder style.
type Config struct {
	Address        string
	ConnectTimeout time.Duration
	T1, T2, T3     time.Duration
	K, W           uint16
}

// NewConfig returns a Config for address with every other field at its
// documented default.
func NewConfig(address string) *Config {
	return &Config{
		Address:        address,
		ConnectTimeout: DefaultConnectTimeout,
		T1:             DefaultT1,
		T2:             DefaultT2,
		T3:             DefaultT3,
		K:              DefaultK,
		W:              DefaultW,
	}
}

// SetConnectTimeout overrides the TCP connect deadline.
func (c *Config) SetConnectTimeout(d time.Duration) *Config {
	if d > 0 {
		c.ConnectTimeout = d
	}
	return c
}

// SetTimers overrides T1/T2/T3. Validate reports a configuration error if
// t2 < t1 < t3 does not hold; SetTimers itself never rejects a value so
// callers can set fields in any order before calling Validate.
func (c *Config) SetTimers(t1, t2, t3 time.Duration) *Config {
	c.T1, c.T2, c.T3 = t1, t2, t3
	return c
}

// SetWindow overrides K (max unacknowledged outbound I-frames) and W (the
// receive-side S-frame trigger threshold).
func (c *Config) SetWindow(k, w uint16) *Config {
	c.K, c.W = k, w
	return c
}

// Validate checks every range/ordering constraint from spec §6.
func (c *Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("iec104: address is required")
	}
	if !(c.T2 < c.T1 && c.T1 < c.T3) {
		return fmt.Errorf("iec104: timers must satisfy t2 < t1 < t3 (got t1=%s t2=%s t3=%s)", c.T1, c.T2, c.T3)
	}
	if c.K == 0 || c.K > 32767 {
		return fmt.Errorf("iec104: k must be in (0,32767], got %d", c.K)
	}
	if c.W == 0 || c.W >= c.K {
		return fmt.Errorf("iec104: w must satisfy 0 < w < k (got w=%d k=%d)", c.W, c.K)
	}
	return nil
}
