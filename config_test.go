package iec104

import (
	"testing"
	"time"
)

func TestNewConfig_Defaults(t *testing.T) {
	c := NewConfig("10.0.0.1:2404")
	if err := c.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestConfig_ValidateRejectsEmptyAddress(t *testing.T) {
	c := NewConfig("")
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for empty address, got nil")
	}
}

func TestConfig_ValidateRejectsBadTimerOrdering(t *testing.T) {
	c := NewConfig("10.0.0.1:2404").SetTimers(10*time.Second, 10*time.Second, 20*time.Second)
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for t2 == t1, got nil")
	}

	c = NewConfig("10.0.0.1:2404").SetTimers(20*time.Second, 5*time.Second, 15*time.Second)
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for t3 < t1, got nil")
	}
}

func TestConfig_ValidateRejectsBadWindow(t *testing.T) {
	c := NewConfig("10.0.0.1:2404").SetWindow(0, 0)
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for k=0, got nil")
	}

	c = NewConfig("10.0.0.1:2404").SetWindow(12, 12)
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for w == k, got nil")
	}

	c = NewConfig("10.0.0.1:2404").SetWindow(12, 13)
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for w > k, got nil")
	}
}

func TestConfig_SetConnectTimeoutIgnoresNonPositive(t *testing.T) {
	c := NewConfig("10.0.0.1:2404")
	original := c.ConnectTimeout
	c.SetConnectTimeout(0)
	if c.ConnectTimeout != original {
		t.Fatalf("got %v, want unchanged %v", c.ConnectTimeout, original)
	}
	c.SetConnectTimeout(-1 * time.Second)
	if c.ConnectTimeout != original {
		t.Fatalf("got %v, want unchanged %v", c.ConnectTimeout, original)
	}
}
