package circuit

import (
	"errors"
	"testing"
	"time"
)

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	config := Config{
		Threshold:        3,
		Timeout:          time.Minute,
		SuccessThreshold: 1,
		MaxHalfOpen:      1,
	}
	b := NewBreaker("test", config, nil)

	failing := func() error { return errors.New("smtp down") }

	for i := 0; i < 3; i++ {
		if err := b.Execute(failing); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}

	if b.State() != StateOpen {
		t.Fatalf("expected OPEN, got %s", b.State())
	}

	if err := b.Execute(failing); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreaker_SuccessKeepsClosed(t *testing.T) {
	b := NewBreaker("test", DefaultConfig(), nil)

	for i := 0; i < 10; i++ {
		if err := b.Execute(func() error { return nil }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if b.State() != StateClosed {
		t.Fatalf("expected CLOSED, got %s", b.State())
	}
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	config := Config{
		Threshold:        1,
		Timeout:          10 * time.Millisecond,
		SuccessThreshold: 1,
		MaxHalfOpen:      1,
	}
	b := NewBreaker("test", config, nil)

	_ = b.Execute(func() error { return errors.New("boom") })
	if b.State() != StateOpen {
		t.Fatalf("expected OPEN, got %s", b.State())
	}

	time.Sleep(20 * time.Millisecond)

	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("recovery call failed: %v", err)
	}

	if b.State() != StateClosed {
		t.Fatalf("expected CLOSED after recovery, got %s", b.State())
	}
}

func TestBreaker_Reset(t *testing.T) {
	config := Config{Threshold: 1, Timeout: time.Minute, SuccessThreshold: 1, MaxHalfOpen: 1}
	b := NewBreaker("test", config, nil)

	_ = b.Execute(func() error { return errors.New("boom") })
	if !b.IsOpen() {
		t.Fatal("expected breaker open")
	}

	b.Reset()
	if b.State() != StateClosed {
		t.Fatalf("expected CLOSED after reset, got %s", b.State())
	}
}
