package util

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func newTestBreaker(resetTimeout time.Duration) *CircuitBreaker {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCircuitBreaker(3, resetTimeout, logger)
}

func TestCircuitBreakerOpensAtThreshold(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	if !cb.CanExecute() {
		t.Fatalf("circuit must stay closed below threshold")
	}

	cb.RecordFailure()
	if cb.CanExecute() {
		t.Fatalf("circuit must open at threshold")
	}
	if cb.RetryAfter() <= 0 {
		t.Fatalf("open circuit must report remaining block time")
	}
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	cb := newTestBreaker(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}
	if cb.CanExecute() {
		t.Fatalf("expected open circuit")
	}

	time.Sleep(20 * time.Millisecond)

	// 복구 시간이 지나면 반열림으로 전이해 실행을 허용한다
	if !cb.CanExecute() {
		t.Fatalf("expected half-open to allow execution")
	}

	cb.RecordSuccess()
	if !cb.CanExecute() {
		t.Fatalf("success in half-open must close the circuit")
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := newTestBreaker(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}
	time.Sleep(20 * time.Millisecond)
	if !cb.CanExecute() {
		t.Fatalf("expected half-open")
	}

	cb.RecordFailure()
	if cb.CanExecute() {
		t.Fatalf("failure in half-open must reopen immediately")
	}
}

func TestCircuitBreakerReset(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}
	cb.Reset()

	if !cb.CanExecute() {
		t.Fatalf("reset must close the circuit")
	}
	if cb.RetryAfter() != 0 {
		t.Fatalf("reset must clear retry timer")
	}
}
