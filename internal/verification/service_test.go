package verification

import (
	"context"
	"errors"
	"testing"
	"time"
)

func waitStatus(t *testing.T, svc *Service, want Status) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := svc.Status()
		if snap.Status == want {
			return snap
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("service never reached status %q, stuck at %q", want, svc.Status().Status)
	return Snapshot{}
}

func TestServiceVerificationFlow(t *testing.T) {
	registry := &stubRegistry{verifyAfter: 3}
	state := NewState()
	svc := NewService(newTestPoller(registry, state, 90, time.Second), state, nil)

	sessionID, err := svc.StartSession(context.Background())
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if sessionID == "" {
		t.Fatalf("expected a session id")
	}

	snap := waitStatus(t, svc, StatusVerified)
	if !snap.Verified || snap.Identity.PassportNumber != "X123" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	// Forget returns the wallet to the unverified state.
	svc.Forget()
	after := svc.Status()
	if after.Verified || after.Status != "" {
		t.Fatalf("forget did not reset: %+v", after)
	}
}

func TestServiceRejectsConcurrentSessions(t *testing.T) {
	registry := &stubRegistry{verifyAfter: -1}
	state := NewState()
	svc := NewService(newTestPoller(registry, state, 100_000, time.Minute), state, nil)

	if _, err := svc.StartSession(context.Background()); err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := svc.StartSession(context.Background()); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("expected ErrSessionActive, got %v", err)
	}

	svc.Cancel()
}

func TestServiceTimeoutReportedOnce(t *testing.T) {
	registry := &stubRegistry{verifyAfter: -1}
	state := NewState()
	svc := NewService(newTestPoller(registry, state, 5, time.Minute), state, nil)

	if _, err := svc.StartSession(context.Background()); err != nil {
		t.Fatalf("start session: %v", err)
	}

	snap := waitStatus(t, svc, StatusFailed)
	if snap.Reason == "" {
		t.Fatalf("timeout must carry a user-facing reason")
	}
	if snap.Verified {
		t.Fatalf("timed out session must not verify")
	}

	// A failed session does not block a fresh attempt.
	if _, err := svc.StartSession(context.Background()); err != nil {
		t.Fatalf("restart after failure: %v", err)
	}
}
