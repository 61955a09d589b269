package verification

import (
	"context"
	"errors"
	"sync"

	"github.com/tap-wallet/tap_wallet/internal/notification"
)

// ErrSessionActive indicates a verification session is already polling.
var ErrSessionActive = errors.New("verification session already in progress")

// Snapshot is the externally visible verification status.
type Snapshot struct {
	Status    Status
	SessionID string
	Reason    string
	Identity  Identity
	Verified  bool
}

// Service owns the wallet's verification lifecycle: at most one polling
// session at a time, the verified-identity state, and the forget operation.
type Service struct {
	poller   *Poller
	state    *State
	notifier notification.Notifier

	mu      sync.Mutex
	session *Session
	status  Status
	reason  string
}

// NewService wires a verification service around the poller and state.
func NewService(poller *Poller, state *State, notifier notification.Notifier) *Service {
	return &Service{poller: poller, state: state, notifier: notifier}
}

// StartSession begins a new verification session. Only one session may poll
// at a time; a session that already produced a terminal outcome does not
// block a new one.
func (s *Service) StartSession(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.status == StatusPending {
		s.mu.Unlock()
		return "", ErrSessionActive
	}
	s.mu.Unlock()

	// Polling must outlive the request that started it.
	ctx = context.WithoutCancel(ctx)

	session, err := s.poller.Start(ctx)
	if err != nil {
		s.mu.Lock()
		s.status = StatusFailed
		s.reason = "failed to register the session on the registry"
		s.mu.Unlock()
		return "", err
	}

	s.mu.Lock()
	s.session = session
	s.status = StatusPending
	s.reason = ""
	s.mu.Unlock()

	go s.consume(ctx, session)

	return session.ID, nil
}

func (s *Service) consume(ctx context.Context, session *Session) {
	for update := range session.Updates() {
		switch update.Status {
		case StatusVerified:
			s.mu.Lock()
			s.status = StatusVerified
			s.reason = ""
			s.mu.Unlock()
			if s.notifier != nil {
				_ = s.notifier.Send(ctx, notification.Message{
					Kind: notification.KindIdentityVerified,
					Body: "passport verified for nationality " + update.Identity.Nationality,
				})
			}
		case StatusFailed:
			s.mu.Lock()
			s.status = StatusFailed
			s.reason = update.Reason
			s.mu.Unlock()
		}
	}
}

// Status reports the current verification snapshot, including the identity
// fields when verified.
func (s *Service) Status() Snapshot {
	s.mu.Lock()
	snap := Snapshot{Status: s.status, Reason: s.reason}
	if s.session != nil {
		snap.SessionID = s.session.ID
	}
	s.mu.Unlock()

	if identity, ok := s.state.Identity(); ok {
		snap.Identity = identity
		snap.Verified = true
	}
	return snap
}

// Cancel closes the active session, if any.
func (s *Service) Cancel() {
	s.mu.Lock()
	session := s.session
	if s.status == StatusPending {
		s.status = ""
	}
	s.mu.Unlock()
	if session != nil {
		session.Close()
	}
}

// Forget clears the verified identity ("forget passport") and resets the
// session bookkeeping.
func (s *Service) Forget() {
	s.Cancel()
	s.state.Forget()
	s.mu.Lock()
	s.status = ""
	s.reason = ""
	s.session = nil
	s.mu.Unlock()
}
