package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status of a verification session as seen by callers.
type Status string

const (
	// StatusPending means the session is registered and polling for proof.
	StatusPending Status = "pending"
	// StatusVerified means the registry produced a proof for the session.
	StatusVerified Status = "verified"
	// StatusFailed means the session timed out without a proof.
	StatusFailed Status = "failed"
)

// ErrRegistrationFailed indicates the session could not be registered with
// the remote registry. Registration failure is terminal for the session.
var ErrRegistrationFailed = errors.New("verification session registration failed")

// Update is one event on a session's update stream. Exactly one terminal
// update (verified or failed) is ever delivered per session.
type Update struct {
	Status   Status
	Identity Identity
	Reason   string
}

// Registry abstracts the remote verification registry.
type Registry interface {
	Register(ctx context.Context, sessionID string) error
	Proof(ctx context.Context, sessionID string) (Identity, bool, error)
}

// Poller drives the verification polling protocol: register a fresh session
// id, then race a fixed-interval proof poll against an attempt budget and a
// hard wall-clock timeout. The interval ticker and the timeout timer are
// always torn down together, on every exit path.
type Poller struct {
	registry    Registry
	state       *State
	logger      *slog.Logger
	interval    time.Duration
	maxAttempts int
	timeout     time.Duration
}

// NewPoller builds a poller. Zero timings fall back to the reference
// protocol: 1s interval, 90 attempts, 90s timeout.
func NewPoller(registry Registry, state *State, logger *slog.Logger, interval time.Duration, maxAttempts int, timeout time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 90
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Poller{
		registry:    registry,
		state:       state,
		logger:      logger,
		interval:    interval,
		maxAttempts: maxAttempts,
		timeout:     timeout,
	}
}

// Session is one in-flight verification attempt. Close cancels polling; the
// update channel is closed once the session terminates.
type Session struct {
	ID      string
	updates chan Update
	cancel  context.CancelFunc
	done    sync.Once
}

// Updates exposes the session's event stream.
func (s *Session) Updates() <-chan Update {
	return s.updates
}

// Close cancels the session. Safe to call more than once and after the
// session has already terminated.
func (s *Session) Close() {
	s.cancel()
}

// Start generates a fresh session id, registers it with the registry and
// begins polling for proof. Registration failure is terminal and returns
// ErrRegistrationFailed without starting any timers.
func (p *Poller) Start(ctx context.Context) (*Session, error) {
	sessionID := uuid.NewString()

	if err := p.registry.Register(ctx, sessionID); err != nil {
		p.logger.Error("verification registration failed", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}

	pollCtx, cancel := context.WithCancel(ctx)
	session := &Session{
		ID:      sessionID,
		updates: make(chan Update, 2),
		cancel:  cancel,
	}
	session.updates <- Update{Status: StatusPending}

	p.logger.Info("verification session registered", "session_id", sessionID)
	go p.poll(pollCtx, session)

	return session, nil
}

func (p *Poller) poll(ctx context.Context, session *Session) {
	ticker := time.NewTicker(p.interval)
	timeout := time.NewTimer(p.timeout)
	defer func() {
		ticker.Stop()
		timeout.Stop()
	}()

	terminate := func(update Update) {
		session.done.Do(func() {
			session.updates <- update
			close(session.updates)
			session.cancel()
		})
	}

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			// Caller cancelled; no terminal update, just release the channel.
			session.done.Do(func() { close(session.updates) })
			return
		case <-timeout.C:
			p.logger.Warn("verification session timed out", "session_id", session.ID, "attempts", attempts)
			terminate(Update{Status: StatusFailed, Reason: "passport verification timeout"})
			return
		case <-ticker.C:
			identity, verified, err := p.registry.Proof(ctx, session.ID)
			if err != nil {
				// Transient network failures are not terminal; retry next tick.
				p.logger.Debug("proof poll failed", "session_id", session.ID, "error", err)
			} else if verified {
				p.state.Set(identity)
				p.logger.Info("verification session succeeded", "session_id", session.ID, "attempts", attempts+1)
				terminate(Update{Status: StatusVerified, Identity: identity})
				return
			}

			attempts++
			if attempts >= p.maxAttempts {
				p.logger.Warn("verification attempts exhausted", "session_id", session.ID, "attempts", attempts)
				terminate(Update{Status: StatusFailed, Reason: "passport verification timeout"})
				return
			}
		}
	}
}
