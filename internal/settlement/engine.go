package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tap-wallet/tap_wallet/internal/ledger"
	"github.com/tap-wallet/tap_wallet/internal/notification"
)

// State of the charge state machine. Idle is both the initial state and the
// terminal state between charges.
type State string

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StatePaid       State = "paid"
	StateFailed     State = "failed"
)

var (
	// ErrInsufficientFunds occurs when no eligible funding source covers the
	// requested charge amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrChargeInProgress indicates a charge is already in flight; the engine
	// settles one charge at a time.
	ErrChargeInProgress = errors.New("charge already in progress")

	// ErrInvalidAmount indicates a non-positive charge amount.
	ErrInvalidAmount = errors.New("charge amount must be positive")
)

const insufficientFundsMessage = "insufficient funds on every eligible payment method"

// Timings control the simulated terminal's delays. The zero value is
// replaced by the reference behavior.
type Timings struct {
	Processing  time.Duration // charge initiation until the selection result is visible
	PaidDisplay time.Duration // how long the paid flag stays up before returning to idle
	FailDismiss time.Duration // how long a failed charge stays on screen
	FailClear   time.Duration // additional delay before the error message clears
}

// DefaultTimings mirrors the reference terminal: 3s processing, 1.2s paid
// display, 1.5s failure dismissal, 2s error clearing.
func DefaultTimings() Timings {
	return Timings{
		Processing:  3000 * time.Millisecond,
		PaidDisplay: 1200 * time.Millisecond,
		FailDismiss: 1500 * time.Millisecond,
		FailClear:   2000 * time.Millisecond,
	}
}

func (t Timings) withDefaults() Timings {
	def := DefaultTimings()
	if t.Processing <= 0 {
		t.Processing = def.Processing
	}
	if t.PaidDisplay <= 0 {
		t.PaidDisplay = def.PaidDisplay
	}
	if t.FailDismiss <= 0 {
		t.FailDismiss = def.FailDismiss
	}
	if t.FailClear <= 0 {
		t.FailClear = def.FailClear
	}
	return t
}

// Outcome is the result of one charge. Err is nil on success.
type Outcome struct {
	ChargeID   string
	SourceID   string
	Amount     int64
	NewBalance int64
	Err        error
}

// Snapshot is the externally visible engine state.
type Snapshot struct {
	State        State
	ErrorMessage string
	LastOutcome  *Outcome
}

// Verifier gates verification-restricted funding sources.
type Verifier interface {
	IsVerified() bool
}

// Engine selects a funding source for each charge and drives the simulated
// settlement state machine Idle -> Processing -> {Paid, Failed} -> Idle.
// Once Processing begins the flow always runs to completion; there is no
// mid-flight cancellation.
type Engine struct {
	ledger   ledger.Ledger
	verifier Verifier
	notifier notification.Notifier
	logger   *slog.Logger
	timings  Timings

	mu          sync.Mutex
	state       State
	errMessage  string
	lastOutcome *Outcome
}

// NewEngine builds a settlement engine in the Idle state.
func NewEngine(ledgerBackend ledger.Ledger, verifier Verifier, notifier notification.Notifier, logger *slog.Logger, timings Timings) *Engine {
	return &Engine{
		ledger:   ledgerBackend,
		verifier: verifier,
		notifier: notifier,
		logger:   logger,
		timings:  timings.withDefaults(),
		state:    StateIdle,
	}
}

// Status returns the current state machine snapshot.
func (e *Engine) Status() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := Snapshot{State: e.state, ErrorMessage: e.errMessage}
	if e.lastOutcome != nil {
		outcome := *e.lastOutcome
		snap.LastOutcome = &outcome
	}
	return snap
}

// Charge initiates a tap-to-pay charge for the given amount in cents. It
// transitions the engine to Processing immediately and returns a channel
// that delivers exactly one Outcome once the simulated processing delay has
// elapsed. While a charge is in flight further calls fail with
// ErrChargeInProgress.
func (e *Engine) Charge(ctx context.Context, amount int64) (<-chan Outcome, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		return nil, ErrChargeInProgress
	}
	e.state = StateProcessing
	e.errMessage = ""
	e.mu.Unlock()

	chargeID := uuid.NewString()
	results := make(chan Outcome, 1)

	e.logger.Info("charge initiated", "charge_id", chargeID, "amount", amount)

	// The flow must survive the caller's request context: the reference
	// terminal never aborts once processing has started.
	go e.settle(context.WithoutCancel(ctx), chargeID, amount, results)

	return results, nil
}

func (e *Engine) settle(ctx context.Context, chargeID string, amount int64, results chan<- Outcome) {
	time.Sleep(e.timings.Processing)

	source, ok := e.selectSource(ctx, amount)
	if !ok {
		e.fail(ctx, chargeID, amount, results)
		return
	}

	newBalance := source.Balance - amount
	if err := e.ledger.SetBalance(ctx, source.ID, newBalance); err != nil {
		e.logger.Error("balance commit failed", "charge_id", chargeID, "source_id", source.ID, "error", err)
		e.fail(ctx, chargeID, amount, results)
		return
	}

	outcome := Outcome{ChargeID: chargeID, SourceID: source.ID, Amount: amount, NewBalance: newBalance}

	e.mu.Lock()
	e.state = StatePaid
	e.lastOutcome = &outcome
	e.mu.Unlock()

	e.logger.Info("charge settled", "charge_id", chargeID, "source_id", source.ID, "new_balance", newBalance)
	if e.notifier != nil {
		_ = e.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindPaymentSettled,
			Destination: source.ID,
			Body:        fmt.Sprintf("paid %d from %s", amount, source.Name),
		})
	}

	results <- outcome
	close(results)

	time.Sleep(e.timings.PaidDisplay)

	e.mu.Lock()
	if e.state == StatePaid {
		e.state = StateIdle
	}
	e.mu.Unlock()
}

// selectSource walks funding sources in ascending priority and returns the
// first one that has no pending transaction, passes the verification gate
// and covers the amount.
func (e *Engine) selectSource(ctx context.Context, amount int64) (ledger.FundingSource, bool) {
	sources, err := e.ledger.ListByPriority(ctx)
	if err != nil {
		e.logger.Error("list funding sources", "error", err)
		return ledger.FundingSource{}, false
	}
	verified := e.verifier.IsVerified()
	for _, src := range sources {
		if src.Pending != nil {
			continue
		}
		if src.RequiresVerification && !verified {
			continue
		}
		if src.Balance < amount {
			continue
		}
		return src, true
	}
	return ledger.FundingSource{}, false
}

func (e *Engine) fail(ctx context.Context, chargeID string, amount int64, results chan<- Outcome) {
	outcome := Outcome{ChargeID: chargeID, Amount: amount, Err: ErrInsufficientFunds}

	e.mu.Lock()
	e.state = StateFailed
	e.errMessage = insufficientFundsMessage
	e.lastOutcome = &outcome
	e.mu.Unlock()

	e.logger.Warn("charge failed", "charge_id", chargeID, "amount", amount, "error", ErrInsufficientFunds)
	if e.notifier != nil {
		_ = e.notifier.Send(ctx, notification.Message{
			Kind: notification.KindPaymentFailed,
			Body: insufficientFundsMessage,
		})
	}

	results <- outcome
	close(results)

	// The failed charge stays on screen briefly, then the surface is
	// dismissed; the error message lingers a little longer before clearing.
	time.Sleep(e.timings.FailDismiss)

	e.mu.Lock()
	if e.state == StateFailed {
		e.state = StateIdle
	}
	e.mu.Unlock()

	time.Sleep(e.timings.FailClear)

	e.mu.Lock()
	if e.errMessage == insufficientFundsMessage {
		e.errMessage = ""
	}
	e.mu.Unlock()
}
