package deposit

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tap-wallet/tap_wallet/internal/ledger"
	"github.com/tap-wallet/tap_wallet/internal/settlement"
)

// Service coordinates deposits: it registers a pending transaction on the
// funding source and starts a watcher that credits the balance once the
// external transaction confirms.
type Service struct {
	ledger  ledger.Ledger
	watcher *settlement.Watcher
	logger  *slog.Logger

	mu      sync.Mutex
	results map[string]settlement.WatchResult
}

// NewService builds a deposit service.
func NewService(ledgerBackend ledger.Ledger, watcher *settlement.Watcher, logger *slog.Logger) *Service {
	return &Service{
		ledger:  ledgerBackend,
		watcher: watcher,
		logger:  logger,
		results: make(map[string]settlement.WatchResult),
	}
}

// Result describes an initiated deposit.
type Result struct {
	SourceID    string
	Amount      int64
	TxReference string
	InitiatedAt time.Time
}

// Deposit initiates a top-up on the funding source. It fails with
// ledger.ErrPendingExists while a previous deposit on the same source is
// still unconfirmed.
func (s *Service) Deposit(ctx context.Context, sourceID string, amount int64) (Result, error) {
	txReference := newTxReference()

	if err := s.ledger.RegisterPendingTransaction(ctx, sourceID, amount, txReference); err != nil {
		return Result{}, err
	}

	s.logger.Info("deposit initiated", "source_id", sourceID, "amount", amount, "tx_reference", txReference)

	watch := s.watcher.Watch(context.WithoutCancel(ctx), sourceID, txReference)
	go func() {
		result, ok := <-watch
		if !ok {
			return
		}
		s.mu.Lock()
		s.results[sourceID] = result
		s.mu.Unlock()
	}()

	return Result{
		SourceID:    sourceID,
		Amount:      amount,
		TxReference: txReference,
		InitiatedAt: time.Now().UTC(),
	}, nil
}

// LastWatchResult returns the most recent terminal watch outcome for the
// source, if any watch has finished.
func (s *Service) LastWatchResult(sourceID string) (settlement.WatchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.results[sourceID]
	return result, ok
}

// newTxReference fabricates an opaque hash-style transaction reference for
// the simulated chain transfer.
func newTxReference() string {
	id := uuid.New()
	return fmt.Sprintf("0x%s", hex.EncodeToString(id[:]))
}
