package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tap-wallet/tap_wallet/internal/ledger"
	"github.com/tap-wallet/tap_wallet/internal/notification"
)

// Oracle reports whether an external transaction has been confirmed. The
// contract is "eventually true or never"; errors are treated as "not yet".
type Oracle interface {
	IsConfirmed(ctx context.Context, txReference string) (bool, error)
}

// WatchResult is the single terminal report of one watch. On confirmation
// Credited carries the amount added to the funding source; on timeout the
// pending transaction is left in place and TimedOut is set.
type WatchResult struct {
	SourceID    string
	TxReference string
	Credited    int64
	Confirmed   bool
	TimedOut    bool
}

// Watcher polls the transaction-status oracle for each pending deposit and
// finalizes the ledger credit once the transaction confirms. Each watch owns
// exactly one interval ticker and one timeout timer; both are released
// together on every exit path.
type Watcher struct {
	ledger   ledger.Ledger
	oracle   Oracle
	notifier notification.Notifier
	logger   *slog.Logger
	interval time.Duration
	timeout  time.Duration
}

// NewWatcher builds a watcher. Zero timings fall back to the reference
// behavior: 1s polling, 30s timeout.
func NewWatcher(ledgerBackend ledger.Ledger, oracle Oracle, notifier notification.Notifier, logger *slog.Logger, interval, timeout time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Watcher{
		ledger:   ledgerBackend,
		oracle:   oracle,
		notifier: notifier,
		logger:   logger,
		interval: interval,
		timeout:  timeout,
	}
}

// Watch starts polling for the given pending transaction and returns a
// channel that delivers exactly one WatchResult. Cancelling the context
// stops the watch without a result.
func (w *Watcher) Watch(ctx context.Context, sourceID, txReference string) <-chan WatchResult {
	results := make(chan WatchResult, 1)
	go w.run(ctx, sourceID, txReference, results)
	return results
}

func (w *Watcher) run(ctx context.Context, sourceID, txReference string, results chan<- WatchResult) {
	ticker := time.NewTicker(w.interval)
	timeout := time.NewTimer(w.timeout)
	defer func() {
		ticker.Stop()
		timeout.Stop()
	}()

	for {
		select {
		case <-ctx.Done():
			close(results)
			return
		case <-timeout.C:
			// The pending transaction stays registered; the stall is surfaced
			// to the caller instead of silently dropping the watch.
			w.logger.Warn("pending transaction timed out", "source_id", sourceID, "tx_reference", txReference)
			results <- WatchResult{SourceID: sourceID, TxReference: txReference, TimedOut: true}
			close(results)
			return
		case <-ticker.C:
			confirmed, err := w.oracle.IsConfirmed(ctx, txReference)
			if err != nil {
				w.logger.Debug("oracle query failed", "tx_reference", txReference, "error", err)
				continue
			}
			if !confirmed {
				continue
			}

			credited, err := w.ledger.ClearPendingTransaction(ctx, sourceID)
			if err != nil {
				w.logger.Error("clear pending transaction", "source_id", sourceID, "error", err)
				results <- WatchResult{SourceID: sourceID, TxReference: txReference}
				close(results)
				return
			}

			w.logger.Info("pending transaction confirmed", "source_id", sourceID, "tx_reference", txReference, "credited", credited)
			if w.notifier != nil {
				_ = w.notifier.Send(ctx, notification.Message{
					Kind:        notification.KindDepositConfirmed,
					Destination: sourceID,
					Body:        fmt.Sprintf("deposit of %d confirmed on %s", credited, sourceID),
				})
			}

			results <- WatchResult{SourceID: sourceID, TxReference: txReference, Credited: credited, Confirmed: true}
			close(results)
			return
		}
	}
}
