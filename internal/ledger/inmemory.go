package ledger

import (
	"context"
	"sort"
	"sync"
)

type inMemoryLedger struct {
	mu      sync.RWMutex
	sources []FundingSource
}

// NewInMemory creates a concurrency-safe in-memory ledger seeded with the
// provided funding sources. Priorities are renumbered from the given order
// so the contiguity invariant holds from the start.
func NewInMemory(seed []FundingSource) Ledger {
	sources := cloneSources(seed)
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Priority < sources[j].Priority
	})
	renumber(sources)
	return &inMemoryLedger{sources: sources}
}

func (l *inMemoryLedger) ListByPriority(_ context.Context) ([]FundingSource, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneSources(l.sources), nil
}

func (l *inMemoryLedger) Get(_ context.Context, id string) (FundingSource, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, src := range l.sources {
		if src.ID == id {
			return cloneSource(src), nil
		}
	}
	return FundingSource{}, ErrUnknownSource
}

// TotalBalance sums confirmed balances only; pending amounts are excluded
// until cleared.
func (l *inMemoryLedger) TotalBalance(_ context.Context) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var total int64
	for _, src := range l.sources {
		total += src.Balance
	}
	return total, nil
}

func (l *inMemoryLedger) SetBalance(_ context.Context, id string, newBalance int64) error {
	if newBalance < 0 {
		return ErrNegativeAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.sources {
		if l.sources[i].ID == id {
			l.sources[i].Balance = newBalance
			return nil
		}
	}
	return ErrUnknownSource
}

// Reorder removes the element at fromIndex, reinserts it at toIndex and
// renumbers every priority to index+1. It never consults balances or
// verification state; gated sources stay reorderable.
func (l *inMemoryLedger) Reorder(_ context.Context, fromIndex, toIndex int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.sources)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n {
		return ErrIndexOutOfRange
	}
	if fromIndex == toIndex {
		return nil
	}

	next := cloneSources(l.sources)
	moved := next[fromIndex]
	next = append(next[:fromIndex], next[fromIndex+1:]...)
	next = append(next[:toIndex], append([]FundingSource{moved}, next[toIndex:]...)...)
	renumber(next)

	l.sources = next
	return nil
}

func (l *inMemoryLedger) RegisterPendingTransaction(_ context.Context, id string, amount int64, txReference string) error {
	if amount <= 0 {
		return ErrNegativeAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.sources {
		if l.sources[i].ID != id {
			continue
		}
		if l.sources[i].Pending != nil {
			return ErrPendingExists
		}
		l.sources[i].Pending = &PendingTransaction{Amount: amount, TxReference: txReference}
		return nil
	}
	return ErrUnknownSource
}

// ClearPendingTransaction atomically drops the pending entry and credits its
// amount to the source balance.
func (l *inMemoryLedger) ClearPendingTransaction(_ context.Context, id string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.sources {
		if l.sources[i].ID != id {
			continue
		}
		if l.sources[i].Pending == nil {
			return 0, ErrNoPending
		}
		credited := l.sources[i].Pending.Amount
		l.sources[i].Balance += credited
		l.sources[i].Pending = nil
		return credited, nil
	}
	return 0, ErrUnknownSource
}

func renumber(sources []FundingSource) {
	for i := range sources {
		sources[i].Priority = i + 1
	}
}

func cloneSource(src FundingSource) FundingSource {
	out := src
	if src.Pending != nil {
		pending := *src.Pending
		out.Pending = &pending
	}
	return out
}

func cloneSources(sources []FundingSource) []FundingSource {
	out := make([]FundingSource, len(sources))
	for i, src := range sources {
		out[i] = cloneSource(src)
	}
	return out
}
