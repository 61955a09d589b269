package ledger

import (
	"context"
	"errors"
)

var (
	// ErrUnknownSource indicates the referenced funding source does not exist.
	ErrUnknownSource = errors.New("unknown funding source")

	// ErrNegativeAmount occurs when a balance or pending amount would be invalid.
	ErrNegativeAmount = errors.New("amount must not be negative")

	// ErrPendingExists indicates the funding source already carries a pending
	// transaction; at most one may be outstanding per source.
	ErrPendingExists = errors.New("pending transaction already registered")

	// ErrNoPending indicates there is no pending transaction to clear.
	ErrNoPending = errors.New("no pending transaction")

	// ErrIndexOutOfRange indicates a reorder index outside the list bounds.
	ErrIndexOutOfRange = errors.New("reorder index out of range")
)

// PendingTransaction is an outstanding value-transfer credited to its funding
// source only once an external oracle confirms it.
type PendingTransaction struct {
	Amount      int64
	TxReference string
}

// FundingSource is one payment method in the wallet. Balances are kept in
// cents of the reference currency. Priority 1 is tried first when settling
// a charge.
type FundingSource struct {
	ID                   string
	Name                 string
	Priority             int
	Balance              int64
	RequiresVerification bool
	Pending              *PendingTransaction
}

// Ledger defines the contract for the wallet's ordered funding source list.
// Priorities across the list are a contiguous permutation of 1..N at all
// times. Implementations hand out copies; callers never observe a
// half-applied mutation.
type Ledger interface {
	ListByPriority(ctx context.Context) ([]FundingSource, error)
	Get(ctx context.Context, id string) (FundingSource, error)
	TotalBalance(ctx context.Context) (int64, error)
	SetBalance(ctx context.Context, id string, newBalance int64) error
	Reorder(ctx context.Context, fromIndex, toIndex int) error
	RegisterPendingTransaction(ctx context.Context, id string, amount int64, txReference string) error
	ClearPendingTransaction(ctx context.Context, id string) (int64, error)
}
