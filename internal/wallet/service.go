package wallet

import (
	"context"

	"github.com/tap-wallet/tap_wallet/internal/ledger"
	"github.com/tap-wallet/tap_wallet/internal/verification"
)

// Item is one funding source as presented to the owner: the raw ledger
// entry plus the derived disabled flag for verification-gated sources.
type Item struct {
	ID                   string
	Name                 string
	Priority             int
	Balance              int64
	RequiresVerification bool
	Disabled             bool
	PendingTxReference   string
	PendingAmount        int64
}

// Overview is the wallet home view: ordered funding sources and the total
// confirmed balance.
type Overview struct {
	Items        []Item
	TotalBalance int64
	Verified     bool
}

// Service derives owner-facing wallet views from the ledger and the
// verification state.
type Service struct {
	ledger ledger.Ledger
	state  *verification.State
}

// NewService builds a wallet view service.
func NewService(ledgerBackend ledger.Ledger, state *verification.State) *Service {
	return &Service{ledger: ledgerBackend, state: state}
}

// Overview lists funding sources by ascending priority. Gated sources are
// flagged disabled while the owner is unverified; they remain present and
// reorderable.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	sources, err := s.ledger.ListByPriority(ctx)
	if err != nil {
		return Overview{}, err
	}
	total, err := s.ledger.TotalBalance(ctx)
	if err != nil {
		return Overview{}, err
	}

	verified := s.state.IsVerified()
	items := make([]Item, 0, len(sources))
	for _, src := range sources {
		item := Item{
			ID:                   src.ID,
			Name:                 src.Name,
			Priority:             src.Priority,
			Balance:              src.Balance,
			RequiresVerification: src.RequiresVerification,
			Disabled:             src.RequiresVerification && !verified,
		}
		if src.Pending != nil {
			item.PendingTxReference = src.Pending.TxReference
			item.PendingAmount = src.Pending.Amount
		}
		items = append(items, item)
	}

	return Overview{Items: items, TotalBalance: total, Verified: verified}, nil
}

// Reorder moves a funding source within the priority order. The verification
// gate never blocks reordering.
func (s *Service) Reorder(ctx context.Context, fromIndex, toIndex int) error {
	return s.ledger.Reorder(ctx, fromIndex, toIndex)
}
