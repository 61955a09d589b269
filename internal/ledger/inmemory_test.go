package ledger

import (
	"context"
	"errors"
	"testing"
)

func fixtureSources() []FundingSource {
	return []FundingSource{
		{ID: "a", Name: "Alpha", Priority: 1, Balance: 4_000},
		{ID: "b", Name: "Bravo", Priority: 2, Balance: 10_000},
		{ID: "c", Name: "Charlie", Priority: 3, Balance: 500, RequiresVerification: true},
	}
}

func assertContiguousPriorities(t *testing.T, sources []FundingSource) {
	t.Helper()
	for i, src := range sources {
		if src.Priority != i+1 {
			t.Fatalf("priority at index %d is %d, want %d", i, src.Priority, i+1)
		}
	}
}

func TestInMemoryLedger_ListAndTotal(t *testing.T) {
	l := NewInMemory(fixtureSources())
	ctx := context.Background()

	sources, err := l.ListByPriority(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(sources))
	}
	assertContiguousPriorities(t, sources)

	total, err := l.TotalBalance(ctx)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 14_500 {
		t.Fatalf("expected total 14500, got %d", total)
	}
}

func TestInMemoryLedger_ListReturnsCopies(t *testing.T) {
	l := NewInMemory(fixtureSources())
	ctx := context.Background()

	if err := l.RegisterPendingTransaction(ctx, "a", 100, "0xabc"); err != nil {
		t.Fatalf("register pending: %v", err)
	}

	sources, _ := l.ListByPriority(ctx)
	sources[0].Balance = 0
	sources[0].Pending.Amount = 999_999

	fresh, _ := l.Get(ctx, "a")
	if fresh.Balance != 4_000 {
		t.Fatalf("ledger balance mutated through returned copy: %d", fresh.Balance)
	}
	if fresh.Pending == nil || fresh.Pending.Amount != 100 {
		t.Fatalf("pending mutated through returned copy: %+v", fresh.Pending)
	}
}

func TestInMemoryLedger_SetBalance(t *testing.T) {
	l := NewInMemory(fixtureSources())
	ctx := context.Background()

	if err := l.SetBalance(ctx, "b", 2_500); err != nil {
		t.Fatalf("set balance: %v", err)
	}
	src, _ := l.Get(ctx, "b")
	if src.Balance != 2_500 {
		t.Fatalf("expected balance 2500, got %d", src.Balance)
	}

	if err := l.SetBalance(ctx, "missing", 100); !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
	if err := l.SetBalance(ctx, "b", -1); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestInMemoryLedger_ReorderMovesAndRenumbers(t *testing.T) {
	l := NewInMemory(fixtureSources())
	ctx := context.Background()

	if err := l.Reorder(ctx, 0, 2); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	sources, _ := l.ListByPriority(ctx)
	ids := []string{sources[0].ID, sources[1].ID, sources[2].ID}
	if ids[0] != "b" || ids[1] != "c" || ids[2] != "a" {
		t.Fatalf("unexpected order after move: %v", ids)
	}
	assertContiguousPriorities(t, sources)
}

func TestInMemoryLedger_ReorderIdempotentSameIndex(t *testing.T) {
	l := NewInMemory(fixtureSources())
	ctx := context.Background()

	before, _ := l.ListByPriority(ctx)
	for i := range before {
		if err := l.Reorder(ctx, i, i); err != nil {
			t.Fatalf("reorder(%d,%d): %v", i, i, err)
		}
	}
	after, _ := l.ListByPriority(ctx)
	for i := range before {
		if before[i].ID != after[i].ID || before[i].Priority != after[i].Priority {
			t.Fatalf("reorder(i,i) changed the list at index %d: %+v vs %+v", i, before[i], after[i])
		}
	}
}

func TestInMemoryLedger_ReorderBounds(t *testing.T) {
	l := NewInMemory(fixtureSources())
	ctx := context.Background()

	for _, pair := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		if err := l.Reorder(ctx, pair[0], pair[1]); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("reorder(%d,%d): expected ErrIndexOutOfRange, got %v", pair[0], pair[1], err)
		}
	}
}

func TestInMemoryLedger_ReorderManyMovesKeepInvariant(t *testing.T) {
	l := NewInMemory(DefaultFundingSources())
	ctx := context.Background()

	moves := [][2]int{{5, 0}, {2, 4}, {0, 3}, {1, 1}, {4, 2}, {3, 5}}
	for _, mv := range moves {
		if err := l.Reorder(ctx, mv[0], mv[1]); err != nil {
			t.Fatalf("reorder(%d,%d): %v", mv[0], mv[1], err)
		}
		sources, _ := l.ListByPriority(ctx)
		assertContiguousPriorities(t, sources)
	}
}

func TestInMemoryLedger_PendingLifecycle(t *testing.T) {
	l := NewInMemory(fixtureSources())
	ctx := context.Background()

	if err := l.RegisterPendingTransaction(ctx, "a", 2_000, "0xdeadbeef"); err != nil {
		t.Fatalf("register pending: %v", err)
	}

	// At most one pending transaction per source; the original is untouched.
	if err := l.RegisterPendingTransaction(ctx, "a", 999, "0xother"); !errors.Is(err, ErrPendingExists) {
		t.Fatalf("expected ErrPendingExists, got %v", err)
	}
	src, _ := l.Get(ctx, "a")
	if src.Pending == nil || src.Pending.Amount != 2_000 || src.Pending.TxReference != "0xdeadbeef" {
		t.Fatalf("pre-existing pending transaction was disturbed: %+v", src.Pending)
	}

	// Pending amounts never count toward the total until cleared.
	total, _ := l.TotalBalance(ctx)
	if total != 14_500 {
		t.Fatalf("pending amount leaked into total: %d", total)
	}

	credited, err := l.ClearPendingTransaction(ctx, "a")
	if err != nil {
		t.Fatalf("clear pending: %v", err)
	}
	if credited != 2_000 {
		t.Fatalf("expected credited 2000, got %d", credited)
	}
	src, _ = l.Get(ctx, "a")
	if src.Pending != nil || src.Balance != 6_000 {
		t.Fatalf("clear did not credit atomically: %+v", src)
	}

	if _, err := l.ClearPendingTransaction(ctx, "a"); !errors.Is(err, ErrNoPending) {
		t.Fatalf("expected ErrNoPending, got %v", err)
	}
}

func TestInMemoryLedger_PendingValidation(t *testing.T) {
	l := NewInMemory(fixtureSources())
	ctx := context.Background()

	if err := l.RegisterPendingTransaction(ctx, "missing", 100, "0x1"); !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
	if err := l.RegisterPendingTransaction(ctx, "a", 0, "0x1"); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount for zero amount, got %v", err)
	}
	if _, err := l.ClearPendingTransaction(ctx, "missing"); !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
}
