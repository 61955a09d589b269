package ledger

// DefaultFundingSources returns the stock funding set the wallet ships with.
// Celo, Base and Starknet are usable only after identity verification.
func DefaultFundingSources() []FundingSource {
	return []FundingSource{
		{ID: "lemoncash", Name: "LemonCash", Priority: 1, Balance: 18_725},
		{ID: "coinbase", Name: "Coinbase", Priority: 2, Balance: 0},
		{ID: "binance", Name: "Binance Pay", Priority: 3, Balance: 3_700},
		{ID: "celo", Name: "Celo", Priority: 4, Balance: 32_999, RequiresVerification: true},
		{ID: "base", Name: "Base", Priority: 5, Balance: 20_332, RequiresVerification: true},
		{ID: "starknet", Name: "Starknet", Priority: 6, Balance: 9_813, RequiresVerification: true},
	}
}

// SeedBalance is a test helper that overwrites a source balance when using
// the in-memory ledger.
func SeedBalance(l Ledger, id string, amount int64) {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		for i := range mem.sources {
			if mem.sources[i].ID == id {
				mem.sources[i].Balance = amount
				return
			}
		}
	}
}
