package settlement

import "context"

// StaticOracle simulates a chain whose transactions always confirm
// immediately. Production deployments swap in a real transaction-status
// source behind the Oracle interface.
type StaticOracle struct{}

// IsConfirmed reports every transaction as confirmed.
func (StaticOracle) IsConfirmed(_ context.Context, _ string) (bool, error) {
	return true, nil
}
