package notification

import (
	"context"
	"log/slog"
)

const (
	// KindPaymentSettled indicates a tap-to-pay charge settled successfully.
	KindPaymentSettled = "payment_settled"
	// KindPaymentFailed indicates a charge failed to find an eligible funding source.
	KindPaymentFailed = "payment_failed"
	// KindDepositConfirmed indicates a pending deposit was confirmed and credited.
	KindDepositConfirmed = "deposit_confirmed"
	// KindIdentityVerified indicates the wallet owner completed passport verification.
	KindIdentityVerified = "identity_verified"
)

// Message describes a notification payload.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification", "kind", message.Kind, "destination", message.Destination, "body", message.Body)
	return nil
}
