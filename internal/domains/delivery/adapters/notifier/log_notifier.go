// Package notifier provides Notifier adapters. Real mail/SMS dispatch lives
// outside this core; the default adapter only proves the one-way contract.
package notifier

import (
	"context"
	"log/slog"

	"github.com/agrikart/fulfillment/internal/domains/delivery/ports"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier records that a code was dispatched without revealing it.
// Used for development; production wires the external notification service
// behind the same port.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendDeliveryCode(ctx context.Context, destination, code string) error {
	// The code itself stays out of the log stream.
	n.logger.InfoContext(ctx, "delivery code dispatch requested",
		slog.String("destination", destination),
		slog.Int("code.length", len(code)))
	return nil
}
