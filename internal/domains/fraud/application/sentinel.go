package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/agrikart/fulfillment/internal/domains/fraud/ports"
	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
)

const (
	// amountSpikeFactor flags orders far above the buyer's trailing average.
	amountSpikeFactor = 10
	// bulkQuantityCeiling flags any single line at or above this count.
	bulkQuantityCeiling = 25
	// historyWindow is how many past orders feed the trailing average.
	historyWindow = 20
)

// Sentinel evaluates confirmed transactions against heuristics and appends
// audit records. It only flags; it never gates an order.
type Sentinel struct {
	logs    ports.LogRepository
	history ports.History
	logger  *slog.Logger
	now     func() time.Time
	// firstOrderCeiling flags a first-time buyer spending above this amount.
	firstOrderCeiling int64
}

type Option func(*Sentinel)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sentinel) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFirstOrderCeiling sets the amount above which a buyer's first order is
// flagged. Zero disables the heuristic.
func WithFirstOrderCeiling(amount int64) Option {
	return func(s *Sentinel) {
		s.firstOrderCeiling = amount
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Sentinel) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSentinel wires the fraud sentinel.
func NewSentinel(logs ports.LogRepository, history ports.History, opts ...Option) *Sentinel {
	s := &Sentinel{
		logs:    logs,
		history: history,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Evaluate runs the heuristics and appends a log entry per trigger. Every
// failure path is swallowed and logged: a broken heuristic must never
// surface on the buyer's confirmation.
func (s *Sentinel) Evaluate(ctx context.Context, order *ordersdomain.Order) {
	if order == nil {
		return
	}
	for _, reason := range s.triggeredReasons(ctx, order) {
		s.append(ctx, order, reason)
	}
}

// OrderConfirmed lets the sentinel hang off the checkout confirmation hook.
func (s *Sentinel) OrderConfirmed(ctx context.Context, order *ordersdomain.Order) {
	s.Evaluate(ctx, order)
}

func (s *Sentinel) triggeredReasons(ctx context.Context, order *ordersdomain.Order) []string {
	var reasons []string

	totals, historyErr := s.history.RecentTotals(ctx, order.BuyerID, order.ID, historyWindow)
	if historyErr != nil {
		// Without history we cannot tell a first order from a spike, so both
		// amount heuristics sit out this evaluation.
		s.logger.WarnContext(ctx, "fraud history unavailable, skipping amount heuristics",
			slog.String("order.id", order.ID.String()),
			slog.String("error", historyErr.Error()))
	}
	switch {
	case historyErr != nil:
	case len(totals) > 0:
		var sum int64
		for _, total := range totals {
			sum += total
		}
		avg := sum / int64(len(totals))
		if avg > 0 && order.TotalPrice >= avg*amountSpikeFactor {
			reasons = append(reasons, fmt.Sprintf(
				"transaction amount %d is %dx or more above the buyer's trailing average %d",
				order.TotalPrice, amountSpikeFactor, avg))
		}
	case s.firstOrderCeiling > 0 && order.TotalPrice > s.firstOrderCeiling:
		reasons = append(reasons, fmt.Sprintf(
			"first order of %d exceeds the first-purchase ceiling %d",
			order.TotalPrice, s.firstOrderCeiling))
	}

	for _, line := range order.Lines {
		if line.Quantity >= bulkQuantityCeiling {
			reasons = append(reasons, fmt.Sprintf(
				"line %q carries unusually high quantity %d", line.ProductID, line.Quantity))
		}
	}
	return reasons
}

func (s *Sentinel) append(ctx context.Context, order *ordersdomain.Order, reason string) {
	details, err := json.Marshal(map[string]any{
		"lines":      order.Lines,
		"totalPrice": order.TotalPrice,
		"paidAt":     order.PaidAt,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to serialize fraud context",
			slog.String("order.id", order.ID.String()),
			slog.String("error", err.Error()))
		details = []byte("{}")
	}
	entry := ports.LogEntry{
		ID:        uuid.New(),
		BuyerID:   order.BuyerID,
		OrderID:   order.ID,
		Amount:    order.TotalPrice,
		Reason:    reason,
		Details:   string(details),
		CreatedAt: s.now(),
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to append fraud log",
			slog.String("order.id", order.ID.String()),
			slog.String("error", err.Error()))
		return
	}
	s.logger.WarnContext(ctx, "fraud signal recorded",
		slog.String("event", "fraud_flag"),
		slog.String("order.id", order.ID.String()),
		slog.String("buyer.id", order.BuyerID),
		slog.String("reason", reason))
}

var _ ports.Service = (*Sentinel)(nil)
