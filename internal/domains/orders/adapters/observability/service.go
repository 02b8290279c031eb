package observability

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
	ordersports "github.com/agrikart/fulfillment/internal/domains/orders/ports"
)

const tracerName = "github.com/agrikart/fulfillment/internal/domains/orders/adapters/observability/service"

// Service decorates the order ledger with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core ledger service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Materialize(ctx context.Context, input ordersports.MaterializeInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderLedger.Materialize",
		trace.WithAttributes(attribute.String("order.buyer_id", input.BuyerID), attribute.Int64("order.total", input.TotalPrice)))
	defer span.End()

	result, err := s.inner.Materialize(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to materialize order", slog.String("buyer.id", input.BuyerID))
	}
	s.metrics.recordMaterialized(ctx)
	s.logInfo(ctx, "order materialized",
		slog.String("order.id", result.ID.String()),
		slog.Int64("order.total", result.TotalPrice))
	return result, nil
}

func (s *Service) Transition(ctx context.Context, orderID uuid.UUID, target ordersdomain.Status, actor ordersdomain.Actor) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderLedger.Transition",
		trace.WithAttributes(
			attribute.String("order.id", orderID.String()),
			attribute.String("order.target_status", string(target)),
			attribute.String("actor.role", string(actor.Role))))
	defer span.End()

	result, err := s.inner.Transition(ctx, orderID, target, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to transition order",
			slog.String("order.id", orderID.String()), slog.String("target", string(target)))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "order transitioned",
		slog.String("order.id", result.ID.String()),
		slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) MarkDeliveredVerified(ctx context.Context, orderID uuid.UUID) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderLedger.MarkDeliveredVerified",
		trace.WithAttributes(attribute.String("order.id", orderID.String())))
	defer span.End()

	result, err := s.inner.MarkDeliveredVerified(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to mark order delivered", slog.String("order.id", orderID.String()))
	}
	s.metrics.recordTransition(ctx, result.Status)
	return result, nil
}

func (s *Service) OverrideDelivered(ctx context.Context, orderID uuid.UUID, actor ordersdomain.Actor) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderLedger.OverrideDelivered",
		trace.WithAttributes(attribute.String("order.id", orderID.String()), attribute.String("actor.id", actor.ID)))
	defer span.End()

	result, err := s.inner.OverrideDelivered(ctx, orderID, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to override delivery", slog.String("order.id", orderID.String()))
	}
	s.metrics.recordOverride(ctx)
	return result, nil
}

func (s *Service) AssignCourier(ctx context.Context, orderID uuid.UUID, courierID string) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderLedger.AssignCourier",
		trace.WithAttributes(attribute.String("order.id", orderID.String()), attribute.String("courier.id", courierID)))
	defer span.End()

	result, err := s.inner.AssignCourier(ctx, orderID, courierID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to assign courier", slog.String("order.id", orderID.String()))
	}
	s.logInfo(ctx, "courier assigned",
		slog.String("order.id", result.ID.String()),
		slog.String("courier.id", result.CourierID))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, orderID uuid.UUID) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderLedger.GetByID",
		trace.WithAttributes(attribute.String("order.id", orderID.String())))
	defer span.End()

	result, err := s.inner.GetByID(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", orderID.String()))
	}
	return result, nil
}

func (s *Service) ListByBuyer(ctx context.Context, buyerID string, page ordersports.Page) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderLedger.ListByBuyer",
		trace.WithAttributes(attribute.String("buyer.id", buyerID)))
	defer span.End()

	result, err := s.inner.ListByBuyer(ctx, buyerID, page)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list buyer orders", slog.String("buyer.id", buyerID))
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) ListBySeller(ctx context.Context, page ordersports.Page) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderLedger.ListBySeller")
	defer span.End()

	result, err := s.inner.ListBySeller(ctx, page)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list seller orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) ListDeliveryJobs(ctx context.Context) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderLedger.ListDeliveryJobs")
	defer span.End()

	result, err := s.inner.ListDeliveryJobs(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list delivery jobs")
	}
	span.SetAttributes(attribute.Int("jobs.count", len(result)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	materialized metric.Int64Counter
	transitions  metric.Int64Counter
	overrides    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	materialized, _ := m.Int64Counter("orders.ledger.materialized", metric.WithDescription("Number of orders materialized"))
	transitions, _ := m.Int64Counter("orders.ledger.transitions", metric.WithDescription("Number of status transitions committed"))
	overrides, _ := m.Int64Counter("orders.ledger.delivery_overrides", metric.WithDescription("Number of delivery overrides without OTP"))
	return serviceMetrics{materialized: materialized, transitions: transitions, overrides: overrides}
}

func (m serviceMetrics) recordMaterialized(ctx context.Context) {
	if m.materialized != nil {
		m.materialized.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status ordersdomain.Status) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordOverride(ctx context.Context) {
	if m.overrides != nil {
		m.overrides.Add(ctx, 1)
	}
}

var _ ordersports.Service = (*Service)(nil)
