package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	checkoutports "github.com/agrikart/fulfillment/internal/domains/checkout/ports"
	"github.com/agrikart/fulfillment/internal/domains/fulfillment/ports"
	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
	checkoutworkflows "github.com/agrikart/fulfillment/internal/platform/temporal/workflows/checkout"
)

var (
	_ ports.ConfirmationOrchestrator = (*TemporalConfirmation)(nil)
	_ ports.ConfirmationOrchestrator = (*InlineConfirmation)(nil)
)

// TemporalConfirmation starts checkout confirmation workflows on a Temporal
// cluster.
type TemporalConfirmation struct {
	client    client.Client
	taskQueue string
}

// NewTemporalConfirmation wires a Temporal client into the orchestrator.
func NewTemporalConfirmation(c client.Client) *TemporalConfirmation {
	return &TemporalConfirmation{client: c, taskQueue: checkoutworkflows.ConfirmationTaskQueue}
}

// Confirm starts the confirmation workflow keyed by session ref. If the
// workflow is already running, the caller attaches to the existing execution
// and receives the same order.
func (o *TemporalConfirmation) Confirm(ctx context.Context, ref uuid.UUID) (*ordersdomain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal confirmation not configured")
	}
	workflowID := fmt.Sprintf("checkout-confirmation-%s", ref)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		checkoutworkflows.ConfirmationWorkflow,
		checkoutworkflows.ConfirmationWorkflowInput{SessionRef: ref.String(), TraceID: workflowTraceComponent(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var order ordersdomain.Order
			if err := existingRun.Get(ctx, &order); err != nil {
				return nil, err
			}
			return &order, nil
		}
		return nil, err
	}
	var order ordersdomain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// InlineConfirmation calls the reconciler directly, useful for tests or dev
// fallbacks without a Temporal cluster.
type InlineConfirmation struct {
	checkout checkoutports.Service
}

// NewInlineConfirmation wraps the checkout service for synchronous execution.
func NewInlineConfirmation(checkout checkoutports.Service) *InlineConfirmation {
	return &InlineConfirmation{checkout: checkout}
}

// Confirm delegates to the reconciler without durable orchestration.
func (o *InlineConfirmation) Confirm(ctx context.Context, ref uuid.UUID) (*ordersdomain.Order, error) {
	if o == nil || o.checkout == nil {
		return nil, errors.New("inline confirmation not configured")
	}
	return o.checkout.Confirm(ctx, ref)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() || !spanCtx.TraceID().IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
