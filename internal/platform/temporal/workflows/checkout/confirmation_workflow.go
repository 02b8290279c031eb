package checkout

import (
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
	"github.com/agrikart/fulfillment/internal/platform/temporal/sequences"
)

const (
	// ConfirmationWorkflowName is the public identifier for registering the workflow.
	ConfirmationWorkflowName = "checkout.workflows.Confirmation"
	// ConfirmationTaskQueue is the queue consumed by the fulfillment worker.
	ConfirmationTaskQueue = "CHECKOUT_CONFIRMATION"
)

// ConfirmationWorkflowInput carries the session reference being confirmed.
type ConfirmationWorkflowInput struct {
	SessionRef string
	TraceID    string
}

// ConfirmationWorkflow reconciles a paid checkout session into an order. The
// workflow ID is derived from the session ref, so concurrent redirect and
// webhook confirmations collapse onto a single durable execution.
func ConfirmationWorkflow(ctx workflow.Context, input ConfirmationWorkflowInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("ConfirmationWorkflow started", withTraceID(input.TraceID, "sessionRef", input.SessionRef)...)
	order, err := sequences.RunConfirmationSequence(ctx, input.SessionRef)
	if err != nil {
		logger.Error("ConfirmationWorkflow failed", withTraceID(input.TraceID, "sessionRef", input.SessionRef, "error", err)...)
		return nil, err
	}
	if order != nil {
		logger.Info("ConfirmationWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID.String())...)
	}
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
