package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
	checkoutactivities "github.com/agrikart/fulfillment/internal/platform/temporal/activities/checkout"
)

// RunConfirmationSequence executes the activities that reconcile a paid
// checkout session into exactly one order. A handful of retries absorbs
// gateway eventual consistency between redirect and settlement.
func RunConfirmationSequence(ctx workflow.Context, sessionRef string) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("confirmation sequence started", "sessionRef", sessionRef)
	confirmOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var order ordersdomain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, confirmOptions), checkoutactivities.ConfirmSessionActivityName, sessionRef).Get(ctx, &order)
	if err != nil {
		logger.Error("confirmation sequence failed", "sessionRef", sessionRef, "error", err)
		return nil, err
	}
	logger.Info("confirmation sequence materialized order", "sessionRef", sessionRef, "orderId", order.ID.String())
	return &order, nil
}
