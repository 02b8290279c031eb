package ports

import "context"

// Notifier is the one-way capability that carries a plaintext code to the
// buyer out-of-band. The code never travels back through the API channel.
type Notifier interface {
	SendDeliveryCode(ctx context.Context, destination, code string) error
}
