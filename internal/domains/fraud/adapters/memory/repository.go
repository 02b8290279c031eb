package memory

import (
	"context"
	"sync"

	"github.com/agrikart/fulfillment/internal/domains/fraud/ports"
)

var _ ports.LogRepository = (*LogRepository)(nil)

// LogRepository is an append-only in-memory fraud log.
type LogRepository struct {
	mu      sync.RWMutex
	entries []ports.LogEntry
}

func NewLogRepository() *LogRepository {
	return &LogRepository{}
}

func (r *LogRepository) Append(_ context.Context, entry ports.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *LogRepository) ListByBuyer(_ context.Context, buyerID string) ([]ports.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []ports.LogEntry
	for _, entry := range r.entries {
		if entry.BuyerID == buyerID {
			list = append(list, entry)
		}
	}
	return list, nil
}
