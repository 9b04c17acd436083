package storage

import (
	"GlobalpingCLI/internal/cli/domain"
	"context"
)

// ResponseCache keeps the last GET body and ETag per measurement id
type ResponseCache interface {
	Get(ctx context.Context, id string) (etag string, body []byte, ok bool)
	Put(ctx context.Context, id, etag string, body []byte) error
	Close() error
}

// HistoryStore records submitted measurements
type HistoryStore interface {
	EnsureSchema(ctx context.Context) error
	Record(ctx context.Context, entry *domain.HistoryEntry) error
	List(ctx context.Context, limit int) ([]*domain.HistoryEntry, error)
	// Nth returns the entry at a 1-based index from the oldest, or from the newest when index is negative.
	Nth(ctx context.Context, index int) (*domain.HistoryEntry, error)
	Close()
}
