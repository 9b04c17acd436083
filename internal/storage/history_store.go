package storage

import (
	"GlobalpingCLI/internal/cli/domain"
	"GlobalpingCLI/pkg/uuidutil"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrHistoryDisabled        = errors.New("measurement history is disabled, set history.dsn to enable it")
	ErrNoPreviousMeasurements = errors.New("no previous measurements found")
	ErrIndexOutOfRange        = errors.New("index out of range")
)

const historySchema = `
	CREATE TABLE IF NOT EXISTS measurement_history (
		id             UUID PRIMARY KEY,
		measurement_id TEXT NOT NULL,
		type           TEXT NOT NULL,
		target         TEXT NOT NULL,
		location       TEXT NOT NULL DEFAULT '',
		probes_count   INTEGER NOT NULL DEFAULT 0,
		request        JSONB NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS measurement_history_created_at_idx
		ON measurement_history (created_at DESC);
`

type historyStore struct {
	pool *pgxpool.Pool
}

func NewHistoryStore(pool *pgxpool.Pool) HistoryStore {
	return &historyStore{pool: pool}
}

func (s *historyStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, historySchema); err != nil {
		return fmt.Errorf("failed to create measurement_history table: %w", err)
	}
	return nil
}

func (s *historyStore) Record(ctx context.Context, entry *domain.HistoryEntry) error {
	entry.ID = uuidutil.New()
	entry.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO measurement_history (id, measurement_id, type, target, location, probes_count, request, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		entry.ID,
		entry.MeasurementID,
		string(entry.Type),
		entry.Target,
		entry.Location,
		entry.ProbesCount,
		[]byte(entry.Request),
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to record measurement %s: %w", entry.MeasurementID, err)
	}

	return nil
}

func (s *historyStore) List(ctx context.Context, limit int) ([]*domain.HistoryEntry, error) {
	query := `
		SELECT id, measurement_id, type, target, location, probes_count, request, created_at
		FROM measurement_history
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query measurement history: %w", err)
	}
	defer rows.Close()

	return s.scanEntries(rows)
}

func (s *historyStore) Nth(ctx context.Context, index int) (*domain.HistoryEntry, error) {
	if index == 0 {
		return nil, ErrIndexOutOfRange
	}

	order, offset := "ASC", index-1
	if index < 0 {
		order, offset = "DESC", -index-1
	}

	query := `
		SELECT id, measurement_id, type, target, location, probes_count, request, created_at
		FROM measurement_history
		ORDER BY created_at ` + order + `
		OFFSET $1
		LIMIT 1
	`

	rows, err := s.pool.Query(ctx, query, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query measurement history: %w", err)
	}
	defer rows.Close()

	entries, err := s.scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		return entries[0], nil
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM measurement_history)`).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to query measurement history: %w", err)
	}
	if !exists {
		return nil, ErrNoPreviousMeasurements
	}
	return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
}

func (s *historyStore) Close() {
	s.pool.Close()
}

func (s *historyStore) scanEntries(rows pgx.Rows) ([]*domain.HistoryEntry, error) {
	var entries []*domain.HistoryEntry

	for rows.Next() {
		var entry domain.HistoryEntry
		var commandType string
		var request []byte

		err := rows.Scan(
			&entry.ID,
			&entry.MeasurementID,
			&commandType,
			&entry.Target,
			&entry.Location,
			&entry.ProbesCount,
			&request,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		entry.Type = domain.Command(commandType)
		entry.Request = request
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return entries, nil
}

// disabledHistory stands in when no database is configured.
type disabledHistory struct{}

func NewDisabledHistoryStore() HistoryStore {
	return disabledHistory{}
}

func (disabledHistory) EnsureSchema(context.Context) error { return nil }

func (disabledHistory) Record(context.Context, *domain.HistoryEntry) error { return nil }

func (disabledHistory) List(context.Context, int) ([]*domain.HistoryEntry, error) {
	return nil, ErrHistoryDisabled
}

func (disabledHistory) Nth(context.Context, int) (*domain.HistoryEntry, error) {
	return nil, ErrHistoryDisabled
}

func (disabledHistory) Close() {}
