package storage

import (
	"GlobalpingCLI/internal/shared/constants"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func NewPostgres(ctx context.Context, dsn string, log zerolog.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Error().Err(err).Msg("failed to open connection to postgres")
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, constants.DatabaseConnTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Error().Err(err).Msg("failed to ping database")
		return nil, fmt.Errorf("failed to ping postgres database: %w", err)
	}

	log.Debug().Msg("connected to postgres database")
	return pool, nil
}
