package handlers

import (
	"GlobalpingCLI/internal/cli/domain"
	"GlobalpingCLI/internal/shared/constants"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

var ErrPollLimit = errors.New("measurement did not finish within the poll limit")

// Fetcher returns the current snapshot of a measurement.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (*domain.MeasurementResult, error)
}

// PollConfig bounds the poll loop. Zero MaxAttempts and Timeout mean unbounded.
type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int
	Timeout     time.Duration
}

// PollError reports a failure after polling started. No partial result is returned with it.
type PollError struct {
	Attempt int
	Err     error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("polling failed on attempt %d: %v", e.Attempt, e.Err)
}

func (e *PollError) Unwrap() error {
	return e.Err
}

type Poller struct {
	fetcher Fetcher
	cfg     PollConfig
	logger  zerolog.Logger
}

func NewPoller(fetcher Fetcher, cfg PollConfig, logger zerolog.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = constants.PollInterval
	}

	return &Poller{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
	}
}

// Poll fetches id until the measurement is finished.
// A fetch error ends the loop immediately. Cancelling ctx returns ctx.Err().
func (p *Poller) Poll(ctx context.Context, id string) (*domain.MeasurementResult, error) {
	start := time.Now()
	timer := time.NewTimer(0)
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			p.logger.Debug().Str("id", id).Int("attempt", attempt).Msg("polling cancelled")
			return nil, ctx.Err()
		case <-timer.C:
		}

		// select picks randomly when both channels are ready.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := p.fetcher.Fetch(ctx, id)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			return nil, &PollError{Attempt: attempt, Err: err}
		}

		if result.IsTerminal() {
			p.logger.Debug().Str("id", id).Int("attempts", attempt).Dur("elapsed", time.Since(start)).Msg("measurement finished")
			return result, nil
		}

		p.logger.Debug().Str("id", id).Int("attempt", attempt).Str("status", string(result.Status)).Msg("measurement in progress")

		if p.cfg.MaxAttempts > 0 && attempt >= p.cfg.MaxAttempts {
			return nil, &PollError{Attempt: attempt, Err: fmt.Errorf("%w: %d attempts", ErrPollLimit, attempt)}
		}
		if p.cfg.Timeout > 0 && time.Since(start)+p.cfg.Interval > p.cfg.Timeout {
			return nil, &PollError{Attempt: attempt, Err: fmt.Errorf("%w: %s", ErrPollLimit, p.cfg.Timeout)}
		}

		timer.Reset(p.cfg.Interval)
	}
}
