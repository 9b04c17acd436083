package handlers

import (
	"GlobalpingCLI/internal/cli/builder"
	"GlobalpingCLI/internal/cli/domain"
	"GlobalpingCLI/internal/cli/render"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

type Submitter interface {
	Submit(ctx context.Context, request *domain.MeasurementRequest) (*domain.MeasurementHandle, error)
}

// MeasurementClient is the part of the API client the handler needs.
type MeasurementClient interface {
	Submitter
	Fetcher
}

// History records submissions and looks earlier ones up for location reuse.
type History interface {
	Record(ctx context.Context, entry *domain.HistoryEntry) error
	Nth(ctx context.Context, index int) (*domain.HistoryEntry, error)
}

type Publisher interface {
	Publish(ctx context.Context, result *domain.MeasurementResult) error
}

// MeasurementHandler runs one measurement from raw arguments to rendered output.
type MeasurementHandler struct {
	client    MeasurementClient
	poller    *Poller
	history   History
	publisher Publisher
	logger    zerolog.Logger
}

// NewMeasurementHandler wires the collaborators. history and publisher may be nil.
func NewMeasurementHandler(client MeasurementClient, pollCfg PollConfig, history History, publisher Publisher, logger zerolog.Logger) *MeasurementHandler {
	return &MeasurementHandler{
		client:    client,
		poller:    NewPoller(client, pollCfg, logger),
		history:   history,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *MeasurementHandler) Run(ctx context.Context, command domain.Command, raw domain.RawArguments, renderer render.Renderer) error {
	request, err := builder.Build(command, raw)
	if err != nil {
		return err
	}

	reused, err := h.reuseLocation(ctx, request)
	if err != nil {
		return err
	}

	handle, err := h.client.Submit(ctx, request)
	if err != nil {
		return err
	}

	h.logger.Debug().Str("id", handle.ID).Str("type", command.String()).Str("target", request.Target).Msg("measurement submitted")
	if !reused {
		h.record(ctx, request, handle)
	}

	result, err := h.poller.Poll(ctx, handle.ID)
	if err != nil {
		return err
	}

	if err := renderer.Render(result); err != nil {
		return err
	}

	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, result); err != nil {
			return fmt.Errorf("failed to publish measurement %s: %w", result.ID, err)
		}
	}

	return nil
}

// reuseLocation replaces a history reference such as "last" or "@2" with the id of
// that measurement, so the platform picks the same probes again.
func (h *MeasurementHandler) reuseLocation(ctx context.Context, request *domain.MeasurementRequest) (bool, error) {
	if len(request.Locations) != 1 {
		return false, nil
	}

	magic := request.Locations[0].Magic
	index, ok, err := builder.HistoryReference(magic)
	if err != nil || !ok {
		return false, err
	}

	if h.history == nil {
		return false, fmt.Errorf("location %q needs measurement history, which is not available", magic)
	}

	entry, err := h.history.Nth(ctx, index)
	if err != nil {
		return false, fmt.Errorf("failed to resolve location %q: %w", magic, err)
	}

	h.logger.Debug().Str("location", magic).Str("measurement_id", entry.MeasurementID).Msg("reusing probes of earlier measurement")
	request.Locations[0].Magic = entry.MeasurementID
	return true, nil
}

// record stores the submission. Failures are logged, not returned.
func (h *MeasurementHandler) record(ctx context.Context, request *domain.MeasurementRequest, handle *domain.MeasurementHandle) {
	if h.history == nil {
		return
	}

	entry, err := domain.NewHistoryEntry(request, handle)
	if err == nil {
		err = h.history.Record(ctx, entry)
	}
	if err != nil {
		h.logger.Warn().Err(err).Str("id", handle.ID).Msg("failed to record measurement history")
	}
}
