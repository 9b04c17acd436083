package domain

import (
	"encoding/json"
	"time"
)

// HistoryEntry is one submitted measurement as recorded locally.
type HistoryEntry struct {
	ID            string          `json:"id"`
	MeasurementID string          `json:"measurementId"`
	Type          Command         `json:"type"`
	Target        string          `json:"target"`
	Location      string          `json:"location"`
	ProbesCount   int             `json:"probesCount"`
	Request       json.RawMessage `json:"request"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// NewHistoryEntry describes the submission of request that produced handle.
func NewHistoryEntry(request *MeasurementRequest, handle *MeasurementHandle) (*HistoryEntry, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	var location string
	if len(request.Locations) > 0 {
		location = request.Locations[0].Magic
	}

	return &HistoryEntry{
		MeasurementID: handle.ID,
		Type:          request.Type,
		Target:        request.Target,
		Location:      location,
		ProbesCount:   handle.ProbesCount,
		Request:       body,
	}, nil
}
