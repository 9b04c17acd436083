package domain

import "encoding/json"

// Modeled on https://www.jsdelivr.com/docs/api.globalping.io#get-/v1/measurements/-id-

type MeasurementStatus string

const (
	StatusInProgress MeasurementStatus = "in-progress"
	StatusFinished   MeasurementStatus = "finished"
)

type ProbeDetails struct {
	Continent string   `json:"continent"`
	Region    string   `json:"region"`
	Country   string   `json:"country"`
	State     string   `json:"state,omitempty"`
	City      string   `json:"city"`
	ASN       int      `json:"asn"`
	Longitude float64  `json:"longitude"`
	Latitude  float64  `json:"latitude"`
	Network   string   `json:"network"`
	Resolvers []string `json:"resolvers"`
}

type ProbeOutput struct {
	RawOutput string `json:"rawOutput"`
	// Stats and Timings keep the type-specific payloads undecoded until a renderer needs them.
	Stats   json.RawMessage `json:"stats,omitempty"`
	Timings json.RawMessage `json:"timings,omitempty"`
}

type PingStats struct {
	Min   float64 `json:"min"`
	Avg   float64 `json:"avg"`
	Max   float64 `json:"max"`
	Total int     `json:"total"`
	Rcv   int     `json:"rcv"`
	Drop  int     `json:"drop"`
	Loss  float64 `json:"loss"`
	Mdev  float64 `json:"mdev"`
}

type DNSTimings struct {
	Total float64 `json:"total"`
}

type HTTPTimings struct {
	Total     int `json:"total"`
	DNS       int `json:"dns"`
	TCP       int `json:"tcp"`
	TLS       int `json:"tls"`
	FirstByte int `json:"firstByte"`
	Download  int `json:"download"`
}

type ProbeResult struct {
	Probe  ProbeDetails `json:"probe"`
	Result ProbeOutput  `json:"result"`
}

type MeasurementResult struct {
	ID        string            `json:"id"`
	Type      Command           `json:"type"`
	Status    MeasurementStatus `json:"status"`
	CreatedAt string            `json:"createdAt"`
	UpdatedAt string            `json:"updatedAt"`
	Results   []ProbeResult     `json:"results"`

	// Raw holds the response body the result was decoded from, if any.
	Raw json.RawMessage `json:"-"`
}

// IsTerminal reports whether the platform has finished the measurement.
func (m *MeasurementResult) IsTerminal() bool {
	return m.Status == StatusFinished
}
