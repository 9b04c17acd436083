package domain

// Modeled on https://www.jsdelivr.com/docs/api.globalping.io#post-/v1/measurements

type Location struct {
	Magic string `json:"magic,omitempty"`
}

// MeasurementOptions is implemented by the five per-type option records.
type MeasurementOptions interface {
	measurementType() Command
}

type MeasurementRequest struct {
	Type      Command            `json:"type"`
	Target    string             `json:"target"`
	Limit     int                `json:"limit"`
	Locations []Location         `json:"locations"`
	Options   MeasurementOptions `json:"measurementOptions"`
}

// Pointer fields are emitted only when set, so an explicit zero survives serialization.

type PingOptions struct {
	Packets *int `json:"packets,omitempty"`
}

type TracerouteOptions struct {
	Protocol *string `json:"protocol,omitempty"`
	Port     *int    `json:"port,omitempty"`
}

type DNSQuery struct {
	Type string `json:"type"`
}

type DNSOptions struct {
	Query    *DNSQuery `json:"query,omitempty"`
	Protocol *string   `json:"protocol,omitempty"`
	Port     *int      `json:"port,omitempty"`
	Resolver *string   `json:"resolver,omitempty"`
	Trace    *bool     `json:"trace,omitempty"`
}

type MTROptions struct {
	Protocol *string `json:"protocol,omitempty"`
	Port     *int    `json:"port,omitempty"`
	Packets  *int    `json:"packets,omitempty"`
}

type HTTPRequestOptions struct {
	Path    *string           `json:"path,omitempty"`
	Query   *string           `json:"query,omitempty"`
	Method  *string           `json:"method,omitempty"`
	Host    *string           `json:"host,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// IsEmpty reports whether no request field was supplied.
func (r *HTTPRequestOptions) IsEmpty() bool {
	return r.Path == nil && r.Query == nil && r.Method == nil && r.Host == nil && r.Headers == nil
}

type HTTPOptions struct {
	Port     *int                `json:"port,omitempty"`
	Protocol *string             `json:"protocol,omitempty"`
	Resolver *string             `json:"resolver,omitempty"`
	Request  *HTTPRequestOptions `json:"request,omitempty"`
}

func (*PingOptions) measurementType() Command       { return PingCommand }
func (*TracerouteOptions) measurementType() Command { return TracerouteCommand }
func (*DNSOptions) measurementType() Command        { return DNSCommand }
func (*MTROptions) measurementType() Command        { return MTRCommand }
func (*HTTPOptions) measurementType() Command       { return HTTPCommand }

// MeasurementHandle is returned by a successful submission.
type MeasurementHandle struct {
	ID          string `json:"id"`
	ProbesCount int    `json:"probesCount"`
}
