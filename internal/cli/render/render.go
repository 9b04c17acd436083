package render

import (
	"GlobalpingCLI/internal/cli/domain"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const shareURL = "https://www.jsdelivr.com/globalping?measurement="

// Renderer prints a finished measurement.
type Renderer interface {
	Render(result *domain.MeasurementResult) error
}

// New picks the renderer for mode. Diagnostics such as the share link go to errOut.
func New(out, errOut io.Writer, mode domain.OutputMode) Renderer {
	if mode.JSON {
		return NewJSONRenderer(out)
	}
	if mode.Latency {
		return NewLatencyRenderer(out, errOut, mode)
	}
	return NewDefaultRenderer(out, errOut, mode)
}

type JSONRenderer struct {
	out io.Writer
}

func NewJSONRenderer(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

func (r *JSONRenderer) Render(result *domain.MeasurementResult) error {
	body := []byte(result.Raw)
	if len(body) == 0 {
		var err error
		if body, err = json.Marshal(result); err != nil {
			return fmt.Errorf("failed to marshal measurement: %w", err)
		}
	}

	if _, err := fmt.Fprintln(r.out, strings.TrimSpace(string(body))); err != nil {
		return fmt.Errorf("failed to write measurement: %w", err)
	}
	return nil
}

type DefaultRenderer struct {
	out    io.Writer
	errOut io.Writer
	header *color.Color
	share  bool
}

func NewDefaultRenderer(out, errOut io.Writer, mode domain.OutputMode) *DefaultRenderer {
	header := color.New(color.FgHiBlue, color.Bold)
	if mode.CI {
		header.DisableColor()
	} else {
		header.EnableColor()
	}

	return &DefaultRenderer{
		out:    out,
		errOut: errOut,
		header: header,
		share:  mode.Share,
	}
}

func (r *DefaultRenderer) Render(result *domain.MeasurementResult) error {
	for i := range result.Results {
		probe := &result.Results[i]

		if _, err := r.header.Fprintln(r.out, Header(&probe.Probe)); err != nil {
			return fmt.Errorf("failed to write probe header: %w", err)
		}
		if _, err := fmt.Fprintln(r.out, strings.TrimRight(probe.Result.RawOutput, "\n")); err != nil {
			return fmt.Errorf("failed to write probe output: %w", err)
		}
	}

	printShare(r.errOut, r.share, result.ID)
	return nil
}

func printShare(errOut io.Writer, share bool, id string) {
	if share && errOut != nil && id != "" {
		fmt.Fprintf(errOut, "View the results online: %s%s\n", shareURL, id)
	}
}

// Header formats a probe location as "continent, country, (state), city, ASN:asn".
// The state segment is only present when the probe reports one.
func Header(probe *domain.ProbeDetails) string {
	var b strings.Builder

	b.WriteString(probe.Continent)
	b.WriteString(", ")
	b.WriteString(probe.Country)
	b.WriteString(", ")
	if probe.State != "" {
		b.WriteString("(" + probe.State + "), ")
	}
	b.WriteString(probe.City)
	fmt.Fprintf(&b, ", ASN:%d", probe.ASN)

	return b.String()
}
