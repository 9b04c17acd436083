package render

import (
	"GlobalpingCLI/internal/cli/domain"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// LatencyRenderer prints the timing summary of every result. Location headers
// go to errOut so out carries only the numbers.
type LatencyRenderer struct {
	out    io.Writer
	errOut io.Writer
	header *color.Color
	label  *color.Color
	share  bool
}

func NewLatencyRenderer(out, errOut io.Writer, mode domain.OutputMode) *LatencyRenderer {
	if errOut == nil {
		errOut = out
	}

	header := color.New(color.FgHiBlue, color.Bold)
	label := color.New(color.Bold)
	for _, c := range []*color.Color{header, label} {
		if mode.CI {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}

	return &LatencyRenderer{
		out:    out,
		errOut: errOut,
		header: header,
		label:  label,
		share:  mode.Share,
	}
}

func (r *LatencyRenderer) Render(result *domain.MeasurementResult) error {
	for i := range result.Results {
		probe := &result.Results[i]

		if i > 0 {
			fmt.Fprintln(r.out)
		}
		if _, err := r.header.Fprintln(r.errOut, "> "+Header(&probe.Probe)); err != nil {
			return fmt.Errorf("failed to write probe header: %w", err)
		}

		stats, err := latencyStats(result.Type, &probe.Result)
		if err != nil {
			return err
		}
		for _, s := range stats {
			if _, err := fmt.Fprintln(r.out, r.label.Sprint(s.name+": ")+s.value); err != nil {
				return fmt.Errorf("failed to write latency: %w", err)
			}
		}
	}

	printShare(r.errOut, r.share, result.ID)
	return nil
}

type latencyStat struct {
	name  string
	value string
}

func latencyStats(command domain.Command, output *domain.ProbeOutput) ([]latencyStat, error) {
	switch command {
	case domain.PingCommand:
		var stats domain.PingStats
		if err := decodePayload(output.Stats, &stats); err != nil {
			return nil, err
		}
		return []latencyStat{
			{"Min", fmt.Sprintf("%.2f ms", stats.Min)},
			{"Max", fmt.Sprintf("%.2f ms", stats.Max)},
			{"Avg", fmt.Sprintf("%.2f ms", stats.Avg)},
		}, nil

	case domain.DNSCommand:
		var timings domain.DNSTimings
		if err := decodePayload(output.Timings, &timings); err != nil {
			return nil, err
		}
		return []latencyStat{
			{"Total", fmt.Sprintf("%v ms", timings.Total)},
		}, nil

	case domain.HTTPCommand:
		var timings domain.HTTPTimings
		if err := decodePayload(output.Timings, &timings); err != nil {
			return nil, err
		}
		return []latencyStat{
			{"Total", fmt.Sprintf("%d ms", timings.Total)},
			{"Download", fmt.Sprintf("%d ms", timings.Download)},
			{"First byte", fmt.Sprintf("%d ms", timings.FirstByte)},
			{"DNS", fmt.Sprintf("%d ms", timings.DNS)},
			{"TLS", fmt.Sprintf("%d ms", timings.TLS)},
			{"TCP", fmt.Sprintf("%d ms", timings.TCP)},
		}, nil
	}

	return nil, fmt.Errorf("unexpected command for latency output: %s", command)
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("measurement result has no latency data")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode latency data: %w", err)
	}
	return nil
}
