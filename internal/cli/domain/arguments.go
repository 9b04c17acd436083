package domain

import "GlobalpingCLI/pkg/optional"

// RawArguments is the flat bag of values collected from the command line.
// Optional fields are present only when the user supplied them.
type RawArguments struct {
	Target string
	// LocationTokens are the positional words after the target, possibly starting with "from".
	LocationTokens []string
	From           optional.Value[string]
	Limit          optional.Value[int]

	Packets  optional.Value[int]
	Protocol optional.Value[string]
	Port     optional.Value[int]
	Query    optional.Value[string]
	Resolver optional.Value[string]
	Trace    optional.Value[bool]

	Path    optional.Value[string]
	Method  optional.Value[string]
	Host    optional.Value[string]
	Headers optional.Value[map[string]string]

	Output OutputMode
}

// OutputMode selects how a finished measurement is rendered.
type OutputMode struct {
	JSON bool
	CI   bool
	// Latency prints only the timing summary of each result.
	Latency bool
	// Share prints a link to the measurement on the web after the results.
	Share bool
}
