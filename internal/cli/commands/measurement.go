package commands

import (
	"GlobalpingCLI/internal/cli/domain"
	"GlobalpingCLI/internal/cli/render"
	"GlobalpingCLI/pkg/optional"
	"GlobalpingCLI/pkg/validator"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// measurementFlags holds the per-command flag values. Presence is read from
// the flag set, never from the zero value.
type measurementFlags struct {
	packets  int
	protocol string
	port     int
	query    string
	resolver string
	trace    bool
	path     string
	method   string
	host     string
	headers  map[string]string
}

func (r *Root) newMeasurementCommand(command domain.Command, short, long string, register func(*pflag.FlagSet, *measurementFlags)) *cobra.Command {
	use := command.String() + " TARGET [from LOCATION...]"
	if command.AcceptsResolver() {
		use = command.String() + " TARGET [@resolver] [from LOCATION...]"
	}

	values := &measurementFlags{}
	cmd := &cobra.Command{
		Use:     use,
		GroupID: "measurements",
		Short:   short,
		Long:    long,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runMeasurement(cmd, command, values, args)
		},
	}

	register(cmd.Flags(), values)

	for _, field := range []string{validator.FieldProtocol, validator.FieldQuery, validator.FieldMethod} {
		if allowed := validator.AllowedValues(command.String(), field); allowed != nil && cmd.Flags().Lookup(field) != nil {
			_ = cmd.RegisterFlagCompletionFunc(field, cobra.FixedCompletions(allowed, cobra.ShellCompDirectiveNoFileComp))
		}
	}

	return cmd
}

func (r *Root) runMeasurement(cmd *cobra.Command, command domain.Command, values *measurementFlags, args []string) error {
	query, err := ParseTargetQuery(command, args)
	if err != nil {
		return err
	}

	raw, err := r.rawArguments(cmd.Flags(), values, query)
	if err != nil {
		return err
	}

	return r.withApp(cmd, func(app App) error {
		renderer := render.New(r.opts.Out, r.opts.ErrOut, raw.Output)
		return app.Measurements().Run(cmd.Context(), command, raw, renderer)
	})
}

func (r *Root) rawArguments(flags *pflag.FlagSet, values *measurementFlags, query *TargetQuery) (domain.RawArguments, error) {
	raw := domain.RawArguments{
		Target:         query.Target,
		LocationTokens: query.LocationTokens,
		From:           flagValue(flags, "from", r.from),
		Limit:          flagValue(flags, "limit", r.limit),
		Packets:        flagValue(flags, "packets", values.packets),
		Protocol:       flagValue(flags, "protocol", values.protocol),
		Port:           flagValue(flags, "port", values.port),
		Query:          flagValue(flags, "query", values.query),
		Resolver:       flagValue(flags, "resolver", values.resolver),
		Trace:          flagValue(flags, "trace", values.trace),
		Path:           flagValue(flags, "path", values.path),
		Method:         flagValue(flags, "method", values.method),
		Host:           flagValue(flags, "host", values.host),
		Headers:        flagValue(flags, "headers", values.headers),
		Output:         r.outputMode(),
	}

	// The dig-style token wins over the flag.
	if query.Resolver != "" {
		raw.Resolver = optional.Some(query.Resolver)
	}
	if resolver, ok := raw.Resolver.Get(); ok {
		if _, err := validator.ValidateResolver(resolver); err != nil {
			return raw, err
		}
	}

	return raw, nil
}

// flagValue is present only when the user set the flag on the command line.
func flagValue[T any](flags *pflag.FlagSet, name string, value T) optional.Value[T] {
	if flags.Lookup(name) == nil || !flags.Changed(name) {
		return optional.None[T]()
	}
	return optional.Some(value)
}

func (r *Root) newPingCommand() *cobra.Command {
	return r.newMeasurementCommand(domain.PingCommand,
		"Run a ping test",
		`The ping command sends ICMP echo requests to a target and reports round-trip times.

Examples:
  # Ping google.com from 2 probes in New York
  ping google.com from New York --limit 2

  # Ping 1.1.1.1 from a probe in Berlin with 10 packets
  ping 1.1.1.1 from Berlin --packets 10

  # Ping google.com from the probes of the previous measurement (needs history.dsn)
  ping google.com from last

  # Ping google.com from the probes of the second recorded measurement
  ping google.com from @2`,
		func(flags *pflag.FlagSet, v *measurementFlags) {
			flags.IntVar(&v.packets, "packets", 3, "number of packets to send")
		})
}

func (r *Root) newTracerouteCommand() *cobra.Command {
	return r.newMeasurementCommand(domain.TracerouteCommand,
		"Run a traceroute test",
		`The traceroute command shows the network path to a target.

Examples:
  # Traceroute google.com from a probe in Germany using TCP on port 443
  traceroute google.com from Germany --protocol TCP --port 443`,
		func(flags *pflag.FlagSet, v *measurementFlags) {
			flags.StringVar(&v.protocol, "protocol", "ICMP", "protocol to use (TCP, UDP, ICMP)")
			flags.IntVar(&v.port, "port", 80, "destination port for TCP")
		})
}

func (r *Root) newDNSCommand() *cobra.Command {
	return r.newMeasurementCommand(domain.DNSCommand,
		"Resolve a DNS record similarly to dig",
		`The dns command resolves a DNS record from probes around the world.
The resolver can be given with --resolver or in dig format as @resolver.

Examples:
  # Resolve the MX records of jsdelivr.com from Berlin using 1.1.1.1
  dns jsdelivr.com @1.1.1.1 from Berlin --query MX

  # Resolve google.com over TCP with tracing enabled
  dns google.com --protocol TCP --trace`,
		func(flags *pflag.FlagSet, v *measurementFlags) {
			flags.StringVar(&v.query, "query", "A", "type of DNS query to perform")
			flags.StringVar(&v.protocol, "protocol", "UDP", "protocol to use for the query (UDP, TCP)")
			flags.IntVar(&v.port, "port", 53, "port of the name server")
			flags.StringVar(&v.resolver, "resolver", "", "hostname or IP address of the name server to use")
			flags.BoolVar(&v.trace, "trace", false, "trace the delegation path from the root name servers")
		})
}

func (r *Root) newMTRCommand() *cobra.Command {
	return r.newMeasurementCommand(domain.MTRCommand,
		"Run an MTR test, combining traceroute and ping",
		`The mtr command combines traceroute and ping to show loss and latency per hop.

Examples:
  # MTR to cloudflare.com from a probe in Japan with 5 packets per hop
  mtr cloudflare.com from Japan --packets 5`,
		func(flags *pflag.FlagSet, v *measurementFlags) {
			flags.StringVar(&v.protocol, "protocol", "ICMP", "protocol to use (TCP, UDP, ICMP)")
			flags.IntVar(&v.port, "port", 80, "destination port for TCP")
			flags.IntVar(&v.packets, "packets", 3, "number of packets to send to each hop")
		})
}

func (r *Root) newHTTPCommand() *cobra.Command {
	return r.newMeasurementCommand(domain.HTTPCommand,
		"Perform a HEAD or GET request to a host",
		`The http command performs an HTTP request and shows the response.

Examples:
  # HEAD request to jsdelivr.com from 2 probes in Europe
  http jsdelivr.com from Europe --limit 2

  # GET request with a custom path, query and header over HTTP/2
  http jsdelivr.com --method GET --path /npm/react --query debug=1 --protocol HTTP2 --headers X-Debug=1`,
		func(flags *pflag.FlagSet, v *measurementFlags) {
			flags.IntVar(&v.port, "port", 80, "port to connect to")
			flags.StringVar(&v.protocol, "protocol", "HTTPS", "protocol to use (HTTP, HTTPS, HTTP2)")
			flags.StringVar(&v.resolver, "resolver", "", "hostname or IP address of the name server to use for the lookup")
			flags.StringVar(&v.path, "path", "/", "path portion of the URL")
			flags.StringVar(&v.query, "query", "", "query string portion of the URL")
			flags.StringVar(&v.method, "method", "HEAD", "HTTP method (HEAD, GET)")
			flags.StringVar(&v.host, "host", "", "Host header to send, defaults to the target")
			flags.StringToStringVar(&v.headers, "headers", nil, "request headers as key=value pairs")
		})
}
