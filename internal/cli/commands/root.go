// Package commands is the cobra front end of the globalping CLI.
package commands

import (
	"GlobalpingCLI/internal/cli/domain"
	"GlobalpingCLI/internal/cli/handlers"
	"GlobalpingCLI/internal/config"
	"GlobalpingCLI/internal/storage"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// App holds the services a command runs against. It is built after flags and
// configuration are resolved.
type App interface {
	Measurements() *handlers.MeasurementHandler
	History() storage.HistoryStore
	Close()
}

type AppFactory func(ctx context.Context, cfg *config.Config) (App, error)

type Options struct {
	Out    io.Writer
	ErrOut io.Writer
	// Terminal reports whether stdout is an interactive terminal.
	Terminal bool
	Version  string
	NewApp   AppFactory
}

type Root struct {
	Cmd *cobra.Command

	opts       Options
	viper      *viper.Viper
	configFile string
	verbose    bool

	from   string
	limit  int
	output domain.OutputMode
}

func NewRoot(opts Options) *Root {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}

	r := &Root{
		opts:  opts,
		viper: config.New(),
	}

	r.Cmd = &cobra.Command{
		Use:   "globalping",
		Short: "Run network measurements such as ping, traceroute and DNS resolve from probes around the world",
		Long: `Globalping is a platform that allows anyone to run networking commands such as ping, traceroute, dig and mtr
on probes distributed all around the world.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	r.Cmd.SetOut(opts.Out)
	r.Cmd.SetErr(opts.ErrOut)

	flags := r.Cmd.PersistentFlags()
	flags.StringVar(&r.configFile, "config", "", "config file (default is $HOME/.globalping/config.yaml)")
	flags.String("api-url", "", "base URL of the Globalping API")
	flags.BoolVarP(&r.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVarP(&r.from, "from", "F", "", "a continent, region, country, US state, city or network to run the measurement from")
	flags.IntVarP(&r.limit, "limit", "L", 1, "limit the number of probes to use")
	flags.BoolVar(&r.output.CI, "ci", false, "disable colors and realtime output")
	flags.BoolVarP(&r.output.JSON, "json", "J", false, "output the raw measurement as JSON")
	flags.BoolVar(&r.output.Latency, "latency", false, "output only the latency stats of each result")
	flags.BoolVar(&r.output.Share, "share", false, "print a link to the measurement on the web")

	// Flag is registered above, so binding cannot fail.
	_ = r.viper.BindPFlag("api.url", flags.Lookup("api-url"))

	r.Cmd.AddGroup(&cobra.Group{ID: "measurements", Title: "Measurement Commands:"})
	r.Cmd.AddCommand(
		r.newPingCommand(),
		r.newTracerouteCommand(),
		r.newDNSCommand(),
		r.newMTRCommand(),
		r.newHTTPCommand(),
		r.newHistoryCommand(),
		r.newVersionCommand(),
	)

	return r
}

func (r *Root) Execute(ctx context.Context, args []string) error {
	r.Cmd.SetArgs(args)
	return r.Cmd.ExecuteContext(ctx)
}

func (r *Root) loadConfig() (*config.Config, error) {
	if r.verbose {
		r.viper.Set("logging.level", "debug")
	}
	cfg, err := config.Load(r.viper, r.configFile)
	if err != nil {
		return nil, err
	}

	cfg.Logging.NoColor = r.outputMode().CI
	return cfg, nil
}

// withApp resolves configuration, builds the App and closes it once run returns.
func (r *Root) withApp(cmd *cobra.Command, run func(app App) error) error {
	cfg, err := r.loadConfig()
	if err != nil {
		return err
	}

	if r.opts.NewApp == nil {
		return fmt.Errorf("no application factory configured")
	}

	app, err := r.opts.NewApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	return run(app)
}

// outputMode applies CI detection: the --ci flag, a CI environment variable
// or a stdout that is not a terminal.
func (r *Root) outputMode() domain.OutputMode {
	mode := r.output
	if os.Getenv("CI") != "" || !r.opts.Terminal {
		mode.CI = true
	}
	return mode
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
