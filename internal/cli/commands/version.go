package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func (r *Root) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the version number of the installed Globalping CLI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(r.opts.Out, "Globalping CLI v%s\n", r.opts.Version)
			return err
		},
	}
}

// UserAgent identifies the CLI to the API.
func UserAgent(version string) string {
	return fmt.Sprintf("globalping-cli/%s (%s/%s)", version, runtime.GOOS, runtime.GOARCH)
}
