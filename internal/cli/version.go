package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/pfadmin/pfadmin/internal/config"
)

// Set at build time with -ldflags "-X".
var (
	Version   = "0.3.0"
	BuildDate = "unknown"
)

func versionLine() string {
	return fmt.Sprintf("pfadmin version %s (built %s)", Version, BuildDate)
}

func runtimeLine() string {
	return fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// printVersion prints the version banner. The endpoint line needs a loaded
// configuration.
func printVersion(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, versionLine())
	fmt.Fprintln(w, runtimeLine())
	if cfg != nil {
		fmt.Fprintf(w, "API endpoint: %s\n", cfg.API.URL)
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  noArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(a.stdout, a.cfg)
		},
	}
}
