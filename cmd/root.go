package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jandubois/injector-probe/internal/config"
	"github.com/jandubois/injector-probe/internal/logging"
)

// Version is set at build time via -ldflags "-X github.com/jandubois/injector-probe/cmd.Version=..."
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "probe",
	Short: "Test applications that report what an injector changed",
	Long: `Probe reports the environment variables and in-process markers an injector
is expected to set, in the output format of each runtime's test application.

Run "probe [--log-level level] <runtime> <command> [extra-arg]". Flags are
only parsed before the command; everything after it is passed to the runtime.
Use "--" to pass a command that starts with a dash. Alternatively use the standalone binaries
under probes/ which take "<command> [extra-arg]" directly.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loader := config.NewLoader()
		if f := cmd.Flags().Lookup("log-level"); f != nil {
			if err := loader.BindFlag(config.KeyLogLevel, f); err != nil {
				return err
			}
		}
		logging.Setup(loader.Load(), cmd.ErrOrStderr())
		return nil
	},
}

const runtimeGroupID = "runtimes"

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: runtimeGroupID, Title: "Runtimes:"})
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error), or PROBE_LOG_LEVEL")
}
