package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/jandubois/injector-probe/internal/app"
	"github.com/jandubois/injector-probe/internal/probe"
	"github.com/jandubois/injector-probe/internal/runtimes"
	"github.com/jandubois/injector-probe/internal/state"
)

// exitError carries a non-zero probe exit code through cobra without a message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func newRuntimeCmd(name, short string) *cobra.Command {
	c := &cobra.Command{
		Use:           name + " <command> [extra-arg]",
		Short:         short,
		GroupID:       runtimeGroupID,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := runtimes.Get(cmd.Name())
			if err != nil {
				return err
			}
			code := app.Run(v, args, app.Options{
				Env:    state.OSEnv{},
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			})
			if code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}
	c.Flags().SetInterspersed(false)
	return c
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version and exit")
	rootCmd.Flags().Bool("describe", false, "Output runtime command tables")
	rootCmd.Flags().String("format", "json", "Description format (json, toml)")

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(cmd.OutOrStdout(), "probe version %s\n", Version)
			return nil
		}
		if describe, _ := cmd.Flags().GetBool("describe"); describe {
			format, _ := cmd.Flags().GetString("format")
			return printDescriptions(cmd.OutOrStdout(), format)
		}
		return cmd.Help()
	}

	for _, v := range runtimes.All() {
		rootCmd.AddCommand(newRuntimeCmd(v.Name, v.Description))
	}
	rootCmd.AddCommand(newEnvironCmd())
}

// describeDocument is the TOML root; TOML has no top-level arrays.
type describeDocument struct {
	Runtimes []probe.Description `toml:"runtime"`
}

func printDescriptions(w io.Writer, format string) error {
	descs := runtimes.GetAllDescriptions()
	switch format {
	case "json":
		return json.NewEncoder(w).Encode(descs)
	case "toml":
		return toml.NewEncoder(w).Encode(describeDocument{Runtimes: descs})
	default:
		return fmt.Errorf("unknown format %q (use json or toml)", format)
	}
}
