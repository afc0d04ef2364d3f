package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jandubois/injector-probe/internal/state"
)

func newEnvironCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "environ",
		Short: "Show the size of the inherited environment and the variables an injector touches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printEnviron(cmd.OutOrStdout(), state.OSEnv{})
		},
	}
}

func printEnviron(w io.Writer, env state.Env) error {
	environ := env.Environ()
	summary := state.Summarize(environ)
	if _, err := fmt.Fprintf(w, "%d variables, %s\n", summary.Vars, summary.HumanSize()); err != nil {
		return err
	}
	for _, name := range state.InjectionNames(environ) {
		value, _ := env.LookupEnv(name)
		if _, err := fmt.Fprintf(w, "%s=%s\n", name, value); err != nil {
			return err
		}
	}
	return nil
}
