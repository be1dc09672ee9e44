// Package cli is the cobra root command. It turns argv and the environment
// into a config.Config and hands it to the run function.
package cli

import (
	"context"
	"fmt"

	"github.com/atomicstack/commit-browser/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RunFunc is called with the loaded configuration.
type RunFunc func(ctx context.Context, cfg config.Config) error

// NewRootCommand builds the root command. environ supplies flag defaults.
func NewRootCommand(environ []string, run RunFunc) *cobra.Command {
	var binder *config.Binder
	cmd := &cobra.Command{
		Use:   "commit-browser [ref]",
		Short: "Browse commit history in a fuzzy finder",
		Long: "commit-browser lists the history of ref (HEAD by default) in a fuzzy finder.\n" +
			"The highlighted commit is previewed; enter opens a menu of actions.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := binder.Load(args, rawArgs(cmd))
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	binder = config.Bind(cmd.Flags(), environ)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", config.ErrInvalid, err)
	})
	return cmd
}

// rawArgs reconstructs the argument list for the startup trace.
func rawArgs(cmd *cobra.Command) []string {
	var args []string
	cmd.Flags().Visit(func(f *pflag.Flag) {
		args = append(args, "--"+f.Name+"="+f.Value.String())
	})
	return append(args, cmd.Flags().Args()...)
}
