// Package cli implements postdeskctl, the operator command line for PostDesk.
package cli

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options shared by every subcommand.
type options struct {
	verbose bool
	out     io.Writer
}

func (o *options) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// NewRootCommand builds the postdeskctl command tree writing results to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &options{out: out}

	root := &cobra.Command{
		Use:   "postdeskctl",
		Short: "Inspect PostDesk dashboards and create-post decisions",
		Long: `postdeskctl answers operator questions about the posts dashboard:
why a business cannot create posts, and what its post list holds.

Examples:
  postdeskctl gate --linked
  postdeskctl gate --linked --sync-error facebook:"token expired"
  postdeskctl posts --owner 64b7f0c2e13a4a0d9c8b4567`,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress to stderr")

	root.AddCommand(newGateCommand(opts))
	root.AddCommand(newPostsCommand(opts))
	return root
}
