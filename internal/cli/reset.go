package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/mangoose/internal/demo"
)

// TitleReset is the heading of reset output.
const TitleReset = "Collection dropped"

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop the people collection",
		Long: `Remove every person so the next run starts from an empty collection.
Other collections and databases are left alone.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPeople(rootOpts, cmd, func(ctx context.Context, s *session) error {
				n, err := s.people.Drop(ctx)
				if err != nil {
					return fail(s.formatter, ExitFailure, CodeStep, "reset failed", err)
				}
				s.log.Info("collection dropped", "deleted", n)
				return s.formatter.Report(TitleReset, demo.DeleteResult{DeletedCount: n})
			})
		},
	}
}
