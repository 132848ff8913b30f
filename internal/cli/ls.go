package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/mangoose/internal/queryir"
)

// TitleList is the heading of ls output.
const TitleList = "People"

// NewListCommand creates the ls command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "ls",
		Short:         "List persisted people in insertion order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPeople(rootOpts, cmd, func(ctx context.Context, s *session) error {
				people, err := s.people.Find(ctx, queryir.Find{})
				if err != nil {
					return fail(s.formatter, ExitFailure, CodeStep, "list failed", err)
				}
				s.log.Debug("listed people", "count", len(people))
				return s.formatter.Report(TitleList, people)
			})
		},
	}
}
