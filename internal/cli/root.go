package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mangoose/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// IDGenerator overrides document id generation (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator store.IDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the mangoose CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{})
}

// NewRootCommandWithOptions creates the root command bound to opts.
// Flags parsed by the command are written into opts.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mangoose",
		Short: "mangoose - typed documents over a document store",
		Long: `Connects to the document store named by MANGOOSE_URI and walks a
Person collection through create, query, update and delete.

With no subcommand, runs the full ten-step sequence (same as "mangoose run").

Configuration:
  MANGOOSE_URI  connection URI, e.g. sqlite://mangoose.db (required)
  MANGOOSE_DB   logical database name (default "mangoose")

Both may also be set in a .env file in the working directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				message := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				opts.Format = "text"
				return fail(newFormatter(opts, cmd), ExitCommandError, CodeUsage, message, nil)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSequence(opts, cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
