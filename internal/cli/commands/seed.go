package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create demo fields, a demo view and generated records",
		Long: `Seed the state database with a contact schema, a "contacts" view and
generated records, so the grid has something to browse out of the box.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, _, cleanup, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := s.Seed(cmd.Context(), count); err != nil {
				return fmt.Errorf("failed to seed demo data: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d records into view 'contacts'\n", count)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 500, "Number of demo records to create")
	return cmd
}
