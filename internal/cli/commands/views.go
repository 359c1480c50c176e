package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewViewsCommand creates the views command.
func NewViewsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List persisted views",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, _, cleanup, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			views, err := s.ListViews(cmd.Context())
			if err != nil {
				return err
			}
			if len(views) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No views; run 'gridline seed' to create demo data")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Name", "ID", "Columns", "Sort", "Auto-size", "Density"})
			for _, v := range views {
				sort := v.SortField
				if sort != "" && v.SortDesc {
					sort += " desc"
				}
				t.AppendRow(table.Row{v.Name, v.ID, len(v.Columns), sort, v.AutoSize, v.Density})
			}
			t.Render()
			return nil
		},
	}
}
