package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewFieldsCommand creates the fields command.
func NewFieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List registered field definitions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, _, cleanup, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			defs, err := s.ListFields(cmd.Context())
			if err != nil {
				return err
			}
			if len(defs) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No fields; run 'gridline seed' to create demo data")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Key", "Label", "Type", "Sortable", "Editable", "Identifier"})
			for _, d := range defs {
				t.AppendRow(table.Row{d.Key, d.Label, d.Type, d.Sortable, d.Editable, d.Identifier})
			}
			t.Render()
			return nil
		},
	}
}
