package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gridline-labs/gridline/internal/grid"
	"github.com/gridline-labs/gridline/internal/grid/layout"
)

// layoutSampleRows bounds how many records feed the content analyzer
// for the static inspection command.
const layoutSampleRows = 200

// NewLayoutCommand creates the layout command.
func NewLayoutCommand() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "layout [view]",
		Short: "Print the computed column layout for a view",
		Long: `Compute and print the column layout a view would get at a terminal
width: per-column width, alignment, demotion tier, priority class and
dominant value. Useful for tuning the layout heuristics.`,
		Example: `  # Layout at the current terminal width
  gridline layout contacts

  # Layout at an explicit width
  gridline layout contacts --width 72`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, args, width)
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "Terminal width to lay out for (0 = probe)")
	return cmd
}

func runLayout(cmd *cobra.Command, args []string, width int) error {
	s, cfg, cleanup, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := cmd.Context()

	viewName := cfg.View
	if len(args) > 0 {
		viewName = args[0]
	}
	view, err := s.GetViewByName(ctx, viewName)
	if err != nil {
		return fmt.Errorf("view %q: %w", viewName, err)
	}
	fields, err := s.LoadRegistry(ctx)
	if err != nil {
		return err
	}

	if width <= 0 {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		} else {
			width = 80
		}
	}

	page, err := s.FetchPage(ctx, grid.Query{ViewID: view.ID, Limit: layoutSampleRows})
	if err != nil {
		return fmt.Errorf("failed to sample rows: %w", err)
	}

	profile := layout.BuildProfile(width, 0, cfg.Layout)
	var override *grid.LayoutOverride
	if o, err := s.GetOverride(ctx, view.ID, string(profile.Tier)); err == nil {
		override = o
	}

	lay := layout.Compute(layout.Input{
		TotalWidth:    width,
		Rows:          page.Rows,
		Columns:       view.Columns,
		Fields:        fields,
		Override:      override,
		AutoSize:      view.AutoSize,
		DemoteColumns: true,
		Density:       view.Density,
		Tuning:        cfg.Layout,
	})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "View %s at width %d (%s tier, %d cells effective, %d sample rows)\n",
		view.Name, width, lay.Profile.Tier, lay.Profile.EffectiveWidth, len(page.Rows))
	if lay.Fallback {
		fmt.Fprintln(out, "Static fallback layout (auto-sizing off or no rows)")
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Field", "Label", "Width", "Align", "Tier", "Priority", "Dominant"})
	total := 0
	for _, c := range lay.Columns {
		t.AppendRow(table.Row{c.FieldKey, c.Label, c.Width, c.Align, c.Tier, c.Priority, c.DominantValue})
		if c.Tier != layout.DemotionHidden {
			total += c.Width
		}
	}
	t.AppendFooter(table.Row{"", "total", total, "", "", "", ""})
	t.Render()

	if n := lay.Demoted + lay.Hidden; n > 0 {
		fmt.Fprintf(out, "%d columns auto-compacted\n", n)
	}
	return nil
}
