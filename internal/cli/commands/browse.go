package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gridline-labs/gridline/internal/grid"
	"github.com/gridline-labs/gridline/internal/grid/layout"
	"github.com/gridline-labs/gridline/internal/grid/render"
)

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [view]",
		Short: "Open the interactive grid for a view",
		Long: `Open the interactive grid. Columns size themselves from the loaded
data; < and > resize the focused column and persist the correction for
the current display tier.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, args)
		},
	}
}

func runBrowse(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("view %q: %w (run 'gridline seed' to create demo data)", viewName, err)
	}
	if cfg.Density != "" {
		view.Density = grid.Density(cfg.Density)
	}

	fields, err := s.LoadRegistry(ctx)
	if err != nil {
		return err
	}
	if fields.Len() == 0 {
		return fmt.Errorf("no fields registered; run 'gridline seed' first")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.Verbose {
		f, err := os.OpenFile("gridline.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			defer func() { _ = f.Close() }()
			logger = slog.New(slog.NewTextHandler(f, nil))
		}
	}

	m := render.New(ctx, render.Deps{
		Source: s,
		Views:  s,
		Cells:  s,
		Fields: fields,
		Logger: logger,
	}, *view, cfg.Layout, cfg.Grid)

	// Corrections are stored per display tier; load the one for the
	// terminal we are about to fill.
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		profile := layout.BuildProfile(width, 0, cfg.Layout)
		if o, err := s.GetOverride(ctx, view.ID, string(profile.Tier)); err == nil && o != nil {
			m.SetOverride(o)
		}
	}

	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("failed to run grid: %w", err)
	}
	return nil
}
