package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridline-labs/gridline/internal/cli/config"
	"github.com/gridline-labs/gridline/internal/store"
)

// configKey stores the loaded config on the command context.
type configKey struct{}

// WithConfig attaches a loaded config to a context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ConfigFrom retrieves the loaded config from a command's context.
func ConfigFrom(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(configKey{}).(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}

// openStore opens the state database and ensures the schema exists.
// The returned cleanup closes it.
func openStore(cmd *cobra.Command) (*store.Store, *config.Config, func(), error) {
	cfg, err := ConfigFrom(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	s := store.New()
	if err := s.Open(cfg.StatePath); err != nil {
		return nil, nil, nil, err
	}
	if err := s.InitSchema(); err != nil {
		_ = s.Close()
		return nil, nil, nil, err
	}
	return s, cfg, func() { _ = s.Close() }, nil
}
