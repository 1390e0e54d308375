package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/lattice/internal/cli"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [source]",
	Short: "Check the page tree for consistency",
	Long: `Loads the page and reports cycles, dangling children, parent mismatches
and cells that name a plugin nobody registered.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		// Structural checks run while the page opens.
		session, err := cli.OpenPage(cfg, newLogger(cfg), domain.LifecycleHooks{})
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		defer session.Close()

		snap, err := session.Page.Snapshot(cmd.Context())
		if err != nil {
			return err
		}

		var errs []error
		ids := snap.Tree.IDs()
		for _, id := range ids {
			p := snap.PluginOf(id)
			if p == nil {
				continue
			}
			if _, ok := session.Page.Plugins().Lookup(p.Name); !ok {
				errs = append(errs, fmt.Errorf("cell %q: %w: %q", id, domain.ErrPluginNotRegistered, p.Name))
			}
		}
		if err := errors.Join(errs...); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Page is valid! ✅ (%d cells)\n", len(ids))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
