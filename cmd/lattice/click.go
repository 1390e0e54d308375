package main

import (
	"fmt"

	"github.com/aretw0/lattice/internal/cli"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/layout"
	"github.com/spf13/cobra"
)

var clickCmd = &cobra.Command{
	Use:   "click <cell>",
	Short: "Simulate a click on a cell",
	Long: `Renders the page with a stacked layout and delivers a pointer interaction to
the given cell. Without --x/--y the click lands on the cell's own surface.
Use --at to deliver the interaction to one cell at the position of another, as
happens when a click on a nested cell reaches its ancestors.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		session, err := cli.OpenPage(cfg, newLogger(cfg), domain.LifecycleHooks{})
		if err != nil {
			return err
		}
		defer session.Close()

		ctx := cmd.Context()
		page := session.Page
		view, err := page.Render(ctx)
		if err != nil {
			return err
		}
		placed := layout.DefaultStack.Place(view)
		if err := page.Place(ctx, placed.Rects); err != nil {
			return err
		}

		nodeID := args[0]
		at, _ := cmd.Flags().GetString("at")
		if at == "" {
			at = nodeID
		}
		origin, _ := placed.OwnPoint(at)
		if cmd.Flags().Changed("x") {
			origin.X, _ = cmd.Flags().GetFloat64("x")
		}
		if cmd.Flags().Changed("y") {
			origin.Y, _ = cmd.Flags().GetFloat64("y")
		}
		source := domain.SourcePointer
		if resize, _ := cmd.Flags().GetBool("row-resize"); resize {
			source = domain.SourceRowResize
		}

		decision, err := page.Interact(ctx, domain.Interaction{NodeID: nodeID, Origin: origin, Source: source})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if decision.Accepted {
			fmt.Fprintf(out, "focused %s at (%.0f, %.0f)\n", nodeID, origin.X, origin.Y)
		} else {
			fmt.Fprintf(out, "rejected %s: %s", nodeID, decision.Reason)
			if decision.Claimant != "" {
				fmt.Fprintf(out, " (claimed by %s)", decision.Claimant)
			}
			fmt.Fprintln(out)
		}

		if show, _ := cmd.Flags().GetBool("show"); show {
			return printView(cmd, session, page.Last(), "outline", false)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clickCmd)
	clickCmd.Flags().String("at", "", "Click at the own surface of this cell instead")
	clickCmd.Flags().Float64("x", 0, "Horizontal click position")
	clickCmd.Flags().Float64("y", 0, "Vertical click position")
	clickCmd.Flags().Bool("row-resize", false, "Mark the click as the release of a row resize")
	clickCmd.Flags().Bool("show", false, "Print the outline after the click")
}
