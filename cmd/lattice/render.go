package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/lattice/internal/cli"
	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/aretw0/lattice/internal/presentation/outline"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [source]",
	Short: "Render the page once and print the result",
	Long: `Runs one render pass and prints the view as an outline (default), as JSON
or as a Mermaid flowchart.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		content, _ := cmd.Flags().GetBool("content")

		session, err := cli.OpenPage(cfg, newLogger(cfg), domain.LifecycleHooks{})
		if err != nil {
			return err
		}
		defer session.Close()

		ctx := cmd.Context()
		view, err := session.Page.Render(ctx)
		if err != nil {
			return err
		}
		return printView(cmd, session, view, format, content)
	},
}

func printView(cmd *cobra.Command, session *cli.Session, view *domain.View, format string, content bool) error {
	out := cmd.OutOrStdout()
	switch format {
	case "outline":
		width := 0
		if f, ok := out.(*os.File); ok && outline.IsTerminal(f) {
			width = outline.Width(f)
		}
		return outline.NewPrinter(out, outline.Options{Width: width, Content: content}).Print(view)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case "mermaid":
		snap, err := session.Page.Snapshot(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprint(out, graph.GenerateMermaid(view, &graph.GraphOverlay{FocusedNode: snap.State.FocusedNodeID}))
		return nil
	default:
		return fmt.Errorf("unknown format %q (outline, json, mermaid)", format)
	}
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("format", "f", "outline", "Output format: outline, json or mermaid")
	renderCmd.Flags().Bool("content", false, "Include plugin content in the outline")
}
