/*
Package lattice renders and manages interaction for a recursively nested tree
of content cells inside a page-building editor.

Each cell may hold child cells and optionally a content plugin. A render pass
walks the tree from a root and produces a View per cell: grid and state
classes, the insert affordance (gated by the plugin's child constraints),
drag and drop handles, and the plugin's content. Every cell renders inside its
own fault boundary, so a plugin that panics or fails replaces only its subtree
with a fallback view while its siblings and ancestors keep rendering.

# Concept

The page tree and the interaction state (mode, focused cell, language) are
owned by a Store. The engine reads one consistent Snapshot per pass and only
issues commands (SetFocus, SetEditMode) through the Focus Resolver. Hosts
report where cells landed on screen with Place; pointer interactions are then
resolved against those rectangles so that a click on a nested cell focuses
the nested cell and not its ancestors.

# Usage

	page, err := lattice.New("./my-page.yaml")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	view, err := page.Render(ctx)
	if err != nil {
		log.Fatal(err)
	}

	// Tell the engine where the host drew each cell.
	rects := layout.DefaultStack.Place(view).Rects
	if err := page.Place(ctx, rects); err != nil {
		log.Fatal(err)
	}

	decision, err := page.Interact(ctx, domain.Interaction{
		NodeID: "intro",
		Origin: domain.Point{X: 20, Y: 60},
	})

A directory path is opened as a Loam repository with one Markdown document
per cell; cell metadata lives in the frontmatter and the body becomes the
plugin body.
*/
package lattice
