/*
Package domain contains the core models of the lattice cell tree.

It defines the nodes of a page (cells), the interaction state shared by the
editor (mode, focus, language), the rendered view tree and the geometry used
for hit-testing. This package is kept pure and free of I/O, following the same
hexagonal split as the rest of the module: stores, plugins and hosts live behind
the interfaces in package ports.

# Key Entities

  - Node: a cell of the page, optionally hosting a plugin and child cells.
  - Tree: the id → Node mapping, with structural validation.
  - Snapshot: one consistent read of the Tree and the InteractionState.
  - View: the output of a render pass, one entry per rendered cell.
  - RenderFault: a captured failure scoped to a single cell.
*/
package domain
