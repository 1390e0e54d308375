/*
Package ports defines the driven ports (interfaces) of the lattice renderer.

These interfaces decouple the rendering core from the store that owns the cell
tree, from the plugins that draw cell content and from the host that performs
drag/drop and scrolling.

# Key Interfaces

  - Store: consistent snapshots of the tree plus the focus and mode commands.
  - TreeLoader: loads a tree from a page source (files, Loam repositories).
  - PluginRenderer: renders the content of one cell.
  - DragDrop: produces drag and drop handles for a cell.
  - Scroller: brings a rendered cell into view.
*/
package ports
