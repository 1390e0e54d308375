/*
Package plugins holds the plugin renderers a lattice page can reference by
name, and a Registry to resolve them.

The built-in plugins are:

  - "text": the plugin body, verbatim.
  - "markdown": the plugin body rendered for terminals with glamour.

Hosts register their own renderers next to these.
*/
package plugins
