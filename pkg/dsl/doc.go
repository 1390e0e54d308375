/*
Package dsl provides a fluent builder for constructing lattice page trees in Go.

It is an alternative to page files for generated pages, unit tests and
embedded scenarios. Parents are derived from the children lists.

Example usage:

	b := dsl.New()

	b.Add("page").
		Plugin("markdown", "# Welcome").
		Children("intro", "gallery")

	b.Add("intro").
		Plugin("text", "Hello").
		Size(6).
		Inline(domain.InlineLeft)

	b.Add("gallery").
		Plugin("text", "").
		MaxChildren(3)

	// The builder is a ports.TreeLoader.
	page, err := lattice.New("home", lattice.WithLoader(b))
*/
package dsl
