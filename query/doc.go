// Package query derives searched and filtered views of a tag tree, looks up
// nodes and operations, and converts endpoint paths to URL slugs and back.
//
// Nothing in this package modifies its input tree: Search and Filter build new
// nodes for the parts that survive, and lookups return nil when nothing matches.
package query
