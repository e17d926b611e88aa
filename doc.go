// Package oasexplorer provides the indexing and reference-resolution engine behind an
// OpenAPI (Swagger) specification explorer.
//
// oasexplorer loads a specification document, builds a navigable tree of operations
// grouped by their tag hierarchy, resolves internal $ref pointers on demand and answers
// search, filter and security questions over that tree.
//
// # Overview
//
// The library consists of these packages:
//
//   - document: the in-memory document model (ordered objects with stable node ids)
//   - loader: load documents from files, URLs, readers or bytes and check their minimal shape
//   - resolver: resolve $ref pointers with cycle detection and memoization
//   - indexer: build the tag tree from the tags of every operation and webhook
//   - security: compute effective security requirements across operation, path and document
//   - query: search, filter, look up nodes and convert endpoint paths to slugs
//   - workspace: a session that owns documents, resolvers, the tag tree and every cache
//
// # Quick Start
//
// Load a document and build a workspace:
//
//	import (
//		"github.com/erraggy/oasexplorer/indexer"
//		"github.com/erraggy/oasexplorer/loader"
//		"github.com/erraggy/oasexplorer/workspace"
//	)
//
//	res, err := loader.Load(ctx, loader.WithFilePath("openapi.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	ws := workspace.New()
//	ws.Load(indexer.Source{Document: res.Document})
//
// Walk the tag tree:
//
//	query.Walk(ws.Tree(), func(n *indexer.TagNode, depth int) bool {
//		fmt.Printf("%s%s (%d)\n", strings.Repeat("  ", depth), n.Name, len(n.Operations))
//		return true
//	})
//
// Resolve a schema, including circular and dangling references:
//
//	schema := ws.ResolveRef(res.Document, "#/components/schemas/Pet")
//	if m, ok := resolver.AsMarker(schema); ok {
//		fmt.Println("unresolvable:", m.Err())
//	}
//
// # Failure Semantics
//
// The resolver, indexer, security and query packages never return errors for
// problems inside a specification. Dangling, external and circular references
// resolve to sentinel markers; lookups that miss return nil. Only the loader
// reports errors, for documents that cannot be read, decoded or do not have the
// minimal OpenAPI shape.
package oasexplorer
