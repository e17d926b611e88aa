// Package indexer builds the tag tree of OpenAPI documents.
//
// Every operation under paths and webhooks is placed in a tree derived from its
// tags. A tag may describe a hierarchy with "|" separators, so "Pet Store | Pets"
// puts the operation on the Pets node below Pet Store. Operations without tags
// land on Untagged, and webhook operations are placed below a Webhooks node.
//
// # Quick Start
//
//	root := indexer.Index(doc)
//	for _, node := range root.Children() {
//		fmt.Println(node.FullPath, node.OperationCount())
//	}
//
// Several documents can be browsed as one tree. IndexAll grafts each document
// under a node named after its title and merges documents that share a title:
//
//	root := indexer.IndexAll([]indexer.Source{
//		{Document: petstore},
//		{Document: users, Title: "Users"},
//	})
//
// # Deduplication
//
// A node holds an operation once per method, path and effective operation id
// (the operationId, or "METHOD path" when it has none), so indexing the same
// document twice into a tree adds nothing. The indexer resolves nothing: an
// operation's $ref values are kept as they are in the document.
package indexer
