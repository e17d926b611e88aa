// Package document provides the in-memory model of an OpenAPI or Swagger document.
//
// A document is decoded from JSON (via goccy/go-json) or YAML (via go.yaml.in/yaml/v4)
// into a tree of ordered [Object] and [Array] values holding nil, bool, int64,
// float64 or string leaves. Key order from the source is preserved for display
// and re-serialization.
//
// # Identity
//
// Every object decoded from a source receives a [NodeID] that is unique within
// its [Document]. The resolver uses these ids to memoize resolved views of the
// same object without holding references into the tree itself.
//
// # Immutability
//
// Decoded trees are frozen. A frozen object also knows whether a $ref appears
// anywhere below it, so consumers can skip ref-free subtrees entirely:
//
//	doc, err := document.Parse(data, document.WithName("api.yaml"))
//	if err != nil {
//		return err
//	}
//	op := doc.Operation("GET", "/pets", false)
//	if !op.HasRef() {
//		// nothing to resolve
//	}
package document
