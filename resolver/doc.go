// Package resolver replaces $ref pointers in OpenAPI documents with the values
// they point to.
//
// A Resolver is bound to one parsed document. Resolve walks any value taken
// from that document and returns a copy in which every local reference, at any
// depth, has been replaced by its target, itself resolved. Values without a
// $ref below them are returned as they are.
//
// # Quick Start
//
//	doc, err := document.Parse(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	r := resolver.New(doc)
//	pet := r.ResolveRef("#/components/schemas/Pet")
//	for _, m := range resolver.Markers(pet) {
//		fmt.Println("unresolved:", m)
//	}
//
// # Unresolvable References
//
// Resolution never fails. A reference that cannot be replaced becomes a
// *Marker in the resolved value:
//   - KindCircular when the reference is already being expanded further up,
//     as in a Node schema whose children are Nodes
//   - KindNotFound when the pointer does not lead to a value
//   - KindExternal when the reference does not start with "#/"
//
// Markers marshal as {"$ref": "...", "circular": true} and friends, and
// Marker.Err converts them into *oaserrors.ReferenceError values for callers
// that prefer errors.
//
// # Caching
//
// Resolved references are cached by reference string and resolved objects by
// their node id, so a fragment shared by many operations is expanded once. A
// value is cached only when it is complete on its own, which keeps a cycle cut
// in one expansion from leaking into another. The caches belong to the
// Resolver: create a new one, or call Reset, when the document changes.
// A Resolver is not safe for concurrent use; workspace.Workspace serialises
// access for servers.
package resolver
