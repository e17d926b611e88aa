// Package oaserrors provides structured error types for the oasexplorer library.
//
// Import path: github.com/erraggy/oasexplorer/oaserrors
//
// These error types enable programmatic error handling via [errors.Is] and
// [errors.As], allowing callers to distinguish between a document that could not
// be read, one that could not be decoded, and one that decoded but lacks the
// minimal OpenAPI structure.
//
// # Error Types
//
//   - [SourceError]: a file, URL or reader could not be read
//   - [ParseError]: YAML/JSON decoding failures
//   - [ValidationError]: the decoded document is not shaped like an OpenAPI document
//   - [ResourceLimitError]: a configured size or count limit was exceeded
//   - [ConfigError]: invalid options or missing inputs
//   - [ReferenceError]: the error form of an unresolvable $ref marker
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrSource], [ErrParse], [ErrValidation], [ErrResourceLimit], [ErrConfig]
//   - [ErrReference]: matches any [ReferenceError]
//   - [ErrCircularReference]: matches [ReferenceError] with IsCircular=true
//   - [ErrExternalReference]: matches [ReferenceError] with IsExternal=true
//   - [ErrReferenceNotFound]: matches [ReferenceError] with IsNotFound=true
//
// # Usage Examples
//
//	res, err := loader.Load(ctx, loader.WithFilePath("api.yaml"))
//	if errors.Is(err, oaserrors.ErrParse) {
//	    // not YAML or JSON
//	}
//
// Reference errors come from resolver markers rather than from function returns:
//
//	if m, ok := resolver.AsMarker(v); ok {
//	    err := m.Err()
//	    if errors.Is(err, oaserrors.ErrCircularReference) {
//	        // render a "circular" badge
//	    }
//	}
package oaserrors
