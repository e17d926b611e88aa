package indexer

import "strings"

const (
	// RootName is the name of every tree root.
	RootName = "root"
	// UntaggedTag holds operations without usable tags.
	UntaggedTag = "Untagged"
	// WebhooksTag is the top-level segment for webhook operations.
	WebhooksTag = "Webhooks"
	// UntitledSpecification is the display title of documents without info.title.
	UntitledSpecification = "Untitled Specification"

	// TagSeparator separates hierarchy levels inside a tag string.
	TagSeparator = "|"
	// PathSeparator joins segments in a node's FullPath.
	PathSeparator = " | "
)

// ParseTag splits a hierarchical tag such as "Pet Store | Pets" into its
// segments. Whitespace around separators is dropped, interior whitespace is
// kept, and empty segments are removed.
func ParseTag(tag string) []string {
	parts := strings.Split(tag, TagSeparator)
	segments := parts[:0]
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// JoinPath joins segments into a FullPath.
func JoinPath(segments ...string) string {
	return strings.Join(segments, PathSeparator)
}
