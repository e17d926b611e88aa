package indexer

import (
	"strings"

	"github.com/erraggy/oasexplorer/document"
)

// Source is one document to index together with others.
type Source struct {
	Document *document.Document
	// Title overrides the display title. When empty, info.title is used.
	Title string
}

// DisplayTitle returns the title the document is grafted under.
func (s Source) DisplayTitle() string {
	if t := strings.TrimSpace(s.Title); t != "" {
		return t
	}
	if s.Document != nil {
		if t := s.Document.Title(); t != "" {
			return t
		}
	}
	return UntitledSpecification
}

// Index builds the tag tree of one document.
//
// Every operation under paths and webhooks is placed on the deepest node of
// each of its tag chains. Nothing is resolved; operations are stored as they
// appear in the document.
func Index(doc *document.Document) *TagNode {
	root := NewRoot()
	if doc == nil {
		return root
	}
	indexSection(root, doc, doc.Paths(), false)
	indexSection(root, doc, doc.Webhooks(), true)
	return root
}

// IndexAll builds one tree per document and grafts each under a top-level node
// named after the document's display title. Documents sharing a title are
// merged; sources without a document are skipped.
func IndexAll(sources []Source) *TagNode {
	root := NewRoot()
	for _, src := range sources {
		if src.Document == nil {
			continue
		}
		Merge(root.Ensure(src.DisplayTitle()), Index(src.Document))
	}
	return root
}

// Merge copies the operations and descendants of src into dst. Children with
// the same name are merged recursively and operations are deduplicated. The
// nodes created under dst take their FullPath from dst; src is not modified.
func Merge(dst, src *TagNode) {
	for _, op := range src.Operations {
		dst.AddOperation(op)
	}
	for _, child := range src.children {
		Merge(dst.Ensure(child.Name), child)
	}
}

func indexSection(root *TagNode, doc *document.Document, section *document.Object, webhook bool) {
	for path, v := range section.All() {
		item, ok := v.(*document.Object)
		if !ok {
			continue
		}
		for _, method := range document.Methods {
			op := item.Object(method)
			if op == nil {
				continue
			}
			ref := OperationRef{
				Method:    strings.ToUpper(method),
				Path:      path,
				Operation: op,
				PathItem:  item,
				Document:  doc,
				Webhook:   webhook,
			}
			for _, tag := range operationTags(op, webhook) {
				segments := ParseTag(tag)
				if len(segments) == 0 {
					segments = []string{sentinel(webhook)}
				}
				root.EnsurePath(segments).AddOperation(ref)
			}
		}
	}
}

// operationTags returns the string tags of op, or the untagged sentinel,
// prefixed with the webhooks segment for webhook operations.
func operationTags(op *document.Object, webhook bool) []string {
	tags := op.Array("tags").Strings()
	if len(tags) == 0 {
		tags = []string{UntaggedTag}
	}
	if webhook {
		prefixed := make([]string, len(tags))
		for i, t := range tags {
			prefixed[i] = WebhooksTag + PathSeparator + t
		}
		return prefixed
	}
	return tags
}

func sentinel(webhook bool) string {
	if webhook {
		return WebhooksTag
	}
	return UntaggedTag
}
