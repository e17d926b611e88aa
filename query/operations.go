package query

import (
	"iter"
	"strings"

	"github.com/erraggy/oasexplorer/document"
	"github.com/erraggy/oasexplorer/indexer"
)

// Operations iterates over every operation of doc, paths first and then
// webhooks, in document order and canonical method order. Each operation is
// yielded once regardless of how many tags it has.
func Operations(doc *document.Document) iter.Seq[indexer.OperationRef] {
	return func(yield func(indexer.OperationRef) bool) {
		if doc == nil {
			return
		}
		for _, webhook := range []bool{false, true} {
			section := doc.Paths()
			if webhook {
				section = doc.Webhooks()
			}
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
					ref := indexer.OperationRef{
						Method:    strings.ToUpper(method),
						Path:      path,
						Operation: op,
						PathItem:  item,
						Document:  doc,
						Webhook:   webhook,
					}
					if !yield(ref) {
						return
					}
				}
			}
		}
	}
}
