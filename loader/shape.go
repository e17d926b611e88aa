package loader

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/multierr"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/erraggy/oasexplorer/document"
	"github.com/erraggy/oasexplorer/oaserrors"
)

// shapeSchema is the least a document must look like for the explorer to index
// it. Everything else is tolerated.
const shapeSchema = `{
  "type": "object",
  "properties": {
    "openapi": {"type": "string"},
    "swagger": {"type": "string"},
    "paths": {"type": "object"},
    "webhooks": {"type": "object"}
  },
  "allOf": [
    {"anyOf": [{"required": ["openapi"]}, {"required": ["swagger"]}]},
    {"anyOf": [{"required": ["paths"]}, {"required": ["webhooks"]}]}
  ]
}`

var defaultPrinter = message.NewPrinter(language.English)

var shapeValidator = sync.OnceValues(func() (*jsonschema.Schema, error) {
	schema, err := jsonschema.UnmarshalJSON(strings.NewReader(shapeSchema))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("shape.json", schema); err != nil {
		return nil, err
	}
	return c.Compile("shape.json")
})

// ValidateShape checks that doc has a version marker and a paths or webhooks
// object. Each violation is a *oaserrors.ValidationError; several are combined.
func ValidateShape(doc *document.Document) error {
	schema, err := shapeValidator()
	if err != nil {
		return fmt.Errorf("compiling shape schema: %w", err)
	}

	err = schema.Validate(shapeInstance(doc.Root()))
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &oaserrors.ValidationError{Path: "/", Message: "document shape is invalid", Cause: err}
	}
	return multierr.Combine(rootCauses(verr)...)
}

// shapeKeys are the only top-level fields the shape schema looks at.
var shapeKeys = []string{"openapi", "swagger", "paths", "webhooks"}

// shapeInstance builds the schema instance from the shape keys of root. Values
// other than strings are replaced by an empty value of the same JSON type, so
// the rest of the document is never copied.
func shapeInstance(root *document.Object) map[string]any {
	inst := make(map[string]any, len(shapeKeys))
	for _, key := range shapeKeys {
		v, ok := root.Get(key)
		if !ok {
			continue
		}
		switch v := v.(type) {
		case *document.Object:
			inst[key] = map[string]any{}
		case *document.Array:
			inst[key] = []any{}
		case int64, float64:
			inst[key] = 0
		default:
			inst[key] = v
		}
	}
	return inst
}

// rootCauses flattens a validation error tree to its leaves.
func rootCauses(err *jsonschema.ValidationError) []error {
	if len(err.Causes) == 0 {
		return []error{&oaserrors.ValidationError{
			Path:    "/" + strings.Join(err.InstanceLocation, "/"),
			Message: err.ErrorKind.LocalizedString(defaultPrinter),
		}}
	}
	var errs []error
	for _, cause := range err.Causes {
		errs = append(errs, rootCauses(cause)...)
	}
	return errs
}
