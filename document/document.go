package document

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/erraggy/oasexplorer/internal/httputil"
	"github.com/erraggy/oasexplorer/oaserrors"
)

// Format is the serialization format of a source document.
type Format string

const (
	// FormatUnknown means the format could not be determined.
	FormatUnknown Format = "unknown"
	// FormatJSON is a JSON source.
	FormatJSON Format = "json"
	// FormatYAML is a YAML source.
	FormatYAML Format = "yaml"
)

// Methods lists the HTTP methods an OpenAPI path item can hold, in the order
// operations are presented.
var Methods = httputil.Methods

// IsMethod reports whether key names an HTTP method field of a path item.
func IsMethod(key string) bool {
	return httputil.IsMethod(key)
}

// Document is a decoded OpenAPI or Swagger document.
//
// The value tree is frozen after decoding; callers never modify it. Resolved
// views are produced by the resolver package instead.
type Document struct {
	name        string
	format      Format
	source      []byte
	root        *Object
	nodes       int
	fingerprint uint64
}

// Option configures Parse.
type Option func(*parseConfig)

type parseConfig struct {
	name   string
	format Format
	logger Logger
}

// WithName sets the source name reported in errors and logs.
func WithName(name string) Option {
	return func(c *parseConfig) { c.name = name }
}

// WithFormat skips content sniffing and decodes data as f.
func WithFormat(f Format) Option {
	return func(c *parseConfig) { c.format = f }
}

// WithLogger sets the logger used while decoding.
func WithLogger(l Logger) Option {
	return func(c *parseConfig) { c.logger = l }
}

// Parse decodes a JSON or YAML document. The top-level value must be an object.
func Parse(data []byte, opts ...Option) (*Document, error) {
	cfg := parseConfig{format: FormatUnknown}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := LoggerOrNop(cfg.logger)

	format := cfg.format
	if format == FormatUnknown {
		format = detectFormat(data)
	}
	if format == FormatUnknown {
		return nil, &oaserrors.ParseError{Path: cfg.name, Message: "document is empty"}
	}

	doc := &Document{
		name:        cfg.name,
		format:      format,
		source:      data,
		fingerprint: xxhash.Sum64(data),
	}
	d := &decoder{doc: doc}

	var (
		v   any
		err error
	)
	if format == FormatJSON {
		v, err = d.decodeJSON(data)
	} else {
		v, err = d.decodeYAML(data)
	}
	if err != nil {
		var pe *oaserrors.ParseError
		if errors.As(err, &pe) {
			pe.Path = cfg.name
			return nil, pe
		}
		return nil, &oaserrors.ParseError{Path: cfg.name, Message: "invalid " + string(format), Cause: err}
	}

	root, ok := v.(*Object)
	if !ok {
		return nil, &oaserrors.ParseError{Path: cfg.name, Message: fmt.Sprintf("top-level value must be an object, got %s", TypeName(v))}
	}
	doc.root = root.Freeze()
	doc.nodes = int(d.next)

	log.Debug("decoded document", "name", cfg.name, "format", string(format), "objects", doc.nodes, "bytes", len(data))
	return doc, nil
}

// New wraps an in-memory object as a document. The object is frozen.
// Objects inside root keep whatever identity they already have.
func New(name string, root *Object) *Document {
	if root == nil {
		root = NewObject()
	}
	return &Document{name: name, format: FormatUnknown, root: root.Freeze()}
}

// Name returns the source name given at parse time.
func (d *Document) Name() string { return d.name }

// Format returns the format the document was decoded from.
func (d *Document) Format() Format { return d.format }

// Source returns the raw bytes the document was decoded from.
func (d *Document) Source() []byte { return d.source }

// Root returns the top-level object.
func (d *Document) Root() *Object { return d.root }

// NodeCount returns the number of objects decoded from the source.
func (d *Document) NodeCount() int { return d.nodes }

// Fingerprint returns a content hash of the source bytes. Two documents with
// the same fingerprint were decoded from identical input.
func (d *Document) Fingerprint() uint64 { return d.fingerprint }

// Version returns the value of "openapi", or of "swagger" for 2.0 documents.
func (d *Document) Version() string {
	if v, ok := d.root.String("openapi"); ok {
		return v
	}
	if v, ok := d.root.String("swagger"); ok {
		return v
	}
	return ""
}

// IsSwagger reports whether the document is a Swagger 2.0 document.
func (d *Document) IsSwagger() bool {
	_, ok := d.root.String("swagger")
	return ok && !d.root.Has("openapi")
}

// Info returns the info object.
func (d *Document) Info() *Object { return d.root.Object("info") }

// Title returns info.title with surrounding whitespace removed.
func (d *Document) Title() string {
	return strings.TrimSpace(d.Info().StringOr("title", ""))
}

// Paths returns the paths object.
func (d *Document) Paths() *Object { return d.root.Object("paths") }

// Webhooks returns the webhooks object.
func (d *Document) Webhooks() *Object { return d.root.Object("webhooks") }

// Components returns the components object.
func (d *Document) Components() *Object { return d.root.Object("components") }

// Security returns the top-level security value, which may be absent.
func (d *Document) Security() (any, bool) { return d.root.Get("security") }

// PathItem returns the path item for path, looking under webhooks when webhook is set.
func (d *Document) PathItem(path string, webhook bool) *Object {
	if webhook {
		return d.Webhooks().Object(path)
	}
	return d.Paths().Object(path)
}

// Operation returns the operation stored under method (case-insensitive) for path.
func (d *Document) Operation(method, path string, webhook bool) *Object {
	return d.PathItem(path, webhook).Object(strings.ToLower(method))
}

// TypeName returns a short name for the dynamic type of a document value.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int64, float64:
		return "number"
	case string:
		return "string"
	case *Object:
		return "object"
	case *Array:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}
