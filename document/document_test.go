package document

import (
	"errors"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasexplorer/oaserrors"
)

const petstoreYAML = `openapi: 3.0.3
info:
  title: "  Petstore  "
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: listPets
      tags: [pets]
      responses:
        "200":
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pets'
components:
  schemas:
    Pet:
      type: object
      properties:
        id: {type: integer, format: int64}
        name: {type: string}
    Pets:
      type: array
      items:
        $ref: '#/components/schemas/Pet'
`

func TestParseYAML(t *testing.T) {
	doc, err := Parse([]byte(petstoreYAML), WithName("petstore.yaml"))
	require.NoError(t, err)

	assert.Equal(t, FormatYAML, doc.Format())
	assert.Equal(t, "petstore.yaml", doc.Name())
	assert.Equal(t, "3.0.3", doc.Version())
	assert.Equal(t, "Petstore", doc.Title())
	assert.False(t, doc.IsSwagger())
	assert.Equal(t, []string{"openapi", "info", "paths", "components"}, doc.Root().Keys())

	op := doc.Operation("GET", "/pets", false)
	require.NotNil(t, op)
	id, ok := op.String("operationId")
	assert.True(t, ok)
	assert.Equal(t, "listPets", id)
	assert.Equal(t, []string{"pets"}, op.Array("tags").Strings())
	assert.Same(t, doc, op.Document())

	pet := doc.Components().Object("schemas").Object("Pet")
	idSchema := pet.Object("properties").Object("id")
	assert.Equal(t, "integer", idSchema.Value("type"))
}

func TestParseJSON(t *testing.T) {
	src := `{"swagger":"2.0","info":{"title":"Legacy","version":"1"},"paths":{},
	"x-int": 42, "x-float": 1.5, "x-null": null, "x-bool": true}`
	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, FormatJSON, doc.Format())
	assert.True(t, doc.IsSwagger())
	assert.Equal(t, "2.0", doc.Version())

	root := doc.Root()
	assert.Equal(t, int64(42), root.Value("x-int"))
	assert.Equal(t, 1.5, root.Value("x-float"))
	assert.Nil(t, root.Value("x-null"))
	assert.True(t, root.Has("x-null"))
	assert.Equal(t, true, root.Value("x-bool"))
}

func TestParseScalarTypes(t *testing.T) {
	doc, err := Parse([]byte("a: 1\nb: 2.5\nc: true\nd: ~\ne: hello\nf: '3'\ng: 2001-12-14\n"))
	require.NoError(t, err)
	root := doc.Root()
	assert.Equal(t, int64(1), root.Value("a"))
	assert.Equal(t, 2.5, root.Value("b"))
	assert.Equal(t, true, root.Value("c"))
	assert.Nil(t, root.Value("d"))
	assert.Equal(t, "hello", root.Value("e"))
	assert.Equal(t, "3", root.Value("f"))
	assert.Equal(t, "2001-12-14", root.Value("g"))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{name: "empty", src: "  \n", msg: "document is empty"},
		{name: "top-level array", src: "[1, 2]", msg: "top-level value must be an object, got array"},
		{name: "top-level scalar", src: "just text", msg: "top-level value must be an object, got string"},
		{name: "bad json", src: `{"a": }`, msg: "invalid json"},
		{name: "trailing json", src: `{"a": 1} {"b": 2}`, msg: "invalid json"},
		{name: "bad yaml", src: "a: [1, 2\nb: c", msg: "invalid yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), WithName("x"))
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrParse)
			var pe *oaserrors.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "x", pe.Path)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestNodeIDs(t *testing.T) {
	doc, err := Parse([]byte(petstoreYAML))
	require.NoError(t, err)

	seen := map[NodeID]bool{}
	var walk func(v any)
	walk = func(v any) {
		switch n := v.(type) {
		case *Object:
			assert.NotZero(t, n.ID())
			assert.False(t, seen[n.ID()], "duplicate id %d", n.ID())
			seen[n.ID()] = true
			for _, child := range n.All() {
				walk(child)
			}
		case *Array:
			for _, item := range n.All() {
				walk(item)
			}
		}
	}
	walk(doc.Root())
	assert.Len(t, seen, doc.NodeCount())
	assert.Equal(t, NodeID(1), doc.Root().ID())
}

func TestFreezeAndHasRef(t *testing.T) {
	doc, err := Parse([]byte(petstoreYAML))
	require.NoError(t, err)

	root := doc.Root()
	assert.True(t, root.Frozen())
	assert.True(t, root.HasRef())

	schemas := doc.Components().Object("schemas")
	assert.False(t, schemas.Object("Pet").HasRef(), "Pet has no $ref below it")
	assert.True(t, schemas.Object("Pets").HasRef())
	assert.True(t, schemas.Object("Pets").Object("items").HasRef())

	assert.Panics(t, func() { root.Set("x", 1) })
	assert.Panics(t, func() { doc.Root().Object("paths").Object("/pets").Object("get").Array("tags").Append("x") })

	fresh := NewObject()
	assert.True(t, fresh.HasRef(), "unfrozen objects report true")
	fresh.Set("a", "b")
	fresh.Freeze()
	assert.False(t, fresh.HasRef())
}

func TestDerive(t *testing.T) {
	doc, err := Parse([]byte(petstoreYAML))
	require.NoError(t, err)
	pets := doc.Components().Object("schemas").Object("Pets")

	d := pets.Derive()
	assert.Equal(t, pets.ID(), d.ID())
	assert.Same(t, doc, d.Document())
	assert.Zero(t, d.Len())
	assert.False(t, d.Frozen())
	d.Set("type", "array")
	assert.Equal(t, "array", d.Value("type"))
}

func TestYAMLAnchorsAndMerge(t *testing.T) {
	src := `
base: &base
  type: object
  description: base
ext:
  <<: *base
  description: extended
copy: *base
`
	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	root := doc.Root()

	ext := root.Object("ext")
	assert.Equal(t, "extended", ext.Value("description"))
	assert.Equal(t, "object", ext.Value("type"))
	assert.Equal(t, []string{"description", "type"}, ext.Keys())

	assert.Same(t, root.Object("base"), root.Object("copy"))
}

func TestObjectOrderedMarshal(t *testing.T) {
	doc, err := Parse([]byte("z: 1\na:\n  y: [true, null, 'x']\n  b: 2.5\n"))
	require.NoError(t, err)

	out, err := json.Marshal(doc.Root())
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":{"y":[true,null,"x"],"b":2.5}}`, string(out))

	y, err := yaml.Marshal(doc.Root())
	require.NoError(t, err)
	text := string(y)
	assert.True(t, strings.HasPrefix(text, "z: 1\na:\n"))
	assert.Less(t, strings.Index(text, "y:"), strings.Index(text, "b: 2.5"))

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(y, &back))
	assert.Equal(t, 1, back["z"])
}

func TestPlain(t *testing.T) {
	doc, err := Parse([]byte(`{"a":[1,{"b":"c"}],"d":null}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": []any{int64(1), map[string]any{"b": "c"}},
		"d": nil,
	}, Plain(doc.Root()))
}

func TestNilSafeAccessors(t *testing.T) {
	var o *Object
	assert.Zero(t, o.Len())
	assert.Nil(t, o.Object("x"))
	assert.Nil(t, o.Array("x"))
	assert.Equal(t, "def", o.StringOr("x", "def"))
	assert.False(t, o.HasRef())
	for range o.All() {
		t.Fatal("nil object should not iterate")
	}

	doc, err := Parse([]byte("openapi: 3.1.0\n"))
	require.NoError(t, err)
	assert.Nil(t, doc.Operation("get", "/missing", false))
	assert.Nil(t, doc.PathItem("hook", true))
	assert.Equal(t, "", doc.Title())
}

func TestFingerprint(t *testing.T) {
	a, err := Parse([]byte(petstoreYAML))
	require.NoError(t, err)
	b, err := Parse([]byte(petstoreYAML))
	require.NoError(t, err)
	c, err := Parse([]byte(strings.Replace(petstoreYAML, "listPets", "getPets", 1)))
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestIsMethod(t *testing.T) {
	for _, m := range Methods {
		assert.True(t, IsMethod(m))
	}
	assert.False(t, IsMethod("parameters"))
	assert.False(t, IsMethod("GET"))
}
