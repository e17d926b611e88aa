package indexer

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasexplorer/document"
)

func parse(t *testing.T, src string) *document.Document {
	t.Helper()
	doc, err := document.Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag  string
		want []string
	}{
		{"Pets", []string{"Pets"}},
		{"Pet Store | Pets", []string{"Pet Store", "Pets"}},
		{"Pet Store|Pets", []string{"Pet Store", "Pets"}},
		{"  Pet   Store  |   Pets  ", []string{"Pet   Store", "Pets"}},
		{"a || b", []string{"a", "b"}},
		{"| a |", []string{"a"}},
		{"", []string{}},
		{" | ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTag(tt.tag))
		})
	}
}

func TestIndexScenario(t *testing.T) {
	doc := parse(t, `{"openapi":"3.0.0","paths":{"/pets":{"get":{"tags":["Pet Store | Pets"],"operationId":"listPets","responses":{"200":{"description":"ok"}}}}}}`)
	root := Index(doc)

	assert.Equal(t, RootName, root.Name)
	assert.Equal(t, "", root.FullPath)
	assert.Empty(t, root.Operations)
	require.Len(t, root.Children(), 1)

	store := root.Child("Pet Store")
	require.NotNil(t, store)
	assert.Equal(t, "Pet Store", store.FullPath)
	assert.Empty(t, store.Operations, "operations never land on ancestors")

	pets := store.Child("Pets")
	require.NotNil(t, pets)
	assert.Equal(t, "Pet Store | Pets", pets.FullPath)
	require.Len(t, pets.Operations, 1)
	op := pets.Operations[0]
	assert.Equal(t, "GET", op.Method)
	assert.Equal(t, "/pets", op.Path)
	assert.Equal(t, "listPets", op.OperationID())
	assert.Same(t, doc.Operation("get", "/pets", false), op.Operation)
	assert.Same(t, doc.PathItem("/pets", false), op.PathItem)
	assert.Same(t, doc, op.Document)
}

const multiTagDoc = `
openapi: 3.1.0
paths:
  /pets:
    get:
      tags: [pets, "store | inventory", "pets"]
      operationId: listPets
    post:
      tags: [pets]
    put:
      tags: []
    delete: {}
    parameters: []
  /pets/{id}:
    trace:
      tags: ["  |  "]
    get:
      tags: [pets, 42]
      summary: Get one
    head:
      tags: [" pets "]
  /broken: 7
webhooks:
  newPet:
    post:
      tags: [events]
      operationId: onNewPet
  ping:
    post: {}
`

func TestIndexPlacement(t *testing.T) {
	doc := parse(t, multiTagDoc)
	root := Index(doc)

	names := func(n *TagNode) []string {
		var out []string
		for _, c := range n.Children() {
			out = append(out, c.Name)
		}
		return out
	}
	assert.Equal(t, []string{"pets", "store", "Untagged", "Webhooks"}, names(root))
	assert.Equal(t, []string{"inventory"}, names(root.Child("store")))
	assert.Equal(t, []string{"events", "Untagged"}, names(root.Child("Webhooks")))

	type pair struct{ method, path string }
	collect := func(n *TagNode) []pair {
		var out []pair
		for _, op := range n.Operations {
			out = append(out, pair{op.Method, op.Path})
		}
		return out
	}
	// method order follows get, post, put, delete, patch, options, head, trace
	assert.Equal(t, []pair{{"GET", "/pets"}, {"POST", "/pets"}, {"GET", "/pets/{id}"}, {"HEAD", "/pets/{id}"}}, collect(root.Child("pets")))
	assert.Equal(t, []pair{{"GET", "/pets"}}, collect(root.Child("store").Child("inventory")))
	assert.Equal(t, []pair{{"PUT", "/pets"}, {"DELETE", "/pets"}, {"TRACE", "/pets/{id}"}}, collect(root.Child("Untagged")))

	events := root.Child("Webhooks").Child("events")
	require.Len(t, events.Operations, 1)
	assert.True(t, events.Operations[0].Webhook)
	assert.Equal(t, "Webhooks | events", events.FullPath)
	assert.Equal(t, "Webhooks | Untagged", root.Child("Webhooks").Child("Untagged").FullPath)

	assert.Equal(t, 10, root.OperationCount())
}

func TestIndexNoDuplicateAttachment(t *testing.T) {
	doc := parse(t, multiTagDoc)
	root := Index(doc)

	var visit func(n *TagNode)
	visit = func(n *TagNode) {
		seen := map[OperationKey]bool{}
		for _, op := range n.Operations {
			assert.False(t, seen[op.Key()], "duplicate %v under %q", op.Key(), n.FullPath)
			seen[op.Key()] = true
		}
		for _, c := range n.Children() {
			visit(c)
		}
	}
	visit(root)

	// listPets has three tags but "pets" twice, so two distinct chains
	count := 0
	var find func(n *TagNode)
	find = func(n *TagNode) {
		for _, op := range n.Operations {
			if op.OperationID() == "listPets" {
				count++
			}
		}
		for _, c := range n.Children() {
			find(c)
		}
	}
	find(root)
	assert.Equal(t, 2, count)
}

func TestIndexIdempotent(t *testing.T) {
	doc := parse(t, multiTagDoc)
	a, err := json.Marshal(Index(doc))
	require.NoError(t, err)
	b, err := json.Marshal(Index(doc))
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))

	// re-merging the same tree into itself adds nothing
	root := Index(doc)
	before := root.OperationCount()
	Merge(root, Index(doc))
	assert.Equal(t, before, root.OperationCount())
}

func TestIndexEmpty(t *testing.T) {
	root := Index(parse(t, "openapi: 3.0.0\n"))
	assert.Empty(t, root.Children())
	assert.Zero(t, root.OperationCount())
	assert.True(t, root.IsRoot())

	assert.True(t, Index(nil).IsRoot())
}

func TestAddOperationDedup(t *testing.T) {
	n := NewNode("pets", "pets")
	op := document.NewObject()
	op.Set("operationId", "listPets")
	op.Freeze()

	assert.True(t, n.AddOperation(OperationRef{Method: "GET", Path: "/pets", Operation: op}))
	assert.False(t, n.AddOperation(OperationRef{Method: "GET", Path: "/pets", Operation: op}))
	assert.True(t, n.AddOperation(OperationRef{Method: "POST", Path: "/pets", Operation: op}))
	assert.True(t, n.AddOperation(OperationRef{Method: "GET", Path: "/pets"}))
	assert.False(t, n.AddOperation(OperationRef{Method: "GET", Path: "/pets"}))
	assert.Len(t, n.Operations, 3)

	assert.Equal(t, "GET /pets", OperationRef{Method: "GET", Path: "/pets"}.EffectiveID())
}

func TestIndexAll(t *testing.T) {
	petsV1 := parse(t, `
openapi: 3.0.0
info: {title: Pets}
paths:
  /pets:
    get: {tags: [pets], operationId: listPets}
`)
	petsV2 := parse(t, `
openapi: 3.0.0
info: {title: Pets}
paths:
  /pets:
    get: {tags: [pets], operationId: listPets}
    post: {tags: [pets], operationId: createPet}
  /owners:
    get: {tags: [owners]}
`)
	untitled := parse(t, `{"openapi":"3.0.0","paths":{"/ping":{"get":{}}}}`)

	root := IndexAll([]Source{
		{Document: petsV1},
		{Document: untitled},
		{Document: petsV2},
		{Document: untitled, Title: "Health"},
	})

	var titles []string
	for _, c := range root.Children() {
		titles = append(titles, c.Name)
	}
	assert.Equal(t, []string{"Pets", UntitledSpecification, "Health"}, titles)

	pets := root.Child("Pets")
	assert.Equal(t, []string{"pets", "owners"}, []string{pets.Children()[0].Name, pets.Children()[1].Name})
	petsTag := pets.Child("pets")
	assert.Equal(t, "Pets | pets", petsTag.FullPath)
	require.Len(t, petsTag.Operations, 2, "listPets from both documents is merged")
	assert.Same(t, petsV1, petsTag.Operations[0].Document)
	assert.Equal(t, "createPet", petsTag.Operations[1].OperationID())

	ping := root.Child(UntitledSpecification).Child(UntaggedTag)
	require.NotNil(t, ping)
	assert.Equal(t, "Untitled Specification | Untagged", ping.FullPath)
	assert.Equal(t, "Health | Untagged", root.Child("Health").Child(UntaggedTag).FullPath)

	// per-document trees are untouched by grafting
	single := Index(petsV1)
	Merge(NewRoot().Ensure("X"), single)
	assert.Equal(t, "pets", single.Child("pets").FullPath)
}

func TestIndexAllSkipsMissingDocuments(t *testing.T) {
	doc := parse(t, `{"openapi":"3.0.0","info":{"title":"Pets"},"paths":{"/pets":{"get":{}}}}`)

	root := IndexAll([]Source{{Title: "Empty"}, {Document: doc}, {}})
	require.Len(t, root.Children(), 1)
	assert.Equal(t, "Pets", root.Children()[0].Name)
	assert.Nil(t, root.Child("Empty"))
	assert.Nil(t, root.Child(UntitledSpecification))

	assert.Empty(t, IndexAll([]Source{{}}).Children())
}

func TestMarshalJSON(t *testing.T) {
	doc := parse(t, `{"openapi":"3.0.0","paths":{"/pets":{"get":{"tags":["a|b"],"operationId":"x","summary":"S","deprecated":true}}}}`)
	out, err := json.Marshal(Index(doc))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name":"root","fullPath":"","operations":[],
		"children":[{"name":"a","fullPath":"a","operations":[],"children":[
			{"name":"b","fullPath":"a | b","children":[],
			 "operations":[{"method":"GET","path":"/pets","operationId":"x","summary":"S","deprecated":true}]}
		]}]
	}`, string(out))
}
