package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasexplorer/document"
	"github.com/erraggy/oasexplorer/indexer"
	"github.com/erraggy/oasexplorer/oaserrors"
	"github.com/erraggy/oasexplorer/security"
)

const storeDoc = `
openapi: 3.0.0
info: {title: Store}
security:
  - apiKey: []
paths:
  /pets:
    get:
      tags: ["Pet Store | Pets"]
      operationId: listPets
      summary: List pets
      security: []
      parameters:
        - name: limit
          in: query
          description: Maximum number of ÉLÉMENTS
        - $ref: '#/components/parameters/Offset'
    post:
      tags: ["Pet Store | Pets"]
      operationId: createPet
      summary: Create a new pet
      requestBody:
        description: The Pet to add
  /pets/{petId}:
    delete:
      tags: ["Pet Store | Pets"]
      operationId: deletePet
      responses:
        "410":
          description: Gone for good
  /orders:
    get:
      tags: ["Pet Store | Orders"]
      operationId: listOrders
      description: Lists all orders
  /users:
    put:
      tags: [Users]
      operationId: updateUser
webhooks:
  newPet:
    post:
      tags: [Events]
      operationId: onNewPet
      summary: A pet was added
components:
  parameters:
    Offset: {name: offset, in: query}
`

func storeTree(t *testing.T) (*document.Document, *indexer.TagNode) {
	t.Helper()
	doc, err := document.Parse([]byte(storeDoc))
	require.NoError(t, err)
	return doc, indexer.Index(doc)
}

func opIDs(n *indexer.TagNode) []string {
	var ids []string
	Walk(n, func(node *indexer.TagNode, _ int) bool {
		for _, op := range node.Operations {
			ids = append(ids, op.OperationID())
		}
		return true
	})
	return ids
}

func TestSearch(t *testing.T) {
	_, root := storeTree(t)

	tests := []struct {
		query string
		want  []string
	}{
		{query: "PET", want: []string{"listPets", "createPet", "deletePet", "listOrders", "onNewPet"}},
		{query: "create a NEW", want: []string{"createPet"}},
		{query: "maximum number of éléments", want: []string{"listPets"}},
		{query: "limit", want: []string{"listPets"}},
		{query: "410", want: []string{"deletePet"}},
		{query: "gone FOR", want: []string{"deletePet"}},
		{query: "the pet to add", want: []string{"createPet"}},
		{query: "lists all", want: []string{"listOrders"}},
		{query: "put", want: []string{"updateUser"}},
		{query: "users", want: []string{"updateUser"}},
		{query: "pet store", want: []string{"listPets", "createPet", "deletePet", "listOrders"}},
		{query: "offset", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Search(root, tt.query)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, opIDs(got))
		})
	}
}

func TestSearchPrunesSiblings(t *testing.T) {
	_, root := storeTree(t)

	got := Search(root, "Create a new pet")
	require.NotNil(t, got)
	assert.Equal(t, indexer.RootName, got.Name)
	require.Len(t, got.Children(), 1)
	store := got.Child("Pet Store")
	require.NotNil(t, store)
	require.Len(t, store.Children(), 1, "Orders has no match")
	pets := store.Child("Pets")
	require.NotNil(t, pets)
	assert.Equal(t, "Pet Store | Pets", pets.FullPath)
	require.Len(t, pets.Operations, 1)
	assert.Equal(t, "createPet", pets.Operations[0].OperationID())

	// the original tree is untouched
	assert.Len(t, root.Child("Pet Store").Child("Pets").Operations, 3)
	assert.Len(t, root.Children(), 3)
}

func TestSearchBlank(t *testing.T) {
	_, root := storeTree(t)
	assert.Same(t, root, Search(root, ""))
	assert.Same(t, root, Search(root, "   "))
	assert.Nil(t, Search(nil, "x"))
	assert.Nil(t, Search(root, "no-such-thing"))
}

func TestMatchOperation(t *testing.T) {
	doc, _ := storeTree(t)
	var create indexer.OperationRef
	for op := range Operations(doc) {
		if op.OperationID() == "createPet" {
			create = op
		}
	}
	require.NotNil(t, create.Operation)
	assert.True(t, MatchOperation(create, "POST"))
	assert.True(t, MatchOperation(create, ""))
	assert.False(t, MatchOperation(create, "orders"))
}

func TestSearchAll(t *testing.T) {
	doc, _ := storeTree(t)
	other, err := document.Parse([]byte(`{"openapi":"3.0.0","paths":{"/pets":{"get":{"summary":"pets again"}}}}`))
	require.NoError(t, err)

	hits := SearchAll([]indexer.Source{{Document: doc}, {Document: other, Title: "Other"}}, "pets")
	require.Len(t, hits, 4)
	assert.Equal(t, "Store", hits[0].SpecTitle)
	assert.Equal(t, "listPets", hits[0].Operation.OperationID())
	assert.Equal(t, "deletePet", hits[2].Operation.OperationID())
	assert.Equal(t, 1, hits[3].SpecIndex)
	assert.Equal(t, "Other", hits[3].SpecTitle)

	assert.Nil(t, SearchAll([]indexer.Source{{Document: doc}}, " "))

	webhooks := SearchAll([]indexer.Source{{Document: doc}}, "was added")
	require.Len(t, webhooks, 1)
	assert.True(t, webhooks[0].Operation.Webhook)
	assert.Equal(t, "onNewPet", webhooks[0].Operation.OperationID())
}

func TestOperationsOnce(t *testing.T) {
	doc, err := document.Parse([]byte(`
openapi: 3.0.0
paths:
  /a:
    post: {tags: [x, y]}
    get: {tags: [x]}
`))
	require.NoError(t, err)
	var got []string
	for op := range Operations(doc) {
		got = append(got, op.Method+" "+op.Path)
	}
	assert.Equal(t, []string{"GET /a", "POST /a"}, got)
}

func TestFilter(t *testing.T) {
	_, root := storeTree(t)

	tests := []struct {
		name    string
		mode    SecurityMode
		methods MethodSet
		want    []string
	}{
		{name: "all", mode: ModeAll, want: []string{"listPets", "createPet", "deletePet", "listOrders", "updateUser", "onNewPet"}},
		{name: "public", mode: ModePublic, want: []string{"listPets"}},
		{name: "private", mode: ModePrivate, want: []string{"createPet", "deletePet", "listOrders", "updateUser", "onNewPet"}},
		{name: "get only", mode: ModeAll, methods: NewMethodSet("get"), want: []string{"listPets", "listOrders"}},
		{name: "private get", mode: ModePrivate, methods: NewMethodSet("GET"), want: []string{"listOrders"}},
		{name: "patch", mode: ModeAll, methods: NewMethodSet("patch"), want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(root, tt.mode, tt.methods, nil)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want, opIDs(got))
		})
	}

	got := Filter(root, ModePublic, nil, nil)
	require.NotNil(t, got)
	assert.Nil(t, got.Child("Users"), "empty nodes are dropped")
	assert.Nil(t, got.Child("Pet Store").Child("Orders"))
	assert.Equal(t, 6, root.OperationCount(), "input tree is untouched")
}

func TestFilterCachedPrivacy(t *testing.T) {
	_, root := storeTree(t)
	cache := security.NewCache()

	got := Filter(root, ModePrivate, nil, CachedPrivacy(cache))
	require.NotNil(t, got)
	assert.Equal(t, 5, got.OperationCount())
	assert.Equal(t, 6, cache.Len())

	Filter(root, ModePublic, nil, CachedPrivacy(cache))
	hits, _ := cache.Counters()
	assert.Equal(t, 6, hits)
}

func TestParseSecurityMode(t *testing.T) {
	for in, want := range map[string]SecurityMode{"": ModeAll, "all": ModeAll, "Private": ModePrivate, " public ": ModePublic} {
		got, err := ParseSecurityMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSecurityMode("secret")
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestMethodSet(t *testing.T) {
	var all MethodSet
	assert.True(t, all.Has("get"))
	assert.Nil(t, NewMethodSet())
	assert.Nil(t, NewMethodSet(" ", ""))

	s := NewMethodSet("get", " Post ")
	assert.True(t, s.Has("GET"))
	assert.True(t, s.Has("post"))
	assert.False(t, s.Has("delete"))

	parsed, err := ParseMethodSet("get, DELETE")
	require.NoError(t, err)
	assert.True(t, parsed.Has("delete"))
	assert.False(t, parsed.Has("post"))

	_, err = ParseMethodSet("get,fetch")
	assert.ErrorIs(t, err, oaserrors.ErrConfig)

	empty, err := ParseMethodSet("")
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestSlugRoundTrip(t *testing.T) {
	paths := []string{
		"/users/{id}/posts/{postId}",
		"/",
		"/pets",
		"/pets/{petId}",
		"/API/v2/Users",
		"/snake_case/kebab-case/{UPPER}",
		"/files/report.json",
		"/trailing/",
		"/{}",
	}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			slug := EndpointPathToSlug(p)
			assert.Equal(t, p, SlugToEndpointPath(slug))
			for _, r := range slug {
				assert.False(t, r >= 'A' && r <= 'Z', "slug %q has upper case", slug)
			}
		})
	}
}

func TestSlugEncoding(t *testing.T) {
	assert.Equal(t, "users/:id/posts/:post~id", EndpointPathToSlug("/users/{id}/posts/{postId}"))
	assert.Equal(t, "pets", EndpointPathToSlug("/pets"))
	assert.Equal(t, "a-b/c-", EndpointPathToSlug("/a b/c:"))
	assert.Equal(t, "/users/{id}", SlugToEndpointPath("/users/:id"))
	assert.Equal(t, "/", SlugToEndpointPath(""))
}

func TestNodeSlug(t *testing.T) {
	tests := map[string]string{
		"Pet Store | Pets":    "pet-store/pets",
		"Pets":                "pets",
		"Webhooks | Untagged": "webhooks/untagged",
		"!!!":                 "-",
		"":                    "",
	}
	assert.Equal(t, "café-bar/v2-0", NodeSlug("  Café  &  Bar |  v2.0  "))
	for in, want := range tests {
		assert.Equal(t, want, NodeSlug(in), in)
	}
}

func TestFindNode(t *testing.T) {
	_, root := storeTree(t)

	n := FindNodeByPath(root, "Pet Store | Orders")
	require.NotNil(t, n)
	assert.Equal(t, "Orders", n.Name)
	assert.Same(t, root, FindNodeByPath(root, ""))
	assert.Nil(t, FindNodeByPath(root, "Pet Store|Orders"))
	assert.Nil(t, FindNodeByPath(nil, "x"))

	s := FindNodeBySlug(root, "pet-store/pets")
	require.NotNil(t, s)
	assert.Equal(t, "Pet Store | Pets", s.FullPath)
	assert.Same(t, s, FindNodeBySlug(root, "/pet-store/pets/"))
	assert.Nil(t, FindNodeBySlug(root, "pet-store/dogs"))
	assert.Nil(t, FindNodeBySlug(root, ""))
}

func TestFindNodeFirstMatch(t *testing.T) {
	root := indexer.NewRoot()
	root.Ensure("A B")
	root.Ensure("a-b")
	n := FindNodeBySlug(root, "a-b")
	require.NotNil(t, n)
	assert.Equal(t, "A B", n.Name, "children are searched in insertion order")
}

func TestFindOperation(t *testing.T) {
	_, root := storeTree(t)

	node, op, ok := FindOperation(root, "delete", "/pets/{petId}")
	require.True(t, ok)
	assert.Equal(t, "Pet Store | Pets", node.FullPath)
	assert.Equal(t, "deletePet", op.OperationID())

	_, _, ok = FindOperation(root, "get", "/nowhere")
	assert.False(t, ok)

	node, op, ok = FindOperationByID(root, "onNewPet")
	require.True(t, ok)
	assert.Equal(t, "Webhooks | Events", node.FullPath)
	assert.Equal(t, "POST", op.Method)

	_, _, ok = FindOperationByID(root, "")
	assert.False(t, ok)
}

func TestWalkSkip(t *testing.T) {
	_, root := storeTree(t)
	var visited []string
	Walk(root, func(n *indexer.TagNode, depth int) bool {
		visited = append(visited, n.String())
		return depth < 1
	})
	assert.Equal(t, []string{"root", "Pet Store", "Users", "Webhooks"}, visited)
}
