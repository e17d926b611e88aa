package workspace

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasexplorer/document"
	"github.com/erraggy/oasexplorer/indexer"
	"github.com/erraggy/oasexplorer/internal/testutil"
	"github.com/erraggy/oasexplorer/query"
	"github.com/erraggy/oasexplorer/resolver"
	"github.com/erraggy/oasexplorer/security"
)

func loadPetstore(t *testing.T) (*Workspace, *document.Document) {
	t.Helper()
	doc := testutil.ParseDocument(t, testutil.Petstore, "petstore.yaml")
	ws := New()
	ws.Load(indexer.Source{Document: doc})
	return ws, doc
}

func loadBoth(t *testing.T) *Workspace {
	t.Helper()
	ws := New()
	docs := testutil.ParseAll(t, testutil.Petstore)
	ws.Load(indexer.Source{Document: docs[0]}, indexer.Source{Document: docs[1], Title: "User API"})
	return ws
}

func childNames(n *indexer.TagNode) []string {
	var names []string
	for _, c := range n.Children() {
		names = append(names, c.Name)
	}
	return names
}

func opIDs(n *indexer.TagNode) []string {
	var ids []string
	query.Walk(n, func(node *indexer.TagNode, _ int) bool {
		for _, op := range node.Operations {
			ids = append(ids, op.EffectiveID())
		}
		return true
	})
	return ids
}

func TestNewIsEmpty(t *testing.T) {
	ws := New()

	assert.True(t, ws.Tree().IsRoot())
	assert.Empty(t, ws.Tree().Children())
	assert.Empty(t, ws.Sources())
	assert.Nil(t, ws.Document())
	assert.Zero(t, ws.Generation())
	assert.Nil(t, ws.ResolveRef(nil, "#/info"))
}

func TestLoadSingle(t *testing.T) {
	ws, doc := loadPetstore(t)

	assert.Equal(t, uint64(1), ws.Generation())
	assert.Same(t, doc, ws.Document())

	tree := ws.Tree()
	assert.Equal(t, []string{"Pets", "Store", "Untagged", "Webhooks"}, childNames(tree))
	assert.Equal(t, 8, tree.OperationCount())

	pets := tree.Child("Pets")
	require.NotNil(t, pets)
	assert.Equal(t, "Pets | Admin", pets.Child("Admin").FullPath)
	assert.Equal(t, "Webhooks | Pets", tree.Child("Webhooks").Child("Pets").FullPath)
}

func TestLoadMultiple(t *testing.T) {
	ws := loadBoth(t)

	tree := ws.Tree()
	assert.Equal(t, []string{"Pet Store", "User API"}, childNames(tree))
	assert.Equal(t, "User API | Users", tree.Child("User API").Child("Users").FullPath)
	assert.Equal(t, 10, tree.OperationCount())
	assert.Len(t, ws.Sources(), 2)
}

func TestLoadSkipsNilDocuments(t *testing.T) {
	ws := New()
	ws.Load(indexer.Source{}, indexer.Source{Document: testutil.ParseDocument(t, testutil.Petstore, "users.json")})

	require.Len(t, ws.Sources(), 1)
	assert.Equal(t, []string{"Users"}, childNames(ws.Tree()))
}

func TestLoadReplacesEverything(t *testing.T) {
	ws, doc := loadPetstore(t)

	op, ok := ws.FindOperation("delete", "/pets/{petId}")
	require.True(t, ok)
	assert.True(t, ws.IsPrivate(op))
	ws.ResolveRef(doc, "#/components/schemas/Pet")
	require.Equal(t, 1, ws.Stats().PrivacyEntries)

	users := testutil.ParseDocument(t, testutil.Petstore, "users.json")
	ws.Load(indexer.Source{Document: users})

	assert.Equal(t, uint64(2), ws.Generation())
	assert.Equal(t, []string{"Users"}, childNames(ws.Tree()))
	_, ok = ws.FindOperation("DELETE", "/pets/{petId}")
	assert.False(t, ok)

	stats := ws.Stats()
	assert.Zero(t, stats.PrivacyEntries)
	assert.Zero(t, stats.Resolver.RefMisses)

	// The old document is no longer loaded.
	assert.Nil(t, ws.ResolveRef(doc, "#/components/schemas/Pet"))
}

func TestResolveRef(t *testing.T) {
	ws, doc := loadPetstore(t)

	v := ws.ResolveRef(nil, "#/components/schemas/Pet")
	pet, ok := v.(*document.Object)
	require.True(t, ok)
	assert.False(t, pet.HasRef())

	owner := pet.Object("properties").Object("owner").Object("properties")
	require.NotNil(t, owner)

	m, ok := resolver.AsMarker(owner.Object("pets").Value("items"))
	require.True(t, ok)
	assert.Equal(t, resolver.KindCircular, m.Kind)

	m, ok = resolver.AsMarker(owner.Value("legacy"))
	require.True(t, ok)
	assert.Equal(t, resolver.KindExternal, m.Kind)

	m, ok = resolver.AsMarker(owner.Value("missing"))
	require.True(t, ok)
	assert.Equal(t, resolver.KindNotFound, m.Kind)

	assert.Same(t, v, ws.ResolveRef(doc, "#/components/schemas/Pet"))
	assert.Equal(t, 1, ws.Stats().Resolver.RefHits)
}

func TestResolveUsesValueDocument(t *testing.T) {
	ws := loadBoth(t)
	doc := ws.Sources()[0].Document

	op, ok := ws.FindOperation("get", "/pets")
	require.True(t, ok)
	assert.Same(t, doc, op.Document)

	v, ok := ws.Resolve(nil, op.Operation).(*document.Object)
	require.True(t, ok)
	param := v.Array("parameters").Index(0).(*document.Object)
	assert.Equal(t, "limit", param.StringOr("name", ""))

	resolved, ok := ws.ResolveOperation(op).(*document.Object)
	require.True(t, ok)
	assert.Same(t, v, resolved)

	// With two documents loaded a bare pointer has no document to resolve against.
	assert.Nil(t, ws.ResolveRef(nil, "#/components/schemas/Pet"))
}

func TestResolveUnknownDocumentPassesThrough(t *testing.T) {
	ws, _ := loadPetstore(t)
	other := testutil.ParseDocument(t, testutil.Petstore, "petstore.yaml")

	in := other.Components()
	assert.Same(t, in, ws.Resolve(other, in))
}

func TestSearch(t *testing.T) {
	ws := loadBoth(t)

	got := ws.Search("list")
	require.NotNil(t, got)
	assert.Equal(t, []string{"listPets", "listOrders", "listOrders", "listUsers"}, opIDs(got))

	assert.Same(t, ws.Tree(), ws.Search("  "))
	assert.Nil(t, ws.Search("no such thing"))

	hits := ws.SearchAll("user")
	require.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0].SpecIndex)
	assert.Equal(t, "User API", hits[0].SpecTitle)
	assert.Equal(t, "listUsers", hits[0].Operation.OperationID())
}

func TestFilter(t *testing.T) {
	ws := loadBoth(t)

	public := ws.Filter(query.ModePublic, nil)
	require.NotNil(t, public)
	assert.Equal(t, []string{"listPets", "createUser"}, opIDs(public))

	posts := ws.Filter(query.ModePrivate, query.NewMethodSet("post"))
	require.NotNil(t, posts)
	assert.Equal(t, []string{"createPet", "placeOrder", "onPetAdded"}, opIDs(posts))

	assert.Equal(t, opIDs(ws.Tree()), opIDs(ws.Filter(query.ModeAll, nil)))
}

func TestSecurity(t *testing.T) {
	ws := loadBoth(t)

	tests := []struct {
		method, path string
		level        security.Level
		private      bool
	}{
		{method: "GET", path: "/pets", level: security.LevelOperation, private: false},
		{method: "POST", path: "/pets", level: security.LevelDocument, private: true},
		{method: "GET", path: "/pets/{petId}", level: security.LevelOperation, private: true},
		{method: "GET", path: "/users", level: security.LevelPath, private: true},
		{method: "POST", path: "/users", level: security.LevelOperation, private: false},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			op, ok := ws.FindOperation(tt.method, tt.path)
			require.True(t, ok)
			eff := ws.Security(op)
			assert.Equal(t, tt.level, eff.Level)
			assert.Equal(t, tt.private, eff.Private())
			assert.Equal(t, tt.private, ws.IsPrivate(op))
		})
	}
}

func TestInvalidate(t *testing.T) {
	ws, _ := loadPetstore(t)

	op, ok := ws.FindOperation("GET", "/pets")
	require.True(t, ok)
	ws.IsPrivate(op)
	ws.IsPrivate(op)
	stats := ws.Stats()
	assert.Equal(t, 1, stats.PrivacyEntries)
	assert.Equal(t, 1, stats.PrivacyHits)
	assert.Equal(t, 1, stats.PrivacyMisses)

	ws.Invalidate("get", "/pets")
	assert.Zero(t, ws.Stats().PrivacyEntries)
}

func TestStats(t *testing.T) {
	ws, doc := loadPetstore(t)

	stats := ws.Stats()
	assert.Equal(t, uint64(1), stats.Generation)
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 8, stats.Operations)
	assert.Equal(t, doc.NodeCount(), stats.Objects)
	assert.Equal(t, len(doc.Source()), stats.SourceBytes)
	// root, Pets, Admin, Store, Orders, Untagged, Webhooks, Webhooks | Pets
	assert.Equal(t, 8, stats.Nodes)
}

func TestWithoutCacheOption(t *testing.T) {
	doc := testutil.ParseDocument(t, testutil.Petstore, "petstore.yaml")
	ws := New(WithResolverOptions(resolver.WithoutCache()), WithLogger(document.NopLogger{}))
	ws.Load(indexer.Source{Document: doc})

	a := ws.ResolveRef(doc, "#/components/schemas/Owner")
	b := ws.ResolveRef(doc, "#/components/schemas/Owner")
	assert.NotSame(t, a, b)
	assert.Zero(t, ws.Stats().Resolver.CachedRefs)
}

func TestConcurrentUse(t *testing.T) {
	ws := loadBoth(t)
	doc := ws.Sources()[0].Document

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ws.ResolveRef(doc, "#/components/schemas/Pet")
			ws.Filter(query.ModePrivate, nil)
			ws.Search("pet")
			ws.Stats()
		}()
	}
	wg.Wait()

	// Only the first resolution misses; it caches Pet for everyone after it.
	assert.Equal(t, 7, ws.Stats().Resolver.RefHits)
}
