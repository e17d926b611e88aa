package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasexplorer/document"
)

func TestArchiveNames(t *testing.T) {
	assert.Equal(t, []string{"petstore.yaml", "users.json"}, Names(Petstore))
	assert.Equal(t, []string{"not-openapi.yaml", "broken.yaml", "scalar.json"}, Names(Invalid))
}

func TestArchiveUnknownPanics(t *testing.T) {
	assert.Panics(t, func() { Archive("nope") })
}

func TestParseDocument(t *testing.T) {
	doc := ParseDocument(t, Petstore, "petstore.yaml")
	assert.Equal(t, "Pet Store", doc.Title())
	assert.Equal(t, "3.1.0", doc.Version())
	assert.Equal(t, document.FormatYAML, doc.Format())
	assert.Equal(t, "petstore.yaml", doc.Name())

	users := ParseDocument(t, Petstore, "users.json")
	assert.Equal(t, document.FormatJSON, users.Format())
	assert.True(t, users.IsSwagger())
}

func TestParseAll(t *testing.T) {
	docs := ParseAll(t, Petstore)
	require.Len(t, docs, 2)
	assert.Equal(t, "Users", docs[1].Title())
}

func TestWriteTempFiles(t *testing.T) {
	dir := WriteTempFiles(t, Petstore)

	data, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	assert.Equal(t, File(t, Petstore, "users.json"), data)
}

func TestMemFS(t *testing.T) {
	fs := MemFS(t, Invalid, "/specs")

	ok, err := afero.Exists(fs, "/specs/broken.yaml")
	require.NoError(t, err)
	assert.True(t, ok)
}
