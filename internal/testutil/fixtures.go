// Package testutil provides test utilities and fixtures for unit tests.
//
// Fixtures are txtar archives under testdata/. Each archive holds one or more
// documents that tests parse directly, write to a temporary directory or mount
// on an in-memory filesystem.
package testutil

import (
	"embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"golang.org/x/tools/txtar"

	"github.com/erraggy/oasexplorer/document"
)

//go:embed testdata/*.txtar
var archives embed.FS

// Archive names.
const (
	// Petstore holds petstore.yaml (OpenAPI 3.1) and users.json (Swagger 2.0).
	Petstore = "petstore"
	// Invalid holds inputs the loader must reject.
	Invalid = "invalid"
)

// Archive returns the named fixture archive. It panics when the archive does
// not exist.
func Archive(name string) *txtar.Archive {
	data, err := archives.ReadFile("testdata/" + name + ".txtar")
	if err != nil {
		panic("testutil: unknown archive " + name)
	}
	return txtar.Parse(data)
}

// File returns the contents of file in the named archive.
func File(t testing.TB, archive, file string) []byte {
	t.Helper()

	for _, f := range Archive(archive).Files {
		if f.Name == file {
			return f.Data
		}
	}
	t.Fatalf("archive %s has no file %s", archive, file)
	return nil
}

// Names returns the file names of the named archive in archive order.
func Names(archive string) []string {
	a := Archive(archive)
	names := make([]string, 0, len(a.Files))
	for _, f := range a.Files {
		names = append(names, f.Name)
	}
	return names
}

// ParseDocument parses file from the named archive, failing the test on error.
func ParseDocument(t testing.TB, archive, file string) *document.Document {
	t.Helper()

	doc, err := document.Parse(File(t, archive, file), document.WithName(file))
	if err != nil {
		t.Fatalf("Failed to parse %s/%s: %v", archive, file, err)
	}
	return doc
}

// ParseAll parses every file in the named archive in archive order.
func ParseAll(t testing.TB, archive string) []*document.Document {
	t.Helper()

	var docs []*document.Document
	for _, name := range Names(archive) {
		docs = append(docs, ParseDocument(t, archive, name))
	}
	return docs
}

// WriteTempFiles writes every file of the named archive into a temporary
// directory and returns the directory. The directory is removed when the test
// ends.
func WriteTempFiles(t testing.TB, archive string) string {
	t.Helper()

	dir := t.TempDir()
	for _, f := range Archive(archive).Files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, f.Data, 0600); err != nil {
			t.Fatalf("Failed to write temporary file %s: %v", f.Name, err)
		}
	}
	return dir
}

// MemFS returns an in-memory filesystem holding every file of the named
// archive under root.
func MemFS(t testing.TB, archive, root string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for _, f := range Archive(archive).Files {
		if err := afero.WriteFile(fs, filepath.Join(root, f.Name), f.Data, 0600); err != nil {
			t.Fatalf("Failed to write %s to memory filesystem: %v", f.Name, err)
		}
	}
	return fs
}
