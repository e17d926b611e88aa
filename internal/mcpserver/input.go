package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/erraggy/oasexplorer/indexer"
	"github.com/erraggy/oasexplorer/internal/options"
	"github.com/erraggy/oasexplorer/loader"
	"github.com/erraggy/oasexplorer/workspace"
)

// specInput represents the three ways an OAS spec can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OAS file on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an OAS document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OAS document content (JSON or YAML)"`
	Title   string `json:"title,omitempty"   jsonschema:"Display title used when several specs share one tree"`
}

// specsInput selects the documents of a workspace: one spec, or several specs
// grafted into one tree under their titles.
type specsInput struct {
	Spec  *specInput
	Specs []specInput
}

// list returns the inputs in order, failing unless exactly one of spec and
// specs is used.
func (s specsInput) list() ([]specInput, error) {
	switch {
	case s.Spec != nil && len(s.Specs) > 0:
		return nil, fmt.Errorf("use either spec or specs, not both")
	case s.Spec != nil:
		return []specInput{*s.Spec}, nil
	case len(s.Specs) == 0:
		return nil, fmt.Errorf("a spec is required (use spec, or specs for several documents)")
	case len(s.Specs) > cfg.MaxSpecs:
		return nil, fmt.Errorf("too many specs: %d (maximum %d; set OASEXPLORER_MAX_SPECS to increase)", len(s.Specs), cfg.MaxSpecs)
	}
	return s.Specs, nil
}

// workspaceCache holds loaded workspaces keyed by the hash of their inputs.
// URL inputs expire sooner than files and inline content.
type workspaceCache struct {
	local  *expirable.LRU[uint64, *workspace.Workspace]
	remote *expirable.LRU[uint64, *workspace.Workspace]
}

func newWorkspaceCache(c *serverConfig) *workspaceCache {
	return &workspaceCache{
		local:  expirable.NewLRU[uint64, *workspace.Workspace](c.CacheMaxSize, nil, c.CacheTTL),
		remote: expirable.NewLRU[uint64, *workspace.Workspace](c.CacheMaxSize, nil, c.CacheURLTTL),
	}
}

var workspaces = newWorkspaceCache(cfg)

func (c *workspaceCache) pick(remote bool) *expirable.LRU[uint64, *workspace.Workspace] {
	if remote {
		return c.remote
	}
	return c.local
}

// reset clears all cached entries. Used in tests.
func (c *workspaceCache) reset() {
	c.local.Purge()
	c.remote.Purge()
}

// size returns the number of cached entries.
func (c *workspaceCache) size() int {
	return c.local.Len() + c.remote.Len()
}

// stats returns the statistics of every cached workspace.
func (c *workspaceCache) stats() []workspace.Stats {
	var out []workspace.Stats
	for _, ws := range c.local.Values() {
		out = append(out, ws.Stats())
	}
	for _, ws := range c.remote.Values() {
		out = append(out, ws.Stats())
	}
	return out
}

// Stats returns the statistics of every cached workspace. It feeds the
// Prometheus collector.
func Stats() []workspace.Stats {
	return workspaces.stats()
}

// cacheKey identifies one input. File inputs include the modification time so
// edits invalidate the entry. It returns "" when the input cannot be keyed.
func (s specInput) cacheKey() string {
	var key string
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return ""
		}
		key = "file:" + absPath + ":" + strconv.FormatInt(info.ModTime().UnixNano(), 10)
	case s.URL != "":
		key = "url:" + s.URL
	case s.Content != "":
		key = "content:" + strconv.FormatUint(xxhash.Sum64String(s.Content), 16)
	default:
		return ""
	}
	return key + "|" + s.Title
}

// makeCacheKey hashes the keys of every input. ok is false when any input
// cannot be keyed.
func makeCacheKey(inputs []specInput) (key uint64, remote, ok bool) {
	d := xxhash.New()
	for _, s := range inputs {
		k := s.cacheKey()
		if k == "" {
			return 0, false, false
		}
		remote = remote || s.URL != ""
		_, _ = d.WriteString(k)
		_, _ = d.WriteString("\n")
	}
	return d.Sum64(), remote, true
}

// load reads and decodes one input.
func (s specInput) load(ctx context.Context) (*loader.Result, error) {
	if err := options.ValidateSingleInputSource(
		options.Source{Option: "file", Set: s.File != ""},
		options.Source{Option: "url", Set: s.URL != ""},
		options.Source{Option: "content", Set: s.Content != ""},
	); err != nil {
		return nil, err
	}

	// Enforce inline content size limit.
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set OASEXPLORER_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	opts := []loader.Option{loader.WithLogger(contextLogger(ctx))}
	switch {
	case s.File != "":
		opts = append(opts, loader.WithFilePath(s.File))
	case s.URL != "":
		opts = append(opts, loader.WithURL(s.URL), loader.WithHTTPClient(specHTTPClient()))
	default:
		opts = append(opts, loader.WithReader(strings.NewReader(s.Content)), loader.WithSourceName("content"))
	}
	return loader.Load(ctx, opts...)
}

// resolve returns the workspace for the inputs, loading it on a cache miss.
func (s specsInput) resolve(ctx context.Context) (*workspace.Workspace, error) {
	inputs, err := s.list()
	if err != nil {
		return nil, err
	}

	key, remote, cacheable := makeCacheKey(inputs)
	cacheable = cacheable && cfg.CacheEnabled
	if cacheable {
		if ws, ok := workspaces.pick(remote).Get(key); ok {
			return ws, nil
		}
	}

	start := time.Now()
	sources := make([]indexer.Source, 0, len(inputs))
	for i, in := range inputs {
		result, err := in.load(ctx)
		if err != nil {
			if len(inputs) > 1 {
				return nil, fmt.Errorf("specs[%d]: %w", i, err)
			}
			return nil, err
		}
		sources = append(sources, result.Source(in.Title))
	}

	logger := contextLogger(ctx)
	ws := workspace.New(workspace.WithLogger(logger))
	ws.Load(sources...)
	logger.Debug("workspace ready", "documents", len(sources), "elapsed", time.Since(start), "cached", cacheable)

	if cacheable {
		workspaces.pick(remote).Add(key, ws)
	}
	return ws, nil
}
