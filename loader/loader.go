// Package loader reads OpenAPI and Swagger documents from files, URLs, readers
// or bytes and decodes them into documents.
//
// A source is size-limited (DefaultMaxSize unless WithMaxSize is given), decoded
// with document.Parse and, unless WithValidation(false) is given, checked for
// the minimal shape the explorer relies on: an object with an openapi or swagger
// version string and a paths or webhooks object. Nothing after loading
// re-validates the document.
//
//	result, err := loader.Load(ctx, loader.WithFilePath("openapi.yaml"))
//	if err != nil {
//		return err
//	}
//	ws.Load(result.Source(""))
//
// LoadAll loads several inputs concurrently and reports every failure.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/erraggy/oasexplorer/document"
	"github.com/erraggy/oasexplorer/indexer"
	"github.com/erraggy/oasexplorer/internal/httputil"
	"github.com/erraggy/oasexplorer/oaserrors"
)

// DefaultTimeout bounds URL fetches made with the default client.
const DefaultTimeout = 30 * time.Second

// maxConcurrentLoads bounds the goroutines started by LoadAll.
const maxConcurrentLoads = 4

// Result is a loaded document.
type Result struct {
	// Document is the decoded document.
	Document *document.Document
	// SourceName is the file path, URL or name given with WithSourceName.
	SourceName string
	// Size is the source size in bytes.
	Size int64
	// LoadTime is the time spent reading, decoding and validating.
	LoadTime time.Duration
}

// Source returns the result as an indexer source with the given display
// title; an empty title falls back to the document's own.
func (r *Result) Source(title string) indexer.Source {
	return indexer.Source{Document: r.Document, Title: title}
}

// Load reads, decodes and checks one document.
//
// Failures reading the source are *oaserrors.SourceError, oversized sources
// *oaserrors.ResourceLimitError, decoding failures *oaserrors.ParseError and
// shape failures *oaserrors.ValidationError.
func Load(ctx context.Context, opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("loader: invalid options: %w", err)
	}

	start := time.Now()
	data, name, err := cfg.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	if cfg.sourceName != nil {
		name = *cfg.sourceName
	}

	doc, err := document.Parse(data, document.WithName(name), document.WithLogger(cfg.logger))
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	if cfg.validate {
		if err := ValidateShape(doc); err != nil {
			return nil, fmt.Errorf("loader: %s: %w", name, err)
		}
	}

	result := &Result{
		Document:   doc,
		SourceName: name,
		Size:       int64(len(data)),
		LoadTime:   time.Since(start),
	}
	cfg.logger.Info("loaded document",
		"source", name,
		"title", doc.Title(),
		"version", doc.Version(),
		"size", humanize.IBytes(uint64(result.Size)),
		"nodes", doc.NodeCount(),
		"elapsed", result.LoadTime)
	return result, nil
}

// LoadAll loads every input, a file path or URL, concurrently. Results are in
// input order and hold only the inputs that loaded; the error combines every
// failure, also in input order. opts apply to every input and must not name an
// input source themselves.
func LoadAll(ctx context.Context, inputs []string, opts ...Option) ([]*Result, error) {
	results := make([]*Result, len(inputs))
	errs := make([]error, len(inputs))

	var g errgroup.Group
	g.SetLimit(maxConcurrentLoads)
	for i, input := range inputs {
		g.Go(func() error {
			r, err := Load(ctx, append([]Option{WithFilePath(input)}, opts...)...)
			results[i], errs[i] = r, err
			return nil
		})
	}
	_ = g.Wait()

	loaded := make([]*Result, 0, len(results))
	for _, r := range results {
		if r != nil {
			loaded = append(loaded, r)
		}
	}
	return loaded, multierr.Combine(errs...)
}

// read returns the raw source and its default name.
func (cfg *loadConfig) read(ctx context.Context) ([]byte, string, error) {
	switch {
	case cfg.filePath != nil:
		data, err := cfg.readFile(*cfg.filePath)
		return data, *cfg.filePath, err
	case cfg.url != nil:
		data, err := cfg.fetchURL(ctx, *cfg.url)
		return data, *cfg.url, err
	case cfg.reader != nil:
		data, err := readLimited(cfg.reader, cfg.maxSize, "<reader>")
		return data, "<reader>", err
	default:
		if int64(len(cfg.bytes)) > cfg.maxSize {
			return nil, "<bytes>", limitError("<bytes>", cfg.maxSize, int64(len(cfg.bytes)))
		}
		return cfg.bytes, "<bytes>", nil
	}
}

func (cfg *loadConfig) readFile(path string) ([]byte, error) {
	info, err := cfg.fs.Stat(path)
	if err != nil {
		return nil, &oaserrors.SourceError{Source: path, Cause: err}
	}
	if info.IsDir() {
		return nil, &oaserrors.SourceError{Source: path, Cause: errors.New("is a directory")}
	}
	if info.Size() > cfg.maxSize {
		return nil, limitError(path, cfg.maxSize, info.Size())
	}

	f, err := cfg.fs.Open(path)
	if err != nil {
		return nil, &oaserrors.SourceError{Source: path, Cause: err}
	}
	defer func() {
		_ = f.Close()
	}()
	return readLimited(f, cfg.maxSize, path)
}

// fetchURL fetches content from a URL.
func (cfg *loadConfig) fetchURL(ctx context.Context, urlStr string) ([]byte, error) {
	client := cfg.httpClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &oaserrors.SourceError{Source: urlStr, Cause: err}
	}
	req.Header.Set("User-Agent", cfg.userAgent)

	cfg.logger.Debug("fetching document", "url", urlStr)
	resp, err := client.Do(req)
	if err != nil {
		return nil, &oaserrors.SourceError{Source: urlStr, Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if !httputil.IsSuccess(resp.StatusCode) {
		return nil, &oaserrors.SourceError{
			Source:     urlStr,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	if resp.ContentLength > cfg.maxSize {
		return nil, limitError(urlStr, cfg.maxSize, resp.ContentLength)
	}
	return readLimited(resp.Body, cfg.maxSize, urlStr)
}

// readLimited reads at most limit bytes from r and fails when there is more.
func readLimited(r io.Reader, limit int64, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, &oaserrors.SourceError{Source: name, Cause: err}
	}
	if int64(len(data)) > limit {
		// The true size is unknown once the reader is cut off.
		return nil, limitError(name, limit, 0)
	}
	return data, nil
}

func limitError(name string, limit, actual int64) error {
	msg := fmt.Sprintf("%s is larger than %s", name, humanize.IBytes(uint64(limit)))
	if actual > 0 {
		msg = fmt.Sprintf("%s is %s, larger than %s", name, humanize.IBytes(uint64(actual)), humanize.IBytes(uint64(limit)))
	}
	return &oaserrors.ResourceLimitError{
		ResourceType: "file_size",
		Limit:        limit,
		Actual:       actual,
		Message:      msg,
	}
}
