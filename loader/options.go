package loader

import (
	"io"
	"net/http"
	"strings"

	"github.com/spf13/afero"

	"github.com/erraggy/oasexplorer"
	"github.com/erraggy/oasexplorer/document"
	"github.com/erraggy/oasexplorer/internal/options"
	"github.com/erraggy/oasexplorer/oaserrors"
)

// DefaultMaxSize is the largest source accepted unless WithMaxSize says otherwise.
const DefaultMaxSize int64 = 10 * 1024 * 1024

// Option is a function that configures a load operation
type Option func(*loadConfig) error

// loadConfig holds configuration for a load operation
type loadConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	url      *string
	reader   io.Reader
	bytes    []byte

	fs         afero.Fs
	httpClient *http.Client
	userAgent  string
	maxSize    int64
	sourceName *string
	validate   bool
	logger     document.Logger
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*loadConfig, error) {
	cfg := &loadConfig{
		fs:        afero.NewOsFs(),
		userAgent: oasexplorer.UserAgent(),
		maxSize:   DefaultMaxSize,
		validate:  true,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		options.Source{Option: "WithFilePath", Set: cfg.filePath != nil},
		options.Source{Option: "WithURL", Set: cfg.url != nil},
		options.Source{Option: "WithReader", Set: cfg.reader != nil},
		options.Source{Option: "WithBytes", Set: cfg.bytes != nil},
	); err != nil {
		return nil, err
	}

	cfg.logger = document.LoggerOrNop(cfg.logger)
	return cfg, nil
}

// WithFilePath loads from a file. Paths starting with http:// or https:// are
// fetched as URLs.
func WithFilePath(path string) Option {
	return func(cfg *loadConfig) error {
		if isURL(path) {
			cfg.url = &path
			return nil
		}
		cfg.filePath = &path
		return nil
	}
}

// WithURL loads from an http or https URL.
func WithURL(url string) Option {
	return func(cfg *loadConfig) error {
		if !isURL(url) {
			return &oaserrors.ConfigError{Option: "WithURL", Value: url, Message: "URL must use http or https"}
		}
		cfg.url = &url
		return nil
	}
}

// WithReader loads from r. The reader is consumed up to the size limit.
func WithReader(r io.Reader) Option {
	return func(cfg *loadConfig) error {
		if r == nil {
			return &oaserrors.ConfigError{Option: "WithReader", Message: "reader cannot be nil"}
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes loads from data.
func WithBytes(data []byte) Option {
	return func(cfg *loadConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.bytes = data
		return nil
	}
}

// WithFS sets the filesystem file paths are read from (default: the OS filesystem).
func WithFS(fs afero.Fs) Option {
	return func(cfg *loadConfig) error {
		if fs == nil {
			return &oaserrors.ConfigError{Option: "WithFS", Message: "filesystem cannot be nil"}
		}
		cfg.fs = fs
		return nil
	}
}

// WithHTTPClient sets the client used for URL sources. When unset a client
// with a 30 second timeout is used.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *loadConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// WithUserAgent sets the User-Agent header for URL sources.
func WithUserAgent(ua string) Option {
	return func(cfg *loadConfig) error {
		if ua != "" {
			cfg.userAgent = ua
		}
		return nil
	}
}

// WithMaxSize sets the largest accepted source in bytes.
func WithMaxSize(size int64) Option {
	return func(cfg *loadConfig) error {
		if size <= 0 {
			return &oaserrors.ConfigError{Option: "WithMaxSize", Value: size, Message: "must be positive"}
		}
		cfg.maxSize = size
		return nil
	}
}

// WithSourceName overrides the name recorded for the source.
func WithSourceName(name string) Option {
	return func(cfg *loadConfig) error {
		cfg.sourceName = &name
		return nil
	}
}

// WithValidation turns the minimal shape check on or off (default: on).
func WithValidation(enabled bool) Option {
	return func(cfg *loadConfig) error {
		cfg.validate = enabled
		return nil
	}
}

// WithLogger sets the logger for the load and the decoded document.
func WithLogger(l document.Logger) Option {
	return func(cfg *loadConfig) error {
		cfg.logger = l
		return nil
	}
}

// isURL determines if the given path is a URL (http:// or https://)
func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
