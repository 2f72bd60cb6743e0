// Package pipeline drives image URLs end to end: resolve the storage
// path, fetch when the artifact is missing, normalize, persist, pace,
// fan out thumbnails, and report a content checksum per URL.
package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"image"
	"net/url"
	"time"

	"imgfetch/pkg/config"
	"imgfetch/pkg/errors"
	"imgfetch/pkg/fetch"
	"imgfetch/pkg/imgconvert"
	"imgfetch/pkg/logger"
	"imgfetch/pkg/pacer"
	"imgfetch/pkg/paths"
	"imgfetch/pkg/store"
)

// Fetcher retrieves raw image bytes for a URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Storage persists artifacts and answers existence and checksum queries
type Storage interface {
	Exists(path string) bool
	Persist(path string, data []byte) error
	Read(path string) ([]byte, error)
	Checksum(path string) (string, error)
}

// Waiter applies the post-download pacing delay
type Waiter interface {
	Wait()
}

// Result is the outcome of one URL in a batch
type Result struct {
	URL      string
	Checksum string
	Err      error
	Fetched  bool
	Duration time.Duration
}

// OK reports whether the item completed successfully
func (r Result) OK() bool {
	return r.Err == nil
}

// Pipeline orchestrates the fetch, conversion and storage of image URLs
type Pipeline struct {
	resolver *paths.Resolver
	fetcher  Fetcher
	storage  Storage
	pacer    Waiter
	thumbs   map[string]config.Size
	force    bool
	workers  int
	logger   logger.Logger
}

// New creates a Pipeline from explicit collaborators. The configuration
// is validated up front; an invalid one is the only error this returns.
func New(cfg *config.Config, fetcher Fetcher, storage Storage, waiter Waiter, log logger.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrorTypeConfig, "", "invalid configuration", err)
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Pipeline{
		resolver: paths.NewResolver(cfg.Store.Path),
		fetcher:  fetcher,
		storage:  storage,
		pacer:    waiter,
		thumbs:   cfg.ActiveThumbs(),
		force:    cfg.Download.Force,
		workers:  cfg.Download.Workers,
		logger:   log,
	}, nil
}

// NewFromConfig wires a Pipeline with the real HTTP client, store and
// pacer built from cfg.
func NewFromConfig(cfg *config.Config, log logger.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrorTypeConfig, "", "invalid configuration", err)
	}

	client, err := fetch.NewClient(fetch.Options{
		Timeout: cfg.Download.Timeout,
		Proxies: cfg.Download.Proxies,
		Headers: cfg.Download.Headers,
	}, log)
	if err != nil {
		return nil, err
	}

	var thumbIDs []string
	for id := range cfg.ActiveThumbs() {
		thumbIDs = append(thumbIDs, id)
	}
	st, err := store.New(cfg.Store.Path, thumbIDs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeConfig, "", "failed to bootstrap store", err)
	}

	return New(cfg, client, st, pacer.New(cfg.Pacing.MinWait, cfg.Pacing.MaxWait), log)
}

// DownloadOne runs the pipeline for a single URL and returns the content
// checksum of the full-size artifact. Unlike DownloadBatch, the first
// fatal error surfaces directly to the caller.
func (p *Pipeline) DownloadOne(ctx context.Context, rawURL string) (string, error) {
	checksum, _, err := p.downloadImage(ctx, rawURL)
	return checksum, err
}

// downloadImage takes one URL through the full sequence. It reports
// whether a network fetch actually happened so batch results can expose
// cache hits.
func (p *Pipeline) downloadImage(ctx context.Context, rawURL string) (checksum string, fetched bool, err error) {
	if err := validateURL(rawURL); err != nil {
		return "", false, err
	}

	fullPath := p.resolver.FullPath(rawURL)

	// canonical is the item-scoped in-memory image: populated by a real
	// download, or decoded lazily from disk if a thumbnail needs it.
	var canonical image.Image

	if p.force || !p.storage.Exists(fullPath) {
		data, err := p.fetcher.Fetch(ctx, rawURL)
		if err != nil {
			return "", false, tagURL(err, rawURL)
		}

		decoded, err := imgconvert.Decode(data)
		if err != nil {
			return "", true, tagURL(err, rawURL)
		}

		img, buf, err := imgconvert.Normalize(decoded, 0, 0)
		if err != nil {
			return "", true, tagURL(err, rawURL)
		}
		canonical = img

		if err := p.storage.Persist(fullPath, buf); err != nil {
			return "", true, tagURL(err, rawURL)
		}

		// Pace only when real network work happened, never on a cache hit
		p.pacer.Wait()
		fetched = true
	}

	for id, size := range p.thumbs {
		thumbPath := p.resolver.ThumbPath(rawURL, id)
		if !p.force && p.storage.Exists(thumbPath) {
			continue
		}

		if canonical == nil {
			data, err := p.storage.Read(fullPath)
			if err != nil {
				return "", fetched, tagURL(err, rawURL)
			}
			img, err := imgconvert.Decode(data)
			if err != nil {
				return "", fetched, tagURL(err, rawURL)
			}
			canonical = img
		}

		_, buf, err := imgconvert.Normalize(canonical, size.Width, size.Height)
		if err != nil {
			return "", fetched, tagURL(err, rawURL)
		}
		if err := p.storage.Persist(thumbPath, buf); err != nil {
			return "", fetched, tagURL(err, rawURL)
		}
	}

	checksum, cerr := p.storage.Checksum(fullPath)
	if cerr != nil {
		return "", fetched, tagURL(cerr, rawURL)
	}

	return checksum, fetched, nil
}

// validateURL rejects identifiers that cannot address an artifact
func validateURL(rawURL string) error {
	if rawURL == "" {
		return errors.New(errors.ErrorTypeResolve, rawURL, "empty URL")
	}
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return errors.Wrap(errors.ErrorTypeResolve, rawURL, "malformed URL", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return errors.New(errors.ErrorTypeResolve, rawURL, fmt.Sprintf("URL missing scheme or host: %q", rawURL))
	}
	return nil
}

// tagURL fills in the URL on classified errors raised by components that
// do not know which identifier they were working for.
func tagURL(err error, rawURL string) error {
	var e *errors.Error
	if stderrors.As(err, &e) && e.URL == "" {
		e.URL = rawURL
	}
	return err
}
