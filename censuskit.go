package censuskit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/censuskit/censuskit-go/download"
	"github.com/censuskit/censuskit-go/internal/duckdbx"
	"github.com/censuskit/censuskit-go/metadata"
	"github.com/censuskit/censuskit-go/search"
)

// Client is the entry point for searching the metadata catalog and
// materializing datasets. The catalog is loaded once at construction and is
// immutable afterwards; a Client is safe for concurrent use.
type Client struct {
	config  Config
	catalog *metadata.Catalog
	db      *sql.DB
}

// New creates a client for the configured base path, loading the full
// metadata catalog. When a cache path is configured, a readable cache
// snapshot replaces the remote load; an unreadable one is logged and treated
// as a miss, and a successful remote load refreshes it. Callers must Close
// the client when done.
func New(ctx context.Context, cfg Config) (*Client, error) {
	db, err := duckdbx.Open(ctx)
	if err != nil {
		return nil, err
	}

	cat, fresh, err := loadCatalog(ctx, db, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	if fresh && cfg.CachePath != "" {
		if err := metadata.WriteCache(cat, cfg.CachePath, cfg.basePath()); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to write metadata cache: %w", err)
		}
	}

	return &Client{config: cfg, catalog: cat, db: db}, nil
}

// loadCatalog reads the catalog from the cache when possible, else from the
// base path. The second return value reports whether a remote load happened.
func loadCatalog(ctx context.Context, db *sql.DB, cfg Config) (*metadata.Catalog, bool, error) {
	if cfg.CachePath != "" {
		cat, err := metadata.LoadCache(cfg.CachePath, cfg.basePath())
		if err == nil {
			return cat, false, nil
		}
		slog.Warn("metadata cache unreadable, falling back to remote load",
			"cache", cfg.CachePath, "error", err)
	}
	cat, err := metadata.Load(ctx, db, cfg.basePath())
	if err != nil {
		return nil, false, err
	}
	return cat, true, nil
}

// Catalog exposes the loaded metadata catalog.
func (c *Client) Catalog() *metadata.Catalog {
	return c.catalog
}

// Search applies the given parameters to the denormalized catalog view.
func (c *Client) Search(params search.Params) (search.Results, error) {
	return search.Search(c.catalog.View(), params)
}

// MetricRequests projects search results to fetch plans.
func (c *Client) MetricRequests(results search.Results) []download.MetricRequest {
	return download.ToMetricRequests(results, c.config.basePath())
}

// Download materializes search results into a single table. The caller must
// Release the returned record.
func (c *Client) Download(ctx context.Context, results search.Results, opts download.Options) (arrow.Record, error) {
	return download.Download(ctx, c.db, results, c.config.basePath(), opts)
}

// SearchAndDownload runs a search and materializes its results in one call.
// The caller must Release the returned record.
func (c *Client) SearchAndDownload(ctx context.Context, params search.Params, opts download.Options) (arrow.Record, error) {
	results, err := c.Search(params)
	if err != nil {
		return nil, err
	}
	return c.Download(ctx, results, opts)
}

// Close releases the embedded database.
func (c *Client) Close() error {
	return c.db.Close()
}
