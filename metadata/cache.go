package metadata

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/censuskit/censuskit-go/internal/serialize"
)

// On-disk cache layout: one compressed Arrow IPC snapshot per relation plus a
// msgpack manifest, all at fixed names under the cache directory.
const (
	cacheFileMetrics    = "metrics.arrow.zst"
	cacheFileReleases   = "source_data_releases.arrow.zst"
	cacheFileGeometries = "geometry_metadata.arrow.zst"
	cacheFilePublishers = "data_publishers.arrow.zst"
	cacheFileCountries  = "country_metadata.arrow.zst"
	cacheFileManifest   = "manifest.msgpack"

	cacheVersion = 1
)

// cacheManifest records where and when a cache snapshot was taken. A
// version or base-path mismatch invalidates the snapshot.
type cacheManifest struct {
	Version   int       `msgpack:"version"`
	BasePath  string    `msgpack:"base_path"`
	CreatedAt time.Time `msgpack:"created_at"`
}

// WriteCache persists the full catalog snapshot under dir, creating it if
// needed. The write is once per process lifetime; there is no
// concurrent-writer protocol. On any failure the partially written directory
// is removed before the original error is returned.
func WriteCache(cat *Catalog, dir, basePath string) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	defer func() {
		if err != nil {
			if rmErr := os.RemoveAll(dir); rmErr != nil {
				slog.Warn("failed to clean up partial cache", "dir", dir, "error", rmErr)
			}
		}
	}()

	snapshots := []struct {
		file string
		rec  arrow.Record
	}{
		{cacheFileMetrics, metricsToRecord(cat.Metrics)},
		{cacheFileReleases, releasesToRecord(cat.SourceDataReleases)},
		{cacheFileGeometries, geometriesToRecord(cat.Geometries)},
		{cacheFilePublishers, publishersToRecord(cat.DataPublishers)},
		{cacheFileCountries, countriesToRecord(cat.Countries)},
	}
	defer func() {
		for _, s := range snapshots {
			s.rec.Release()
		}
	}()

	for _, s := range snapshots {
		data, err := serialize.EncodeRecord(s.rec, memory.DefaultAllocator)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", s.file, err)
		}
		if err := os.WriteFile(filepath.Join(dir, s.file), data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", s.file, err)
		}
	}

	manifest, err := msgpack.Marshal(cacheManifest{
		Version:   cacheVersion,
		BasePath:  basePath,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, cacheFileManifest), manifest, 0o644); err != nil {
		return fmt.Errorf("failed to write cache manifest: %w", err)
	}

	slog.Debug("metadata cache written", "dir", dir)
	return nil
}

// LoadCache reads a catalog snapshot previously written by WriteCache for the
// given base path. Callers treat any error as a cache miss and fall back to a
// remote load.
func LoadCache(dir, basePath string) (*Catalog, error) {
	raw, err := os.ReadFile(filepath.Join(dir, cacheFileManifest))
	if err != nil {
		return nil, fmt.Errorf("failed to read cache manifest: %w", err)
	}
	var manifest cacheManifest
	if err := msgpack.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("failed to decode cache manifest: %w", err)
	}
	if manifest.Version != cacheVersion {
		return nil, fmt.Errorf("cache version %d does not match %d", manifest.Version, cacheVersion)
	}
	if manifest.BasePath != basePath {
		return nil, fmt.Errorf("cache was taken from %q, not %q", manifest.BasePath, basePath)
	}

	cat := &Catalog{}
	if err := loadSnapshot(dir, cacheFileMetrics, func(rec arrow.Record) (err error) {
		cat.Metrics, err = metricsFromRecord(rec)
		return err
	}); err != nil {
		return nil, err
	}
	if err := loadSnapshot(dir, cacheFileReleases, func(rec arrow.Record) (err error) {
		cat.SourceDataReleases, err = releasesFromRecord(rec)
		return err
	}); err != nil {
		return nil, err
	}
	if err := loadSnapshot(dir, cacheFileGeometries, func(rec arrow.Record) (err error) {
		cat.Geometries, err = geometriesFromRecord(rec)
		return err
	}); err != nil {
		return nil, err
	}
	if err := loadSnapshot(dir, cacheFilePublishers, func(rec arrow.Record) (err error) {
		cat.DataPublishers, err = publishersFromRecord(rec)
		return err
	}); err != nil {
		return nil, err
	}
	if err := loadSnapshot(dir, cacheFileCountries, func(rec arrow.Record) (err error) {
		cat.Countries, err = countriesFromRecord(rec)
		return err
	}); err != nil {
		return nil, err
	}

	slog.Debug("metadata cache loaded", "dir", dir, "created_at", manifest.CreatedAt)
	return cat, nil
}

func loadSnapshot(dir, file string, decode func(arrow.Record) error) error {
	data, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	rec, err := serialize.DecodeRecord(data, memory.DefaultAllocator)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", file, err)
	}
	defer rec.Release()
	if err := decode(rec); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	return nil
}
