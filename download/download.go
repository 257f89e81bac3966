package download

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
	"golang.org/x/sync/errgroup"

	"github.com/censuskit/censuskit-go/geo"
	"github.com/censuskit/censuskit-go/internal/tables"
	"github.com/censuskit/censuskit-go/metadata"
	"github.com/censuskit/censuskit-go/search"
)

// Download materializes search results into a single table: metric values
// fetched from their parquet files, optionally joined to geometry features.
// Metric and geometry fetches run concurrently; any sub-fetch failure cancels
// the rest and no partial result is returned. The caller must Release the
// returned record.
func Download(ctx context.Context, db *sql.DB, results search.Results, basePath string, opts Options) (arrow.Record, error) {
	requests := ToMetricRequests(results, basePath)
	if len(requests) == 0 {
		return nil, ErrNoMetricRequests
	}

	geomFiles := distinctGeomFiles(requests)
	switch {
	case len(geomFiles) == 0:
		return nil, fmt.Errorf("%w: %d requests", ErrNoGeometryFiles, len(requests))
	case len(geomFiles) > 1:
		return nil, fmt.Errorf("%w: %v", ErrMultipleGeometryFiles, geomFiles)
	}

	var bbox *geo.BBox
	if opts.IncludeGeoms {
		if len(opts.Region) > 1 {
			return nil, fmt.Errorf("%w: %d given", ErrMultipleRegionSpecs, len(opts.Region))
		}
		if len(opts.Region) == 1 {
			bbox = geo.BBoxOf(opts.Region[0])
		}
		if bbox != nil {
			slog.Warn("bounding box must be in the same coordinate reference system as the requested geometry",
				"bbox", bbox)
		}
	}

	var metrics, geoms arrow.Record
	eg, fetchCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		rec, err := fetchMetrics(fetchCtx, db, requests, nil)
		if err != nil {
			return err
		}
		metrics = rec
		return nil
	})
	if opts.IncludeGeoms {
		eg.Go(func() error {
			rec, err := geo.FetchGeometries(fetchCtx, db, geomFiles[0], bbox)
			if err != nil {
				return err
			}
			geoms = rec
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		if metrics != nil {
			metrics.Release()
		}
		if geoms != nil {
			geoms.Release()
		}
		return nil, err
	}

	if !opts.IncludeGeoms {
		return metrics, nil
	}

	defer metrics.Release()
	defer geoms.Release()
	joined, err := tables.InnerJoin(geoms, metrics, metadata.ColGeoID)
	if err != nil {
		return nil, fmt.Errorf("failed to join geometries to metrics: %w", err)
	}
	return joined, nil
}
