package download

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
	"golang.org/x/sync/errgroup"

	"github.com/censuskit/censuskit-go/internal/duckdbx"
	"github.com/censuskit/censuskit-go/internal/tables"
	"github.com/censuskit/censuskit-go/metadata"
)

// FetchColumns fetches the requested columns plus the key column from one
// remote columnar file, filtered to keyIDs when supplied. The caller must
// Release the returned record.
func FetchColumns(ctx context.Context, db *sql.DB, fileURL string, columns, keyIDs []string) (arrow.Record, error) {
	requests := make([]MetricRequest, len(columns))
	for i, c := range columns {
		requests[i] = MetricRequest{Column: c, MetricFile: fileURL}
	}
	query := ToSQL(requests, keyIDs)
	slog.Debug("fetching metric columns", "url", fileURL, "columns", len(columns))
	rec, err := duckdbx.QueryRecord(ctx, db, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch columns from %q: %w", fileURL, err)
	}
	return rec, nil
}

// fetchMetrics retrieves every requested metric column, one concurrent fetch
// per distinct file, then inner-joins the per-file tables pairwise in file
// order. The key column ends up first.
func fetchMetrics(ctx context.Context, db *sql.DB, requests []MetricRequest, keyIDs []string) (arrow.Record, error) {
	files, cols := fileColumns(requests)
	if len(files) == 0 {
		return nil, ErrNoMetricRequests
	}

	recs := make([]arrow.Record, len(files))
	defer func() {
		for _, rec := range recs {
			if rec != nil {
				rec.Release()
			}
		}
	}()

	eg, fetchCtx := errgroup.WithContext(ctx)
	for i, file := range files {
		eg.Go(func() error {
			rec, err := FetchColumns(fetchCtx, db, file, cols[file], keyIDs)
			if err != nil {
				return err
			}
			recs[i] = rec
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	joined := recs[0]
	recs[0] = nil
	for i := 1; i < len(recs); i++ {
		next, err := tables.InnerJoin(joined, recs[i], metadata.ColGeoID)
		joined.Release()
		if err != nil {
			return nil, fmt.Errorf("failed to join metric tables: %w", err)
		}
		joined = next
	}
	return joined, nil
}
