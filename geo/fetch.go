package geo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/censuskit/censuskit-go/internal/duckdbx"
	"github.com/censuskit/censuskit-go/metadata"
)

// ErrMissingKeyColumn indicates the geometry file does not carry the
// geographic identifier property required for the metric join.
var ErrMissingKeyColumn = errors.New("geometry file has no " + metadata.ColGeoID + " property")

// ColGeometry is the name of the WKT geometry column in fetched geometry
// tables.
const ColGeometry = "geometry"

// FetchGeometries reads geometry features from a FlatGeobuf file, keeping
// only those intersecting bbox when one is supplied. The result is a
// two-column record: the geographic identifier and the geometry as WKT. The
// caller must Release it.
func FetchGeometries(ctx context.Context, db *sql.DB, fileURL string, bbox *BBox) (arrow.Record, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `SELECT "%s", ST_AsText(geom) AS %s FROM ST_Read(%s)`,
		metadata.ColGeoID, ColGeometry, sqlString(fileURL))
	var args []any
	if bbox != nil {
		sb.WriteString(" WHERE ST_Intersects(geom, ST_MakeEnvelope(?, ?, ?, ?))")
		args = append(args, bbox.Min.X(), bbox.Min.Y(), bbox.Max.X(), bbox.Max.Y())
	}

	slog.Debug("fetching geometries", "url", fileURL, "bbox", bbox)
	rec, err := duckdbx.QueryRecord(ctx, db, sb.String(), args...)
	if err != nil {
		if isMissingColumn(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingKeyColumn, fileURL)
		}
		return nil, fmt.Errorf("failed to fetch geometries from %q: %w", fileURL, err)
	}
	return rec, nil
}

// isMissingColumn reports whether an engine error is a missing-column binder
// error for the key property.
func isMissingColumn(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, metadata.ColGeoID) &&
		(strings.Contains(msg, "Binder Error") || strings.Contains(msg, "not found"))
}

func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
