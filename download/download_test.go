package download

import (
	"context"
	"errors"
	"testing"

	"github.com/censuskit/censuskit-go/geo"
	"github.com/censuskit/censuskit-go/metadata"
	"github.com/censuskit/censuskit-go/search"
)

// Shape validation happens before any connection is used, so these run with
// a nil database handle.
func TestDownloadShapeErrors(t *testing.T) {
	rowWithGeom := func(stem string) metadata.CatalogRow {
		return metadata.CatalogRow{
			Metric:   metadata.Metric{ParquetColumn: "c", ParquetPath: "m.parquet"},
			Geometry: metadata.GeometryMetadata{FilepathStem: stem},
		}
	}
	bbox := geo.NewBBox(0, 0, 1, 1)

	tests := []struct {
		name    string
		results search.Results
		opts    Options
		wantErr error
	}{
		{
			name:    "no requests",
			results: search.Results{},
			wantErr: ErrNoMetricRequests,
		},
		{
			name: "multiple geometry files",
			results: search.Results{Rows: []metadata.CatalogRow{
				rowWithGeom("geoms/tract"),
				rowWithGeom("geoms/county"),
			}},
			wantErr: ErrMultipleGeometryFiles,
		},
		{
			name:    "multiple region specs",
			results: search.Results{Rows: []metadata.CatalogRow{rowWithGeom("geoms/tract")}},
			opts: Options{
				IncludeGeoms: true,
				Region:       []geo.RegionSpec{geo.BoundingBox{BBox: bbox}, geo.BoundingBox{BBox: bbox}},
			},
			wantErr: ErrMultipleRegionSpecs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Download(context.Background(), nil, tt.results, "https://example.com", tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Download() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
