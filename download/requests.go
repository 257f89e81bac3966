// Package download turns matched catalog rows into concrete fetch plans,
// executes them concurrently and joins metric values to geometries into one
// result table.
package download

import (
	"errors"
	"strings"

	"github.com/censuskit/censuskit-go/geo"
	"github.com/censuskit/censuskit-go/search"
)

// Shape errors raised before any fetch starts. They indicate the request
// cannot be materialized, not a transient failure.
var (
	// ErrNoMetricRequests indicates the search results project to zero
	// fetchable metrics.
	ErrNoMetricRequests = errors.New("no metric requests derived from search results")

	// ErrNoGeometryFiles indicates no geometry file is referenced by the
	// metric requests.
	ErrNoGeometryFiles = errors.New("no geometry files for the metric requests")

	// ErrMultipleGeometryFiles indicates the matched metrics span more
	// than one geometry file, which is not supported in a single download.
	ErrMultipleGeometryFiles = errors.New("multiple geometry files are not supported")

	// ErrMultipleRegionSpecs indicates more than one region specification
	// was supplied.
	ErrMultipleRegionSpecs = errors.New("multiple region specifications are not supported")
)

// MetricRequest is a resolved (column, metric file, geometry file) triple
// ready to be fetched. Derived from the catalog, never persisted.
type MetricRequest struct {
	Column     string
	MetricFile string
	GeomFile   string
}

// Options controls materialization of search results.
type Options struct {
	// IncludeGeoms joins geometry features onto the metric values.
	IncludeGeoms bool
	// Region restricts fetched geometries; at most one spec, and only
	// bounding boxes filter.
	Region []geo.RegionSpec
}

// ToMetricRequests projects search results to fetch plans, one per matched
// (metric, country) row.
func ToMetricRequests(results search.Results, basePath string) []MetricRequest {
	base := strings.TrimRight(basePath, "/")
	out := make([]MetricRequest, 0, len(results.Rows))
	for _, row := range results.Rows {
		out = append(out, MetricRequest{
			Column:     row.Metric.ParquetColumn,
			MetricFile: base + "/" + row.Metric.ParquetPath,
			GeomFile:   base + "/" + row.Geometry.FilepathStem + ".fgb",
		})
	}
	return out
}

// distinctGeomFiles returns the distinct non-empty geometry files in first
// appearance order.
func distinctGeomFiles(requests []MetricRequest) []string {
	seen := make(map[string]bool, len(requests))
	var out []string
	for _, r := range requests {
		if r.GeomFile == "" || seen[r.GeomFile] {
			continue
		}
		seen[r.GeomFile] = true
		out = append(out, r.GeomFile)
	}
	return out
}

// fileColumns groups requested columns by metric file, keeping files in
// first-appearance order and columns in request order.
func fileColumns(requests []MetricRequest) ([]string, map[string][]string) {
	var files []string
	cols := make(map[string][]string)
	for _, r := range requests {
		if _, ok := cols[r.MetricFile]; !ok {
			files = append(files, r.MetricFile)
		}
		cols[r.MetricFile] = append(cols[r.MetricFile], r.Column)
	}
	return files, cols
}
