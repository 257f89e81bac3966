// Package geo provides region specifications (bounding boxes, polygons,
// named areas) and geometry retrieval from remote FlatGeobuf files.
package geo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// BBox is an axis-aligned bounding box (min-x, min-y, max-x, max-y) used to
// spatially prune geometry features before fetch. It must be expressed in the
// same coordinate reference system as the geometry file it filters.
type BBox struct {
	orb.Bound
}

// NewBBox builds a bounding box from its four coordinates.
func NewBBox(minX, minY, maxX, maxY float64) BBox {
	return BBox{orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}}
}

// ParseBBox parses a "minx,miny,maxx,maxy" string. Exactly four numeric
// coordinates are required and mins must not exceed maxes.
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("bounding box needs 4 coords, got %d", len(parts))
	}
	coords := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("invalid bounding box coord %q", p)
		}
		coords[i] = v
	}
	if coords[0] > coords[2] || coords[1] > coords[3] {
		return BBox{}, fmt.Errorf("bounding box mins exceed maxes: %q", s)
	}
	return NewBBox(coords[0], coords[1], coords[2], coords[3]), nil
}

func (b BBox) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y())
}

// RegionSpec is a closed set of ways to describe a region of interest. Only
// bounding boxes take part in geometry filtering; polygon and named-area
// specs are carried for callers but not yet implemented as filters.
type RegionSpec interface {
	regionSpec()
}

// BoundingBox selects features intersecting a bounding box.
type BoundingBox struct {
	BBox BBox
}

// Polygon selects features intersecting a polygon. Not implemented as a
// filter.
type Polygon struct {
	Polygon orb.Polygon
}

// NamedArea selects features belonging to a named area. Not implemented as a
// filter.
type NamedArea struct {
	Name string
}

func (BoundingBox) regionSpec() {}
func (Polygon) regionSpec()     {}
func (NamedArea) regionSpec()   {}

// BBoxOf extracts the bounding box from a region spec, if it has one.
func BBoxOf(spec RegionSpec) *BBox {
	if b, ok := spec.(BoundingBox); ok {
		bb := b.BBox
		return &bb
	}
	return nil
}
