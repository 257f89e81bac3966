// Package metadata loads, merges and joins the per-country metadata relations
// that describe every published metric, release, publisher, geometry and
// country. The catalog is read-only for the process lifetime; a loaded
// Catalog may be shared freely across goroutines.
package metadata

import (
	"sync"
	"time"
)

// Metric describes one published statistical metric and where its values
// live.
type Metric struct {
	ID                string
	HumanReadableName string
	SourceID          string
	Description       string
	HxlTag            string
	ParquetPath       string
	ParquetColumn     string
	// Margin-of-error column and file are empty when the source publishes
	// none.
	MOEColumn        string
	MOEFile          string
	DenominatorIDs   []string
	ParentID         string
	ReleaseID        string
	DownloadURL      string
	ArchivePath      string
	DocumentationURL string
}

// SourceDataRelease describes one release of source data by a publisher.
type SourceDataRelease struct {
	ID                    string
	Name                  string
	DatePublished         time.Time
	ReferencePeriodStart  time.Time
	ReferencePeriodEnd    time.Time
	CollectionPeriodStart time.Time
	CollectionPeriodEnd   time.Time
	ExpectNextUpdate      time.Time
	URL                   string
	PublisherID           string
	Description           string
	GeometryID            string
}

// GeometryMetadata describes one geometry file and its validity period.
type GeometryMetadata struct {
	ID            string
	FilepathStem  string
	ValidityStart time.Time
	ValidityEnd   time.Time
	Level         string
	HxlTag        string
}

// DataPublisher describes an organisation that publishes source data.
type DataPublisher struct {
	ID          string
	Name        string
	URL         string
	Description string
	// CountriesOfInterest holds country ids; the denormalized view emits
	// one row per entry.
	CountriesOfInterest []string
}

// Country identifies a country by its official and short names and ISO codes.
type Country struct {
	ID           string
	NameShortEn  string
	NameOfficial string
	ISO3         string
	ISO2         string
	ISO3166Dash2 string
}

// Catalog holds the five unioned metadata relations for all known countries.
// It is immutable once loaded.
type Catalog struct {
	Metrics            []Metric
	SourceDataReleases []SourceDataRelease
	Geometries         []GeometryMetadata
	DataPublishers     []DataPublisher
	Countries          []Country

	viewOnce sync.Once
	view     []CatalogRow
}

// CatalogRow is one row of the denormalized catalog view: a metric joined to
// its release, geometry, publisher and one of the publisher's countries of
// interest. Every row corresponds to exactly one (metric, country) pair.
type CatalogRow struct {
	Metric    Metric
	Release   SourceDataRelease
	Geometry  GeometryMetadata
	Publisher DataPublisher
	// PublisherCountry is the single exploded entry of the publisher's
	// countries-of-interest list this row was produced for.
	PublisherCountry string
	Country          Country
}
