package metadata

// Column names shared with the published metadata parquet files and the
// metric/geometry data files. These must stay synchronised with the names the
// publishing pipeline emits.
const (
	// ColGeoID is the join key shared between metric tables and geometry
	// tables.
	ColGeoID = "GEO_ID"

	ColCountryID         = "country_id"
	ColCountryNameShort  = "country_name_short_en"
	ColCountryNameOfficl = "country_name_official"
	ColCountryISO3       = "country_iso3"
	ColCountryISO2       = "country_iso2"
	ColCountryISO31662   = "country_iso3166_2"

	ColPublisherID        = "data_publisher_id"
	ColPublisherName      = "data_publisher_name"
	ColPublisherURL       = "data_publisher_url"
	ColPublisherDesc      = "data_publisher_description"
	ColPublisherCountries = "data_publisher_countries_of_interest"

	ColGeometryID            = "geometry_id"
	ColGeometryFilepathStem  = "geometry_filepath_stem"
	ColGeometryValidityStart = "geometry_validity_period_start"
	ColGeometryValidityEnd   = "geometry_validity_period_end"
	ColGeometryLevel         = "geometry_level"
	ColGeometryHxlTag        = "geometry_hxl_tag"

	ColReleaseID              = "source_data_release_id"
	ColReleaseName            = "source_data_release_name"
	ColReleaseDatePublished   = "source_data_release_date_published"
	ColReleaseRefPeriodStart  = "source_data_release_reference_period_start"
	ColReleaseRefPeriodEnd    = "source_data_release_reference_period_end"
	ColReleaseCollPeriodStart = "source_data_release_collection_period_start"
	ColReleaseCollPeriodEnd   = "source_data_release_collection_period_end"
	ColReleaseNextUpdate      = "source_data_release_expect_next_update"
	ColReleaseURL             = "source_data_release_url"
	ColReleasePublisherID     = "source_data_release_data_publisher_id"
	ColReleaseDescription     = "source_data_release_description"
	ColReleaseGeometryID      = "source_data_release_geometry_metadata_id"

	ColMetricID              = "metric_id"
	ColMetricName            = "metric_human_readable_name"
	ColMetricSourceID        = "metric_source_id"
	ColMetricDescription     = "metric_description"
	ColMetricHxlTag          = "metric_hxl_tag"
	ColMetricParquetPath     = "metric_parquet_path"
	ColMetricParquetColumn   = "metric_parquet_column_name"
	ColMetricMOEColumn       = "metric_parquet_margin_of_error_column"
	ColMetricMOEFile         = "metric_parquet_margin_of_error_file"
	ColMetricDenominatorIDs  = "metric_potential_denominator_ids"
	ColMetricParentID        = "metric_parent_metric_id"
	ColMetricReleaseID       = "metric_source_data_release_id"
	ColMetricDownloadURL     = "metric_source_download_url"
	ColMetricArchivePath     = "metric_source_archive_file_path"
	ColMetricDocumentation   = "metric_source_documentation_url"
)

// Fixed file names under {base}/{country}/ for the five metadata relations.
const (
	FileMetricMetadata   = "metric_metadata.parquet"
	FileGeometryMetadata = "geometry_metadata.parquet"
	FileCountryMetadata  = "country_metadata.parquet"
	FileSourceReleases   = "source_data_releases.parquet"
	FileDataPublishers   = "data_publishers.parquet"

	// FileCountryList is the newline-delimited country index at the base
	// path root.
	FileCountryList = "countries.txt"
)
