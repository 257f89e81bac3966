package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Load discovers the country list at the base path and loads the metadata
// relations for every country concurrently, unioning them into a single
// catalog. Union order follows the country-list order so results are
// deterministic regardless of which country finishes first. Any single
// failed fetch fails the whole load.
func Load(ctx context.Context, db *sql.DB, basePath string) (*Catalog, error) {
	countries, err := countryList(ctx, basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read country list: %w", err)
	}
	slog.Info("loading metadata catalog", "base", basePath, "countries", countries)

	perCountry := make([]*Catalog, len(countries))
	eg, ctx := errgroup.WithContext(ctx)
	for i, country := range countries {
		eg.Go(func() error {
			cat, err := LoadCountry(ctx, db, basePath, country)
			if err != nil {
				return err
			}
			perCountry[i] = cat
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	merged := &Catalog{}
	for _, cat := range perCountry {
		merged.Metrics = append(merged.Metrics, cat.Metrics...)
		merged.SourceDataReleases = append(merged.SourceDataReleases, cat.SourceDataReleases...)
		merged.Geometries = append(merged.Geometries, cat.Geometries...)
		merged.DataPublishers = append(merged.DataPublishers, cat.DataPublishers...)
		merged.Countries = append(merged.Countries, cat.Countries...)
	}
	slog.Info("metadata catalog loaded",
		"metrics", len(merged.Metrics),
		"releases", len(merged.SourceDataReleases),
		"geometries", len(merged.Geometries),
		"publishers", len(merged.DataPublishers),
		"countries", len(merged.Countries))
	return merged, nil
}

// LoadCountry fetches the five metadata relations for one country, all five
// requests in flight at once.
func LoadCountry(ctx context.Context, db *sql.DB, basePath, country string) (*Catalog, error) {
	cat := &Catalog{}
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		rows, err := relationRows(ctx, db, basePath, country, FileMetricMetadata)
		if err != nil {
			return err
		}
		cat.Metrics = metricsFromRows(rows)
		return nil
	})
	eg.Go(func() error {
		rows, err := relationRows(ctx, db, basePath, country, FileSourceReleases)
		if err != nil {
			return err
		}
		cat.SourceDataReleases = releasesFromRows(rows)
		return nil
	})
	eg.Go(func() error {
		rows, err := relationRows(ctx, db, basePath, country, FileGeometryMetadata)
		if err != nil {
			return err
		}
		cat.Geometries = geometriesFromRows(rows)
		return nil
	})
	eg.Go(func() error {
		rows, err := relationRows(ctx, db, basePath, country, FileDataPublishers)
		if err != nil {
			return err
		}
		cat.DataPublishers = publishersFromRows(rows)
		return nil
	})
	eg.Go(func() error {
		rows, err := relationRows(ctx, db, basePath, country, FileCountryMetadata)
		if err != nil {
			return err
		}
		cat.Countries = countriesFromRows(rows)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load metadata for %q: %w", country, err)
	}
	return cat, nil
}

// countryList retrieves the newline-delimited country index, over HTTP for
// remote base paths and from the filesystem otherwise.
func countryList(ctx context.Context, basePath string) ([]string, error) {
	var raw []byte
	if isRemote(basePath) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinPath(basePath, FileCountryList), nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("GET %s: %s", req.URL, resp.Status)
		}
		raw, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		raw, err = os.ReadFile(filepath.Join(basePath, FileCountryList))
		if err != nil {
			return nil, err
		}
	}

	var countries []string
	for _, line := range strings.Split(string(raw), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			countries = append(countries, line)
		}
	}
	if len(countries) == 0 {
		return nil, fmt.Errorf("country list at %q is empty", basePath)
	}
	return countries, nil
}

func isRemote(basePath string) bool {
	return strings.HasPrefix(basePath, "http://") || strings.HasPrefix(basePath, "https://")
}

func joinPath(base string, parts ...string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")
}

// relationRows scans one remote metadata parquet file into generic row maps.
// Scanning the full column set by name lets countries that omit optional
// columns widen to NULL instead of failing the load.
func relationRows(ctx context.Context, db *sql.DB, basePath, country, file string) ([]map[string]any, error) {
	url := joinPath(basePath, country, file)
	slog.Debug("loading metadata relation", "url", url)
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM read_parquet(%s)", sqlString(url)))
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", url, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	for rows.Next() {
		dest := make([]any, len(cols))
		for i := range dest {
			var v any
			dest[i] = &v
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %q: %w", url, err)
		}
		m := make(map[string]any, len(cols))
		for i, c := range cols {
			m[c] = *(dest[i].(*any))
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", url, err)
	}
	return out, nil
}

// sqlString quotes a string as a SQL literal, doubling embedded quotes.
func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func rowString(m map[string]any, col string) string {
	switch v := m[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func rowTime(m map[string]any, col string) time.Time {
	if v, ok := m[col].(time.Time); ok {
		return v.UTC()
	}
	return time.Time{}
}

func rowStrings(m map[string]any, col string) []string {
	switch v := m[col].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func metricsFromRows(rows []map[string]any) []Metric {
	out := make([]Metric, 0, len(rows))
	for _, m := range rows {
		out = append(out, Metric{
			ID:                rowString(m, ColMetricID),
			HumanReadableName: rowString(m, ColMetricName),
			SourceID:          rowString(m, ColMetricSourceID),
			Description:       rowString(m, ColMetricDescription),
			HxlTag:            rowString(m, ColMetricHxlTag),
			ParquetPath:       rowString(m, ColMetricParquetPath),
			ParquetColumn:     rowString(m, ColMetricParquetColumn),
			MOEColumn:         rowString(m, ColMetricMOEColumn),
			MOEFile:           rowString(m, ColMetricMOEFile),
			DenominatorIDs:    rowStrings(m, ColMetricDenominatorIDs),
			ParentID:          rowString(m, ColMetricParentID),
			ReleaseID:         rowString(m, ColMetricReleaseID),
			DownloadURL:       rowString(m, ColMetricDownloadURL),
			ArchivePath:       rowString(m, ColMetricArchivePath),
			DocumentationURL:  rowString(m, ColMetricDocumentation),
		})
	}
	return out
}

func releasesFromRows(rows []map[string]any) []SourceDataRelease {
	out := make([]SourceDataRelease, 0, len(rows))
	for _, m := range rows {
		out = append(out, SourceDataRelease{
			ID:                    rowString(m, ColReleaseID),
			Name:                  rowString(m, ColReleaseName),
			DatePublished:         rowTime(m, ColReleaseDatePublished),
			ReferencePeriodStart:  rowTime(m, ColReleaseRefPeriodStart),
			ReferencePeriodEnd:    rowTime(m, ColReleaseRefPeriodEnd),
			CollectionPeriodStart: rowTime(m, ColReleaseCollPeriodStart),
			CollectionPeriodEnd:   rowTime(m, ColReleaseCollPeriodEnd),
			ExpectNextUpdate:      rowTime(m, ColReleaseNextUpdate),
			URL:                   rowString(m, ColReleaseURL),
			PublisherID:           rowString(m, ColReleasePublisherID),
			Description:           rowString(m, ColReleaseDescription),
			GeometryID:            rowString(m, ColReleaseGeometryID),
		})
	}
	return out
}

func geometriesFromRows(rows []map[string]any) []GeometryMetadata {
	out := make([]GeometryMetadata, 0, len(rows))
	for _, m := range rows {
		out = append(out, GeometryMetadata{
			ID:            rowString(m, ColGeometryID),
			FilepathStem:  rowString(m, ColGeometryFilepathStem),
			ValidityStart: rowTime(m, ColGeometryValidityStart),
			ValidityEnd:   rowTime(m, ColGeometryValidityEnd),
			Level:         rowString(m, ColGeometryLevel),
			HxlTag:        rowString(m, ColGeometryHxlTag),
		})
	}
	return out
}

func publishersFromRows(rows []map[string]any) []DataPublisher {
	out := make([]DataPublisher, 0, len(rows))
	for _, m := range rows {
		out = append(out, DataPublisher{
			ID:                  rowString(m, ColPublisherID),
			Name:                rowString(m, ColPublisherName),
			URL:                 rowString(m, ColPublisherURL),
			Description:         rowString(m, ColPublisherDesc),
			CountriesOfInterest: rowStrings(m, ColPublisherCountries),
		})
	}
	return out
}

func countriesFromRows(rows []map[string]any) []Country {
	out := make([]Country, 0, len(rows))
	for _, m := range rows {
		out = append(out, Country{
			ID:           rowString(m, ColCountryID),
			NameShortEn:  rowString(m, ColCountryNameShort),
			NameOfficial: rowString(m, ColCountryNameOfficl),
			ISO3:         rowString(m, ColCountryISO3),
			ISO2:         rowString(m, ColCountryISO2),
			ISO3166Dash2: rowString(m, ColCountryISO31662),
		})
	}
	return out
}
