package metadata

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestCountryListLocal(t *testing.T) {
	dir := t.TempDir()
	content := "be\n\n  nl  \nusa\n"
	if err := os.WriteFile(filepath.Join(dir, FileCountryList), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := countryList(context.Background(), dir)
	if err != nil {
		t.Fatalf("countryList() error: %v", err)
	}
	want := []string{"be", "nl", "usa"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("countryList() = %v, want %v", got, want)
	}
}

func TestCountryListEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileCountryList), []byte("\n \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := countryList(context.Background(), dir); err == nil {
		t.Fatal("expected error for empty country list")
	}
}

func TestCountryListMissing(t *testing.T) {
	if _, err := countryList(context.Background(), t.TempDir()); err == nil {
		t.Fatal("expected error for missing country list")
	}
}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/releases", true},
		{"http://example.com", true},
		{"/var/data/releases", false},
		{"releases", false},
	}
	for _, tt := range tests {
		if got := isRemote(tt.in); got != tt.want {
			t.Errorf("isRemote(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestJoinPath(t *testing.T) {
	got := joinPath("https://example.com/v1/", "be", "metric_metadata.parquet")
	want := "https://example.com/v1/be/metric_metadata.parquet"
	if got != want {
		t.Errorf("joinPath() = %q, want %q", got, want)
	}
}

func TestMetricsFromRowsToleratesMissingColumns(t *testing.T) {
	rows := []map[string]any{
		{
			ColMetricID:             "m1",
			ColMetricName:           []byte("Population"),
			ColMetricParquetColumn:  "pop",
			ColMetricDenominatorIDs: []any{"m2", "m3"},
		},
	}
	got := metricsFromRows(rows)
	if len(got) != 1 {
		t.Fatalf("got %d metrics, want 1", len(got))
	}
	m := got[0]
	if m.ID != "m1" || m.HumanReadableName != "Population" || m.ParquetColumn != "pop" {
		t.Errorf("unexpected metric: %+v", m)
	}
	if !reflect.DeepEqual(m.DenominatorIDs, []string{"m2", "m3"}) {
		t.Errorf("DenominatorIDs = %v, want [m2 m3]", m.DenominatorIDs)
	}
	// Columns absent from the source file come through as zero values.
	if m.MOEColumn != "" || m.ArchivePath != "" {
		t.Errorf("expected empty optional columns, got %+v", m)
	}
}

func TestReleasesFromRowsDates(t *testing.T) {
	published := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []map[string]any{
		{
			ColReleaseID:            "r1",
			ColReleaseDatePublished: published,
			ColReleaseNextUpdate:    nil,
		},
	}
	got := releasesFromRows(rows)
	if len(got) != 1 {
		t.Fatalf("got %d releases, want 1", len(got))
	}
	if !got[0].DatePublished.Equal(published) {
		t.Errorf("DatePublished = %v, want %v", got[0].DatePublished, published)
	}
	if !got[0].ExpectNextUpdate.IsZero() {
		t.Errorf("ExpectNextUpdate = %v, want zero", got[0].ExpectNextUpdate)
	}
}

func TestSQLString(t *testing.T) {
	if got, want := sqlString("it's"), "'it''s'"; got != want {
		t.Errorf("sqlString() = %q, want %q", got, want)
	}
}
