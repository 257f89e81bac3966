package search

import (
	"testing"
	"time"

	"github.com/censuskit/censuskit-go/metadata"
)

// testView builds a small catalog view with distinctive names, tags and
// descriptions so match modes can be told apart by row index.
func testView() []metadata.CatalogRow {
	names := []string{"Apple", "Apple", "Pear", "apple", ".apple", "lemon"}
	tags := []string{"Red", "Yellow", "Green", "red", "Green", "yellow"}

	rows := make([]metadata.CatalogRow, len(names))
	for i := range names {
		rows[i] = metadata.CatalogRow{
			Metric: metadata.Metric{
				ID:                string(rune('a' + i)),
				HumanReadableName: names[i],
				HxlTag:            tags[i],
				Description:       tags[i],
			},
		}
	}
	return rows
}

func matchedIDs(t *testing.T, rows []metadata.CatalogRow, p Params) []string {
	t.Helper()
	results, err := Search(rows, p)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	ids := make([]string, 0, len(results.Rows))
	for _, r := range results.Rows {
		ids = append(ids, r.Metric.ID)
	}
	return ids
}

func equalIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestTextSearch(t *testing.T) {
	tests := []struct {
		name string
		text string
		mode MatchType
		cs   CaseSensitivity
		want []string
	}{
		{"regex sensitive prefix", "^A", MatchRegex, CaseSensitive, []string{"a", "b"}},
		{"regex insensitive prefix", "^A", MatchRegex, CaseInsensitive, []string{"a", "b", "d"}},
		{"exact sensitive", "Apple", MatchExact, CaseSensitive, []string{"a", "b"}},
		{"exact insensitive", "Apple", MatchExact, CaseInsensitive, []string{"a", "b", "d"}},
		{"regex as contains sensitive", "Apple", MatchRegex, CaseSensitive, []string{"a", "b"}},
		{"regex as contains insensitive", "Apple", MatchRegex, CaseInsensitive, []string{"a", "b", "d", "e"}},
		{"contains escapes literal dot", ".apple", MatchContains, CaseSensitive, []string{"e"}},
		{"startswith", "le", MatchStartswith, CaseInsensitive, []string{"f"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchedIDs(t, testView(), Params{
				Texts: []Text{{
					Text:    tt.text,
					Context: []Context{ContextHumanReadableName},
					Config:  Config{MatchType: tt.mode, CaseSensitivity: tt.cs},
				}},
			})
			if !equalIDs(got, tt.want) {
				t.Errorf("matched %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTextSearchMultipleContexts(t *testing.T) {
	// "Green" appears only in tags/descriptions; OR across contexts must
	// still find it.
	got := matchedIDs(t, testView(), Params{
		Texts: []Text{{
			Text:    "Green",
			Context: []Context{ContextHumanReadableName, ContextHxl},
			Config:  Config{MatchType: MatchExact, CaseSensitivity: CaseSensitive},
		}},
	})
	if !equalIDs(got, []string{"c", "e"}) {
		t.Errorf("matched %v, want [c e]", got)
	}
}

func TestNoFacetsReturnsEverything(t *testing.T) {
	view := testView()
	results, err := Search(view, Params{})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results.Rows) != len(view) {
		t.Errorf("matched %d rows, want all %d", len(results.Rows), len(view))
	}
}

func TestInvalidRegexFailsAtCompile(t *testing.T) {
	_, err := Search(testView(), Params{
		Texts: []Text{{Text: "(unclosed", Config: Config{MatchType: MatchRegex}}},
	})
	if err == nil {
		t.Fatal("expected error for invalid regex")
	}
}

func TestMetricIDsAreORCombined(t *testing.T) {
	// A matching metric id must survive a non-matching text filter.
	got := matchedIDs(t, testView(), Params{
		Texts: []Text{{
			Text:    "no such metric anywhere",
			Context: []Context{ContextHumanReadableName},
		}},
		MetricIDs: []MetricID{{ID: "c"}},
	})
	if !equalIDs(got, []string{"c"}) {
		t.Errorf("matched %v, want [c]", got)
	}
}

func TestMetricIDDefaultsToPrefixInsensitive(t *testing.T) {
	view := testView()
	view[0].Metric.ID = "ABC-123"
	got := matchedIDs(t, view, Params{MetricIDs: []MetricID{{ID: "abc"}}})
	if !equalIDs(got, []string{"ABC-123"}) {
		t.Errorf("matched %v, want [ABC-123]", got)
	}
}

func yearView(periods ...[2]int) []metadata.CatalogRow {
	rows := make([]metadata.CatalogRow, len(periods))
	for i, p := range periods {
		rows[i] = metadata.CatalogRow{
			Metric: metadata.Metric{ID: string(rune('a' + i))},
			Release: metadata.SourceDataRelease{
				ReferencePeriodStart: time.Date(p[0], 1, 1, 0, 0, 0, 0, time.UTC),
				ReferencePeriodEnd:   time.Date(p[1], 12, 31, 0, 0, 0, 0, time.UTC),
			},
		}
	}
	return rows
}

func TestYearRanges(t *testing.T) {
	// Reference periods: a=2000-2005, b=2003-2010, c=2011-2012, d=1990-1995.
	view := yearView([2]int{2000, 2005}, [2]int{2003, 2010}, [2]int{2011, 2012}, [2]int{1990, 1995})

	tests := []struct {
		name string
		yr   YearRange
		want []string
	}{
		{"between fully inside", Between{2001, 2004}, []string{"a", "b"}},
		{"between fully containing", Between{1999, 2013}, []string{"a", "b", "c"}},
		{"between partial overlap", Between{2005, 2006}, []string{"a", "b"}},
		{"between no overlap", Between{2020, 2021}, nil},
		{"before", Before{1995}, []string{"d"}},
		{"after", After{2011}, []string{"c"}},
		{"single year", Between{2012, 2012}, []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchedIDs(t, view, Params{YearRanges: []YearRange{tt.yr}})
			if !equalIDs(got, tt.want) {
				t.Errorf("matched %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMultipleYearRangesAreORCombined(t *testing.T) {
	view := yearView([2]int{2000, 2005}, [2]int{2011, 2012})
	got := matchedIDs(t, view, Params{
		YearRanges: []YearRange{Between{2001, 2002}, Between{2011, 2011}},
	})
	if !equalIDs(got, []string{"a", "b"}) {
		t.Errorf("matched %v, want [a b]", got)
	}
}

func TestCountryMatchesAnyColumnInsensitively(t *testing.T) {
	view := []metadata.CatalogRow{
		{
			Metric: metadata.Metric{ID: "a"},
			Country: metadata.Country{
				NameShortEn: "Belgium", NameOfficial: "Kingdom of Belgium",
				ISO2: "BE", ISO3: "BEL",
			},
			PublisherCountry: "bel",
		},
		{
			Metric:  metadata.Metric{ID: "b"},
			Country: metadata.Country{NameShortEn: "France", ISO2: "FR", ISO3: "FRA"},
		},
	}

	tests := []struct {
		name  string
		value string
		cfg   Config
		want  []string
	}{
		{"iso2 lowercase", "be", Config{MatchType: MatchExact}, []string{"a"}},
		{"short name", "belgium", Config{MatchType: MatchExact}, []string{"a"}},
		{"official name contains", "kingdom", Config{MatchType: MatchContains}, []string{"a"}},
		// Sensitivity is forced off for countries.
		{"sensitive request still matches", "BEL", Config{MatchType: MatchExact, CaseSensitivity: CaseSensitive}, []string{"a"}},
		{"no match", "germany", Config{MatchType: MatchExact}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchedIDs(t, view, Params{Country: &Value{Value: tt.value, Config: tt.cfg}})
			if !equalIDs(got, tt.want) {
				t.Errorf("matched %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFacetsAreANDCombined(t *testing.T) {
	view := testView()
	for i := range view {
		view[i].Geometry.Level = "tract"
	}
	view[0].Geometry.Level = "county"

	// Name matches rows a,b,d but level only matches a.
	got := matchedIDs(t, view, Params{
		Texts: []Text{{
			Text:    "apple",
			Context: []Context{ContextHumanReadableName},
		}},
		GeometryLevel: &Value{Value: "county"},
	})
	if !equalIDs(got, []string{"a"}) {
		t.Errorf("matched %v, want [a]", got)
	}
}
