// Package search turns multi-facet search parameters into a single boolean
// predicate over the denormalized catalog view and applies it.
package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/censuskit/censuskit-go/geo"
)

// MatchType selects how a text value is matched against a column.
type MatchType int

const (
	// MatchExact matches the whole column value.
	MatchExact MatchType = iota
	// MatchContains matches anywhere in the column value.
	MatchContains
	// MatchStartswith matches a prefix of the column value.
	MatchStartswith
	// MatchRegex treats the value as a regular expression.
	MatchRegex
)

// CaseSensitivity selects whether matching is case sensitive.
type CaseSensitivity int

const (
	CaseInsensitive CaseSensitivity = iota
	CaseSensitive
)

// Config carries the match mode and case sensitivity for one facet. The zero
// value is exact, case-insensitive matching.
type Config struct {
	MatchType       MatchType
	CaseSensitivity CaseSensitivity
}

// Context names a catalog column a text search applies to.
type Context int

const (
	// ContextHxl searches the metric's HXL tag.
	ContextHxl Context = iota
	// ContextHumanReadableName searches the metric's human-readable name.
	ContextHumanReadableName
	// ContextDescription searches the metric's description.
	ContextDescription
)

// AllContexts returns every text search context.
func AllContexts() []Context {
	return []Context{ContextHxl, ContextHumanReadableName, ContextDescription}
}

// Text is a free-text search over one or more contexts. An empty Context
// list searches all of them.
type Text struct {
	Text    string
	Context []Context
	Config  Config
}

// YearRange is a closed set of year constraints matched against a release's
// reference period.
type YearRange interface {
	yearRange()
}

// Before matches releases whose reference period starts on or before 31 Dec
// of the year.
type Before struct{ Year int }

// After matches releases whose reference period ends on or after 1 Jan of
// the year.
type After struct{ Year int }

// Between matches releases whose reference period overlaps the closed year
// interval [Start, End].
type Between struct{ Start, End int }

func (Before) yearRange()  {}
func (After) yearRange()   {}
func (Between) yearRange() {}

// ParseYearRange parses the textual year-range grammar: "YYYY" (that single
// year), "YYYY..." (after), "...YYYY" (before) and "YYYY...YYYY" (between,
// start not after end).
func ParseYearRange(s string) (YearRange, error) {
	parts := strings.Split(s, "...")
	years := make([]int, len(parts))
	set := make([]bool, len(parts))
	for i, p := range parts {
		if p == "" {
			continue
		}
		y, err := strconv.Atoi(p)
		if err != nil || y < 0 {
			return nil, fmt.Errorf("invalid year range %q", s)
		}
		years[i], set[i] = y, true
	}
	switch {
	case len(parts) == 1 && set[0]:
		return Between{years[0], years[0]}, nil
	case len(parts) == 2 && !set[0] && set[1]:
		return Before{years[1]}, nil
	case len(parts) == 2 && set[0] && !set[1]:
		return After{years[0]}, nil
	case len(parts) == 2 && set[0] && set[1]:
		if years[0] > years[1] {
			return nil, fmt.Errorf("invalid year range %q", s)
		}
		return Between{years[0], years[1]}, nil
	default:
		return nil, fmt.Errorf("invalid year range %q", s)
	}
}

// MetricID selects metrics by identifier. The zero Config is overridden by
// DefaultMetricIDConfig at compile time unless Explicit is set.
type MetricID struct {
	ID string
	// Config defaults to prefix, case-insensitive matching; set Explicit
	// to use Config as given.
	Config   Config
	Explicit bool
}

// DefaultMetricIDConfig is the match configuration metric-id filters use
// unless overridden.
func DefaultMetricIDConfig() Config {
	return Config{MatchType: MatchStartswith, CaseSensitivity: CaseInsensitive}
}

// Value is a single-valued facet over one catalog column.
type Value struct {
	Value  string
	Config Config
}

// Params represents everything the catalog can be searched with. Every field
// is optional.
//
// Aside from MetricIDs, set facets are AND-combined; multiple values of one
// facet (texts, year ranges) are OR-combined. MetricIDs are OR-combined with
// the result of everything else: an explicitly named metric always qualifies
// regardless of other filters.
type Params struct {
	Texts             []Text
	YearRanges        []YearRange
	MetricIDs         []MetricID
	GeometryLevel     *Value
	SourceDataRelease *Value
	DataPublisher     *Value
	SourceDownloadURL *Value
	Country           *Value
	SourceMetricID    *Value
	Region            []geo.RegionSpec
}
