package search

import (
	"fmt"
	"regexp"
	"time"

	"github.com/censuskit/censuskit-go/metadata"
)

// Predicate is a boolean filter over denormalized catalog rows. A nil
// Predicate means every row matches.
type Predicate func(*metadata.CatalogRow) bool

// Compile translates the search parameters into a single predicate. Invalid
// regular expressions and other validation problems surface here, before any
// fetch happens. A nil predicate with nil error means match-all.
func (p Params) Compile() (Predicate, error) {
	var refinements []Predicate

	for _, t := range p.Texts {
		pred, err := compileText(t)
		if err != nil {
			return nil, err
		}
		refinements = append(refinements, pred)
	}

	if len(p.YearRanges) > 0 {
		var ranges []Predicate
		for _, yr := range p.YearRanges {
			ranges = append(ranges, compileYearRange(yr))
		}
		refinements = append(refinements, anyOf(ranges))
	}

	single := []struct {
		facet  *Value
		column func(*metadata.CatalogRow) string
	}{
		{p.GeometryLevel, func(r *metadata.CatalogRow) string { return r.Geometry.Level }},
		{p.SourceDataRelease, func(r *metadata.CatalogRow) string { return r.Release.Name }},
		{p.DataPublisher, func(r *metadata.CatalogRow) string { return r.Publisher.Name }},
		{p.SourceDownloadURL, func(r *metadata.CatalogRow) string { return r.Metric.DownloadURL }},
		{p.SourceMetricID, func(r *metadata.CatalogRow) string { return r.Metric.SourceID }},
	}
	for _, s := range single {
		if s.facet == nil {
			continue
		}
		match, err := compileMatcher(s.facet.Config, s.facet.Value)
		if err != nil {
			return nil, err
		}
		column := s.column
		refinements = append(refinements, func(r *metadata.CatalogRow) bool {
			return match(column(r))
		})
	}

	if p.Country != nil {
		pred, err := compileCountry(*p.Country)
		if err != nil {
			return nil, err
		}
		refinements = append(refinements, pred)
	}

	var identities []Predicate
	for _, id := range p.MetricIDs {
		cfg := id.Config
		if !id.Explicit {
			cfg = DefaultMetricIDConfig()
		}
		match, err := compileMatcher(cfg, id.ID)
		if err != nil {
			return nil, err
		}
		identities = append(identities, func(r *metadata.CatalogRow) bool {
			return match(r.Metric.ID)
		})
	}

	refinement := allOf(refinements)
	identity := anyOf(identities)
	switch {
	case refinement != nil && identity != nil:
		return func(r *metadata.CatalogRow) bool { return refinement(r) || identity(r) }, nil
	case refinement != nil:
		return refinement, nil
	default:
		return identity, nil
	}
}

// compileMatcher builds a string matcher for one facet value. Literal inputs
// are escaped for the non-regex modes; exact and prefix modes anchor the
// pattern.
func compileMatcher(cfg Config, value string) (func(string) bool, error) {
	var pattern string
	switch cfg.MatchType {
	case MatchExact:
		pattern = "^" + regexp.QuoteMeta(value) + "$"
	case MatchStartswith:
		pattern = "^" + regexp.QuoteMeta(value)
	case MatchContains:
		pattern = regexp.QuoteMeta(value)
	case MatchRegex:
		pattern = value
	default:
		return nil, fmt.Errorf("unknown match type %d", cfg.MatchType)
	}
	if cfg.CaseSensitivity == CaseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern %q: %w", value, err)
	}
	return re.MatchString, nil
}

// compileText expands one text search into an OR over its context columns.
func compileText(t Text) (Predicate, error) {
	match, err := compileMatcher(t.Config, t.Text)
	if err != nil {
		return nil, err
	}
	contexts := t.Context
	if len(contexts) == 0 {
		contexts = AllContexts()
	}
	var preds []Predicate
	for _, c := range contexts {
		var column func(*metadata.CatalogRow) string
		switch c {
		case ContextHxl:
			column = func(r *metadata.CatalogRow) string { return r.Metric.HxlTag }
		case ContextHumanReadableName:
			column = func(r *metadata.CatalogRow) string { return r.Metric.HumanReadableName }
		case ContextDescription:
			column = func(r *metadata.CatalogRow) string { return r.Metric.Description }
		default:
			return nil, fmt.Errorf("unknown search context %d", c)
		}
		preds = append(preds, func(r *metadata.CatalogRow) bool { return match(column(r)) })
	}
	return anyOf(preds), nil
}

// compileCountry OR-combines the country value over every country-naming
// column plus the publisher's exploded country of interest. Country matching
// is always case-insensitive, whatever the requested sensitivity.
func compileCountry(v Value) (Predicate, error) {
	cfg := v.Config
	cfg.CaseSensitivity = CaseInsensitive
	match, err := compileMatcher(cfg, v.Value)
	if err != nil {
		return nil, err
	}
	return func(r *metadata.CatalogRow) bool {
		return match(r.Country.NameShortEn) ||
			match(r.Country.NameOfficial) ||
			match(r.Country.ISO2) ||
			match(r.Country.ISO3) ||
			match(r.Country.ISO3166Dash2) ||
			match(r.PublisherCountry)
	}, nil
}

// compileYearRange matches the release reference period against a year
// constraint using closed intervals; Before/After compare against the last
// and first day of the year respectively.
func compileYearRange(yr YearRange) Predicate {
	switch y := yr.(type) {
	case Before:
		cutoff := endOfYear(y.Year)
		return func(r *metadata.CatalogRow) bool {
			return !r.Release.ReferencePeriodStart.After(cutoff)
		}
	case After:
		cutoff := startOfYear(y.Year)
		return func(r *metadata.CatalogRow) bool {
			return !r.Release.ReferencePeriodEnd.Before(cutoff)
		}
	case Between:
		lo, hi := startOfYear(y.Start), endOfYear(y.End)
		return func(r *metadata.CatalogRow) bool {
			start, end := r.Release.ReferencePeriodStart, r.Release.ReferencePeriodEnd
			// Period covers the interval start, covers the interval end,
			// or lies entirely inside the interval.
			return (!start.After(lo) && !end.Before(lo)) ||
				(!start.After(hi) && !end.Before(hi)) ||
				(!start.Before(lo) && !end.After(hi))
		}
	default:
		return func(*metadata.CatalogRow) bool { return false }
	}
}

func startOfYear(y int) time.Time {
	return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func endOfYear(y int) time.Time {
	return time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// allOf AND-combines predicates; nil when the list is empty.
func allOf(preds []Predicate) Predicate {
	if len(preds) == 0 {
		return nil
	}
	return func(r *metadata.CatalogRow) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// anyOf OR-combines predicates; nil when the list is empty.
func anyOf(preds []Predicate) Predicate {
	if len(preds) == 0 {
		return nil
	}
	return func(r *metadata.CatalogRow) bool {
		for _, p := range preds {
			if p(r) {
				return true
			}
		}
		return false
	}
}
