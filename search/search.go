package search

import (
	"log/slog"

	"github.com/censuskit/censuskit-go/metadata"
)

// Results is the row-set of catalog view rows matched by a search.
type Results struct {
	Rows []metadata.CatalogRow
}

// Search compiles the parameters and applies them to the catalog view. With
// no facets set, the whole view is returned unchanged.
func Search(view []metadata.CatalogRow, p Params) (Results, error) {
	pred, err := p.Compile()
	if err != nil {
		return Results{}, err
	}
	if pred == nil {
		return Results{Rows: view}, nil
	}

	var rows []metadata.CatalogRow
	for i := range view {
		if pred(&view[i]) {
			rows = append(rows, view[i])
		}
	}
	slog.Debug("search complete", "matched", len(rows), "total", len(view))
	return Results{Rows: rows}, nil
}
