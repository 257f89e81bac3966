// Package censuskit is a search-and-retrieval engine for a federated catalog
// of census-style metrics and their geographic boundaries, published as
// per-country parquet files and FlatGeobuf geometries on remote object
// storage.
//
// The package resolves a structured description of the wanted data (text
// searches, metric identifiers, year ranges, geometry level, publisher,
// country, bounding box) into a concrete materialized table: metric values
// joined to geometry by their shared geographic identifier.
//
// # Quick start
//
//	client, err := censuskit.New(ctx, censuskit.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	results, err := client.Search(search.Params{
//	    Texts: []search.Text{{Text: "population", Context: search.AllContexts()}},
//	    Country: &search.Value{Value: "BE"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	table, err := client.Download(ctx, results, download.Options{IncludeGeoms: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer table.Release()
//
// # Architecture
//
// Three subsystems do the work:
//
//   - search compiles the multi-facet parameters into one boolean predicate
//     over the denormalized catalog view, with AND across facets, OR within
//     a facet, and metric ids OR-combined with everything else.
//   - metadata loads the five per-country metadata relations concurrently,
//     unions them across countries, and joins them into the view. An
//     optional on-disk cache snapshots the relations as compressed Arrow IPC.
//   - download partitions matched rows into per-file fetch plans, fetches
//     metric columns and geometries concurrently through embedded DuckDB,
//     and inner-joins everything on the geographic identifier. ToSQL emits
//     the equivalent SQL without executing it.
//
// Result tables are Arrow records; callers MUST Release records they are
// handed. All long-running operations take a context and stop on
// cancellation. Logging goes through log/slog.Default().
package censuskit
