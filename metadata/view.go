package metadata

// View returns the denormalized catalog view: Metric joined to its
// SourceDataRelease, GeometryMetadata and DataPublisher, with the publisher's
// countries-of-interest list exploded into one row per country and joined to
// the Country relation. All joins are inner joins: a metric whose chain is
// incomplete simply does not appear; that is not an error.
//
// The view is computed on first use and memoized; the catalog is immutable so
// the result can be shared across concurrent searches.
func (c *Catalog) View() []CatalogRow {
	c.viewOnce.Do(func() {
		c.view = c.buildView()
	})
	return c.view
}

func (c *Catalog) buildView() []CatalogRow {
	releases := make(map[string]SourceDataRelease, len(c.SourceDataReleases))
	for _, r := range c.SourceDataReleases {
		releases[r.ID] = r
	}
	geometries := make(map[string]GeometryMetadata, len(c.Geometries))
	for _, g := range c.Geometries {
		geometries[g.ID] = g
	}
	publishers := make(map[string]DataPublisher, len(c.DataPublishers))
	for _, p := range c.DataPublishers {
		publishers[p.ID] = p
	}
	countries := make(map[string]Country, len(c.Countries))
	for _, co := range c.Countries {
		countries[co.ID] = co
	}

	var rows []CatalogRow
	for _, m := range c.Metrics {
		rel, ok := releases[m.ReleaseID]
		if !ok {
			continue
		}
		geom, ok := geometries[rel.GeometryID]
		if !ok {
			continue
		}
		pub, ok := publishers[rel.PublisherID]
		if !ok {
			continue
		}
		for _, countryID := range pub.CountriesOfInterest {
			country, ok := countries[countryID]
			if !ok {
				continue
			}
			rows = append(rows, CatalogRow{
				Metric:           m,
				Release:          rel,
				Geometry:         geom,
				Publisher:        pub,
				PublisherCountry: countryID,
				Country:          country,
			})
		}
	}
	return rows
}
