package metadata

import (
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Arrow codecs for the cache snapshots. Each relation round-trips through a
// record with one field per struct field; dates are stored as date32 with
// NULL for unset values, string lists as list<utf8>.

var (
	stringType = arrow.BinaryTypes.String
	dateType   = arrow.FixedWidthTypes.Date32
	listType   = arrow.ListOf(arrow.BinaryTypes.String)
)

var metricSchema = arrow.NewSchema([]arrow.Field{
	{Name: ColMetricID, Type: stringType},
	{Name: ColMetricName, Type: stringType},
	{Name: ColMetricSourceID, Type: stringType},
	{Name: ColMetricDescription, Type: stringType},
	{Name: ColMetricHxlTag, Type: stringType},
	{Name: ColMetricParquetPath, Type: stringType},
	{Name: ColMetricParquetColumn, Type: stringType},
	{Name: ColMetricMOEColumn, Type: stringType},
	{Name: ColMetricMOEFile, Type: stringType},
	{Name: ColMetricDenominatorIDs, Type: listType},
	{Name: ColMetricParentID, Type: stringType},
	{Name: ColMetricReleaseID, Type: stringType},
	{Name: ColMetricDownloadURL, Type: stringType},
	{Name: ColMetricArchivePath, Type: stringType},
	{Name: ColMetricDocumentation, Type: stringType},
}, nil)

var releaseSchema = arrow.NewSchema([]arrow.Field{
	{Name: ColReleaseID, Type: stringType},
	{Name: ColReleaseName, Type: stringType},
	{Name: ColReleaseDatePublished, Type: dateType, Nullable: true},
	{Name: ColReleaseRefPeriodStart, Type: dateType, Nullable: true},
	{Name: ColReleaseRefPeriodEnd, Type: dateType, Nullable: true},
	{Name: ColReleaseCollPeriodStart, Type: dateType, Nullable: true},
	{Name: ColReleaseCollPeriodEnd, Type: dateType, Nullable: true},
	{Name: ColReleaseNextUpdate, Type: dateType, Nullable: true},
	{Name: ColReleaseURL, Type: stringType},
	{Name: ColReleasePublisherID, Type: stringType},
	{Name: ColReleaseDescription, Type: stringType},
	{Name: ColReleaseGeometryID, Type: stringType},
}, nil)

var geometrySchema = arrow.NewSchema([]arrow.Field{
	{Name: ColGeometryID, Type: stringType},
	{Name: ColGeometryFilepathStem, Type: stringType},
	{Name: ColGeometryValidityStart, Type: dateType, Nullable: true},
	{Name: ColGeometryValidityEnd, Type: dateType, Nullable: true},
	{Name: ColGeometryLevel, Type: stringType},
	{Name: ColGeometryHxlTag, Type: stringType},
}, nil)

var publisherSchema = arrow.NewSchema([]arrow.Field{
	{Name: ColPublisherID, Type: stringType},
	{Name: ColPublisherName, Type: stringType},
	{Name: ColPublisherURL, Type: stringType},
	{Name: ColPublisherDesc, Type: stringType},
	{Name: ColPublisherCountries, Type: listType},
}, nil)

var countrySchema = arrow.NewSchema([]arrow.Field{
	{Name: ColCountryID, Type: stringType},
	{Name: ColCountryNameShort, Type: stringType},
	{Name: ColCountryNameOfficl, Type: stringType},
	{Name: ColCountryISO3, Type: stringType},
	{Name: ColCountryISO2, Type: stringType},
	{Name: ColCountryISO31662, Type: stringType},
}, nil)

func appendDate(b *array.Date32Builder, t time.Time) {
	if t.IsZero() {
		b.AppendNull()
		return
	}
	b.Append(arrow.Date32FromTime(t))
}

func appendList(b *array.ListBuilder, values []string) {
	b.Append(true)
	vb := b.ValueBuilder().(*array.StringBuilder)
	for _, v := range values {
		vb.Append(v)
	}
}

func readString(rec arrow.Record, col, row int) string {
	arr := rec.Column(col).(*array.String)
	if arr.IsNull(row) {
		return ""
	}
	return arr.Value(row)
}

func readDate(rec arrow.Record, col, row int) time.Time {
	arr := rec.Column(col).(*array.Date32)
	if arr.IsNull(row) {
		return time.Time{}
	}
	return arr.Value(row).ToTime()
}

func readList(rec arrow.Record, col, row int) []string {
	arr := rec.Column(col).(*array.List)
	if arr.IsNull(row) {
		return nil
	}
	values := arr.ListValues().(*array.String)
	start, end := arr.ValueOffsets(row)
	var out []string
	for i := start; i < end; i++ {
		out = append(out, values.Value(int(i)))
	}
	return out
}

func metricsToRecord(metrics []Metric) arrow.Record {
	b := array.NewRecordBuilder(memory.DefaultAllocator, metricSchema)
	defer b.Release()
	for _, m := range metrics {
		b.Field(0).(*array.StringBuilder).Append(m.ID)
		b.Field(1).(*array.StringBuilder).Append(m.HumanReadableName)
		b.Field(2).(*array.StringBuilder).Append(m.SourceID)
		b.Field(3).(*array.StringBuilder).Append(m.Description)
		b.Field(4).(*array.StringBuilder).Append(m.HxlTag)
		b.Field(5).(*array.StringBuilder).Append(m.ParquetPath)
		b.Field(6).(*array.StringBuilder).Append(m.ParquetColumn)
		b.Field(7).(*array.StringBuilder).Append(m.MOEColumn)
		b.Field(8).(*array.StringBuilder).Append(m.MOEFile)
		appendList(b.Field(9).(*array.ListBuilder), m.DenominatorIDs)
		b.Field(10).(*array.StringBuilder).Append(m.ParentID)
		b.Field(11).(*array.StringBuilder).Append(m.ReleaseID)
		b.Field(12).(*array.StringBuilder).Append(m.DownloadURL)
		b.Field(13).(*array.StringBuilder).Append(m.ArchivePath)
		b.Field(14).(*array.StringBuilder).Append(m.DocumentationURL)
	}
	return b.NewRecord()
}

func metricsFromRecord(rec arrow.Record) ([]Metric, error) {
	if err := checkSchema(rec, metricSchema); err != nil {
		return nil, err
	}
	out := make([]Metric, 0, rec.NumRows())
	for row := 0; row < int(rec.NumRows()); row++ {
		out = append(out, Metric{
			ID:                readString(rec, 0, row),
			HumanReadableName: readString(rec, 1, row),
			SourceID:          readString(rec, 2, row),
			Description:       readString(rec, 3, row),
			HxlTag:            readString(rec, 4, row),
			ParquetPath:       readString(rec, 5, row),
			ParquetColumn:     readString(rec, 6, row),
			MOEColumn:         readString(rec, 7, row),
			MOEFile:           readString(rec, 8, row),
			DenominatorIDs:    readList(rec, 9, row),
			ParentID:          readString(rec, 10, row),
			ReleaseID:         readString(rec, 11, row),
			DownloadURL:       readString(rec, 12, row),
			ArchivePath:       readString(rec, 13, row),
			DocumentationURL:  readString(rec, 14, row),
		})
	}
	return out, nil
}

func releasesToRecord(releases []SourceDataRelease) arrow.Record {
	b := array.NewRecordBuilder(memory.DefaultAllocator, releaseSchema)
	defer b.Release()
	for _, r := range releases {
		b.Field(0).(*array.StringBuilder).Append(r.ID)
		b.Field(1).(*array.StringBuilder).Append(r.Name)
		appendDate(b.Field(2).(*array.Date32Builder), r.DatePublished)
		appendDate(b.Field(3).(*array.Date32Builder), r.ReferencePeriodStart)
		appendDate(b.Field(4).(*array.Date32Builder), r.ReferencePeriodEnd)
		appendDate(b.Field(5).(*array.Date32Builder), r.CollectionPeriodStart)
		appendDate(b.Field(6).(*array.Date32Builder), r.CollectionPeriodEnd)
		appendDate(b.Field(7).(*array.Date32Builder), r.ExpectNextUpdate)
		b.Field(8).(*array.StringBuilder).Append(r.URL)
		b.Field(9).(*array.StringBuilder).Append(r.PublisherID)
		b.Field(10).(*array.StringBuilder).Append(r.Description)
		b.Field(11).(*array.StringBuilder).Append(r.GeometryID)
	}
	return b.NewRecord()
}

func releasesFromRecord(rec arrow.Record) ([]SourceDataRelease, error) {
	if err := checkSchema(rec, releaseSchema); err != nil {
		return nil, err
	}
	out := make([]SourceDataRelease, 0, rec.NumRows())
	for row := 0; row < int(rec.NumRows()); row++ {
		out = append(out, SourceDataRelease{
			ID:                    readString(rec, 0, row),
			Name:                  readString(rec, 1, row),
			DatePublished:         readDate(rec, 2, row),
			ReferencePeriodStart:  readDate(rec, 3, row),
			ReferencePeriodEnd:    readDate(rec, 4, row),
			CollectionPeriodStart: readDate(rec, 5, row),
			CollectionPeriodEnd:   readDate(rec, 6, row),
			ExpectNextUpdate:      readDate(rec, 7, row),
			URL:                   readString(rec, 8, row),
			PublisherID:           readString(rec, 9, row),
			Description:           readString(rec, 10, row),
			GeometryID:            readString(rec, 11, row),
		})
	}
	return out, nil
}

func geometriesToRecord(geometries []GeometryMetadata) arrow.Record {
	b := array.NewRecordBuilder(memory.DefaultAllocator, geometrySchema)
	defer b.Release()
	for _, g := range geometries {
		b.Field(0).(*array.StringBuilder).Append(g.ID)
		b.Field(1).(*array.StringBuilder).Append(g.FilepathStem)
		appendDate(b.Field(2).(*array.Date32Builder), g.ValidityStart)
		appendDate(b.Field(3).(*array.Date32Builder), g.ValidityEnd)
		b.Field(4).(*array.StringBuilder).Append(g.Level)
		b.Field(5).(*array.StringBuilder).Append(g.HxlTag)
	}
	return b.NewRecord()
}

func geometriesFromRecord(rec arrow.Record) ([]GeometryMetadata, error) {
	if err := checkSchema(rec, geometrySchema); err != nil {
		return nil, err
	}
	out := make([]GeometryMetadata, 0, rec.NumRows())
	for row := 0; row < int(rec.NumRows()); row++ {
		out = append(out, GeometryMetadata{
			ID:            readString(rec, 0, row),
			FilepathStem:  readString(rec, 1, row),
			ValidityStart: readDate(rec, 2, row),
			ValidityEnd:   readDate(rec, 3, row),
			Level:         readString(rec, 4, row),
			HxlTag:        readString(rec, 5, row),
		})
	}
	return out, nil
}

func publishersToRecord(publishers []DataPublisher) arrow.Record {
	b := array.NewRecordBuilder(memory.DefaultAllocator, publisherSchema)
	defer b.Release()
	for _, p := range publishers {
		b.Field(0).(*array.StringBuilder).Append(p.ID)
		b.Field(1).(*array.StringBuilder).Append(p.Name)
		b.Field(2).(*array.StringBuilder).Append(p.URL)
		b.Field(3).(*array.StringBuilder).Append(p.Description)
		appendList(b.Field(4).(*array.ListBuilder), p.CountriesOfInterest)
	}
	return b.NewRecord()
}

func publishersFromRecord(rec arrow.Record) ([]DataPublisher, error) {
	if err := checkSchema(rec, publisherSchema); err != nil {
		return nil, err
	}
	out := make([]DataPublisher, 0, rec.NumRows())
	for row := 0; row < int(rec.NumRows()); row++ {
		out = append(out, DataPublisher{
			ID:                  readString(rec, 0, row),
			Name:                readString(rec, 1, row),
			URL:                 readString(rec, 2, row),
			Description:         readString(rec, 3, row),
			CountriesOfInterest: readList(rec, 4, row),
		})
	}
	return out, nil
}

func countriesToRecord(countries []Country) arrow.Record {
	b := array.NewRecordBuilder(memory.DefaultAllocator, countrySchema)
	defer b.Release()
	for _, co := range countries {
		b.Field(0).(*array.StringBuilder).Append(co.ID)
		b.Field(1).(*array.StringBuilder).Append(co.NameShortEn)
		b.Field(2).(*array.StringBuilder).Append(co.NameOfficial)
		b.Field(3).(*array.StringBuilder).Append(co.ISO3)
		b.Field(4).(*array.StringBuilder).Append(co.ISO2)
		b.Field(5).(*array.StringBuilder).Append(co.ISO3166Dash2)
	}
	return b.NewRecord()
}

func countriesFromRecord(rec arrow.Record) ([]Country, error) {
	if err := checkSchema(rec, countrySchema); err != nil {
		return nil, err
	}
	out := make([]Country, 0, rec.NumRows())
	for row := 0; row < int(rec.NumRows()); row++ {
		out = append(out, Country{
			ID:           readString(rec, 0, row),
			NameShortEn:  readString(rec, 1, row),
			NameOfficial: readString(rec, 2, row),
			ISO3:         readString(rec, 3, row),
			ISO2:         readString(rec, 4, row),
			ISO3166Dash2: readString(rec, 5, row),
		})
	}
	return out, nil
}

func checkSchema(rec arrow.Record, want *arrow.Schema) error {
	if !rec.Schema().Equal(want) {
		return fmt.Errorf("unexpected snapshot schema: got %v", rec.Schema())
	}
	return nil
}
