// Package tables implements pure in-memory operations over Arrow records:
// key joins and column extraction used by the materialization engine. All
// functions here are synchronous compute and safe to call from any goroutine;
// none of them perform I/O.
package tables

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ColumnIndex returns the index of the named column, or -1 if absent.
func ColumnIndex(rec arrow.Record, name string) int {
	for i, f := range rec.Schema().Fields() {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// StringColumn extracts the named column as a string slice. The column must
// be a string array; null entries become empty strings.
func StringColumn(rec arrow.Record, name string) ([]string, error) {
	idx := ColumnIndex(rec, name)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found", name)
	}
	col, ok := rec.Column(idx).(*array.String)
	if !ok {
		return nil, fmt.Errorf("column %q is %s, not string", name, rec.Column(idx).DataType())
	}
	out := make([]string, col.Len())
	for i := 0; i < col.Len(); i++ {
		if col.IsValid(i) {
			out[i] = col.Value(i)
		}
	}
	return out, nil
}

// InnerJoin joins two records on a shared string key column. The result has
// the key column first, then the remaining left columns, then the remaining
// right columns. Rows without a match on the other side are dropped; an
// empty result is valid. When a key occurs multiple times on the right,
// each occurrence produces an output row. The caller must Release the
// returned record.
func InnerJoin(left, right arrow.Record, key string) (arrow.Record, error) {
	leftKeys, err := StringColumn(left, key)
	if err != nil {
		return nil, fmt.Errorf("left side: %w", err)
	}
	rightKeys, err := StringColumn(right, key)
	if err != nil {
		return nil, fmt.Errorf("right side: %w", err)
	}

	rightIndex := make(map[string][]int, len(rightKeys))
	for i, k := range rightKeys {
		rightIndex[k] = append(rightIndex[k], i)
	}

	leftKeyIdx := ColumnIndex(left, key)
	rightKeyIdx := ColumnIndex(right, key)

	fields := []arrow.Field{left.Schema().Field(leftKeyIdx)}
	for i, f := range left.Schema().Fields() {
		if i != leftKeyIdx {
			fields = append(fields, f)
		}
	}
	for i, f := range right.Schema().Fields() {
		if i != rightKeyIdx {
			fields = append(fields, f)
		}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	for li, k := range leftKeys {
		for _, ri := range rightIndex[k] {
			out := 0
			if err := appendCell(builder.Field(out), left.Column(leftKeyIdx), li); err != nil {
				return nil, err
			}
			out++
			for ci := 0; ci < int(left.NumCols()); ci++ {
				if ci == leftKeyIdx {
					continue
				}
				if err := appendCell(builder.Field(out), left.Column(ci), li); err != nil {
					return nil, err
				}
				out++
			}
			for ci := 0; ci < int(right.NumCols()); ci++ {
				if ci == rightKeyIdx {
					continue
				}
				if err := appendCell(builder.Field(out), right.Column(ci), ri); err != nil {
					return nil, err
				}
				out++
			}
		}
	}

	return builder.NewRecord(), nil
}

// appendCell copies one cell from a source array into a builder of the same
// type.
func appendCell(b array.Builder, col arrow.Array, row int) error {
	if col.IsNull(row) {
		b.AppendNull()
		return nil
	}
	switch src := col.(type) {
	case *array.String:
		fb, ok := b.(*array.StringBuilder)
		if !ok {
			return fmt.Errorf("builder type %T does not match string column", b)
		}
		fb.Append(src.Value(row))
	case *array.Int64:
		fb, ok := b.(*array.Int64Builder)
		if !ok {
			return fmt.Errorf("builder type %T does not match int64 column", b)
		}
		fb.Append(src.Value(row))
	case *array.Float64:
		fb, ok := b.(*array.Float64Builder)
		if !ok {
			return fmt.Errorf("builder type %T does not match float64 column", b)
		}
		fb.Append(src.Value(row))
	case *array.Boolean:
		fb, ok := b.(*array.BooleanBuilder)
		if !ok {
			return fmt.Errorf("builder type %T does not match boolean column", b)
		}
		fb.Append(src.Value(row))
	default:
		return fmt.Errorf("unsupported column type %s", col.DataType())
	}
	return nil
}
