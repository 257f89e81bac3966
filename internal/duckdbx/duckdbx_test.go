package duckdbx

import (
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

func TestArrowType(t *testing.T) {
	tests := []struct {
		dbType string
		want   arrow.DataType
	}{
		{"BIGINT", arrow.PrimitiveTypes.Int64},
		{"integer", arrow.PrimitiveTypes.Int64},
		{"UBIGINT", arrow.PrimitiveTypes.Int64},
		{"DOUBLE", arrow.PrimitiveTypes.Float64},
		{"DECIMAL(18,3)", arrow.PrimitiveTypes.Float64},
		{"BOOLEAN", arrow.FixedWidthTypes.Boolean},
		{"VARCHAR", arrow.BinaryTypes.String},
		{"DATE", arrow.BinaryTypes.String},
		{"GEOMETRY", arrow.BinaryTypes.String},
	}
	for _, tt := range tests {
		if got := arrowType(tt.dbType); !arrow.TypeEqual(got, tt.want) {
			t.Errorf("arrowType(%q) = %s, want %s", tt.dbType, got, tt.want)
		}
	}
}

func TestAppendValue(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "i", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "f", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "s", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "b", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
	}, nil)
	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	cells := []struct {
		col int
		v   any
	}{
		{0, int32(7)},
		{1, float32(1.5)},
		{2, []byte("hello")},
		{3, true},
		{0, nil},
		{1, nil},
		{2, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
		{3, nil},
	}
	for _, c := range cells {
		if err := appendValue(builder.Field(c.col), c.v); err != nil {
			t.Fatalf("appendValue(col %d, %v) error: %v", c.col, c.v, err)
		}
	}

	rec := builder.NewRecord()
	defer rec.Release()

	if got := rec.Column(0).(*array.Int64).Value(0); got != 7 {
		t.Errorf("int cell = %d, want 7", got)
	}
	if got := rec.Column(1).(*array.Float64).Value(0); got != 1.5 {
		t.Errorf("float cell = %g, want 1.5", got)
	}
	if got := rec.Column(2).(*array.String).Value(0); got != "hello" {
		t.Errorf("string cell = %q, want hello", got)
	}
	if got := rec.Column(2).(*array.String).Value(1); got != "2021-01-01T00:00:00Z" {
		t.Errorf("time cell = %q, want RFC3339", got)
	}
	if !rec.Column(0).IsNull(1) || !rec.Column(3).IsNull(1) {
		t.Error("expected nulls for nil values")
	}

	if err := appendValue(builder.Field(0), "not a number"); err == nil {
		t.Error("expected error for type mismatch")
	}
}
