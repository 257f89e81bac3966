package serialize

import (
	"bytes"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

func TestCompressRoundTrip(t *testing.T) {
	compressor, err := NewCompressor()
	if err != nil {
		t.Fatal(err)
	}
	defer compressor.Close()
	decompressor, err := NewDecompressor()
	if err != nil {
		t.Fatal(err)
	}
	defer decompressor.Close()

	original := bytes.Repeat([]byte("catalog snapshot "), 256)
	compressed, err := compressor.Compress(original)
	if err != nil {
		t.Fatalf("Compress() error: %v", err)
	}
	if len(compressed) >= len(original) {
		t.Errorf("compressed %d bytes, expected smaller than %d", len(compressed), len(original))
	}
	restored, err := decompressor.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress() error: %v", err)
	}
	if !bytes.Equal(restored, original) {
		t.Error("round trip does not match original")
	}
}

func TestCompressEmpty(t *testing.T) {
	compressor, err := NewCompressor()
	if err != nil {
		t.Fatal(err)
	}
	defer compressor.Close()

	out, err := compressor.Compress(nil)
	if err != nil {
		t.Fatalf("Compress(nil) error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("Compress(nil) = %d bytes, want 0", len(out))
	}
}

func TestDecompressGarbage(t *testing.T) {
	decompressor, err := NewDecompressor()
	if err != nil {
		t.Fatal(err)
	}
	defer decompressor.Close()

	if _, err := decompressor.Decompress([]byte("not zstd data")); err == nil {
		t.Fatal("expected error for corrupt input")
	}
}

func TestEncodeDecodeRecord(t *testing.T) {
	alloc := memory.DefaultAllocator
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.BinaryTypes.String},
		{Name: "count", Type: arrow.PrimitiveTypes.Int64},
	}, nil)

	builder := array.NewRecordBuilder(alloc, schema)
	defer builder.Release()
	builder.Field(0).(*array.StringBuilder).AppendValues([]string{"a", "b", "c"}, nil)
	builder.Field(1).(*array.Int64Builder).AppendValues([]int64{1, 2, 3}, nil)
	rec := builder.NewRecord()
	defer rec.Release()

	data, err := EncodeRecord(rec, alloc)
	if err != nil {
		t.Fatalf("EncodeRecord() error: %v", err)
	}

	decoded, err := DecodeRecord(data, alloc)
	if err != nil {
		t.Fatalf("DecodeRecord() error: %v", err)
	}
	defer decoded.Release()

	if !decoded.Schema().Equal(rec.Schema()) {
		t.Fatalf("schema mismatch: got %v, want %v", decoded.Schema(), rec.Schema())
	}
	if got, want := decoded.NumRows(), rec.NumRows(); got != want {
		t.Fatalf("NumRows() = %d, want %d", got, want)
	}
	gotIDs := decoded.Column(0).(*array.String)
	wantIDs := rec.Column(0).(*array.String)
	for i := 0; i < int(rec.NumRows()); i++ {
		if gotIDs.Value(i) != wantIDs.Value(i) {
			t.Errorf("row %d id = %q, want %q", i, gotIDs.Value(i), wantIDs.Value(i))
		}
	}
}

func TestDecodeRecordCorrupt(t *testing.T) {
	if _, err := DecodeRecord([]byte("junk"), memory.DefaultAllocator); err == nil {
		t.Fatal("expected error for corrupt input")
	}
}
