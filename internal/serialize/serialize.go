// Package serialize provides Arrow IPC encoding with ZStandard compression.
// It is used by the metadata cache to persist relation snapshots on disk.
package serialize

import (
	"bytes"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/klauspost/compress/zstd"
)

// Compressor handles ZStandard compression.
// Create once and reuse; EncodeAll is safe for concurrent use.
type Compressor struct {
	encoder *zstd.Encoder
}

// NewCompressor creates a reusable ZStandard compressor at SpeedDefault.
// Caller must call Close() when done.
func NewCompressor() (*Compressor, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	return &Compressor{encoder: encoder}, nil
}

// Compress compresses data using ZStandard.
func (c *Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	return c.encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Close releases compressor resources.
func (c *Compressor) Close() error {
	if c.encoder != nil {
		return c.encoder.Close()
	}
	return nil
}

// Decompressor handles ZStandard decompression.
type Decompressor struct {
	decoder *zstd.Decoder
}

// NewDecompressor creates a reusable ZStandard decompressor.
// Caller must call Close() when done.
func NewDecompressor() (*Decompressor, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Decompressor{decoder: decoder}, nil
}

// Decompress decompresses ZStandard data.
func (d *Decompressor) Decompress(compressed []byte) ([]byte, error) {
	if len(compressed) == 0 {
		return []byte{}, nil
	}
	decompressed, err := d.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return decompressed, nil
}

// Close releases decompressor resources.
func (d *Decompressor) Close() {
	if d.decoder != nil {
		d.decoder.Close()
	}
}

// EncodeRecord serializes a record to compressed Arrow IPC stream bytes.
func EncodeRecord(rec arrow.Record, allocator memory.Allocator) ([]byte, error) {
	var buf bytes.Buffer
	writer := ipc.NewWriter(&buf, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(allocator))
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write IPC record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close IPC writer: %w", err)
	}

	compressor, err := NewCompressor()
	if err != nil {
		return nil, err
	}
	defer compressor.Close()

	return compressor.Compress(buf.Bytes())
}

// DecodeRecord deserializes compressed Arrow IPC stream bytes produced by
// EncodeRecord. Batches are concatenated into a single record; the caller
// must Release it.
func DecodeRecord(data []byte, allocator memory.Allocator) (arrow.Record, error) {
	decompressor, err := NewDecompressor()
	if err != nil {
		return nil, err
	}
	defer decompressor.Close()

	raw, err := decompressor.Decompress(data)
	if err != nil {
		return nil, err
	}

	reader, err := ipc.NewReader(bytes.NewReader(raw), ipc.WithAllocator(allocator))
	if err != nil {
		return nil, fmt.Errorf("failed to open IPC stream: %w", err)
	}
	defer reader.Release()

	var records []arrow.Record
	defer func() {
		for _, rec := range records {
			rec.Release()
		}
	}()
	for reader.Next() {
		rec := reader.Record()
		rec.Retain()
		records = append(records, rec)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to read IPC stream: %w", err)
	}
	if len(records) == 0 {
		return array.NewRecordBuilder(allocator, reader.Schema()).NewRecord(), nil
	}
	if len(records) == 1 {
		rec := records[0]
		records = nil
		return rec, nil
	}

	table := array.NewTableFromRecords(reader.Schema(), records)
	defer table.Release()
	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()
	if !tr.Next() {
		return array.NewRecordBuilder(allocator, reader.Schema()).NewRecord(), nil
	}
	rec := tr.Record()
	rec.Retain()
	return rec, nil
}
