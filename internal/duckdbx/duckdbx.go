// Package duckdbx wraps the embedded DuckDB engine used for all remote
// columnar and spatial reads. It opens an in-memory database with the httpfs
// and spatial extensions loaded, and bridges query results into Arrow records.
package duckdbx

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/duckdb/duckdb-go/v2"
)

// bootQueries run on every new connection. INSTALL is a no-op once the
// extension is present locally.
var bootQueries = []string{
	"INSTALL httpfs",
	"LOAD httpfs",
	"INSTALL spatial",
	"LOAD spatial",
}

// Open creates an in-memory DuckDB database with the httpfs and spatial
// extensions available on every connection.
func Open(ctx context.Context) (*sql.DB, error) {
	connector, err := duckdb.NewConnector("", func(execer driver.ExecerContext) error {
		for _, q := range bootQueries {
			if _, err := execer.ExecContext(context.Background(), q, nil); err != nil {
				return fmt.Errorf("boot query %q: %w", q, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create duckdb connector: %w", err)
	}

	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	return db, nil
}

// QueryRecord executes a query and materializes the full result set as a
// single Arrow record. Integer columns widen to int64, floating point and
// decimal columns to float64; temporal and other column types are rendered
// as strings. The caller must Release the record.
func QueryRecord(ctx context.Context, db *sql.DB, query string, args ...any) (arrow.Record, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	fields := make([]arrow.Field, len(colTypes))
	for i, ct := range colTypes {
		fields[i] = arrow.Field{Name: ct.Name(), Type: arrowType(ct.DatabaseTypeName()), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	dest := make([]any, len(colTypes))
	for i := range dest {
		var v any
		dest[i] = &v
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i := range dest {
			v := *(dest[i].(*any))
			if err := appendValue(builder.Field(i), v); err != nil {
				return nil, fmt.Errorf("column %q: %w", colTypes[i].Name(), err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return builder.NewRecord(), nil
}

// arrowType maps a DuckDB column type name to the Arrow type used in result
// records.
func arrowType(dbType string) arrow.DataType {
	switch strings.ToUpper(dbType) {
	case "TINYINT", "SMALLINT", "INTEGER", "BIGINT", "HUGEINT",
		"UTINYINT", "USMALLINT", "UINTEGER", "UBIGINT":
		return arrow.PrimitiveTypes.Int64
	case "FLOAT", "REAL", "DOUBLE":
		return arrow.PrimitiveTypes.Float64
	case "BOOLEAN":
		return arrow.FixedWidthTypes.Boolean
	default:
		if strings.HasPrefix(strings.ToUpper(dbType), "DECIMAL") {
			return arrow.PrimitiveTypes.Float64
		}
		return arrow.BinaryTypes.String
	}
}

// appendValue appends one scanned SQL value to the matching array builder.
func appendValue(b array.Builder, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch fb := b.(type) {
	case *array.Int64Builder:
		switch n := v.(type) {
		case int64:
			fb.Append(n)
		case int32:
			fb.Append(int64(n))
		case int16:
			fb.Append(int64(n))
		case int8:
			fb.Append(int64(n))
		case int:
			fb.Append(int64(n))
		case uint64:
			fb.Append(int64(n))
		case uint32:
			fb.Append(int64(n))
		case uint16:
			fb.Append(int64(n))
		case uint8:
			fb.Append(int64(n))
		default:
			return fmt.Errorf("unexpected integer value of type %T", v)
		}
	case *array.Float64Builder:
		switch n := v.(type) {
		case float64:
			fb.Append(n)
		case float32:
			fb.Append(float64(n))
		case int64:
			fb.Append(float64(n))
		default:
			return fmt.Errorf("unexpected float value of type %T", v)
		}
	case *array.BooleanBuilder:
		n, ok := v.(bool)
		if !ok {
			return fmt.Errorf("unexpected boolean value of type %T", v)
		}
		fb.Append(n)
	case *array.StringBuilder:
		switch s := v.(type) {
		case string:
			fb.Append(s)
		case []byte:
			fb.Append(string(s))
		case time.Time:
			fb.Append(s.Format(time.RFC3339))
		default:
			fb.Append(fmt.Sprint(s))
		}
	default:
		return fmt.Errorf("unsupported builder type %T", b)
	}
	return nil
}
