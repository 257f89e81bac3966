package download

import (
	"fmt"
	"strings"

	"github.com/censuskit/censuskit-go/metadata"
)

// ToSQL produces the SQL equivalent of fetching the requested metric columns,
// without executing it. A single source file becomes one SELECT over
// read_parquet; multiple files become numbered sub-selects q0, q1, ... joined
// pairwise with USING on the key column. Output is deterministic: files keep
// their first-appearance order so generated text is stable for caching.
func ToSQL(requests []MetricRequest, keyIDs []string) string {
	files, cols := fileColumns(requests)
	if len(files) == 0 {
		return ""
	}
	if len(files) == 1 {
		return fileSelect(files[0], cols[files[0]], keyIDs)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT q0."` + metadata.ColGeoID + `"`)
	for i, file := range files {
		for _, c := range cols[file] {
			fmt.Fprintf(&sb, `, q%d.%s`, i, quoteIdent(c))
		}
	}
	for i, file := range files {
		sub := fileSelect(file, cols[file], keyIDs)
		if i == 0 {
			fmt.Fprintf(&sb, " FROM (%s) AS q%d", sub, i)
			continue
		}
		fmt.Fprintf(&sb, " JOIN (%s) AS q%d USING (%s)", sub, i, metadata.ColGeoID)
	}
	return sb.String()
}

// fileSelect builds the per-file SELECT: the key column first, then the
// requested columns, with an optional key filter.
func fileSelect(fileURL string, columns, keyIDs []string) string {
	var sb strings.Builder
	sb.WriteString(`SELECT "` + metadata.ColGeoID + `"`)
	for _, c := range columns {
		sb.WriteString(", " + quoteIdent(c))
	}
	sb.WriteString(" FROM read_parquet(" + quoteString(fileURL) + ")")
	if len(keyIDs) > 0 {
		quoted := make([]string, len(keyIDs))
		for i, id := range keyIDs {
			quoted[i] = quoteString(id)
		}
		sb.WriteString(` WHERE "` + metadata.ColGeoID + `" IN (` + strings.Join(quoted, ", ") + ")")
	}
	return sb.String()
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
