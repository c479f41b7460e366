package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/askdata/askdata/internal/present"
	"github.com/askdata/askdata/internal/resultset"
)

type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// FormatFromPath picks the export format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("unsupported export extension %q (want .csv or .parquet)", filepath.Ext(path))
	}
}

func (f Format) ContentType() string {
	if f == FormatParquet {
		return "application/vnd.apache.parquet"
	}
	return "text/csv"
}

func Write(w io.Writer, format Format, rs resultset.ResultSet) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rs)
	case FormatParquet:
		data, err := EncodeParquet(rs)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteCSV writes the same projection the table view shows: a header from
// the first row's keys, then one record per row. An empty result writes
// nothing.
func WriteCSV(w io.Writer, rs resultset.ResultSet) error {
	table, ok := present.BuildTable(rs)
	if !ok {
		return nil
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}
