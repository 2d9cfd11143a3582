// Package export renders user data as downloadable documents. Adapters
// flatten domain records into ordered rows; strategies render the rows as
// CSV, JSON, or a printable HTML report.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrNothingToExport is returned when the selected record set is empty. It is
// raised before any strategy runs.
var ErrNothingToExport = errors.New("nothing to export")

// Field is one cell of a row, keyed by column name.
type Field struct {
	Key   string
	Value interface{}
}

// Row is an ordered list of fields. Every row of an export carries the same
// keys in the same order; strategies rely on that to build headers.
type Row []Field

// MarshalJSON renders the row as an object preserving field order.
func (r Row) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, f := range r {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, value...)
	}
	return append(buf, '}'), nil
}

// Formatter renders rows into a document body.
type Formatter interface {
	Format(rows []Row) ([]byte, error)
	ContentType() string
}

// NewFormatter returns the strategy for a format name. The "pdf" format
// produces a printable HTML report; true PDF rendering is left to the
// browser's print dialog.
func NewFormatter(format, title string) (Formatter, error) {
	switch format {
	case "csv":
		return CSVFormatter{}, nil
	case "json":
		return JSONFormatter{}, nil
	case "pdf":
		return HTMLFormatter{Title: title}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// Export runs the full pipeline: reject empty sets, then hand the rows to the
// strategy.
func Export(rows []Row, f Formatter) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNothingToExport
	}
	return f.Format(rows)
}

var formatExtensions = map[string]string{
	"csv":  "csv",
	"json": "json",
	"pdf":  "html",
}

// Filename builds the download name, e.g. "transactions_2024-03-15.csv".
func Filename(dataType, format string, now time.Time) string {
	ext, ok := formatExtensions[format]
	if !ok {
		ext = format
	}
	return fmt.Sprintf("%s_%s.%s", dataType, now.Format("2006-01-02"), ext)
}

// cellString renders a field value for text strategies.
func cellString(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', 2, 64)
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case time.Time:
		return value.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", value)
	}
}
