package export

import (
	"bytes"
	"strings"

	"github.com/username/bitbudget/backend/src/security/validation"
)

// CSVFormatter renders rows as CSV. The header comes from the first row's
// keys. Cells containing a comma are wrapped in double quotes; no further
// escaping is applied. Cell text is hardened against spreadsheet formula
// injection.
type CSVFormatter struct{}

func (CSVFormatter) ContentType() string { return "text/csv" }

func (CSVFormatter) Format(rows []Row) ([]byte, error) {
	var buf bytes.Buffer

	header := make([]string, 0, len(rows[0]))
	for _, f := range rows[0] {
		header = append(header, csvCell(f.Key))
	}
	buf.WriteString(strings.Join(header, ","))
	buf.WriteByte('\n')

	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, f := range row {
			cells = append(cells, csvCell(cellString(f.Value)))
		}
		buf.WriteString(strings.Join(cells, ","))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func csvCell(s string) string {
	s = validation.SanitizeForFormulaInjection(s)
	if strings.Contains(s, ",") {
		return `"` + s + `"`
	}
	return s
}
