package export

import "encoding/json"

// JSONFormatter renders rows as a pretty-printed JSON array, preserving each
// row's field order.
type JSONFormatter struct{}

func (JSONFormatter) ContentType() string { return "application/json" }

func (JSONFormatter) Format(rows []Row) ([]byte, error) {
	return json.MarshalIndent(rows, "", "  ")
}
