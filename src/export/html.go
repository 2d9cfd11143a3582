package export

import (
	"bytes"
	"html/template"
	"time"
)

// HTMLFormatter renders rows as a self-contained printable report. Users get
// a real PDF by printing the page; the server does not rasterize anything.
type HTMLFormatter struct {
	Title string
}

func (HTMLFormatter) ContentType() string { return "text/html; charset=utf-8" }

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 2rem; color: #222; }
h1 { font-size: 1.4rem; border-bottom: 2px solid #4CAF50; padding-bottom: .5rem; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; font-size: .85rem; }
th { background: #f4f4f4; }
footer { margin-top: 2rem; font-size: .75rem; color: #888; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Generated on {{.Generated}}</p>
<table>
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
<footer>BitBudget &mdash; personal finance report</footer>
</body>
</html>
`))

func (h HTMLFormatter) Format(rows []Row) ([]byte, error) {
	header := make([]string, 0, len(rows[0]))
	for _, f := range rows[0] {
		header = append(header, f.Key)
	}

	body := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, f := range row {
			cells = append(cells, cellString(f.Value))
		}
		body = append(body, cells)
	}

	title := h.Title
	if title == "" {
		title = "BitBudget report"
	}

	var buf bytes.Buffer
	err := reportTemplate.Execute(&buf, map[string]interface{}{
		"Title":     title,
		"Generated": time.Now().Format("2006-01-02 15:04"),
		"Header":    header,
		"Rows":      body,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
