package export

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/username/bitbudget/backend/src/finance"
	"github.com/username/bitbudget/backend/src/model"
)

func sampleRows() []Row {
	transactions := []model.Transaction{
		{
			Title:       "Groceries",
			Amount:      85.5,
			Date:        time.Date(2024, time.March, 2, 0, 0, 0, 0, time.Local),
			CategoryKey: "food",
			Description: "weekly shop",
		},
		{
			Title:       "Salary",
			Amount:      3200,
			Date:        time.Date(2024, time.March, 25, 0, 0, 0, 0, time.Local),
			CategoryKey: "salary",
		},
	}
	registry := finance.Registry{
		"food":   {Title: "Food", IsExpense: true},
		"salary": {Title: "Salary", IsExpense: false},
	}
	return TransactionRows(transactions, registry)
}

func TestCSVExport(t *testing.T) {
	body, err := Export(sampleRows(), CSVFormatter{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "date,title,category,type,amount,description" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Groceries") || !strings.Contains(lines[1], "Expense") {
		t.Errorf("first data row = %q", lines[1])
	}
	if !strings.Contains(lines[2], "Income") {
		t.Errorf("second data row = %q", lines[2])
	}
}

func TestCSVCommaQuoting(t *testing.T) {
	rows := []Row{{
		{Key: "title", Value: "Dinner, drinks"},
		{Key: "amount", Value: 42.0},
	}}

	body, err := Export(rows, CSVFormatter{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	if lines[1] != `"Dinner, drinks",42.00` {
		t.Errorf("comma cell not quoted as expected: %q", lines[1])
	}
}

func TestCSVFormulaInjectionHardening(t *testing.T) {
	rows := []Row{{
		{Key: "title", Value: "=SUM(A1:A9)"},
	}}

	body, err := Export(rows, CSVFormatter{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.Contains(string(body), "'=SUM(A1:A9)") {
		t.Errorf("formula cell not neutralized: %q", string(body))
	}
}

func TestJSONExportRoundTrip(t *testing.T) {
	rows := sampleRows()

	body, err := Export(rows, JSONFormatter{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != len(rows) {
		t.Fatalf("decoded %d rows, want %d", len(decoded), len(rows))
	}
	for _, f := range rows[0] {
		if _, ok := decoded[0][f.Key]; !ok {
			t.Errorf("decoded row missing key %q", f.Key)
		}
	}

	// 2-space indentation
	if !strings.Contains(string(body), "\n  {") {
		t.Errorf("expected pretty-printed output, got %q", string(body)[:min(80, len(body))])
	}
}

func TestJSONPreservesFieldOrder(t *testing.T) {
	row := Row{
		{Key: "zebra", Value: 1},
		{Key: "apple", Value: 2},
		{Key: "mango", Value: 3},
	}
	body, err := row.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	got := string(body)
	if strings.Index(got, "zebra") > strings.Index(got, "apple") {
		t.Errorf("field order not preserved: %q", got)
	}
}

func TestHTMLExport(t *testing.T) {
	body, err := Export(sampleRows(), HTMLFormatter{Title: "Transactions report"})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	html := string(body)
	if !strings.Contains(html, "<title>Transactions report</title>") {
		t.Error("missing report title")
	}
	if !strings.Contains(html, "<td>Groceries</td>") {
		t.Error("missing transaction cell")
	}
	if !strings.Contains(html, "<th>date</th>") {
		t.Error("missing header cell")
	}
}

func TestExportEmptyRejected(t *testing.T) {
	for _, f := range []Formatter{CSVFormatter{}, JSONFormatter{}, HTMLFormatter{}} {
		if _, err := Export(nil, f); !errors.Is(err, ErrNothingToExport) {
			t.Errorf("%T: error = %v, want ErrNothingToExport", f, err)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []string{"csv", "json", "pdf"} {
		if _, err := NewFormatter(format, "t"); err != nil {
			t.Errorf("NewFormatter(%q): %v", format, err)
		}
	}
	if _, err := NewFormatter("xml", "t"); err == nil {
		t.Error("NewFormatter(xml) should fail")
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		dataType string
		format   string
		want     string
	}{
		{"transactions", "csv", "transactions_2024-03-15.csv"},
		{"crypto", "json", "crypto_2024-03-15.json"},
		{"recommendations", "pdf", "recommendations_2024-03-15.html"},
	}
	for _, tt := range tests {
		if got := Filename(tt.dataType, tt.format, now); got != tt.want {
			t.Errorf("Filename(%q, %q) = %q, want %q", tt.dataType, tt.format, got, tt.want)
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
