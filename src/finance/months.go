package finance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/username/bitbudget/backend/src/model"
)

// Month identifies a calendar month. The wire form is "YYYY-M" with an
// unpadded month number, e.g. "2024-3".
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses the "YYYY-M" wire form. The month part may be padded or
// unpadded; anything outside 1..12 is rejected.
func ParseMonth(s string) (Month, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return Month{}, fmt.Errorf("invalid month %q: want YYYY-M", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return Month{}, fmt.Errorf("invalid year in month %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return Month{}, fmt.Errorf("invalid month number in %q", s)
	}
	return Month{Year: year, Month: time.Month(m)}, nil
}

// String renders the "YYYY-M" wire form, month unpadded.
func (m Month) String() string {
	return fmt.Sprintf("%d-%d", m.Year, int(m.Month))
}

// Bounds returns the half-open interval [start, end) covering the month in
// local time.
func (m Month) Bounds() (start, end time.Time) {
	start = time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0)
}

// Contains reports whether t falls within the month.
func (m Month) Contains(t time.Time) bool {
	start, end := m.Bounds()
	return !t.Before(start) && t.Before(end)
}

// Prev returns the preceding month, rolling the year back across January.
func (m Month) Prev() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// Next returns the following month, rolling the year forward across December.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// CurrentMonth returns the month containing now, in local time.
func CurrentMonth(now time.Time) Month {
	return Month{Year: now.Year(), Month: now.Month()}
}

// FilterByMonth keeps the transactions dated within the month. The input is
// not modified; order is preserved.
func FilterByMonth(transactions []model.Transaction, month Month) []model.Transaction {
	filtered := make([]model.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if month.Contains(t.Date) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
