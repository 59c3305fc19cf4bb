package table

import (
	"strconv"
	"strings"
	"time"
)

// DateFormat selects how ambiguous day/month cells are interpreted.
type DateFormat string

const (
	DateAuto     DateFormat = "auto"
	DateDayFirst DateFormat = "dd-mm-yyyy"
	DateISO      DateFormat = "yyyy-mm-dd"
)

var isoLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

var dayFirstLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"02.01.2006",
	"02-01-2006 15:04:05",
}

// ParseDate parses a cell as a date under the given format preference. Excel
// serial date numbers are accepted as well, since excelize surfaces unformatted
// date cells that way. Returns false for empty or unparseable cells.
func ParseDate(s string, format DateFormat) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	var layouts []string
	switch format {
	case DateDayFirst:
		layouts = append(layouts, dayFirstLayouts...)
		layouts = append(layouts, isoLayouts...)
	case DateISO:
		layouts = append(layouts, isoLayouts...)
	default:
		layouts = append(layouts, dayFirstLayouts...)
		layouts = append(layouts, isoLayouts...)
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	// Excel serial date (days since 1899-12-30)
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 59 && serial < 200000 {
		epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
		return epoch.AddDate(0, 0, int(serial)), true
	}

	return time.Time{}, false
}

// ParseNumber parses a cell as a float, tolerating thousands separators and
// currency-style prefixes.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "₹")
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Dtype is a coarse column type used by the data health report.
type Dtype string

const (
	DtypeEmpty  Dtype = "empty"
	DtypeDate   Dtype = "date"
	DtypeNumber Dtype = "number"
	DtypeText   Dtype = "text"
)

// InferDtype classifies a column by its non-empty cells: date if every such cell
// parses as a date, number if every such cell parses as a number, text otherwise.
func InferDtype(values []string, format DateFormat) Dtype {
	nonEmpty, dates, numbers := 0, 0, 0
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		nonEmpty++
		if _, ok := ParseNumber(v); ok {
			numbers++
			continue
		}
		if _, ok := ParseDate(v, format); ok {
			dates++
		}
	}
	switch {
	case nonEmpty == 0:
		return DtypeEmpty
	case numbers == nonEmpty:
		return DtypeNumber
	case dates == nonEmpty:
		return DtypeDate
	default:
		return DtypeText
	}
}

// NullRate returns the fraction of empty cells in values, in [0, 1].
func NullRate(values []string) float64 {
	if len(values) == 0 {
		return 0
	}
	empty := 0
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			empty++
		}
	}
	return float64(empty) / float64(len(values))
}
