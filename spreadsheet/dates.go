package spreadsheet

import (
	"strings"
	"time"
)

// cellDateLayouts covers the formats date cells render to across the
// source workbooks and CSV exports.
var cellDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06",
	"1/2/2006",
	"01/02/2006",
	"02/01/2006",
	"2/1/2006",
}

// ParseCellDate parses a formatted date cell. Unparseable dates report
// ok=false and are treated as missing by callers, they never abort a
// parse.
func ParseCellDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range cellDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
