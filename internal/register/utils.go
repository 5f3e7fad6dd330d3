package register

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var amountRe = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// ParseAmount converts a register cell to a finite number. Accepted:
// optional sign, thousands separators, accounting negatives "(123.45)".
// Blank cells are zero.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if negative {
		s = "-" + s
	}

	if !amountRe.MatchString(s) {
		return 0, fmt.Errorf("not a number: %q", s)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite: %q", s)
	}
	return f, nil
}

var dateLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2006-01-02T15:04:05Z07:00",
	"01-02-06",
	"1/2/06",
}

// NormalizeDate reformats a cell to DD-MM-YYYY when it parses as a date,
// otherwise returns the trimmed original. Registers mix serial exports
// and hand-typed values, so this is best-effort by design of the source
// data, not a validation step.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02-01-2006")
		}
	}
	return s
}

// TrimNumericText strips a trailing ".0" Excel float artifact from cells
// that are logically text (account numbers, UAN).
func TrimNumericText(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, ".eE") {
		return s
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}

// IsBlankRow reports whether every cell is empty or whitespace.
func IsBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
