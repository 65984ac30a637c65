package types

import (
	"fmt"
	"strconv"
	"strings"
)

var daysInMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear implements the full Gregorian leap rule: year%4==0 and
// (year%100!=0 or year%400==0).
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// daysIn returns the number of days in month for year, honoring February
// in leap years.
func daysIn(year, month int) int {
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return daysInMonth[month]
}

// PackDate packs a validated Y-M-D triple into the Int-packed
// Y*10000+M*100+D representation.
func PackDate(year, month, day int) int32 {
	return int32(year*10000 + month*100 + day)
}

// UnpackDate splits a packed date back into year, month, day.
func UnpackDate(packed int32) (year, month, day int) {
	p := int(packed)
	year = p / 10000
	month = (p / 100) % 100
	day = p % 100
	return
}

// ParseDate validates and parses a "YYYY-M-D" string (single or double
// digit month/day both accepted) with full Gregorian leap validation:
// year in [1,9999], month in [1,12], day in [1, days_in_month]. Returns
// the Int-packed date on success.
func ParseDate(s string) (int32, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid date literal %q: expected YYYY-M-D", s)
	}

	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, fmt.Errorf("invalid date literal %q: non-numeric component", s)
	}

	if year < 1 || year > 9999 {
		return 0, fmt.Errorf("invalid date literal %q: year out of range", s)
	}
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("invalid date literal %q: month out of range", s)
	}
	if day < 1 || day > daysIn(year, month) {
		return 0, fmt.Errorf("invalid date literal %q: day out of range", s)
	}

	return PackDate(year, month, day), nil
}
