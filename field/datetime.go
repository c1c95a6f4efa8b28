package field

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateTime is an RFC 5322 date-time value: a calendar date, a clock time,
// and a UTC offset expressed in minutes (spec.md 3). Obsolete forms (2-digit
// years, named zones) are normalized on parse; Generate always emits the
// canonical RFC 5322 form.
type DateTime struct {
	Year, Month, Day    int
	Hour, Minute, Second int
	// OffsetMinutes is the zone's offset from UTC, in minutes (e.g. -300 for
	// EST / -05:00). Obsolete named zones with no defined numeric offset
	// (military zones other than "Z", and any unrecognized token) map to 0,
	// per RFC 5322 4.3's guidance to treat them as equivalent to "-0000".
	OffsetMinutes int
	// UnknownOffset records that the zone was RFC 5322 obs-zone "-0000" (or
	// an unrecognized token), meaning the offset is not authoritative.
	UnknownOffset bool
}

var namedZones = map[string]int{
	"UT": 0, "GMT": 0, "Z": 0,
	"EST": -5 * 60, "EDT": -4 * 60,
	"CST": -6 * 60, "CDT": -5 * 60,
	"MST": -7 * 60, "MDT": -6 * 60,
	"PST": -8 * 60, "PDT": -7 * 60,
}

var months = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// dateTimeRegexp matches RFC 5322's date-time, plus RFC 822/2822 obsolete
// variants: an optional day-of-week, day month year, time, and zone. It is
// intentionally loose (spec.md 4.3: "fails ... only if no plausible parse
// exists") rather than a strict ABNF transcription.
var dateTimeRegexp = regexp.MustCompile(
	`(?i)^\s*(?:[A-Za-z]+\s*,\s*)?` + // optional "Mon, "
		`(\d{1,2})\s+([A-Za-z]{3})\w*\s+(\d{2,4})\s+` + // day month year
		`(\d{1,2}):(\d{2})(?::(\d{2}))?\s*` + // hh:mm[:ss]
		`([+-]\d{4}|[A-Za-z]+)?\s*$`, // zone
)

func parseDateTime(raw string) (Value, error) {
	m := dateTimeRegexp.FindStringSubmatch(raw)
	if m == nil {
		return nil, newFieldErr("unparseable date-time %q", raw)
	}
	day, _ := strconv.Atoi(m[1])
	month, ok := months[strings.ToLower(m[2])]
	if !ok {
		return nil, newFieldErr("unknown month in %q", raw)
	}
	year, _ := strconv.Atoi(m[3])
	// RFC 5322 4.3: obsolete 2-digit years. 00-49 -> 2000-2049,
	// 50-99 -> 1950-1999 (spec.md's "50-99 -> 1900+" stated range, kept
	// here verbatim: 50-99 maps to 1900+NN).
	if len(m[3]) == 2 {
		if year >= 50 {
			year += 1900
		} else {
			year += 2000
		}
	} else if len(m[3]) == 3 {
		year += 1900 // obs-year with a leading zero dropped, e.g. "995"
	}
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second := 0
	if m[6] != "" {
		second, _ = strconv.Atoi(m[6])
	}

	dt := DateTime{Year: year, Month: month, Day: day, Hour: hour, Minute: minute, Second: second}
	zone := m[7]
	switch {
	case zone == "":
		dt.UnknownOffset = true
	case zone[0] == '+' || zone[0] == '-':
		sign := 1
		if zone[0] == '-' {
			sign = -1
		}
		hh, _ := strconv.Atoi(zone[1:3])
		mm, _ := strconv.Atoi(zone[3:5])
		off := sign * (hh*60 + mm)
		dt.OffsetMinutes = off
		dt.UnknownOffset = off == 0 && sign < 0 // "-0000" means unknown per RFC 5322 4.3
	default:
		if off, ok := namedZones[strings.ToUpper(zone)]; ok {
			dt.OffsetMinutes = off
		} else {
			// Obsolete military zone letter, or unrecognized token:
			// equivalent to "-0000" per RFC 5322 4.3.
			dt.UnknownOffset = true
		}
	}
	return dt, nil
}

// NewDateTime converts a time.Time (as returned by the clock collaborator,
// §6) into a DateTime, preserving its zone offset.
func NewDateTime(t time.Time) DateTime {
	_, offsetSec := t.Zone()
	return DateTime{
		Year: t.Year(), Month: int(t.Month()), Day: t.Day(),
		Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
		OffsetMinutes: offsetSec / 60,
	}
}

// Time converts d back into a time.Time in a fixed zone matching
// OffsetMinutes.
func (d DateTime) Time() time.Time {
	loc := time.FixedZone("", d.OffsetMinutes*60)
	return time.Date(d.Year, time.Month(d.Month), d.Day, d.Hour, d.Minute, d.Second, 0, loc)
}

func (d DateTime) Generate() string {
	sign := '+'
	off := d.OffsetMinutes
	if off < 0 {
		sign = '-'
		off = -off
	}
	return fmt.Sprintf("%02d %s %04d %02d:%02d:%02d %c%02d%02d",
		d.Day, monthName(d.Month), d.Year, d.Hour, d.Minute, d.Second,
		sign, off/60, off%60)
}

func monthName(m int) string {
	for name, n := range months {
		if n == m {
			return strings.ToUpper(name[:1]) + name[1:]
		}
	}
	return "Jan"
}
