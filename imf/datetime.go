package imf

import (
	"strings"
	"time"

	"github.com/mjl-/eml/syntax"
)

var dayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Named timezones from the obsolete syntax. UT/GMT/UTC and the North
// American zones have defined offsets, unknown alphabetic zones mean +0000.
var namedZones = map[string]int{
	"ut": 0, "utc": 0, "gmt": 0,
	"edt": -4 * 3600,
	"est": -5 * 3600, "cdt": -5 * 3600,
	"cst": -6 * 3600, "mdt": -6 * 3600,
	"mst": -7 * 3600, "pdt": -7 * 3600,
	"pst": -8 * 3600,
}

// ParseDateTime parses an RFC 5322 date-time, including the obsolete forms:
// optional day of week, comments and folding whitespace between any tokens,
// missing seconds, two- and three-digit years, named and military zones.
func ParseDateTime(s string) (time.Time, bool) {
	p := syntax.New(s)

	// [ day-of-week "," ]
	o := p.Offset()
	p.CFWS()
	if name := takeAlpha(p); name != "" {
		ok := false
		for _, d := range dayNames {
			if strings.EqualFold(name, d) {
				ok = true
				break
			}
		}
		p.CFWS()
		if !ok || !p.Take(",") {
			p.Restore(o)
		}
	} else {
		p.Restore(o)
	}

	// day month year
	p.CFWS()
	day, ok := p.Digits(1, 2)
	if !ok {
		return time.Time{}, false
	}
	p.CFWS()
	monname := takeAlpha(p)
	mon := 0
	for i, m := range monthNames {
		if strings.EqualFold(monname, m) {
			mon = i + 1
			break
		}
	}
	if mon == 0 {
		return time.Time{}, false
	}
	p.CFWS()
	yearDigits := 0
	year := 0
	for {
		d, ok := p.Digits(1, 1)
		if !ok {
			break
		}
		year = year*10 + d
		yearDigits++
		if yearDigits > 7 {
			return time.Time{}, false
		}
	}
	switch {
	case yearDigits < 2:
		return time.Time{}, false
	case year >= 0 && year <= 49 && yearDigits <= 3:
		year += 2000
	case year >= 50 && year <= 999 && yearDigits <= 3:
		year += 1900
	}

	// time-of-day: hour ":" minute [ ":" second ]
	p.CFWS()
	hour, ok := p.Digits(1, 2)
	if !ok {
		return time.Time{}, false
	}
	p.CFWS()
	if !p.Take(":") {
		return time.Time{}, false
	}
	p.CFWS()
	min, ok := p.Digits(1, 2)
	if !ok {
		return time.Time{}, false
	}
	sec := 0
	o = p.Offset()
	p.CFWS()
	if p.Take(":") {
		p.CFWS()
		sec, ok = p.Digits(1, 2)
		if !ok {
			return time.Time{}, false
		}
	} else {
		p.Restore(o)
	}

	// zone
	p.CFWS()
	offset, ok := zone(p)
	if !ok {
		return time.Time{}, false
	}
	p.CFWS()
	if !p.Empty() {
		return time.Time{}, false
	}

	if hour > 23 || min > 59 || sec > 60 {
		return time.Time{}, false
	}
	loc := time.UTC
	if offset != 0 {
		loc = time.FixedZone("", offset)
	}
	t := time.Date(year, time.Month(mon), day, hour, min, sec, 0, loc)
	// time.Date normalizes out-of-range values, e.g. 30 Feb. We want those
	// rejected so the field keeps its raw value.
	if t.Year() != year || t.Month() != time.Month(mon) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func takeAlpha(p *syntax.Parser) string {
	s, _ := p.TakeFn1(func(c byte) bool {
		return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
	})
	return s
}

func takeAlnum(p *syntax.Parser) string {
	s, _ := p.TakeFn1(func(c byte) bool {
		return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
	})
	return s
}

// zone parses "+hhmm"/"-hhmm" or an obsolete zone name: UT/GMT/UTC, the
// North American zones, the single-letter military zones (A-I and K-M east,
// N-Y west, Z is UTC), and any other alphanumeric token as +0000.
func zone(p *syntax.Parser) (int, bool) {
	if p.Take("+") || strings.HasPrefix(p.Remainder(), "-") {
		neg := p.Take("-")
		hh, ok1 := p.Digits(2, 2)
		mm, ok2 := p.Digits(2, 2)
		if !ok1 || !ok2 {
			return 0, false
		}
		off := hh*3600 + mm*60
		if neg {
			off = -off
		}
		return off, true
	}
	tok := takeAlnum(p)
	if tok == "" {
		return 0, false
	}
	if off, ok := namedZones[strings.ToLower(tok)]; ok {
		return off, true
	}
	if len(tok) == 1 {
		c := tok[0]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		switch {
		case c == 'Z' || c == 'J':
			return 0, true
		case c >= 'A' && c <= 'I':
			return int(c-'A'+1) * 3600, true
		case c >= 'K' && c <= 'M':
			return int(c-'K'+10) * 3600, true
		case c >= 'N' && c <= 'Y':
			return -int(c-'N'+1) * 3600, true
		}
	}
	// Unknown legacy timezone.
	return 0, true
}
