package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/timenorm/internal/calendar"
)

// Unknown is the value passed to IsoDate and IsoTime for a missing field.
const Unknown = -1

// IsoDate returns the date with the given fields; pass Unknown for missing
// ones. Years 1 to 98 are read as 2001 to 2098.
func IsoDate(year, month, day int) *PartialTime {
	if year > 0 && year < 99 {
		year += 2000
	}
	return NewPartialTime(dateFields(calendar.Partial{}, EraUnknown, year, month, day))
}

// IsoDateEra is IsoDate with an era. When adjust is set, BC years are
// counted from 1 BC and shifted onto the astronomical year numbering.
func IsoDateEra(era, year, month, day int, adjust bool) *PartialTime {
	if year > 0 && year < 99 {
		year += 2000
	}
	if adjust && era == EraBC && year > 0 {
		year--
	}
	return NewPartialTime(dateFields(calendar.Partial{}, era, year, month, day))
}

func dateFields(p calendar.Partial, era, year, month, day int) calendar.Partial {
	if era >= 0 {
		p = p.With(calendar.Era, era)
	}
	if year >= 0 {
		p = p.With(calendar.Year, year)
	}
	if month >= 0 {
		p = p.With(calendar.MonthOfYear, month)
	}
	if day >= 0 {
		p = p.With(calendar.DayOfMonth, day)
	}
	return p
}

var isoYear = regexp.MustCompile(`^[+-]?[0-9X]{4}$`)

// IsoDateString parses the year, month and day strings of an ISO date. Each
// may be empty or all X for unknown. A year may carry an era sign and be
// partly unknown: "19XX" is the 20th century, "197X" the 1970s and "XX12"
// the year 2012.
func IsoDateString(y, m, d string) (*PartialTime, error) {
	var p calendar.Partial
	if y != "" && y != padUnknown4 {
		if !isoYear.MatchString(y) {
			return nil, errors.Wrapf(ErrMalformedLiteral, "year not in ISO format: %q", y)
		}
		switch y[0] {
		case '-':
			p, y = p.With(calendar.Era, EraBC), y[1:]
		case '+':
			p, y = p.With(calendar.Era, EraAD), y[1:]
		}
		var err error
		if p, err = yearFields(p, y); err != nil {
			return nil, err
		}
	}
	for _, f := range []struct {
		s     string
		field calendar.Field
	}{{m, calendar.MonthOfYear}, {d, calendar.DayOfMonth}} {
		if f.s == "" || f.s == padUnknown2 {
			continue
		}
		v, err := strconv.Atoi(f.s)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedLiteral, "%s not a number: %q", f.field, f.s)
		}
		p = p.With(f.field, v)
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrapf(ErrMalformedLiteral, "date %q-%q-%q: %v", y, m, d, err)
	}
	return NewPartialTime(p), nil
}

func yearFields(p calendar.Partial, y string) (calendar.Partial, error) {
	if !strings.Contains(y, padUnknown) {
		v, err := strconv.Atoi(y)
		if err != nil {
			return p, errors.Wrapf(ErrMalformedLiteral, "year %q", y)
		}
		return p.With(calendar.Year, v), nil
	}
	if strings.HasPrefix(y, padUnknown2) {
		yy, err := strconv.Atoi(y[2:])
		if err != nil {
			return p, errors.Wrapf(ErrMalformedLiteral, "year %q", y)
		}
		return p.With(calendar.Year, twoDigitYear(yy)), nil
	}
	if c, err := strconv.Atoi(y[:2]); err == nil {
		p = p.With(calendar.Century, c)
	}
	if yy, err := strconv.Atoi(y[2:]); err == nil {
		return p.With(calendar.YearOfCentury, yy), nil
	}
	if dec, err := strconv.Atoi(y[2:3]); err == nil {
		p = p.With(calendar.Decade, dec)
	}
	return p, nil
}

// twoDigitYear places yy in the 1900s when above 50, else in the 2000s.
func twoDigitYear(yy int) int {
	if yy > 50 {
		return 1900 + yy
	}
	return 2000 + yy
}

// IsoTime returns the time of day with the given fields; pass Unknown for
// missing ones. Hour 24 is midnight at the end of the day. With a half day
// set, hours below 12 are moved into it.
func IsoTime(hour, minute, second, millis, halfday int) *PartialTime {
	return NewPartialTime(timeFields(calendar.Partial{}, hour, minute, second, millis, halfday))
}

func timeFields(p calendar.Partial, hour, minute, second, millis, halfday int) calendar.Partial {
	if hour >= 0 {
		if halfday == HalfdayPM && hour < 12 {
			hour += 12
		}
		if halfday == HalfdayAM && hour == 12 {
			hour = 0
		}
		p = p.With(calendar.HourOfDay, hour)
	}
	if minute >= 0 {
		p = p.With(calendar.MinuteOfHour, minute)
	}
	if second >= 0 {
		p = p.With(calendar.SecondOfMinute, second)
	}
	if millis >= 0 {
		p = p.With(calendar.MillisOfSecond, millis)
	}
	if halfday >= 0 {
		p = p.With(calendar.Halfday, halfday)
	}
	return p
}

// IsoDateTime joins a date and a time of day. Either may be nil.
func IsoDateTime(date, clock *PartialTime) *PartialTime {
	switch {
	case date == nil && clock == nil:
		return NewPartialTime(calendar.Partial{})
	case date == nil:
		return clock
	case clock == nil:
		return date
	}
	out := date.with(date.p.Combine(clock.p))
	if out.zone == nil {
		out.zone = clock.zone
	}
	return out
}

var (
	patternISO         = regexp.MustCompile(`^(\d\d\d\d)-?(\d\d?)-?(\d\d?)(-?(?:T(\d\d):?(\d\d)?:?(\d\d)?(?:[.,](\d{1,3}))?([+-]\d\d:?\d\d|Z)?))?$`)
	patternISODateTime = regexp.MustCompile(`^(\d\d\d\d)(\d\d)(\d\d):(\d\d)(\d\d)$`)
	patternISOTime     = regexp.MustCompile(`^T(\d\d):?(\d\d)?:?(\d\d)?(?:[.,](\d{1,3}))?([+-]\d\d:?\d\d|Z)?$`)
	patternDateSlash   = regexp.MustCompile(`(\d\d\d\d)/(\d\d?)/(\d\d?)`)
	patternDateDash    = regexp.MustCompile(`(\d\d\d\d)-(\d\d?)-(\d\d?)`)
	patternUSSlash     = regexp.MustCompile(`(\d\d?)/(\d\d?)/(\d\d(?:\d\d)?)`)
	patternUSDash      = regexp.MustCompile(`(\d\d?)-(\d\d?)-(\d\d(?:\d\d)?)`)
	patternEUDot       = regexp.MustCompile(`(\d\d?)\.(\d\d?)\.(\d\d(?:\d\d)?)`)
	patternTimeOfDay   = regexp.MustCompile(`(?i)(\d?\d):(\d\d)(?::(\d\d)(?:\.(\d{1,3})\d*)?)?(?:\s*([ap])\.?m\.?)?`)
)

// ParseDateTime reads a date and/or time in one of the common written
// forms: ISO 8601 basic or extended with an optional zone, yyyymmdd:hhmm,
// Thh:mm[:ss], yyyy/mm/dd, mm/dd/yy[yy], dd.mm.yy[yy] and a bare time of day
// such as "3:30 pm".
func ParseDateTime(s string) (*PartialTime, error) {
	s = strings.TrimSpace(s)
	if m := patternISO.FindStringSubmatch(s); m != nil {
		date, err := IsoDateString(m[1], m[2], m[3])
		if err != nil {
			return nil, err
		}
		if m[4] == "" {
			return date, nil
		}
		clock, err := parseClock(s, m[5], m[6], m[7], m[8], "", m[9])
		if err != nil {
			return nil, err
		}
		return IsoDateTime(date, clock), nil
	}
	if m := patternISODateTime.FindStringSubmatch(s); m != nil {
		date, err := IsoDateString(m[1], m[2], m[3])
		if err != nil {
			return nil, err
		}
		clock, err := parseClock(s, m[4], m[5], "", "", "", "")
		if err != nil {
			return nil, err
		}
		return IsoDateTime(date, clock), nil
	}
	if m := patternISOTime.FindStringSubmatch(s); m != nil {
		return parseClock(s, m[1], m[2], m[3], m[4], "", m[5])
	}

	date, err := parseLooseDate(s)
	if err != nil {
		return nil, err
	}
	var clock *PartialTime
	if m := patternTimeOfDay.FindStringSubmatch(s); m != nil {
		if clock, err = parseClock(s, m[1], m[2], m[3], m[4], m[5], ""); err != nil {
			return nil, err
		}
	}
	switch {
	case date != nil && clock != nil:
		return IsoDateTime(date, clock), nil
	case date != nil:
		return date, nil
	case clock != nil:
		return clock, nil
	}
	return nil, errors.Wrapf(ErrMalformedLiteral, "no date or time in %q", s)
}

func parseLooseDate(s string) (*PartialTime, error) {
	if m := patternDateSlash.FindStringSubmatch(s); m != nil {
		return IsoDateString(m[1], m[2], m[3])
	}
	if m := patternDateDash.FindStringSubmatch(s); m != nil {
		return IsoDateString(m[1], m[2], m[3])
	}
	if m := patternUSSlash.FindStringSubmatch(s); m != nil {
		return IsoDateString(expandYear(m[3]), m[1], m[2])
	}
	if m := patternUSDash.FindStringSubmatch(s); m != nil {
		return IsoDateString(expandYear(m[3]), m[1], m[2])
	}
	if m := patternEUDot.FindStringSubmatch(s); m != nil {
		return IsoDateString(expandYear(m[3]), m[2], m[1])
	}
	return nil, nil
}

// expandYear writes a two digit year as XXyy so that it gets the century
// heuristic of IsoDateString.
func expandYear(y string) string {
	if len(y) == 2 {
		return padUnknown2 + y
	}
	return y
}

func parseClock(src, h, m, sec, ms, ampm, zone string) (*PartialTime, error) {
	vals := [4]int{Unknown, Unknown, Unknown, Unknown}
	for i, s := range []string{h, m, sec, ms} {
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedLiteral, "time in %q", src)
		}
		vals[i] = v
	}
	if ms != "" {
		// ".5" is 500 milliseconds
		for i := len(ms); i < 3; i++ {
			vals[3] *= 10
		}
	}
	halfday := HalfdayUnknown
	switch strings.ToLower(ampm) {
	case "a":
		halfday = HalfdayAM
	case "p":
		halfday = HalfdayPM
	}
	if halfday != HalfdayUnknown && vals[0] > 12 {
		return nil, errors.Wrapf(ErrMalformedLiteral, "hour %d with am/pm in %q", vals[0], src)
	}
	t := IsoTime(vals[0], vals[1], vals[2], vals[3], halfday)
	if err := t.p.Validate(); err != nil {
		return nil, errors.Wrapf(ErrMalformedLiteral, "time in %q: %v", src, err)
	}
	if zone != "" {
		loc, err := parseZoneOffset(zone)
		if err != nil {
			return nil, errors.Wrapf(err, "time in %q", src)
		}
		t = t.WithZone(loc)
	}
	return t, nil
}

func parseZoneOffset(z string) (*time.Location, error) {
	if z == "Z" {
		return time.UTC, nil
	}
	digits := strings.ReplaceAll(z[1:], ":", "")
	if len(digits) != 4 {
		return nil, errors.Wrapf(ErrMalformedLiteral, "zone offset %q", z)
	}
	hh, err1 := strconv.Atoi(digits[:2])
	mm, err2 := strconv.Atoi(digits[2:])
	if err1 != nil || err2 != nil {
		return nil, errors.Wrapf(ErrMalformedLiteral, "zone offset %q", z)
	}
	secs := (hh*60 + mm) * 60
	if z[0] == '-' {
		secs = -secs
	}
	return time.FixedZone(z, secs), nil
}
