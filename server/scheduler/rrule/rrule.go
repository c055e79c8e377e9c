// Package rrule renders periodic temporal sets as iCalendar (RFC 5545)
// recurrence rules and expands them into concrete occurrences.
package rrule

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/timenorm/server/timezone"
)

// Frequency represents the recurrence frequency.
type Frequency string

const (
	Secondly Frequency = "SECONDLY"
	Minutely Frequency = "MINUTELY"
	Hourly   Frequency = "HOURLY"
	Daily    Frequency = "DAILY"
	Weekly   Frequency = "WEEKLY"
	Monthly  Frequency = "MONTHLY"
	Yearly   Frequency = "YEARLY"
)

// Weekday represents the day of week for recurrence.
type Weekday string

const (
	Sunday    Weekday = "SU"
	Monday    Weekday = "MO"
	Tuesday   Weekday = "TU"
	Wednesday Weekday = "WE"
	Thursday  Weekday = "TH"
	Friday    Weekday = "FR"
	Saturday  Weekday = "SA"
)

var weekdays = [...]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// weekdayOf maps time.Weekday to its RRULE code.
func weekdayOf(d time.Weekday) Weekday { return weekdays[d] }

const untilLayout = "20060102T150405Z"

// Rule represents a parsed recurrence rule.
type Rule struct {
	Frequency  Frequency // FREQ
	Interval   int       // INTERVAL (default 1)
	Count      int       // COUNT (number of occurrences)
	Until      time.Time // UNTIL (end date)
	BySecond   []int     // BYSECOND
	ByMinute   []int     // BYMINUTE
	ByHour     []int     // BYHOUR
	ByDay      []Weekday // BYDAY
	ByMonthDay []int     // BYMONTHDAY
	ByMonth    []int     // BYMONTH
	Wkst       Weekday   // WKST (week start)
}

// Parse parses an RRULE string such as "FREQ=WEEKLY;BYDAY=MO,WE,FR;COUNT=10".
func Parse(rrule string) (*Rule, error) {
	rule := &Rule{Interval: 1}
	for _, part := range strings.Split(rrule, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

		var err error
		switch key {
		case "FREQ":
			rule.Frequency = Frequency(value)
		case "INTERVAL":
			rule.Interval, err = strconv.Atoi(value)
		case "COUNT":
			rule.Count, err = strconv.Atoi(value)
		case "UNTIL":
			rule.Until, err = time.Parse(untilLayout, value)
		case "BYDAY":
			rule.ByDay = parseByDay(value)
		case "BYMONTHDAY":
			rule.ByMonthDay, err = parseIntList(value)
		case "BYMONTH":
			rule.ByMonth, err = parseIntList(value)
		case "BYHOUR":
			rule.ByHour, err = parseIntList(value)
		case "BYMINUTE":
			rule.ByMinute, err = parseIntList(value)
		case "BYSECOND":
			rule.BySecond, err = parseIntList(value)
		case "WKST":
			rule.Wkst = Weekday(value)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s in RRULE", key)
		}
	}

	if rule.Frequency == "" {
		return nil, errors.New("missing required FREQ in RRULE")
	}
	if rule.Interval < 1 {
		rule.Interval = 1
	}
	return rule, nil
}

func parseByDay(value string) []Weekday {
	parts := strings.Split(value, ",")
	days := make([]Weekday, 0, len(parts))
	for _, part := range parts {
		if day := Weekday(strings.TrimSpace(part)); day != "" {
			days = append(days, day)
		}
	}
	return days
}

func parseIntList(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	nums := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		nums = append(nums, n)
	}
	return nums, nil
}

// String returns the RRULE string representation.
func (r *Rule) String() string {
	parts := []string{"FREQ=" + string(r.Frequency)}
	if r.Interval > 1 {
		parts = append(parts, "INTERVAL="+strconv.Itoa(r.Interval))
	}
	if r.Count > 0 {
		parts = append(parts, "COUNT="+strconv.Itoa(r.Count))
	}
	if !r.Until.IsZero() {
		parts = append(parts, "UNTIL="+r.Until.UTC().Format(untilLayout))
	}
	if len(r.ByDay) > 0 {
		days := make([]string, len(r.ByDay))
		for i, d := range r.ByDay {
			days[i] = string(d)
		}
		parts = append(parts, "BYDAY="+strings.Join(days, ","))
	}
	for _, l := range []struct {
		key  string
		nums []int
	}{
		{"BYMONTHDAY", r.ByMonthDay},
		{"BYMONTH", r.ByMonth},
		{"BYHOUR", r.ByHour},
		{"BYMINUTE", r.ByMinute},
		{"BYSECOND", r.BySecond},
	} {
		if len(l.nums) > 0 {
			parts = append(parts, l.key+"="+intListToString(l.nums))
		}
	}
	if r.Wkst != "" {
		parts = append(parts, "WKST="+string(r.Wkst))
	}
	return strings.Join(parts, ";")
}

func intListToString(nums []int) string {
	strs := make([]string, len(nums))
	for i, n := range nums {
		strs[i] = strconv.Itoa(n)
	}
	return strings.Join(strs, ",")
}

// maxScanDays bounds the day-by-day search of a rule that rarely matches.
const maxScanDays = 366 * 100

// Generator generates occurrences of a rule from a start time.
type Generator struct {
	rule  *Rule
	start time.Time
	loc   *time.Location
}

// NewGenerator creates a new occurrence generator. Occurrences take their
// time of day from start unless the rule has BYHOUR, BYMINUTE or BYSECOND.
func NewGenerator(rule *Rule, start time.Time, loc *time.Location) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{rule: rule, start: start.In(loc), loc: loc}
}

// All generates occurrences up to COUNT, UNTIL or maxOccurrences, whichever
// comes first.
func (g *Generator) All(maxOccurrences int) []time.Time {
	limit := maxOccurrences
	if g.rule.Count > 0 && (limit <= 0 || g.rule.Count < limit) {
		limit = g.rule.Count
	}
	var out []time.Time
	if limit <= 0 {
		return out
	}
	g.each(func(t time.Time) bool {
		out = append(out, t)
		return len(out) < limit
	})
	return out
}

// Between generates occurrences between start and end (inclusive).
func (g *Generator) Between(start, end time.Time) []time.Time {
	var out []time.Time
	n := 0
	g.each(func(t time.Time) bool {
		n++
		if g.rule.Count > 0 && n > g.rule.Count {
			return false
		}
		if t.After(end) {
			return false
		}
		if !t.Before(start) {
			out = append(out, t)
		}
		return true
	})
	return out
}

// each calls fn with every occurrence in order until fn returns false.
func (g *Generator) each(fn func(time.Time) bool) {
	emit := func(t time.Time) bool {
		if !g.rule.Until.IsZero() && t.After(g.rule.Until) {
			return false
		}
		return fn(t)
	}

	if step := g.clockStep(); step > 0 {
		for t, i := g.start, 0; i < maxScanDays*24; t, i = t.Add(step), i+1 {
			if g.dateMatches(t) && !emit(t) {
				return
			}
		}
		return
	}

	day := timezone.StartOfDay(g.start, g.loc)
	for i := 0; i < maxScanDays; i++ {
		d := day.AddDate(0, 0, i)
		if !g.dateMatches(d) || !g.inInterval(d) {
			continue
		}
		for _, t := range g.timesOn(d) {
			if t.Before(g.start) {
				continue
			}
			if !emit(t) {
				return
			}
		}
	}
}

func (g *Generator) interval() int {
	if g.rule.Interval < 1 {
		return 1
	}
	return g.rule.Interval
}

// clockStep is the step of sub-daily frequencies, 0 otherwise.
func (g *Generator) clockStep() time.Duration {
	n := time.Duration(g.interval())
	switch g.rule.Frequency {
	case Hourly:
		return n * time.Hour
	case Minutely:
		return n * time.Minute
	case Secondly:
		return n * time.Second
	}
	return 0
}

// dateMatches applies the BYMONTH, BYMONTHDAY and BYDAY filters, with the
// defaults RFC 5545 derives from the start for coarse frequencies.
func (g *Generator) dateMatches(d time.Time) bool {
	r := g.rule
	byMonth, byMonthDay, byDay := r.ByMonth, r.ByMonthDay, r.ByDay
	switch r.Frequency {
	case Weekly:
		if len(byDay) == 0 {
			byDay = []Weekday{weekdayOf(g.start.Weekday())}
		}
	case Monthly:
		if len(byDay) == 0 && len(byMonthDay) == 0 {
			byMonthDay = []int{g.start.Day()}
		}
	case Yearly:
		if len(byMonth) == 0 && len(byDay) == 0 && len(byMonthDay) == 0 {
			byMonth = []int{int(g.start.Month())}
		}
		if len(byDay) == 0 && len(byMonthDay) == 0 {
			byMonthDay = []int{g.start.Day()}
		}
	}

	if len(byMonth) > 0 && !containsInt(byMonth, int(d.Month())) {
		return false
	}
	if len(byMonthDay) > 0 && !matchesMonthDay(byMonthDay, d) {
		return false
	}
	if len(byDay) > 0 && !containsWeekday(byDay, weekdayOf(d.Weekday())) {
		return false
	}
	return true
}

// inInterval reports whether d falls in a period selected by INTERVAL,
// counting periods from the one holding the start.
func (g *Generator) inInterval(d time.Time) bool {
	n := g.interval()
	if n == 1 {
		return true
	}
	s := g.start
	var idx int
	switch g.rule.Frequency {
	case Daily:
		idx = daysBetween(s, d)
	case Weekly:
		idx = daysBetween(g.weekStart(s), g.weekStart(d)) / 7
	case Monthly:
		idx = (d.Year()-s.Year())*12 + int(d.Month()) - int(s.Month())
	case Yearly:
		idx = d.Year() - s.Year()
	}
	return idx%n == 0
}

func (g *Generator) weekStart(t time.Time) time.Time {
	wkst := time.Monday
	for i, w := range weekdays {
		if w == g.rule.Wkst {
			wkst = time.Weekday(i)
		}
	}
	back := (int(t.Weekday()) - int(wkst) + 7) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-back, 0, 0, 0, 0, g.loc)
}

// timesOn lists the occurrence times on day d in order.
func (g *Generator) timesOn(d time.Time) []time.Time {
	hours := orDefault(g.rule.ByHour, g.start.Hour())
	minutes := orDefault(g.rule.ByMinute, g.start.Minute())
	seconds := orDefault(g.rule.BySecond, g.start.Second())

	out := make([]time.Time, 0, len(hours)*len(minutes)*len(seconds))
	for _, h := range hours {
		for _, m := range minutes {
			for _, s := range seconds {
				out = append(out, time.Date(d.Year(), d.Month(), d.Day(), h, m, s, 0, g.loc))
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func orDefault(nums []int, def int) []int {
	if len(nums) == 0 {
		return []int{def}
	}
	return nums
}

func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func containsInt(nums []int, v int) bool {
	for _, n := range nums {
		if n == v {
			return true
		}
	}
	return false
}

func containsWeekday(days []Weekday, v Weekday) bool {
	for _, d := range days {
		if d == v {
			return true
		}
	}
	return false
}

// matchesMonthDay accepts negative days counted from the end of the month.
func matchesMonthDay(days []int, d time.Time) bool {
	last := time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	for _, n := range days {
		if n == d.Day() || (n < 0 && last+n+1 == d.Day()) {
			return true
		}
	}
	return false
}
