package service

import (
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang-finance-insight/pkg/logger"
)

var (
	minutesAgoPattern = regexp.MustCompile(`(\d+)\s*(?:분|minutes?|mins?)\s*(?:전|ago)`)
	hoursAgoPattern   = regexp.MustCompile(`(\d+)\s*(?:시간|hours?|hrs?)\s*(?:전|ago)`)
	daysAgoPattern    = regexp.MustCompile(`(\d+)\s*(?:일|days?)\s*(?:전|ago)`)
	clockPattern      = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	ymdPattern        = regexp.MustCompile(`^(\d{4})\.(\d{1,2})\.(\d{1,2})`)
	mdPattern         = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.`)
	absoluteLayouts   = []string{time.RFC3339, time.RFC1123Z, time.RFC1123, "2006-01-02 15:04:05", "2006-01-02"}
)

// RelativeTimeParser converts community timestamps ("3시간 전", "어제 10:30", "10.13.") to absolute times.
// Values it cannot read resolve to now and are counted.
type RelativeTimeParser struct {
	now          func() time.Time
	log          *logger.Logger
	unrecognized atomic.Int64
}

func NewRelativeTimeParser(log *logger.Logger, now func() time.Time) *RelativeTimeParser {
	return &RelativeTimeParser{now: now, log: log}
}

// Unrecognized returns how many values fell back to now since the parser was created.
func (p *RelativeTimeParser) Unrecognized() int64 {
	return p.unrecognized.Load()
}

func (p *RelativeTimeParser) Parse(raw string) time.Time {
	now := p.now()
	s := strings.TrimSpace(raw)
	if s == "" {
		return now
	}
	lower := strings.ToLower(s)

	if strings.Contains(s, "방금") || strings.Contains(lower, "just now") {
		return now
	}
	if n, ok := matchInt(minutesAgoPattern, lower); ok {
		return now.Add(-time.Duration(n) * time.Minute)
	}
	if n, ok := matchInt(hoursAgoPattern, lower); ok {
		return now.Add(-time.Duration(n) * time.Hour)
	}
	if n, ok := matchInt(daysAgoPattern, lower); ok {
		return now.AddDate(0, 0, -n)
	}
	if strings.Contains(s, "어제") || strings.Contains(lower, "yesterday") {
		y := now.AddDate(0, 0, -1)
		hour, minute := 0, 0
		if m := clockPattern.FindStringSubmatch(s); m != nil {
			hour, _ = strconv.Atoi(m[1])
			minute, _ = strconv.Atoi(m[2])
		}
		return time.Date(y.Year(), y.Month(), y.Day(), hour, minute, 0, 0, now.Location())
	}
	if m := ymdPattern.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if t, ok := validDate(year, month, day, now.Location()); ok {
			return t
		}
	}
	if m := mdPattern.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if t, ok := validDate(now.Year(), month, day, now.Location()); ok {
			if t.After(now) {
				t = t.AddDate(-1, 0, 0)
			}
			return t
		}
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t
		}
	}

	p.unrecognized.Add(1)
	p.log.Warn("Unrecognized comment timestamp, using current time",
		logger.StringField("value", raw),
		logger.Field("unrecognized_total", p.unrecognized.Load()))
	return now
}

func matchInt(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func validDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
