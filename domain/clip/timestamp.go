package clip

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Accepted timestamp layouts. Field widths follow strptime: one or two digits
// per clock field and up to six fractional digits.
const (
	LayoutHMS         = "hh:mm:ss"
	LayoutHMSFraction = "hh:mm:ss.ffffff"
	LayoutMS          = "mm:ss"
	LayoutMSFraction  = "mm:ss.ffffff"
)

var layoutPatterns = map[string]*regexp.Regexp{
	LayoutHMS:         regexp.MustCompile(`^(?P<h>\d{1,2}):(?P<m>\d{1,2}):(?P<s>\d{1,2})$`),
	LayoutHMSFraction: regexp.MustCompile(`^(?P<h>\d{1,2}):(?P<m>\d{1,2}):(?P<s>\d{1,2})\.(?P<f>\d{1,6})$`),
	LayoutMS:          regexp.MustCompile(`^(?P<m>\d{1,2}):(?P<s>\d{1,2})$`),
	LayoutMSFraction:  regexp.MustCompile(`^(?P<m>\d{1,2}):(?P<s>\d{1,2})\.(?P<f>\d{1,6})$`),
}

// Layouts returns the names of every supported timestamp layout
func Layouts() []string {
	names := lo.Keys(layoutPatterns)
	sort.Strings(names)
	return names
}

// Timestamp is a time-of-day offset with microsecond precision
type Timestamp struct {
	Hours        int
	Minutes      int
	Seconds      int
	Microseconds int
}

// TimestampFromDuration converts an offset from midnight into a Timestamp.
// Hours are not wrapped at 24.
func TimestampFromDuration(d time.Duration) Timestamp {
	if d < 0 {
		d = 0
	}
	micros := int(d / time.Microsecond)
	return Timestamp{
		Hours:        micros / 3_600_000_000,
		Minutes:      micros / 60_000_000 % 60,
		Seconds:      micros / 1_000_000 % 60,
		Microseconds: micros % 1_000_000,
	}
}

// Duration returns the timestamp as an offset from midnight
func (t Timestamp) Duration() time.Duration {
	return time.Duration(t.Hours)*time.Hour +
		time.Duration(t.Minutes)*time.Minute +
		time.Duration(t.Seconds)*time.Second +
		time.Duration(t.Microseconds)*time.Microsecond
}

// Add returns t shifted forward by d
func (t Timestamp) Add(d time.Duration) Timestamp {
	return TimestampFromDuration(t.Duration() + d)
}

// String returns the timestamp in HH:MM:SS.ffffff format
func (t Timestamp) String() string {
	return fmt.Sprintf("%s.%06d", t.Clock(), t.Microseconds)
}

// Clock returns the HH:MM:SS component
func (t Timestamp) Clock() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
}

// Before returns true if t is before other
func (t Timestamp) Before(other Timestamp) bool {
	return t.Duration() < other.Duration()
}

// After returns true if t is after other
func (t Timestamp) After(other Timestamp) bool {
	return t.Duration() > other.Duration()
}

// Parser converts timestamp text into a Timestamp using a fixed set of layouts
type Parser struct {
	layouts map[string]*regexp.Regexp
}

// NewParser creates a parser accepting the named layouts. With no names, every
// supported layout is accepted.
func NewParser(names ...string) (*Parser, error) {
	if len(names) == 0 {
		names = Layouts()
	}

	layouts := make(map[string]*regexp.Regexp, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		pattern, ok := layoutPatterns[key]
		if !ok {
			return nil, fmt.Errorf("unknown timestamp layout %q (supported: %s)", name, strings.Join(Layouts(), ", "))
		}
		layouts[key] = pattern
	}

	return &Parser{layouts: layouts}, nil
}

var defaultParser = lo.Must(NewParser())

// ParseTimestamp parses s with every supported layout
func ParseTimestamp(s string) mo.Option[Timestamp] {
	return defaultParser.Parse(s)
}

// Parse tries each accepted layout and returns the first match. No match is
// reported as an empty option rather than an error.
func (p *Parser) Parse(s string) mo.Option[Timestamp] {
	for _, pattern := range p.layouts {
		if ts, ok := match(pattern, s); ok {
			return mo.Some(ts)
		}
	}
	return mo.None[Timestamp]()
}

func match(pattern *regexp.Regexp, s string) (Timestamp, bool) {
	matches := pattern.FindStringSubmatch(s)
	if matches == nil {
		return Timestamp{}, false
	}

	var ts Timestamp
	for i, name := range pattern.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		field := matches[i]
		switch name {
		case "h":
			ts.Hours, _ = strconv.Atoi(field)
		case "m":
			ts.Minutes, _ = strconv.Atoi(field)
		case "s":
			ts.Seconds, _ = strconv.Atoi(field)
		case "f":
			ts.Microseconds, _ = strconv.Atoi(field + strings.Repeat("0", 6-len(field)))
		}
	}

	if ts.Hours > 23 || ts.Minutes > 59 || ts.Seconds > 59 {
		return Timestamp{}, false
	}

	return ts, true
}
