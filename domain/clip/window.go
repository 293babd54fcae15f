package clip

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"
)

const (
	// DefaultDelimiter separates the start and end of a range expression
	DefaultDelimiter = "~"

	// DefaultMinDuration is the shortest clip a window may describe
	DefaultMinDuration = time.Second
)

// ErrMalformedRange is returned when a range expression does not contain
// exactly one delimiter
var ErrMalformedRange = errors.New("malformed range expression")

// Window is a normalized start/end pair for a clip
type Window struct {
	Start Timestamp
	End   Timestamp
}

// Duration returns the length of the window
func (w Window) Duration() time.Duration {
	return w.End.Duration() - w.Start.Duration()
}

// WindowResolver turns "<start>~<end>" expressions into windows
type WindowResolver struct {
	parser      *Parser
	delimiter   string
	minDuration time.Duration
}

// NewWindowResolver creates a resolver. Empty delimiter and non-positive
// minimum duration fall back to the defaults.
func NewWindowResolver(parser *Parser, delimiter string, minDuration time.Duration) *WindowResolver {
	if parser == nil {
		parser = defaultParser
	}
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	if minDuration <= 0 {
		minDuration = DefaultMinDuration
	}
	return &WindowResolver{
		parser:      parser,
		delimiter:   delimiter,
		minDuration: minDuration,
	}
}

// Resolve splits expr on the delimiter and parses both bounds. If either bound
// fails to parse the result is empty. An end that does not come after the
// start is moved to start plus the minimum duration.
func (r *WindowResolver) Resolve(expr string) (mo.Option[Window], error) {
	if n := strings.Count(expr, r.delimiter); n != 1 {
		return mo.None[Window](), fmt.Errorf("%w %q: expected one %q, found %d", ErrMalformedRange, expr, r.delimiter, n)
	}

	startText, endText, _ := strings.Cut(expr, r.delimiter)

	start, ok := r.parser.Parse(strings.TrimSpace(startText)).Get()
	if !ok {
		return mo.None[Window](), nil
	}
	end, ok := r.parser.Parse(strings.TrimSpace(endText)).Get()
	if !ok {
		return mo.None[Window](), nil
	}

	if !end.After(start) {
		end = start.Add(r.minDuration)
	}

	return mo.Some(Window{Start: start, End: end}), nil
}
