package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the canonical calendar date format sent to downstream agents.
const DateLayout = "2006-01-02"

var (
	ErrUnparsableDate = errors.New("unparsable date")
	ErrPastDate       = errors.New("date is in the past")
)

// DateError carries the user facing message returned to the model.
type DateError struct {
	Input string
	kind  error
}

func (e *DateError) Error() string {
	if errors.Is(e.kind, ErrPastDate) {
		return fmt.Sprintf("Date %s is in the past. Please provide a future date.", e.Input)
	}
	return fmt.Sprintf("Invalid date: %s. Please use YYYY-MM-DD format.", e.Input)
}

func (e *DateError) Unwrap() error {
	return e.kind
}

type DateNormalizer struct {
	now func() time.Time
}

func NewDateNormalizer(now func() time.Time) *DateNormalizer {
	if now == nil {
		now = time.Now
	}
	return &DateNormalizer{now: now}
}

// Normalize turns a free-form date into YYYY-MM-DD. Dates before today are rejected.
func (n *DateNormalizer) Normalize(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", &DateError{Input: input, kind: ErrUnparsableDate}
	}

	parsed, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		parsed, err = dateparse.ParseIn(trimmed, time.UTC)
		if err != nil {
			return "", &DateError{Input: input, kind: ErrUnparsableDate}
		}
	}

	date := civilDate(parsed)
	if date.Before(civilDate(n.now())) {
		return "", &DateError{Input: input, kind: ErrPastDate}
	}

	return date.Format(DateLayout), nil
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var defaultDateNormalizer = NewDateNormalizer(nil)

func NormalizeDate(input string) (string, error) {
	return defaultDateNormalizer.Normalize(input)
}
