package workout

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the form's date format.
const DateLayout = "2006-01-02"

// DefaultMaxSets bounds the per-slot set count taken from client input.
// Every set arrives as a reps and a weight field, so with the default
// 1000-part form budget no larger count can be fully populated.
const DefaultMaxSets = 500

type normalizeOptions struct {
	now      func() time.Time
	location *time.Location
	maxSets  int
}

// NormalizeOption configures Normalize.
type NormalizeOption func(*normalizeOptions)

// WithClock sets the time source used for the missing-date fallback.
func WithClock(now func() time.Time) NormalizeOption {
	return func(o *normalizeOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLocation sets the zone in which "today" is computed.
func WithLocation(loc *time.Location) NormalizeOption {
	return func(o *normalizeOptions) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithMaxSets caps the set count per slot.
func WithMaxSets(n int) NormalizeOption {
	return func(o *normalizeOptions) {
		if n > 0 {
			o.maxSets = n
		}
	}
}

// Normalize maps flat form fields onto a Submission.
//
// For slot i the set count comes from exercise{i}_sets and each set j from
// exercise{i}_set{j}_reps and exercise{i}_set{j}_weight. Counts that are not
// numbers or are negative become 0. Values are trimmed; nothing else is validated.
func Normalize(fields map[string]string, opts ...NormalizeOption) *Submission {
	o := &normalizeOptions{now: time.Now, location: time.UTC, maxSets: DefaultMaxSets}
	for _, opt := range opts {
		opt(o)
	}

	get := func(key string) string { return strings.TrimSpace(fields[key]) }

	sub := &Submission{
		Name:   get("name"),
		Email:  get("email"),
		Weight: get("weight"),
		Date:   get("date"),
	}
	if sub.Date == "" {
		sub.Date = o.now().In(o.location).Format(DateLayout)
	}

	for i := range NumExercises {
		slot := i + 1
		n := min(parseCount(get(fmt.Sprintf("exercise%d_sets", slot))), o.maxSets)

		ex := Exercise{Slot: slot, Name: Catalog[i], NumSets: n, Sets: make([]Set, n)}
		for j := range n {
			ex.Sets[j] = Set{
				Reps:   get(fmt.Sprintf("exercise%d_set%d_reps", slot, j+1)),
				Weight: get(fmt.Sprintf("exercise%d_set%d_weight", slot, j+1)),
			}
		}
		sub.Exercises[i] = ex
	}

	return sub
}

// parseCount reads the leading decimal digits of s, so "3 sets" is 3.
// Anything without leading digits, including negative numbers, is 0.
func parseCount(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		if n > 1<<20 {
			return n
		}
	}
	return n
}
