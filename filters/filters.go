// Package filters implements the date-range and string-pattern predicates
// used to narrow entity lists, and the pagination helper.
package filters

import (
	"fmt"
	"strings"
	"time"

	"github.com/giygas/medicaments-graph/medicamentsparser"
)

// DateFielder is implemented by entities exposing date columns.
type DateFielder interface {
	DateField(name string) *time.Time
}

// StringFielder is implemented by entities exposing text columns.
type StringFielder interface {
	StringField(name string) *string
}

// DateFilter keeps values inside inclusive bounds. A nil bound is open.
type DateFilter struct {
	Before *time.Time
	After  *time.Time
}

// NewDateFilter parses the bounds with the same date layouts as the
// datasets. Empty strings leave the bound open.
func NewDateFilter(before, after string) (DateFilter, error) {
	var f DateFilter
	if before != "" {
		t, err := parseBound(before)
		if err != nil {
			return DateFilter{}, fmt.Errorf("before: %w", err)
		}
		f.Before = &t
	}
	if after != "" {
		t, err := parseBound(after)
		if err != nil {
			return DateFilter{}, fmt.Errorf("after: %w", err)
		}
		f.After = &t
	}
	return f, nil
}

func parseBound(s string) (time.Time, error) {
	v, err := medicamentsparser.ParseDate(&s)
	if err != nil {
		return time.Time{}, err
	}
	return v.(time.Time), nil
}

// IsEmpty reports a filter with no bound
func (f DateFilter) IsEmpty() bool {
	return f.Before == nil && f.After == nil
}

// Match applies the bounds. A missing date never matches a bounded filter.
func (f DateFilter) Match(v *time.Time) bool {
	if f.IsEmpty() {
		return true
	}
	if v == nil {
		return false
	}
	if f.Before != nil && v.After(*f.Before) {
		return false
	}
	if f.After != nil && v.Before(*f.After) {
		return false
	}
	return true
}

// StringFilter combines case-insensitive pattern conditions. Every
// non-empty condition must hold.
type StringFilter struct {
	ContainsOneOf   []string
	StartsWithOneOf []string
	EndsWithOneOf   []string
	ContainsAll     []string
}

// IsEmpty reports a filter without any candidate
func (f StringFilter) IsEmpty() bool {
	return len(f.ContainsOneOf) == 0 && len(f.StartsWithOneOf) == 0 &&
		len(f.EndsWithOneOf) == 0 && len(f.ContainsAll) == 0
}

// Match applies the conditions. A missing or empty value never matches a
// non-empty filter.
func (f StringFilter) Match(v *string) bool {
	if f.IsEmpty() {
		return true
	}
	if v == nil || *v == "" {
		return false
	}
	value := strings.ToLower(*v)

	if len(f.ContainsOneOf) > 0 && !anyOf(value, f.ContainsOneOf, strings.Contains) {
		return false
	}
	if len(f.StartsWithOneOf) > 0 && !anyOf(value, f.StartsWithOneOf, strings.HasPrefix) {
		return false
	}
	if len(f.EndsWithOneOf) > 0 && !anyOf(value, f.EndsWithOneOf, strings.HasSuffix) {
		return false
	}
	for _, c := range f.ContainsAll {
		if !strings.Contains(value, strings.ToLower(c)) {
			return false
		}
	}
	return true
}

func anyOf(value string, candidates []string, match func(s, sub string) bool) bool {
	for _, c := range candidates {
		if match(value, strings.ToLower(c)) {
			return true
		}
	}
	return false
}

// ApplyDateFilters keeps the records whose fields[i] matches filters[i]
// for every i. Extra filters or fields without a counterpart are ignored.
func ApplyDateFilters[T DateFielder](records []T, filters []DateFilter, fields []string) []T {
	n := min(len(filters), len(fields))
	out := make([]T, 0, len(records))
	for _, rec := range records {
		keep := true
		for i := 0; i < n && keep; i++ {
			keep = filters[i].Match(rec.DateField(fields[i]))
		}
		if keep {
			out = append(out, rec)
		}
	}
	return out
}

// ApplyStringFilters keeps the records whose fields[i] matches filters[i]
// for every i.
func ApplyStringFilters[T StringFielder](records []T, filters []StringFilter, fields []string) []T {
	n := min(len(filters), len(fields))
	out := make([]T, 0, len(records))
	for _, rec := range records {
		keep := true
		for i := 0; i < n && keep; i++ {
			keep = filters[i].Match(rec.StringField(fields[i]))
		}
		if keep {
			out = append(out, rec)
		}
	}
	return out
}

// Slice returns the page of items starting at from. A limit of zero or
// less means no limit.
func Slice[T any](items []T, from, limit int) []T {
	if from < 0 {
		from = 0
	}
	if from >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && limit < end-from {
		end = from + limit
	}
	return items[from:end]
}
