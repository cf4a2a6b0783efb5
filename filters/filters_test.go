package filters

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type item struct {
	name string
	date *time.Time
}

func (i item) StringField(name string) *string {
	if name != "name" || i.name == "" {
		return nil
	}
	return &i.name
}

func (i item) DateField(name string) *time.Time {
	if name != "date" {
		return nil
	}
	return i.date
}

func day(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return &d
}

func TestStringFilterMatch(t *testing.T) {
	value := "Paracétamol 500mg"

	tests := []struct {
		name   string
		filter StringFilter
		want   bool
	}{
		{"empty filter", StringFilter{}, true},
		{"contains one of", StringFilter{ContainsOneOf: []string{"500mg"}}, true},
		{"contains one of, case insensitive", StringFilter{ContainsOneOf: []string{"ibuprofène", "PARACÉTAMOL"}}, true},
		{"starts with one of fails", StringFilter{StartsWithOneOf: []string{"Ibu"}}, false},
		{"starts with one of", StringFilter{StartsWithOneOf: []string{"para"}}, true},
		{"ends with one of", StringFilter{EndsWithOneOf: []string{"MG"}}, true},
		{"contains all", StringFilter{ContainsAll: []string{"para", "500"}}, true},
		{"contains all fails", StringFilter{ContainsAll: []string{"para", "1000"}}, false},
		{"conditions are and-ed", StringFilter{StartsWithOneOf: []string{"para"}, EndsWithOneOf: []string{"ml"}}, false},
		{"empty candidate list is ignored", StringFilter{ContainsOneOf: []string{}, StartsWithOneOf: []string{"para"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(&value); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", value, got, tt.want)
			}
		})
	}
}

func TestStringFilterNullValue(t *testing.T) {
	empty := ""
	f := StringFilter{ContainsOneOf: []string{"a"}}
	if f.Match(nil) {
		t.Error("nil value should fail a non-empty filter")
	}
	if f.Match(&empty) {
		t.Error("empty value should fail a non-empty filter")
	}
	if !(StringFilter{}).Match(nil) {
		t.Error("nil value should pass an empty filter")
	}
}

func TestDateFilterMatch(t *testing.T) {
	value := day(t, "2020-01-01")

	after, err := NewDateFilter("", "2020-06-01")
	if err != nil {
		t.Fatal(err)
	}
	if after.Match(value) {
		t.Error("2020-01-01 should fail after 2020-06-01")
	}

	before, err := NewDateFilter("01/01/2021", "")
	if err != nil {
		t.Fatal(err)
	}
	if !before.Match(value) {
		t.Error("2020-01-01 should pass before 2021-01-01")
	}

	inclusive, err := NewDateFilter("2020-01-01", "2020-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if !inclusive.Match(value) {
		t.Error("bounds should be inclusive")
	}

	if before.Match(nil) {
		t.Error("nil date should fail a bounded filter")
	}
	if !(DateFilter{}).Match(nil) {
		t.Error("nil date should pass an empty filter")
	}
}

func TestNewDateFilterInvalid(t *testing.T) {
	if _, err := NewDateFilter("2020/01/01", ""); err == nil {
		t.Error("expected an error for an unsupported layout")
	}
	if _, err := NewDateFilter("", "32/01/2020"); err == nil {
		t.Error("expected an error for an impossible date")
	}
}

func names(items []item) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.name)
	}
	return out
}

func TestApplyStringFilters(t *testing.T) {
	items := []item{{name: "Paracétamol 500mg"}, {name: "Ibuprofène 400mg"}, {}}

	got := ApplyStringFilters(items, []StringFilter{{EndsWithOneOf: []string{"mg"}}}, []string{"name"})
	if diff := cmp.Diff([]string{"Paracétamol 500mg", "Ibuprofène 400mg"}, names(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	got = ApplyStringFilters(items, []StringFilter{{StartsWithOneOf: []string{"ibu"}}}, []string{"name"})
	if diff := cmp.Diff([]string{"Ibuprofène 400mg"}, names(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	got = ApplyStringFilters(items, []StringFilter{{}}, []string{"name"})
	if len(got) != 3 {
		t.Errorf("empty filter kept %d items, want 3", len(got))
	}
}

func TestApplyDateFilters(t *testing.T) {
	items := []item{
		{name: "old", date: day(t, "2019-01-01")},
		{name: "new", date: day(t, "2021-01-01")},
		{name: "none"},
	}
	f, err := NewDateFilter("", "2020-01-01")
	if err != nil {
		t.Fatal(err)
	}

	got := ApplyDateFilters(items, []DateFilter{f}, []string{"date"})
	if diff := cmp.Diff([]string{"new"}, names(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSlice(t *testing.T) {
	seq := func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}

	tests := []struct {
		name  string
		n     int
		from  int
		limit int
		want  []int
	}{
		{"offset beyond length", 4, 5, 2, []int{}},
		{"page in the middle", 10, 5, 2, []int{5, 6}},
		{"no limit", 4, 1, 0, []int{1, 2, 3}},
		{"limit past the end", 4, 2, 10, []int{2, 3}},
		{"offset equal to length", 4, 4, 1, []int{}},
		{"largest limit", 4, 1, math.MaxInt, []int{1, 2, 3}},
		{"negative offset", 3, -2, 2, []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slice(seq(tt.n), tt.from, tt.limit)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Slice mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
