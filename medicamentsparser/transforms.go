package medicamentsparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Transform converts a raw column value into its typed form.
// A nil input stands for an empty column.
type Transform func(v *string) (any, error)

// FormatError reports a column value that does not have the expected shape.
type FormatError struct {
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %q", e.Reason, e.Value)
}

// ISODate is the canonical layout used for every parsed date.
const ISODate = "2006-01-02"

var (
	dateDayFirstSlash = regexp.MustCompile(`^([0-9]{2})/([0-9]{2})/([0-9]{4})$`)
	dateDayFirstDash  = regexp.MustCompile(`^([0-9]{2})-([0-9]{2})-([0-9]{4})$`)
	dateYearFirst     = regexp.MustCompile(`^([0-9]{4})-([0-9]{2})-([0-9]{2})$`)

	trailingDecimalComma = regexp.MustCompile(`,([0-9]+)$`)
)

// ParseDate accepts DD/MM/YYYY, DD-MM-YYYY and YYYY-MM-DD and returns a
// time.Time at midnight UTC.
func ParseDate(v *string) (any, error) {
	if v == nil {
		return nil, nil
	}
	return parseDateString(*v)
}

func parseDateString(s string) (time.Time, error) {
	var year, month, day string

	switch {
	case dateDayFirstSlash.MatchString(s):
		m := dateDayFirstSlash.FindStringSubmatch(s)
		day, month, year = m[1], m[2], m[3]
	case dateDayFirstDash.MatchString(s):
		m := dateDayFirstDash.FindStringSubmatch(s)
		day, month, year = m[1], m[2], m[3]
	case dateYearFirst.MatchString(s):
		m := dateYearFirst.FindStringSubmatch(s)
		year, month, day = m[1], m[2], m[3]
	default:
		return time.Time{}, &FormatError{Value: s, Reason: "the format of this date is not accepted"}
	}

	// Round-trip through time.Parse so that 31/02/2020 is rejected instead of normalized
	t, err := time.Parse(ISODate, year+"-"+month+"-"+day)
	if err != nil {
		return time.Time{}, &FormatError{Value: s, Reason: "invalid calendar date"}
	}
	return t, nil
}

// FormatDate renders a date in the canonical ISO layout.
func FormatDate(t time.Time) string {
	return t.Format(ISODate)
}

// StripLeadingZeros removes the leading zeros of an identifier.
// Identifiers made only of zeros are invalid.
func StripLeadingZeros(v *string) (any, error) {
	if v == nil {
		return nil, nil
	}
	return stripZeros(*v)
}

func stripZeros(s string) (string, error) {
	stripped := strings.TrimLeft(s, "0")
	if stripped == "" {
		return "", &FormatError{Value: s, Reason: "incorrect identifier"}
	}
	return stripped, nil
}

// NormalizeIdentifier applies the identifier normalization used by the
// CIS columns to a value coming from another source.
func NormalizeIdentifier(s string) (string, error) {
	return stripZeros(strings.TrimSpace(s))
}

// OuiNonToBool maps "oui"/"non" to true/false, case-insensitively.
// Any other value is returned unchanged.
func OuiNonToBool(v *string) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch strings.ToLower(*v) {
	case "oui":
		return true, nil
	case "non":
		return false, nil
	}
	return *v, nil
}

// CleanNumber strips percent signs and thousands separators and turns a
// trailing decimal comma into a dot: "1,234,56" -> "1234.56", "65 %" -> "65".
func CleanNumber(v *string) (any, error) {
	if v == nil {
		return nil, nil
	}
	s := strings.ReplaceAll(*v, "%", "")
	s = trailingDecimalComma.ReplaceAllString(strings.TrimSpace(s), ".$1")
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s), nil
}

// SplitSemicolon splits a list column. An empty column yields an empty list.
func SplitSemicolon(v *string) (any, error) {
	if v == nil {
		return []string{}, nil
	}
	return strings.Split(*v, ";"), nil
}

// ParseInteger converts a base-10 integer column.
func ParseInteger(v *string) (any, error) {
	if v == nil {
		return nil, nil
	}
	n, err := strconv.Atoi(*v)
	if err != nil {
		return nil, &FormatError{Value: *v, Reason: "not an integer"}
	}
	return n, nil
}
