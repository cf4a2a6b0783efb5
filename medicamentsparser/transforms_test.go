package medicamentsparser

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func ptr(s string) *string { return &s }

func TestParseDate(t *testing.T) {
	want := time.Date(2019, time.March, 21, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		input   string
		wantErr bool
	}{
		{"21/03/2019", false},
		{"21-03-2019", false},
		{"2019-03-21", false},
		{"2019/03/21", true},
		{"21.03.2019", true},
		{"31/02/2020", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(ptr(tt.input))
			if tt.wantErr {
				var fe *FormatError
				if !errors.As(err, &fe) {
					t.Fatalf("ParseDate(%q) error = %v, want *FormatError", tt.input, err)
				}
				if fe.Value != tt.input {
					t.Errorf("FormatError.Value = %q, want %q", fe.Value, tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if !got.(time.Time).Equal(want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, want)
			}
			if FormatDate(got.(time.Time)) != "2019-03-21" {
				t.Errorf("FormatDate = %s, want 2019-03-21", FormatDate(got.(time.Time)))
			}
		})
	}
}

func TestParseDateFormatInsensitive(t *testing.T) {
	a, err := ParseDate(ptr("21/03/2019"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseDate(ptr("2019-03-21"))
	if err != nil {
		t.Fatal(err)
	}
	if !a.(time.Time).Equal(b.(time.Time)) {
		t.Errorf("%v != %v", a, b)
	}
}

func TestNullPassThrough(t *testing.T) {
	transforms := map[string]Transform{
		"ParseDate":         ParseDate,
		"StripLeadingZeros": StripLeadingZeros,
		"OuiNonToBool":      OuiNonToBool,
		"CleanNumber":       CleanNumber,
		"ParseInteger":      ParseInteger,
	}
	for name, tr := range transforms {
		got, err := tr(nil)
		if err != nil || got != nil {
			t.Errorf("%s(nil) = %v, %v, want nil, nil", name, got, err)
		}
	}
}

func TestStripLeadingZeros(t *testing.T) {
	got, err := StripLeadingZeros(ptr("0012345"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "12345" {
		t.Errorf("StripLeadingZeros(0012345) = %v, want 12345", got)
	}

	got, err = StripLeadingZeros(ptr("60002283"))
	if err != nil || got != "60002283" {
		t.Errorf("StripLeadingZeros(60002283) = %v, %v", got, err)
	}

	_, err = StripLeadingZeros(ptr("0000"))
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("StripLeadingZeros(0000) error = %v, want *FormatError", err)
	}
	if fe.Value != "0000" {
		t.Errorf("FormatError.Value = %q, want 0000", fe.Value)
	}
}

func TestNormalizeIdentifier(t *testing.T) {
	got, err := NormalizeIdentifier(" 0061266250 ")
	if err != nil || got != "61266250" {
		t.Errorf("NormalizeIdentifier = %q, %v, want 61266250", got, err)
	}
	if _, err := NormalizeIdentifier(""); err == nil {
		t.Error("expected error for empty identifier")
	}
}

func TestOuiNonToBool(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"oui", true},
		{"Oui", true},
		{"NON", false},
		{"peut-être", "peut-être"},
	}
	for _, tt := range tests {
		got, err := OuiNonToBool(ptr(tt.input))
		if err != nil {
			t.Fatalf("OuiNonToBool(%q) unexpected error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("OuiNonToBool(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"65%", "65"},
		{"65 %", "65"},
		{"1234,56", "1234.56"},
		{"1,234,56", "1234.56"},
		{"2,5", "2.5"},
		{"10", "10"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := CleanNumber(ptr(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CleanNumber(%q) = %v, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitSemicolon(t *testing.T) {
	got, _ := SplitSemicolon(nil)
	if diff := cmp.Diff([]string{}, got); diff != "" {
		t.Errorf("SplitSemicolon(nil) mismatch (-want +got):\n%s", diff)
	}

	got, _ = SplitSemicolon(ptr("orale;cutanée"))
	if diff := cmp.Diff([]string{"orale", "cutanée"}, got); diff != "" {
		t.Errorf("SplitSemicolon mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInteger(t *testing.T) {
	got, err := ParseInteger(ptr("4"))
	if err != nil || got != 4 {
		t.Errorf("ParseInteger(4) = %v, %v", got, err)
	}
	var fe *FormatError
	if _, err := ParseInteger(ptr("x")); !errors.As(err, &fe) {
		t.Errorf("ParseInteger(x) error = %v, want *FormatError", err)
	}
}
