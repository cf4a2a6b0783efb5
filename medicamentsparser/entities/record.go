// Package entities holds one concrete type per BDPM dataset, the derived
// generic group aggregate, and the lazy relation accessors between them.
package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/giygas/medicaments-graph/medicamentsparser"
)

// MissingFieldError reports a record without one of its key columns.
type MissingFieldError struct {
	Dataset medicamentsparser.Dataset
	Field   string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s record without %s", e.Dataset, e.Field)
}

func requiredString(rec medicamentsparser.Record, dataset medicamentsparser.Dataset, column string) (string, error) {
	v := stringValue(rec, column)
	if v == "" {
		return "", &MissingFieldError{Dataset: dataset, Field: column}
	}
	return v, nil
}

func stringValue(rec medicamentsparser.Record, column string) string {
	if s, ok := rec[column].(string); ok {
		return s
	}
	return ""
}

func dateValue(rec medicamentsparser.Record, column string) *time.Time {
	if t, ok := rec[column].(time.Time); ok {
		return &t
	}
	return nil
}

// boolValue returns nil for empty columns and for values that were neither oui nor non.
// Those values are kept by unparsedFlag.
func boolValue(rec medicamentsparser.Record, column string) *bool {
	if b, ok := rec[column].(bool); ok {
		return &b
	}
	return nil
}

// unparsedFlag returns the text of a oui/non column that did not convert to a bool
func unparsedFlag(rec medicamentsparser.Record, column string) string {
	return stringValue(rec, column)
}

func listValue(rec medicamentsparser.Record, column string) []string {
	if l, ok := rec[column].([]string); ok {
		return l
	}
	return []string{}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func joined(l []string) *string {
	return optional(strings.Join(l, ";"))
}
