// Package medicamentsparser turns raw BDPM lines into records: the value
// transforms, the static dataset schema table, the line parser and the
// default line sources.
package medicamentsparser

import (
	"fmt"
	"strings"
)

// Record is the parser's output: column name to transformed value.
// It only exists at the parser boundary and is converted right away into
// the dataset's entity type.
type Record map[string]any

// InvalidLineError reports a line whose column count does not fit the schema.
type InvalidLineError struct {
	Dataset Dataset
	Line    string
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("invalid line in %s: %q", e.Dataset, e.Line)
}

// LineParser parses the lines of a single dataset.
type LineParser struct {
	schema Schema
}

// NewLineParser creates a parser bound to a dataset schema
func NewLineParser(schema Schema) *LineParser {
	return &LineParser{schema: schema}
}

// Dataset returns the dataset this parser handles
func (p *LineParser) Dataset() Dataset {
	return p.schema.Dataset
}

func splitLine(line string) []string {
	return strings.Split(strings.TrimRight(line, " \t\r\n\v\f"), "\t")
}

// Validate reports whether the line can be parsed. Datasets may omit
// trailing optional columns, so fewer parts than columns is fine.
func (p *LineParser) Validate(line string) bool {
	parts := splitLine(line)
	return len(parts) > 0 && len(parts) <= len(p.schema.Columns)
}

// Parse zips the tab separated parts of the line against the schema.
// Only the columns present in the line appear in the record.
func (p *LineParser) Parse(line string) (Record, error) {
	if !p.Validate(line) {
		return nil, &InvalidLineError{Dataset: p.schema.Dataset, Line: line}
	}

	parts := splitLine(line)
	record := make(Record, len(parts))

	for i, part := range parts {
		column := p.schema.Columns[i]

		var value *string
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			value = &trimmed
		}

		transform, ok := p.schema.Transforms[column]
		if !ok {
			if value == nil {
				record[column] = nil
			} else {
				record[column] = *value
			}
			continue
		}

		transformed, err := transform(value)
		if err != nil {
			return nil, fmt.Errorf("%s: column %s: %w", p.schema.Dataset, column, err)
		}
		record[column] = transformed
	}

	return record, nil
}
