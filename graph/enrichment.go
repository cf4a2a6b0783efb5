package graph

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/giygas/medicaments-graph/logging"
	mp "github.com/giygas/medicaments-graph/medicamentsparser"
)

const (
	enrichmentIndications = "indications"
	enrichmentPosologie   = "posologie"
)

// enrich copies indications and posologie from an ANSM CSV export onto the
// matching medicaments. Rows whose key matches no medicament are ignored.
func enrich(ix *indexes, r io.Reader, keyColumn string) error {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("enrichment: empty file")
		}
		return fmt.Errorf("enrichment: reading header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, required := range []string{keyColumn, enrichmentIndications, enrichmentPosologie} {
		if _, ok := columns[required]; !ok {
			return fmt.Errorf("enrichment: missing column %q", required)
		}
	}

	var rows, matched, invalid int
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("enrichment: row %d: %w", rows+1, err)
		}
		rows++

		cis, err := mp.NormalizeIdentifier(field(row, columns[keyColumn]))
		if err != nil {
			invalid++
			continue
		}

		m, ok := ix.Medicament(cis)
		if !ok {
			logging.Debug("No medicament for enrichment row", "cis", cis)
			continue
		}
		m.Indications = field(row, columns[enrichmentIndications])
		m.Posologie = field(row, columns[enrichmentPosologie])
		matched++
	}

	logging.Info("Medicaments enriched",
		"rows", rows,
		"matched", matched,
		"invalid_keys", invalid)
	return nil
}

// field tolerates short rows
func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
