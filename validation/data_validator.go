// Package validation checks a built graph before it is published and
// reports its referential data quality issues.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/giygas/medicaments-graph/graph"
	"github.com/giygas/medicaments-graph/interfaces"
	"github.com/giygas/medicaments-graph/logging"
	mp "github.com/giygas/medicaments-graph/medicamentsparser"
	"github.com/giygas/medicaments-graph/medicamentsparser/entities"
)

// Compile-time check to ensure DataValidatorImpl implements DataValidator
var _ interfaces.DataValidator = (*DataValidatorImpl)(nil)

// Maximum number of invalid medicaments logged by ValidateGraph
const maxLogged = 10

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateMedicament checks if a medicament entity is valid
func (v *DataValidatorImpl) ValidateMedicament(m *entities.Medicament) error {
	if m == nil {
		return errors.New("medicament is nil")
	}

	if m.Cis == "" {
		return errors.New("empty CIS code")
	}

	if strings.TrimSpace(m.Denomination) == "" {
		return fmt.Errorf("empty denomination for CIS %s", m.Cis)
	}

	for _, voie := range m.VoiesAdministration {
		if strings.TrimSpace(voie) == "" {
			return fmt.Errorf("empty voie d'administration for CIS %s", m.Cis)
		}
	}

	return nil
}

// ValidateGraph fails when the graph has nothing worth publishing.
// Individually invalid medicaments are logged but do not block the graph.
func (v *DataValidatorImpl) ValidateGraph(g *graph.Graph) error {
	if g == nil {
		return errors.New("graph is nil")
	}

	stats := g.Stats()
	if stats.Medicaments == 0 {
		return errors.New("no medicaments found")
	}
	if stats.Presentations == 0 {
		return errors.New("no presentations found")
	}

	invalid := 0
	for _, m := range g.Medicaments() {
		if err := v.ValidateMedicament(m); err != nil {
			invalid++
			if invalid <= maxLogged {
				logging.Warn("Invalid medicament", "cis", m.Cis, "error", err)
			}
		}
	}
	if invalid > 0 {
		logging.Warn("Graph contains invalid medicaments", "count", invalid)
	}

	return nil
}

// ReportDataQuality walks the graph once and collects its referential issues
func (v *DataValidatorImpl) ReportDataQuality(g *graph.Graph) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		OrphanPresentationCIS:  []string{},
		OrphanSubstanceCIS:     []string{},
		OrphanConditionCIS:     []string{},
		GeneriqueOnlyCIS:       []string{},
		GroupesWithoutPrinceps: []string{},
	}
	if g == nil {
		return report
	}

	for _, m := range g.Medicaments() {
		if len(m.Presentations()) == 0 {
			report.MedicamentsWithoutPresentations++
		}
		if len(m.Substances()) == 0 {
			report.MedicamentsWithoutSubstances++
		}
		if len(g.Conditions(m.Cis)) == 0 {
			report.MedicamentsWithoutConditions++
		}
		if len(m.GroupesGeneriques()) == 0 {
			report.MedicamentsWithoutGeneriques++
		}
	}

	report.OrphanPresentationCIS = g.Orphans(mp.Presentations)
	report.OrphanSubstanceCIS = g.Orphans(mp.Substances)
	report.OrphanConditionCIS = g.Orphans(mp.Conditions)
	report.GeneriqueOnlyCIS = g.Orphans(mp.GroupesGeneriques)

	for _, grp := range g.GroupesGeneriques() {
		if len(grp.Princeps) == 0 {
			report.GroupesWithoutPrinceps = append(report.GroupesWithoutPrinceps, grp.ID)
		}
	}

	return report
}

// LogReport writes the non-empty sections of a report as warnings
func LogReport(report *interfaces.DataQualityReport) {
	if report == nil {
		return
	}

	if report.MedicamentsWithoutSubstances > 0 {
		logging.Warn("Medicaments without substances", "count", report.MedicamentsWithoutSubstances)
	}
	if len(report.OrphanPresentationCIS) > 0 {
		logging.Warn("Presentations with orphaned CIS",
			"count", len(report.OrphanPresentationCIS),
			"cis_list", head(report.OrphanPresentationCIS),
		)
	}
	if len(report.OrphanSubstanceCIS) > 0 {
		logging.Warn("Substances with orphaned CIS",
			"count", len(report.OrphanSubstanceCIS),
			"cis_list", head(report.OrphanSubstanceCIS),
		)
	}
	if len(report.OrphanConditionCIS) > 0 {
		logging.Warn("Conditions with orphaned CIS",
			"count", len(report.OrphanConditionCIS),
			"cis_list", head(report.OrphanConditionCIS),
		)
	}
	if len(report.GroupesWithoutPrinceps) > 0 {
		logging.Warn("Generic groups without princeps",
			"count", len(report.GroupesWithoutPrinceps),
			"group_ids", head(report.GroupesWithoutPrinceps),
		)
	}

	logging.Info("Data quality report",
		"without_presentations", report.MedicamentsWithoutPresentations,
		"without_conditions", report.MedicamentsWithoutConditions,
		"without_generiques", report.MedicamentsWithoutGeneriques,
		"generique_only_cis", len(report.GeneriqueOnlyCIS),
	)
}

// head keeps log lines short on real data
func head(list []string) []string {
	if len(list) > maxLogged {
		return list[:maxLogged]
	}
	return list
}
