package validation

import (
	"context"
	"strings"
	"testing"

	"github.com/giygas/medicaments-graph/graph"
	"github.com/giygas/medicaments-graph/interfaces"
	mp "github.com/giygas/medicaments-graph/medicamentsparser"
	"github.com/giygas/medicaments-graph/medicamentsparser/entities"
	"github.com/google/go-cmp/cmp"
)

func buildGraph(t *testing.T, payloads map[mp.Dataset][]string) *graph.Graph {
	t.Helper()
	sources := make(map[mp.Dataset]mp.LineSource, len(payloads))
	for _, dataset := range mp.Datasets() {
		sources[dataset] = mp.NewStringSource(string(dataset), strings.Join(payloads[dataset], "\n"))
	}
	g, err := graph.NewBuilder().Build(context.Background(), sources)
	if err != nil {
		t.Fatalf("Build unexpected error: %v", err)
	}
	return g
}

func qualityFixture() map[mp.Dataset][]string {
	return map[mp.Dataset][]string{
		mp.Medicaments: {
			"1\tPRINCEPS 1 mg\tcomprimé\torale\tAutorisation active\tProcédure nationale\tCommercialisée\t01/01/2000\t\t\tLABO A\tNon",
			"2\tSEUL 2 mg\tcomprimé\torale\tAutorisation active\tProcédure nationale\tCommercialisée\t01/01/2000\t\t\tLABO B\tNon",
		},
		mp.Presentations: {
			"1\t1000001\tboîte\tPrésentation active\tDéclaration de commercialisation\t01/01/2001\t3400910000011",
			"99\t1000099\tboîte\tPrésentation active\tDéclaration de commercialisation\t01/01/2001\t3400910000099",
		},
		mp.Substances: {
			"1\tcomprimé\t42\tMOLECULE\t1 mg\tun comprimé\tSA\t1",
			"98\tcomprimé\t43\tAUTRE\t1 mg\tun comprimé\tSA\t1",
		},
		mp.GroupesGeneriques: {
			"6\tMOLECULE 1 mg\t1\t0\t1",
			"5\tFANTOME\t97\t0\t1",
			"5\tFANTOME\t95\t1\t2",
		},
		mp.Conditions: {
			"1\tListe I",
			"96\tListe II",
		},
	}
}

func TestNewDataValidator(t *testing.T) {
	validator := NewDataValidator()

	if validator == nil {
		t.Fatal("NewDataValidator returned nil")
	}

	if _, ok := validator.(*DataValidatorImpl); !ok {
		t.Error("NewDataValidator should return *DataValidatorImpl")
	}
}

func TestValidateMedicament(t *testing.T) {
	v := &DataValidatorImpl{}

	tests := []struct {
		name    string
		m       *entities.Medicament
		wantErr bool
	}{
		{"valid", &entities.Medicament{Cis: "1", Denomination: "DOLIPRANE", VoiesAdministration: []string{"orale"}}, false},
		{"nil", nil, true},
		{"empty CIS", &entities.Medicament{Denomination: "DOLIPRANE"}, true},
		{"blank denomination", &entities.Medicament{Cis: "1", Denomination: "  "}, true},
		{"blank voie", &entities.Medicament{Cis: "1", Denomination: "DOLIPRANE", VoiesAdministration: []string{""}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateMedicament(tt.m)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMedicament() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateGraph(t *testing.T) {
	v := NewDataValidator()

	if err := v.ValidateGraph(nil); err == nil {
		t.Error("expected an error for a nil graph")
	}

	if err := v.ValidateGraph(buildGraph(t, qualityFixture())); err != nil {
		t.Errorf("ValidateGraph unexpected error: %v", err)
	}

	empty := qualityFixture()
	empty[mp.Medicaments] = nil
	if err := v.ValidateGraph(buildGraph(t, empty)); err == nil {
		t.Error("expected an error for a graph without medicaments")
	}

	noPresentations := qualityFixture()
	noPresentations[mp.Presentations] = nil
	if err := v.ValidateGraph(buildGraph(t, noPresentations)); err == nil {
		t.Error("expected an error for a graph without presentations")
	}
}

func TestReportDataQuality(t *testing.T) {
	report := NewDataValidator().ReportDataQuality(buildGraph(t, qualityFixture()))

	want := &interfaces.DataQualityReport{
		MedicamentsWithoutPresentations: 1,
		MedicamentsWithoutSubstances:    1,
		MedicamentsWithoutConditions:    1,
		MedicamentsWithoutGeneriques:    1,
		OrphanPresentationCIS:           []string{"99"},
		OrphanSubstanceCIS:              []string{"98"},
		OrphanConditionCIS:              []string{"96"},
		GeneriqueOnlyCIS:                []string{"95", "97"},
		GroupesWithoutPrinceps:          []string{"5"},
	}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestReportDataQualityNilGraph(t *testing.T) {
	report := NewDataValidator().ReportDataQuality(nil)
	if report == nil {
		t.Fatal("report should never be nil")
	}
	if report.OrphanPresentationCIS == nil || report.GroupesWithoutPrinceps == nil {
		t.Error("report lists should be empty, not nil")
	}
	LogReport(report)
}

func TestHead(t *testing.T) {
	long := make([]string, 25)
	if got := len(head(long)); got != maxLogged {
		t.Errorf("head kept %d values, want %d", got, maxLogged)
	}
	if got := len(head([]string{"1"})); got != 1 {
		t.Errorf("head kept %d values, want 1", got)
	}
}
