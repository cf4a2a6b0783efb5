package entities

import (
	"slices"

	"github.com/giygas/medicaments-graph/medicamentsparser"
)

// Substance is one composition line (CIS_COMPO_bdpm).
type Substance struct {
	related

	Cis                              string `json:"cis"`
	DesignationElementPharmaceutique string `json:"designationElementPharmaceutique"`
	CodeSubstance                    string `json:"codeSubstance"`
	Denomination                     string `json:"denomination"`
	Dosage                           string `json:"dosage"`
	ReferenceDosage                  string `json:"referenceDosage"`
	NatureComposant                  string `json:"natureComposant"`
	NumeroLiaison                    string `json:"numeroLiaison"`

	// Denominations is filled after ingestion with every denomination
	// observed for the same code substance.
	Denominations []string `json:"denominations"`
}

// NewSubstance converts a parsed CIS_COMPO_bdpm record
func NewSubstance(rec medicamentsparser.Record) (*Substance, error) {
	cis, err := requiredString(rec, medicamentsparser.Substances, medicamentsparser.ColCIS)
	if err != nil {
		return nil, err
	}

	return &Substance{
		Cis:                              cis,
		DesignationElementPharmaceutique: stringValue(rec, "designation_element_pharmaceutique"),
		CodeSubstance:                    stringValue(rec, medicamentsparser.ColCodeSubstance),
		Denomination:                     stringValue(rec, medicamentsparser.ColDenomination),
		Dosage:                           stringValue(rec, "dosage"),
		ReferenceDosage:                  stringValue(rec, "reference_dosage"),
		NatureComposant:                  stringValue(rec, "nature_composant"),
		NumeroLiaison:                    stringValue(rec, "numero_liaison"),
		Denominations:                    []string{},
	}, nil
}

// Medicament returns the medicament this composition line belongs to
func (s *Substance) Medicament() (*Medicament, bool) {
	if s.resolver == nil {
		return nil, false
	}
	return s.resolver.Medicament(s.Cis)
}

// Medicaments returns every medicament containing this substance, sorted by CIS
func (s *Substance) Medicaments() []*Medicament {
	medicaments := []*Medicament{}
	if s.resolver == nil || s.CodeSubstance == "" {
		return medicaments
	}

	var cisList []string
	for _, other := range s.resolver.SubstancesByCode(s.CodeSubstance) {
		cisList = append(cisList, other.Cis)
	}
	slices.Sort(cisList)
	cisList = slices.Compact(cisList)

	for _, cis := range cisList {
		if m, ok := s.resolver.Medicament(cis); ok {
			medicaments = append(medicaments, m)
		}
	}
	return medicaments
}

// StringField exposes the text columns to the filter engine
func (s *Substance) StringField(name string) *string {
	switch name {
	case medicamentsparser.ColCIS:
		return optional(s.Cis)
	case medicamentsparser.ColCodeSubstance:
		return optional(s.CodeSubstance)
	case medicamentsparser.ColDenomination:
		return optional(s.Denomination)
	case "designation_element_pharmaceutique":
		return optional(s.DesignationElementPharmaceutique)
	case "dosage":
		return optional(s.Dosage)
	case "nature_composant":
		return optional(s.NatureComposant)
	}
	return nil
}
