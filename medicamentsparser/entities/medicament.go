package entities

import (
	"time"

	"github.com/giygas/medicaments-graph/medicamentsparser"
)

// Medicament is one line of CIS_bdpm, enriched after ingestion with the
// ANSM indications and posologie.
type Medicament struct {
	related

	Cis                          string     `json:"cis"`
	Denomination                 string     `json:"denomination"`
	FormePharmaceutique          string     `json:"formePharmaceutique"`
	VoiesAdministration          []string   `json:"voiesAdministration"`
	StatutAdminAMM               string     `json:"statutAdminAMM"`
	TypeProcedureAMM             string     `json:"typeProcedureAMM"`
	EtatCommercialisation        string     `json:"etatCommercialisation"`
	DateAMM                      *time.Time `json:"dateAMM,omitempty"`
	StatutBDM                    string     `json:"statutBDM"`
	NumeroAutorisationEuropeenne string     `json:"numeroAutorisationEuropeenne"`
	Titulaires                   []string   `json:"titulaires"`
	SurveillanceRenforcee        *bool      `json:"surveillanceRenforcee,omitempty"`
	SurveillanceRenforceeTexte   string     `json:"surveillanceRenforceeTexte,omitempty"`
	Indications                  string     `json:"indications,omitempty"`
	Posologie                    string     `json:"posologie,omitempty"`
}

// NewMedicament converts a parsed CIS_bdpm record
func NewMedicament(rec medicamentsparser.Record) (*Medicament, error) {
	cis, err := requiredString(rec, medicamentsparser.Medicaments, medicamentsparser.ColCIS)
	if err != nil {
		return nil, err
	}

	return &Medicament{
		Cis:                          cis,
		Denomination:                 stringValue(rec, medicamentsparser.ColDenomination),
		FormePharmaceutique:          stringValue(rec, "forme_pharmaceutique"),
		VoiesAdministration:          listValue(rec, "voies_administration"),
		StatutAdminAMM:               stringValue(rec, "statut_admin_AMM"),
		TypeProcedureAMM:             stringValue(rec, "type_procedure_AMM"),
		EtatCommercialisation:        stringValue(rec, medicamentsparser.ColEtatCommercialisation),
		DateAMM:                      dateValue(rec, "date_AMM"),
		StatutBDM:                    stringValue(rec, "statut_BDM"),
		NumeroAutorisationEuropeenne: stringValue(rec, "numero_autorisation_europeenne"),
		Titulaires:                   listValue(rec, "titulaires"),
		SurveillanceRenforcee:        boolValue(rec, "surveillance_renforcee"),
		SurveillanceRenforceeTexte:   unparsedFlag(rec, "surveillance_renforcee"),
	}, nil
}

// Presentations returns the presentations sharing the medicament CIS
func (m *Medicament) Presentations() []*Presentation {
	if m.resolver == nil {
		return []*Presentation{}
	}
	return m.resolver.PresentationsByCIS(m.Cis)
}

// Substances returns the composition lines of the medicament
func (m *Medicament) Substances() []*Substance {
	if m.resolver == nil {
		return []*Substance{}
	}
	return m.resolver.SubstancesByCIS(m.Cis)
}

// GroupesGeneriques returns the generic groups the medicament belongs to.
// It is empty until the groups have been pivoted.
func (m *Medicament) GroupesGeneriques() []*GroupeGenerique {
	if m.resolver == nil {
		return []*GroupeGenerique{}
	}
	return m.resolver.GroupesGeneriquesByCIS(m.Cis)
}

// ConditionsPrescription returns the prescription conditions text, skipping empty ones
func (m *Medicament) ConditionsPrescription() []string {
	conditions := []string{}
	if m.resolver == nil {
		return conditions
	}
	for _, c := range m.resolver.ConditionsByCIS(m.Cis) {
		if c.ConditionsPrescription != "" {
			conditions = append(conditions, c.ConditionsPrescription)
		}
	}
	return conditions
}

// StringField exposes the text columns to the filter engine
func (m *Medicament) StringField(name string) *string {
	switch name {
	case medicamentsparser.ColCIS:
		return optional(m.Cis)
	case medicamentsparser.ColDenomination:
		return optional(m.Denomination)
	case "forme_pharmaceutique":
		return optional(m.FormePharmaceutique)
	case "voies_administration":
		return joined(m.VoiesAdministration)
	case "statut_admin_AMM":
		return optional(m.StatutAdminAMM)
	case "type_procedure_AMM":
		return optional(m.TypeProcedureAMM)
	case medicamentsparser.ColEtatCommercialisation:
		return optional(m.EtatCommercialisation)
	case "statut_BDM":
		return optional(m.StatutBDM)
	case "numero_autorisation_europeenne":
		return optional(m.NumeroAutorisationEuropeenne)
	case "titulaires":
		return joined(m.Titulaires)
	case "indications":
		return optional(m.Indications)
	case "posologie":
		return optional(m.Posologie)
	}
	return nil
}

// DateField exposes the date columns to the filter engine
func (m *Medicament) DateField(name string) *time.Time {
	if name == "date_AMM" {
		return m.DateAMM
	}
	return nil
}
