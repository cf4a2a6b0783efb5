package entities

import (
	"time"

	"github.com/giygas/medicaments-graph/medicamentsparser"
)

// Presentation is a packaging unit (one line of CIS_CIP_bdpm).
type Presentation struct {
	related

	Cis                              string     `json:"cis"`
	Cip7                             string     `json:"cip7"`
	Libelle                          string     `json:"libelle"`
	StatutAdmin                      string     `json:"statutAdmin"`
	EtatCommercialisation            string     `json:"etatCommercialisation"`
	DateDeclarationCommercialisation *time.Time `json:"dateDeclarationCommercialisation,omitempty"`
	Cip13                            string     `json:"cip13"`
	AgrementCollectivites            *bool      `json:"agrementCollectivites,omitempty"`
	AgrementCollectivitesTexte       string     `json:"agrementCollectivitesTexte,omitempty"`
	TauxRemboursement                string     `json:"tauxRemboursement"`
	PrixSansHonoraires               string     `json:"prixSansHonoraires"`
	PrixAvecHonoraires               string     `json:"prixAvecHonoraires"`
	Honoraires                       string     `json:"honoraires"`
	IndicationsRemboursement         string     `json:"indicationsRemboursement"`
}

// NewPresentation converts a parsed CIS_CIP_bdpm record
func NewPresentation(rec medicamentsparser.Record) (*Presentation, error) {
	cis, err := requiredString(rec, medicamentsparser.Presentations, medicamentsparser.ColCIS)
	if err != nil {
		return nil, err
	}

	return &Presentation{
		Cis:                              cis,
		Cip7:                             stringValue(rec, medicamentsparser.ColCIP7),
		Libelle:                          stringValue(rec, medicamentsparser.ColLibelle),
		StatutAdmin:                      stringValue(rec, "statut_admin"),
		EtatCommercialisation:            stringValue(rec, medicamentsparser.ColEtatCommercialisation),
		DateDeclarationCommercialisation: dateValue(rec, "date_declaration_commercialisation"),
		Cip13:                            stringValue(rec, medicamentsparser.ColCIP13),
		AgrementCollectivites:            boolValue(rec, "agrement_collectivites"),
		AgrementCollectivitesTexte:       unparsedFlag(rec, "agrement_collectivites"),
		TauxRemboursement:                stringValue(rec, "taux_remboursement"),
		PrixSansHonoraires:               stringValue(rec, "prix_sans_honoraires"),
		PrixAvecHonoraires:               stringValue(rec, "prix_avec_honoraires"),
		Honoraires:                       stringValue(rec, "honoraires"),
		IndicationsRemboursement:         stringValue(rec, "indications_remboursement"),
	}, nil
}

// Medicament returns the medicament owning this presentation
func (p *Presentation) Medicament() (*Medicament, bool) {
	if p.resolver == nil {
		return nil, false
	}
	return p.resolver.Medicament(p.Cis)
}

// StringField exposes the text columns to the filter engine
func (p *Presentation) StringField(name string) *string {
	switch name {
	case medicamentsparser.ColCIS:
		return optional(p.Cis)
	case medicamentsparser.ColCIP7:
		return optional(p.Cip7)
	case medicamentsparser.ColCIP13:
		return optional(p.Cip13)
	case medicamentsparser.ColLibelle:
		return optional(p.Libelle)
	case "statut_admin":
		return optional(p.StatutAdmin)
	case medicamentsparser.ColEtatCommercialisation:
		return optional(p.EtatCommercialisation)
	case "taux_remboursement":
		return optional(p.TauxRemboursement)
	case "indications_remboursement":
		return optional(p.IndicationsRemboursement)
	}
	return nil
}

// DateField exposes the date columns to the filter engine
func (p *Presentation) DateField(name string) *time.Time {
	if name == "date_declaration_commercialisation" {
		return p.DateDeclarationCommercialisation
	}
	return nil
}
