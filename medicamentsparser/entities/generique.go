package entities

import (
	"github.com/giygas/medicaments-graph/medicamentsparser"
)

// Roles of a medicament inside a generic group, as coded in CIS_GENER_bdpm.
// Type 3 is not used by the published data and is dropped.
const (
	TypePrinceps                            = 0
	TypeGenerique                           = 1
	TypeGeneriqueComplementaritePosologique = 2
	typeUnused                              = 3
	TypeGeneriqueSubstituable               = 4
	NoType                                  = -1
)

// GroupeGeneriqueRow is one (group, CIS) line of CIS_GENER_bdpm.
type GroupeGeneriqueRow struct {
	ID        string `json:"id"`
	Libelle   string `json:"libelle"`
	Cis       string `json:"cis"`
	Type      int    `json:"type"`
	NumeroTri string `json:"numeroTri"`
}

// NewGroupeGeneriqueRow converts a parsed CIS_GENER_bdpm record
func NewGroupeGeneriqueRow(rec medicamentsparser.Record) (*GroupeGeneriqueRow, error) {
	id, err := requiredString(rec, medicamentsparser.GroupesGeneriques, medicamentsparser.ColGroupID)
	if err != nil {
		return nil, err
	}

	groupType := NoType
	if t, ok := rec[medicamentsparser.ColGroupType].(int); ok {
		groupType = t
	}

	return &GroupeGeneriqueRow{
		ID:        id,
		Libelle:   stringValue(rec, medicamentsparser.ColLibelle),
		Cis:       stringValue(rec, medicamentsparser.ColCIS),
		Type:      groupType,
		NumeroTri: stringValue(rec, "numero_tri"),
	}, nil
}

// IsUnusedType reports rows whose type is reserved and never aggregated
func (r *GroupeGeneriqueRow) IsUnusedType() bool {
	return r.Type == typeUnused
}

// HasRole reports whether the row type maps to one of the aggregate lists
func (r *GroupeGeneriqueRow) HasRole() bool {
	switch r.Type {
	case TypePrinceps, TypeGenerique, TypeGeneriqueComplementaritePosologique, TypeGeneriqueSubstituable:
		return true
	}
	return false
}

// GroupeGenerique is the aggregate built from every row of a group id.
type GroupeGenerique struct {
	ID                                   string        `json:"id"`
	Libelle                              string        `json:"libelle"`
	Princeps                             []*Medicament `json:"princeps"`
	Generiques                           []*Medicament `json:"generiques"`
	GeneriquesComplementaritePosologique []*Medicament `json:"generiquesComplementaritePosologique"`
	GeneriquesSubstituables              []*Medicament `json:"generiquesSubstituables"`

	// Cis lists every CIS referenced by the group rows, including the ones
	// without a matching medicament.
	Cis []string `json:"cis"`
}

// NewGroupeGenerique creates an empty aggregate
func NewGroupeGenerique(id, libelle string) *GroupeGenerique {
	return &GroupeGenerique{
		ID:                                   id,
		Libelle:                              libelle,
		Princeps:                             []*Medicament{},
		Generiques:                           []*Medicament{},
		GeneriquesComplementaritePosologique: []*Medicament{},
		GeneriquesSubstituables:              []*Medicament{},
		Cis:                                  []string{},
	}
}

// AddMedicament files a medicament under the list matching the row type.
// It returns false for types that have no list. Type 2 is a complementary
// dosage generic and never lands in Generiques, which only holds type 1.
func (g *GroupeGenerique) AddMedicament(groupType int, m *Medicament) bool {
	switch groupType {
	case TypePrinceps:
		g.Princeps = append(g.Princeps, m)
	case TypeGenerique:
		g.Generiques = append(g.Generiques, m)
	case TypeGeneriqueComplementaritePosologique:
		g.GeneriquesComplementaritePosologique = append(g.GeneriquesComplementaritePosologique, m)
	case TypeGeneriqueSubstituable:
		g.GeneriquesSubstituables = append(g.GeneriquesSubstituables, m)
	default:
		return false
	}
	return true
}

// Members returns every medicament of the group regardless of its role
func (g *GroupeGenerique) Members() []*Medicament {
	members := make([]*Medicament, 0, len(g.Princeps)+len(g.Generiques)+
		len(g.GeneriquesComplementaritePosologique)+len(g.GeneriquesSubstituables))
	members = append(members, g.Princeps...)
	members = append(members, g.Generiques...)
	members = append(members, g.GeneriquesComplementaritePosologique...)
	members = append(members, g.GeneriquesSubstituables...)
	return members
}

// StringField exposes the text columns to the filter engine
func (g *GroupeGenerique) StringField(name string) *string {
	switch name {
	case medicamentsparser.ColGroupID:
		return optional(g.ID)
	case medicamentsparser.ColLibelle:
		return optional(g.Libelle)
	}
	return nil
}
