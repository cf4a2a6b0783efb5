package graph

import (
	"time"

	"github.com/giygas/medicaments-graph/index"
	mp "github.com/giygas/medicaments-graph/medicamentsparser"
	"github.com/giygas/medicaments-graph/medicamentsparser/entities"
)

// Stats counts the entities of a built graph.
type Stats struct {
	Medicaments       int `json:"medicaments"`
	Presentations     int `json:"presentations"`
	Substances        int `json:"substances"`
	CodesSubstance    int `json:"codesSubstance"`
	GroupesGeneriques int `json:"groupesGeneriques"`
	Conditions        int `json:"conditions"`
}

// Graph is the read-only result of a build. Every list accessor returns a
// fresh slice ordered by key.
type Graph struct {
	ix      *indexes
	groupes *index.Index[entities.GroupeGenerique]
	builtAt time.Time
}

func newGraph(ix *indexes, builtAt time.Time) *Graph {
	groupes := ix.groupes.Load()
	if groupes == nil {
		groupes = newGroupesIndex()
		ix.groupes.Store(groupes)
	}
	return &Graph{ix: ix, groupes: groupes, builtAt: builtAt}
}

// BuiltAt returns the time the build completed
func (g *Graph) BuiltAt() time.Time {
	return g.builtAt
}

// Substance returns the first ingested substance of a code substance
func (g *Graph) Substance(code string) (*entities.Substance, bool) {
	all := g.ix.SubstancesByCode(code)
	if len(all) == 0 {
		return nil, false
	}
	return all[0], true
}

// Substances returns one representative per code substance
func (g *Graph) Substances() []*entities.Substance {
	codes := g.ix.substances.Keys(mp.ColCodeSubstance)
	out := make([]*entities.Substance, 0, len(codes))
	for _, code := range codes {
		if s, ok := g.Substance(code); ok {
			out = append(out, s)
		}
	}
	return out
}

// Medicament looks a medicament up by CIS
func (g *Graph) Medicament(cis string) (*entities.Medicament, bool) {
	return g.ix.Medicament(cis)
}

// Medicaments returns every medicament sorted by CIS
func (g *Graph) Medicaments() []*entities.Medicament {
	keys := g.ix.medicaments.Keys(mp.ColCIS)
	out := make([]*entities.Medicament, 0, len(keys))
	for _, cis := range keys {
		if m, ok := g.ix.Medicament(cis); ok {
			out = append(out, m)
		}
	}
	return out
}

// PresentationByCIP7 looks a presentation up by its 7 digit CIP code
func (g *Graph) PresentationByCIP7(cip7 string) (*entities.Presentation, bool) {
	return g.ix.presentations.Get(mp.ColCIP7, cip7)
}

// PresentationByCIP13 looks a presentation up by its 13 digit CIP code
func (g *Graph) PresentationByCIP13(cip13 string) (*entities.Presentation, bool) {
	return g.ix.presentations.Get(mp.ColCIP13, cip13)
}

// PresentationsByCIS returns the presentations of a medicament in source order
func (g *Graph) PresentationsByCIS(cis string) []*entities.Presentation {
	return g.ix.PresentationsByCIS(cis)
}

// Presentations returns every presentation grouped by sorted CIS, in
// source order within a CIS
func (g *Graph) Presentations() []*entities.Presentation {
	out := make([]*entities.Presentation, 0, g.ix.presentations.Len())
	for _, cis := range g.ix.presentations.Keys(mp.ColCIS) {
		out = append(out, g.ix.PresentationsByCIS(cis)...)
	}
	return out
}

// GroupeGenerique looks a generic group up by id
func (g *Graph) GroupeGenerique(id string) (*entities.GroupeGenerique, bool) {
	return g.groupes.Get(mp.ColGroupID, id)
}

// GroupesGeneriques returns every generic group sorted by id, numerically
// when the ids are numbers
func (g *Graph) GroupesGeneriques() []*entities.GroupeGenerique {
	ids := g.groupes.Keys(mp.ColGroupID)
	sortIdentifiers(ids)
	out := make([]*entities.GroupeGenerique, 0, len(ids))
	for _, id := range ids {
		if grp, ok := g.groupes.Get(mp.ColGroupID, id); ok {
			out = append(out, grp)
		}
	}
	return out
}

// Conditions returns the prescription condition rows of a CIS
func (g *Graph) Conditions(cis string) []*entities.Condition {
	return g.ix.ConditionsByCIS(cis)
}

// Orphans lists the CIS values referenced by a dataset that have no
// medicament. Used by the data quality report.
func (g *Graph) Orphans(dataset mp.Dataset) []string {
	var keys []string
	switch dataset {
	case mp.Presentations:
		keys = g.ix.presentations.Keys(mp.ColCIS)
	case mp.Substances:
		keys = g.ix.substances.Keys(mp.ColCIS)
	case mp.Conditions:
		keys = g.ix.conditions.Keys(mp.ColCIS)
	case mp.GroupesGeneriques:
		keys = g.groupes.Keys(mp.ColCIS)
	default:
		return []string{}
	}

	orphans := []string{}
	for _, cis := range keys {
		if _, ok := g.ix.Medicament(cis); !ok {
			orphans = append(orphans, cis)
		}
	}
	return orphans
}

// Stats counts the entities of the graph
func (g *Graph) Stats() Stats {
	return Stats{
		Medicaments:       g.ix.medicaments.Len(),
		Presentations:     g.ix.presentations.Len(),
		Substances:        g.ix.substances.Len(),
		CodesSubstance:    g.ix.substances.KeyCount(mp.ColCodeSubstance),
		GroupesGeneriques: g.groupes.Len(),
		Conditions:        g.ix.conditions.Len(),
	}
}
