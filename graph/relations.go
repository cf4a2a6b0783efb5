package graph

import (
	"sync/atomic"

	"github.com/giygas/medicaments-graph/index"
	mp "github.com/giygas/medicaments-graph/medicamentsparser"
	"github.com/giygas/medicaments-graph/medicamentsparser/entities"
)

// Compile-time check to ensure indexes implements entities.Resolver
var _ entities.Resolver = (*indexes)(nil)

// indexes owns every index of one build. It is the resolver attached to
// the entities, so relations always read the live index state.
type indexes struct {
	medicaments   *index.Index[entities.Medicament]
	presentations *index.Index[entities.Presentation]
	substances    *index.Index[entities.Substance]
	groupRows     *index.Index[entities.GroupeGeneriqueRow]
	conditions    *index.Index[entities.Condition]

	// groupes is only set once the rows have been pivoted
	groupes atomic.Pointer[index.Index[entities.GroupeGenerique]]
}

func newIndexes() *indexes {
	return &indexes{
		medicaments: index.New("medicaments",
			index.Unique(mp.ColCIS, func(m *entities.Medicament) string { return m.Cis }),
		),
		presentations: index.New("presentations",
			index.Unique(mp.ColCIP7, func(p *entities.Presentation) string { return p.Cip7 }),
			index.Unique(mp.ColCIP13, func(p *entities.Presentation) string { return p.Cip13 }),
			index.Multi(mp.ColCIS, func(p *entities.Presentation) string { return p.Cis }),
		),
		substances: index.New("substances",
			index.Multi(mp.ColCodeSubstance, func(s *entities.Substance) string { return s.CodeSubstance }),
			index.Multi(mp.ColCIS, func(s *entities.Substance) string { return s.Cis }),
		),
		groupRows: index.New("groupesGeneriques",
			index.Multi(mp.ColGroupID, func(r *entities.GroupeGeneriqueRow) string { return r.ID }),
		),
		conditions: index.New("conditions",
			index.Multi(mp.ColCIS, func(c *entities.Condition) string { return c.Cis }),
		),
	}
}

func newGroupesIndex() *index.Index[entities.GroupeGenerique] {
	return index.New("groupesGeneriques",
		index.Unique(mp.ColGroupID, func(g *entities.GroupeGenerique) string { return g.ID }),
		index.MultiValued(mp.ColCIS, func(g *entities.GroupeGenerique) []string { return g.Cis }),
	)
}

// Medicament resolves a CIS to its medicament
func (ix *indexes) Medicament(cis string) (*entities.Medicament, bool) {
	return ix.medicaments.Get(mp.ColCIS, cis)
}

// PresentationsByCIS returns the presentations sharing a CIS
func (ix *indexes) PresentationsByCIS(cis string) []*entities.Presentation {
	return ix.presentations.All(mp.ColCIS, cis)
}

// SubstancesByCIS returns the composition lines of a CIS
func (ix *indexes) SubstancesByCIS(cis string) []*entities.Substance {
	return ix.substances.All(mp.ColCIS, cis)
}

// SubstancesByCode returns every composition line of a substance code
func (ix *indexes) SubstancesByCode(code string) []*entities.Substance {
	return ix.substances.All(mp.ColCodeSubstance, code)
}

// GroupesGeneriquesByCIS is empty until the groups have been pivoted
func (ix *indexes) GroupesGeneriquesByCIS(cis string) []*entities.GroupeGenerique {
	groupes := ix.groupes.Load()
	if groupes == nil {
		return []*entities.GroupeGenerique{}
	}
	return groupes.All(mp.ColCIS, cis)
}

// ConditionsByCIS returns the prescription conditions of a CIS
func (ix *indexes) ConditionsByCIS(cis string) []*entities.Condition {
	return ix.conditions.All(mp.ColCIS, cis)
}
