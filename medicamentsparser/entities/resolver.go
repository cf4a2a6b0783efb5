package entities

// Resolver is the capability entities use to reach related entities.
// Implementations must only perform lookups over already indexed data.
type Resolver interface {
	Medicament(cis string) (*Medicament, bool)
	PresentationsByCIS(cis string) []*Presentation
	SubstancesByCIS(cis string) []*Substance
	SubstancesByCode(code string) []*Substance
	GroupesGeneriquesByCIS(cis string) []*GroupeGenerique
	ConditionsByCIS(cis string) []*Condition
}

// related is embedded by every entity that exposes relations
type related struct {
	resolver Resolver
}

// Attach gives the entity access to the indexes it navigates to.
// Relations are resolved on every call, never cached.
func (r *related) Attach(resolver Resolver) {
	r.resolver = resolver
}
