package graph

import (
	"slices"
	"strconv"

	"github.com/giygas/medicaments-graph/logging"
	mp "github.com/giygas/medicaments-graph/medicamentsparser"
	"github.com/giygas/medicaments-graph/medicamentsparser/entities"
)

// aggregateDenominations gives every substance the sorted set of
// denominations observed for its code substance. Members of a group share
// the same slice.
func aggregateDenominations(ix *indexes) {
	codes := ix.substances.Keys(mp.ColCodeSubstance)

	for _, code := range codes {
		group := ix.substances.All(mp.ColCodeSubstance, code)

		denominations := make([]string, 0, len(group))
		for _, s := range group {
			if s.Denomination != "" {
				denominations = append(denominations, s.Denomination)
			}
		}
		slices.Sort(denominations)
		denominations = slices.Clip(slices.Compact(denominations))

		for _, s := range group {
			s.Denominations = denominations
		}
	}

	logging.Debug("Denominations aggregated", "code_substance_groups", len(codes))
}

// pivotGroupesGeneriques turns the raw (group, CIS) rows into one aggregate
// per group id and switches the medicament relation to the new index.
func pivotGroupesGeneriques(ix *indexes) {
	groupes := newGroupesIndex()
	ids := ix.groupRows.Keys(mp.ColGroupID)
	sortIdentifiers(ids)

	orphanCIS := 0
	unknownTypes := 0

	for _, id := range ids {
		rows := ix.groupRows.All(mp.ColGroupID, id)
		g := entities.NewGroupeGenerique(id, rows[0].Libelle)

		for _, row := range rows {
			if row.Cis != "" {
				g.Cis = append(g.Cis, row.Cis)
			}

			if row.IsUnusedType() {
				continue
			}
			if !row.HasRole() {
				unknownTypes++
				logging.Warn("Unknown generique type, row ignored", "group_id", id, "cis", row.Cis, "type", row.Type)
				continue
			}

			m, ok := ix.Medicament(row.Cis)
			if !ok {
				orphanCIS++
				continue
			}
			g.AddMedicament(row.Type, m)
		}

		// ids are distinct keys of the row index, a duplicate cannot happen
		if err := groupes.Add(g); err != nil {
			logging.Error("Failed to index generique group", "group_id", id, "error", err)
		}
	}

	ix.groupes.Store(groupes)

	logging.Info("Generiques groups pivoted",
		"groups", len(ids),
		"orphan_cis", orphanCIS,
		"unknown_types", unknownTypes)
}

// sortIdentifiers sorts numeric identifiers by value and the others lexically after them
func sortIdentifiers(ids []string) {
	slices.SortFunc(ids, func(a, b string) int {
		na, errA := strconv.Atoi(a)
		nb, errB := strconv.Atoi(b)
		switch {
		case errA == nil && errB == nil:
			return na - nb
		case errA == nil:
			return -1
		case errB == nil:
			return 1
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
}
