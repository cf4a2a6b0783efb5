package medicamentsparser

// Dataset identifies one of the BDPM flat files.
type Dataset string

const (
	Medicaments       Dataset = "medicaments"
	Presentations     Dataset = "presentations"
	Substances        Dataset = "substances"
	GroupesGeneriques Dataset = "groupesGeneriques"
	Conditions        Dataset = "conditions"
)

// Datasets lists every dataset in a stable order.
func Datasets() []Dataset {
	return []Dataset{Medicaments, Presentations, Substances, GroupesGeneriques, Conditions}
}

// Schema describes the positional columns of a dataset and the transforms
// applied to them. Columns without a transform are kept as trimmed strings.
type Schema struct {
	Dataset    Dataset
	FileName   string
	Columns    []string
	Transforms map[string]Transform
}

// Column names shared by several datasets.
const (
	ColCIS                    = "CIS"
	ColCIP7                   = "CIP7"
	ColCIP13                  = "CIP13"
	ColCodeSubstance          = "code_substance"
	ColDenomination           = "denomination"
	ColLibelle                = "libelle"
	ColEtatCommercialisation  = "etat_commercialisation"
	ColGroupID                = "id"
	ColGroupType              = "type"
	ColConditionsPrescription = "conditions_prescription"
)

var schemas = map[Dataset]Schema{
	Medicaments: {
		Dataset:  Medicaments,
		FileName: "CIS_bdpm",
		Columns: []string{
			ColCIS,
			ColDenomination,
			"forme_pharmaceutique",
			"voies_administration",
			"statut_admin_AMM",
			"type_procedure_AMM",
			ColEtatCommercialisation,
			"date_AMM",
			"statut_BDM",
			"numero_autorisation_europeenne",
			"titulaires",
			"surveillance_renforcee",
		},
		Transforms: map[string]Transform{
			ColCIS:                   StripLeadingZeros,
			"voies_administration":   SplitSemicolon,
			"date_AMM":               ParseDate,
			"titulaires":             SplitSemicolon,
			"surveillance_renforcee": OuiNonToBool,
		},
	},
	Presentations: {
		Dataset:  Presentations,
		FileName: "CIS_CIP_bdpm",
		Columns: []string{
			ColCIS,
			ColCIP7,
			ColLibelle,
			"statut_admin",
			ColEtatCommercialisation,
			"date_declaration_commercialisation",
			ColCIP13,
			"agrement_collectivites",
			"taux_remboursement",
			"prix_sans_honoraires",
			"prix_avec_honoraires",
			"honoraires",
			"indications_remboursement",
		},
		Transforms: map[string]Transform{
			ColCIS:                               StripLeadingZeros,
			"date_declaration_commercialisation": ParseDate,
			"agrement_collectivites":             OuiNonToBool,
			"taux_remboursement":                 CleanNumber,
			"prix_sans_honoraires":               CleanNumber,
			"prix_avec_honoraires":               CleanNumber,
			"honoraires":                         CleanNumber,
		},
	},
	Substances: {
		Dataset:  Substances,
		FileName: "CIS_COMPO_bdpm",
		Columns: []string{
			ColCIS,
			"designation_element_pharmaceutique",
			ColCodeSubstance,
			ColDenomination,
			"dosage",
			"reference_dosage",
			"nature_composant",
			"numero_liaison",
		},
		Transforms: map[string]Transform{
			ColCIS:           StripLeadingZeros,
			ColCodeSubstance: StripLeadingZeros,
		},
	},
	GroupesGeneriques: {
		Dataset:  GroupesGeneriques,
		FileName: "CIS_GENER_bdpm",
		Columns: []string{
			ColGroupID,
			ColLibelle,
			ColCIS,
			ColGroupType,
			"numero_tri",
		},
		Transforms: map[string]Transform{
			ColCIS:       StripLeadingZeros,
			ColGroupType: ParseInteger,
		},
	},
	Conditions: {
		Dataset:  Conditions,
		FileName: "CIS_CPD_bdpm",
		Columns: []string{
			ColCIS,
			ColConditionsPrescription,
		},
		Transforms: map[string]Transform{
			ColCIS: StripLeadingZeros,
		},
	},
}

// SchemaFor returns the schema of a dataset.
func SchemaFor(d Dataset) (Schema, bool) {
	s, ok := schemas[d]
	return s, ok
}

// Schemas returns a copy of the static schema table.
func Schemas() map[Dataset]Schema {
	out := make(map[Dataset]Schema, len(schemas))
	for k, v := range schemas {
		out[k] = v
	}
	return out
}
