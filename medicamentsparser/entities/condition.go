package entities

import "github.com/giygas/medicaments-graph/medicamentsparser"

// Condition is a prescription condition annotation (CIS_CPD_bdpm).
type Condition struct {
	Cis                    string `json:"cis"`
	ConditionsPrescription string `json:"conditionsPrescription"`
}

// NewCondition converts a parsed CIS_CPD_bdpm record
func NewCondition(rec medicamentsparser.Record) (*Condition, error) {
	cis, err := requiredString(rec, medicamentsparser.Conditions, medicamentsparser.ColCIS)
	if err != nil {
		return nil, err
	}

	return &Condition{
		Cis:                    cis,
		ConditionsPrescription: stringValue(rec, medicamentsparser.ColConditionsPrescription),
	}, nil
}
