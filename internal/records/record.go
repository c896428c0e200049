package records

import "strings"

// ProjectRecord is one (project, construction stage) row of the consolidated
// base. Column names follow the upstream ingestion's Portuguese schema; both
// backends share it. Reference data: looked up, never mutated.
type ProjectRecord struct {
	Identifier          string  `gorm:"column:id_obra" json:"id_obra"`
	City                string  `gorm:"column:cidade" json:"cidade"`
	SoilType            string  `gorm:"column:tipo_solo" json:"tipo_solo"`
	Stage               string  `gorm:"column:etapa" json:"etapa"`
	Material            string  `gorm:"column:material" json:"material"`
	RainLevel           float64 `gorm:"column:nivel_chuva" json:"nivel_chuva"`
	Budget              float64 `gorm:"column:orcamento_estimado" json:"orcamento_estimado"`
	SupplierRating      float64 `gorm:"column:rating_confiabilidade" json:"rating_confiabilidade"`
	SupplierFailureRate float64 `gorm:"column:taxa_insucesso_fornecedor" json:"taxa_insucesso_fornecedor"`
	Complexity          float64 `gorm:"column:complexidade_obra" json:"complexidade_obra"`
	StageRisk           float64 `gorm:"column:risco_etapa" json:"risco_etapa"`
}

func (ProjectRecord) TableName() string { return "obras_consolidadas" }

// Normalize lower-cases and trims an identifier or categorical value. The
// snapshot and the remote table disagree on casing across variants, so one
// canonical casing is enforced at every boundary.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (r ProjectRecord) normalized() ProjectRecord {
	r.Identifier = Normalize(r.Identifier)
	r.City = Normalize(r.City)
	r.SoilType = Normalize(r.SoilType)
	r.Stage = Normalize(r.Stage)
	r.Material = Normalize(r.Material)
	return r
}

// NumericFeature returns the record's value for a numeric model column.
func (r ProjectRecord) NumericFeature(name string) (float64, bool) {
	switch name {
	case "nivel_chuva":
		return r.RainLevel, true
	case "orcamento_estimado":
		return r.Budget, true
	case "rating_confiabilidade":
		return r.SupplierRating, true
	case "taxa_insucesso_fornecedor":
		return r.SupplierFailureRate, true
	case "complexidade_obra":
		return r.Complexity, true
	case "risco_etapa":
		return r.StageRisk, true
	default:
		return 0, false
	}
}

// CategoricalFeature returns the record's value for a categorical model column.
func (r ProjectRecord) CategoricalFeature(name string) (string, bool) {
	switch name {
	case "cidade":
		return r.City, true
	case "tipo_solo":
		return r.SoilType, true
	case "material":
		return r.Material, true
	case "etapa":
		return r.Stage, true
	default:
		return "", false
	}
}
