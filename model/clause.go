// api/model/clause.go
package model

// Framework identifies which regulatory source a clause comes from.
const (
	FrameworkDSIT = "DSIT"
	FrameworkICO  = "ICO"
	FrameworkISO  = "ISO"
)

// Lifecycle phase a clause applies to.
const (
	PhaseData       = "data"
	PhaseModel      = "model"
	PhaseDeployment = "deployment"
)

// Risk dimensions used for radar/summary views. These are a fixed enum; a
// corpus file using anything else fails validation at load.
const (
	DimensionAccuracy       = "accuracy"
	DimensionReliability    = "reliability"
	DimensionRobustness     = "robustness"
	DimensionSecurity       = "security"
	DimensionResilience     = "resilience"
	DimensionSustainability = "sustainability"
	DimensionGenAIRisk      = "genaiRisk"
	DimensionBias           = "bias"
	DimensionPrivacy        = "privacy"
	DimensionExplainability = "explainability"
)

// PolicyClause is one discrete regulatory requirement. Clauses never mutate
// after the corpus is loaded.
type PolicyClause struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Text      string `json:"text"`
	Link      string `json:"link,omitempty"`
	Category  string `json:"category,omitempty"`
	Document  string `json:"document,omitempty"`
	Framework string `json:"framework"`
	Phase     string `json:"phase"`
	Dimension string `json:"dimension"`
}

// SearchHit is one clause returned by lexical retrieval.
type SearchHit struct {
	ClauseID string       `json:"clause_id"`
	Score    float64      `json:"score"`
	Snippet  string       `json:"snippet,omitempty"`
	Clause   PolicyClause `json:"clause"`
}

// SearchQuery is the POST /search request body.
type SearchQuery struct {
	Q          string   `json:"q"`
	TopK       int      `json:"top_k"`
	Frameworks []string `json:"frameworks,omitempty"`
}
