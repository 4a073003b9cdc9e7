// api/model/flag.go
package model

// Severity of a compliance flag.
type Severity string

const (
	SeverityRed   Severity = "red"
	SeverityAmber Severity = "amber"
	SeverityGreen Severity = "green"
)

// FlagMeta duplicates the cited clause's display fields so the UI never needs
// a second corpus lookup.
type FlagMeta struct {
	Label     string `json:"label"`
	Link      string `json:"link,omitempty"`
	Framework string `json:"framework"`
	Document  string `json:"document,omitempty"`
	Phase     string `json:"phase"`
	Dimension string `json:"dimension"`
	Source    string `json:"source,omitempty"` // "rule" or "llm"
}

// Flag is one rule's verdict against one policy clause.
type Flag struct {
	ID         string   `json:"id"`
	Clause     string   `json:"clause"`
	Severity   Severity `json:"severity"`
	Reason     string   `json:"reason"`
	Mitigation string   `json:"mitigation,omitempty"`
	Evidence   string   `json:"evidence,omitempty"`
	Model      string   `json:"model,omitempty"` // set only on LLM-drafted flags
	Meta       FlagMeta `json:"meta"`
}

// Summary aggregates one evaluation run's flags.
type Summary struct {
	BySeverity  map[Severity]int `json:"by_severity"`
	ByPhase     map[string]int   `json:"by_phase"`
	ByDimension map[string]int   `json:"by_dimension"`
	Overall     string           `json:"overall"` // "High" | "Medium" | "Low"
}

// Analysis is the full /analyse response.
type Analysis struct {
	Flags          []Flag  `json:"flags"`
	Summary        Summary `json:"summary"`
	CorpusVersion  string  `json:"corpus_version"`
	DegradedFields int     `json:"degraded_fields,omitempty"`
}
