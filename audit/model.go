// api/audit/model.go
package audit

import "time"

// AnalysisRecord is one audit entry per evaluation run: which project was
// assessed, against which corpus version, and how it came out. Payload-level
// detail stays out of the trail; only aggregate counts are recorded.
type AnalysisRecord struct {
	Timestamp     time.Time `json:"timestamp"`
	ProjectID     string    `json:"project_id,omitempty"`
	AssessmentID  string    `json:"assessment_id,omitempty"`
	CorpusVersion string    `json:"corpus_version"`
	Overall       string    `json:"overall"`
	RedCount      int       `json:"red_count"`
	AmberCount    int       `json:"amber_count"`
	GreenCount    int       `json:"green_count"`
	LLMModel      string    `json:"llm_model,omitempty"`
	DurationMS    int64     `json:"duration_ms"`
}
