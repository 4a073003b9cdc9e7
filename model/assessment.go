// api/model/assessment.go
package model

import "time"

// Assessment is one immutable evaluation snapshot. A new analysis run always
// appends a new Assessment; nothing ever rewrites an old one. Every flag in
// Flags cites a clause id that existed in the corpus version recorded here,
// so historical assessments stay reproducible after corpus updates.
type Assessment struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"project_id"`
	CreatedAt     time.Time `json:"created_at"`
	CorpusVersion string    `json:"corpus_version"`
	Flags         []Flag    `json:"flags"`
	Summary       Summary   `json:"summary"`
}
