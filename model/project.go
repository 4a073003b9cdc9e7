// api/model/project.go
package model

import "time"

// Project is a persisted project record. The raw wizard answers are kept
// as submitted so a re-run of the analysis always goes through the current
// normalizer rather than a baked-in interpretation.
type Project struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Answers     map[string]any `json:"answers,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ProjectSearchCriteria filters project listings.
type ProjectSearchCriteria struct {
	Title    string
	FromDate time.Time
	ToDate   time.Time
	Limit    int
	Offset   int
}
