// api/errors/analysis_errors.go
package errors

import "errors"

var (
	ErrMissingTitle       = errors.New("project title is required")
	ErrInvalidAnswers     = errors.New("invalid answers payload")
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrUnknownClause      = errors.New("unknown clause id")
	ErrEmptyCorpus        = errors.New("policy corpus is empty")
	ErrInvalidSearchQuery = errors.New("invalid search query")
)
