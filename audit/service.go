// api/audit/service.go
package audit

import (
	"context"
	"time"
)

type Service interface {
	LogAnalysis(ctx context.Context, record AnalysisRecord) error
	QueryAnalyses(ctx context.Context, from, to time.Time, projectID string) ([]AnalysisRecord, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LogAnalysis(ctx context.Context, record AnalysisRecord) error {
	return s.repo.LogAnalysis(ctx, record)
}

func (s *service) QueryAnalyses(ctx context.Context, from, to time.Time, projectID string) ([]AnalysisRecord, error) {
	return s.repo.QueryAnalyses(ctx, from, to, projectID)
}
