// api/test/mock/audit_repository.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/aiimpact-uk/impact/api/audit"
)

// AuditRepository is a testify mock of audit.Repository.
type AuditRepository struct {
	mock.Mock
}

func (m *AuditRepository) LogAnalysis(ctx context.Context, record audit.AnalysisRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *AuditRepository) QueryAnalyses(ctx context.Context, from, to time.Time, projectID string) ([]audit.AnalysisRecord, error) {
	args := m.Called(ctx, from, to, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.AnalysisRecord), args.Error(1)
}
