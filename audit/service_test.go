// api/audit/service_test.go
package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aiimpact-uk/impact/api/audit"
	"github.com/aiimpact-uk/impact/api/test/mock"
)

func TestService_LogAnalysis(t *testing.T) {
	repo := &mock.AuditRepository{}
	svc := audit.NewService(repo)

	record := audit.AnalysisRecord{
		ProjectID:     "p-1",
		CorpusVersion: "abc123",
		Overall:       "High",
		RedCount:      2,
	}
	repo.On("LogAnalysis", tmock.Anything, record).Return(nil)

	assert.NoError(t, svc.LogAnalysis(context.Background(), record))
	repo.AssertExpectations(t)
}

func TestService_QueryAnalyses(t *testing.T) {
	repo := &mock.AuditRepository{}
	svc := audit.NewService(repo)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	want := []audit.AnalysisRecord{{ProjectID: "p-1", Overall: "Low"}}

	repo.On("QueryAnalyses", tmock.Anything, from, to, "p-1").Return(want, nil)

	got, err := svc.QueryAnalyses(context.Background(), from, to, "p-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
