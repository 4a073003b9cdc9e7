// api/service/analysis_service_test.go
package service_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aiimpact-uk/impact/api/audit"
	"github.com/aiimpact-uk/impact/api/corpus"
	"github.com/aiimpact-uk/impact/api/db"
	"github.com/aiimpact-uk/impact/api/engine"
	api_errors "github.com/aiimpact-uk/impact/api/errors"
	logger "github.com/aiimpact-uk/impact/api/logging"
	"github.com/aiimpact-uk/impact/api/model"
	"github.com/aiimpact-uk/impact/api/service"
	"github.com/aiimpact-uk/impact/api/test/mock"
	"github.com/aiimpact-uk/impact/api/util"
)

func TestMain(m *testing.M) {
	logger.InitLogger("../logging")
	defer logger.Sync()
	// Cache lookups fail fast against a closed port; the services treat
	// cache errors as misses, so every test goes through the DAO mocks.
	db.RedisClient = redis.NewClient(&redis.Options{Addr: "localhost:1", DialTimeout: 50 * time.Millisecond})
	os.Exit(m.Run())
}

type analysisFixture struct {
	store      *corpus.Store
	searchRepo *mock.SearchRepository
	drafter    *mock.LLMDrafter
	dao        *mock.AssessmentDAO
	auditRepo  *mock.AuditRepository
	svc        *service.AnalysisService
}

func newAnalysisFixture(t *testing.T, withDrafter bool) *analysisFixture {
	t.Helper()

	store, err := corpus.LoadDefault()
	require.NoError(t, err)
	evaluator, err := engine.New(store)
	require.NoError(t, err)

	f := &analysisFixture{
		store:      store,
		searchRepo: &mock.SearchRepository{},
		drafter:    &mock.LLMDrafter{},
		dao:        &mock.AssessmentDAO{},
		auditRepo:  &mock.AuditRepository{},
	}

	var drafter service.LLMDrafter
	if withDrafter {
		drafter = f.drafter
	}

	f.svc = service.NewAnalysisService(
		store,
		evaluator,
		f.searchRepo,
		drafter,
		f.dao,
		util.NewCacheService(),
		util.NewNotificationService(),
		util.NewEventBus(),
		audit.NewService(f.auditRepo),
	)
	return f
}

func TestAnalyse_MissingTitle(t *testing.T) {
	f := newAnalysisFixture(t, false)

	_, err := f.svc.Analyse(context.Background(), map[string]any{"description": "x"}, "")
	assert.ErrorIs(t, err, api_errors.ErrMissingTitle)
}

func TestAnalyse_RulesOnly(t *testing.T) {
	f := newAnalysisFixture(t, false)
	f.auditRepo.On("LogAnalysis", tmock.Anything, tmock.Anything).Return(nil)

	analysis, err := f.svc.Analyse(context.Background(), map[string]any{
		"title":                   "Loan scoring model",
		"processes_personal_data": true,
		"privacy_techniques":      []any{},
		"penetration_tested":      false,
	}, "")
	require.NoError(t, err)

	assert.Equal(t, f.store.Version(), analysis.CorpusVersion)
	assert.NotEmpty(t, analysis.Flags)
	for _, flag := range analysis.Flags {
		assert.Equal(t, "rule", flag.Meta.Source)
	}
	assert.Equal(t, "High", analysis.Summary.Overall)

	f.auditRepo.AssertCalled(t, "LogAnalysis", tmock.Anything, tmock.Anything)
}

func TestAnalyse_MergesAcceptedDrafts(t *testing.T) {
	f := newAnalysisFixture(t, true)

	retrieved, ok := f.store.Lookup("ICO-Audit DPIA")
	require.True(t, ok)
	notRetrieved, ok := f.store.Lookup("DSIT §3.2.3 Fairness")
	require.True(t, ok)

	hits := []model.SearchHit{{ClauseID: retrieved.ID, Clause: retrieved}}
	f.searchRepo.On("Search", tmock.Anything, tmock.Anything).Return(hits, nil)
	f.drafter.On("DraftFlags", tmock.Anything, tmock.Anything, hits).Return([]model.Flag{
		// Cites a retrieved clause: accepted.
		{Clause: retrieved.ID, Severity: model.SeverityAmber, Reason: "drafted"},
		// Cites a real clause that retrieval never surfaced: dropped.
		{Clause: notRetrieved.ID, Severity: model.SeverityRed, Reason: "out of scope"},
		// Cites nothing in the corpus: dropped.
		{Clause: "Hallucinated-1", Severity: model.SeverityRed, Reason: "invented"},
	}, nil)
	f.drafter.On("ModelName").Return("test-model")
	f.auditRepo.On("LogAnalysis", tmock.Anything, tmock.Anything).Return(nil)

	analysis, err := f.svc.Analyse(context.Background(), map[string]any{"title": "P"}, "")
	require.NoError(t, err)

	// Drafted flags lead, rule flags follow.
	require.NotEmpty(t, analysis.Flags)
	first := analysis.Flags[0]
	assert.Equal(t, "llm", first.Meta.Source)
	assert.Equal(t, retrieved.ID, first.Clause)
	assert.Equal(t, "drafted", first.Reason)

	llmCount := 0
	for _, flag := range analysis.Flags {
		if flag.Meta.Source == "llm" {
			llmCount++
		}
	}
	assert.Equal(t, 1, llmCount)
}

func TestAnalyse_RetrievalFailureDegradesToRules(t *testing.T) {
	f := newAnalysisFixture(t, true)
	f.searchRepo.On("Search", tmock.Anything, tmock.Anything).Return(nil, assert.AnError)
	f.drafter.On("ModelName").Return("test-model")
	f.auditRepo.On("LogAnalysis", tmock.Anything, tmock.Anything).Return(nil)

	analysis, err := f.svc.Analyse(context.Background(), map[string]any{"title": "P"}, "")
	require.NoError(t, err)

	for _, flag := range analysis.Flags {
		assert.Equal(t, "rule", flag.Meta.Source)
	}
	f.drafter.AssertNotCalled(t, "DraftFlags", tmock.Anything, tmock.Anything, tmock.Anything)
}

func TestGetAssessment_Delegates(t *testing.T) {
	f := newAnalysisFixture(t, false)
	want := &model.Assessment{ID: "a-1", ProjectID: "p-1"}
	f.dao.On("GetAssessment", tmock.Anything, "a-1").Return(want, nil)

	got, err := f.svc.GetAssessment(context.Background(), "a-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestListAssessments_Delegates(t *testing.T) {
	f := newAnalysisFixture(t, false)
	want := []*model.Assessment{{ID: "a-2"}, {ID: "a-1"}}
	f.dao.On("ListAssessments", tmock.Anything, "p-1", 10, 0).Return(want, nil)

	got, err := f.svc.ListAssessments(context.Background(), "p-1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
