// api/controller/analysis_controller_test.go
package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aiimpact-uk/impact/api/controller"
	"github.com/aiimpact-uk/impact/api/corpus"
	api_errors "github.com/aiimpact-uk/impact/api/errors"
	"github.com/aiimpact-uk/impact/api/model"
	"github.com/aiimpact-uk/impact/api/test/mock"
	"github.com/aiimpact-uk/impact/api/util"
)

type analysisRouterFixture struct {
	analysisSvc *mock.AnalysisService
	reportSvc   *mock.ReportService
	searchRepo  *mock.SearchRepository
	store       *corpus.Store
	router      *gin.Engine
}

func setupAnalysisRouter(t *testing.T) *analysisRouterFixture {
	t.Helper()

	store, err := corpus.LoadDefault()
	require.NoError(t, err)

	f := &analysisRouterFixture{
		analysisSvc: &mock.AnalysisService{},
		reportSvc:   &mock.ReportService{},
		searchRepo:  &mock.SearchRepository{},
		store:       store,
	}

	f.router = gin.New()
	api := f.router.Group("/")
	controller.NewAnalysisController(f.analysisSvc, f.reportSvc, f.searchRepo, store, util.NewValidationUtil()).
		RegisterRoutes(api)
	return f
}

func TestAnalyse(t *testing.T) {
	f := setupAnalysisRouter(t)

	t.Run("Success", func(t *testing.T) {
		f.analysisSvc.On("Analyse", tmock.Anything, tmock.Anything, "").
			Return(&model.Analysis{
				Summary:       model.Summary{Overall: "High"},
				CorpusVersion: f.store.Version(),
			}, nil).Once()

		body := strings.NewReader(`{"title":"Loan scoring model","processes_personal_data":true}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/analyse", body)
		f.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var analysis model.Analysis
		require.NoError(t, json.NewDecoder(w.Body).Decode(&analysis))
		assert.Equal(t, "High", analysis.Summary.Overall)
		assert.Equal(t, f.store.Version(), analysis.CorpusVersion)
	})

	t.Run("ProjectIDMovedOutOfAnswers", func(t *testing.T) {
		f.analysisSvc.On("Analyse", tmock.Anything, tmock.MatchedBy(func(answers map[string]any) bool {
			_, hasSnake := answers["project_id"]
			_, hasCamel := answers["projectId"]
			return !hasSnake && !hasCamel
		}), "p-1").Return(&model.Analysis{}, nil).Once()

		body := strings.NewReader(`{"title":"T","project_id":"p-1"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/analyse", body)
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		f.analysisSvc.AssertExpectations(t)
	})

	t.Run("MissingTitle", func(t *testing.T) {
		f.analysisSvc.On("Analyse", tmock.Anything, tmock.Anything, "").
			Return(nil, api_errors.ErrMissingTitle).Once()

		body := strings.NewReader(`{"description":"no title"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/analyse", body)
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UnknownProject", func(t *testing.T) {
		f.analysisSvc.On("Analyse", tmock.Anything, tmock.Anything, "ghost").
			Return(nil, api_errors.ErrProjectNotFound).Once()

		body := strings.NewReader(`{"title":"T","project_id":"ghost"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/analyse", body)
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		body := strings.NewReader(`{{{`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/analyse", body)
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListClauses(t *testing.T) {
	f := setupAnalysisRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/clauses", nil)
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		CorpusVersion string               `json:"corpus_version"`
		Clauses       []model.PolicyClause `json:"clauses"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, f.store.Version(), resp.CorpusVersion)
	assert.Len(t, resp.Clauses, f.store.Len())
}

func TestSearchClauses(t *testing.T) {
	f := setupAnalysisRouter(t)

	t.Run("Success", func(t *testing.T) {
		f.searchRepo.On("Search", tmock.Anything, tmock.Anything).
			Return([]model.SearchHit{{ClauseID: "ICO-Audit DPIA", Score: 2.1}}, nil).Once()

		body := strings.NewReader(`{"q":"personal data","top_k":5,"frameworks":["ICO"]}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/search", body)
		f.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var hits []model.SearchHit
		require.NoError(t, json.NewDecoder(w.Body).Decode(&hits))
		require.Len(t, hits, 1)
		assert.Equal(t, "ICO-Audit DPIA", hits[0].ClauseID)
	})

	t.Run("EmptyQuery", func(t *testing.T) {
		body := strings.NewReader(`{"q":"  "}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/search", body)
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UnknownFramework", func(t *testing.T) {
		body := strings.NewReader(`{"q":"data","frameworks":["NIST"]}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/search", body)
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAssessmentEndpoints(t *testing.T) {
	f := setupAnalysisRouter(t)

	t.Run("ListAssessments", func(t *testing.T) {
		f.analysisSvc.On("ListAssessments", tmock.Anything, "p-1", 10, 0).
			Return([]*model.Assessment{{ID: "a-2"}, {ID: "a-1"}}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/projects/p-1/assessments", nil)
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("GetAssessment_NotFound", func(t *testing.T) {
		f.analysisSvc.On("GetAssessment", tmock.Anything, "missing").
			Return(nil, api_errors.ErrAssessmentNotFound).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/assessments/missing", nil)
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGenerateReport(t *testing.T) {
	f := setupAnalysisRouter(t)

	t.Run("Success", func(t *testing.T) {
		f.reportSvc.On("GenerateReport", tmock.Anything, "p-1").
			Return("# AI-Impact UK Report – Loan scoring model\n", nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/report/p-1", nil)
		f.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
		assert.Contains(t, w.Body.String(), "AI-Impact UK Report")
	})

	t.Run("ProjectNotFound", func(t *testing.T) {
		f.reportSvc.On("GenerateReport", tmock.Anything, "missing").
			Return("", api_errors.ErrProjectNotFound).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/report/missing", nil)
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTelemetry(t *testing.T) {
	f := setupAnalysisRouter(t)

	t.Run("NotConsented", func(t *testing.T) {
		body := strings.NewReader(`{"event":"wizard_completed"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/telemetry", body)
		f.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, false, resp["ok"])
		assert.Equal(t, "not consented", resp["reason"])
	})

	t.Run("Consented", func(t *testing.T) {
		body := strings.NewReader(`{"consented":true,"event":"wizard_completed","session":"abc123"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/telemetry", body)
		f.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, true, resp["ok"])
	})
}
