// api/controller/analysis_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aiimpact-uk/impact/api/corpus"
	api_errors "github.com/aiimpact-uk/impact/api/errors"
	"github.com/aiimpact-uk/impact/api/model"
	"github.com/aiimpact-uk/impact/api/search"
	"github.com/aiimpact-uk/impact/api/service"
	"github.com/aiimpact-uk/impact/api/util"
	helper_util "github.com/aiimpact-uk/impact/api/util/helper"
)

type AnalysisController struct {
	analysisService service.IAnalysisService
	reportService   service.IReportService
	searchRepo      search.Repository
	store           *corpus.Store
	validationUtil  *util.ValidationUtil
}

func NewAnalysisController(analysisService service.IAnalysisService, reportService service.IReportService, searchRepo search.Repository, store *corpus.Store, validationUtil *util.ValidationUtil) *AnalysisController {
	return &AnalysisController{
		analysisService: analysisService,
		reportService:   reportService,
		searchRepo:      searchRepo,
		store:           store,
		validationUtil:  validationUtil,
	}
}

// RegisterRoutes registers the API routes
func (ac *AnalysisController) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/analyse", ac.Analyse)
	r.GET("/clauses", ac.ListClauses)
	r.POST("/search", ac.SearchClauses)
	r.GET("/projects/:id/assessments", ac.ListAssessments)
	r.GET("/assessments/:id", ac.GetAssessment)
	r.POST("/report/:id", ac.GenerateReport)
	r.POST("/telemetry", ac.Telemetry)
}

// Analyse endpoint: evaluates raw wizard answers. When the payload names a
// project, the result is additionally stored as an assessment snapshot.
func (ac *AnalysisController) Analyse(c *gin.Context) {
	var answers map[string]any
	if err := c.ShouldBindJSON(&answers); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid answers payload", api_errors.ErrInvalidAnswers)
		return
	}

	projectID := c.Query("project_id")
	for _, key := range []string{"project_id", "projectId"} {
		if v, ok := answers[key].(string); ok {
			if projectID == "" {
				projectID = v
			}
			delete(answers, key)
		}
	}

	analysis, err := ac.analysisService.Analyse(c, answers, projectID)
	if err != nil {
		switch {
		case errors.Is(err, api_errors.ErrMissingTitle):
			util.RespondWithError(c, http.StatusBadRequest, "Project title is required", err)
		case errors.Is(err, api_errors.ErrProjectNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Project not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to analyse project", err)
		}
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// ListClauses endpoint: the full loaded corpus plus its version.
func (ac *AnalysisController) ListClauses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"corpus_version": ac.store.Version(),
		"clauses":        ac.store.Clauses(),
	})
}

// SearchClauses endpoint
func (ac *AnalysisController) SearchClauses(c *gin.Context) {
	var query model.SearchQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid search query", api_errors.ErrInvalidSearchQuery)
		return
	}
	if err := ac.validationUtil.ValidateSearchQuery(query); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, err.Error(), api_errors.ErrInvalidSearchQuery)
		return
	}

	hits, err := ac.searchRepo.Search(c, query)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to search clauses", err)
		return
	}

	c.JSON(http.StatusOK, hits)
}

// ListAssessments endpoint: a project's snapshot history, newest first.
func (ac *AnalysisController) ListAssessments(c *gin.Context) {
	projectID := c.Param("id")

	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	assessments, err := ac.analysisService.ListAssessments(c, projectID, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list assessments", err)
		return
	}

	c.JSON(http.StatusOK, assessments)
}

// GetAssessment endpoint
func (ac *AnalysisController) GetAssessment(c *gin.Context) {
	assessmentID := c.Param("id")

	assessment, err := ac.analysisService.GetAssessment(c, assessmentID)
	if err != nil {
		if errors.Is(err, api_errors.ErrAssessmentNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Assessment not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve assessment", err)
		}
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// GenerateReport endpoint: renders the Markdown report for the project's
// latest assessment.
func (ac *AnalysisController) GenerateReport(c *gin.Context) {
	projectID := c.Param("id")

	markdown, err := ac.reportService.GenerateReport(c, projectID)
	if err != nil {
		if errors.Is(err, api_errors.ErrProjectNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Project not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to generate report", err)
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="AI-Impact-UK_Report_`+projectID+`.md"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(markdown))
}

// Telemetry endpoint: consent-gated, content-free usage events. The payload
// is reduced to a strict allow-list before anything is logged.
func (ac *AnalysisController) Telemetry(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		body = map[string]any{}
	}

	consented, _ := body["consented"].(bool)
	if !consented {
		// Nothing is logged without consent
		c.JSON(http.StatusOK, gin.H{"ok": false, "reason": "not consented"})
		return
	}

	logTelemetry(sanitizeTelemetry(body))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
