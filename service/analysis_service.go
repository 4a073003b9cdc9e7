// api/service/analysis_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aiimpact-uk/impact/api/audit"
	"github.com/aiimpact-uk/impact/api/corpus"
	"github.com/aiimpact-uk/impact/api/dao"
	"github.com/aiimpact-uk/impact/api/engine"
	logger "github.com/aiimpact-uk/impact/api/logging"
	"github.com/aiimpact-uk/impact/api/model"
	"github.com/aiimpact-uk/impact/api/normalize"
	"github.com/aiimpact-uk/impact/api/search"
	"github.com/aiimpact-uk/impact/api/util"
)

// IAnalysisService defines the interface for compliance analysis operations
type IAnalysisService interface {
	Analyse(ctx context.Context, answers map[string]any, projectID string) (*model.Analysis, error)
	GetAssessment(ctx context.Context, assessmentID string) (*model.Assessment, error)
	ListAssessments(ctx context.Context, projectID string, limit int, offset int) ([]*model.Assessment, error)
}

// LLMDrafter is the optional model-drafted flag source. A nil drafter means
// analysis runs on rules alone.
type LLMDrafter interface {
	DraftFlags(ctx context.Context, p *model.ProjectProfile, hits []model.SearchHit) ([]model.Flag, error)
	ModelName() string
}

// AnalysisService derives compliance flags for a set of wizard answers and,
// when a project id is given, persists the result as an immutable snapshot.
type AnalysisService struct {
	store           *corpus.Store
	evaluator       *engine.Evaluator
	searchRepo      search.Repository
	drafter         LLMDrafter
	assessmentDAO   dao.IAssessmentDAO
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	auditSvc        audit.Service
}

var _ IAnalysisService = &AnalysisService{}

// NewAnalysisService creates a new instance of AnalysisService
func NewAnalysisService(store *corpus.Store, evaluator *engine.Evaluator, searchRepo search.Repository, drafter LLMDrafter, assessmentDAO dao.IAssessmentDAO, cacheService *util.CacheService, notificationSvc *util.NotificationService, eventBus *util.EventBus, auditSvc audit.Service) *AnalysisService {
	service := &AnalysisService{
		store:           store,
		evaluator:       evaluator,
		searchRepo:      searchRepo,
		drafter:         drafter,
		assessmentDAO:   assessmentDAO,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		auditSvc:        auditSvc,
	}

	eventBus.Subscribe("assessment.created", service.handleAssessmentCreated)

	return service
}

func (s *AnalysisService) handleAssessmentCreated(ctx context.Context, event util.Event) error {
	assessment := event.Payload.(model.Assessment)
	logger.Info("Assessment created event received",
		zap.String("assessmentID", assessment.ID),
		zap.String("projectID", assessment.ProjectID),
		zap.String("overall", assessment.Summary.Overall))

	if assessment.Summary.Overall == "High" {
		if err := s.notificationSvc.NotifyHighRiskAssessment(ctx, assessment); err != nil {
			logger.Warn("Failed to send high-risk notification", zap.Error(err), zap.String("assessmentID", assessment.ID))
		}
	}

	return nil
}

// Analyse normalizes the answers, evaluates the rule set, optionally merges
// LLM-drafted flags, and aggregates the severity summary. Rule evaluation and
// the retrieval+drafting path run concurrently; both are pure with respect to
// the profile. The only hard failure is a missing title.
func (s *AnalysisService) Analyse(ctx context.Context, answers map[string]any, projectID string) (*model.Analysis, error) {
	start := time.Now()

	profile, degraded, err := normalize.Normalize(answers)
	if err != nil {
		return nil, err
	}

	var ruleFlags, llmFlags []model.Flag

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ruleFlags = s.evaluator.Evaluate(profile)
		return nil
	})

	g.Go(func() error {
		// Retrieval and drafting degrade to nothing on failure; rules stay
		// authoritative.
		if s.drafter == nil {
			return nil
		}
		hits, err := s.searchRepo.Search(gctx, model.SearchQuery{
			Q:    retrievalQuery(profile),
			TopK: 20,
		})
		if err != nil {
			logger.Warn("Clause retrieval failed, skipping LLM drafting", zap.Error(err))
			return nil
		}
		if len(hits) == 0 {
			return nil
		}
		drafts, err := s.drafter.DraftFlags(gctx, profile, hits)
		if err != nil {
			logger.Warn("LLM drafting failed, continuing with rule flags only", zap.Error(err))
			return nil
		}
		llmFlags = s.acceptDrafts(drafts, hits)
		return nil
	})

	_ = g.Wait() // both branches degrade internally, neither returns an error

	// Drafted flags lead, rule flags follow, each block keeping its own
	// stable internal order.
	flags := make([]model.Flag, 0, len(llmFlags)+len(ruleFlags))
	flags = append(flags, llmFlags...)
	flags = append(flags, ruleFlags...)

	analysis := &model.Analysis{
		Flags:          flags,
		Summary:        engine.Summarize(flags),
		CorpusVersion:  s.store.Version(),
		DegradedFields: degraded,
	}

	assessmentID := ""
	if projectID != "" {
		assessmentID = s.snapshot(ctx, projectID, analysis)
	}

	s.recordAudit(ctx, projectID, assessmentID, analysis, time.Since(start))

	logger.Info("Analysis complete",
		zap.String("projectID", projectID),
		zap.Int("flags", len(flags)),
		zap.String("overall", analysis.Summary.Overall),
		zap.Duration("duration", time.Since(start)))

	return analysis, nil
}

// acceptDrafts keeps only drafted flags that cite a clause present in both
// the corpus and the retrieved candidate set, and fills in display metadata
// from the authoritative clause record.
func (s *AnalysisService) acceptDrafts(drafts []model.Flag, hits []model.SearchHit) []model.Flag {
	valid := make(map[string]bool, len(hits))
	for _, h := range hits {
		valid[strings.ToLower(strings.TrimSpace(h.ClauseID))] = true
	}

	accepted := make([]model.Flag, 0, len(drafts))
	for _, f := range drafts {
		clause, ok := s.store.Lookup(f.Clause)
		if !ok || !valid[strings.ToLower(clause.ID)] {
			logger.Info("Dropping drafted flag with out-of-scope clause", zap.String("clause", f.Clause))
			continue
		}
		f.Clause = clause.ID
		f.ID = clause.ID
		f.Meta = model.FlagMeta{
			Label:     clause.Label,
			Link:      clause.Link,
			Framework: clause.Framework,
			Document:  clause.Document,
			Phase:     clause.Phase,
			Dimension: clause.Dimension,
			Source:    "llm",
		}
		accepted = append(accepted, f)
	}
	return accepted
}

// snapshot persists the analysis for a project. Persistence failure is
// logged, not returned: a stored-later snapshot is worth less than a lost
// assessment response.
func (s *AnalysisService) snapshot(ctx context.Context, projectID string, analysis *model.Analysis) string {
	assessment := model.Assessment{
		ProjectID:     projectID,
		CreatedAt:     time.Now(),
		CorpusVersion: analysis.CorpusVersion,
		Flags:         analysis.Flags,
		Summary:       analysis.Summary,
	}

	assessmentID, err := s.assessmentDAO.CreateAssessment(ctx, assessment)
	if err != nil {
		logger.Error("Failed to persist assessment snapshot",
			zap.Error(err),
			zap.String("projectID", projectID))
		return ""
	}
	assessment.ID = assessmentID

	if err := s.cacheService.SetLatestAssessment(ctx, assessment); err != nil {
		logger.Warn("Failed to cache latest assessment", zap.Error(err), zap.String("projectID", projectID))
	}

	s.eventBus.Publish(ctx, "assessment.created", assessment)

	return assessmentID
}

func (s *AnalysisService) recordAudit(ctx context.Context, projectID, assessmentID string, analysis *model.Analysis, duration time.Duration) {
	record := audit.AnalysisRecord{
		Timestamp:     time.Now(),
		ProjectID:     projectID,
		AssessmentID:  assessmentID,
		CorpusVersion: analysis.CorpusVersion,
		Overall:       analysis.Summary.Overall,
		RedCount:      analysis.Summary.BySeverity[model.SeverityRed],
		AmberCount:    analysis.Summary.BySeverity[model.SeverityAmber],
		GreenCount:    analysis.Summary.BySeverity[model.SeverityGreen],
		DurationMS:    duration.Milliseconds(),
	}
	if s.drafter != nil {
		record.LLMModel = s.drafter.ModelName()
	}

	if err := s.auditSvc.LogAnalysis(ctx, record); err != nil {
		logger.Warn("Failed to record analysis audit entry", zap.Error(err))
	}
}

// GetAssessment returns one stored snapshot by id.
func (s *AnalysisService) GetAssessment(ctx context.Context, assessmentID string) (*model.Assessment, error) {
	return s.assessmentDAO.GetAssessment(ctx, assessmentID)
}

// ListAssessments returns a project's snapshot history, newest first.
func (s *AnalysisService) ListAssessments(ctx context.Context, projectID string, limit int, offset int) ([]*model.Assessment, error) {
	return s.assessmentDAO.ListAssessments(ctx, projectID, limit, offset)
}

func retrievalQuery(p *model.ProjectProfile) string {
	return fmt.Sprintf("%s\n%s\n%s\n%s", p.Title, p.Description, p.ModelType, p.DeploymentEnv)
}
