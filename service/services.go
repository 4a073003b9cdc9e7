// api/service/services.go
package service

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/aiimpact-uk/impact/api/audit"
	"github.com/aiimpact-uk/impact/api/corpus"
	"github.com/aiimpact-uk/impact/api/dao"
	"github.com/aiimpact-uk/impact/api/engine"
	"github.com/aiimpact-uk/impact/api/search"
	"github.com/aiimpact-uk/impact/api/util"
)

type Services struct {
	Project  IProjectService
	Analysis IAnalysisService
	Report   IReportService
}

func InitializeServices(
	driver neo4j.Driver,
	store *corpus.Store,
	evaluator *engine.Evaluator,
	searchRepo search.Repository,
	drafter LLMDrafter,
	auditService audit.Service,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) (*Services, error) {
	projectDAO := dao.NewProjectDAO(driver)
	assessmentDAO := dao.NewAssessmentDAO(driver)

	projectService := NewProjectService(projectDAO, validationUtil, cacheService, notificationSvc, eventBus)
	analysisService := NewAnalysisService(store, evaluator, searchRepo, drafter, assessmentDAO, cacheService, notificationSvc, eventBus, auditService)
	reportService := NewReportService(projectService, analysisService)

	services := &Services{
		Project:  projectService,
		Analysis: analysisService,
		Report:   reportService,
	}

	return services, nil
}
