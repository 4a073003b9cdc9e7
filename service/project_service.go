// api/service/project_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aiimpact-uk/impact/api/dao"
	logger "github.com/aiimpact-uk/impact/api/logging"
	"github.com/aiimpact-uk/impact/api/model"
	"github.com/aiimpact-uk/impact/api/util"
)

// IProjectService defines the interface for project operations
type IProjectService interface {
	CreateProject(ctx context.Context, project model.Project) (*model.Project, error)
	UpdateProject(ctx context.Context, project model.Project) (*model.Project, error)
	DeleteProject(ctx context.Context, projectID string) error
	GetProject(ctx context.Context, projectID string) (*model.Project, error)
	ListProjects(ctx context.Context, limit int, offset int) ([]*model.Project, error)
	SearchProjects(ctx context.Context, criteria model.ProjectSearchCriteria) ([]*model.Project, error)
}

// ProjectService handles business logic for project operations
type ProjectService struct {
	projectDAO      dao.IProjectDAO
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

var _ IProjectService = &ProjectService{}

// NewProjectService creates a new instance of ProjectService
func NewProjectService(projectDAO dao.IProjectDAO, validationUtil *util.ValidationUtil, cacheService *util.CacheService, notificationSvc *util.NotificationService, eventBus *util.EventBus) *ProjectService {
	service := &ProjectService{
		projectDAO:      projectDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	// Set up event subscriptions
	eventBus.Subscribe("project.created", service.handleProjectCreated)
	eventBus.Subscribe("project.updated", service.handleProjectUpdated)
	eventBus.Subscribe("project.deleted", service.handleProjectDeleted)

	return service
}

func (s *ProjectService) handleProjectCreated(ctx context.Context, event util.Event) error {
	project := event.Payload.(model.Project)
	logger.Info("Project created event received", zap.String("projectID", project.ID))

	if err := s.notificationSvc.NotifyProjectChange(ctx, "created", project); err != nil {
		logger.Warn("Failed to send project creation notification", zap.Error(err), zap.String("projectID", project.ID))
	}

	return nil
}

func (s *ProjectService) handleProjectUpdated(ctx context.Context, event util.Event) error {
	project := event.Payload.(model.Project)
	logger.Info("Project updated event received", zap.String("projectID", project.ID))

	if err := s.notificationSvc.NotifyProjectChange(ctx, "updated", project); err != nil {
		logger.Warn("Failed to send project update notification", zap.Error(err), zap.String("projectID", project.ID))
	}

	return nil
}

func (s *ProjectService) handleProjectDeleted(ctx context.Context, event util.Event) error {
	projectID := event.Payload.(string)
	logger.Info("Project deleted event received", zap.String("projectID", projectID))

	// The latest-assessment cache entry keys off the project, drop it too
	if err := s.cacheService.DeleteLatestAssessment(ctx, projectID); err != nil {
		logger.Warn("Failed to drop cached assessment for deleted project", zap.Error(err), zap.String("projectID", projectID))
	}

	if err := s.notificationSvc.NotifyProjectChange(ctx, "deleted", model.Project{ID: projectID}); err != nil {
		logger.Warn("Failed to send project deletion notification", zap.Error(err), zap.String("projectID", projectID))
	}

	return nil
}

// CreateProject handles the creation of a new project
func (s *ProjectService) CreateProject(ctx context.Context, project model.Project) (*model.Project, error) {
	if err := s.validationUtil.ValidateProject(project); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}

	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()

	projectID, err := s.projectDAO.CreateProject(ctx, project)
	if err != nil {
		logger.Error("Error creating project", zap.Error(err), zap.String("title", project.Title))
		return nil, err
	}

	project.ID = projectID

	// Update cache
	if err := s.cacheService.SetProject(ctx, project); err != nil {
		logger.Warn("Failed to cache project", zap.Error(err), zap.String("projectID", projectID))
	}

	// Publish event for asynchronous processing
	s.eventBus.Publish(ctx, "project.created", project)

	logger.Info("Project created successfully", zap.String("projectID", projectID))
	return &project, nil
}

// UpdateProject handles updates to an existing project
func (s *ProjectService) UpdateProject(ctx context.Context, project model.Project) (*model.Project, error) {
	if err := s.validationUtil.ValidateProject(project); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}

	project.UpdatedAt = time.Now()

	updatedProject, err := s.projectDAO.UpdateProject(ctx, project)
	if err != nil {
		logger.Error("Error updating project", zap.Error(err), zap.String("projectID", project.ID))
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	// Update cache
	if err := s.cacheService.SetProject(ctx, *updatedProject); err != nil {
		logger.Warn("Failed to update project in cache", zap.Error(err), zap.String("projectID", project.ID))
	}

	// Publish event for asynchronous processing
	s.eventBus.Publish(ctx, "project.updated", *updatedProject)

	logger.Info("Project updated successfully", zap.String("projectID", project.ID))
	return updatedProject, nil
}

// DeleteProject handles the deletion of a project and its assessments
func (s *ProjectService) DeleteProject(ctx context.Context, projectID string) error {
	err := s.projectDAO.DeleteProject(ctx, projectID)
	if err != nil {
		logger.Error("Error deleting project", zap.Error(err), zap.String("projectID", projectID))
		return fmt.Errorf("failed to delete project: %w", err)
	}

	// Remove from cache
	if err := s.cacheService.DeleteProject(ctx, projectID); err != nil {
		logger.Warn("Failed to delete project from cache", zap.Error(err), zap.String("projectID", projectID))
	}

	// Publish event for asynchronous processing
	s.eventBus.Publish(ctx, "project.deleted", projectID)

	logger.Info("Project deleted successfully", zap.String("projectID", projectID))
	return nil
}

// GetProject retrieves a project by its ID
func (s *ProjectService) GetProject(ctx context.Context, projectID string) (*model.Project, error) {
	// Try to get from cache first
	cachedProject, err := s.cacheService.GetProject(ctx, projectID)
	if err == nil && cachedProject != nil {
		return cachedProject, nil
	}

	project, err := s.projectDAO.GetProject(ctx, projectID)
	if err != nil {
		logger.Error("Error retrieving project", zap.Error(err), zap.String("projectID", projectID))
		return nil, err
	}

	// Update cache for next time
	if err := s.cacheService.SetProject(ctx, *project); err != nil {
		logger.Warn("Failed to cache project", zap.Error(err), zap.String("projectID", projectID))
	}

	return project, nil
}

// ListProjects retrieves all projects, paginated
func (s *ProjectService) ListProjects(ctx context.Context, limit int, offset int) ([]*model.Project, error) {
	return s.projectDAO.ListProjects(ctx, limit, offset)
}

// SearchProjects filters projects by title and date range
func (s *ProjectService) SearchProjects(ctx context.Context, criteria model.ProjectSearchCriteria) ([]*model.Project, error) {
	return s.projectDAO.SearchProjects(ctx, criteria)
}
