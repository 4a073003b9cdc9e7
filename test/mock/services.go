// api/test/mock/services.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/aiimpact-uk/impact/api/model"
)

// ProjectService is a testify mock of service.IProjectService.
type ProjectService struct {
	mock.Mock
}

func (m *ProjectService) CreateProject(ctx context.Context, project model.Project) (*model.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *ProjectService) UpdateProject(ctx context.Context, project model.Project) (*model.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *ProjectService) DeleteProject(ctx context.Context, projectID string) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *ProjectService) GetProject(ctx context.Context, projectID string) (*model.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *ProjectService) ListProjects(ctx context.Context, limit int, offset int) ([]*model.Project, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Project), args.Error(1)
}

func (m *ProjectService) SearchProjects(ctx context.Context, criteria model.ProjectSearchCriteria) ([]*model.Project, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Project), args.Error(1)
}

// AnalysisService is a testify mock of service.IAnalysisService.
type AnalysisService struct {
	mock.Mock
}

func (m *AnalysisService) Analyse(ctx context.Context, answers map[string]any, projectID string) (*model.Analysis, error) {
	args := m.Called(ctx, answers, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Analysis), args.Error(1)
}

func (m *AnalysisService) GetAssessment(ctx context.Context, assessmentID string) (*model.Assessment, error) {
	args := m.Called(ctx, assessmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assessment), args.Error(1)
}

func (m *AnalysisService) ListAssessments(ctx context.Context, projectID string, limit int, offset int) ([]*model.Assessment, error) {
	args := m.Called(ctx, projectID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Assessment), args.Error(1)
}

// ReportService is a testify mock of service.IReportService.
type ReportService struct {
	mock.Mock
}

func (m *ReportService) GenerateReport(ctx context.Context, projectID string) (string, error) {
	args := m.Called(ctx, projectID)
	return args.String(0), args.Error(1)
}

func (m *ReportService) RenderMarkdown(project *model.Project, assessment *model.Assessment) string {
	args := m.Called(project, assessment)
	return args.String(0)
}
