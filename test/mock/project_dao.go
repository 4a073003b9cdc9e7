// api/test/mock/project_dao.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/aiimpact-uk/impact/api/model"
)

// ProjectDAO is a testify mock of dao.IProjectDAO.
type ProjectDAO struct {
	mock.Mock
}

func (m *ProjectDAO) CreateProject(ctx context.Context, project model.Project) (string, error) {
	args := m.Called(ctx, project)
	return args.String(0), args.Error(1)
}

func (m *ProjectDAO) UpdateProject(ctx context.Context, project model.Project) (*model.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *ProjectDAO) DeleteProject(ctx context.Context, projectID string) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *ProjectDAO) GetProject(ctx context.Context, projectID string) (*model.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *ProjectDAO) ListProjects(ctx context.Context, limit int, offset int) ([]*model.Project, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Project), args.Error(1)
}

func (m *ProjectDAO) SearchProjects(ctx context.Context, criteria model.ProjectSearchCriteria) ([]*model.Project, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Project), args.Error(1)
}
