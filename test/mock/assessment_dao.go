// api/test/mock/assessment_dao.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/aiimpact-uk/impact/api/model"
)

// AssessmentDAO is a testify mock of dao.IAssessmentDAO.
type AssessmentDAO struct {
	mock.Mock
}

func (m *AssessmentDAO) CreateAssessment(ctx context.Context, assessment model.Assessment) (string, error) {
	args := m.Called(ctx, assessment)
	return args.String(0), args.Error(1)
}

func (m *AssessmentDAO) GetAssessment(ctx context.Context, assessmentID string) (*model.Assessment, error) {
	args := m.Called(ctx, assessmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assessment), args.Error(1)
}

func (m *AssessmentDAO) ListAssessments(ctx context.Context, projectID string, limit int, offset int) ([]*model.Assessment, error) {
	args := m.Called(ctx, projectID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Assessment), args.Error(1)
}

func (m *AssessmentDAO) LatestAssessment(ctx context.Context, projectID string) (*model.Assessment, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assessment), args.Error(1)
}
