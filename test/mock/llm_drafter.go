// api/test/mock/llm_drafter.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/aiimpact-uk/impact/api/model"
)

// LLMDrafter is a testify mock of service.LLMDrafter.
type LLMDrafter struct {
	mock.Mock
}

func (m *LLMDrafter) DraftFlags(ctx context.Context, p *model.ProjectProfile, hits []model.SearchHit) ([]model.Flag, error) {
	args := m.Called(ctx, p, hits)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Flag), args.Error(1)
}

func (m *LLMDrafter) ModelName() string {
	args := m.Called()
	return args.String(0)
}
