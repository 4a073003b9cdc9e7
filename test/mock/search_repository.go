// api/test/mock/search_repository.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/aiimpact-uk/impact/api/model"
)

// SearchRepository is a testify mock of search.Repository.
type SearchRepository struct {
	mock.Mock
}

func (m *SearchRepository) IndexClauses(ctx context.Context, clauses []model.PolicyClause, version string) error {
	args := m.Called(ctx, clauses, version)
	return args.Error(0)
}

func (m *SearchRepository) Search(ctx context.Context, q model.SearchQuery) ([]model.SearchHit, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SearchHit), args.Error(1)
}
