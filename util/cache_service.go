// api/util/cache_service.go

package util

import (
	"context"

	"github.com/aiimpact-uk/impact/api/db"
	"github.com/aiimpact-uk/impact/api/model"
)

type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) GetProject(ctx context.Context, projectID string) (*model.Project, error) {
	return db.GetCachedProject(ctx, projectID)
}

func (c *CacheService) SetProject(ctx context.Context, project model.Project) error {
	return db.CacheProject(ctx, &project)
}

func (c *CacheService) DeleteProject(ctx context.Context, projectID string) error {
	return db.DeleteCachedProject(ctx, projectID)
}

func (c *CacheService) GetLatestAssessment(ctx context.Context, projectID string) (*model.Assessment, error) {
	return db.GetCachedLatestAssessment(ctx, projectID)
}

func (c *CacheService) SetLatestAssessment(ctx context.Context, assessment model.Assessment) error {
	return db.CacheLatestAssessment(ctx, &assessment)
}

func (c *CacheService) DeleteLatestAssessment(ctx context.Context, projectID string) error {
	return db.DeleteCachedLatestAssessment(ctx, projectID)
}
