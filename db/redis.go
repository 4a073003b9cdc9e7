// api/db/redis.go
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/aiimpact-uk/impact/api/logging"
	"github.com/aiimpact-uk/impact/api/model"
)

var RedisClient *redis.Client

func InitRedis() error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
		PoolTimeout:  viper.GetDuration("redis.poolTimeout"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

func CacheProject(ctx context.Context, project *model.Project) error {
	projectJSON, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	key := fmt.Sprintf("project:%s", project.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, projectJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache project: %w", err)
	}

	logger.Debug("Project cached successfully", zap.String("projectID", project.ID))
	return nil
}

func DeleteCachedProject(ctx context.Context, projectID string) error {
	key := fmt.Sprintf("project:%s", projectID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete project from cache: %w", err)
	}
	logger.Debug("Project deleted from cache", zap.String("projectID", projectID))
	return nil
}

func GetCachedProject(ctx context.Context, projectID string) (*model.Project, error) {
	key := fmt.Sprintf("project:%s", projectID)
	projectJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Project not found in cache", zap.String("projectID", projectID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get project from cache: %w", err)
	}

	var project model.Project
	err = json.Unmarshal([]byte(projectJSON), &project)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}

	logger.Debug("Project retrieved from cache", zap.String("projectID", projectID))
	return &project, nil
}

// CacheLatestAssessment stores the most recent assessment for a project. Only
// the latest snapshot is cached; the full history always comes from Neo4j.
func CacheLatestAssessment(ctx context.Context, assessment *model.Assessment) error {
	assessmentJSON, err := json.Marshal(assessment)
	if err != nil {
		return fmt.Errorf("failed to marshal assessment: %w", err)
	}

	key := fmt.Sprintf("assessment:latest:%s", assessment.ProjectID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, assessmentJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache assessment: %w", err)
	}

	logger.Debug("Assessment cached successfully",
		zap.String("projectID", assessment.ProjectID),
		zap.String("assessmentID", assessment.ID))
	return nil
}

func GetCachedLatestAssessment(ctx context.Context, projectID string) (*model.Assessment, error) {
	key := fmt.Sprintf("assessment:latest:%s", projectID)
	assessmentJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Assessment not found in cache", zap.String("projectID", projectID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get assessment from cache: %w", err)
	}

	var assessment model.Assessment
	err = json.Unmarshal([]byte(assessmentJSON), &assessment)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal assessment: %w", err)
	}

	return &assessment, nil
}

func DeleteCachedLatestAssessment(ctx context.Context, projectID string) error {
	key := fmt.Sprintf("assessment:latest:%s", projectID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete assessment from cache: %w", err)
	}
	return nil
}

func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	pipe := RedisClient.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := cmds[2].(*redis.IntCmd).Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Bool("allowed", allowed))

	return allowed, nil
}
