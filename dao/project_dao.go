// api/dao/project_dao.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	api_errors "github.com/aiimpact-uk/impact/api/errors"
	logger "github.com/aiimpact-uk/impact/api/logging"
	"github.com/aiimpact-uk/impact/api/model"
	helper_util "github.com/aiimpact-uk/impact/api/util/helper"
)

// IProjectDAO is the persistence contract for projects; controllers never
// see it, services depend on it so tests can mock the store.
type IProjectDAO interface {
	CreateProject(ctx context.Context, project model.Project) (string, error)
	UpdateProject(ctx context.Context, project model.Project) (*model.Project, error)
	DeleteProject(ctx context.Context, projectID string) error
	GetProject(ctx context.Context, projectID string) (*model.Project, error)
	ListProjects(ctx context.Context, limit int, offset int) ([]*model.Project, error)
	SearchProjects(ctx context.Context, criteria model.ProjectSearchCriteria) ([]*model.Project, error)
}

type ProjectDAO struct {
	Driver neo4j.Driver
}

var _ IProjectDAO = &ProjectDAO{}

func NewProjectDAO(driver neo4j.Driver) *ProjectDAO {
	dao := &ProjectDAO{Driver: driver}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Project", zap.Error(err))
	}
	return dao
}

func (dao *ProjectDAO) EnsureUniqueConstraint(ctx context.Context) error {
	logger.Info("Ensuring unique constraint on Project ID")
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_project_id IF NOT EXISTS
        FOR (p:Project) REQUIRE p.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on Project ID", zap.Error(err))
		return err
	}

	return nil
}

func (dao *ProjectDAO) CreateProject(ctx context.Context, project model.Project) (string, error) {
	start := time.Now()
	logger.Info("Creating new project", zap.String("title", project.Title))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if project.ID == "" {
		project.ID = uuid.New().String()
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE (p:Project {id: $id})
        SET p += $props
        RETURN p.id as id
        `

		answersJSON, _ := json.Marshal(project.Answers)
		now := time.Now().Format(time.RFC3339)

		params := map[string]interface{}{
			"id": project.ID,
			"props": map[string]interface{}{
				"title":       project.Title,
				"description": project.Description,
				"answers":     string(answersJSON),
				"createdAt":   now,
				"updatedAt":   now,
			},
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			if neo4j.IsNeo4jError(err) && err.(*neo4j.Neo4jError).Code == "Neo.ClientError.Schema.ConstraintValidationFailed" {
				return nil, api_errors.ErrProjectConflict
			}
			return nil, api_errors.ErrDatabaseOperation
		}

		if result.Next() {
			return result.Record().Values[0], nil
		}

		return nil, api_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create project",
			zap.Error(err),
			zap.String("title", project.Title),
			zap.Duration("duration", duration))
		return "", err
	}

	projectID := fmt.Sprintf("%v", result)
	logger.Info("Project created successfully",
		zap.String("projectID", projectID),
		zap.Duration("duration", duration))

	return projectID, nil
}

func (dao *ProjectDAO) UpdateProject(ctx context.Context, project model.Project) (*model.Project, error) {
	start := time.Now()
	logger.Info("Updating project", zap.String("projectID", project.ID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	var updatedProject *model.Project
	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (p:Project {id: $id})
        SET p += $props
        RETURN p
        `

		answersJSON, _ := json.Marshal(project.Answers)

		params := map[string]interface{}{
			"id": project.ID,
			"props": map[string]interface{}{
				"title":       project.Title,
				"description": project.Description,
				"answers":     string(answersJSON),
				"updatedAt":   time.Now().Format(time.RFC3339),
			},
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}

		if result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			updatedProject, err = mapNodeToProject(node)
			if err != nil {
				return nil, fmt.Errorf("failed to map project node to struct: %w", err)
			}
			return nil, nil
		}

		return nil, api_errors.ErrProjectNotFound
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update project",
			zap.Error(err),
			zap.String("projectID", project.ID),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Info("Project updated successfully",
		zap.String("projectID", project.ID),
		zap.Duration("duration", duration))

	return updatedProject, nil
}

func (dao *ProjectDAO) DeleteProject(ctx context.Context, projectID string) error {
	start := time.Now()
	logger.Info("Deleting project", zap.String("projectID", projectID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (p:Project {id: $id})
        OPTIONAL MATCH (p)-[:HAS_ASSESSMENT]->(a:Assessment)
        DETACH DELETE p, a
        `
		result, err := transaction.Run(query, map[string]interface{}{"id": projectID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}

		summary, err := result.Consume()
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}

		if summary.Counters().NodesDeleted() == 0 {
			return nil, api_errors.ErrProjectNotFound
		}

		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to delete project",
			zap.Error(err),
			zap.String("projectID", projectID),
			zap.Duration("duration", duration))
		return err
	}

	logger.Info("Project deleted successfully",
		zap.String("projectID", projectID),
		zap.Duration("duration", duration))

	return nil
}

func (dao *ProjectDAO) GetProject(ctx context.Context, projectID string) (*model.Project, error) {
	start := time.Now()
	logger.Info("Retrieving project", zap.String("projectID", projectID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (p:Project {id: $id})
    RETURN p
    `
	result, err := session.Run(query, map[string]interface{}{"id": projectID})
	if err != nil {
		logger.Error("Failed to execute get project query",
			zap.Error(err),
			zap.String("projectID", projectID),
			zap.Duration("duration", time.Since(start)))
		return nil, api_errors.ErrDatabaseOperation
	}

	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		project, err := mapNodeToProject(node)
		if err != nil {
			logger.Error("Failed to map project node to struct",
				zap.Error(err),
				zap.String("projectID", projectID))
			return nil, api_errors.ErrInternalServer
		}
		return project, nil
	}

	logger.Warn("Project not found",
		zap.String("projectID", projectID),
		zap.Duration("duration", time.Since(start)))
	return nil, api_errors.ErrProjectNotFound
}

func (dao *ProjectDAO) ListProjects(ctx context.Context, limit int, offset int) ([]*model.Project, error) {
	start := time.Now()
	logger.Info("Listing projects", zap.Int("limit", limit), zap.Int("offset", offset))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (p:Project)
    RETURN p
    ORDER BY p.createdAt DESC
    SKIP $offset LIMIT $limit
    `
	result, err := session.Run(query, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		logger.Error("Failed to execute list projects query",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, api_errors.ErrDatabaseOperation
	}

	var projects []*model.Project
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		project, err := mapNodeToProject(node)
		if err != nil {
			return nil, api_errors.ErrInternalServer
		}
		projects = append(projects, project)
	}

	logger.Info("Projects listed successfully",
		zap.Int("count", len(projects)),
		zap.Duration("duration", time.Since(start)))

	return projects, nil
}

func (dao *ProjectDAO) SearchProjects(ctx context.Context, criteria model.ProjectSearchCriteria) ([]*model.Project, error) {
	start := time.Now()
	logger.Info("Searching projects", zap.String("title", criteria.Title))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (p:Project)
    WHERE ($title = '' OR toLower(p.title) CONTAINS toLower($title))
      AND ($from = '' OR p.createdAt >= $from)
      AND ($to = '' OR p.createdAt <= $to)
    RETURN p
    ORDER BY p.createdAt DESC
    SKIP $offset LIMIT $limit
    `

	from, to := "", ""
	if !criteria.FromDate.IsZero() {
		from = criteria.FromDate.Format(time.RFC3339)
	}
	if !criteria.ToDate.IsZero() {
		to = criteria.ToDate.Format(time.RFC3339)
	}
	limit := criteria.Limit
	if limit <= 0 {
		limit = 10
	}

	result, err := session.Run(query, map[string]interface{}{
		"title":  criteria.Title,
		"from":   from,
		"to":     to,
		"limit":  limit,
		"offset": criteria.Offset,
	})
	if err != nil {
		logger.Error("Failed to execute search projects query",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, api_errors.ErrDatabaseOperation
	}

	var projects []*model.Project
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		project, err := mapNodeToProject(node)
		if err != nil {
			return nil, api_errors.ErrInternalServer
		}
		projects = append(projects, project)
	}

	return projects, nil
}

func mapNodeToProject(node neo4j.Node) (*model.Project, error) {
	props := node.Props

	project := &model.Project{}
	project.ID, _ = props["id"].(string)
	project.Title, _ = props["title"].(string)
	project.Description, _ = props["description"].(string)

	if raw, ok := props["answers"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &project.Answers); err != nil {
			return nil, fmt.Errorf("failed to decode project answers: %w", err)
		}
	}

	if s, ok := props["createdAt"].(string); ok {
		if t, err := helper_util.ParseTime(s); err == nil {
			project.CreatedAt = t
		}
	}
	if s, ok := props["updatedAt"].(string); ok {
		if t, err := helper_util.ParseTime(s); err == nil {
			project.UpdatedAt = t
		}
	}

	return project, nil
}
