// api/dao/assessment_dao.go
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

// IAssessmentDAO deliberately has no update or delete: assessments are
// append-only snapshots. History must survive later corpus versions.
type IAssessmentDAO interface {
	CreateAssessment(ctx context.Context, assessment model.Assessment) (string, error)
	GetAssessment(ctx context.Context, assessmentID string) (*model.Assessment, error)
	ListAssessments(ctx context.Context, projectID string, limit int, offset int) ([]*model.Assessment, error)
	LatestAssessment(ctx context.Context, projectID string) (*model.Assessment, error)
}

type AssessmentDAO struct {
	Driver neo4j.Driver
}

var _ IAssessmentDAO = &AssessmentDAO{}

func NewAssessmentDAO(driver neo4j.Driver) *AssessmentDAO {
	dao := &AssessmentDAO{Driver: driver}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Assessment", zap.Error(err))
	}
	return dao
}

func (dao *AssessmentDAO) EnsureUniqueConstraint(ctx context.Context) error {
	logger.Info("Ensuring unique constraint on Assessment ID")
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_assessment_id IF NOT EXISTS
        FOR (a:Assessment) REQUIRE a.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on Assessment ID", zap.Error(err))
		return err
	}

	return nil
}

// CreateAssessment links the snapshot to its project. The write fails with
// ErrProjectNotFound when the project has been deleted meanwhile, so no
// orphan snapshots accumulate.
func (dao *AssessmentDAO) CreateAssessment(ctx context.Context, assessment model.Assessment) (string, error) {
	start := time.Now()
	logger.Info("Creating assessment snapshot",
		zap.String("projectID", assessment.ProjectID),
		zap.String("corpusVersion", assessment.CorpusVersion))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if assessment.ID == "" {
		assessment.ID = uuid.New().String()
	}
	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = time.Now()
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (p:Project {id: $projectId})
        CREATE (a:Assessment {id: $id})
        SET a += $props
        CREATE (p)-[:HAS_ASSESSMENT]->(a)
        RETURN a.id as id
        `

		flagsJSON, _ := json.Marshal(assessment.Flags)
		summaryJSON, _ := json.Marshal(assessment.Summary)

		params := map[string]interface{}{
			"projectId": assessment.ProjectID,
			"id":        assessment.ID,
			"props": map[string]interface{}{
				"projectId":     assessment.ProjectID,
				"corpusVersion": assessment.CorpusVersion,
				"flags":         string(flagsJSON),
				"summary":       string(summaryJSON),
				"createdAt":     assessment.CreatedAt.Format(time.RFC3339),
			},
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}

		if result.Next() {
			return result.Record().Values[0], nil
		}

		return nil, api_errors.ErrProjectNotFound
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create assessment",
			zap.Error(err),
			zap.String("projectID", assessment.ProjectID),
			zap.Duration("duration", duration))
		return "", err
	}

	assessmentID := fmt.Sprintf("%v", result)
	logger.Info("Assessment created successfully",
		zap.String("assessmentID", assessmentID),
		zap.Duration("duration", duration))

	return assessmentID, nil
}

func (dao *AssessmentDAO) GetAssessment(ctx context.Context, assessmentID string) (*model.Assessment, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (a:Assessment {id: $id})
    RETURN a
    `
	result, err := session.Run(query, map[string]interface{}{"id": assessmentID})
	if err != nil {
		logger.Error("Failed to execute get assessment query",
			zap.Error(err),
			zap.String("assessmentID", assessmentID))
		return nil, api_errors.ErrDatabaseOperation
	}

	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		return mapNodeToAssessment(node)
	}

	return nil, api_errors.ErrAssessmentNotFound
}

func (dao *AssessmentDAO) ListAssessments(ctx context.Context, projectID string, limit int, offset int) ([]*model.Assessment, error) {
	start := time.Now()
	logger.Info("Listing assessments",
		zap.String("projectID", projectID),
		zap.Int("limit", limit),
		zap.Int("offset", offset))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (p:Project {id: $projectId})-[:HAS_ASSESSMENT]->(a:Assessment)
    RETURN a
    ORDER BY a.createdAt DESC
    SKIP $offset LIMIT $limit
    `
	result, err := session.Run(query, map[string]interface{}{
		"projectId": projectID,
		"limit":     limit,
		"offset":    offset,
	})
	if err != nil {
		logger.Error("Failed to execute list assessments query",
			zap.Error(err),
			zap.String("projectID", projectID),
			zap.Duration("duration", time.Since(start)))
		return nil, api_errors.ErrDatabaseOperation
	}

	var assessments []*model.Assessment
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		assessment, err := mapNodeToAssessment(node)
		if err != nil {
			return nil, api_errors.ErrInternalServer
		}
		assessments = append(assessments, assessment)
	}

	return assessments, nil
}

func (dao *AssessmentDAO) LatestAssessment(ctx context.Context, projectID string) (*model.Assessment, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (p:Project {id: $projectId})-[:HAS_ASSESSMENT]->(a:Assessment)
    RETURN a
    ORDER BY a.createdAt DESC
    LIMIT 1
    `
	result, err := session.Run(query, map[string]interface{}{"projectId": projectID})
	if err != nil {
		logger.Error("Failed to execute latest assessment query",
			zap.Error(err),
			zap.String("projectID", projectID))
		return nil, api_errors.ErrDatabaseOperation
	}

	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		return mapNodeToAssessment(node)
	}

	return nil, api_errors.ErrAssessmentNotFound
}

func mapNodeToAssessment(node neo4j.Node) (*model.Assessment, error) {
	props := node.Props

	assessment := &model.Assessment{}
	assessment.ID, _ = props["id"].(string)
	assessment.ProjectID, _ = props["projectId"].(string)
	assessment.CorpusVersion, _ = props["corpusVersion"].(string)

	if raw, ok := props["flags"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &assessment.Flags); err != nil {
			return nil, fmt.Errorf("failed to decode assessment flags: %w", err)
		}
	}
	if raw, ok := props["summary"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &assessment.Summary); err != nil {
			return nil, fmt.Errorf("failed to decode assessment summary: %w", err)
		}
	}
	if s, ok := props["createdAt"].(string); ok {
		if t, err := helper_util.ParseTime(s); err == nil {
			assessment.CreatedAt = t
		}
	}

	return assessment, nil
}
