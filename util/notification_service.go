// api/util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/aiimpact-uk/impact/api/logging"
	"github.com/aiimpact-uk/impact/api/model"
)

type NotificationService struct {
	// Dependencies such as a message queue client would live here
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyProjectChange(ctx context.Context, changeType string, project model.Project) error {
	// In a real implementation this would publish to a queue or call an
	// external notification service
	switch changeType {
	case "created":
		logger.Info("NOTIFICATION: New project created",
			zap.String("projectID", project.ID),
			zap.String("title", project.Title))
	case "updated":
		logger.Info("NOTIFICATION: Project updated",
			zap.String("projectID", project.ID),
			zap.String("title", project.Title))
	case "deleted":
		logger.Info("NOTIFICATION: Project deleted",
			zap.String("projectID", project.ID))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}

	return nil
}

// NotifyHighRiskAssessment alerts when an assessment comes back "High".
func (n *NotificationService) NotifyHighRiskAssessment(ctx context.Context, assessment model.Assessment) error {
	logger.Warn("NOTIFICATION: High-risk assessment recorded",
		zap.String("assessmentID", assessment.ID),
		zap.String("projectID", assessment.ProjectID),
		zap.Int("redFlags", assessment.Summary.BySeverity[model.SeverityRed]))
	return nil
}
