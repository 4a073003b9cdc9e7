// api/service/report_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	logger "github.com/aiimpact-uk/impact/api/logging"
	"github.com/aiimpact-uk/impact/api/model"
)

// IReportService renders a Markdown compliance report for a project's most
// recent assessment. Markdown is the export format; PDF conversion is left
// to the consumer.
type IReportService interface {
	GenerateReport(ctx context.Context, projectID string) (string, error)
	RenderMarkdown(project *model.Project, assessment *model.Assessment) string
}

type ReportService struct {
	projectSvc  IProjectService
	analysisSvc IAnalysisService
}

var _ IReportService = &ReportService{}

func NewReportService(projectSvc IProjectService, analysisSvc IAnalysisService) *ReportService {
	return &ReportService{
		projectSvc:  projectSvc,
		analysisSvc: analysisSvc,
	}
}

// GenerateReport renders the report for the project's latest assessment.
func (s *ReportService) GenerateReport(ctx context.Context, projectID string) (string, error) {
	project, err := s.projectSvc.GetProject(ctx, projectID)
	if err != nil {
		return "", err
	}

	assessments, err := s.analysisSvc.ListAssessments(ctx, projectID, 1, 0)
	if err != nil {
		return "", err
	}
	if len(assessments) == 0 {
		logger.Warn("No assessments recorded for project, rendering empty report", zap.String("projectID", projectID))
		return s.RenderMarkdown(project, nil), nil
	}

	return s.RenderMarkdown(project, assessments[0]), nil
}

// RenderMarkdown produces the report body: header, project facts, severity
// summary and one table row per flag.
func (s *ReportService) RenderMarkdown(project *model.Project, assessment *model.Assessment) string {
	now := time.Now().UTC().Format("2006-01-02T15:04:05") + "Z"

	var flags []model.Flag
	version := "—"
	if assessment != nil {
		flags = assessment.Flags
		version = assessment.CorpusVersion
	}

	reds, ambers, greens := 0, 0, 0
	for _, f := range flags {
		switch f.Severity {
		case model.SeverityRed:
			reds++
		case model.SeverityAmber:
			ambers++
		case model.SeverityGreen:
			greens++
		}
	}

	risk := "Low"
	switch {
	case reds > 0:
		risk = "High"
	case ambers >= 2:
		risk = "Medium"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# AI-Impact UK Report – %s\n", project.Title)
	fmt.Fprintf(&b, "_Generated: %s_  \n_Version: %s_\n\n", now, version)
	b.WriteString("## Project\n")
	fmt.Fprintf(&b, "**Description:** %s\n\n", orDash(project.Description))
	fmt.Fprintf(&b, "## Summary  \n**Risk:** %s  |  **Red:** %d  **Amber:** %d  **Green:** %d\n\n", risk, reds, ambers, greens)
	b.WriteString("## Flags\n")
	b.WriteString("| Severity | Clause | Reason | Mitigation |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, f := range flags {
		clause := f.Clause
		if f.Meta.Label != "" {
			clause = f.Meta.Label
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			strings.ToUpper(string(f.Severity)),
			escapeCell(clause),
			escapeCell(f.Reason),
			escapeCell(orDash(f.Mitigation)))
	}

	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

// escapeCell keeps free text from breaking the table layout.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
