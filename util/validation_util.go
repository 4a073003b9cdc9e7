// api/util/validation_util.go

package util

import (
	"fmt"
	"strings"

	"github.com/aiimpact-uk/impact/api/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateProject(project model.Project) error {
	if strings.TrimSpace(project.Title) == "" {
		return fmt.Errorf("project title cannot be empty")
	}
	if len(project.Title) > 200 {
		return fmt.Errorf("project title cannot exceed 200 characters")
	}
	if len(project.Description) > 5000 {
		return fmt.Errorf("project description cannot exceed 5000 characters")
	}
	return nil
}

func (v *ValidationUtil) ValidateSearchQuery(q model.SearchQuery) error {
	if strings.TrimSpace(q.Q) == "" {
		return fmt.Errorf("search query cannot be empty")
	}
	if q.TopK < 0 || q.TopK > 100 {
		return fmt.Errorf("top_k must be between 0 and 100")
	}
	for _, fw := range q.Frameworks {
		switch strings.ToUpper(strings.TrimSpace(fw)) {
		case model.FrameworkDSIT, model.FrameworkICO, model.FrameworkISO:
		default:
			return fmt.Errorf("unknown framework %q", fw)
		}
	}
	return nil
}

func (v *ValidationUtil) ValidateAnswers(answers map[string]any) error {
	if len(answers) == 0 {
		return fmt.Errorf("answers cannot be empty")
	}
	return nil
}
