// api/llm/prompt_test.go
package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aiimpact-uk/impact/api/model"
)

func TestBuildUser_CarriesFactsAndClauseGuard(t *testing.T) {
	p := &model.ProjectProfile{
		Title:                 "Loan scoring model",
		ModelType:             "gradient boosting",
		ProcessesPersonalData: model.True,
	}
	hits := []model.SearchHit{
		{
			ClauseID: "ICO-Audit DPIA",
			Clause: model.PolicyClause{
				ID:        "ICO-Audit DPIA",
				Label:     "DPIA",
				Text:      "Carry out a DPIA for high risk processing.",
				Framework: "ICO",
			},
		},
		{
			ClauseID: "DSIT §3.2.3 Fairness",
			Clause: model.PolicyClause{
				ID:        "DSIT §3.2.3 Fairness",
				Label:     "Fairness",
				Text:      "Define fairness.",
				Framework: "DSIT",
			},
		},
	}

	prompt := BuildUser(p, hits)

	assert.Contains(t, prompt, "Loan scoring model")
	assert.Contains(t, prompt, "gradient boosting")
	assert.Contains(t, prompt, "ICO-Audit DPIA")
	assert.Contains(t, prompt, "Carry out a DPIA")
	// The id allow-list must name every retrieved clause.
	assert.Contains(t, prompt, "VALID_CLAUSE_IDS")
	assert.GreaterOrEqual(t, strings.Count(prompt, "ICO-Audit DPIA"), 2,
		"clause id appears in both the listing and the allow-list")
	assert.GreaterOrEqual(t, strings.Count(prompt, "DSIT §3.2.3 Fairness"), 2)
}

func TestBuildSystem_IsStable(t *testing.T) {
	assert.Equal(t, BuildSystem(), BuildSystem())
	assert.Contains(t, BuildSystem(), "red")
	assert.Contains(t, BuildSystem(), "amber")
}
