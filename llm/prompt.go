// api/llm/prompt.go
package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aiimpact-uk/impact/api/model"
)

const severityGuidance = `Calibrate consistently:
- "red" = legal/critical gap or high residual risk
- "amber" = material risk that needs mitigation
- "green" = aligned or low residual risk
When possible, include a short evidence snippet (quote) from the clause or project facts.
Return ONLY valid JSON that matches the provided schema.`

// BuildSystem is the assessor persona used for every drafting call.
func BuildSystem() string {
	return "You are an AI governance assessor. Convert UK policy clauses (DSIT, ICO, ISO/IEC 42001) " +
		"into actionable checks with conservative judgements. Output strict JSON only.\n\n" +
		severityGuidance
}

// BuildUser renders the project facts plus the retrieved candidate clauses.
// The VALID_CLAUSE_IDS list constrains which clause ids the model may cite;
// flags citing anything outside it are dropped by the caller.
func BuildUser(p *model.ProjectProfile, hits []model.SearchHit) string {
	var clauses strings.Builder
	idList := make([]string, 0, len(hits))
	for _, h := range hits {
		c := h.Clause
		idList = append(idList, c.ID)
		fmt.Fprintf(&clauses, "- id: %s\n  label: %s\n  framework: %s\n  text: %s\n",
			c.ID, c.Label, c.Framework, c.Text)
	}

	return fmt.Sprintf(`Project:
- title: %s
- description: %s
- model_type: %s
- deployment_env: %s
- data_types: %s
- privacy: processes_personal_data=%s, special_category_data=%s
- explainability_tooling: %s
- interpretability_rating: %s
- fairness_definition: %s
- accountable_owner: %s
- model_cards_published: %s
- safety: harms=%s, mitigations=%s, drift_detection=%s, retraining_cadence=%s, penetration_tested=%s

Candidate policy clauses (DSIT, ICO, ISO):
%s
VALID_CLAUSE_IDS = %s

TASK:
1) Use only the clauses above to evaluate the project.
2) The "clause" field for EACH flag MUST be one of VALID_CLAUSE_IDS (do not invent new IDs).
3) Produce ONLY this JSON object:
   {
     "flags": [
       {
         "id": "<clause id>",
         "clause": "<clause id (must be in VALID_CLAUSE_IDS)>",
         "severity": "red" | "amber" | "green",
         "reason": "<one-sentence 'because' explanation referencing project facts>",
         "mitigation": "<concrete step or null>",
         "evidence": "<short quote/snippet or null>"
       }
     ]
   }
4) Be conservative: choose "green" only when clearly compliant; use "amber" for partial/uncertain; "red" for clear gaps.
5) Return just the JSON object; no extra text.`,
		strings.TrimSpace(p.Title),
		strings.TrimSpace(p.Description),
		p.ModelType,
		p.DeploymentEnv,
		joinList(p.DataTypes),
		p.ProcessesPersonalData, p.SpecialCategoryData,
		p.ExplainabilityTooling,
		p.InterpretabilityRating,
		joinList(p.FairnessDefinition),
		p.AccountableOwner,
		p.ModelCardsPublished,
		joinList(p.CredibleHarms), joinList(p.SafetyMitigations),
		p.DriftDetection, p.RetrainingCadence, p.PenetrationTested,
		clauses.String(),
		jsonIDs(idList))
}

func joinList(vals []string) string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, ", ")
}

func jsonIDs(ids []string) string {
	b, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(b)
}
