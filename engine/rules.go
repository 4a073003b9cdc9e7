// api/engine/rules.go
package engine

import (
	"fmt"
	"strings"

	"github.com/aiimpact-uk/impact/api/model"
)

const evidenceMaxRunes = 200

// excerpt bounds free-text evidence carried on a flag.
func excerpt(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= evidenceMaxRunes {
		return s
	}
	return string(runes[:evidenceMaxRunes]) + "…"
}

// realEntries drops blank entries and explicit "none" answers, which the
// wizard emits when a user actively selects nothing.
func realEntries(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		t := strings.TrimSpace(s)
		if t == "" || strings.EqualFold(t, "none") {
			continue
		}
		out = append(out, t)
	}
	return out
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// generativeModel reports whether the declared model type is a generative
// system, which widens the scope of the GenAI risk rule.
func generativeModel(modelType string) bool {
	t := strings.ToLower(modelType)
	for _, kw := range []string{"generative", "genai", "llm", "foundation", "diffusion"} {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

// ruleset is the full registry, grouped by risk dimension. Registration
// order is the output order of every evaluation; append new rules at the
// end of their group, never reorder.
func ruleset() []rule {
	return []rule{
		// ── privacy ────────────────────────────────────────────────────
		{
			name:   "privacy-data-minimisation",
			clause: "ICO-Audit Data-Minimisation",
			eval: func(p *model.ProjectProfile) *verdict {
				switch {
				case p.ProcessesPersonalData.IsTrue():
					if len(realEntries(p.PrivacyTechniques)) == 0 {
						return red(
							"personal data is processed but no privacy techniques are declared",
							"Apply and record at least one privacy technique (e.g. pseudonymisation, differential privacy) or document why none is proportionate.")
					}
					return green("personal data processing is paired with declared privacy techniques")
				case !p.ProcessesPersonalData.Known():
					return insufficient("Confirm whether the system processes personal data.")
				default:
					return nil
				}
			},
		},
		{
			name:   "privacy-dpia",
			clause: "ICO-Audit DPIA",
			eval: func(p *model.ProjectProfile) *verdict {
				switch {
				case p.SpecialCategoryData.IsTrue():
					return amber(
						"special category data is processed; a DPIA must cover this processing",
						"Complete (or link) a Data Protection Impact Assessment covering the special category data.")
				case !p.SpecialCategoryData.Known() && p.ProcessesPersonalData.IsTrue():
					return insufficient("Confirm whether any special category data is involved.")
				case p.SpecialCategoryData.IsFalse():
					return green("no special category data is processed")
				default:
					return nil
				}
			},
		},
		{
			name:   "privacy-retention",
			clause: "ISO 42001 §8.2 Data-Management",
			eval: func(p *model.ProjectProfile) *verdict {
				switch {
				case p.RetentionDefined.IsFalse():
					return red(
						"no data retention period is defined",
						"Define and document retention and deletion periods for all training and inference data.")
				case p.RetentionDefined.IsTrue():
					return green("data retention periods are defined")
				case p.ProcessesPersonalData.IsTrue():
					return insufficient("Record whether retention periods are defined for the data processed.")
				default:
					return nil
				}
			},
		},
		{
			name:   "privacy-data-provenance",
			clause: "ISO 42001 AnnexA A.7.2 Data-Provenance",
			eval: func(p *model.ProjectProfile) *verdict {
				switch {
				case p.LineageDocPresent.IsFalse():
					return amber(
						"data lineage is not documented",
						"Document the provenance and lineage of every training data source.")
				case p.LineageDocPresent.IsTrue():
					return green("data lineage is documented")
				default:
					return insufficient("Confirm whether data lineage documentation exists.")
				}
			},
		},

		// ── accuracy ───────────────────────────────────────────────────
		{
			name:   "accuracy-data-quality",
			clause: "ISO 42001 AnnexA A.6.2 Data-Quality",
			eval: func(p *model.ProjectProfile) *verdict {
				switch {
				case p.DataQualityChecks.IsFalse():
					return red(
						"no data quality checks are in place",
						"Introduce automated quality checks over training and input data.")
				case p.DataQualityChecks.IsTrue():
					return green("data quality checks are in place")
				default:
					return insufficient("Record whether data quality checks run over the training data.")
				}
			},
		},
		{
			name:   "accuracy-validation-threshold",
			clause: "ISO 42001 §8.3 Design-Development",
			eval: func(p *model.ProjectProfile) *verdict {
				switch {
				case p.DomainThresholdMet.IsFalse():
					v := red(
						"validation performance does not meet the domain threshold",
						"Improve the model or document an accepted deviation before deployment.")
					if p.ValidationScore != nil {
						v.evidence = fmt.Sprintf("validation_score=%g", *p.ValidationScore)
					}
					return v
				case p.DomainThresholdMet.IsTrue():
					return green("validation performance meets the domain threshold")
				default:
					return insufficient("State whether validation performance meets the agreed domain threshold.")
				}
			},
		},
		{
			name:   "accuracy-pre-deployment-testing",
			clause: "ICO-Audit Pre-Deployment-Testing",
			eval: func(p *model.ProjectProfile) *verdict {
				switch {
				case p.PreDeploymentTesting.IsFalse():
					return red(
						"no pre-deployment testing is performed",
						"Run and record structured pre-deployment tests against representative data.")
				case p.PreDeploymentTesting.IsTrue():
					return green("pre-deployment testing is performed")
				default:
					return insufficient("Confirm whether structured pre-deployment testing takes place.")
				}
			},
		},

		// ── robustness ─────────────────────────────────────────────────
		{
			name:   "robustness-baseline",
			clause: "ISO 42001 AnnexA A.6.5 Robustness-Accuracy",
			eval: func(p *model.ProjectProfile) *verdict {
				switch {
				case p.RobustnessAboveBaseline.IsFalse():
					return red(
						"robustness is below the agreed baseline",
						"Harden the model against perturbed and adversarial inputs until it clears the baseline.")
				case p.RobustnessAboveBaseline.IsTrue():
					return green("robustness is at or above the agreed baseline")
				default:
					return insufficient("Measure robustness against the agreed baseline and record the result.")
				}
			},
		},

		// ── security ───────────────────────────────────────────────────
		{
			name:   "security-penetration-testing",
			clause: "ICO-Audit Security-Outcomes",
			eval: func(p *model.ProjectProfile) *verdict {
				switch {
				case p.PenetrationTested.IsFalse():
					return red(
						"no penetration or red-team testing has been performed",
						"Commission penetration testing covering the model-serving surface before go-live.")
				case p.PenetrationTested.IsTrue():
					return green("penetration testing has been performed")
				default:
					return insufficient("Confirm whether penetration or red-team testing has taken place.")
				}
			},
		},

		// ── bias ───────────────────────────────────────────────────────
		{
			name:   "bias-fairness-definition",
			clause: "DSIT §3.2.3 Fairness",
			eval: func(p *model.ProjectProfile) *verdict {
				if len(realEntries(p.FairnessDefinition)) == 0 {
					return amber(
						"no fairness definition has been selected for the system",
						"Choose and document the fairness definition(s) the system is evaluated against.")
				}
				return green("a fairness definition is documented")
			},
		},
		{
			name:   "bias-community-review",
			clause: "DSIT §3.2.4 Community-Engagement",
			eval: func(p *model.ProjectProfile) *verdict {
				if !p.ProcessesPersonalData.IsTrue() {
					return nil
				}
				switch {
				case p.CommunityReviews.IsFalse():
					return amber(
						"personal data is processed but no affected-community reviews are held",
						"Engage affected groups or their representatives in reviewing the system's impact.")
				case p.CommunityReviews.IsTrue():
					return green("affected communities are engaged in review")
				default:
					return insufficient("Record whether affected communities review the system.")
				}
			},
		},

		// ── explainability ─────────────────────────────────────────────
		{
			name:   "explainability-tooling",
			clause: "ISO 42001 AnnexA A.6.8 Explainability",
			eval: func(p *model.ProjectProfile) *verdict {
				if blank(p.ExplainabilityTooling) {
					if p.OutputsExposedToUsers.IsTrue() {
						return red(
							"outputs reach end users but no explainability tooling is in place",
							"Adopt explainability tooling (e.g. SHAP, LIME, counterfactuals) appropriate to the model class.")
					}
					return amber(
						"no explainability tooling is declared",
						"Adopt explainability tooling appropriate to the model class.")
				}
				if blank(p.InterpretabilityRating) {
					v := amber(
						"explainability tooling exists but interpretability has not been rated",
						"Rate the system's interpretability and record the rating.")
					v.evidence = excerpt(p.ExplainabilityTooling)
					return v
				}
				v := green("explainability tooling is in place and interpretability is rated")
				v.evidence = excerpt(p.ExplainabilityTooling)
				return v
			},
		},
		{
			name:   "explainability-channels",
			clause: "ICO-Audit Meaningful-Explanation",
			eval: func(p *model.ProjectProfile) *verdict {
				if len(realEntries(p.ExplainabilityChannels)) == 0 {
					if p.OutputsExposedToUsers.IsTrue() {
						return red(
							"end users have no channel through which decisions are explained",
							"Provide at least one explanation surface (UI notice, report, human contact) for affected individuals.")
					}
					return amber(
						"no explanation channel is declared for stakeholders",
						"Provide at least one explanation surface for affected stakeholders.")
				}
				return green("explanation channels exist for affected stakeholders")
			},
		},
		{
			name:   "transparency-model-cards",
			clause: "DSIT §3.2.3 Transparency",
			eval: func(p *model.ProjectProfile) *verdict {
				switch {
				case p.ModelCardsPublished.IsFalse():
					return amber(
						"model cards or equivalent system documentation are not published",
						"Publish model cards describing intended use, limitations and evaluation results.")
				case p.ModelCardsPublished.IsTrue():
					return green("model cards are published")
				default:
					return insufficient("Confirm whether model cards or equivalent documentation are published.")
				}
			},
		},
		{
			name:   "transparency-contestability",
			clause: "DSIT §3.2.5 Contestability-Redress",
			eval: func(p *model.ProjectProfile) *verdict {
				if !p.OutputsExposedToUsers.IsTrue() {
					if !p.OutputsExposedToUsers.Known() {
						return insufficient("Confirm whether system outputs reach end users.")
					}
					return nil
				}
				if blank(p.EscalationRoute) {
					return amber(
						"users affected by outputs have no route to contest or escalate decisions",
						"Define and publish an escalation route for contesting decisions.")
				}
				return green("an escalation route exists for contesting decisions")
			},
		},
		{
			name:   "transparency-inference-labeling",
			clause: "ICO-Audit Inference-Labeling",
			eval: func(p *model.ProjectProfile) *verdict {
				if !p.OutputsExposedToUsers.IsTrue() {
					return nil
				}
				switch {
				case p.OutputLabelProbabilistic.IsFalse():
					return amber(
						"user-facing outputs are not labelled as statistically informed guesses",
						"Label user-facing outputs as probabilistic inferences, not facts.")
				case p.OutputLabelProbabilistic.IsTrue():
					return green("user-facing outputs are labelled as probabilistic")
				default:
					return insufficient("Confirm whether user-facing outputs are labelled as probabilistic inferences.")
				}
			},
		},

		// ── reliability ────────────────────────────────────────────────
		{
			name:   "reliability-accountable-owner",
			clause: "DSIT §3.2.3 Accountability",
			eval: func(p *model.ProjectProfile) *verdict {
				if blank(p.AccountableOwner) {
					return amber(
						"no accountable owner is named for the system",
						"Name a senior owner accountable for the system across its lifecycle.")
				}
				return green("an accountable owner is named")
			},
		},
		{
			name:   "reliability-safety-mitigations",
			clause: "DSIT §3.2.3 Safety",
			eval: func(p *model.ProjectProfile) *verdict {
				harms := realEntries(p.CredibleHarms)
				mitigations := realEntries(p.SafetyMitigations)
				switch {
				case len(harms) > 0 && len(mitigations) == 0:
					return red(
						"credible harms are enumerated but no mitigations are recorded",
						"Record a mitigation for every enumerated harm, or an explicit acceptance decision.")
				case len(harms) == 0 && len(mitigations) == 0:
					return amber(
						"no harms analysis is recorded for the system",
						"Enumerate credible harms and their mitigations.")
				default:
					return green("credible harms are enumerated with mitigations")
				}
			},
		},
		{
			name:   "reliability-drift-detection",
			clause: "ISO 42001 §9.1 Monitoring",
			eval: func(p *model.ProjectProfile) *verdict {
				if blank(p.DriftDetection) {
					return amber(
						"no drift detection strategy is declared",
						"Monitor input and output distributions for drift in production.")
				}
				return green("a drift detection strategy is declared")
			},
		},
		{
			name:   "reliability-retraining-cadence",
			clause: "ISO 42001 §10.1 Improvement",
			eval: func(p *model.ProjectProfile) *verdict {
				cadence := strings.ToLower(strings.TrimSpace(p.RetrainingCadence))
				switch cadence {
				case "":
					return amber(
						"no retraining cadence is recorded",
						"Decide and record how often the model is retrained or reviewed.")
				case "never", "none", "ad-hoc", "ad hoc":
					return amber(
						fmt.Sprintf("retraining cadence %q is too infrequent for continual improvement", p.RetrainingCadence),
						"Adopt a scheduled retraining or review cadence.")
				default:
					return green("a retraining cadence is in place")
				}
			},
		},

		// ── resilience ─────────────────────────────────────────────────
		{
			name:   "resilience-incident-response",
			clause: "ICO-Audit Incident-Management",
			eval: func(p *model.ProjectProfile) *verdict {
				if p.MTTRTargetHours == nil {
					return insufficient("Set a mean-time-to-recovery target for model incidents.")
				}
				if *p.MTTRTargetHours > 24 {
					v := amber(
						"the recovery target for model incidents exceeds one day",
						"Bring the MTTR target within 24 hours or document the accepted risk.")
					v.evidence = fmt.Sprintf("mttr_target_hours=%g", *p.MTTRTargetHours)
					return v
				}
				return green("an incident recovery target within one day is set")
			},
		},

		// ── sustainability ─────────────────────────────────────────────
		{
			name:   "sustainability-estimate",
			clause: "ISO 42001 AnnexA A.2.4 Sustainability",
			eval: func(p *model.ProjectProfile) *verdict {
				if blank(p.SustainabilityEstimate) {
					return amber(
						"no estimate of environmental impact is recorded",
						"Estimate training and serving energy use and record it.")
				}
				v := green("an environmental impact estimate is recorded")
				v.evidence = excerpt(p.SustainabilityEstimate)
				return v
			},
		},

		// ── generative AI risk ─────────────────────────────────────────
		{
			name:   "genai-risk-baseline",
			clause: "DSIT §3.2.1 GenAI-Risk",
			eval: func(p *model.ProjectProfile) *verdict {
				switch {
				case p.GenerativeRiskAboveBaseline.IsTrue():
					return red(
						"generative AI risk is assessed as above the acceptable baseline",
						"Reduce generative risk (guardrails, filtering, human review) before deployment.")
				case p.GenerativeRiskAboveBaseline.IsFalse():
					return green("generative AI risk is within the acceptable baseline")
				case generativeModel(p.ModelType):
					return insufficient("Assess generative output risk against the baseline for this model class.")
				default:
					return nil
				}
			},
		},
	}
}
