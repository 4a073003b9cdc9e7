// api/normalize/normalize.go
package normalize

import (
	"math"
	"strconv"
	"strings"

	api_errors "github.com/aiimpact-uk/impact/api/errors"
	"github.com/aiimpact-uk/impact/api/model"
)

// fieldKind drives how a raw answer is coerced. Only fields the wizard asks
// as yes/no questions are boolean-typed; everything else keeps absence as
// absence rather than inventing a false.
type fieldKind int

const (
	kindText fieldKind = iota
	kindBool
	kindList
	kindNumber
)

// fieldSpec maps one logical profile field onto the keys callers may use for
// it. The wizard sends question codes (P5, D1, ...), older clients send
// camelCase, the documented API uses snake_case. First present key wins.
type fieldSpec struct {
	kind    fieldKind
	aliases []string
	text    func(p *model.ProjectProfile, s string)
	boolean func(p *model.ProjectProfile, t model.TriBool)
	list    func(p *model.ProjectProfile, l []string)
	number  func(p *model.ProjectProfile, n *float64)
}

func text(aliases []string, assign func(p *model.ProjectProfile, s string)) fieldSpec {
	return fieldSpec{kind: kindText, aliases: aliases, text: assign}
}

func boolean(aliases []string, assign func(p *model.ProjectProfile, t model.TriBool)) fieldSpec {
	return fieldSpec{kind: kindBool, aliases: aliases, boolean: assign}
}

func list(aliases []string, assign func(p *model.ProjectProfile, l []string)) fieldSpec {
	return fieldSpec{kind: kindList, aliases: aliases, list: assign}
}

func number(aliases []string, assign func(p *model.ProjectProfile, n *float64)) fieldSpec {
	return fieldSpec{kind: kindNumber, aliases: aliases, number: assign}
}

var fieldTable = []fieldSpec{
	text([]string{"title", "Title", "P1"}, func(p *model.ProjectProfile, s string) { p.Title = s }),
	text([]string{"description", "Description", "P2"}, func(p *model.ProjectProfile, s string) { p.Description = s }),
	list([]string{"data_types", "dataTypes", "P3"}, func(p *model.ProjectProfile, l []string) { p.DataTypes = l }),
	text([]string{"model_type", "modelType", "P5"}, func(p *model.ProjectProfile, s string) { p.ModelType = s }),
	text([]string{"deployment_env", "deploymentEnv", "P6"}, func(p *model.ProjectProfile, s string) { p.DeploymentEnv = s }),

	boolean([]string{"processes_personal_data", "processesPersonalData", "D1"}, func(p *model.ProjectProfile, t model.TriBool) { p.ProcessesPersonalData = t }),
	boolean([]string{"special_category_data", "specialCategoryData", "D2"}, func(p *model.ProjectProfile, t model.TriBool) { p.SpecialCategoryData = t }),
	list([]string{"privacy_techniques", "privacyTechniques", "D3"}, func(p *model.ProjectProfile, l []string) { p.PrivacyTechniques = l }),
	boolean([]string{"retention_defined", "retentionDefined", "D4"}, func(p *model.ProjectProfile, t model.TriBool) { p.RetentionDefined = t }),
	boolean([]string{"lineage_doc_present", "lineageDocPresent", "D5"}, func(p *model.ProjectProfile, t model.TriBool) { p.LineageDocPresent = t }),
	boolean([]string{"data_quality_checks", "dataQualityChecks", "D6"}, func(p *model.ProjectProfile, t model.TriBool) { p.DataQualityChecks = t }),

	text([]string{"explainability_tooling", "explainabilityTooling", "X1"}, func(p *model.ProjectProfile, s string) { p.ExplainabilityTooling = s }),
	text([]string{"interpretability_rating", "interpretabilityRating", "X2"}, func(p *model.ProjectProfile, s string) { p.InterpretabilityRating = s }),
	list([]string{"explainability_channels", "explainabilityChannels", "X3"}, func(p *model.ProjectProfile, l []string) { p.ExplainabilityChannels = l }),
	boolean([]string{"model_cards_published", "modelCardsPublished", "T1"}, func(p *model.ProjectProfile, t model.TriBool) { p.ModelCardsPublished = t }),
	list([]string{"documentation_consumers", "documentationConsumers", "T2"}, func(p *model.ProjectProfile, l []string) { p.DocumentationConsumers = l }),
	boolean([]string{"outputs_exposed_to_end_users", "outputsExposedToEndUsers", "T3"}, func(p *model.ProjectProfile, t model.TriBool) { p.OutputsExposedToUsers = t }),
	boolean([]string{"output_label_includes_probabilistic", "outputLabelIncludesProbabilistic", "T4"}, func(p *model.ProjectProfile, t model.TriBool) { p.OutputLabelProbabilistic = t }),

	list([]string{"fairness_definition", "fairnessDefinition", "F1"}, func(p *model.ProjectProfile, l []string) { p.FairnessDefinition = l }),
	boolean([]string{"community_reviews", "communityReviews", "F2"}, func(p *model.ProjectProfile, t model.TriBool) { p.CommunityReviews = t }),
	text([]string{"accountable_owner", "accountableOwner", "A1"}, func(p *model.ProjectProfile, s string) { p.AccountableOwner = s }),
	text([]string{"escalation_route", "escalationRoute", "A2"}, func(p *model.ProjectProfile, s string) { p.EscalationRoute = s }),

	list([]string{"credible_harms", "credibleHarms", "S1"}, func(p *model.ProjectProfile, l []string) { p.CredibleHarms = l }),
	list([]string{"safety_mitigations", "safetyMitigations", "S2"}, func(p *model.ProjectProfile, l []string) { p.SafetyMitigations = l }),
	boolean([]string{"penetration_tested", "penetrationTested", "S3"}, func(p *model.ProjectProfile, t model.TriBool) { p.PenetrationTested = t }),
	boolean([]string{"pre_deployment_testing", "preDeploymentTesting", "S4"}, func(p *model.ProjectProfile, t model.TriBool) { p.PreDeploymentTesting = t }),
	text([]string{"drift_detection", "driftDetection", "O1"}, func(p *model.ProjectProfile, s string) { p.DriftDetection = s }),
	text([]string{"retraining_cadence", "retrainingCadence", "O2"}, func(p *model.ProjectProfile, s string) { p.RetrainingCadence = s }),
	number([]string{"mttr_target_hours", "mttrTargetHours", "O3"}, func(p *model.ProjectProfile, n *float64) { p.MTTRTargetHours = n }),

	boolean([]string{"domain_threshold_met", "domainThresholdMet", "M1"}, func(p *model.ProjectProfile, t model.TriBool) { p.DomainThresholdMet = t }),
	number([]string{"validation_score", "validationScore", "M2"}, func(p *model.ProjectProfile, n *float64) { p.ValidationScore = n }),
	boolean([]string{"robustness_above_baseline", "robustnessAboveBaseline", "M3"}, func(p *model.ProjectProfile, t model.TriBool) { p.RobustnessAboveBaseline = t }),
	boolean([]string{"generative_risk_above_baseline", "generativeRiskAboveBaseline", "G1"}, func(p *model.ProjectProfile, t model.TriBool) { p.GenerativeRiskAboveBaseline = t }),
	text([]string{"sustainability_estimate", "sustainabilityEstimate", "E1"}, func(p *model.ProjectProfile, s string) { p.SustainabilityEstimate = s }),
}

var truthyStrings = map[string]bool{
	"yes": true, "y": true, "true": true, "1": true, "on": true,
}

var falsyStrings = map[string]bool{
	"no": true, "n": true, "false": true, "0": true, "off": true,
}

// ParseBool is the single truthy-string coercion for the whole service.
// Anything outside the two allow-lists is Unknown, never false.
func ParseBool(v any) model.TriBool {
	switch x := v.(type) {
	case nil:
		return model.Unknown
	case bool:
		if x {
			return model.True
		}
		return model.False
	case string:
		s := strings.ToLower(strings.TrimSpace(x))
		if truthyStrings[s] {
			return model.True
		}
		if falsyStrings[s] {
			return model.False
		}
		return model.Unknown
	default:
		return model.Unknown
	}
}

// Normalize converts raw wizard answers into a typed profile. It never fails
// on a malformed field: each one degrades to unknown and is counted. The only
// hard error is a missing title, because everything downstream displays the
// project by name.
func Normalize(raw map[string]any) (*model.ProjectProfile, int, error) {
	p := &model.ProjectProfile{}
	degraded := 0
	consumed := map[string]bool{}

	for _, spec := range fieldTable {
		v, key, present := resolve(raw, spec.aliases)
		if present {
			consumed[key] = true
		}

		switch spec.kind {
		case kindText:
			s, bad := coerceString(v)
			if bad {
				degraded++
			}
			spec.text(p, s)
		case kindBool:
			t, bad := coerceBool(v)
			if bad {
				degraded++
			}
			spec.boolean(p, t)
		case kindList:
			l, bad := coerceList(v)
			if bad {
				degraded++
			}
			spec.list(p, l)
		case kindNumber:
			n, bad := coerceNumber(v)
			if bad {
				degraded++
			}
			spec.number(p, n)
		}
	}

	if strings.TrimSpace(p.Title) == "" {
		return nil, degraded, api_errors.ErrMissingTitle
	}

	// Unrecognized keys are never dropped: rules added later may read them.
	for k, v := range raw {
		if consumed[k] {
			continue
		}
		if p.Extras == nil {
			p.Extras = map[string]any{}
		}
		p.Extras[k] = v
	}

	return p, degraded, nil
}

func resolve(raw map[string]any, aliases []string) (any, string, bool) {
	for _, a := range aliases {
		if v, ok := raw[a]; ok {
			return v, a, true
		}
	}
	return nil, "", false
}

func coerceString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(x), false
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), false
	case bool:
		return strconv.FormatBool(x), false
	default:
		return "", true
	}
}

func coerceBool(v any) (model.TriBool, bool) {
	switch x := v.(type) {
	case nil, bool:
		return ParseBool(v), false
	case string:
		t := ParseBool(x)
		if !t.Known() && strings.TrimSpace(x) != "" {
			// A non-empty string matching neither allow-list is a degraded
			// answer, not an unanswered question.
			return model.Unknown, true
		}
		return t, false
	case float64:
		if x == 1 {
			return model.True, false
		}
		if x == 0 {
			return model.False, false
		}
		return model.Unknown, true
	default:
		return model.Unknown, true
	}
}

var listSeparators = func(r rune) bool {
	return r == ',' || r == ';' || r == '\n'
}

func coerceList(v any) ([]string, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case []string:
		return trimList(x), false
	case []any:
		out := make([]string, 0, len(x))
		degraded := false
		for _, item := range x {
			s, bad := coerceString(item)
			if bad {
				degraded = true
				continue
			}
			if s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			out = nil
		}
		return out, degraded
	case string:
		return trimList(strings.FieldsFunc(x, listSeparators)), false
	default:
		return nil, true
	}
}

func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func coerceNumber(v any) (*float64, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, false
		}
		return &x, false
	case int:
		f := float64(x)
		return &f, false
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, true
		}
		return &f, false
	default:
		return nil, true
	}
}
