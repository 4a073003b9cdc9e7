// api/normalize/normalize_test.go
package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api_errors "github.com/aiimpact-uk/impact/api/errors"
	"github.com/aiimpact-uk/impact/api/model"
)

func TestParseBool(t *testing.T) {
	truthy := []any{true, "yes", "Yes", " Y ", "true", "1", "on"}
	for _, v := range truthy {
		assert.Equal(t, model.True, ParseBool(v), "%v should be true", v)
	}

	falsy := []any{false, "no", "N", "FALSE", "0", "off"}
	for _, v := range falsy {
		assert.Equal(t, model.False, ParseBool(v), "%v should be false", v)
	}

	// Anything outside the allow-lists is unknown, never false.
	unknown := []any{nil, "", "maybe", "yep", "nope", 3.14, []string{"yes"}}
	for _, v := range unknown {
		assert.Equal(t, model.Unknown, ParseBool(v), "%v should be unknown", v)
	}
}

func TestNormalize_MissingTitle(t *testing.T) {
	_, _, err := Normalize(map[string]any{"description": "no name"})
	assert.ErrorIs(t, err, api_errors.ErrMissingTitle)

	_, _, err = Normalize(map[string]any{"title": "   "})
	assert.ErrorIs(t, err, api_errors.ErrMissingTitle)
}

func TestNormalize_AliasesAndWizardCodes(t *testing.T) {
	p, degraded, err := Normalize(map[string]any{
		"P1":                    "Fraud model",
		"modelType":             "gradient boosting",
		"D1":                    "yes",
		"specialCategoryData":   false,
		"privacy_techniques":    "pseudonymisation, differential privacy",
		"X3":                    []any{"UI notice", "support contact"},
		"mttrTargetHours":       float64(12),
		"retraining_cadence":    "quarterly",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, degraded)

	assert.Equal(t, "Fraud model", p.Title)
	assert.Equal(t, "gradient boosting", p.ModelType)
	assert.Equal(t, model.True, p.ProcessesPersonalData)
	assert.Equal(t, model.False, p.SpecialCategoryData)
	assert.Equal(t, []string{"pseudonymisation", "differential privacy"}, p.PrivacyTechniques)
	assert.Equal(t, []string{"UI notice", "support contact"}, p.ExplainabilityChannels)
	require.NotNil(t, p.MTTRTargetHours)
	assert.Equal(t, 12.0, *p.MTTRTargetHours)
	assert.Equal(t, "quarterly", p.RetrainingCadence)
}

func TestNormalize_SnakeCaseWinsOverCode(t *testing.T) {
	p, _, err := Normalize(map[string]any{
		"title":   "Preferred",
		"P1":      "Ignored",
		"D1":      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Preferred", p.Title)
	assert.Equal(t, model.True, p.ProcessesPersonalData)
}

func TestNormalize_DegradedFieldsAreCountedNotFatal(t *testing.T) {
	p, degraded, err := Normalize(map[string]any{
		"title":                   "Degraded project",
		"processes_personal_data": "probably", // not in either allow-list
		"validation_score":        "not a number",
		"privacy_techniques":      map[string]any{"bad": "shape"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, degraded)

	// Each degraded field reads as unanswered, never as a yes or no.
	assert.Equal(t, model.Unknown, p.ProcessesPersonalData)
	assert.Nil(t, p.ValidationScore)
	assert.Nil(t, p.PrivacyTechniques)
}

func TestNormalize_UnansweredStaysUnknown(t *testing.T) {
	p, degraded, err := Normalize(map[string]any{"title": "Sparse"})
	require.NoError(t, err)
	assert.Equal(t, 0, degraded)

	assert.Equal(t, model.Unknown, p.ProcessesPersonalData)
	assert.Equal(t, model.Unknown, p.PenetrationTested)
	assert.Equal(t, model.Unknown, p.ModelCardsPublished)
	assert.Nil(t, p.MTTRTargetHours)
	assert.Nil(t, p.ValidationScore)
	assert.Empty(t, p.DataTypes)
}

func TestNormalize_ExplicitNullIsUnknown(t *testing.T) {
	p, degraded, err := Normalize(map[string]any{
		"title":                 "Nulls",
		"model_cards_published": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, degraded)
	assert.Equal(t, model.Unknown, p.ModelCardsPublished)
}

func TestNormalize_ExtrasPreserved(t *testing.T) {
	p, _, err := Normalize(map[string]any{
		"title":        "With extras",
		"custom_field": "kept",
		"Z9":           42.0,
	})
	require.NoError(t, err)
	require.NotNil(t, p.Extras)
	assert.Equal(t, "kept", p.Extras["custom_field"])
	assert.Equal(t, 42.0, p.Extras["Z9"])
	assert.NotContains(t, p.Extras, "title")
}

func TestNormalize_NumericBools(t *testing.T) {
	p, degraded, err := Normalize(map[string]any{
		"title":                  "Numeric",
		"penetration_tested":     float64(1),
		"pre_deployment_testing": float64(0),
		"community_reviews":      float64(2),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, degraded)
	assert.Equal(t, model.True, p.PenetrationTested)
	assert.Equal(t, model.False, p.PreDeploymentTesting)
	assert.Equal(t, model.Unknown, p.CommunityReviews)
}
