// api/model/profile.go
package model

// ProjectProfile is the normalized, typed form of one set of wizard answers.
// Every field except Title is optional; absent answers stay Unknown (TriBool),
// empty (strings/lists) or nil (numbers) rather than defaulting to a value
// that could read as compliant.
type ProjectProfile struct {
	// Core
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	ModelType     string   `json:"model_type,omitempty"`
	DeploymentEnv string   `json:"deployment_env,omitempty"`
	DataTypes     []string `json:"data_types,omitempty"`

	// Privacy
	ProcessesPersonalData TriBool  `json:"processes_personal_data"`
	SpecialCategoryData   TriBool  `json:"special_category_data"`
	PrivacyTechniques     []string `json:"privacy_techniques,omitempty"`
	RetentionDefined      TriBool  `json:"retention_defined"`
	LineageDocPresent     TriBool  `json:"lineage_doc_present"`
	DataQualityChecks     TriBool  `json:"data_quality_checks"`

	// Explainability / transparency
	ExplainabilityTooling   string   `json:"explainability_tooling,omitempty"`
	InterpretabilityRating  string   `json:"interpretability_rating,omitempty"`
	ExplainabilityChannels  []string `json:"explainability_channels,omitempty"`
	ModelCardsPublished     TriBool  `json:"model_cards_published"`
	DocumentationConsumers  []string `json:"documentation_consumers,omitempty"`
	OutputsExposedToUsers   TriBool  `json:"outputs_exposed_to_end_users"`
	OutputLabelProbabilistic TriBool `json:"output_label_includes_probabilistic"`

	// Fairness / accountability
	FairnessDefinition []string `json:"fairness_definition,omitempty"`
	CommunityReviews   TriBool  `json:"community_reviews"`
	AccountableOwner   string   `json:"accountable_owner,omitempty"`
	EscalationRoute    string   `json:"escalation_route,omitempty"`

	// Safety & ops
	CredibleHarms        []string `json:"credible_harms,omitempty"`
	SafetyMitigations    []string `json:"safety_mitigations,omitempty"`
	DriftDetection       string   `json:"drift_detection,omitempty"`
	RetrainingCadence    string   `json:"retraining_cadence,omitempty"`
	PenetrationTested    TriBool  `json:"penetration_tested"`
	PreDeploymentTesting TriBool  `json:"pre_deployment_testing"`

	// Performance & risk posture
	DomainThresholdMet      TriBool  `json:"domain_threshold_met"`
	ValidationScore         *float64 `json:"validation_score,omitempty"`
	RobustnessAboveBaseline TriBool  `json:"robustness_above_baseline"`
	GenerativeRiskAboveBaseline TriBool `json:"generative_risk_above_baseline"`
	MTTRTargetHours         *float64 `json:"mttr_target_hours,omitempty"`
	SustainabilityEstimate  string   `json:"sustainability_estimate,omitempty"`

	// Unrecognized answer keys, preserved for forward-compatible rules.
	Extras map[string]any `json:"extras,omitempty"`
}
