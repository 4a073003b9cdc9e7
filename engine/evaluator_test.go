// api/engine/evaluator_test.go
package engine

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiimpact-uk/impact/api/corpus"
	logger "github.com/aiimpact-uk/impact/api/logging"
	"github.com/aiimpact-uk/impact/api/model"
)

func TestMain(m *testing.M) {
	logger.InitLogger("../logging")
	defer logger.Sync()
	os.Exit(m.Run())
}

func loadStore(t *testing.T) *corpus.Store {
	t.Helper()
	store, err := corpus.LoadDefault()
	require.NoError(t, err)
	return store
}

func TestNew_EveryRuleCitesAKnownClause(t *testing.T) {
	store := loadStore(t)
	e, err := New(store)
	require.NoError(t, err)
	assert.Equal(t, store.Len(), e.Len())
	assert.Equal(t, store.Version(), e.CorpusVersion())
}

func TestNewEvaluator_RejectsUnknownClause(t *testing.T) {
	store := loadStore(t)
	_, err := newEvaluator(store, []rule{
		{
			name:   "ghost-rule",
			clause: "No Such Clause",
			eval:   func(p *model.ProjectProfile) *verdict { return nil },
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown clause")
}

func TestNewEvaluator_RejectsDuplicateRuleNames(t *testing.T) {
	store := loadStore(t)
	r := rule{
		name:   "twin",
		clause: "ICO-Audit Data-Minimisation",
		eval:   func(p *model.ProjectProfile) *verdict { return nil },
	}
	_, err := newEvaluator(store, []rule{r, r})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate rule name")
}

func TestEvaluate_IsDeterministic(t *testing.T) {
	e, err := New(loadStore(t))
	require.NoError(t, err)

	profile := &model.ProjectProfile{
		Title:                 "Churn predictor",
		ProcessesPersonalData: model.True,
		PrivacyTechniques:     []string{"pseudonymisation"},
		PenetrationTested:     model.False,
		RetrainingCadence:     "never",
	}

	first := e.Evaluate(profile)
	second := e.Evaluate(profile)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestEvaluate_UnknownIsNotPass(t *testing.T) {
	e, err := New(loadStore(t))
	require.NoError(t, err)

	// A profile that answered nothing beyond the title must not come back
	// clean: every mandated-control rule reports the same amber wording.
	flags := e.Evaluate(&model.ProjectProfile{Title: "Silent project"})
	require.NotEmpty(t, flags)

	ambers := 0
	for _, f := range flags {
		assert.NotEqual(t, model.SeverityGreen, f.Severity,
			"rule %s passed without evidence", f.ID)
		if f.Reason == reasonInsufficient {
			ambers++
			assert.Equal(t, model.SeverityAmber, f.Severity)
		}
	}
	assert.Greater(t, ambers, 0)
}

func TestEvaluate_TriStateDataMinimisation(t *testing.T) {
	e, err := New(loadStore(t))
	require.NoError(t, err)

	find := func(flags []model.Flag, id string) *model.Flag {
		for i := range flags {
			if flags[i].ID == id {
				return &flags[i]
			}
		}
		return nil
	}

	// Personal data with no techniques is a violation.
	flags := e.Evaluate(&model.ProjectProfile{
		Title:                 "P",
		ProcessesPersonalData: model.True,
	})
	f := find(flags, "privacy-data-minimisation")
	require.NotNil(t, f)
	assert.Equal(t, model.SeverityRed, f.Severity)
	assert.Equal(t, "ICO-Audit Data-Minimisation", f.Clause)
	assert.Equal(t, "rule", f.Meta.Source)

	// The same processing with techniques declared passes.
	flags = e.Evaluate(&model.ProjectProfile{
		Title:                 "P",
		ProcessesPersonalData: model.True,
		PrivacyTechniques:     []string{"differential privacy"},
	})
	f = find(flags, "privacy-data-minimisation")
	require.NotNil(t, f)
	assert.Equal(t, model.SeverityGreen, f.Severity)

	// An unanswered question is neither.
	flags = e.Evaluate(&model.ProjectProfile{Title: "P"})
	f = find(flags, "privacy-data-minimisation")
	require.NotNil(t, f)
	assert.Equal(t, model.SeverityAmber, f.Severity)
	assert.Equal(t, reasonInsufficient, f.Reason)

	// An explicit no is out of scope for this rule.
	flags = e.Evaluate(&model.ProjectProfile{
		Title:                 "P",
		ProcessesPersonalData: model.False,
	})
	assert.Nil(t, find(flags, "privacy-data-minimisation"))
}

func TestEvaluate_PanickingRuleDropsOnlyItsOwnFlag(t *testing.T) {
	store := loadStore(t)
	rules := []rule{
		{
			name:   "before",
			clause: "ICO-Audit Data-Minimisation",
			eval: func(p *model.ProjectProfile) *verdict {
				return green("fine")
			},
		},
		{
			name:   "boom",
			clause: "DSIT §3.2.3 Fairness",
			eval: func(p *model.ProjectProfile) *verdict {
				panic("rule bug")
			},
		},
		{
			name:   "after",
			clause: "ICO-Audit Security-Outcomes",
			eval: func(p *model.ProjectProfile) *verdict {
				return amber("still running", "")
			},
		},
	}

	e, err := newEvaluator(store, rules)
	require.NoError(t, err)

	flags := e.Evaluate(&model.ProjectProfile{Title: "P"})
	require.Len(t, flags, 2)
	assert.Equal(t, "before", flags[0].ID)
	assert.Equal(t, "after", flags[1].ID)
}
