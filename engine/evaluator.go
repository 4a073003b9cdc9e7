// api/engine/evaluator.go
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aiimpact-uk/impact/api/corpus"
	logger "github.com/aiimpact-uk/impact/api/logging"
	"github.com/aiimpact-uk/impact/api/model"
)

// reasonInsufficient is the shared wording for every rule whose required
// answer was never given. Unknown is neither a violation nor compliance.
const reasonInsufficient = "insufficient information to verify compliance"

// verdict is one rule's decision before it is joined with its clause. A nil
// verdict means the rule judged itself not applicable and emits nothing.
type verdict struct {
	severity   model.Severity
	reason     string
	mitigation string
	evidence   string
}

func red(reason, mitigation string) *verdict {
	return &verdict{severity: model.SeverityRed, reason: reason, mitigation: mitigation}
}

func amber(reason, mitigation string) *verdict {
	return &verdict{severity: model.SeverityAmber, reason: reason, mitigation: mitigation}
}

func green(reason string) *verdict {
	return &verdict{severity: model.SeverityGreen, reason: reason}
}

func insufficient(mitigation string) *verdict {
	return amber(reasonInsufficient, mitigation)
}

// rule binds one pure predicate to exactly one corpus clause. Rules never
// read each other's output and never mutate the profile.
type rule struct {
	name   string
	clause string
	eval   func(p *model.ProjectProfile) *verdict
}

// Evaluator runs the fixed rule set against a profile. It is safe for
// concurrent use: the corpus never mutates after load and rules are pure.
type Evaluator struct {
	store *corpus.Store
	rules []rule
}

// New cross-validates the rule set against the loaded corpus. A rule citing
// a clause the corpus does not carry is a registration bug and must surface
// at startup, never at request time.
func New(store *corpus.Store) (*Evaluator, error) {
	return newEvaluator(store, ruleset())
}

func newEvaluator(store *corpus.Store, rules []rule) (*Evaluator, error) {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if seen[r.name] {
			return nil, fmt.Errorf("duplicate rule name %q", r.name)
		}
		seen[r.name] = true
		if _, ok := store.Lookup(r.clause); !ok {
			return nil, fmt.Errorf("rule %q cites unknown clause %q", r.name, r.clause)
		}
	}
	return &Evaluator{store: store, rules: rules}, nil
}

// Len reports the number of registered rules.
func (e *Evaluator) Len() int { return len(e.rules) }

// CorpusVersion is the immutable version every evaluation from this
// evaluator is computed against.
func (e *Evaluator) CorpusVersion() string { return e.store.Version() }

// Evaluate runs every rule in registration order and returns the flags in
// that same order. Re-running on the same profile yields an identical
// sequence. A panicking rule drops only its own flag.
func (e *Evaluator) Evaluate(p *model.ProjectProfile) []model.Flag {
	flags := make([]model.Flag, 0, len(e.rules))
	for _, r := range e.rules {
		v := e.run(r, p)
		if v == nil {
			continue
		}
		c, _ := e.store.Lookup(r.clause)
		flags = append(flags, model.Flag{
			ID:         r.name,
			Clause:     c.ID,
			Severity:   v.severity,
			Reason:     v.reason,
			Mitigation: v.mitigation,
			Evidence:   v.evidence,
			Meta: model.FlagMeta{
				Label:     c.Label,
				Link:      c.Link,
				Framework: c.Framework,
				Document:  c.Document,
				Phase:     c.Phase,
				Dimension: c.Dimension,
				Source:    "rule",
			},
		})
	}
	return flags
}

func (e *Evaluator) run(r rule, p *model.ProjectProfile) (v *verdict) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Rule evaluation panicked",
				zap.String("rule", r.name),
				zap.String("clause", r.clause),
				zap.Any("panic", rec))
			v = nil
		}
	}()
	return r.eval(p)
}
