// api/corpus/store.go
package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aiimpact-uk/impact/api/model"
)

// Store is the loaded policy-clause corpus. It is built once, validated, and
// never mutated afterwards, so it is safe for any number of concurrent
// readers. A corpus update ships as a new file and requires a restart; an
// in-flight evaluation can never observe a half-updated rule set.
type Store struct {
	clauses []model.PolicyClause
	byID    map[string]int
	byLabel map[string]int
	version string
}

var validFrameworks = map[string]bool{
	model.FrameworkDSIT: true,
	model.FrameworkICO:  true,
	model.FrameworkISO:  true,
}

var validPhases = map[string]bool{
	model.PhaseData:       true,
	model.PhaseModel:      true,
	model.PhaseDeployment: true,
}

var validDimensions = map[string]bool{
	model.DimensionAccuracy:       true,
	model.DimensionReliability:    true,
	model.DimensionRobustness:     true,
	model.DimensionSecurity:       true,
	model.DimensionResilience:     true,
	model.DimensionSustainability: true,
	model.DimensionGenAIRisk:      true,
	model.DimensionBias:           true,
	model.DimensionPrivacy:        true,
	model.DimensionExplainability: true,
}

// Load reads and validates a corpus file. Any malformed clause is a hard
// error: the service must not start serving evaluations against a corpus it
// cannot fully trust.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse builds a Store from raw corpus JSON. The corpus version is the first
// 12 hex chars of the sha256 of the raw bytes, so the same file always gets
// the same version stamp.
func Parse(raw []byte) (*Store, error) {
	var rows []model.PolicyClause
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse corpus JSON: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("corpus has no clauses")
	}

	store := &Store{
		clauses: rows,
		byID:    make(map[string]int, len(rows)),
		byLabel: make(map[string]int, len(rows)),
	}

	for i := range store.clauses {
		c := &store.clauses[i]
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, fmt.Errorf("clause %d: missing id", i)
		}
		if strings.TrimSpace(c.Text) == "" {
			return nil, fmt.Errorf("clause %q: missing text", c.ID)
		}
		if !validFrameworks[c.Framework] {
			return nil, fmt.Errorf("clause %q: unrecognized framework %q", c.ID, c.Framework)
		}
		if c.Phase == "" {
			c.Phase = inferPhase(*c)
		}
		if !validPhases[c.Phase] {
			return nil, fmt.Errorf("clause %q: unrecognized phase %q", c.ID, c.Phase)
		}
		if !validDimensions[c.Dimension] {
			return nil, fmt.Errorf("clause %q: unrecognized dimension %q", c.ID, c.Dimension)
		}

		key := strings.ToLower(id)
		if _, exists := store.byID[key]; exists {
			return nil, fmt.Errorf("duplicate clause id %q", c.ID)
		}
		store.byID[key] = i
		if label := strings.ToLower(strings.TrimSpace(c.Label)); label != "" {
			if _, exists := store.byLabel[label]; !exists {
				store.byLabel[label] = i
			}
		}
	}

	sum := sha256.Sum256(raw)
	store.version = hex.EncodeToString(sum[:])[:12]

	return store, nil
}

// Version is the corpus version stamp recorded on every assessment produced
// by this process.
func (s *Store) Version() string { return s.version }

// Clauses returns all clauses in file order.
func (s *Store) Clauses() []model.PolicyClause { return s.clauses }

// Len returns the number of clauses.
func (s *Store) Len() int { return len(s.clauses) }

// Lookup finds a clause by id, falling back to its label. Matching is
// case-insensitive on the trimmed value.
func (s *Store) Lookup(id string) (model.PolicyClause, bool) {
	key := strings.ToLower(strings.TrimSpace(id))
	if key == "" {
		return model.PolicyClause{}, false
	}
	if i, ok := s.byID[key]; ok {
		return s.clauses[i], true
	}
	if i, ok := s.byLabel[key]; ok {
		return s.clauses[i], true
	}
	return model.PolicyClause{}, false
}

var phaseKeywords = []struct {
	phase string
	words []string
}{
	{model.PhaseData, []string{"data", "privacy", "personal", "retention", "consent", "provenance", "access control", "collection", "minimisation"}},
	{model.PhaseModel, []string{"fairness", "bias", "explain", "interpret", "transparen", "accuracy", "robust", "testing", "validation", "documentation", "model card"}},
	{model.PhaseDeployment, []string{"monitor", "incident", "security", "ops", "operation", "post", "drift", "change", "audit", "retraining", "deployment"}},
}

// inferPhase buckets a clause without an explicit phase by keyword, then by
// framework as a last resort.
func inferPhase(c model.PolicyClause) string {
	txt := strings.ToLower(c.Category + " " + c.Label + " " + c.Text)
	for _, bucket := range phaseKeywords {
		for _, w := range bucket.words {
			if strings.Contains(txt, w) {
				return bucket.phase
			}
		}
	}
	switch c.Framework {
	case model.FrameworkICO:
		return model.PhaseData
	case model.FrameworkDSIT:
		return model.PhaseModel
	}
	return model.PhaseDeployment
}
