// api/search/repository_test.go
package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiimpact-uk/impact/api/model"
)

func hit(id, framework string, score float64) model.SearchHit {
	return model.SearchHit{
		ClauseID: id,
		Score:    score,
		Clause:   model.PolicyClause{ID: id, Framework: framework},
	}
}

func ids(hits []model.SearchHit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.ClauseID
	}
	return out
}

func TestInterleave_RoundRobinAcrossFrameworks(t *testing.T) {
	hits := []model.SearchHit{
		hit("ico-1", "ICO", 9),
		hit("ico-2", "ICO", 8),
		hit("dsit-1", "DSIT", 7),
		hit("dsit-2", "DSIT", 6),
		hit("iso-1", "ISO", 5),
		hit("iso-2", "ISO", 4),
	}

	out := interleave(hits, 6)
	require.Len(t, out, 6)

	// Frameworks alternate in sorted framework order, score order within.
	assert.Equal(t, []string{"dsit-1", "ico-1", "iso-1", "dsit-2", "ico-2", "iso-2"}, ids(out))
}

func TestInterleave_EqualShareThenBackfill(t *testing.T) {
	hits := []model.SearchHit{
		hit("ico-1", "ICO", 10),
		hit("ico-2", "ICO", 9),
		hit("ico-3", "ICO", 8),
		hit("ico-4", "ICO", 7),
		hit("dsit-1", "DSIT", 1),
	}

	out := interleave(hits, 4)
	require.Len(t, out, 4)

	// Each of the two frameworks gets two slots even though every ICO hit
	// outscores the DSIT one.
	assert.Contains(t, ids(out), "dsit-1")
	assert.Equal(t, "dsit-1", out[0].ClauseID)
	assert.Equal(t, "ico-1", out[1].ClauseID)
}

func TestInterleave_SingleFramework(t *testing.T) {
	hits := []model.SearchHit{
		hit("iso-1", "ISO", 3),
		hit("iso-2", "ISO", 2),
		hit("iso-3", "ISO", 1),
	}

	out := interleave(hits, 2)
	assert.Equal(t, []string{"iso-1", "iso-2"}, ids(out))
}

func TestInterleave_FewerHitsThanTopK(t *testing.T) {
	hits := []model.SearchHit{
		hit("ico-1", "ICO", 2),
		hit("dsit-1", "DSIT", 1),
	}

	out := interleave(hits, 10)
	assert.Equal(t, []string{"dsit-1", "ico-1"}, ids(out))
}

func TestInterleave_Empty(t *testing.T) {
	assert.Empty(t, interleave(nil, 5))
}

func TestSnippet_BoundsLongText(t *testing.T) {
	short := "brief clause text"
	assert.Equal(t, short, snippet(short))

	long := strings.Repeat("清", snippetMaxRune+50)
	s := snippet(long)
	assert.Equal(t, snippetMaxRune+1, len([]rune(s)))
	assert.True(t, strings.HasSuffix(s, "…"))
}
