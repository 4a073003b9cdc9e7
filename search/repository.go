// api/search/repository.go
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/aiimpact-uk/impact/api/model"
)

const (
	clauseIndex    = "policy-clauses"
	defaultTopK    = 20
	snippetMaxRune = 180
)

type Repository interface {
	IndexClauses(ctx context.Context, clauses []model.PolicyClause, version string) error
	Search(ctx context.Context, q model.SearchQuery) ([]model.SearchHit, error)
}

type ElasticsearchRepository struct {
	esClient *elasticsearch.Client
}

// NewElasticsearchRepository creates a new repository with a given Elasticsearch client URL.
func NewElasticsearchRepository(esURL string) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}
	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &ElasticsearchRepository{esClient: esClient}, nil
}

// indexedClause is the stored document: the clause plus the corpus version it
// was indexed from, so stale documents are detectable after a corpus bump.
type indexedClause struct {
	model.PolicyClause
	CorpusVersion string `json:"corpus_version"`
}

// IndexClauses (re)indexes the full corpus. Clause ids double as document
// ids, so reindexing the same corpus version is idempotent.
func (r *ElasticsearchRepository) IndexClauses(ctx context.Context, clauses []model.PolicyClause, version string) error {
	for _, c := range clauses {
		data, err := json.Marshal(indexedClause{PolicyClause: c, CorpusVersion: version})
		if err != nil {
			return err
		}

		req := esapi.IndexRequest{
			Index:      clauseIndex,
			DocumentID: url.PathEscape(c.ID),
			Body:       strings.NewReader(string(data)),
			Refresh:    "true",
		}

		res, err := req.Do(ctx, r.esClient)
		if err != nil {
			return err
		}
		res.Body.Close()

		if res.IsError() {
			return fmt.Errorf("error indexing clause %q: %s", c.ID, res.String())
		}
	}
	return nil
}

// Search runs a lexical query over the clause index and interleaves the hits
// per framework so no single framework monopolises the first page.
func (r *ElasticsearchRepository) Search(ctx context.Context, q model.SearchQuery) ([]model.SearchHit, error) {
	topK := q.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	var buf strings.Builder
	query := map[string]interface{}{
		"size": topK * 3, // oversample so every framework bucket has candidates
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":  q.Q,
							"fields": []string{"label^2", "text", "category"},
						},
					},
				},
			},
		},
	}

	if len(q.Frameworks) > 0 {
		allow := make([]string, 0, len(q.Frameworks))
		for _, f := range q.Frameworks {
			allow = append(allow, strings.ToUpper(strings.TrimSpace(f)))
		}
		query["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"] = []interface{}{
			map[string]interface{}{
				"terms": map[string]interface{}{
					"framework": allow,
				},
			},
		}
	}

	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := r.esClient.Search(
		r.esClient.Search.WithContext(ctx),
		r.esClient.Search.WithIndex(clauseIndex),
		r.esClient.Search.WithBody(strings.NewReader(buf.String())),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching clauses: %s", res.String())
	}

	var rmap map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&rmap); err != nil {
		return nil, err
	}

	rawHits := rmap["hits"].(map[string]interface{})["hits"].([]interface{})
	hits := make([]model.SearchHit, 0, len(rawHits))
	for _, raw := range rawHits {
		h := raw.(map[string]interface{})
		var c model.PolicyClause
		data, _ := json.Marshal(h["_source"])
		json.Unmarshal(data, &c)

		score := 0.0
		if s, ok := h["_score"].(float64); ok {
			score = s
		}
		hits = append(hits, model.SearchHit{
			ClauseID: c.ID,
			Score:    score,
			Snippet:  snippet(c.Text),
			Clause:   c,
		})
	}

	return interleave(hits, topK), nil
}

func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetMaxRune {
		return text
	}
	return string(runes[:snippetMaxRune]) + "…"
}

// interleave spreads score-ordered hits round-robin across frameworks: each
// framework gets an equal share of the first topK slots, and leftover slots
// are backfilled by raw score. Input order within a framework is preserved.
func interleave(hits []model.SearchHit, topK int) []model.SearchHit {
	buckets := map[string][]model.SearchHit{}
	for _, h := range hits {
		fw := strings.ToUpper(h.Clause.Framework)
		if fw == "" {
			fw = "UNK"
		}
		buckets[fw] = append(buckets[fw], h)
	}

	fws := make([]string, 0, len(buckets))
	for fw := range buckets {
		fws = append(fws, fw)
	}
	sort.Strings(fws)
	if len(fws) == 0 {
		return []model.SearchHit{}
	}

	perFw := topK / len(fws)
	if perFw < 1 {
		perFw = 1
	}

	capped := map[string][]model.SearchHit{}
	for fw, hs := range buckets {
		n := perFw
		if n > len(hs) {
			n = len(hs)
		}
		capped[fw] = append([]model.SearchHit{}, hs[:n]...)
	}

	out := make([]model.SearchHit, 0, topK)
	for len(out) < topK {
		advanced := false
		for _, fw := range fws {
			if len(capped[fw]) == 0 {
				continue
			}
			out = append(out, capped[fw][0])
			capped[fw] = capped[fw][1:]
			advanced = true
			if len(out) >= topK {
				break
			}
		}
		if !advanced {
			break
		}
	}

	if len(out) < topK {
		var remaining []model.SearchHit
		for _, fw := range fws {
			n := perFw
			if n > len(buckets[fw]) {
				n = len(buckets[fw])
			}
			remaining = append(remaining, buckets[fw][n:]...)
		}
		sort.SliceStable(remaining, func(i, j int) bool {
			return remaining[i].Score > remaining[j].Score
		})
		if need := topK - len(out); need < len(remaining) {
			remaining = remaining[:need]
		}
		out = append(out, remaining...)
	}

	if len(out) > topK {
		out = out[:topK]
	}
	return out
}
