// api/llm/client.go
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/aiimpact-uk/impact/api/config"
	logger "github.com/aiimpact-uk/impact/api/logging"
	"github.com/aiimpact-uk/impact/api/model"
)

// Client drafts compliance flags with a local OpenAI-compatible endpoint
// (Ollama's /v1 API by default). It is an optional enrichment: callers must
// treat any error as "no drafted flags" and fall back to rule output alone.
type Client struct {
	client      *openai.Client
	model       string
	temperature float64
}

func NewClient(cfg config.LLMConfiguration) *Client {
	oc := openai.DefaultConfig("ollama") // local endpoints ignore the key
	oc.BaseURL = cfg.BaseURL
	return &Client{
		client:      openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

// ModelName reports which model drafted flags are attributed to.
func (c *Client) ModelName() string { return c.model }

// DraftFlags asks the model to assess the project against the retrieved
// clauses. The returned flags carry only clause id, severity, reason,
// mitigation and evidence; the caller validates clause ids against the
// corpus and fills in display metadata.
func (c *Client) DraftFlags(ctx context.Context, p *model.ProjectProfile, hits []model.SearchHit) ([]model.Flag, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: float32(c.temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildSystem()},
			{Role: openai.ChatMessageRoleUser, Content: BuildUser(p, hits)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("LLM returned no choices")
	}

	flags := ParseFlags(resp.Choices[0].Message.Content)
	for i := range flags {
		flags[i].Model = c.model
	}
	logger.Debug("LLM drafted flags",
		zap.String("model", c.model),
		zap.Int("count", len(flags)))
	return flags, nil
}

// draftFlag tolerates the loose shapes local models actually emit.
type draftFlag struct {
	ID         string `json:"id"`
	Clause     string `json:"clause"`
	Severity   string `json:"severity"`
	Reason     string `json:"reason"`
	Mitigation string `json:"mitigation"`
	Evidence   string `json:"evidence"`
}

type draftContainer struct {
	Flags []draftFlag `json:"flags"`
}

var jsonFence = regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")

// ParseFlags pulls a flag list out of a model response. It accepts a bare
// JSON object, a bare array, or either wrapped in a markdown fence; anything
// unparseable yields an empty list rather than an error.
func ParseFlags(content string) []model.Flag {
	drafts := extractDrafts(content)
	flags := make([]model.Flag, 0, len(drafts))
	for _, d := range drafts {
		clause := strings.TrimSpace(d.Clause)
		if clause == "" {
			clause = strings.TrimSpace(d.ID)
		}
		if clause == "" {
			continue
		}
		flags = append(flags, model.Flag{
			ID:         clause,
			Clause:     clause,
			Severity:   coerceSeverity(d.Severity),
			Reason:     strings.TrimSpace(d.Reason),
			Mitigation: strings.TrimSpace(d.Mitigation),
			Evidence:   strings.TrimSpace(d.Evidence),
		})
	}
	return flags
}

func extractDrafts(content string) []draftFlag {
	for _, candidate := range jsonCandidates(content) {
		var c draftContainer
		if err := json.Unmarshal([]byte(candidate), &c); err == nil && len(c.Flags) > 0 {
			return c.Flags
		}
		var list []draftFlag
		if err := json.Unmarshal([]byte(candidate), &list); err == nil && len(list) > 0 {
			return list
		}
	}
	return nil
}

// jsonCandidates yields substrings worth attempting to decode: the whole
// response, the fenced block if present, then the outermost {...} and [...].
func jsonCandidates(content string) []string {
	out := []string{content}
	if m := jsonFence.FindStringSubmatch(content); m != nil {
		out = append(out, m[1])
	}
	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		s := strings.Index(content, pair[0])
		e := strings.LastIndex(content, pair[1])
		if s != -1 && e > s {
			out = append(out, content[s:e+1])
		}
	}
	return out
}

func coerceSeverity(v string) model.Severity {
	switch s := strings.ToLower(strings.TrimSpace(v)); {
	case strings.HasPrefix(s, "r"):
		return model.SeverityRed
	case strings.HasPrefix(s, "a"):
		return model.SeverityAmber
	default:
		return model.SeverityGreen
	}
}
