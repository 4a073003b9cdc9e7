// api/controller/telemetry_test.go
package controller

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTelemetry_AllowListOnly(t *testing.T) {
	ev := sanitizeTelemetry(map[string]any{
		"event":   "Wizard_Completed",
		"ts":      "2026-08-29T10:00:00Z",
		"session": "abc-123-XYZ",
		"screen":  map[string]any{"w": 1920.0, "h": 1080.0},
		"meta": map[string]any{
			"projectId":             "p-1",
			"modelType":             "llm",
			"processesPersonalData": true,
			"durationMs":            1250.0,
			"free_text":             "the user typed something sensitive here",
			"answers":               map[string]any{"title": "secret"},
		},
	})

	assert.Equal(t, "wizard_completed", ev.Event)
	assert.Equal(t, "2026-08-29T10:00:00Z", ev.Timestamp)
	// Session keeps alphanumerics only.
	assert.Equal(t, "abc123XYZ", ev.Session)
	assert.Equal(t, 1920, ev.ScreenW)
	assert.Equal(t, 1080, ev.ScreenH)

	assert.Equal(t, "p-1", ev.Meta["projectId"])
	assert.Equal(t, "llm", ev.Meta["modelType"])
	assert.Equal(t, true, ev.Meta["processesPersonalData"])
	assert.Equal(t, 1250, ev.Meta["durationMs"])
	assert.NotContains(t, ev.Meta, "free_text")
	assert.NotContains(t, ev.Meta, "answers")
}

func TestSanitizeTelemetry_Bounds(t *testing.T) {
	ev := sanitizeTelemetry(map[string]any{
		"event":   strings.Repeat("x", 200) + "!!!",
		"ts":      strings.Repeat("9", 100),
		"session": strings.Repeat("s", 100),
		"meta": map[string]any{
			"durationMs": -5.0,
			"projectId":  strings.Repeat("a", 100),
		},
	})

	assert.LessOrEqual(t, len(ev.Event), 64)
	// An over-long timestamp is replaced by a server-side one.
	assert.NotEqual(t, strings.Repeat("9", 100), ev.Timestamp)
	assert.NotEmpty(t, ev.Timestamp)
	assert.LessOrEqual(t, len(ev.Session), 24)
	assert.Equal(t, 0, ev.Meta["durationMs"])
	assert.Equal(t, strings.Repeat("a", 36), ev.Meta["projectId"])
}

func TestSanitizeTelemetry_EmptyPayload(t *testing.T) {
	ev := sanitizeTelemetry(map[string]any{})
	assert.Equal(t, "unknown", ev.Event)
	assert.NotEmpty(t, ev.Timestamp)
	assert.Empty(t, ev.Meta)
}
