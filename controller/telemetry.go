// api/controller/telemetry.go
package controller

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	logger "github.com/aiimpact-uk/impact/api/logging"
)

// telemetryMetaAllow is the full set of meta keys that may ever be logged.
// Everything else in the payload is dropped, so free text never reaches the
// log stream.
var telemetryMetaAllow = map[string]bool{
	"projectId":              true,
	"modelType":              true,
	"processesPersonalData":  true,
	"hasSpecialCategoryData": true,
	"format":                 true,
	"action":                 true,
	"durationMs":             true,
}

type telemetryEvent struct {
	Event     string         `json:"event"`
	Timestamp string         `json:"ts"`
	Session   string         `json:"session"`
	ScreenW   int            `json:"screen_w"`
	ScreenH   int            `json:"screen_h"`
	Meta      map[string]any `json:"meta"`
}

// sanitizeTelemetry reduces an arbitrary consented payload to safe tokens:
// booleans, bounded integers and short alphanumeric strings only.
func sanitizeTelemetry(body map[string]any) telemetryEvent {
	meta := map[string]any{}
	if raw, ok := body["meta"].(map[string]any); ok {
		for k := range telemetryMetaAllow {
			v, present := raw[k]
			if !present {
				continue
			}
			switch {
			case v == nil:
				meta[k] = nil
			case k == "durationMs":
				n := asInt(v)
				if n < 0 {
					n = 0
				}
				meta[k] = n
			case k == "projectId":
				meta[k] = shortToken(v, 36)
			default:
				if b, ok := v.(bool); ok {
					meta[k] = b
				} else {
					meta[k] = shortToken(v, 32)
				}
			}
		}
	}

	event := shortToken(body["event"], 64)
	if event == "" {
		event = "unknown"
	}

	ts, _ := body["ts"].(string)
	if ts == "" || len(ts) > 40 {
		ts = time.Now().UTC().Format(time.RFC3339)
	}

	screenW, screenH := 0, 0
	if scr, ok := body["screen"].(map[string]any); ok {
		screenW = asInt(scr["w"])
		screenH = asInt(scr["h"])
	}

	session := alnumOnly(stringOf(body["session"]), 24)

	return telemetryEvent{
		Event:     strings.ToLower(event),
		Timestamp: ts,
		Session:   session,
		ScreenW:   screenW,
		ScreenH:   screenH,
		Meta:      meta,
	}
}

func logTelemetry(ev telemetryEvent) {
	logger.Info("Telemetry event",
		zap.String("event", ev.Event),
		zap.String("ts", ev.Timestamp),
		zap.String("session", ev.Session),
		zap.Int("screenW", ev.ScreenW),
		zap.Int("screenH", ev.ScreenH),
		zap.Any("meta", ev.Meta))
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch x := v.(type) {
	case float64:
		return int(x)
	case int:
		return x
	default:
		return 0
	}
}

// shortToken truncates and strips anything outside [alnum - _ : .].
func shortToken(v any, max int) string {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(x)
	default:
		return ""
	}
	if len(s) > max {
		s = s[:max]
	}
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-_:.", r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func alnumOnly(s string, max int) string {
	if len(s) > max {
		s = s[:max]
	}
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
