// api/engine/aggregate.go
package engine

import "github.com/aiimpact-uk/impact/api/model"

// Summarize rolls a flag list up into severity, phase and dimension counts
// plus the overall label. The label policy is deliberate and exact: any red
// flag makes the project "High"; otherwise two or more ambers make it
// "Medium"; otherwise it is "Low". Red dominance is checked before the amber
// count, so a red plus a single amber is still "High".
func Summarize(flags []model.Flag) model.Summary {
	s := model.Summary{
		BySeverity:  map[model.Severity]int{},
		ByPhase:     map[string]int{},
		ByDimension: map[string]int{},
	}
	for _, f := range flags {
		s.BySeverity[f.Severity]++
		if f.Meta.Phase != "" {
			s.ByPhase[f.Meta.Phase]++
		}
		if f.Meta.Dimension != "" {
			s.ByDimension[f.Meta.Dimension]++
		}
	}
	switch {
	case s.BySeverity[model.SeverityRed] > 0:
		s.Overall = "High"
	case s.BySeverity[model.SeverityAmber] >= 2:
		s.Overall = "Medium"
	default:
		s.Overall = "Low"
	}
	return s
}
