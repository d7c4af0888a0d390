package handlers

import "strings"

// Instruments the platform knows how to store, keyed by the maximum
// raw score each one can produce.
var allowedInstruments = map[string]int{
	"phq9":  27,
	"gad7":  21,
	"pss10": 40,
}

var allowedSeverities = map[string]struct{}{
	"minimal":  {},
	"mild":     {},
	"moderate": {},
	"severe":   {},
}

func validateAssessmentRequest(req submitAssessmentRequest) string {
	instrument := strings.ToLower(strings.TrimSpace(req.Instrument))
	maxScore, ok := allowedInstruments[instrument]
	if !ok {
		return "instrument must be one of: phq9, gad7, pss10"
	}
	if req.Score < 0 || req.Score > maxScore {
		return "score is out of range for the instrument"
	}
	severity := strings.ToLower(strings.TrimSpace(req.Severity))
	if _, ok := allowedSeverities[severity]; !ok {
		return "severity must be one of: minimal, mild, moderate, severe"
	}
	return ""
}
