package classifier

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"leafstage/models"
)

// MaxLesionCount bounds the lesion count accepted from an oracle.
const MaxLesionCount = math.MaxInt32

var fenceRe = regexp.MustCompile("```[a-zA-Z]*\n|```")

// stripFences removes markdown code fences such as ```json ... ``` so the
// JSON body can be parsed.
func stripFences(text string) string {
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
	// models sometimes wrap the object in prose
	if start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}"); start >= 0 && end > start {
		cleaned = cleaned[start : end+1]
	}
	return cleaned
}

type oracleResponse struct {
	Stage                 *string   `json:"stage"`
	Confidence            *float64  `json:"confidence"`
	LesionCount           *float64  `json:"lesionCount"`
	AvgLesionSize         *float64  `json:"avgLesionSize"`
	ReasoningForFarmer    *string   `json:"reasoningForFarmer"`
	Explanation           *string   `json:"explanation"`
	Reasoning             *string   `json:"reasoning"`
	DetectedSymptoms      *[]string `json:"detectedSymptoms"`
	VisualEvidenceRegions *string   `json:"visualEvidenceRegions"`
}

// ParseOracleResponse validates the oracle's raw text against the required
// schema. Any missing or mistyped field is an InvalidResponseSchema error.
func ParseOracleResponse(raw string) (*Classification, error) {
	var resp oracleResponse
	if err := json.Unmarshal([]byte(stripFences(raw)), &resp); err != nil {
		return nil, newError(KindInvalidResponseSchema, "response is not a JSON object: %v", err)
	}

	var missing []string
	if resp.Stage == nil {
		missing = append(missing, "stage")
	}
	if resp.Confidence == nil {
		missing = append(missing, "confidence")
	}
	if resp.LesionCount == nil {
		missing = append(missing, "lesionCount")
	}
	if resp.AvgLesionSize == nil {
		missing = append(missing, "avgLesionSize")
	}
	reasoning := firstString(resp.ReasoningForFarmer, resp.Explanation, resp.Reasoning)
	if reasoning == nil {
		missing = append(missing, "reasoningForFarmer")
	}
	if resp.DetectedSymptoms == nil {
		missing = append(missing, "detectedSymptoms")
	}
	if resp.VisualEvidenceRegions == nil {
		missing = append(missing, "visualEvidenceRegions")
	}
	if len(missing) > 0 {
		return nil, newError(KindInvalidResponseSchema, "missing required fields: %s", strings.Join(missing, ", "))
	}

	stage, ok := models.ParseStage(strings.ToUpper(strings.TrimSpace(*resp.Stage)))
	if !ok {
		return nil, newError(KindInvalidResponseSchema, "unknown stage %q", *resp.Stage)
	}
	if *resp.LesionCount < 0 || math.IsNaN(*resp.LesionCount) {
		return nil, newError(KindInvalidResponseSchema, "lesionCount must be non-negative, got %v", *resp.LesionCount)
	}
	if *resp.LesionCount > MaxLesionCount {
		return nil, newError(KindInvalidResponseSchema, "lesionCount %v exceeds %d", *resp.LesionCount, MaxLesionCount)
	}
	if *resp.AvgLesionSize < 0 || math.IsNaN(*resp.AvgLesionSize) {
		return nil, newError(KindInvalidResponseSchema, "avgLesionSize must be non-negative, got %v", *resp.AvgLesionSize)
	}

	symptoms := *resp.DetectedSymptoms
	if symptoms == nil {
		symptoms = []string{}
	}

	return &Classification{
		Stage:                 stage,
		Confidence:            clamp01(*resp.Confidence),
		LesionCount:           int(math.Round(*resp.LesionCount)),
		AvgLesionSize:         *resp.AvgLesionSize,
		Reasoning:             *reasoning,
		DetectedSymptoms:      symptoms,
		VisualEvidenceRegions: *resp.VisualEvidenceRegions,
	}, nil
}

func firstString(candidates ...*string) *string {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}
