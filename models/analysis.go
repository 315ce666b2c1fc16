package models

import (
	"time"
)

// Stage is the disease stage code of a leaf.
type Stage string

const (
	StageHealthy Stage = "H0"
	StageEarly   Stage = "E1"
	StageMid     Stage = "E2"
	StageSevere  Stage = "E3"
	StageInvalid Stage = "N0" // non-diagnostic input
)

// Stages lists every stage code, healthy first and N0 last.
var Stages = []Stage{StageHealthy, StageEarly, StageMid, StageSevere, StageInvalid}

// ParseStage returns the stage for a code and whether the code is known.
func ParseStage(code string) (Stage, bool) {
	s := Stage(code)
	switch s {
	case StageHealthy, StageEarly, StageMid, StageSevere, StageInvalid:
		return s, true
	}
	return StageInvalid, false
}

// Rank orders diagnostic stages by severity. N0 and unknown codes return -1.
func (s Stage) Rank() int {
	switch s {
	case StageHealthy:
		return 0
	case StageEarly:
		return 1
	case StageMid:
		return 2
	case StageSevere:
		return 3
	}
	return -1
}

// Diagnostic reports whether the stage is a real diagnosis rather than N0.
func (s Stage) Diagnostic() bool {
	return s.Rank() >= 0
}

type Treatment struct {
	Immediate   []string `json:"immediate,omitempty" yaml:"immediate,omitempty"`
	Preventive  []string `json:"preventive,omitempty" yaml:"preventive,omitempty"`
	Cultural    []string `json:"cultural,omitempty" yaml:"cultural,omitempty"`
	Chemical    []string `json:"chemical,omitempty" yaml:"chemical,omitempty"`
	Nutritional []string `json:"nutritional,omitempty" yaml:"nutritional,omitempty"`
	Recovery    []string `json:"recovery,omitempty" yaml:"recovery,omitempty"`
}

type DiseaseInfo struct {
	Stage          Stage     `json:"stage" yaml:"stage"`
	Name           string    `json:"name" yaml:"name"`
	SeverityWeight float64   `json:"severity_weight" yaml:"severity_weight"`
	Symptoms       []string  `json:"symptoms" yaml:"symptoms"`
	Interpretation string    `json:"interpretation" yaml:"interpretation"`
	Treatment      Treatment `json:"treatment" yaml:"treatment"`
}

type ImageQuality struct {
	AvgBrightness   float64 `json:"avg_brightness" yaml:"avg_brightness"` // 0 - 255
	IsTooDark       bool    `json:"is_too_dark" yaml:"is_too_dark"`
	IsTooBright     bool    `json:"is_too_bright" yaml:"is_too_bright"`
	HasShadows      bool    `json:"has_shadows" yaml:"has_shadows"`
	HasOverexposure bool    `json:"has_overexposure" yaml:"has_overexposure"`
	Width           int     `json:"width" yaml:"width"`
	Height          int     `json:"height" yaml:"height"`
	IsLowRes        bool    `json:"is_low_res" yaml:"is_low_res"`
}

// Warnings returns human-readable notes for every quality flag that is set.
func (q ImageQuality) Warnings() []string {
	var out []string
	if q.IsTooDark {
		out = append(out, "image is too dark")
	}
	if q.IsTooBright {
		out = append(out, "image is too bright")
	}
	if q.HasShadows {
		out = append(out, "large shadowed areas")
	}
	if q.HasOverexposure {
		out = append(out, "large overexposed areas")
	}
	if q.IsLowRes {
		out = append(out, "resolution below 400px")
	}
	return out
}

type AnalysisResult struct {
	ID                    string      `json:"id" yaml:"id"`
	Stage                 Stage       `json:"stage" yaml:"stage"`
	Confidence            float64     `json:"confidence" yaml:"confidence"` // 0.0 - 1.0
	LesionCount           int         `json:"lesion_count" yaml:"lesion_count"`
	AvgLesionSize         float64     `json:"avg_lesion_size_mm" yaml:"avg_lesion_size_mm"`
	SeverityScore         float64     `json:"severity_score" yaml:"severity_score"` // 0 - 100, one decimal
	Timestamp             time.Time   `json:"timestamp" yaml:"timestamp"`
	Reasoning             string      `json:"reasoning" yaml:"reasoning"`
	DetectedSymptoms      []string    `json:"detected_symptoms" yaml:"detected_symptoms"`
	VisualEvidenceRegions string      `json:"visual_evidence_regions" yaml:"visual_evidence_regions"`
	Method                string      `json:"method" yaml:"method"` // "local", "remote"
	Info                  DiseaseInfo `json:"info" yaml:"info"`
}

// Summary projects the result into the history ledger form.
func (r *AnalysisResult) Summary() HistoryItem {
	return HistoryItem{
		ID:            r.ID,
		Timestamp:     r.Timestamp,
		Stage:         r.Stage,
		DiseaseName:   r.Info.Name,
		Confidence:    r.Confidence,
		SeverityScore: r.SeverityScore,
	}
}

type HistoryItem struct {
	ID            string    `json:"id" yaml:"id"`
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
	Stage         Stage     `json:"stage" yaml:"stage"`
	DiseaseName   string    `json:"disease_name" yaml:"disease_name"`
	Confidence    float64   `json:"confidence" yaml:"confidence"`
	SeverityScore float64   `json:"severity_score" yaml:"severity_score"`
}

// Diagnosis is what a caller receives for one analyzed photo.
type Diagnosis struct {
	Result       *AnalysisResult `json:"result" yaml:"result"`
	Quality      *ImageQuality   `json:"quality,omitempty" yaml:"quality,omitempty"`
	ImagePath    string          `json:"image_path,omitempty" yaml:"image_path,omitempty"`
	OriginalName string          `json:"original_name,omitempty" yaml:"original_name,omitempty"`
}
