package models

import (
	"time"
)

// DiagnosisRecord is the stored form of a committed AnalysisResult.
type DiagnosisRecord struct {
	ID                    string        `json:"id" gorm:"primaryKey"`
	ImagePath             string        `json:"image_path"`
	OriginalName          string        `json:"original_name"`
	Stage                 string        `json:"stage" gorm:"index"`
	DiseaseName           string        `json:"disease_name"`
	Confidence            float64       `json:"confidence"`
	LesionCount           int           `json:"lesion_count"`
	AvgLesionSize         float64       `json:"avg_lesion_size_mm"`
	SeverityScore         float64       `json:"severity_score"`
	Reasoning             string        `json:"reasoning"`
	DetectedSymptoms      []string      `json:"detected_symptoms" gorm:"serializer:json"`
	VisualEvidenceRegions string        `json:"visual_evidence_regions"`
	Method                string        `json:"method"`
	Quality               *ImageQuality `json:"quality,omitempty" gorm:"serializer:json"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

func NewDiagnosisRecord(d *Diagnosis) *DiagnosisRecord {
	r := d.Result
	return &DiagnosisRecord{
		ID:                    r.ID,
		ImagePath:             d.ImagePath,
		OriginalName:          d.OriginalName,
		Stage:                 string(r.Stage),
		DiseaseName:           r.Info.Name,
		Confidence:            r.Confidence,
		LesionCount:           r.LesionCount,
		AvgLesionSize:         r.AvgLesionSize,
		SeverityScore:         r.SeverityScore,
		Reasoning:             r.Reasoning,
		DetectedSymptoms:      r.DetectedSymptoms,
		VisualEvidenceRegions: r.VisualEvidenceRegions,
		Method:                r.Method,
		Quality:               d.Quality,
		CreatedAt:             r.Timestamp,
		UpdatedAt:             r.Timestamp,
	}
}

// Result rebuilds the analysis result. info is the knowledge base entry for the stage.
func (rec *DiagnosisRecord) Result(info DiseaseInfo) *AnalysisResult {
	stage, _ := ParseStage(rec.Stage)
	return &AnalysisResult{
		ID:                    rec.ID,
		Stage:                 stage,
		Confidence:            rec.Confidence,
		LesionCount:           rec.LesionCount,
		AvgLesionSize:         rec.AvgLesionSize,
		SeverityScore:         rec.SeverityScore,
		Timestamp:             rec.CreatedAt,
		Reasoning:             rec.Reasoning,
		DetectedSymptoms:      rec.DetectedSymptoms,
		VisualEvidenceRegions: rec.VisualEvidenceRegions,
		Method:                rec.Method,
		Info:                  info,
	}
}

// KeyValue backs small JSON documents stored under a fixed key.
type KeyValue struct {
	Name      string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}
