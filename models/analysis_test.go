package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStage(t *testing.T) {
	for _, s := range Stages {
		got, ok := ParseStage(string(s))
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}

	got, ok := ParseStage("E4")
	assert.False(t, ok)
	assert.Equal(t, StageInvalid, got)

	_, ok = ParseStage("e1")
	assert.False(t, ok, "codes are case sensitive")
}

func TestStageRank(t *testing.T) {
	assert.Less(t, StageHealthy.Rank(), StageEarly.Rank())
	assert.Less(t, StageEarly.Rank(), StageMid.Rank())
	assert.Less(t, StageMid.Rank(), StageSevere.Rank())
	assert.Equal(t, -1, StageInvalid.Rank())
	assert.False(t, StageInvalid.Diagnostic())
	assert.True(t, StageHealthy.Diagnostic())
}

func TestSummary(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	r := &AnalysisResult{
		ID:            "id-1",
		Stage:         StageEarly,
		Confidence:    0.85,
		SeverityScore: 12.5,
		Timestamp:     ts,
		Info:          DiseaseInfo{Name: "Early Leaf Blight"},
	}
	assert.Equal(t, HistoryItem{
		ID:            "id-1",
		Timestamp:     ts,
		Stage:         StageEarly,
		DiseaseName:   "Early Leaf Blight",
		Confidence:    0.85,
		SeverityScore: 12.5,
	}, r.Summary())
}

func TestQualityWarnings(t *testing.T) {
	assert.Empty(t, ImageQuality{Width: 800, Height: 600}.Warnings())
	assert.Equal(t, []string{"image is too bright", "large overexposed areas"},
		ImageQuality{IsTooBright: true, HasOverexposure: true}.Warnings())
}
