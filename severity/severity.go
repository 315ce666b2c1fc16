// Package severity turns a stage and lesion measurements into a 0-100 score.
package severity

import (
	"fmt"
	"math"

	"leafstage/models"
)

const (
	MinScore = 0.0
	MaxScore = 100.0
)

// Bases is the score offset of each diagnostic stage.
type Bases struct {
	Healthy float64 `yaml:"healthy"`
	Early   float64 `yaml:"early"`
	Mid     float64 `yaml:"mid"`
	Severe  float64 `yaml:"severe"`
}

func DefaultBases() Bases {
	return Bases{Healthy: 0, Early: 10, Mid: 35, Severe: 65}
}

// Scorer computes base(stage) + lesionCount*avgLesionSize/10, clamped to
// [0, 100] and rounded to one decimal. N0 always scores zero.
type Scorer struct {
	bases Bases
}

func NewScorer(b Bases) *Scorer {
	return &Scorer{bases: b}
}

func (s *Scorer) base(stage models.Stage) (float64, bool) {
	switch stage {
	case models.StageHealthy:
		return s.bases.Healthy, true
	case models.StageEarly:
		return s.bases.Early, true
	case models.StageMid:
		return s.bases.Mid, true
	case models.StageSevere:
		return s.bases.Severe, true
	}
	return 0, false
}

func (s *Scorer) Score(stage models.Stage, lesionCount int, avgLesionSize float64) float64 {
	base, ok := s.base(stage)
	if !ok {
		return MinScore
	}
	if lesionCount < 0 {
		lesionCount = 0
	}
	if avgLesionSize < 0 || math.IsNaN(avgLesionSize) {
		avgLesionSize = 0
	}
	score := base + float64(lesionCount)*avgLesionSize/10
	return Round1(Clamp(score))
}

func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return MinScore
	}
	return math.Max(MinScore, math.Min(MaxScore, v))
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Format renders a score the way it is shown to farmers, e.g. "42.5".
func Format(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
