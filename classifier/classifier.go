// Package classifier decides the disease stage of a leaf photo.
//
// Two strategies share the Classifier contract: Local runs a deterministic
// pixel-ratio heuristic offline, Remote delegates to a vision oracle. The
// caller picks one explicitly; there is no fallback between them.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"image"

	"leafstage/models"
)

type Strategy string

const (
	StrategyLocal  Strategy = "local"
	StrategyRemote Strategy = "remote"
)

// Input is one photo. Data and MIMEType carry the original bytes; Image may
// hold already-decoded pixels so they are not decoded twice.
type Input struct {
	Data     []byte
	MIMEType string
	Image    image.Image
}

// Classification is the raw output of a classifier, before scoring.
type Classification struct {
	Stage                 models.Stage `json:"stage"`
	Confidence            float64      `json:"confidence"`
	LesionCount           int          `json:"lesion_count"`
	AvgLesionSize         float64      `json:"avg_lesion_size_mm"`
	Reasoning             string       `json:"reasoning"`
	DetectedSymptoms      []string     `json:"detected_symptoms"`
	VisualEvidenceRegions string       `json:"visual_evidence_regions"`
}

type Classifier interface {
	Strategy() Strategy
	Classify(ctx context.Context, in Input) (*Classification, error)
}

type Kind string

const (
	KindImageDecode           Kind = "ImageDecodeFailure"
	KindOracleUnavailable     Kind = "OracleUnavailable"
	KindInvalidResponseSchema Kind = "InvalidResponseSchema"
)

type ClassificationError struct {
	Kind Kind
	Err  error
}

func (e *ClassificationError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...any) *ClassificationError {
	return &ClassificationError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the classification error kind of err, or "" when err is not
// a ClassificationError.
func KindOf(err error) Kind {
	var ce *ClassificationError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

func clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
