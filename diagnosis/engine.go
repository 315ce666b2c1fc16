// Package diagnosis runs one photo through quality analysis, classification,
// scoring and the history ledger.
package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"leafstage/classifier"
	"leafstage/history"
	"leafstage/imaging"
	"leafstage/knowledge"
	"leafstage/models"
	"leafstage/quality"
	"leafstage/severity"
)

// Recorder stores the full form of every committed diagnosis. Delete undoes
// a Record whose ledger append then failed.
type Recorder interface {
	Record(d *models.Diagnosis) error
	Delete(id string) error
}

type Engine struct {
	classifier classifier.Classifier
	scorer     *severity.Scorer
	ledger     *history.Ledger
	recorder   Recorder

	now   func() time.Time
	newID func() string
}

type Option func(*Engine)

// WithRecorder attaches a sink for full results, such as the database repository.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(c classifier.Classifier, scorer *severity.Scorer, ledger *history.Ledger, opts ...Option) *Engine {
	e := &Engine{
		classifier: c,
		scorer:     scorer,
		ledger:     ledger,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Strategy() classifier.Strategy {
	return e.classifier.Strategy()
}

// Request is one photo to diagnose. ImagePath and OriginalName are only
// carried through to the recorder.
type Request struct {
	Data         []byte
	MIMEType     string
	ImagePath    string
	OriginalName string
}

// Diagnose classifies one photo. Decoding happens once; the quality report
// runs alongside classification and never affects it. The ledger is only
// touched after classification and scoring succeed and ctx is still live.
func (e *Engine) Diagnose(ctx context.Context, req Request) (*models.Diagnosis, error) {
	img, format, err := imaging.Decode(req.Data)
	if err != nil {
		return nil, &classifier.ClassificationError{Kind: classifier.KindImageDecode, Err: err}
	}
	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = "image/" + format
	}

	qualityDone := make(chan models.ImageQuality, 1)
	go func() {
		qualityDone <- quality.AnalyzeImage(img)
	}()

	log.Printf("diagnosis: classifying with %s strategy", e.classifier.Strategy())
	c, err := e.classifier.Classify(ctx, classifier.Input{Data: req.Data, MIMEType: mimeType, Image: img})
	q := <-qualityDone
	if err != nil {
		log.Printf("diagnosis: classification failed: %v", err)
		return nil, err
	}

	d := &models.Diagnosis{
		Result:       e.assemble(c),
		Quality:      &q,
		ImagePath:    req.ImagePath,
		OriginalName: req.OriginalName,
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.commit(d); err != nil {
		return nil, err
	}
	log.Printf("diagnosis: %s stage=%s severity=%s confidence=%.2f", d.Result.ID, d.Result.Stage, severity.Format(d.Result.SeverityScore), d.Result.Confidence)
	return d, nil
}

func (e *Engine) assemble(c *classifier.Classification) *models.AnalysisResult {
	symptoms := c.DetectedSymptoms
	if symptoms == nil {
		symptoms = []string{}
	}
	lesions := c.LesionCount
	if lesions < 0 {
		lesions = 0
	}
	return &models.AnalysisResult{
		ID:                    e.newID(),
		Stage:                 c.Stage,
		Confidence:            clamp01(c.Confidence),
		LesionCount:           lesions,
		AvgLesionSize:         c.AvgLesionSize,
		SeverityScore:         e.scorer.Score(c.Stage, lesions, c.AvgLesionSize),
		Timestamp:             e.now().UTC(),
		Reasoning:             c.Reasoning,
		DetectedSymptoms:      symptoms,
		VisualEvidenceRegions: c.VisualEvidenceRegions,
		Method:                string(e.classifier.Strategy()),
		Info:                  knowledge.Lookup(c.Stage),
	}
}

// commit records the full result first and appends to the ledger last, so
// the ledger only changes once nothing else can fail.
func (e *Engine) commit(d *models.Diagnosis) error {
	if e.recorder != nil {
		if err := e.recorder.Record(d); err != nil {
			return fmt.Errorf("record diagnosis: %w", err)
		}
	}
	if _, err := e.ledger.Append(d.Result); err != nil {
		if e.recorder != nil {
			if derr := e.recorder.Delete(d.Result.ID); derr != nil {
				err = errors.Join(err, derr)
			}
		}
		return fmt.Errorf("commit to history: %w", err)
	}
	return nil
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
