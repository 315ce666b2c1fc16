package classifier

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"

	"leafstage/imaging"
	"leafstage/models"
)

// Heuristic holds every tunable constant of the local classifier.
type Heuristic struct {
	GridSize         int     `yaml:"grid_size"`
	LeafGreenMin     uint8   `yaml:"leaf_green_min"`     // green must exceed this to count as leaf
	NecroticRedRatio float64 `yaml:"necrotic_red_ratio"` // red >= ratio*green marks browning
	DarkChannelMax   uint8   `yaml:"dark_channel_max"`   // all channels below this marks dead tissue
	MinLeafPixels    int     `yaml:"min_leaf_pixels"`

	SevereRatio float64 `yaml:"severe_ratio"`
	MidRatio    float64 `yaml:"mid_ratio"`
	EarlyRatio  float64 `yaml:"early_ratio"`

	LesionArea          float64 `yaml:"lesion_area"` // grid pixels per lesion
	DefaultLesionSizeMM float64 `yaml:"default_lesion_size_mm"`

	Confidence        float64 `yaml:"confidence"`
	InvalidConfidence float64 `yaml:"invalid_confidence"`
}

func DefaultHeuristic() Heuristic {
	return Heuristic{
		GridSize:            imaging.GridSize,
		LeafGreenMin:        40,
		NecroticRedRatio:    0.78,
		DarkChannelMax:      55,
		MinLeafPixels:       500,
		SevereRatio:         0.22,
		MidRatio:            0.10,
		EarlyRatio:          0.02,
		LesionArea:          5,
		DefaultLesionSizeMM: 1.5,
		Confidence:          0.85,
		InvalidConfidence:   0.40,
	}
}

func (h Heuristic) Validate() error {
	if h.GridSize <= 0 {
		return errors.New("grid_size must be positive")
	}
	if h.MinLeafPixels < 0 || h.MinLeafPixels > h.GridSize*h.GridSize {
		return fmt.Errorf("min_leaf_pixels must be between 0 and %d", h.GridSize*h.GridSize)
	}
	if !(0 <= h.EarlyRatio && h.EarlyRatio < h.MidRatio && h.MidRatio < h.SevereRatio && h.SevereRatio <= 1) {
		return errors.New("ratio bands must satisfy 0 <= early < mid < severe <= 1")
	}
	if h.LesionArea <= 0 {
		return errors.New("lesion_area must be positive")
	}
	if h.NecroticRedRatio <= 0 {
		return errors.New("necrotic_red_ratio must be positive")
	}
	if h.Confidence < 0 || h.Confidence > 1 || h.InvalidConfidence < 0 || h.InvalidConfidence > 1 {
		return errors.New("confidence values must be within [0, 1]")
	}
	return nil
}

// GridStats are the pixel counts measured on the sampled grid.
type GridStats struct {
	Sampled  int
	Leaf     int
	Necrotic int
}

func (s GridStats) NecroticRatio() float64 {
	if s.Leaf == 0 {
		return 0
	}
	return float64(s.Necrotic) / float64(s.Leaf)
}

var reasoningTemplates = map[models.Stage]string{
	models.StageHealthy: "The leaf is uniformly green with no meaningful browning. No disease is visible.",
	models.StageEarly:   "A few small brown spots are present on otherwise green tissue. This looks like the start of an infection.",
	models.StageMid:     "Brown lesions cover a noticeable part of the leaf. The infection is spreading and needs treatment now.",
	models.StageSevere:  "Large areas of the leaf are brown or dead. The infection is advanced.",
	models.StageInvalid: "Too little leaf tissue is visible to make a diagnosis. Take a closer photo of a single leaf.",
}

var symptomTemplates = map[models.Stage][]string{
	models.StageHealthy: {},
	models.StageEarly:   {"scattered brown specks"},
	models.StageMid:     {"spreading brown lesions", "loss of green colour around lesions"},
	models.StageSevere:  {"large necrotic patches", "dead dark tissue"},
	models.StageInvalid: {},
}

// Local is the offline pixel-ratio classifier. It is deterministic for a
// given pixel buffer and Heuristic.
type Local struct {
	h Heuristic
}

func NewLocal(h Heuristic) *Local {
	return &Local{h: h}
}

func (l *Local) Strategy() Strategy { return StrategyLocal }

func (l *Local) Classify(ctx context.Context, in Input) (*Classification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := in.Image
	if img == nil {
		decoded, _, err := imaging.Decode(in.Data)
		if err != nil {
			return nil, &ClassificationError{Kind: KindImageDecode, Err: err}
		}
		img = decoded
	}

	stats := l.Measure(imaging.Downsample(img, l.h.GridSize))
	c := l.Decide(stats)
	log.Printf("local classifier: leaf=%d necrotic=%d ratio=%.3f stage=%s", stats.Leaf, stats.Necrotic, stats.NecroticRatio(), c.Stage)
	return c, nil
}

// Measure counts leaf and necrotic pixels on an already-sampled grid.
func (l *Local) Measure(grid *image.RGBA) GridStats {
	b := grid.Bounds()
	stats := GridStats{Sampled: b.Dx() * b.Dy()}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := grid.Pix[grid.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			r, g, bl := row[x*4], row[x*4+1], row[x*4+2]
			if !l.isLeaf(r, g, bl) {
				continue
			}
			stats.Leaf++
			if l.isNecrotic(r, g, bl) {
				stats.Necrotic++
			}
		}
	}
	return stats
}

func (l *Local) isLeaf(r, g, b uint8) bool {
	return g > r && g > b && g > l.h.LeafGreenMin
}

func (l *Local) isNecrotic(r, g, b uint8) bool {
	if float64(r) >= l.h.NecroticRedRatio*float64(g) {
		return true
	}
	d := l.h.DarkChannelMax
	return r < d && g < d && b < d
}

// Decide maps grid statistics to a classification.
func (l *Local) Decide(stats GridStats) *Classification {
	ratio := stats.NecroticRatio()

	var stage models.Stage
	switch {
	case stats.Leaf < l.h.MinLeafPixels:
		stage = models.StageInvalid
	case ratio > l.h.SevereRatio:
		stage = models.StageSevere
	case ratio > l.h.MidRatio:
		stage = models.StageMid
	case ratio > l.h.EarlyRatio:
		stage = models.StageEarly
	default:
		stage = models.StageHealthy
	}

	c := &Classification{
		Stage:            stage,
		Confidence:       clamp01(l.h.Confidence),
		Reasoning:        reasoningTemplates[stage],
		DetectedSymptoms: append([]string{}, symptomTemplates[stage]...),
	}
	if stage == models.StageInvalid {
		c.Confidence = clamp01(l.h.InvalidConfidence)
		c.VisualEvidenceRegions = fmt.Sprintf("only %d of %d sampled pixels look like leaf tissue", stats.Leaf, stats.Sampled)
		return c
	}

	c.LesionCount = int(float64(stats.Necrotic) / l.h.LesionArea)
	if c.LesionCount > 0 {
		c.AvgLesionSize = l.h.DefaultLesionSizeMM
	}
	c.VisualEvidenceRegions = fmt.Sprintf("necrotic tissue covers %.1f%% of %d leaf pixels", ratio*100, stats.Leaf)
	return c
}
