// Package quality computes advisory exposure and resolution diagnostics for a
// photo. Nothing here blocks classification.
package quality

import (
	"image"

	"leafstage/imaging"
	"leafstage/models"
)

const (
	TooDarkBelow     = 80.0
	TooBrightAbove   = 200.0
	ShadowPixelBelow = 50.0
	BrightPixelAbove = 200.0
	AreaRatioLimit   = 0.3
	MinDimension     = 400
)

// Analyze inspects a row-major RGBA buffer of width×height pixels. The
// alpha channel is ignored and pix is not modified. pix must hold at least
// 4*width*height bytes; a shorter or empty buffer has no brightness to
// measure, so only the resolution fields are filled and every exposure flag
// stays false.
func Analyze(pix []uint8, width, height int) models.ImageQuality {
	q := models.ImageQuality{
		Width:    width,
		Height:   height,
		IsLowRes: width < MinDimension || height < MinDimension,
	}

	n := width * height
	if n <= 0 || len(pix) < 4*n {
		return q
	}

	var total float64
	var dark, bright int
	for i := 0; i < n; i++ {
		p := pix[i*4 : i*4+3]
		v := float64(int(p[0])+int(p[1])+int(p[2])) / 3
		total += v
		if v < ShadowPixelBelow {
			dark++
		} else if v > BrightPixelAbove {
			bright++
		}
	}

	q.AvgBrightness = total / float64(n)
	q.IsTooDark = q.AvgBrightness < TooDarkBelow
	q.IsTooBright = q.AvgBrightness > TooBrightAbove
	q.HasShadows = float64(dark)/float64(n) > AreaRatioLimit
	q.HasOverexposure = float64(bright)/float64(n) > AreaRatioLimit
	return q
}

// AnalyzeImage runs Analyze over any decoded image.
func AnalyzeImage(img image.Image) models.ImageQuality {
	rgba := imaging.ToRGBA(img)
	b := rgba.Bounds()
	return Analyze(rgba.Pix, b.Dx(), b.Dy())
}
