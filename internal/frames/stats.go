package frames

import (
	"crypto/sha256"
	"encoding/hex"
	"image"
	"math"
)

const (
	hueBins  = 12
	gridSize = 16
)

// Stats are the raw pixel-derived heuristics computed for every frame
// locally, with or without the vision collaborator.
type Stats struct {
	Brightness float64          // mean luma [0,1]
	HueHist    [hueBins]float64 // normalized hue histogram over saturated pixels
	luma       [gridSize * gridSize]float64
}

// ComputeStats derives brightness, hue histogram, and a downsampled luma grid
// from a decoded frame. The grid drives motion estimation and content
// hashing.
func ComputeStats(img image.Image) Stats {
	var stats Stats
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return stats
	}

	var lumaSum float64
	var hueTotal float64
	for gy := 0; gy < gridSize; gy++ {
		for gx := 0; gx < gridSize; gx++ {
			x := bounds.Min.X + gx*width/gridSize
			y := bounds.Min.Y + gy*height/gridSize
			r, g, b, _ := img.At(x, y).RGBA()
			rf := float64(r) / 0xffff
			gf := float64(g) / 0xffff
			bf := float64(b) / 0xffff

			luma := 0.2126*rf + 0.7152*gf + 0.0722*bf
			stats.luma[gy*gridSize+gx] = luma
			lumaSum += luma

			hue, sat := hueSaturation(rf, gf, bf)
			if sat > 0.1 {
				bin := int(hue / 360 * hueBins)
				if bin >= hueBins {
					bin = hueBins - 1
				}
				stats.HueHist[bin] += sat
				hueTotal += sat
			}
		}
	}

	stats.Brightness = lumaSum / float64(gridSize*gridSize)
	if hueTotal > 0 {
		for i := range stats.HueHist {
			stats.HueHist[i] /= hueTotal
		}
	}
	return stats
}

// ContentHash returns a stable hash of the downsampled luma grid, used as the
// vision-cache key so re-analysis of unchanged frames skips model calls.
func (s Stats) ContentHash() string {
	buf := make([]byte, 0, gridSize*gridSize)
	for _, value := range s.luma {
		buf = append(buf, byte(math.Round(value*255)))
	}
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// MotionAgainst estimates motion magnitude versus a previous frame as the
// mean absolute luma difference over the grid, in [0,1].
func (s Stats) MotionAgainst(previous Stats) float64 {
	var diff float64
	for i := range s.luma {
		diff += math.Abs(s.luma[i] - previous.luma[i])
	}
	return diff / float64(gridSize*gridSize)
}

// HueDistanceTo returns half the L1 distance between hue histograms, in
// [0,1].
func (s Stats) HueDistanceTo(other Stats) float64 {
	var dist float64
	for i := range s.HueHist {
		dist += math.Abs(s.HueHist[i] - other.HueHist[i])
	}
	return dist / 2
}

// Clutter estimates visual busyness from hue dispersion: a frame whose color
// mass spreads across many bins reads as cluttered, a flat or single-hue
// frame as clean.
func (s Stats) Clutter() float64 {
	var entropy float64
	for _, mass := range s.HueHist {
		if mass > 0 {
			entropy -= mass * math.Log2(mass)
		}
	}
	maxEntropy := math.Log2(float64(hueBins))
	return clamp01(entropy / maxEntropy)
}

func hueSaturation(r, g, b float64) (float64, float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min
	if delta == 0 || max == 0 {
		return 0, 0
	}
	var hue float64
	switch max {
	case r:
		hue = math.Mod((g-b)/delta, 6)
	case g:
		hue = (b-r)/delta + 2
	default:
		hue = (r-g)/delta + 4
	}
	hue *= 60
	if hue < 0 {
		hue += 360
	}
	return hue, delta / max
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
