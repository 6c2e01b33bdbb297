package geom

import "math"

// RGBColor is an 8-bit per channel color.
type RGBColor struct {
	R, G, B uint8
}

// RGB is a convenience function to create an RGBColor.
func RGB(r, g, b uint8) RGBColor {
	return RGBColor{R: r, G: g, B: b}
}

// Combine blends colors by their weight-normalized average, so the weights of an
// interpolation never push a channel out of range.
func (RGBColor) Combine(values []RGBColor, weights []float64) RGBColor {
	var r, g, b float64
	for i, v := range values {
		r += weights[i] * float64(v.R)
		g += weights[i] * float64(v.G)
		b += weights[i] * float64(v.B)
	}
	total := weightSum(weights)
	return RGBColor{
		R: channel(r, total),
		G: channel(g, total),
		B: channel(b, total),
	}
}

// NbItems returns the number of channels.
func (RGBColor) NbItems() int { return 3 }

// GenericItem returns channel item as float32.
func (c RGBColor) GenericItem(item int) float32 {
	switch item {
	case 0:
		return float32(c.R)
	case 1:
		return float32(c.G)
	default:
		return float32(c.B)
	}
}

// GreyscaleColor is an 8-bit intensity.
type GreyscaleColor struct {
	Value uint8
}

// Combine blends intensities by their weight-normalized average.
func (GreyscaleColor) Combine(values []GreyscaleColor, weights []float64) GreyscaleColor {
	var sum float64
	for i, v := range values {
		sum += weights[i] * float64(v.Value)
	}
	return GreyscaleColor{Value: channel(sum, weightSum(weights))}
}

// NbItems returns 1.
func (GreyscaleColor) NbItems() int { return 1 }

// GenericItem returns the intensity as float32.
func (c GreyscaleColor) GenericItem(int) float32 { return float32(c.Value) }

func weightSum(weights []float64) float64 {
	var total float64
	for _, w := range weights {
		total += w
	}
	return total
}

// channel normalizes a weighted channel sum and clamps it to [0, 255].
func channel(sum, total float64) uint8 {
	if total > 0 {
		sum /= total
	}
	return uint8(math.Round(min(max(sum, 0), 255)))
}
