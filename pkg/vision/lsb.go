package vision

import (
	"image"
	"math"

	"ImgOSINT/pkg/models"
)

var channelNames = [4]string{"R", "G", "B", "A"}

// AnalyzeLSB measures the least significant bit distribution of every
// channel. Natural images rarely have perfectly balanced LSBs; embedded
// data tends to push them toward 50/50 in every channel at once.
func AnalyzeLSB(img image.Image) *models.LSBStats {
	bounds := img.Bounds()
	totalPixels := bounds.Dx() * bounds.Dy()

	var zeros [4]int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			// RGBA is 16-bit; take the low bit of the 8-bit value.
			for i, v := range [4]uint32{r, g, b, a} {
				if uint8(v>>8)&1 == 0 {
					zeros[i]++
				}
			}
		}
	}

	var zeroShare, entropy [4]float64
	stats := make(map[string]float64, 8)
	for i := range zeros {
		if totalPixels > 0 {
			zeroShare[i] = float64(zeros[i]) / float64(totalPixels)
		}
		entropy[i] = binaryEntropy(zeroShare[i], 1-zeroShare[i])
		stats[channelNames[i]] = entropy[i]
		stats[channelNames[i]+"_zeros"] = zeroShare[i]
	}

	return &models.LSBStats{
		AnomalyScore: anomalyScore(entropy, zeroShare),
		Entropy:      (entropy[0] + entropy[1] + entropy[2]) / 3.0,
		Confidence:   confidence(totalPixels, variance(entropy[:])),
		ChannelStats: stats,
	}
}

// binaryEntropy is the Shannon entropy of a two-outcome distribution.
func binaryEntropy(p0, p1 float64) float64 {
	if p0 <= 0 || p1 <= 0 {
		return 0
	}
	return -p0*math.Log2(p0) - p1*math.Log2(p1)
}

func anomalyScore(entropy, zeroShare [4]float64) float64 {
	score := 0.0

	avgRGB := (entropy[0] + entropy[1] + entropy[2]) / 3.0
	switch {
	case avgRGB > 0.97:
		score += 0.4
	case avgRGB > 0.92:
		score += 0.2
	}

	// Deviation from an even split, normalised to [0,1].
	dev := 0.0
	for i := 0; i < 3; i++ {
		dev += math.Abs(zeroShare[i]-0.5) * 2
	}
	dev /= 3.0
	switch {
	case dev < 0.05:
		score += 0.3
	case dev < 0.1:
		score += 0.2
	}

	switch v := variance(entropy[:3]); {
	case v < 0.0001:
		score += 0.3
	case v < 0.001:
		score += 0.15
	}

	// An alpha channel that mirrors RGB is unusual.
	if math.Abs(entropy[3]-avgRGB) < 0.05 && entropy[3] > 0.9 {
		score += 0.2
	}

	return math.Min(score, 1.0)
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sum := 0.0
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return sum / float64(len(values))
}

// confidence grows with sample size; extreme entropy variance raises it.
func confidence(samples int, v float64) float64 {
	sampleConfidence := math.Min(float64(samples)/10000.0, 1.0)

	var varianceConfidence float64
	switch {
	case v < 0.0001:
		varianceConfidence = 0.9
	case v < 0.001:
		varianceConfidence = 0.7
	case v < 0.01:
		varianceConfidence = 0.5
	default:
		varianceConfidence = 0.3
	}

	return 0.7*sampleConfidence + 0.3*varianceConfidence
}
