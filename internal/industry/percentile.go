package industry

import (
	"math"

	"github.com/scanforge/scanforge/internal/model"
)

// CalculatePercentile positions score within the benchmark distribution
// for the given industry via piecewise-linear interpolation over the
// percentile buckets. Scores below the 10th-percentile threshold
// interpolate from an implicit (0, 0) anchor; scores at or above the
// 90th-percentile threshold report 90.
func CalculatePercentile(score float64, industryType string) model.Percentile {
	b := Lookup(industryType)

	pct := interpolate(score, b.Distribution)

	comparison := "below"
	if score > b.AvgScore {
		comparison = "above"
	}
	return model.Percentile{
		Percentile: pct,
		Comparison: comparison,
		Difference: math.Abs(score - b.AvgScore),
		AvgScore:   b.AvgScore,
	}
}

func interpolate(score float64, dist map[int]float64) int {
	if score >= dist[90] {
		return 90
	}

	// Highest bucket whose threshold the score meets. Below the 10th
	// bucket the lower anchor is (0, 0).
	lowPct, lowScore := 0, 0.0
	for _, p := range Buckets {
		if score >= dist[p] {
			lowPct, lowScore = p, dist[p]
		}
	}

	highPct, highScore := nextBucket(lowPct, dist)

	// Zero-width interval: keep the lower bucket.
	if highScore <= lowScore {
		return lowPct
	}

	frac := (score - lowScore) / (highScore - lowScore)
	return int(math.Round(float64(lowPct) + frac*float64(highPct-lowPct)))
}

func nextBucket(p int, dist map[int]float64) (int, float64) {
	for _, b := range Buckets {
		if b > p {
			return b, dist[b]
		}
	}
	return 90, dist[90]
}
