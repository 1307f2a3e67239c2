package stats

import (
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ZVal returns the two-tailed Z-value associated with a specific confidence
// interval. The interval is a number from 0 to 100 percent.
func ZVal(confidenceInterval float64) float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
	}
	area := (1 + (confidenceInterval / 100)) / 2
	return dist.Quantile(area)
}

// MeanCI returns the sample mean of the scores and the half-width of the
// confidence interval of the mean at the given percent level.
func MeanCI(samples []float64, confidenceInterval float64) (mean, halfWidth float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	mean = stat.Mean(samples, nil)
	if len(samples) < 2 {
		return mean, 0
	}
	stderr := stat.StdErr(stat.StdDev(samples, nil), float64(len(samples)))
	return mean, ZVal(confidenceInterval) * stderr
}
