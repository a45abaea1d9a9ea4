package control

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"
)

// Summary describes the buffered trajectory relative to the current target.
type Summary struct {
	Mean       float64
	StdDev     float64
	Min        float64
	Max        float64
	FinalError float64
	// SettledAt is the time of the first sample from which every later sample stays within the
	// margin of the target, or -1 if the last sample is outside it.
	SettledAt float64
}

// Summarize computes a Summary of samples against target. An empty slice yields a zero Summary
// that has not settled.
func Summarize(samples []Sample, target, margin float64) Summary {
	s := Summary{SettledAt: -1}
	if len(samples) == 0 {
		return s
	}
	values := stats.Float64Data(lo.Map(samples, func(sample Sample, _ int) float64 {
		return sample.Value
	}))

	// the only error stats returns for these is on empty input, which is handled above
	s.Mean, _ = values.Mean()
	s.StdDev, _ = values.StandardDeviation()
	s.Min, _ = values.Min()
	s.Max, _ = values.Max()
	s.FinalError = target - samples[len(samples)-1].Value

	for i := len(samples) - 1; i >= 0; i-- {
		if math.Abs(target-samples[i].Value) > margin {
			break
		}
		s.SettledAt = samples[i].Time
	}
	return s
}
