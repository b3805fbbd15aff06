package risk

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
)

// MonteCarloSimulator resamples trade returns into compounded paths
type MonteCarloSimulator struct {
	config MonteCarloConfig
	rng    *rand.Rand
}

// NewMonteCarloSimulator creates a simulator. A zero seed draws from the clock.
func NewMonteCarloSimulator(config MonteCarloConfig) *MonteCarloSimulator {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &MonteCarloSimulator{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Simulate runs NumSimulations paths of Horizon trades each.
// Cancellation is checked between paths.
func (mc *MonteCarloSimulator) Simulate(ctx context.Context, tradeReturns []float64) (*MonteCarloResult, error) {
	if len(tradeReturns) == 0 {
		return nil, fmt.Errorf("%w: empty trade returns", ErrInsufficientData)
	}

	mean := Mean(tradeReturns)
	sd := StdDev(tradeReturns)

	paths := make([]float64, mc.config.NumSimulations)
	for i := range paths {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("monte carlo cancelled: %w", err)
			}
		}

		cum := 1.0
		for step := 0; step < mc.config.Horizon; step++ {
			var r float64
			if mc.config.Method == MethodParametricNormal {
				r = mean + sd*mc.rng.NormFloat64()
			} else {
				r = tradeReturns[mc.rng.Intn(len(tradeReturns))]
			}
			cum *= 1 + r
		}
		paths[i] = cum - 1
	}

	result := mc.summarize(paths)
	result.InputSampleCount = len(tradeReturns)
	return result, nil
}

// summarize computes distribution statistics of simulated path returns
func (mc *MonteCarloSimulator) summarize(paths []float64) *MonteCarloResult {
	sorted := make([]float64, len(paths))
	copy(sorted, paths)
	sort.Float64s(sorted)

	levels := make([]VaRResult, 0, len(mc.config.ConfidenceLevels))
	for _, cl := range mc.config.ConfidenceLevels {
		levels = append(levels, CalculateVaR(sorted, cl))
	}

	losses := 0
	for _, p := range sorted {
		if p < 0 {
			losses++
		}
	}

	percentiles := make(map[int]float64)
	for _, p := range []int{1, 5, 10, 25, 50, 75, 90, 95, 99} {
		percentiles[p] = Percentile(sorted, float64(p))
	}

	var probLoss float64
	if len(sorted) > 0 {
		probLoss = float64(losses) / float64(len(sorted))
	}

	return &MonteCarloResult{
		RunID:           uuid.New().String(),
		RunDate:         time.Now().UTC(),
		Config:          mc.config,
		MeanReturn:      Mean(paths),
		StdDev:          StdDev(paths),
		VaR:             levels,
		ProbabilityLoss: probLoss,
		Percentiles:     percentiles,
	}
}
