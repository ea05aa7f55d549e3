package main

import (
	"math"
	"math/rand"
	"sync"

	"github.com/pthm-cable/orchard/config"
	"github.com/pthm-cable/orchard/game"
)

// extinctionPenalty is added per seed whose population died out.
const extinctionPenalty = 1.0

// FitnessEvaluator runs headless worlds and scores their final population.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []int64
	baseConfig *config.Config
	target     float64

	mu       sync.Mutex
	lastMean float64 // mean final population from the most recent Evaluate
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, seeds []int64, baseCfg *config.Config, target float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		seeds:      seeds,
		baseConfig: baseCfg,
		target:     target,
	}
}

// LastMean returns the mean final population of the most recent evaluation.
func (fe *FitnessEvaluator) LastMean() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMean
}

// Evaluate computes fitness for raw parameter values (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	finals := make([]int, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			finals[idx] = runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	fitness, mean := populationFitness(finals, fe.target)
	fe.mu.Lock()
	fe.lastMean = mean
	fe.mu.Unlock()
	return fitness
}

// runSimulation steps a world for run.years_to_run years and returns the
// final population. Invalid configurations score as extinct.
func runSimulation(cfg *config.Config, seed int64) int {
	w, err := game.NewWorld(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return 0
	}
	for !w.Done() && w.PopulationSize() > 0 {
		w.Advance()
	}
	return w.PopulationSize()
}

// populationFitness is the squared relative distance between the mean
// final population and target, plus a penalty per extinct seed.
func populationFitness(finals []int, target float64) (fitness, mean float64) {
	if len(finals) == 0 {
		return math.Inf(1), 0
	}
	var sum float64
	extinct := 0
	for _, n := range finals {
		sum += float64(n)
		if n == 0 {
			extinct++
		}
	}
	mean = sum / float64(len(finals))
	scale := math.Max(target, 1)
	d := (mean - target) / scale
	return d*d + extinctionPenalty*float64(extinct), mean
}
