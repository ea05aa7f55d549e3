package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/orchard/config"
	"github.com/pthm-cable/orchard/logging"
)

// Output files.
const (
	bestConfigFile = "best_config.yaml"
	logFile        = "calibrate_log.csv"
)

// evalRow is one line of calibrate_log.csv.
type evalRow struct {
	Eval                 int     `csv:"eval"`
	Fitness              float64 `csv:"fitness"`
	MeanPopulation       float64 `csv:"mean_population"`
	AppleGrowProbability float64 `csv:"apple_grow_probability"`
	AppleEnergyGain      float64 `csv:"apple_energy_gain"`
	BaseDeathProbability float64 `csv:"base_death_probability"`
}

func newRow(eval int, fitness, mean float64, values []float64) evalRow {
	return evalRow{
		Eval:                 eval,
		Fitness:              fitness,
		MeanPopulation:       mean,
		AppleGrowProbability: values[0],
		AppleEnergyGain:      values[1],
		BaseDeathProbability: values[2],
	}
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

type options struct {
	configPath string
	outputDir  string
	target     float64
	seeds      int
	maxEvals   int
	population int
	years      int
	logLevel   string
}

func main() {
	var opts options
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Search apple and mortality parameters for a target population",
		Long: `calibrate runs headless orchards under CMA-ES, adjusting
apple_grow_probability, apple_energy_gain and base_death_probability until
the mean final population across seeds approaches --target.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	cmd.Flags().StringVar(&opts.outputDir, "output", "", "Output directory for results")
	cmd.Flags().Float64Var(&opts.target, "target", 0, "Target final population (0 = world.num_blobs)")
	cmd.Flags().IntVar(&opts.seeds, "seeds", 3, "Number of seeds per evaluation")
	cmd.Flags().IntVar(&opts.maxEvals, "max-evals", 100, "Maximum number of evaluations")
	cmd.Flags().IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	cmd.Flags().IntVar(&opts.years, "years", 0, "Years per run (0 = run.years_to_run)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.MarkFlagRequired("output")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(opts options) error {
	logger := logging.NewLogger(opts.logLevel, "text", os.Stderr)

	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.years > 0 {
		baseCfg.Run.YearsToRun = opts.years
	}
	target := opts.target
	if target <= 0 {
		target = float64(baseCfg.World.NumBlobs)
	}

	params := NewParamVector(baseCfg)

	evalSeeds := make([]int64, opts.seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, evalSeeds, baseCfg, target)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: opts.maxEvals,
		Concurrent:      0, // seeds already run in parallel
	}

	logPath := filepath.Join(opts.outputDir, logFile)
	f, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer f.Close()

	evalCount := 0
	bestFitness := 1e18
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = append([]float64(nil), clamped...)
			}

			rows := []evalRow{newRow(evalCount, fitness, evaluator.LastMean(), clamped)}
			marshal := gocsv.MarshalWithoutHeaders
			if evalCount == 1 {
				marshal = gocsv.Marshal
			}
			if err := marshal(&rows, f); err != nil {
				logger.Warn("writing calibrate log", "error", err)
			}

			elapsed := time.Since(startTime)
			remaining := time.Duration(opts.maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			logger.Info("evaluation",
				"eval", evalCount,
				"of", opts.maxEvals,
				"fitness", fitness,
				"mean_population", evaluator.LastMean(),
				"best", bestFitness,
				"elapsed", formatDuration(elapsed),
				"eta", formatDuration(remaining),
			)
			return fitness
		},
	}

	logger.Info("starting CMA-ES",
		"params", dim,
		"population", popSize,
		"max_evals", opts.maxEvals,
		"seeds", opts.seeds,
		"years", baseCfg.Run.YearsToRun,
		"target", target,
	)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		logger.Warn("optimization ended", "error", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		return fmt.Errorf("no evaluations completed")
	}

	logger.Info("calibration complete",
		"evals", evalCount,
		"duration", formatDuration(time.Since(startTime)),
		"best_fitness", bestFitness,
	)
	for i, spec := range params.Specs {
		logger.Info("best parameter", "name", spec.Name, "path", spec.Path, "value", bestParams[i])
	}

	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, bestParams)
	configOutPath := filepath.Join(opts.outputDir, bestConfigFile)
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	logger.Info("best config saved", "path", configOutPath, "log", logPath)
	return nil
}
