package game

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/orchard/store"
	"github.com/pthm-cable/orchard/telemetry"
)

// Summary describes a finished run.
type Summary struct {
	RunID           uuid.UUID
	Seed            int64
	Years           int
	FinalPopulation int
	TotalBirths     int
	TotalDeaths     int
	Genes           []telemetry.GeneReport
}

// Run advances the world until run.years_to_run years have been stepped or
// ctx is cancelled, then finishes the run.
func (w *World) Run(ctx context.Context) (Summary, error) {
	for !w.Done() {
		if err := ctx.Err(); err != nil {
			w.logger.Warn("run interrupted", "year", w.year, "error", err)
			sum, ferr := w.Finish(context.WithoutCancel(ctx))
			return sum, errors.Join(err, ferr)
		}
		w.Advance()
	}
	return w.Finish(ctx)
}

// Finish writes the end-of-run outputs: the gene comparison, the death
// probability by age and the final SQLite rows. It is safe to call more
// than once; later calls only rebuild the summary.
func (w *World) Finish(ctx context.Context) (Summary, error) {
	finalGenes := w.GeneDistribution()
	sum := Summary{
		RunID:           w.runID,
		Seed:            w.seed,
		Years:           w.collector.Len(),
		FinalPopulation: len(w.pop),
		TotalBirths:     w.totalBirths,
		Genes:           telemetry.CompareGenes(w.initialGenes, w.initialTotal, finalGenes, len(w.pop)),
	}
	if last, ok := w.collector.Last(); ok {
		sum.TotalDeaths = last.CumulativeDeaths
	}
	if w.finished {
		return sum, nil
	}
	w.finished = true

	var errs []error
	if err := w.outputManager.WriteGenes(sum.Genes); err != nil {
		errs = append(errs, err)
	}
	deathAges := telemetry.ExtractDeathAges(w.collector.Records())
	if err := w.outputManager.WriteDeathProbability(telemetry.DeathProbability(deathAges)); err != nil {
		errs = append(errs, err)
	}
	if w.results != nil {
		if err := w.results.InsertGenes(ctx, w.runID, store.PhaseFinal, finalGenes, len(w.pop)); err != nil {
			errs = append(errs, err)
		}
		if err := w.results.FinishRun(ctx, w.runID, time.Now()); err != nil {
			errs = append(errs, err)
		}
	}

	w.logger.Info("run finished",
		"years", sum.Years,
		"population", sum.FinalPopulation,
		"births", sum.TotalBirths,
		"deaths", sum.TotalDeaths,
	)
	for _, g := range sum.Genes {
		w.logger.Debug("gene share",
			"gene", g.Gene,
			"initial_pct", g.InitialShare,
			"final_pct", g.FinalShare,
		)
	}
	return sum, errors.Join(errs...)
}

// Close releases the output files and the results database.
func (w *World) Close() error {
	var errs []error
	if w.outputManager != nil {
		errs = append(errs, w.outputManager.Close())
		w.outputManager = nil
	}
	if w.results != nil {
		errs = append(errs, w.results.Close())
		w.results = nil
	}
	return errors.Join(errs...)
}
