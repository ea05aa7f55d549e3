package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase is one ordered stage of a simulated year.
type Phase int

const (
	PhaseGrowth Phase = iota
	PhaseResolution
	PhaseReplacement
	PhaseReproduction // includes integration of the newborns
	PhaseStatistics
	numPhases
)

var phaseNames = [numPhases]string{"growth", "resolution", "replacement", "reproduction", "statistics"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases lists the year phases in execution order.
var Phases = []Phase{
	PhaseGrowth, PhaseResolution, PhaseReplacement, PhaseReproduction, PhaseStatistics,
}

// YearTiming is the wall time one year took, split by phase.
type YearTiming struct {
	Year       int
	Population int // live blobs when the year started
	Total      time.Duration
	Phases     [numPhases]time.Duration
}

// PerfCollector keeps the timings of the most recent years in a ring.
type PerfCollector struct {
	ring  []YearTiming
	next  int
	count int

	cur        YearTiming
	yearStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	// Viewer frames
	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over the last window years.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 10
	}
	return &PerfCollector{ring: make([]YearTiming, window)}
}

// StartYear begins timing year with the given starting population.
func (p *PerfCollector) StartYear(year, population int) {
	p.cur = YearTiming{Year: year, Population: population}
	p.yearStart = time.Now()
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.Phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// EndYear closes the running phase and stores the year.
func (p *PerfCollector) EndYear() {
	now := time.Now()
	p.closePhase(now)
	p.cur.Total = now.Sub(p.yearStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame marks the end of a viewer frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// Timings returns the stored years, oldest first.
func (p *PerfCollector) Timings() []YearTiming {
	out := make([]YearTiming, 0, p.count)
	start := (p.next - p.count + len(p.ring)) % len(p.ring)
	for i := 0; i < p.count; i++ {
		out = append(out, p.ring[(start+i)%len(p.ring)])
	}
	return out
}

// PhaseTiming is a phase's mean duration and its share of the mean year.
type PhaseTiming struct {
	Avg time.Duration
	Pct float64
}

// PerfStats summarises the years in the window.
type PerfStats struct {
	FirstYear, LastYear int
	Years               int

	AvgYear    time.Duration
	StdDevYear time.Duration
	MaxYear    time.Duration
	Phase      [numPhases]PhaseTiming

	AvgPopulation float64
	// Resolution time per live blob; the step phase is linear in population
	ResolutionPerBlob time.Duration
	YearsPerSecond    float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{FrameDuration: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}

	timings := p.Timings()
	if len(timings) == 0 {
		return s
	}
	s.FirstYear = timings[0].Year
	s.LastYear = timings[len(timings)-1].Year
	s.Years = len(timings)

	totals := make([]float64, len(timings))
	pops := make([]float64, len(timings))
	perPhase := make([][]float64, numPhases)
	for i, t := range timings {
		totals[i] = float64(t.Total)
		pops[i] = float64(t.Population)
		for ph := range perPhase {
			perPhase[ph] = append(perPhase[ph], float64(t.Phases[ph]))
		}
	}

	mean, std := stat.MeanStdDev(totals, nil)
	if len(totals) < 2 {
		std = 0
	}
	s.AvgYear = time.Duration(mean)
	s.StdDevYear = time.Duration(std)
	s.MaxYear = time.Duration(floats.Max(totals))
	s.AvgPopulation = stat.Mean(pops, nil)

	for ph := range perPhase {
		avg := stat.Mean(perPhase[ph], nil)
		s.Phase[ph].Avg = time.Duration(avg)
		if mean > 0 {
			s.Phase[ph].Pct = avg / mean * 100
		}
	}
	if s.AvgPopulation > 0 {
		s.ResolutionPerBlob = time.Duration(float64(s.Phase[PhaseResolution].Avg) / s.AvgPopulation)
	}
	if mean > 0 {
		s.YearsPerSecond = float64(time.Second) / mean
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("first_year", s.FirstYear),
		slog.Int("last_year", s.LastYear),
		slog.Int64("avg_year_us", s.AvgYear.Microseconds()),
		slog.Int64("stddev_year_us", s.StdDevYear.Microseconds()),
		slog.Float64("years_per_sec", s.YearsPerSecond),
		slog.Int64("resolution_per_blob_ns", s.ResolutionPerBlob.Nanoseconds()),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, ph := range Phases {
		if pct := s.Phase[ph].Pct; pct > 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the timing summary on logger.
func (s PerfStats) LogStats(logger *slog.Logger) {
	logger.Info("perf", "perf", s)
}

// PerfRow is one perf.csv row.
type PerfRow struct {
	FirstYear           int     `csv:"first_year"`
	LastYear            int     `csv:"last_year"`
	AvgPopulation       float64 `csv:"avg_population"`
	AvgYearUS           int64   `csv:"avg_year_us"`
	StdDevYearUS        int64   `csv:"stddev_year_us"`
	MaxYearUS           int64   `csv:"max_year_us"`
	ResolutionPerBlobNS int64   `csv:"resolution_per_blob_ns"`
	GrowthPct           float64 `csv:"growth_pct"`
	ResolutionPct       float64 `csv:"resolution_pct"`
	ReplacementPct      float64 `csv:"replacement_pct"`
	ReproductionPct     float64 `csv:"reproduction_pct"`
	StatisticsPct       float64 `csv:"statistics_pct"`
}

// Row flattens the summary for perf.csv.
func (s PerfStats) Row() PerfRow {
	return PerfRow{
		FirstYear:           s.FirstYear,
		LastYear:            s.LastYear,
		AvgPopulation:       s.AvgPopulation,
		AvgYearUS:           s.AvgYear.Microseconds(),
		StdDevYearUS:        s.StdDevYear.Microseconds(),
		MaxYearUS:           s.MaxYear.Microseconds(),
		ResolutionPerBlobNS: s.ResolutionPerBlob.Nanoseconds(),
		GrowthPct:           s.Phase[PhaseGrowth].Pct,
		ResolutionPct:       s.Phase[PhaseResolution].Pct,
		ReplacementPct:      s.Phase[PhaseReplacement].Pct,
		ReproductionPct:     s.Phase[PhaseReproduction].Pct,
		StatisticsPct:       s.Phase[PhaseStatistics].Pct,
	}
}
