package telemetry

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// YearStats is the statistics record for one completed year.
type YearStats struct {
	Year int `csv:"year" json:"year"`

	// Population after newborns joined
	AliveCount    int `csv:"alive_count" json:"alive_count"`
	AliveOriginal int `csv:"alive_original" json:"alive_original"`
	AliveNewborns int `csv:"alive_newborns" json:"alive_newborns"`

	// Deaths during the year
	DeadFromStarvation int `csv:"dead_from_starvation" json:"dead_from_starvation"`
	DeadFromOldAge     int `csv:"dead_from_old_age" json:"dead_from_old_age"`
	CumulativeDeaths   int `csv:"cumulative_deaths" json:"cumulative_deaths"`

	// Births
	BornThisYear     int `csv:"born_this_year" json:"born_this_year"`
	CumulativeBirths int `csv:"cumulative_births" json:"cumulative_births"`

	// Average ages (0 when the group is empty)
	AvgAgeAlive          float64 `csv:"avg_age_alive" json:"avg_age_alive"`
	AvgAgeDeadStarvation float64 `csv:"avg_age_dead_starvation" json:"avg_age_dead_starvation"`
	AvgAgeDeadOldAge     float64 `csv:"avg_age_dead_old_age" json:"avg_age_dead_old_age"`

	// Ages at death: starved first, then aged out
	DeathAges Ages `csv:"death_ages" json:"death_ages"`
}

// Deaths returns the number of deaths during the year.
func (s YearStats) Deaths() int {
	return s.DeadFromStarvation + s.DeadFromOldAge
}

// Ages is a list of ages serialised into one CSV cell as "[a, b, c]".
type Ages []int

// MarshalCSV implements gocsv.TypeMarshaller.
func (a Ages) MarshalCSV() (string, error) {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(v))
	}
	sb.WriteByte(']')
	return sb.String(), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (a *Ages) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		*a = Ages{}
		return nil
	}
	parts := strings.Split(s, ",")
	out := make(Ages, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("parsing death age %q: %w", p, err)
		}
		out = append(out, v)
	}
	*a = out
	return nil
}

// LogValue implements slog.LogValuer for structured logging.
func (s YearStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("year", s.Year),
		slog.Int("alive", s.AliveCount),
		slog.Int("alive_original", s.AliveOriginal),
		slog.Int("alive_newborns", s.AliveNewborns),
		slog.Int("dead_from_starvation", s.DeadFromStarvation),
		slog.Int("dead_from_old_age", s.DeadFromOldAge),
		slog.Int("cumulative_deaths", s.CumulativeDeaths),
		slog.Int("born_this_year", s.BornThisYear),
		slog.Int("cumulative_births", s.CumulativeBirths),
		slog.Float64("avg_age_alive", s.AvgAgeAlive),
		slog.Float64("avg_age_dead_starvation", s.AvgAgeDeadStarvation),
		slog.Float64("avg_age_dead_old_age", s.AvgAgeDeadOldAge),
	)
}

// LogStats logs the year stats on logger.
func (s YearStats) LogStats(logger *slog.Logger) {
	logger.Info("stats", "year_stats", s)
}
