package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPopulationCrash  BookmarkType = "population_crash"
	BookmarkBabyBoom         BookmarkType = "baby_boom"
	BookmarkExtinction       BookmarkType = "extinction"
	BookmarkStablePopulation BookmarkType = "stable_population"
)

// Bookmark marks a notable year of a run.
type Bookmark struct {
	Type        BookmarkType `json:"type"`
	Year        int          `json:"year"`
	Description string       `json:"description"`
}

// LogBookmark logs the bookmark.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	logger.Info("bookmark",
		"type", string(b.Type),
		"year", b.Year,
		"description", b.Description,
	)
}

// stableYears is how many consecutive steady years make a stable population.
const stableYears = 5

// BookmarkDetector watches yearly records for notable changes.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []YearStats
	historySize int
	historyIdx  int
	historyFull bool

	recentPeak  int // peak population since the last crash
	stableCount int // consecutive steady years
	extinct     bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < stableYears {
		historySize = stableYears
	}
	return &BookmarkDetector{
		history:     make([]YearStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest record and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(s YearStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkExtinction(s); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkBabyBoom(s); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkCrash(s); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(s)
	if s.AliveCount > bd.recentPeak {
		bd.recentPeak = s.AliveCount
	}

	if b := bd.checkStable(s); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(s YearStats) {
	bd.history[bd.historyIdx] = s
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the buffered records, oldest first.
func (bd *BookmarkDetector) getHistory() []YearStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]YearStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkExtinction(s YearStats) *Bookmark {
	if s.AliveCount > 0 {
		bd.extinct = false
		return nil
	}
	if bd.extinct {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkExtinction,
		Year:        s.Year,
		Description: fmt.Sprintf("Population died out after %d deaths", s.CumulativeDeaths),
	}
}

func (bd *BookmarkDetector) checkBabyBoom(s YearStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.BornThisYear
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(s.BornThisYear) > avg*2.0 && s.BornThisYear >= 5 {
		return &Bookmark{
			Type:        BookmarkBabyBoom,
			Year:        s.Year,
			Description: fmt.Sprintf("%d births is %.1fx average (%.1f)", s.BornThisYear, float64(s.BornThisYear)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCrash(s YearStats) *Bookmark {
	if bd.recentPeak == 0 {
		return nil
	}

	drop := 1.0 - float64(s.AliveCount)/float64(bd.recentPeak)
	if drop > 0.30 && s.AliveCount < bd.recentPeak-10 {
		oldPeak := bd.recentPeak
		bd.recentPeak = s.AliveCount
		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Year:        s.Year,
			Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", drop*100, oldPeak, s.AliveCount),
		}
	}
	return nil
}

// checkStable fires once when the population has kept a coefficient of
// variation under 10% for stableYears consecutive years.
func (bd *BookmarkDetector) checkStable(s YearStats) *Bookmark {
	if s.AliveCount < 10 {
		bd.stableCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < stableYears {
		return nil
	}
	window := history[len(history)-stableYears:]

	var sum float64
	for _, h := range window {
		sum += float64(h.AliveCount)
	}
	mean := sum / stableYears
	var variance float64
	for _, h := range window {
		d := float64(h.AliveCount) - mean
		variance += d * d
	}
	variance /= stableYears

	if variance/(mean*mean) < 0.01 {
		bd.stableCount++
	} else {
		bd.stableCount = 0
	}

	if bd.stableCount == stableYears {
		return &Bookmark{
			Type:        BookmarkStablePopulation,
			Year:        s.Year,
			Description: fmt.Sprintf("Population steady around %.0f for %d years", mean, stableYears),
		}
	}
	return nil
}
