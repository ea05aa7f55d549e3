package telemetry

import (
	"fmt"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// StatsSchema is the columnar layout of the yearly stats table.
var StatsSchema = arrow.NewSchema([]arrow.Field{
	{Name: "year", Type: arrow.PrimitiveTypes.Int64},
	{Name: "alive_count", Type: arrow.PrimitiveTypes.Int64},
	{Name: "alive_original", Type: arrow.PrimitiveTypes.Int64},
	{Name: "alive_newborns", Type: arrow.PrimitiveTypes.Int64},
	{Name: "dead_from_starvation", Type: arrow.PrimitiveTypes.Int64},
	{Name: "dead_from_old_age", Type: arrow.PrimitiveTypes.Int64},
	{Name: "cumulative_deaths", Type: arrow.PrimitiveTypes.Int64},
	{Name: "born_this_year", Type: arrow.PrimitiveTypes.Int64},
	{Name: "cumulative_births", Type: arrow.PrimitiveTypes.Int64},
	{Name: "avg_age_alive", Type: arrow.PrimitiveTypes.Float64},
	{Name: "avg_age_dead_starvation", Type: arrow.PrimitiveTypes.Float64},
	{Name: "avg_age_dead_old_age", Type: arrow.PrimitiveTypes.Float64},
	{Name: "death_ages", Type: arrow.ListOf(arrow.PrimitiveTypes.Int64)},
}, nil)

// ArrowWriter buffers yearly stats and writes them as one record batch
// into an Arrow IPC file on Close.
type ArrowWriter struct {
	file    *os.File
	mem     memory.Allocator
	builder *array.RecordBuilder
	rows    int
}

// NewArrowWriter creates path and prepares the builder.
func NewArrowWriter(path string) (*ArrowWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	mem := memory.NewGoAllocator()
	return &ArrowWriter{
		file:    f,
		mem:     mem,
		builder: array.NewRecordBuilder(mem, StatsSchema),
	}, nil
}

// Append adds one year to the pending batch.
func (w *ArrowWriter) Append(s YearStats) {
	ints := []int{
		s.Year, s.AliveCount, s.AliveOriginal, s.AliveNewborns,
		s.DeadFromStarvation, s.DeadFromOldAge, s.CumulativeDeaths,
		s.BornThisYear, s.CumulativeBirths,
	}
	for i, v := range ints {
		w.builder.Field(i).(*array.Int64Builder).Append(int64(v))
	}
	w.builder.Field(9).(*array.Float64Builder).Append(s.AvgAgeAlive)
	w.builder.Field(10).(*array.Float64Builder).Append(s.AvgAgeDeadStarvation)
	w.builder.Field(11).(*array.Float64Builder).Append(s.AvgAgeDeadOldAge)

	lb := w.builder.Field(12).(*array.ListBuilder)
	lb.Append(true)
	vb := lb.ValueBuilder().(*array.Int64Builder)
	for _, a := range s.DeathAges {
		vb.Append(int64(a))
	}
	w.rows++
}

// Rows returns the number of buffered years.
func (w *ArrowWriter) Rows() int {
	return w.rows
}

// Close writes the batch and closes the file.
func (w *ArrowWriter) Close() error {
	defer w.builder.Release()

	fw, err := ipc.NewFileWriter(w.file, ipc.WithSchema(StatsSchema), ipc.WithAllocator(w.mem))
	if err != nil {
		w.file.Close()
		return fmt.Errorf("creating arrow writer: %w", err)
	}

	rec := w.builder.NewRecord()
	defer rec.Release()

	if err := fw.Write(rec); err != nil {
		fw.Close()
		w.file.Close()
		return fmt.Errorf("writing arrow record: %w", err)
	}
	if err := fw.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("closing arrow writer: %w", err)
	}
	return w.file.Close()
}

// ReadArrowStats loads a stats file written by ArrowWriter.
func ReadArrowStats(path string) ([]YearStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("reading arrow file: %w", err)
	}
	defer r.Close()

	var out []YearStats
	for i := 0; i < r.NumRecords(); i++ {
		rec, err := r.Record(i)
		if err != nil {
			return nil, fmt.Errorf("reading record %d: %w", i, err)
		}
		out = append(out, decodeStatsRecord(rec)...)
	}
	return out, nil
}

func decodeStatsRecord(rec arrow.Record) []YearStats {
	n := int(rec.NumRows())
	col := func(i int) *array.Int64 { return rec.Column(i).(*array.Int64) }
	fcol := func(i int) *array.Float64 { return rec.Column(i).(*array.Float64) }
	lists := rec.Column(12).(*array.List)
	values := lists.ListValues().(*array.Int64)
	offsets := lists.Offsets()

	out := make([]YearStats, n)
	for row := 0; row < n; row++ {
		s := YearStats{
			Year:                 int(col(0).Value(row)),
			AliveCount:           int(col(1).Value(row)),
			AliveOriginal:        int(col(2).Value(row)),
			AliveNewborns:        int(col(3).Value(row)),
			DeadFromStarvation:   int(col(4).Value(row)),
			DeadFromOldAge:       int(col(5).Value(row)),
			CumulativeDeaths:     int(col(6).Value(row)),
			BornThisYear:         int(col(7).Value(row)),
			CumulativeBirths:     int(col(8).Value(row)),
			AvgAgeAlive:          fcol(9).Value(row),
			AvgAgeDeadStarvation: fcol(10).Value(row),
			AvgAgeDeadOldAge:     fcol(11).Value(row),
		}
		ages := make(Ages, 0, offsets[row+1]-offsets[row])
		for j := offsets[row]; j < offsets[row+1]; j++ {
			ages = append(ages, int(values.Value(int(j))))
		}
		s.DeathAges = ages
		out[row] = s
	}
	return out
}
