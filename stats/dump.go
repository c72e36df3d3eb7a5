package stats

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
)

// Recorder holds the named Stats accumulators for a running graph (one per
// node or edge that opted into telemetry) and can dump them as a CSV
// snapshot. Grounded on xtaci-kcptun/std/snmp.go's periodic SNMP CSV
// dumper, adapted to simulated rather than wall-clock time: the caller
// decides when a dump happens (typically from a sim.Simulation timer),
// Recorder only knows how to render one.
type Recorder struct {
	series map[string]*Stats
}

// NewRecorder constructs an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{series: make(map[string]*Stats)}
}

// Series returns the named accumulator, creating it on first use.
func (r *Recorder) Series(name string) *Stats {
	s, ok := r.series[name]
	if !ok {
		s = &Stats{}
		r.series[name] = s
	}
	return s
}

// DumpCSV appends one row per series to the CSV file at path, writing a
// header first if the file is new or empty. label prefixes the row (e.g.
// a simulated timestamp) so successive dumps to the same file form a time
// series, matching std/snmp.go's Unix-column convention.
func (r *Recorder) DumpCSV(path string, label string) error {
	names := make([]string, 0, len(r.series))
	for name := range r.series {
		names = append(names, name)
	}
	sort.Strings(names)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if stat, err := f.Stat(); err == nil && stat.Size() == 0 {
		header := []string{"label"}
		for _, name := range names {
			header = append(header, name+".count", name+".mean", name+".rms")
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}

	row := []string{label}
	for _, name := range names {
		s := r.series[name]
		row = append(row, fmt.Sprint(s.Count()), fmt.Sprint(s.Mean()), fmt.Sprint(s.RMS()))
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
