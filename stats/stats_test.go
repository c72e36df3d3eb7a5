package stats

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStatsMeanRMS(t *testing.T) {
	var s Stats
	if s.Mean() != 0 {
		t.Fatalf("zero-value mean = %v, want 0", s.Mean())
	}
	if s.RMS() != -1 {
		t.Fatalf("zero-value rms = %v, want -1", s.RMS())
	}

	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Observe(v)
	}
	if got, want := s.Mean(), 5.0; got != want {
		t.Fatalf("mean = %v, want %v", got, want)
	}
	if got, want := s.RMS(), 2.138089935; math.Abs(got-want) > 1e-6 {
		t.Fatalf("rms = %v, want ~%v", got, want)
	}
}

func TestStatsSingleObservationRMS(t *testing.T) {
	var s Stats
	s.Observe(42)
	if s.RMS() != -1 {
		t.Fatalf("rms after one observation = %v, want -1", s.RMS())
	}
}

func TestStatsSampling(t *testing.T) {
	var s Stats
	s.Sample = true
	s.Observe(1)
	s.Observe(2)
	got := s.Samples()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("samples = %v, want [1 2]", got)
	}
}

func TestRecorderDumpCSVHeaderOnce(t *testing.T) {
	r := NewRecorder()
	r.Series("a").Observe(1)
	r.Series("a").Observe(3)
	r.Series("b").Observe(10)

	path := filepath.Join(t.TempDir(), "dump.csv")
	if err := r.DumpCSV(path, "t0"); err != nil {
		t.Fatal(err)
	}
	r.Series("a").Observe(5)
	if err := r.DumpCSV(path, "t1"); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header + two dumps): %q", len(lines), raw)
	}
	if !strings.HasPrefix(lines[0], "label,a.count") {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "t0,") || !strings.HasPrefix(lines[2], "t1,") {
		t.Fatalf("rows = %v", lines[1:])
	}
}
