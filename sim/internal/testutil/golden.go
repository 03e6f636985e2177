// Package testutil provides shared test infrastructure for the senere
// simulator: the golden dataset of hand-computed failure/repair timelines and
// tolerance-based assertion helpers.
package testutil

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/senere/senere/sim"
	"github.com/senere/senere/sim/topology"
)

// GoldenDataset represents the structure of testdata/goldendataset.yaml.
type GoldenDataset struct {
	Tests []GoldenTestCase `yaml:"tests"`
}

// GoldenTestCase is one scenario with its expected aggregate. Cases use
// fixed intervals and topologies where the crew's pick cannot change the
// counts, so the expectations hold for every seed.
type GoldenTestCase struct {
	Name       string        `yaml:"name"`
	Simulation sim.Config    `yaml:"simulation"`
	Topology   topology.Spec `yaml:"topology"`
	Metrics    GoldenMetrics `yaml:"metrics"`
}

// GoldenMetrics represents the expected summary of a golden test case.
type GoldenMetrics struct {
	FailedPMF        []float64 `yaml:"failed_pmf"`
	OfflinePMF       []float64 `yaml:"offline_pmf"`
	OperableFraction float64   `yaml:"operable_fraction"`
	MeanFailures     float64   `yaml:"mean_failures"`
	MeanRepairs      float64   `yaml:"mean_repairs"`
}

// LoadGoldenDataset loads the golden dataset from the repository testdata
// directory, resolved relative to this source file.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertPMFEqual compares two PMFs element-wise. Missing trailing entries
// count as zero.
func AssertPMFEqual(t *testing.T, name string, want, got []float64, relTol float64) {
	t.Helper()
	for i := range max(len(want), len(got)) {
		var w, g float64
		if i < len(want) {
			w = want[i]
		}
		if i < len(got) {
			g = got[i]
		}
		AssertFloat64Equal(t, fmt.Sprintf("%s[%d]", name, i), w, g, relTol)
	}
}
