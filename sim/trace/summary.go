package trace

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrNoVectors is returned when averaging zero PMF vectors.
	ErrNoVectors = errors.New("no vectors to average")
	// ErrNoRuns is returned when aggregating zero runs.
	ErrNoRuns = errors.New("no runs to aggregate")
)

// AveragePMFs pads every vector with zeros to the longest support and
// returns their element-wise mean.
func AveragePMFs(vectors [][]float64) ([]float64, error) {
	if len(vectors) == 0 {
		return nil, ErrNoVectors
	}
	order := 0
	for _, v := range vectors {
		order = max(order, len(v))
	}
	sum := make([]float64, order)
	padded := make([]float64, order)
	for _, v := range vectors {
		clear(padded)
		copy(padded, v)
		floats.Add(sum, padded)
	}
	floats.Scale(1/float64(len(vectors)), sum)
	return sum, nil
}

// Summary aggregates statistics across independent runs.
type Summary struct {
	Runs             int       `yaml:"runs"`
	FailedPMF        []float64 `yaml:"failed_pmf"`
	OfflinePMF       []float64 `yaml:"offline_pmf"`
	OperableFraction float64   `yaml:"operable_fraction"`
	MeanFailures     float64   `yaml:"mean_failures"`
	MeanRepairs      float64   `yaml:"mean_repairs"`
}

// Aggregate averages run results: PMFs element-wise, scalars by mean.
func Aggregate(results []RunResult) (*Summary, error) {
	if len(results) == 0 {
		return nil, ErrNoRuns
	}
	var (
		failed, offline            [][]float64
		operable, nFail, nRepaired []float64
	)
	for _, r := range results {
		failed = append(failed, r.FailedPMF)
		offline = append(offline, r.OfflinePMF)
		operable = append(operable, r.OperableFraction)
		nFail = append(nFail, float64(r.Failures))
		nRepaired = append(nRepaired, float64(r.Repairs))
	}
	failedPMF, err := AveragePMFs(failed)
	if err != nil {
		return nil, err
	}
	offlinePMF, err := AveragePMFs(offline)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Runs:             len(results),
		FailedPMF:        failedPMF,
		OfflinePMF:       offlinePMF,
		OperableFraction: stat.Mean(operable, nil),
		MeanFailures:     stat.Mean(nFail, nil),
		MeanRepairs:      stat.Mean(nRepaired, nil),
	}, nil
}
