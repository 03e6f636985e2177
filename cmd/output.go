package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"gopkg.in/yaml.v3"

	"github.com/senere/senere/sim/trace"
)

// printSummary displays the aggregated results of all runs.
func printSummary(w io.Writer, s *trace.Summary, elapsed time.Duration) {
	fmt.Fprintln(w, "=== Simulation Summary ===")
	fmt.Fprintf(w, "Runs                 : %d\n", s.Runs)
	fmt.Fprintf(w, "Operable fraction    : %.4f\n", s.OperableFraction)
	fmt.Fprintf(w, "Mean failures        : %.2f\n", s.MeanFailures)
	fmt.Fprintf(w, "Mean repairs         : %.2f\n", s.MeanRepairs)
	printPMF(w, "Failed sensors PMF", s.FailedPMF)
	printPMF(w, "Offline sensors PMF", s.OfflinePMF)
	if elapsed > 0 {
		fmt.Fprintf(w, "Wall time            : %s\n", elapsed.Round(time.Millisecond))
	}
}

func printPMF(w io.Writer, title string, pmf []float64) {
	fmt.Fprintf(w, "%s:\n", title)
	for n, p := range pmf {
		if p == 0 {
			continue
		}
		fmt.Fprintf(w, "  %3d : %.4f\n", n, p)
	}
}

// writeSummaryYAML saves the summary so that runs can be compared later.
func writeSummaryYAML(path string, s *trace.Summary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// writeMetrics dumps every family of g to path in the Prometheus text
// exposition format.
func writeMetrics(path string, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			f.Close()
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return f.Close()
}
