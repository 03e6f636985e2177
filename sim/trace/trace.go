package trace

// Collector gathers the statistics of one failure/repair run: the number of
// failed sensors, the number of offline sensors and whether the network is
// operable (no repair in progress), each as a step function over time.
type Collector struct {
	Failed   *Trace
	Offline  *Trace
	Operable *Trace

	Failures       int // failure events handled
	Repairs        int // repairs completed
	RepairsStarted int // repair campaigns opened (threshold reached)
}

// NewCollector creates a Collector ready for recording.
func NewCollector() *Collector {
	return &Collector{
		Failed:   NewTrace(),
		Offline:  NewTrace(),
		Operable: NewTrace(),
	}
}

// RecordCounts samples the failed and offline sensor counts at t.
func (c *Collector) RecordCounts(t float64, failed, offline int) {
	c.Failed.Record(t, failed)
	c.Offline.Record(t, offline)
}

// RecordOperable samples the operable flag at t.
func (c *Collector) RecordOperable(t float64, operable bool) {
	v := 0
	if operable {
		v = 1
	}
	c.Operable.Record(t, v)
}

// RunResult is the per-run outcome derived from a Collector.
type RunResult struct {
	FailedPMF        []float64 `yaml:"failed_pmf"`
	OfflinePMF       []float64 `yaml:"offline_pmf"`
	OperableFraction float64   `yaml:"operable_fraction"`
	Failures         int       `yaml:"failures"`
	Repairs          int       `yaml:"repairs"`
	RepairsStarted   int       `yaml:"repairs_started"`
}

// Result closes the traces at end and derives the run statistics.
func (c *Collector) Result(end float64) RunResult {
	return RunResult{
		FailedPMF:        c.Failed.PMF(end),
		OfflinePMF:       c.Offline.PMF(end),
		OperableFraction: c.Operable.TimeAverage(end),
		Failures:         c.Failures,
		Repairs:          c.Repairs,
		RepairsStarted:   c.RepairsStarted,
	}
}
