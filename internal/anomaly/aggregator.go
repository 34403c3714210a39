package anomaly

// Aggregator runs every registered detector over a sample in a fixed
// registration order. Detectors never suppress each other; two may fire
// on the same sample.
type Aggregator struct {
	detectors []Detector
}

// NewAggregator creates an aggregator with the stock detector set.
func NewAggregator() *Aggregator {
	return &Aggregator{detectors: []Detector{
		jumpDetector{},
		speedDetector{},
		stillnessDetector{},
		commGapDetector{},
		vitalsDetector{},
		nightMovementDetector{},
	}}
}

// RunAll collects the verdicts of every detector that fired.
func (a *Aggregator) RunAll(s BehaviorSample, ctx Context) []Verdict {
	var verdicts []Verdict
	for _, d := range a.detectors {
		if v, ok := d.Detect(s, ctx); ok {
			verdicts = append(verdicts, v)
		}
	}
	return verdicts
}

// Detectors returns the registered detector names in run order.
func (a *Aggregator) Detectors() []string {
	names := make([]string, len(a.detectors))
	for i, d := range a.detectors {
		names[i] = d.Name()
	}
	return names
}
