package quality

// Interpretation is the classified view of one metric.
type Interpretation struct {
	Metric Metric `json:"metric" yaml:"metric"`
	Tier   Tier   `json:"tier" yaml:"tier"`
	Marker Marker `json:"marker" yaml:"marker"`
	Score  int    `json:"score" yaml:"score"`
}

// Interpretations maps each present metric to its interpretation.
type Interpretations map[Metric]Interpretation

// Get returns the interpretation for metric if the metric was present.
func (in Interpretations) Get(metric Metric) (Interpretation, bool) {
	interp, ok := in[metric]
	return interp, ok
}

// TierOf returns the tier of metric, or "" when the metric was not present.
func (in Interpretations) TierOf(metric Metric) Tier {
	return in[metric].Tier
}

// Interpret classifies every metric present in raw. Absent metrics are left
// out entirely rather than defaulted to a penalised tier.
func (t *Tables) Interpret(raw RawMeasurement) Interpretations {
	out := make(Interpretations, len(Metrics))
	codec := raw.CodecName()
	for _, metric := range Metrics {
		value, ok := raw.Value(metric)
		if !ok {
			continue
		}
		c := t.Classify(metric, value, codec)
		out[metric] = Interpretation{
			Metric: metric,
			Tier:   c.Tier,
			Marker: c.Marker,
			Score:  c.Score,
		}
	}
	return out
}
