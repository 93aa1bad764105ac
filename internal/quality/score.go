package quality

import "math"

// Aggregate computes the weighted overall score over the metrics present in
// in. Absent metrics contribute neither score nor weight. With nothing
// present, or with only zero-weight metrics, the neutral score 50 is
// returned. The result is rounded half up and clamped to [0, 100].
func (t *Tables) Aggregate(in Interpretations) int {
	var weighted, totalWeight float64
	for _, metric := range Metrics {
		interp, ok := in[metric]
		if !ok {
			continue
		}
		w := t.Weight(metric)
		weighted += float64(interp.Score) * w
		totalWeight += w
	}
	if totalWeight <= 0 {
		return scoreNeutral
	}
	return clampScore(roundHalfUp(weighted / totalWeight))
}

// roundEpsilon absorbs float error so that 82.4999999 computed from an exact
// 82.5 still rounds up.
const roundEpsilon = 1e-9

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5 + roundEpsilon))
}

func clampScore(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
