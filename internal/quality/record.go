package quality

import (
	"strings"
	"time"
)

// Outcome reports whether a file could be measured at all.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Identity names a candidate file.
type Identity struct {
	Name      string `json:"filename" yaml:"filename"`
	Path      string `json:"path" yaml:"path"`
	CleanName string `json:"clean_name,omitempty" yaml:"clean_name,omitempty"`
}

// Record bundles everything known about one candidate file. Records are
// produced by Evaluate or Failed and are not modified once inserted into a
// session.
type Record struct {
	Identity        `yaml:",inline"`
	Raw             RawMeasurement  `json:"raw" yaml:"raw"`
	Interpretations Interpretations `json:"interpretations,omitempty" yaml:"interpretations,omitempty"`
	OverallScore    int             `json:"overall_score" yaml:"overall_score"`
	Problems        []Problem       `json:"problems,omitempty" yaml:"problems,omitempty"`
	Outcome         Outcome         `json:"outcome" yaml:"outcome"`
	FailureReason   string          `json:"failure_reason,omitempty" yaml:"failure_reason,omitempty"`
	OutputDir       string          `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	FragmentPath    string          `json:"fragment_path,omitempty" yaml:"fragment_path,omitempty"`
	AnalyzedAt      time.Time       `json:"analyzed_at" yaml:"analyzed_at"`
}

// Evaluate interprets raw, scores it, and detects problems.
func (t *Tables) Evaluate(id Identity, raw RawMeasurement) Record {
	interps := t.Interpret(raw)
	return Record{
		Identity:        id,
		Raw:             raw,
		Interpretations: interps,
		OverallScore:    t.Aggregate(interps),
		Problems:        Detect(raw, interps),
		Outcome:         OutcomeSuccess,
		AnalyzedAt:      time.Now().UTC(),
	}
}

// Failed builds the record of a file whose measurements could not be taken.
func Failed(id Identity, reason string) Record {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "analysis failed"
	}
	return Record{
		Identity:      id,
		Outcome:       OutcomeFailure,
		FailureReason: reason,
		AnalyzedAt:    time.Now().UTC(),
	}
}

// Succeeded reports whether the record takes part in ranking.
func (r Record) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}

// ProblemMessages returns the problem strings in detection order.
func (r Record) ProblemMessages() []string {
	return Messages(r.Problems)
}

// Marker returns the severity marker of metric, or MarkerUnknown when the
// metric was not interpreted.
func (r Record) Marker(metric Metric) Marker {
	if interp, ok := r.Interpretations[metric]; ok {
		return interp.Marker
	}
	return MarkerUnknown
}
