package quality

import (
	"math"
	"strings"
)

// Band is one named inclusive interval of a classification table.
type Band struct {
	Tier Tier
	Min  float64
	Max  float64
}

// Contains reports whether value lies inside the band, bounds included.
// NaN is never contained.
func (b Band) Contains(value float64) bool {
	return value >= b.Min && value <= b.Max
}

// Table is an ordered list of bands. Earlier bands win when bands overlap.
type Table []Band

// Lookup returns the tier of the first band containing value.
func (t Table) Lookup(value float64) (Tier, bool) {
	for _, band := range t {
		if band.Contains(value) {
			return band.Tier, true
		}
	}
	return "", false
}

// Tiers lists the table's tiers in declared order.
func (t Table) Tiers() []Tier {
	tiers := make([]Tier, 0, len(t))
	for _, band := range t {
		tiers = append(tiers, band.Tier)
	}
	return tiers
}

// Classification is the result of classifying one value.
type Classification struct {
	Tier   Tier
	Marker Marker
	Score  int
}

// Classify maps a single measurement onto its tier, severity marker, and
// sub-score. codec only matters for MetricBitRate and is matched
// case-insensitively; unknown or lossless codecs use the default bit rate
// table. DC offset is classified by magnitude. A value outside every band
// falls back to poor.
func (t *Tables) Classify(metric Metric, value float64, codec string) Classification {
	table := t.tableFor(metric, codec)
	if metric == MetricDCOffset {
		value = math.Abs(value)
	}
	tier, ok := table.Lookup(value)
	if !ok {
		return Classification{Tier: TierPoor, Marker: MarkerFail, Score: scorePoor}
	}
	return Classification{Tier: tier, Marker: t.MarkerFor(tier), Score: t.ScoreFor(tier)}
}

func (t *Tables) tableFor(metric Metric, codec string) Table {
	if metric != MetricBitRate {
		return t.bands[metric]
	}
	if table, ok := t.bitRate[strings.ToLower(strings.TrimSpace(codec))]; ok {
		return table
	}
	return t.bitRate[CodecDefault]
}

// TableFor exposes the band table used for metric and codec.
func (t *Tables) TableFor(metric Metric, codec string) Table {
	table := t.tableFor(metric, codec)
	out := make(Table, len(table))
	copy(out, table)
	return out
}
