package session

import (
	"sort"

	"dubscore/internal/quality"
)

// Recommend picks the successful record with the strictly highest overall
// score. Ties keep the first record encountered; failed records are ignored.
func Recommend(records []quality.Record) (quality.Record, bool) {
	var (
		best  quality.Record
		found bool
	)
	for _, rec := range records {
		if !rec.Succeeded() {
			continue
		}
		if !found || rec.OverallScore > best.OverallScore {
			best = rec
			found = true
		}
	}
	return best, found
}

// Rank returns the successful records sorted by overall score, highest
// first. Equal scores keep their input order, so Rank(records)[0] is always
// Recommend(records).
func Rank(records []quality.Record) []quality.Record {
	out := successful(records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OverallScore > out[j].OverallScore
	})
	return out
}
