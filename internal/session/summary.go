package session

import (
	"time"

	"dubscore/internal/quality"
)

// Summary is the machine-readable digest of a session.
type Summary struct {
	SessionID        string    `json:"session_id" yaml:"session_id"`
	TotalFiles       int       `json:"total_files" yaml:"total_files"`
	SuccessfulFiles  int       `json:"successful_files" yaml:"successful_files"`
	FailedFiles      int       `json:"failed_files" yaml:"failed_files"`
	AverageScore     float64   `json:"average_score" yaml:"average_score"`
	HighestScore     int       `json:"highest_score" yaml:"highest_score"`
	LowestScore      int       `json:"lowest_score" yaml:"lowest_score"`
	RecommendedFile  string    `json:"recommended_file,omitempty" yaml:"recommended_file,omitempty"`
	RecommendedScore int       `json:"recommended_score" yaml:"recommended_score"`
	OutputDirectory  string    `json:"output_directory,omitempty" yaml:"output_directory,omitempty"`
	StartedAt        time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt       time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
}

// HasRecommendation reports whether at least one file succeeded.
func (s Summary) HasRecommendation() bool {
	return s.SuccessfulFiles > 0
}

// Summary derives statistics over successful records only.
func (s *Session) Summary() Summary {
	records := s.Records()
	out := Summarize(records)
	out.SessionID = s.ID
	out.OutputDirectory = s.OutputDir
	out.StartedAt = s.StartedAt
	out.FinishedAt = s.FinishedAt()
	return out
}

// Summarize computes counts and score statistics for records.
func Summarize(records []quality.Record) Summary {
	ok := successful(records)
	out := Summary{
		TotalFiles:      len(records),
		SuccessfulFiles: len(ok),
		FailedFiles:     len(records) - len(ok),
	}
	if len(ok) == 0 {
		return out
	}
	total := 0
	out.HighestScore = ok[0].OverallScore
	out.LowestScore = ok[0].OverallScore
	for _, rec := range ok {
		total += rec.OverallScore
		out.HighestScore = max(out.HighestScore, rec.OverallScore)
		out.LowestScore = min(out.LowestScore, rec.OverallScore)
	}
	out.AverageScore = float64(total) / float64(len(ok))
	if best, found := Recommend(ok); found {
		out.RecommendedFile = best.Name
		out.RecommendedScore = best.OverallScore
	}
	return out
}
