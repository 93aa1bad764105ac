package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dubscore/internal/quality"
	"dubscore/internal/session"
)

// Entry is one row of the session listing.
type Entry struct {
	ID               string    `json:"session_id" yaml:"session_id"`
	OutputDir        string    `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	StartedAt        time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt       time.Time `json:"finished_at" yaml:"finished_at"`
	TotalFiles       int       `json:"total_files" yaml:"total_files"`
	SuccessfulFiles  int       `json:"successful_files" yaml:"successful_files"`
	FailedFiles      int       `json:"failed_files" yaml:"failed_files"`
	AverageScore     float64   `json:"average_score" yaml:"average_score"`
	RecommendedFile  string    `json:"recommended_file,omitempty" yaml:"recommended_file,omitempty"`
	RecommendedScore int       `json:"recommended_score" yaml:"recommended_score"`
}

// Save stores a frozen session and its records. Saving the same session
// twice replaces the earlier copy.
func (s *Store) Save(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return errors.New("history save: session is nil")
	}
	if !sess.Frozen() {
		return errors.New("history save: session is not frozen")
	}
	sum := sess.Summary()
	records := sess.Records()

	rows := make([]recordRow, 0, len(records))
	for i, rec := range records {
		row, err := encodeRecord(i, rec)
		if err != nil {
			return fmt.Errorf("history save %s: %w", rec.Name, err)
		}
		rows = append(rows, row)
	}

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin save tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sess.ID); err != nil {
			return fmt.Errorf("replace session: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (
                id, output_dir, started_at, finished_at, total_files, successful_files,
                failed_files, average_score, recommended_file, recommended_score, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sess.ID,
			nullableString(sess.OutputDir),
			sess.StartedAt.UTC().Format(timeLayout),
			nullableTime(sum.FinishedAt),
			sum.TotalFiles,
			sum.SuccessfulFiles,
			sum.FailedFiles,
			sum.AverageScore,
			nullableString(sum.RecommendedFile),
			sum.RecommendedScore,
			time.Now().UTC().Format(timeLayout),
		); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		for _, row := range rows {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO records (
                    session_id, position, filename, path, clean_name, outcome, failure_reason,
                    overall_score, raw_json, interpretations_json, problems_json,
                    output_dir, fragment_path, analyzed_at
                ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				sess.ID,
				row.position,
				row.rec.Name,
				nullableString(row.rec.Path),
				nullableString(row.rec.CleanName),
				string(row.rec.Outcome),
				nullableString(row.rec.FailureReason),
				row.rec.OverallScore,
				row.rawJSON,
				row.interpJSON,
				row.problemsJSON,
				nullableString(row.rec.OutputDir),
				nullableString(row.rec.FragmentPath),
				nullableTime(row.rec.AnalyzedAt),
			); err != nil {
				return fmt.Errorf("insert record %s: %w", row.rec.Name, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit session: %w", err)
		}
		return nil
	})
}

const entryColumns = "id, output_dir, started_at, finished_at, total_files, successful_files, failed_files, average_score, recommended_file, recommended_score"

// List returns the most recent sessions, newest first. A limit <= 0 returns
// every session.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM sessions ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Get returns the listing row for one session. A unique id prefix is
// accepted.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Entry{}, ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM sessions WHERE substr(id, 1, length(?)) = ? ORDER BY id = ? DESC LIMIT 2`,
		id, id, id)
	if err != nil {
		return Entry{}, fmt.Errorf("get session: %w", err)
	}
	defer rows.Close()

	var matches []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return Entry{}, fmt.Errorf("scan session: %w", err)
		}
		matches = append(matches, entry)
	}
	if err := rows.Err(); err != nil {
		return Entry{}, err
	}
	switch {
	case len(matches) == 0:
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case matches[0].ID == id || len(matches) == 1:
		return matches[0], nil
	default:
		return Entry{}, fmt.Errorf("session id prefix %q is ambiguous", id)
	}
}

// Records reloads a session's records in their original order.
func (s *Store) Records(ctx context.Context, sessionID string) ([]quality.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT filename, path, clean_name, outcome, failure_reason, overall_score,
                raw_json, interpretations_json, problems_json, output_dir, fragment_path, analyzed_at
         FROM records WHERE session_id = ? ORDER BY position`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	var records []quality.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Load rebuilds the frozen session with the given id (or unique prefix).
func (s *Store) Load(ctx context.Context, id string) (*session.Session, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := s.Records(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	return session.Restore(entry.ID, entry.OutputDir, entry.StartedAt, entry.FinishedAt, records)
}

// Delete removes a session and its records.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return affected > 0, nil
}

type recordRow struct {
	position     int
	rec          quality.Record
	rawJSON      string
	interpJSON   any
	problemsJSON any
}

func encodeRecord(position int, rec quality.Record) (recordRow, error) {
	row := recordRow{position: position, rec: rec}
	raw, err := json.Marshal(rec.Raw)
	if err != nil {
		return row, fmt.Errorf("marshal measurements: %w", err)
	}
	row.rawJSON = string(raw)
	if len(rec.Interpretations) > 0 {
		data, err := json.Marshal(rec.Interpretations)
		if err != nil {
			return row, fmt.Errorf("marshal interpretations: %w", err)
		}
		row.interpJSON = string(data)
	}
	if len(rec.Problems) > 0 {
		data, err := json.Marshal(rec.Problems)
		if err != nil {
			return row, fmt.Errorf("marshal problems: %w", err)
		}
		row.problemsJSON = string(data)
	}
	return row, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry       Entry
		outputDir   sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
		recommended sql.NullString
	)
	if err := scanner.Scan(
		&entry.ID,
		&outputDir,
		&startedRaw,
		&finishedRaw,
		&entry.TotalFiles,
		&entry.SuccessfulFiles,
		&entry.FailedFiles,
		&entry.AverageScore,
		&recommended,
		&entry.RecommendedScore,
	); err != nil {
		return Entry{}, err
	}
	entry.OutputDir = outputDir.String
	entry.StartedAt = parseTimeString(startedRaw)
	entry.FinishedAt = parseTimeString(finishedRaw.String)
	entry.RecommendedFile = recommended.String
	return entry, nil
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (quality.Record, error) {
	var (
		rec           quality.Record
		path          sql.NullString
		cleanName     sql.NullString
		outcome       string
		failure       sql.NullString
		rawJSON       sql.NullString
		interpJSON    sql.NullString
		problemsJSON  sql.NullString
		outputDir     sql.NullString
		fragmentPath  sql.NullString
		analyzedAtRaw sql.NullString
	)
	if err := scanner.Scan(
		&rec.Name,
		&path,
		&cleanName,
		&outcome,
		&failure,
		&rec.OverallScore,
		&rawJSON,
		&interpJSON,
		&problemsJSON,
		&outputDir,
		&fragmentPath,
		&analyzedAtRaw,
	); err != nil {
		return quality.Record{}, err
	}
	rec.Path = path.String
	rec.CleanName = cleanName.String
	rec.Outcome = quality.Outcome(outcome)
	rec.FailureReason = failure.String
	rec.OutputDir = outputDir.String
	rec.FragmentPath = fragmentPath.String
	rec.AnalyzedAt = parseTimeString(analyzedAtRaw.String)

	if rawJSON.Valid && rawJSON.String != "" {
		if err := json.Unmarshal([]byte(rawJSON.String), &rec.Raw); err != nil {
			return quality.Record{}, fmt.Errorf("decode measurements for %s: %w", rec.Name, err)
		}
	}
	if interpJSON.Valid && interpJSON.String != "" {
		if err := json.Unmarshal([]byte(interpJSON.String), &rec.Interpretations); err != nil {
			return quality.Record{}, fmt.Errorf("decode interpretations for %s: %w", rec.Name, err)
		}
	}
	if problemsJSON.Valid && problemsJSON.String != "" {
		if err := json.Unmarshal([]byte(problemsJSON.String), &rec.Problems); err != nil {
			return quality.Record{}, fmt.Errorf("decode problems for %s: %w", rec.Name, err)
		}
	}
	return rec, nil
}
