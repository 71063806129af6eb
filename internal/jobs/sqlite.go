package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcatarino/order-extractor/constants"
	"github.com/mcatarino/order-extractor/internal/common"
	"github.com/mcatarino/order-extractor/internal/entity"
)

const schema = `
CREATE TABLE IF NOT EXISTS extraction_jobs (
	id         TEXT PRIMARY KEY,
	filename   TEXT NOT NULL,
	file_path  TEXT NOT NULL,
	status     TEXT NOT NULL,
	progress   REAL NOT NULL DEFAULT 0,
	error      TEXT NOT NULL DEFAULT '',
	result     TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_extraction_jobs_created ON extraction_jobs (created_at);
`

// SQLiteStore persists jobs in an embedded sqlite database. The extraction
// result rides as a JSON document; jobs are keyed lookups, not relational
// data.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the job database at dsn.
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open job store: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent jobs.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate job store: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Create(ctx context.Context, job Job) error {
	resultJSON, err := marshalResult(job.Result)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO extraction_jobs (id, filename, file_path, status, progress, error, result, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Filename, job.FilePath, string(job.Status), job.Progress, job.Error,
		resultJSON, job.CreatedAt.Format(time.RFC3339Nano), job.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert job %s: %w", job.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, file_path, status, progress, error, result, created_at, updated_at
		 FROM extraction_jobs WHERE id = ?`, id)

	var (
		job        Job
		status     string
		resultJSON sql.NullString
		createdAt  string
		updatedAt  string
	)
	err := row.Scan(&job.ID, &job.Filename, &job.FilePath, &status, &job.Progress,
		&job.Error, &resultJSON, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, common.NewAppError("JOB_NOT_FOUND", "job not found: "+id, common.ErrNotFound)
	}
	if err != nil {
		return Job{}, fmt.Errorf("load job %s: %w", id, err)
	}

	job.Status = constants.JobStatus(status)
	job.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	job.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	if resultJSON.Valid && resultJSON.String != "" {
		var result entity.ExtractionResult
		if err := json.Unmarshal([]byte(resultJSON.String), &result); err != nil {
			return Job{}, fmt.Errorf("decode job result %s: %w", id, err)
		}
		job.Result = &result
	}
	return job, nil
}

func (s *SQLiteStore) Update(ctx context.Context, job Job) error {
	resultJSON, err := marshalResult(job.Result)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE extraction_jobs SET status = ?, progress = ?, error = ?, result = ?, updated_at = ?
		 WHERE id = ?`,
		string(job.Status), job.Progress, job.Error, resultJSON,
		time.Now().UTC().Format(time.RFC3339Nano), job.ID)
	if err != nil {
		return fmt.Errorf("update job %s: %w", job.ID, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return common.NewAppError("JOB_NOT_FOUND", "job not found: "+job.ID, common.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, status, progress, created_at
		 FROM extraction_jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			s1        Summary
			status    string
			createdAt string
		)
		if err := rows.Scan(&s1.ID, &s1.Filename, &status, &s1.Progress, &createdAt); err != nil {
			return nil, fmt.Errorf("scan job row: %w", err)
		}
		s1.Status = constants.JobStatus(status)
		s1.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		summaries = append(summaries, s1)
	}
	return summaries, rows.Err()
}

func marshalResult(result *entity.ExtractionResult) (any, error) {
	if result == nil {
		return nil, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode job result: %w", err)
	}
	return string(data), nil
}
