package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type Job struct {
	ID       int64    `json:"id"`
	Company  string   `json:"company"`
	Title    string   `json:"title"`
	Location string   `json:"location"`
	WorkMode string   `json:"workMode"`
	URL      string   `json:"url"`
	Score    int      `json:"score"`
	Tags     []string `json:"tags"`
	Date     string   `json:"date"`
	Source   string   `json:"source"`
}

type ListJobsOpts struct {
	Sort   string // score | date | company | title
	Window string // 24h | 7d | all
	Limit  int
}

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  company TEXT NOT NULL,
  title TEXT NOT NULL,
  location TEXT NOT NULL,
  work_mode TEXT NOT NULL,
  url TEXT NOT NULL,
  score INTEGER NOT NULL DEFAULT 0,
  tags TEXT NOT NULL DEFAULT '[]',
  date TEXT NOT NULL,
  source_id TEXT NOT NULL DEFAULT '',
  seen_from_source TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_jobs_date
ON jobs(date);
`); err != nil {
		return err
	}

	// source_id carries the dedup identity (board ID or canonical URL hash)
	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_source_id
ON jobs(source_id)
WHERE source_id != '';
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

func ListJobs(ctx context.Context, db *sql.DB, opts ListJobsOpts) ([]Job, error) {
	if opts.Sort == "" {
		opts.Sort = "date"
	}
	if opts.Window == "" {
		opts.Window = "7d"
	}
	if opts.Limit <= 0 {
		opts.Limit = 500
	}

	// whitelist sort columns (prevents SQL injection)
	sortCol := map[string]string{
		"score":   "score",
		"date":    "date",
		"company": "company",
		"title":   "title",
	}[opts.Sort]
	if sortCol == "" {
		sortCol = "date"
	}
	order := "desc"
	if sortCol == "company" || sortCol == "title" {
		order = "asc"
	}

	where := ""
	switch opts.Window {
	case "24h":
		where = "WHERE date >= datetime('now','-24 hours')"
	case "all":
		// no filter
	default:
		where = "WHERE date >= datetime('now','-7 days')"
	}

	query := fmt.Sprintf(`
SELECT id, company, title, location, work_mode, url, score, tags, date, seen_from_source
FROM jobs
%s
ORDER BY %s %s
LIMIT ?;
`, where, sortCol, order)

	rows, err := db.QueryContext(ctx, query, opts.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		var j Job
		var tagsJSON string
		var dateStr string
		if err := rows.Scan(
			&j.ID,
			&j.Company,
			&j.Title,
			&j.Location,
			&j.WorkMode,
			&j.URL,
			&j.Score,
			&tagsJSON,
			&dateStr,
			&j.Source,
		); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &j.Tags)
		if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
			j.Date = t.Format("2006-01-02 15:04:05")
		} else {
			j.Date = dateStr
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func DeleteJob(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?;`, id)
	return err
}

func CleanupOldJobs(db *sql.DB, maxAgeDays int) (deleted int64, err error) {
	if maxAgeDays <= 0 {
		maxAgeDays = 90
	}
	res, err := db.Exec(fmt.Sprintf(`
DELETE FROM jobs
WHERE date < datetime('now', '-%d days');
`, maxAgeDays))
	if err != nil {
		return 0, fmt.Errorf("cleanup old jobs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
