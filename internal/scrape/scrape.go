package scrape

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/rank"
	"jobradar-engine/internal/scrape/types"
	"jobradar-engine/internal/scrape/util"
)

func InsertJobIfNew(ctx context.Context, db *sql.DB, j types.JobRow) (bool, error) {
	if j.Company == "" {
		j.Company = "Unknown"
	}
	if j.Title == "" {
		j.Title = "Job Posting"
	}
	if j.Location == "" {
		j.Location = "Unknown"
	}
	if j.WorkMode == "" {
		j.WorkMode = "Unknown"
	}
	if j.URL == "" {
		return false, errors.New("missing url")
	}
	if j.ReceivedAt.IsZero() {
		j.ReceivedAt = time.Now().UTC()
	}
	if j.SourceID == "" {
		j.SourceID = util.SourceIDForURL(j.URL)
	} else {
		j.SourceID = strings.TrimSpace(j.SourceID)
	}

	tagsB, _ := json.Marshal(j.Tags)

	res, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs(company, title, location, work_mode, url, score, tags, date, source_id, seen_from_source)
VALUES(?,?,?,?,?,?,?,?,?,?);`,
		j.Company,
		j.Title,
		j.Location,
		j.WorkMode,
		j.URL,
		j.Score,
		string(tagsB),
		j.ReceivedAt.Format(time.RFC3339),
		j.SourceID,
		j.SeenFromSource,
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func jobRowFromLead(lead domain.JobLead, s rank.Scorer) types.JobRow {
	recv := time.Now().UTC()
	if lead.PostedAt != nil && !lead.PostedAt.IsZero() {
		recv = lead.PostedAt.UTC()
	}

	score, tags := s.Score(lead)

	sourceID := strings.TrimSpace(lead.BoardJobID)
	if sourceID == "" {
		sourceID = util.SourceIDForURL(lead.URL)
	}

	return types.JobRow{
		Company:        strings.TrimSpace(lead.CompanyName),
		Title:          strings.TrimSpace(lead.Title),
		Location:       strings.TrimSpace(lead.LocationRaw),
		WorkMode:       strings.TrimSpace(lead.WorkMode),
		Description:    lead.Description,
		URL:            strings.TrimSpace(lead.URL),
		Score:          score,
		Tags:           tags,
		ReceivedAt:     recv,
		SourceID:       sourceID,
		SeenFromSource: strings.TrimSpace(lead.FirstSeenSource),
	}
}
