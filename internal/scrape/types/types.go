package types

import (
	"context"
	"time"

	"jobradar-engine/internal/domain"
)

type ScrapeResult struct {
	Source string
	Leads  []domain.JobLead
}

type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) (ScrapeResult, error)
}

type JobRow struct {
	Company        string
	Title          string
	Location       string
	WorkMode       string
	Description    string
	URL            string
	Score          int
	Tags           []string
	ReceivedAt     time.Time
	SourceID       string
	SeenFromSource string
}
