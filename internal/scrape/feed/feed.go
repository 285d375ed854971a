package feed

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/scrape/types"
	"jobradar-engine/internal/scrape/util"
)

type Config struct {
	Feeds []config.Feed
}

type Scraper struct {
	cfg     Config
	fp      *gofeed.Parser
	limiter *util.HostLimiter
}

func New(cfg Config, limiter *util.HostLimiter) *Scraper {
	fp := gofeed.NewParser()
	fp.UserAgent = "JobRadar/1.0 (+local)"
	return &Scraper{cfg: cfg, fp: fp, limiter: limiter}
}

func (s *Scraper) Name() string { return "feed" }

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	var out []domain.JobLead
	for _, f := range s.cfg.Feeds {
		leads, err := s.fetchFeed(ctx, f)
		if err != nil {
			// one dead feed never fails the run
			log.Printf("[feed:%s] error: %v", f.Name, err)
			continue
		}
		out = append(out, leads...)
	}
	return types.ScrapeResult{Source: "feed", Leads: out}, nil
}

func (s *Scraper) fetchFeed(ctx context.Context, f config.Feed) ([]domain.JobLead, error) {
	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, f.URL); err != nil {
			return nil, err
		}
	}

	fd, err := s.fp.ParseURLWithContext(f.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	if fd == nil || len(fd.Items) == 0 {
		return nil, nil
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}

	source := strings.ToLower(strings.TrimSpace(f.Name))
	var out []domain.JobLead
	for _, item := range fd.Items {
		if len(out) >= limit {
			break
		}
		if strings.TrimSpace(item.Link) == "" || strings.TrimSpace(item.Title) == "" {
			continue
		}

		company := f.Name
		if item.Author != nil && strings.TrimSpace(item.Author.Name) != "" {
			company = item.Author.Name
		}

		loc := f.Location
		lead := domain.JobLead{
			CompanyName:     util.CleanText(company),
			Title:           util.CleanText(item.Title),
			URL:             strings.TrimSpace(item.Link),
			LocationRaw:     loc,
			Description:     item.Description,
			FirstSeenSource: source,
		}
		lead.WorkMode = util.InferWorkModeFromText(loc, lead.Title, lead.Description)
		if item.PublishedParsed != nil {
			t := *item.PublishedParsed
			lead.PostedAt = &t
		} else {
			t := time.Now()
			lead.PostedAt = &t
		}

		out = append(out, lead)
	}

	log.Printf("[feed:%s] items=%d kept=%d", f.Name, len(fd.Items), len(out))
	return out, nil
}
