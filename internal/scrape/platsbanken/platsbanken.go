package platsbanken

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/scrape/types"
	"jobradar-engine/internal/scrape/util"
)

// DefaultAPIURL is the public Arbetsförmedlingen JobSearch endpoint.
const DefaultAPIURL = "https://jobsearch.api.jobtechdev.se/search"

type Config struct {
	APIURL  string
	Queries []string
	Limit   int // hits per query
}

type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(cfg Config, limiter *util.HostLimiter) *Scraper {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 20
	}
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
	}
}

func (s *Scraper) Name() string { return "platsbanken" }

type searchResponse struct {
	Hits []struct {
		ID       string `json:"id"`
		Headline string `json:"headline"`
		Employer struct {
			Name string `json:"name"`
		} `json:"employer"`
		WorkplaceAddress struct {
			Municipality string `json:"municipality"`
			Region       string `json:"region"`
			Country      string `json:"country"`
		} `json:"workplace_address"`
		WebpageURL      string `json:"webpage_url"`
		PublicationDate string `json:"publication_date"`
		Description     struct {
			Text string `json:"text"`
		} `json:"description"`
	} `json:"hits"`
}

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	const workers = 4

	queries := s.cfg.Queries
	leadsCh := make(chan []domain.JobLead, len(queries))
	workCh := make(chan string)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for q := range workCh {
				qctx, cancel := context.WithTimeout(ctx, 15*time.Second)
				leads, err := s.fetchQuery(qctx, q)
				cancel()

				if err != nil {
					log.Printf("[platsbanken] query=%q err=%v", q, err)
					continue
				}
				if len(leads) > 0 {
					leadsCh <- leads
				}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for _, q := range queries {
			select {
			case <-ctx.Done():
				return
			case workCh <- q:
			}
		}
	}()

	wg.Wait()
	close(leadsCh)

	var out []domain.JobLead
	for batch := range leadsCh {
		out = append(out, batch...)
	}

	log.Printf("[platsbanken] Processed: %d", len(out))
	return types.ScrapeResult{Source: "platsbanken", Leads: out}, nil
}

func (s *Scraper) fetchQuery(ctx context.Context, query string) ([]domain.JobLead, error) {
	apiURL := fmt.Sprintf("%s?q=%s&limit=%d", s.cfg.APIURL, url.QueryEscape(query), s.cfg.Limit)

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	req.Header.Set("User-Agent", "JobRadar/1.0 (+local)")
	req.Header.Set("Accept", "application/json")

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, apiURL); err != nil {
			return nil, err
		}
	}
	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("platsbanken get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("platsbanken status %d", res.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("platsbanken decode: %w", err)
	}

	out := make([]domain.JobLead, 0, len(sr.Hits))
	for _, h := range sr.Hits {
		if h.ID == "" || strings.TrimSpace(h.Headline) == "" {
			continue
		}

		jobURL := strings.TrimSpace(h.WebpageURL)
		if jobURL == "" {
			jobURL = "https://arbetsformedlingen.se/platsbanken/annonser/" + h.ID
		}

		loc := util.NormalizeLocation(strings.TrimSpace(strings.Join(nonEmpty(
			h.WorkplaceAddress.Municipality,
			h.WorkplaceAddress.Region,
			h.WorkplaceAddress.Country,
		), ", ")))

		var posted *time.Time
		if t, err := time.Parse("2006-01-02T15:04:05", h.PublicationDate); err == nil {
			posted = &t
		} else {
			now := time.Now()
			posted = &now
		}

		company := util.CleanText(h.Employer.Name)
		if company == "" {
			company = "Platsbanken"
		}

		out = append(out, domain.JobLead{
			CompanyName:     company,
			Title:           util.CleanText(h.Headline),
			LocationRaw:     loc,
			WorkMode:        util.InferWorkModeFromText(loc, h.Headline, h.Description.Text),
			URL:             jobURL,
			PostedAt:        posted,
			Description:     h.Description.Text,
			FirstSeenSource: "platsbanken",
			BoardJobID:      "platsbanken:" + h.ID,
		})
	}

	return out, nil
}

func nonEmpty(xs ...string) []string {
	var out []string
	for _, x := range xs {
		if strings.TrimSpace(x) != "" {
			out = append(out, strings.TrimSpace(x))
		}
	}
	return out
}
