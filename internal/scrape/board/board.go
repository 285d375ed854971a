package board

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/scrape/types"
	"jobradar-engine/internal/scrape/util"
)

type Config struct {
	Boards []config.Board
}

type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(cfg Config, limiter *util.HostLimiter) *Scraper {
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
	}
}

func (s *Scraper) Name() string { return "board" }

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	var out []domain.JobLead
	for _, b := range s.cfg.Boards {
		leads, err := s.fetchBoard(ctx, b)
		if err != nil {
			// keep going; partial results beat no results
			log.Printf("[board:%s] error: %v", b.Name, err)
			continue
		}
		out = append(out, leads...)
	}
	return types.ScrapeResult{Source: "board", Leads: out}, nil
}

func (s *Scraper) fetchBoard(ctx context.Context, b config.Board) ([]domain.JobLead, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, b.URL, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; JobRadar/1.0)")

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, b.URL); err != nil {
			return nil, err
		}
	}
	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("board get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("board status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("board parse html: %w", err)
	}

	limit := b.Limit
	if limit <= 0 {
		limit = 15
	}
	titleSel := b.TitleSelector
	if titleSel == "" {
		titleSel = "h2"
	}
	linkSel := b.LinkSelector
	if linkSel == "" {
		linkSel = "a"
	}
	base := b.BaseURL
	if base == "" {
		base = originOf(b.URL)
	}

	source := strings.ToLower(strings.TrimSpace(b.Name))
	seen := map[string]bool{}

	var out []domain.JobLead
	doc.Find(b.ItemSelector).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if len(out) >= limit {
			return false
		}

		title := util.CleanText(item.Find(titleSel).First().Text())
		href, _ := item.Find(linkSel).First().Attr("href")
		abs := util.ResolveHref(base, href)
		if title == "" || abs == "" {
			return true
		}
		if key := util.CanonicalizeURL(abs); seen[key] {
			return true
		} else {
			seen[key] = true
		}

		company := b.Name
		if b.CompanySelector != "" {
			if c := util.CleanText(item.Find(b.CompanySelector).First().Text()); c != "" {
				company = c
			}
		}

		t := time.Now()
		out = append(out, domain.JobLead{
			CompanyName:     company,
			Title:           title,
			URL:             abs,
			WorkMode:        util.InferWorkModeFromText("", title, ""),
			PostedAt:        &t,
			FirstSeenSource: source,
		})
		return true
	})

	log.Printf("[board:%s] kept=%d", b.Name, len(out))
	return out, nil
}

func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
