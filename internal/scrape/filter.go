package scrape

import (
	"strings"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/domain"
)

// ShouldKeepJob is permissive: a job stays unless a blocklist hits. The boards
// are already queried with entry-level terms, so absence of a positive signal
// is not grounds for exclusion.
func ShouldKeepJob(cfg config.Config, j domain.JobLead) (keep bool, reason string) {
	if blockedByLocation(cfg, j) {
		return false, "location"
	}
	if blockedBySeniority(cfg, j) {
		return false, "seniority"
	}
	if blockedByKeyword(cfg, j) {
		return false, "keyword"
	}
	return true, ""
}

func blockedByLocation(cfg config.Config, j domain.JobLead) bool {
	loc := strings.ToLower(strings.TrimSpace(j.LocationRaw))
	for _, b := range cfg.Filters.LocationsBlock {
		b = strings.ToLower(strings.TrimSpace(b))
		if b == "" {
			continue
		}
		if strings.Contains(loc, b) {
			return true
		}
	}
	return false
}

func blockedBySeniority(cfg config.Config, j domain.JobLead) bool {
	text := strings.ToLower(j.Title + " " + j.Description)
	for _, b := range cfg.Filters.SeniorityBlock {
		b = strings.ToLower(strings.TrimSpace(b))
		if b == "" {
			continue
		}
		if strings.Contains(text, b) {
			return true
		}
	}
	return false
}

func blockedByKeyword(cfg config.Config, j domain.JobLead) bool {
	text := strings.ToLower(j.Title + " " + j.LocationRaw + " " + j.Description)
	for _, b := range cfg.Filters.KeywordsBlock {
		b = strings.ToLower(strings.TrimSpace(b))
		if b == "" {
			continue
		}
		if strings.Contains(text, b) {
			return true
		}
	}
	return false
}
