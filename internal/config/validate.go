package config

import (
	"fmt"
	"strings"
	"time"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims and dedupes list fields, then checks the config.
// The normalized copy is what should be saved.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Filters.LocationsBlock = trimList(out.Filters.LocationsBlock)
	out.Filters.KeywordsBlock = trimList(out.Filters.KeywordsBlock)
	out.Filters.SeniorityBlock = trimList(out.Filters.SeniorityBlock)
	out.Schedule.Times = trimList(out.Schedule.Times)
	out.Sources.Platsbanken.Queries = trimList(out.Sources.Platsbanken.Queries)

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if len(out.Schedule.Times) == 0 {
		res.addWarn("schedule.times is empty; only manual scrapes will run.")
	}
	for _, t := range out.Schedule.Times {
		if _, err := time.Parse("15:04", t); err != nil {
			res.addErr("schedule.times entry %q is not HH:MM", t)
		}
	}
	if tz := strings.TrimSpace(out.Schedule.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			res.addErr("schedule.timezone %q is not a valid IANA zone", tz)
		}
	}

	if len(out.Sources.Feeds) == 0 && len(out.Sources.Boards) == 0 && !out.Sources.Platsbanken.Enabled {
		res.addErr("no sources configured: add a feed, a board, or enable platsbanken")
	}
	for i, f := range out.Sources.Feeds {
		if strings.TrimSpace(f.Name) == "" {
			res.addErr("sources.feeds[%d].name is required", i)
		}
		if strings.TrimSpace(f.URL) == "" {
			res.addErr("sources.feeds[%d].url is required", i)
		}
	}
	for i, b := range out.Sources.Boards {
		if strings.TrimSpace(b.Name) == "" {
			res.addErr("sources.boards[%d].name is required", i)
		}
		if strings.TrimSpace(b.URL) == "" {
			res.addErr("sources.boards[%d].url is required", i)
		}
		if strings.TrimSpace(b.ItemSelector) == "" {
			res.addErr("sources.boards[%d].item_selector is required", i)
		}
	}
	if out.Sources.Platsbanken.Enabled && len(out.Sources.Platsbanken.Queries) == 0 {
		res.addErr("sources.platsbanken.queries must have at least 1 query when enabled")
	}

	checkRules := func(name string, rules []Rule) {
		for i, r := range rules {
			if r.Tag == "" {
				res.addErr("%s[%d].tag is required", name, i)
			}
			if len(r.Any) == 0 {
				res.addErr("%s[%d].any must have at least 1 term", name, i)
			}
		}
	}
	checkRules("scoring.title_rules", out.Scoring.TitleRules)
	checkRules("scoring.keyword_rules", out.Scoring.KeywordRules)
	for i, p := range out.Scoring.Penalties {
		if p.Reason == "" {
			res.addErr("scoring.penalties[%d].reason is required", i)
		}
		if len(p.Any) == 0 {
			res.addErr("scoring.penalties[%d].any must have at least 1 term", i)
		}
	}

	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.SMTPHost) == "" {
			res.addErr("email.smtp_host is required when email.enabled=true")
		}
		if out.Email.SMTPPort == 0 {
			res.addErr("email.smtp_port is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.From) == "" {
			res.addWarn("email.from is empty; set it or export EMAIL_ADDRESS.")
		}
		if strings.TrimSpace(out.Email.To) == "" {
			res.addWarn("email.to is empty; set it or export RECEIVER_EMAIL.")
		}
		if out.Email.AppendToSent && strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.append_to_sent=true")
		}
	}

	if out.Retention.MaxAgeDays < 0 {
		res.addErr("retention.max_age_days cannot be negative")
	}

	return out, res
}
