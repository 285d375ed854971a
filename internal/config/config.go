package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Rule struct {
	Tag    string   `yaml:"tag" json:"tag"`
	Weight int      `yaml:"weight" json:"weight"`
	Any    []string `yaml:"any" json:"any"`
}

type Penalty struct {
	Reason string   `yaml:"reason" json:"reason"`
	Weight int      `yaml:"weight" json:"weight"`
	Any    []string `yaml:"any" json:"any"`
}

// Feed is an RSS/Atom job board.
type Feed struct {
	Name     string `yaml:"name" json:"name"`
	URL      string `yaml:"url" json:"url"`
	Location string `yaml:"location" json:"location"` // default location for items, e.g. "Remote"
	Limit    int    `yaml:"limit" json:"limit"`
}

// Board is an HTML job board described by CSS selectors.
type Board struct {
	Name            string `yaml:"name" json:"name"`
	URL             string `yaml:"url" json:"url"`
	BaseURL         string `yaml:"base_url" json:"base_url"` // prefix for relative links
	ItemSelector    string `yaml:"item_selector" json:"item_selector"`
	TitleSelector   string `yaml:"title_selector" json:"title_selector"`
	CompanySelector string `yaml:"company_selector" json:"company_selector"`
	LinkSelector    string `yaml:"link_selector" json:"link_selector"`
	Limit           int    `yaml:"limit" json:"limit"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Schedule struct {
		Times      []string `yaml:"times" json:"times"`       // "08:00"
		Timezone   string   `yaml:"timezone" json:"timezone"` // IANA name
		RunOnStart bool     `yaml:"run_on_start" json:"run_on_start"`
	} `yaml:"schedule" json:"schedule"`

	Sources struct {
		Feeds       []Feed  `yaml:"feeds" json:"feeds"`
		Boards      []Board `yaml:"boards" json:"boards"`
		Platsbanken struct {
			Enabled bool     `yaml:"enabled" json:"enabled"`
			Queries []string `yaml:"queries" json:"queries"`
			Limit   int      `yaml:"limit" json:"limit"`
		} `yaml:"platsbanken" json:"platsbanken"`
	} `yaml:"sources" json:"sources"`

	Filters struct {
		LocationsBlock []string `yaml:"locations_block" json:"locations_block"`
		KeywordsBlock  []string `yaml:"keywords_block" json:"keywords_block"`
		SeniorityBlock []string `yaml:"seniority_block" json:"seniority_block"`
	} `yaml:"filters" json:"filters"`

	Scoring struct {
		TitleRules   []Rule    `yaml:"title_rules" json:"title_rules"`
		KeywordRules []Rule    `yaml:"keyword_rules" json:"keyword_rules"`
		Penalties    []Penalty `yaml:"penalties" json:"penalties"`
	} `yaml:"scoring" json:"scoring"`

	Email struct {
		Enabled      bool   `yaml:"enabled" json:"enabled"`
		SMTPHost     string `yaml:"smtp_host" json:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port" json:"smtp_port"`
		From         string `yaml:"from" json:"from"`
		To           string `yaml:"to" json:"to"`
		AppendToSent bool   `yaml:"append_to_sent" json:"append_to_sent"`
		IMAPHost     string `yaml:"imap_host" json:"imap_host"`
		IMAPPort     int    `yaml:"imap_port" json:"imap_port"`
		SentMailbox  string `yaml:"sent_mailbox" json:"sent_mailbox"`
	} `yaml:"email" json:"email"`

	Retention struct {
		MaxAgeDays    int `yaml:"max_age_days" json:"max_age_days"`
		IntervalHours int `yaml:"interval_hours" json:"interval_hours"`
	} `yaml:"retention" json:"retention"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv lets deployment env vars override the mail identity and port
// without editing the config file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("EMAIL_ADDRESS"); v != "" {
		cfg.Email.From = v
	}
	if v := os.Getenv("RECEIVER_EMAIL"); v != "" {
		cfg.Email.To = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = p
		}
	}
}
