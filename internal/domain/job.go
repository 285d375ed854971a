package domain

import "time"

type JobLead struct {
	CompanyName     string
	Title           string
	URL             string
	LocationRaw     string
	WorkMode        string // Remote/Hybrid/Onsite/Unknown
	BoardJobID      string
	Description     string
	PostedAt        *time.Time
	FirstSeenSource string // remotive/platsbanken/jobbsafari/etc.
}
