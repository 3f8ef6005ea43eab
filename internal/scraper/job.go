// Shared job models for the whole pipeline
// Every stage reads/enriches these and returns new slices

package scraper

import (
	"strings"
	"time"
)

// JobPosting is one scraped listing. The extractor creates it, later stages
// only fill the enrichment fields (Salary, Match).
type JobPosting struct {
	Title       string      `json:"title"`
	Company     string      `json:"company"`
	Location    string      `json:"location"`
	PostedAt    *time.Time  `json:"posted_at,omitempty"`
	PostedAgo   string      `json:"posted_ago,omitempty"`
	Reposted    bool        `json:"reposted"`
	SalaryRaw   string      `json:"salary_raw"`
	URL         string      `json:"url"`
	Description string      `json:"description"`
	Salary      SalaryRange `json:"salary"`
	Match       MatchResult `json:"match"`
}

// Currency sentinels for SalaryRange. "N/A" means no salary text existed,
// the other two mark the two distinct failure paths of the normalizer.
const (
	CurrencyNA         = "N/A"
	CurrencyError      = "Error"
	CurrencyParseError = "ParseError"
)

type SalaryRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// MatchStatus keeps "the service failed" and "the model scored this 0"
// apart. A zero score is only meaningful when Status == MatchScored.
type MatchStatus string

const (
	MatchPending      MatchStatus = "PENDING"
	MatchScored       MatchStatus = "SCORED"
	MatchSkippedLong  MatchStatus = "SKIPPED_TOO_LONG"
	MatchServiceError MatchStatus = "SERVICE_ERROR"
)

type MatchResult struct {
	Status         MatchStatus `json:"status"`
	Score          int         `json:"score"`
	Reasoning      string      `json:"reasoning"`
	MissingSkills  []string    `json:"missing_skills"`
	RecommendApply bool        `json:"recommend_apply"`
}

// HasSalaryText reports whether the posting carried any salary text at all.
func (j JobPosting) HasSalaryText() bool {
	return strings.TrimSpace(j.SalaryRaw) != ""
}

// Persistable reports whether the posting has a stable identity. Records
// without a URL cannot be upserted (no dedup key) and are dropped by the
// persister, never earlier.
func (j JobPosting) Persistable() bool {
	return j.URL != ""
}
