// Eligibility filtering over the in-memory record set, evaluated before
// persistence. Pure: returns a new slice, input is never mutated.

package filter

import (
	"log"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"go-career-copilot/internal/scraper"
)

// Options mirror the user-declared preferences from the run config.
type Options struct {
	// CompanyList is the allow-list. Empty means no company restriction.
	CompanyList []string

	// SalaryRequired keeps only postings with salary text when no
	// allow-list is configured.
	SalaryRequired bool

	// KeepReposted retains reposted listings instead of dropping them.
	KeepReposted bool
}

// normalizeCompany folds case and diacritics so "Évolvé Corp" matches
// "evolve corp" in the allow-list.
func normalizeCompany(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return strings.ToLower(strings.TrimSpace(result))
}

// EligibleJobs reduces jobs by the company/salary clause AND the repost
// clause.
func EligibleJobs(jobs []scraper.JobPosting, opts Options) []scraper.JobPosting {
	allowed := mapset.NewSet[string]()
	for _, c := range opts.CompanyList {
		if strings.TrimSpace(c) != "" {
			allowed.Add(normalizeCompany(c))
		}
	}

	kept := make([]scraper.JobPosting, 0, len(jobs))
	for _, job := range jobs {
		if !companyOrSalaryClause(job, allowed, opts.SalaryRequired) {
			continue
		}
		if job.Reposted && !opts.KeepReposted {
			continue
		}
		kept = append(kept, job)
	}

	log.Printf("🔍 Eligibility filter: %d/%d jobs kept", len(kept), len(jobs))
	return kept
}

func companyOrSalaryClause(job scraper.JobPosting, allowed mapset.Set[string], salaryRequired bool) bool {
	if allowed.Cardinality() > 0 {
		return allowed.Contains(normalizeCompany(job.Company)) || job.HasSalaryText()
	}
	if salaryRequired {
		return job.HasSalaryText()
	}
	return true
}
