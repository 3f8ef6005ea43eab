package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-career-copilot/internal/scraper"
)

func job(company, salaryRaw string, reposted bool) scraper.JobPosting {
	return scraper.JobPosting{
		Title:     "Engineer",
		Company:   company,
		SalaryRaw: salaryRaw,
		Reposted:  reposted,
		URL:       "https://x/" + company,
	}
}

func TestEligibleJobsAllowList(t *testing.T) {
	jobs := []scraper.JobPosting{
		job("Acme Corp", "", false),          // allow-listed, no salary: kept
		job("Other Inc", "$100k", true),      // salary but reposted: dropped
		job("Other Inc", "", false),          // neither company nor salary: dropped
		job("Unknown Ltd", "$90k CAD", false), // salary text: kept
	}

	kept := EligibleJobs(jobs, Options{
		CompanyList:    []string{"Acme Corp"},
		SalaryRequired: false,
		KeepReposted:   false,
	})

	require.Len(t, kept, 2)
	assert.Equal(t, "Acme Corp", kept[0].Company)
	assert.Equal(t, "Unknown Ltd", kept[1].Company)
}

func TestEligibleJobsNoAllowList(t *testing.T) {
	jobs := []scraper.JobPosting{
		job("A", "", false),
		job("B", "$80k", false),
	}

	kept := EligibleJobs(jobs, Options{})
	assert.Len(t, kept, 2, "no allow-list and no salary flag keeps everything")

	kept = EligibleJobs(jobs, Options{SalaryRequired: true})
	require.Len(t, kept, 1)
	assert.Equal(t, "B", kept[0].Company)
}

func TestEligibleJobsKeepReposted(t *testing.T) {
	jobs := []scraper.JobPosting{
		job("A", "$80k", true),
	}

	assert.Empty(t, EligibleJobs(jobs, Options{}))
	assert.Len(t, EligibleJobs(jobs, Options{KeepReposted: true}), 1)
}

func TestEligibleJobsCompanyNormalization(t *testing.T) {
	jobs := []scraper.JobPosting{
		job("ÉVOLVÉ corp", "", false),
	}

	kept := EligibleJobs(jobs, Options{CompanyList: []string{"evolve corp"}})
	assert.Len(t, kept, 1)
}

func TestEligibleJobsDoesNotMutateInput(t *testing.T) {
	jobs := []scraper.JobPosting{
		job("A", "", true),
		job("B", "$1", false),
	}

	_ = EligibleJobs(jobs, Options{})
	assert.Len(t, jobs, 2)
	assert.True(t, jobs[0].Reposted)
}
