package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-career-copilot/internal/scraper"
)

// integration test: needs a reachable database
func TestRepositoryUpsertIdempotence(t *testing.T) {
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	repo, err := Connect(ctx, connString)
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, repo.EnsureSchema(ctx))

	url := "https://x/idempotence-test"
	first := []scraper.JobPosting{{Title: "Engineer", Company: "Old Co", URL: url}}
	second := []scraper.JobPosting{{Title: "Engineer", Company: "New Co", URL: url}}

	n, err := repo.UpsertPostings(ctx, first, "tester", "golang")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.UpsertPostings(ctx, second, "tester", "golang")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var count int
	var company string
	err = repo.db.QueryRow(ctx, "SELECT count(*), max(company) FROM job_posts WHERE id = $1", KeyFor(url)).Scan(&count, &company)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "two runs with the same URL leave exactly one row")
	assert.Equal(t, "New Co", company, "last write wins")
}

func TestUpsertSkipsEmptyURL(t *testing.T) {
	// no database needed: the empty-URL drop happens before any query
	jobs := []scraper.JobPosting{{Title: "No identity", URL: ""}}
	assert.Empty(t, Persistable(jobs))
}
