// Postgres persistence: upsert-by-key writes so repeated runs are safe to
// re-execute. Key = md5 hex of the posting URL; records without a URL have
// no stable identity and are excluded here, never earlier in the pipeline.

package store

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-career-copilot/internal/scraper"
)

type Repository struct {
	db *pgxpool.Pool
}

func Connect(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// Pooled Postgres (PgBouncer in transaction mode) does not play well
	// with prepared statements, so the statement cache is disabled.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// KeyFor returns the stable identity key for a posting URL. md5 keeps the
// keys byte-compatible with earlier exports of the same data.
func KeyFor(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// EnsureSchema creates the two result tables if they do not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS job_posts (
			id TEXT PRIMARY KEY,
			title TEXT,
			company TEXT,
			location TEXT,
			posted_time TIMESTAMPTZ,
			posted_ago TEXT,
			reposted BOOLEAN,
			salary TEXT,
			url TEXT,
			description TEXT,
			user_name TEXT,
			keyword TEXT,
			run_date DATE,
			updated_at TIMESTAMPTZ DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create job_posts: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS match_output (
			id TEXT PRIMARY KEY,
			title TEXT,
			company TEXT,
			location TEXT,
			posted_time TIMESTAMPTZ,
			posted_ago TEXT,
			reposted BOOLEAN,
			salary TEXT,
			min_salary BIGINT,
			max_salary BIGINT,
			currency TEXT,
			url TEXT,
			description TEXT,
			match_status TEXT,
			match_score INT,
			reasoning TEXT,
			missing_skills TEXT,
			recommend_apply BOOLEAN,
			user_name TEXT,
			keyword TEXT,
			run_date DATE,
			updated_at TIMESTAMPTZ DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create match_output: %w", err)
	}
	return nil
}

// Persistable drops records with no URL and collapses in-batch duplicates,
// last occurrence winning, mirroring the upsert semantics inside one batch.
func Persistable(jobs []scraper.JobPosting) []scraper.JobPosting {
	byKey := make(map[string]int)
	var out []scraper.JobPosting
	for _, job := range jobs {
		if !job.Persistable() {
			continue
		}
		key := KeyFor(job.URL)
		if i, seen := byKey[key]; seen {
			out[i] = job
			continue
		}
		byKey[key] = len(out)
		out = append(out, job)
	}
	return out
}

// UpsertPostings writes raw postings into job_posts. The whole batch runs in
// one transaction: either all rows land or none do.
func (r *Repository) UpsertPostings(ctx context.Context, jobs []scraper.JobPosting, user, keyword string) (int, error) {
	jobs = Persistable(jobs)
	if len(jobs) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO job_posts (id, title, company, location, posted_time, posted_ago, reposted, salary, url, description, user_name, keyword, run_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, CURRENT_DATE, now())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, company = EXCLUDED.company, location = EXCLUDED.location,
			posted_time = EXCLUDED.posted_time, posted_ago = EXCLUDED.posted_ago,
			reposted = EXCLUDED.reposted, salary = EXCLUDED.salary, url = EXCLUDED.url,
			description = EXCLUDED.description, user_name = EXCLUDED.user_name,
			keyword = EXCLUDED.keyword, run_date = EXCLUDED.run_date, updated_at = now()`

	for _, job := range jobs {
		_, err := tx.Exec(ctx, query,
			KeyFor(job.URL), job.Title, job.Company, job.Location, job.PostedAt, job.PostedAgo,
			job.Reposted, job.SalaryRaw, job.URL, job.Description, user, keyword)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert posting %q: %w", job.Title, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit postings batch: %w", err)
	}
	return len(jobs), nil
}

// UpsertMatches writes scored postings into match_output, last write wins.
func (r *Repository) UpsertMatches(ctx context.Context, jobs []scraper.JobPosting, user, keyword string) (int, error) {
	jobs = Persistable(jobs)
	if len(jobs) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO match_output (id, title, company, location, posted_time, posted_ago, reposted, salary,
			min_salary, max_salary, currency, url, description,
			match_status, match_score, reasoning, missing_skills, recommend_apply,
			user_name, keyword, run_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, CURRENT_DATE, now())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, company = EXCLUDED.company, location = EXCLUDED.location,
			posted_time = EXCLUDED.posted_time, posted_ago = EXCLUDED.posted_ago,
			reposted = EXCLUDED.reposted, salary = EXCLUDED.salary,
			min_salary = EXCLUDED.min_salary, max_salary = EXCLUDED.max_salary, currency = EXCLUDED.currency,
			url = EXCLUDED.url, description = EXCLUDED.description,
			match_status = EXCLUDED.match_status, match_score = EXCLUDED.match_score,
			reasoning = EXCLUDED.reasoning, missing_skills = EXCLUDED.missing_skills,
			recommend_apply = EXCLUDED.recommend_apply, user_name = EXCLUDED.user_name,
			keyword = EXCLUDED.keyword, run_date = EXCLUDED.run_date, updated_at = now()`

	for _, job := range jobs {
		_, err := tx.Exec(ctx, query,
			KeyFor(job.URL), job.Title, job.Company, job.Location, job.PostedAt, job.PostedAgo,
			job.Reposted, job.SalaryRaw,
			job.Salary.Min, job.Salary.Max, job.Salary.Currency, job.URL, job.Description,
			string(job.Match.Status), job.Match.Score, job.Match.Reasoning,
			strings.Join(job.Match.MissingSkills, "; "), job.Match.RecommendApply,
			user, keyword)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert match for %q: %w", job.Title, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit matches batch: %w", err)
	}
	return len(jobs), nil
}
