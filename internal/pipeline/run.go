// Run orchestration: wires the driver, extractor, filter, normalizer,
// matcher and persister into one sequential pass. Strictly one page, one
// item, one model call at a time; the browser session and the model client
// are never used concurrently.

package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"go-career-copilot/internal/ai"
	"go-career-copilot/internal/config"
	"go-career-copilot/internal/dedup"
	"go-career-copilot/internal/driver"
	"go-career-copilot/internal/filter"
	"go-career-copilot/internal/matcher"
	"go-career-copilot/internal/reporter"
	"go-career-copilot/internal/resume"
	"go-career-copilot/internal/salary"
	"go-career-copilot/internal/scraper"
	"go-career-copilot/internal/store"
)

type Pipeline struct {
	cfg      *config.Config
	client   ai.Client
	repo     *store.Repository
	reporter *reporter.TelegramReporter
	seen     dedup.SeenCache
}

// New assembles the pipeline's long-lived collaborators. Storage, telegram
// and redis are optional: a missing one degrades the run, never blocks it.
func New(ctx context.Context, cfg *config.Config) *Pipeline {
	p := &Pipeline{cfg: cfg}

	if cfg.DeepSeekAPIKey == "" {
		log.Println("⚠️ DEEPSEEK_API_KEY is not set. Salary and match stages will return error sentinels.")
	}
	p.client = ai.NewDeepSeekClient(cfg.DeepSeekAPIKey)

	if cfg.DatabaseURL != "" {
		repo, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("⚠️ Could not connect to database: %v. CSV output remains the fallback.", err)
		} else if err := repo.EnsureSchema(ctx); err != nil {
			log.Printf("⚠️ Could not ensure schema: %v. Skipping database writes.", err)
			repo.Close()
		} else {
			p.repo = repo
		}
	}

	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		rep, err := reporter.NewTelegramReporter(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Could not init Telegram reporter: %v. Continuing without notifications.", err)
		} else {
			p.reporter = rep
		}
	}

	if cfg.RedisURL != "" {
		cache, err := dedup.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Could not connect to redis: %v. Falling back to file cache.", err)
		} else {
			p.seen = cache
		}
	}
	if p.seen == nil {
		p.seen = dedup.NewFileCache(cfg.CachePath)
	}

	return p
}

func (p *Pipeline) Close() {
	if p.repo != nil {
		p.repo.Close()
	}
}

// Run executes one full scrape-filter-normalize-match-persist pass.
// Cancellation mid-run still persists whatever was collected.
func (p *Pipeline) Run(ctx context.Context) error {
	cfg := p.cfg
	log.Printf("🚀 Starting run for [%s]: %q in %q", cfg.UserName, cfg.Search.Keyword, cfg.Search.City)

	resumeText, err := resume.Load(cfg.Resume)
	if err != nil {
		return fmt.Errorf("could not load resume: %w", err)
	}
	log.Printf("📄 Resume loaded (%d chars)", len(resumeText))

	jobs, err := p.scrape(ctx)
	if err != nil {
		if p.reporter != nil {
			p.reporter.SendError(err)
		}
		return err
	}
	log.Printf("📦 Total jobs collected: %d", len(jobs))

	// Complete CSV first: the run must produce an artifact no matter what
	// happens to the database or the model service.
	date := time.Now().Format("20060102")
	completePath := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s_%s.csv", date, cfg.UserName, cfg.Search.Keyword))
	if err := store.WriteCSV(completePath, jobs); err != nil {
		log.Printf("⚠️ Failed to save complete CSV: %v", err)
	} else {
		log.Printf("📁 Complete results saved to %s", completePath)
	}

	// Cancellation must not sabotage persistence of what was gathered.
	persistCtx := context.WithoutCancel(ctx)
	if p.repo != nil {
		if n, err := p.repo.UpsertPostings(persistCtx, jobs, cfg.UserName, cfg.Search.Keyword); err != nil {
			log.Printf("⚠️ Failed to upsert raw postings: %v", err)
		} else {
			log.Printf("💾 Upserted %d raw postings", n)
		}
	}

	eligible := filter.EligibleJobs(jobs, filter.Options{
		CompanyList:    cfg.CompanyList,
		SalaryRequired: cfg.Salary,
		KeepReposted:   cfg.Repost,
	})

	eligible = p.normalizeSalaries(ctx, eligible)
	eligible = p.matchJobs(ctx, eligible, resumeText)

	filteredPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s_%s_filtered.csv", date, cfg.UserName, cfg.Search.Keyword))
	if err := store.WriteCSV(filteredPath, eligible); err != nil {
		log.Printf("⚠️ Failed to save filtered CSV: %v", err)
	} else {
		log.Printf("📁 Matched results saved to %s", filteredPath)
	}

	if p.repo != nil {
		if n, err := p.repo.UpsertMatches(persistCtx, eligible, cfg.UserName, cfg.Search.Keyword); err != nil {
			log.Printf("⚠️ Failed to upsert match results: %v", err)
		} else {
			log.Printf("💾 Upserted %d match results", n)
		}
	}

	recommended := p.notify(persistCtx, eligible, len(jobs))
	log.Printf("🏁 Run finished: %d scraped, %d eligible, %d recommended.", len(jobs), len(eligible), recommended)
	return nil
}

// scrape owns the browser session for one run: sign-in, search setup, then
// the pagination controller.
func (p *Pipeline) scrape(ctx context.Context) ([]scraper.JobPosting, error) {
	cfg := p.cfg
	drv, err := driver.NewPlaywrightDriver(driver.Options{
		Headless:    cfg.Options.Headless,
		Tracing:     cfg.Options.Tracing,
		TracePath:   cfg.Options.TracePath,
		UserDataDir: cfg.UserDataDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}
	defer drv.Close()

	if err := drv.SignIn(cfg.SiteEmail, cfg.SitePassword); err != nil {
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}
	if err := drv.Search(cfg.Search.Keyword, cfg.Search.City); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	// Filters are best effort: a missing control narrows nothing but the
	// run still has results to work with.
	if err := drv.FilterPeriod(cfg.Search.Period); err != nil {
		log.Printf("⚠️ Failed to apply time filter: %v", err)
	}
	if err := drv.SetDistance(cfg.Search.Distance); err != nil {
		log.Printf("⚠️ Failed to set location filter: %v", err)
	}

	controller := scraper.NewPaginationController(drv, cfg.MaxPage)
	return controller.Run(ctx), nil
}

func (p *Pipeline) normalizeSalaries(ctx context.Context, jobs []scraper.JobPosting) []scraper.JobPosting {
	normalizer := salary.NewNormalizer(p.client)
	out := make([]scraper.JobPosting, 0, len(jobs))
	for _, job := range jobs {
		if ctx.Err() == nil {
			job.Salary = normalizer.Parse(ctx, job.SalaryRaw)
		}
		out = append(out, job)
	}
	return out
}

func (p *Pipeline) matchJobs(ctx context.Context, jobs []scraper.JobPosting, resumeText string) []scraper.JobPosting {
	m := matcher.New(p.client, resumeText, p.cfg.JobType)
	out := make([]scraper.JobPosting, 0, len(jobs))
	for i, job := range jobs {
		if ctx.Err() == nil {
			log.Printf("🤝 Matching job %d/%d: %s", i+1, len(jobs), job.Title)
			job.Match = m.Evaluate(ctx, job.Description)
		}
		out = append(out, job)
	}
	return out
}

// notify pushes unseen recommended jobs to telegram and marks them seen.
// Runs on the persist context so an interrupt can't break the bookkeeping.
// Returns the number of recommended jobs regardless of notification state.
func (p *Pipeline) notify(ctx context.Context, jobs []scraper.JobPosting, scraped int) int {
	recommended := 0
	var sent []string
	for _, job := range jobs {
		if !job.Match.RecommendApply {
			continue
		}
		recommended++
		if p.reporter == nil || job.URL == "" || p.seen.IsSeen(ctx, job.URL) {
			continue
		}
		if err := p.reporter.SendJob(job); err != nil {
			log.Printf("⚠️ Failed to send job to Telegram: %v", err)
			continue
		}
		sent = append(sent, job.URL)
		//1 second delay to avoid 429
		time.Sleep(1 * time.Second)
	}
	if len(sent) > 0 {
		p.seen.Add(ctx, sent)
	}
	if p.reporter != nil {
		if err := p.reporter.SendSummary(p.cfg.UserName, scraped, len(jobs), recommended); err != nil {
			log.Printf("⚠️ Failed to send summary to Telegram: %v", err)
		}
	}
	return recommended
}
