// Pagination controller: walks one results page at a time through the
// injected driver and accumulates extracted postings. No deduplication here,
// that belongs to the persister.

package scraper

import (
	"context"
	"errors"
	"log"
	"time"

	"go-career-copilot/internal/driver"
)

type controllerState string

const (
	stateLoading    controllerState = "LOADING"
	stateExtracting controllerState = "EXTRACTING"
	stateAdvancing  controllerState = "ADVANCING"
	stateDone       controllerState = "DONE"
)

const defaultLoadTimeout = 30 * time.Second

type PaginationController struct {
	drv         driver.Driver
	maxPage     int
	loadTimeout time.Duration
}

// NewPaginationController creates a controller capped at maxPage pages.
// maxPage <= 0 means no cap.
func NewPaginationController(drv driver.Driver, maxPage int) *PaginationController {
	return &PaginationController{
		drv:         drv,
		maxPage:     maxPage,
		loadTimeout: defaultLoadTimeout,
	}
}

// Run drives the state machine until DONE and returns everything collected.
// Cancellation and load timeouts degrade the run, they never lose what was
// already extracted.
func (c *PaginationController) Run(ctx context.Context) []JobPosting {
	var jobs []JobPosting
	page := 1
	state := stateLoading

	for state != stateDone {
		if ctx.Err() != nil {
			log.Printf("⚠️ Run cancelled on page %d. Returning %d collected jobs.", page, len(jobs))
			return jobs
		}

		switch state {
		case stateLoading:
			if err := c.drv.WaitForResults(ctx, c.loadTimeout); err != nil {
				log.Printf("⚠️ Results container did not load on page %d: %v. Ending run degraded.", page, err)
				state = stateDone
				continue
			}
			state = stateExtracting

		case stateExtracting:
			cards, err := c.drv.Cards()
			if err != nil {
				log.Printf("⚠️ Failed to enumerate cards on page %d: %v", page, err)
				state = stateDone
				continue
			}
			log.Printf("📄 Page %d: found %d cards", page, len(cards))
			for i, card := range cards {
				if ctx.Err() != nil {
					break
				}
				job, ok := c.extractOne(card, i+1)
				if ok {
					jobs = append(jobs, job)
				}
			}
			state = stateAdvancing

		case stateAdvancing:
			if c.maxPage > 0 && page >= c.maxPage {
				log.Printf("🛑 Page cap (%d) reached.", c.maxPage)
				state = stateDone
				continue
			}
			has, err := c.drv.HasNextPage()
			if err != nil || !has {
				log.Println("🏁 Pagination end reached.")
				state = stateDone
				continue
			}
			if err := c.drv.NextPage(); err != nil {
				log.Printf("⚠️ Failed to advance to next page: %v", err)
				state = stateDone
				continue
			}
			page++
			state = stateLoading
		}
	}

	return jobs
}

// extractOne processes a single card. Any failure here skips the item and
// never aborts the page.
func (c *PaginationController) extractOne(card driver.Card, n int) (JobPosting, bool) {
	if err := card.ScrollIntoView(); err != nil {
		log.Printf("    ⚠️ Could not scroll card #%d into view: %v", n, err)
	}

	text, err := card.Text()
	if err != nil {
		log.Printf("    ⚠️ Failed to read text for card #%d: %v. Skipping.", n, err)
		return JobPosting{}, false
	}

	job, err := ExtractCard(text)
	if err != nil {
		if errors.Is(err, ErrMalformedRecord) {
			log.Printf("    ⚠️ Card #%d has an unexpected text structure. Skipping.", n)
		} else {
			log.Printf("    ⚠️ Card #%d extraction failed: %v. Skipping.", n, err)
		}
		return JobPosting{}, false
	}

	if err := card.Open(); err != nil {
		log.Printf("    ⚠️ Interaction failed for %q at %q: %v. Skipping.", job.Title, job.Company, err)
		return JobPosting{}, false
	}

	job.Reposted = c.drv.DetailReposted()

	// A missing detail panel yields a partial record, not an error.
	detail, err := c.drv.DetailText()
	if err != nil {
		log.Printf("    ⚠️ Could not extract description for %q at %q.", job.Title, job.Company)
		detail = ""
	}
	job.Description = BuildDescription(detail)
	job.SalaryRaw = ExtractSalaryText(job.Description)
	job.URL = c.drv.JobURL()

	log.Printf("    ✅ %s - %s", job.Title, job.Company)
	return job, true
}
