// CSV sink: the run's durability fallback. Always written, even when the
// database is unreachable, so a run never ends without an output artifact.

package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go-career-copilot/internal/scraper"
)

// Columns is fixed so downstream consumers can rely on the order between
// runs.
var Columns = []string{
	"Job Title", "Company", "Location", "Posted Time", "Posted Ago", "Reposted",
	"Salary", "Min Salary", "Max Salary", "Currency", "URL", "Job Description",
	"Match Status", "Match Score", "Reasoning", "Missing Skills", "Recommend Apply",
}

// WriteCSV writes every posting to path, one row each. Non-scored match
// results leave the score cell empty so a sentinel never reads as a real 0.
func WriteCSV(path string, jobs []scraper.JobPosting) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, job := range jobs {
		if err := w.Write(csvRow(job)); err != nil {
			return fmt.Errorf("failed to write row for %q: %w", job.Title, err)
		}
	}

	w.Flush()
	return w.Error()
}

func csvRow(job scraper.JobPosting) []string {
	postedTime := ""
	if job.PostedAt != nil {
		postedTime = job.PostedAt.Format("2006-01-02")
	}

	score := ""
	if job.Match.Status == scraper.MatchScored {
		score = strconv.Itoa(job.Match.Score)
	}

	return []string{
		job.Title,
		job.Company,
		job.Location,
		postedTime,
		job.PostedAgo,
		strconv.FormatBool(job.Reposted),
		job.SalaryRaw,
		strconv.Itoa(job.Salary.Min),
		strconv.Itoa(job.Salary.Max),
		job.Salary.Currency,
		job.URL,
		job.Description,
		string(job.Match.Status),
		score,
		job.Match.Reasoning,
		strings.Join(job.Match.MissingSkills, "; "),
		strconv.FormatBool(job.Match.RecommendApply),
	}
}
