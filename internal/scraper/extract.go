// Field extraction from raw card / detail-panel text.
// The card layout rules here mirror what the listings site actually renders:
// paragraphs split by blank lines, title on the last line of the first
// paragraph, then company and location. They are deliberately kept as dumb
// string rules so layout drift breaks loudly in the tests.

package scraper

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedRecord marks a card whose text has too few paragraphs to
// recover title/company/location. Callers log and skip, never abort a page.
var ErrMalformedRecord = errors.New("malformed job card")

// postedAtLayouts are tried in order against the "Posted on ..." tail.
var postedAtLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
	"2 January 2006",
}

// ExtractCard parses one card's visible text into a JobPosting.
// URL, description, salary and reposted status come from the detail view and
// are filled in by the caller.
func ExtractCard(cardText string) (JobPosting, error) {
	segments := strings.Split(cardText, "\n\n")
	if len(segments) < 3 {
		return JobPosting{}, fmt.Errorf("%w: got %d segments, need 3", ErrMalformedRecord, len(segments))
	}

	titleLines := strings.Split(segments[0], "\n")
	job := JobPosting{
		Title:    normalizeSpaces(titleLines[len(titleLines)-1]),
		Company:  normalizeSpaces(segments[1]),
		Location: normalizeSpaces(segments[2]),
		Salary:   SalaryRange{Currency: CurrencyNA},
		Match:    MatchResult{Status: MatchPending},
	}

	job.PostedAt, job.PostedAgo = parsePostedTime(segments)
	return job, nil
}

// parsePostedTime scans all segments for relative-time lines. Absolute and
// relative values are independent: both, either or neither may be present.
func parsePostedTime(segments []string) (*time.Time, string) {
	var corpus []string
	for _, seg := range segments {
		lower := strings.ToLower(seg)
		if strings.Contains(lower, "ago") || strings.Contains(lower, "just posted") {
			corpus = append(corpus, seg)
		}
	}

	var postedAt *time.Time
	var postedAgo string
	for _, line := range strings.Split(strings.Join(corpus, "\n"), "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "Posted on "); ok && postedAt == nil {
			for _, layout := range postedAtLayouts {
				if t, err := time.Parse(layout, strings.TrimSpace(rest)); err == nil {
					postedAt = &t
					break
				}
			}
		} else if postedAgo == "" {
			lower := strings.ToLower(line)
			if strings.Contains(lower, "ago") || strings.Contains(lower, "now") {
				postedAgo = line
			}
		}
	}
	return postedAt, postedAgo
}

// BuildDescription joins the non-blank lines of the detail panel text.
// Empty input is valid: it just means the detail view never loaded.
func BuildDescription(detailText string) string {
	var lines []string
	for _, line := range strings.Split(detailText, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// ExtractSalaryText pulls compensation sentences out of a description.
// A candidate line must carry a currency marker; each sentence is kept when
// it still has a marker, is not about raises ("eligible for a raise") and is
// short enough to plausibly be a salary statement.
func ExtractSalaryText(description string) string {
	var kept []string
	for _, line := range strings.Split(description, "\n") {
		if !hasCurrencyMarker(line) {
			continue
		}
		for _, sentence := range strings.Split(line, ". ") {
			sentence = strings.TrimSpace(sentence)
			if hasCurrencyMarker(sentence) && !strings.Contains(sentence, " raise") && len(sentence) < 100 {
				kept = append(kept, sentence)
			}
		}
	}
	return strings.Join(kept, " | ")
}

func hasCurrencyMarker(s string) bool {
	return strings.Contains(s, "$") || strings.Contains(s, "CAD")
}

// normalizeSpaces turns non-breaking spaces into regular ones and trims.
func normalizeSpaces(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(s)
}
