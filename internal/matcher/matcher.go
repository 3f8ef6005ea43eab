// Resume-to-description matching with a token-budget gate in front of the
// model call. One call per job, failures collapse to typed local defaults so
// a single bad match never aborts the batch.

package matcher

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go-career-copilot/internal/ai"
	"go-career-copilot/internal/scraper"
)

const (
	DefaultTokenLimit = 10000
	DefaultThreshold  = 80
)

const rubric = `You are an elite Technical Talent Acquisition Specialist with 20 years of experience.
Analyze the alignment between a candidate's resume and a job description.

### SCORING RUBRIC:
* 90-100: Perfect fit. Candidate meets ALL hard requirements and seniority levels.
* 80-89: Strong Match. Only missing minor "nice-to-have" tools or has minor (within 25% safe zone) seniority gap.
* 60-79: Moderate Match. Core skills match but missing specific domain or tools.
* 0-59: Reject. Deal-breakers present (Language mismatch, huge seniority gap).

### CRITICAL RULES:
* Be skeptical: Prioritize verifiable skills and evidence over self-claims.
* Seniority Delta: If the candidate's years of experience is "significantly" lower than the job requirement, the score should be < 60.
* Overqualification: If the candidate is far above the role's seniority (e.g., staff-level resume for a junior posting), apply a penalty rather than a perfect score.
* Anti-assumption: Do not infer unstated expertise (e.g., no "Python -> FastAPI").

### OUTPUT:
Output strictly in JSON. No preamble. No markdown code blocks.
Keys: 'match_score' (int), 'reasoning' (2-sentence string), 'missing_skills' (list of strings, max 5).`

type Matcher struct {
	client     ai.Client
	resume     string
	jobType    string
	tokenLimit int
	threshold  int
}

// New creates a Matcher for one run. The resume text is loaded once by the
// caller, not per job. jobType is an optional hint appended to the prompt.
func New(client ai.Client, resume, jobType string) *Matcher {
	return &Matcher{
		client:     client,
		resume:     resume,
		jobType:    jobType,
		tokenLimit: DefaultTokenLimit,
		threshold:  DefaultThreshold,
	}
}

// WithTokenLimit overrides the token-budget ceiling.
func (m *Matcher) WithTokenLimit(limit int) *Matcher {
	m.tokenLimit = limit
	return m
}

// WithThreshold overrides the recommend-apply score threshold.
func (m *Matcher) WithThreshold(threshold int) *Matcher {
	m.threshold = threshold
	return m
}

// EstimateTokens approximates the token count of text. Four characters per
// token is the fallback heuristic the original evaluator used when no
// tokenizer was available.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// Evaluate scores one job description against the run's resume.
// Descriptions over the token budget skip the model call and return a
// sentinel distinguishable from a genuine zero score.
func (m *Matcher) Evaluate(ctx context.Context, jd string) scraper.MatchResult {
	if tokens := EstimateTokens(jd); tokens > m.tokenLimit {
		log.Printf("⚠️ JD too long (~%d tokens > %d). Skipping model call.", tokens, m.tokenLimit)
		return m.finalize(scraper.MatchResult{
			Status:        scraper.MatchSkippedLong,
			Reasoning:     "exceeded token limit, manual review required",
			MissingSkills: []string{},
		})
	}

	user := fmt.Sprintf("RESUME:\n%s\n\n\nJOB DESCRIPTION:\n%s", m.resume, jd)
	if m.jobType != "" {
		user += fmt.Sprintf("\n\nTARGET JOB TYPE: %s", m.jobType)
	}

	content, err := m.client.Complete(ctx, rubric, user)
	if err != nil {
		log.Printf("⚠️ Match evaluation failed: %v", err)
		return m.serviceError()
	}

	var parsed struct {
		MatchScore    int      `json:"match_score"`
		Reasoning     string   `json:"reasoning"`
		MissingSkills []string `json:"missing_skills"`
	}
	if err := ai.DecodeObject(content, &parsed); err != nil {
		log.Printf("⚠️ Could not parse match response: %v", err)
		return m.serviceError()
	}

	if parsed.MatchScore < 0 {
		parsed.MatchScore = 0
	}
	if parsed.MatchScore > 100 {
		parsed.MatchScore = 100
	}
	if parsed.MissingSkills == nil {
		parsed.MissingSkills = []string{}
	}

	return m.finalize(scraper.MatchResult{
		Status:        scraper.MatchScored,
		Score:         parsed.MatchScore,
		Reasoning:     strings.TrimSpace(parsed.Reasoning),
		MissingSkills: parsed.MissingSkills,
	})
}

func (m *Matcher) serviceError() scraper.MatchResult {
	return m.finalize(scraper.MatchResult{
		Status:        scraper.MatchServiceError,
		Reasoning:     "service error",
		MissingSkills: []string{},
	})
}

// finalize applies the recommend-apply rule. Only genuinely scored results
// can recommend; sentinels and defaults always come out false.
func (m *Matcher) finalize(r scraper.MatchResult) scraper.MatchResult {
	r.RecommendApply = r.Status == scraper.MatchScored && r.Score >= m.threshold
	return r
}
