package matcher

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-career-copilot/internal/scraper"
)

type fakeClient struct {
	response string
	err      error
	calls    int
}

func (f *fakeClient) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	return f.response, f.err
}

func TestEvaluateTokenGate(t *testing.T) {
	client := &fakeClient{}
	m := New(client, "resume text", "").WithTokenLimit(100)

	// ~250 estimated tokens, well past the 100 ceiling
	longJD := strings.Repeat("requirements ", 80)
	got := m.Evaluate(context.Background(), longJD)

	assert.Zero(t, client.calls, "over-budget descriptions must never hit the model")
	assert.Equal(t, scraper.MatchSkippedLong, got.Status)
	assert.Equal(t, "exceeded token limit, manual review required", got.Reasoning)
	assert.Empty(t, got.MissingSkills)
	assert.False(t, got.RecommendApply)
}

func TestEvaluateScored(t *testing.T) {
	client := &fakeClient{response: `{"match_score": 85, "reasoning": "Strong overlap.", "missing_skills": ["Kubernetes"]}`}
	m := New(client, "resume text", "Backend")

	got := m.Evaluate(context.Background(), "We need a Go developer")

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, scraper.MatchScored, got.Status)
	assert.Equal(t, 85, got.Score)
	assert.Equal(t, []string{"Kubernetes"}, got.MissingSkills)
	assert.True(t, got.RecommendApply)
}

func TestRecommendApplyThreshold(t *testing.T) {
	// flipping score 79 -> 80 at threshold 80 flips the recommendation and
	// nothing else
	for score, want := range map[int]bool{79: false, 80: true} {
		client := &fakeClient{response: `{"match_score": ` + strconv.Itoa(score) + `, "reasoning": "r", "missing_skills": []}`}
		m := New(client, "resume", "")

		got := m.Evaluate(context.Background(), "jd")
		assert.Equal(t, score, got.Score)
		assert.Equal(t, want, got.RecommendApply)
		assert.Equal(t, scraper.MatchScored, got.Status)
	}
}

func TestEvaluateServiceFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("503 service unavailable")}
	m := New(client, "resume", "")

	got := m.Evaluate(context.Background(), "jd")
	assert.Equal(t, scraper.MatchServiceError, got.Status)
	assert.Zero(t, got.Score)
	assert.Equal(t, "service error", got.Reasoning)
	assert.False(t, got.RecommendApply)
}

func TestEvaluateUnparseableResponse(t *testing.T) {
	client := &fakeClient{response: "the candidate seems fine I guess"}
	m := New(client, "resume", "")

	got := m.Evaluate(context.Background(), "jd")
	assert.Equal(t, scraper.MatchServiceError, got.Status)
	assert.Zero(t, got.Score)
}

func TestEvaluateToleratesLongSkillLists(t *testing.T) {
	// the prompt asks for max 5 but the model is not trusted to obey
	client := &fakeClient{response: `{"match_score": 40, "reasoning": "gaps", "missing_skills": ["a","b","c","d","e","f","g"]}`}
	m := New(client, "resume", "")

	got := m.Evaluate(context.Background(), "jd")
	assert.Len(t, got.MissingSkills, 7)
}

func TestEvaluateClampsScore(t *testing.T) {
	client := &fakeClient{response: `{"match_score": 140, "reasoning": "r", "missing_skills": []}`}
	m := New(client, "resume", "")

	got := m.Evaluate(context.Background(), "jd")
	assert.Equal(t, 100, got.Score)
}
