package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCard(t *testing.T) {
	tests := []struct {
		name      string
		cardText  string
		title     string
		company   string
		location  string
		postedAgo string
	}{
		{
			name:      "standard card",
			cardText:  "Title\nSenior Engineer\n\nAcme Corp\n\nToronto, ON\n\n2 days ago",
			title:     "Senior Engineer",
			company:   "Acme Corp",
			location:  "Toronto, ON",
			postedAgo: "2 days ago",
		},
		{
			name:     "no posted info",
			cardText: "Data Analyst\n\nGlobex\n\nVancouver, BC",
			title:    "Data Analyst",
			company:  "Globex",
			location: "Vancouver, BC",
		},
		{
			name:      "non-breaking spaces normalized",
			cardText:  "Backend Developer\n\nInitech Ltd\n\nOttawa, ON\n\nposted just now",
			title:     "Backend Developer",
			company:   "Initech Ltd",
			location:  "Ottawa, ON",
			postedAgo: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := ExtractCard(tt.cardText)
			require.NoError(t, err)
			assert.Equal(t, tt.title, job.Title)
			assert.Equal(t, tt.company, job.Company)
			assert.Equal(t, tt.location, job.Location)
			assert.Equal(t, tt.postedAgo, job.PostedAgo)
			assert.Equal(t, CurrencyNA, job.Salary.Currency)
			assert.Equal(t, MatchPending, job.Match.Status)
		})
	}
}

func TestExtractCardMalformed(t *testing.T) {
	_, err := ExtractCard("Just a title\n\nOnly one company")
	assert.ErrorIs(t, err, ErrMalformedRecord)

	_, err = ExtractCard("")
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestExtractCardPostedOn(t *testing.T) {
	card := "Promo\nML Engineer\n\nAcme Corp\n\nToronto, ON\n\nPosted on January 5, 2026\n3 days ago"
	job, err := ExtractCard(card)
	require.NoError(t, err)

	require.NotNil(t, job.PostedAt)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), *job.PostedAt)
	assert.Equal(t, "3 days ago", job.PostedAgo)
}

func TestExtractCardPostedAtUnparseable(t *testing.T) {
	card := "x\nEngineer\n\nAcme\n\nToronto\n\nPosted on someday ago"
	job, err := ExtractCard(card)
	require.NoError(t, err)
	// absolute and relative fields stay independent
	assert.Nil(t, job.PostedAt)
}

func TestBuildDescription(t *testing.T) {
	assert.Equal(t, "", BuildDescription(""))
	assert.Equal(t, "line one\nline two", BuildDescription("line one\n\n   \nline two\n"))
}

func TestExtractSalaryText(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{
			name:        "no currency markers",
			description: "Great culture.\nCompetitive pay.",
			want:        "",
		},
		{
			name:        "simple range",
			description: "About the job\nSalary: $90,000 - $120,000 a year\nBenefits included",
			want:        "Salary: $90,000 - $120,000 a year",
		},
		{
			name:        "raise commentary excluded",
			description: "You will be eligible for a $5,000 raise annually",
			want:        "",
		},
		{
			name:        "long sentences excluded",
			description: "The compensation for this position is $100,000 and includes a very long list of additional perks and considerations beyond that",
			want:        "",
		},
		{
			name:        "multiple sentences joined",
			description: "Base pay is $80,000 CAD. Bonus up to $10,000 CAD. No equity offered.\nCAD 70k for juniors",
			want:        "Base pay is $80,000 CAD | Bonus up to $10,000 CAD | CAD 70k for juniors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSalaryText(tt.description))
		})
	}
}
