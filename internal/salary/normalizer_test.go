package salary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-career-copilot/internal/scraper"
)

// fakeClient returns a canned response and counts calls.
type fakeClient struct {
	response string
	err      error
	calls    int
}

func (f *fakeClient) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	return f.response, f.err
}

func TestParseBlankInputSkipsServiceCall(t *testing.T) {
	client := &fakeClient{}
	n := NewNormalizer(client)

	for _, raw := range []string{"", "   ", "\n\t "} {
		got := n.Parse(context.Background(), raw)
		assert.Equal(t, scraper.SalaryRange{Min: 0, Max: 0, Currency: scraper.CurrencyNA}, got)
	}
	assert.Zero(t, client.calls, "blank input must never hit the model")
}

func TestParseValidResponse(t *testing.T) {
	client := &fakeClient{response: `{"min": 90000, "max": 120000, "currency": "CAD"}`}
	n := NewNormalizer(client)

	got := n.Parse(context.Background(), "$90,000 - $120,000 a year")
	assert.Equal(t, scraper.SalaryRange{Min: 90000, Max: 120000, Currency: "CAD"}, got)
	assert.Equal(t, 1, client.calls)
}

func TestParseEmbeddedJSONFallback(t *testing.T) {
	client := &fakeClient{response: `The salary parses as {"min": 0, "max": 130000, "currency": "USD"} based on the text.`}
	n := NewNormalizer(client)

	got := n.Parse(context.Background(), "up to $130k USD")
	assert.Equal(t, scraper.SalaryRange{Min: 0, Max: 130000, Currency: "USD"}, got)
}

func TestParseServiceFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	n := NewNormalizer(client)

	got := n.Parse(context.Background(), "$100k")
	assert.Equal(t, scraper.CurrencyError, got.Currency)
	assert.Zero(t, got.Min)
	assert.Zero(t, got.Max)
}

func TestParseUnparseableResponse(t *testing.T) {
	client := &fakeClient{response: "I cannot determine the salary from this text."}
	n := NewNormalizer(client)

	got := n.Parse(context.Background(), "competitive salary")
	assert.Equal(t, scraper.CurrencyParseError, got.Currency)
}

func TestParseSwapsInvertedRange(t *testing.T) {
	client := &fakeClient{response: `{"min": 150000, "max": 100000, "currency": "CAD"}`}
	n := NewNormalizer(client)

	got := n.Parse(context.Background(), "150k down to 100k")
	assert.Equal(t, 100000, got.Min)
	assert.Equal(t, 150000, got.Max)
}
