// Salary normalization: free-text salary strings into an annualized
// {min, max, currency} via one deterministic model call.

package salary

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go-career-copilot/internal/ai"
	"go-career-copilot/internal/scraper"
)

const systemInstruction = `You are a data extraction engine. Extract annual salary details from the text.

### RULES:
1. **Standardize to Annual:** If text is hourly (e.g., "$60/hr"), multiply by 2000 to get annual. If monthly, multiply by 12.
2. **Range Logic:**
   - "100k - 150k" -> min=100000, max=150000
   - "80k+" -> min=80000, max=80000
3. **Single Value Logic:**
   - If text says "Up to X", "Max X", or just one number "X", set 'min' to 0 and 'max' to X.
4. **Noise Handling:** If no specific numbers are found (e.g., "Competitive"), output 0 for both.
5. **Currency:** Defaults to 'CAD' unless 'USD' is explicitly mentioned.

### OUTPUT FORMAT:
Strictly output a JSON object: {"min": <int>, "max": <int>, "currency": "<str>"}`

type Normalizer struct {
	client ai.Client
}

func NewNormalizer(client ai.Client) *Normalizer {
	return &Normalizer{client: client}
}

// Parse maps raw salary text to a SalaryRange. Blank input short-circuits to
// the N/A range without spending a model call. Transport failures and
// unparseable replies each return their own sentinel currency so downstream
// can tell "no info" from "normalization broke".
func (n *Normalizer) Parse(ctx context.Context, raw string) scraper.SalaryRange {
	if strings.TrimSpace(raw) == "" {
		return scraper.SalaryRange{Currency: scraper.CurrencyNA}
	}

	user := fmt.Sprintf("### INPUT TEXT:\n%q", raw)
	content, err := n.client.Complete(ctx, systemInstruction, user)
	if err != nil {
		log.Printf("⚠️ Salary normalization failed for %q: %v", raw, err)
		return scraper.SalaryRange{Currency: scraper.CurrencyError}
	}

	var parsed scraper.SalaryRange
	if err := ai.DecodeObject(content, &parsed); err != nil {
		log.Printf("⚠️ Could not parse salary response for %q: %v", raw, err)
		return scraper.SalaryRange{Currency: scraper.CurrencyParseError}
	}

	if parsed.Min < 0 {
		parsed.Min = 0
	}
	if parsed.Max < 0 {
		parsed.Max = 0
	}
	if parsed.Min != 0 && parsed.Max != 0 && parsed.Max < parsed.Min {
		parsed.Min, parsed.Max = parsed.Max, parsed.Min
	}
	if parsed.Currency == "" {
		parsed.Currency = "CAD"
	}
	return parsed
}
