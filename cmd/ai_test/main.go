// Manual harness to sanity-check the DeepSeek client without a full run.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"go-career-copilot/internal/ai"
	"go-career-copilot/internal/salary"
)

func main() {
	_ = godotenv.Load()

	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		log.Fatal("❌ DEEPSEEK_API_KEY is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := ai.NewDeepSeekClient(apiKey)
	normalizer := salary.NewNormalizer(client)

	samples := []string{
		"$90,000 - $120,000 a year",
		"Up to $65/hr",
		"Competitive compensation",
	}
	for _, s := range samples {
		r := normalizer.Parse(ctx, s)
		log.Printf("💰 %q -> min=%d max=%d currency=%s", s, r.Min, r.Max, r.Currency)
	}
}
