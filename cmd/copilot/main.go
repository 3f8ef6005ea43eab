package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go-career-copilot/internal/config"
	"go-career-copilot/internal/pipeline"
	"go-career-copilot/internal/scheduler"
)

const runTimeout = 30 * time.Minute

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to run configuration")
	flag.Parse()

	setupLogging()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Printf("🔧 Config loaded for [%s]. Keyword: %q, City: %q", cfg.UserName, cfg.Search.Keyword, cfg.Search.City)

	// An interrupt cancels in-flight work but still lets the pipeline
	// persist what it already collected before exiting.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(ctx, cfg)
	defer p.Close()

	if cfg.Schedule != "" {
		s := scheduler.New(p, cfg.Schedule, runTimeout)
		if err := s.Start(ctx); err != nil {
			log.Fatalf("❌ Failed to start scheduler: %v", err)
		}
		<-ctx.Done()
		s.Stop()
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	if err := p.Run(runCtx); err != nil {
		log.Fatalf("❌ Run failed: %v", err)
	}
}

// setupLogging mirrors every log line into a timestamped file under logs/.
func setupLogging() {
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("⚠️ Failed to create logs directory: %v", err)
		return
	}
	path := filepath.Join("logs", fmt.Sprintf("%s.log", time.Now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		log.Printf("⚠️ Failed to create log file: %v", err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
}
