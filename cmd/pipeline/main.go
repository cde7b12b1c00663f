package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"earnings-insight/internal/insight"
	"earnings-insight/internal/llm"
	"earnings-insight/internal/logger"
	"earnings-insight/internal/store"
	"earnings-insight/internal/trace"
	"earnings-insight/internal/transcript"
	"earnings-insight/internal/types"
)

func main() {
	_ = godotenv.Load()
	logger.Init()
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init tracing: %v\n", err)
	}

	configPath := "config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer trace.Shutdown(context.Background())

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		cancel()
	}()

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║        Earnings Insight — Quarterly Trend Pipeline           ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("🏢 Company: %s (%s)\n", cfg.Company, cfg.Ticker)
	fmt.Printf("🔍 Acquiring up to %d quarterly transcripts...\n\n", cfg.Acquire.Quarters)

	mem := store.NewMemory()

	fetcher := transcript.NewFetcher(
		cfg.FetchTimeout(),
		cfg.Acquire.MinContentLength,
		cfg.Acquire.MaxRetries,
		cfg.BackoffDuration(),
	)
	synthetic := transcript.NewSyntheticGenerator(cfg.Company)
	orch := transcript.NewOrchestrator(cfg.Company, fetcher, synthetic, cfg.FetchDelay(), cfg.Acquire.MinContentLength)
	for _, adapter := range transcript.DefaultAdapters(cfg.Company, cfg.Ticker, cfg.FetchTimeout()) {
		orch.AddSiteAdapter(adapter)
	}

	documents := orch.Acquire(ctx, cfg.Acquire.Quarters)
	for _, doc := range documents {
		if err := mem.PutDocument(doc); err != nil {
			logger.ErrorWithErr(ctx, "Failed to persist document", err, "document", doc.ID)
		}
	}

	if documents[0].Synthetic {
		fmt.Println("⚠️  No real transcripts obtainable — using clearly-labeled synthetic placeholders")
	}
	fmt.Printf("📄 Acquired %d documents\n\n", len(documents))

	client := llm.NewClient(cfg)
	extractor := insight.NewExtractor(client, insight.ExtractorConfig{
		ExcerptRunes: cfg.Analysis.ExcerptRunes,
		MaxTokens:    cfg.LLM.MaxTokens,
		Temperature:  cfg.LLM.Temperature,
	})
	batch := insight.NewBatch(extractor, cfg.CallDelay())

	fmt.Println("🧠 Extracting per-quarter signals...")
	records := batch.AnalyzeAll(ctx, documents)
	for _, rec := range records {
		if err := mem.PutRecord(rec); err != nil {
			logger.ErrorWithErr(ctx, "Failed to persist record", err, "document", rec.DocumentID)
		}
	}
	fmt.Printf("📊 Extracted %d quarter records\n\n", len(records))

	report, err := insight.ComputeTrend(records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Trend computation failed: %v\n", err)
		os.Exit(1)
	}

	printReport(report)

	stats, _ := mem.Stats()
	fmt.Printf("💾 Store: %d documents, %d records\n", stats.DocumentCount, stats.RecordCount)

	if len(os.Args) > 1 && os.Args[1] == "--json" {
		saveReportJSON(report, "insight_report.json")
	}
}

func printReport(report *types.TrendReport) {
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("                     QUARTERLY TREND REPORT")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("Quarters analyzed:  %s\n", strings.Join(report.Quarters, " → "))
	fmt.Printf("Management trend:   %s %s\n", trendEmoji(report.Summary.ManagementTrend), report.Summary.ManagementTrend)
	fmt.Printf("Q&A trend:          %s %s\n", trendEmoji(report.Summary.QATrend), report.Summary.QATrend)
	fmt.Printf("Strategic shift:    %s\n", report.Summary.StrategicShift)
	fmt.Println()

	if len(report.Changes) > 0 {
		fmt.Println("Quarter-over-quarter changes:")
		for _, ch := range report.Changes {
			fmt.Printf("  %s → %s\n", ch.FromQuarter, ch.ToQuarter)
			printChange("Management", ch.Management)
			printChange("Q&A       ", ch.QA)
		}
		fmt.Println()
	}

	if len(report.ThemeEvolution) > 0 {
		fmt.Println("Theme evolution:")
		for _, ev := range report.ThemeEvolution {
			fmt.Printf("  %s\n", ev.Quarter)
			if len(ev.Emerging) > 0 {
				fmt.Printf("    🌱 Emerging:   %s\n", strings.Join(ev.Emerging, ", "))
			}
			if len(ev.Declining) > 0 {
				fmt.Printf("    🍂 Declining:  %s\n", strings.Join(ev.Declining, ", "))
			}
			if len(ev.Consistent) > 0 {
				fmt.Printf("    ♻️  Consistent: %s\n", strings.Join(ev.Consistent, ", "))
			}
		}
		fmt.Println()
	}

	fmt.Println("Key changes:")
	for i, change := range report.Summary.KeyChanges {
		fmt.Printf("  %d. %s\n", i+1, change)
	}
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
}

func printChange(section string, ch types.SentimentChange) {
	disagree := ""
	if ch.Disagrees {
		disagree = " (label shift and score delta disagree)"
	}
	fmt.Printf("    %s  Δ%+.2f  %s / %s%s\n", section, ch.ScoreDelta, ch.Shift, ch.Significance, disagree)
}

func trendEmoji(trend string) string {
	switch trend {
	case types.TrendImproving:
		return "📈"
	case types.TrendDeclining:
		return "📉"
	default:
		return "➖"
	}
}

func saveReportJSON(report *types.TrendReport, filename string) {
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create JSON file: %v\n", err)
		return
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write JSON: %v\n", err)
		return
	}

	fmt.Printf("💾 Report saved to %s\n", filename)
}
