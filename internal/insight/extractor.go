package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"earnings-insight/internal/interfaces"
	"earnings-insight/internal/logger"
	"earnings-insight/internal/types"
)

// FallbackThemeName is the single generic theme substituted when theme
// extraction fails. Its presence marks the theme list as a fallback default.
const FallbackThemeName = "General Business"

const analysisSystemPrompt = "You are a financial analyst expert at reading earnings-call transcripts. Respond ONLY with valid JSON matching the requested schema."

// ErrEmptyDocument is the one condition Extract refuses to work with.
var ErrEmptyDocument = errors.New("document has no text to analyze")

// ExtractorConfig bounds the analysis requests.
type ExtractorConfig struct {
	ExcerptRunes int
	MaxTokens    int
	Temperature  float32
}

// DefaultExtractorConfig returns the default request bounds.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		ExcerptRunes: 2000,
		MaxTokens:    500,
		Temperature:  0.1,
	}
}

// Extractor derives one QuarterRecord per Document via three independent
// analysis calls plus a local metrics scan. Each call resolves to a
// documented neutral default on any failure, so a record is always produced.
type Extractor struct {
	client interfaces.AnalysisClient
	cfg    ExtractorConfig
}

// NewExtractor creates a signal extractor backed by the given analysis
// client.
func NewExtractor(client interfaces.AnalysisClient, cfg ExtractorConfig) *Extractor {
	def := DefaultExtractorConfig()
	if cfg.ExcerptRunes == 0 {
		cfg.ExcerptRunes = def.ExcerptRunes
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = def.Temperature
	}
	return &Extractor{client: client, cfg: cfg}
}

// Extract analyzes one Document. The three analysis calls run concurrently
// with no ordering dependency; the record is complete once all three, or
// their fallbacks, resolve. Extraction never fails past this boundary except
// for a document with no text at all.
func (e *Extractor) Extract(ctx context.Context, doc types.Document) (types.QuarterRecord, error) {
	if strings.TrimSpace(doc.FullText) == "" {
		return types.QuarterRecord{}, fmt.Errorf("%w: %s", ErrEmptyDocument, doc.ID)
	}

	op := logger.StartOperation(ctx, "extract-signals", "document", doc.ID, "quarter", doc.Quarter)
	ctx = op.GetContext()

	var (
		wg         sync.WaitGroup
		management types.SentimentSignal
		qa         types.SentimentSignal
		themes     []types.ThemeSignal
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		management = e.sentiment(ctx, doc, "management remarks", doc.ManagementRemarks)
	}()
	go func() {
		defer wg.Done()
		qa = e.sentiment(ctx, doc, "Q&A session", doc.QA)
	}()
	go func() {
		defer wg.Done()
		themes = e.themes(ctx, doc)
	}()
	wg.Wait()

	record := types.QuarterRecord{
		DocumentID:  doc.ID,
		Quarter:     doc.Quarter,
		Management:  management,
		QA:          qa,
		Themes:      themes,
		Metrics:     ExtractMetrics(doc.FullText),
		GeneratedAt: time.Now(),
	}

	op.End("mgmt_fallback", management.Fallback, "qa_fallback", qa.Fallback)
	return record, nil
}

// sentiment runs one sentiment request, resolving any transport or schema
// failure to the neutral default.
func (e *Extractor) sentiment(ctx context.Context, doc types.Document, section, text string) types.SentimentSignal {
	prompt := e.buildSentimentPrompt(doc, section, text)

	raw, err := e.client.Complete(ctx, interfaces.AnalysisRequest{
		System:      analysisSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		logger.Fallback(ctx, "sentiment", err.Error(), "document", doc.ID, "section", section)
		return neutralSentiment()
	}

	signal, err := ParseSentimentResponse(raw)
	if err != nil {
		logger.Fallback(ctx, "sentiment", err.Error(), "document", doc.ID, "section", section)
		return neutralSentiment()
	}
	return signal
}

// themes runs the theme-extraction request, resolving failure to the single
// generic fallback theme.
func (e *Extractor) themes(ctx context.Context, doc types.Document) []types.ThemeSignal {
	prompt := e.buildThemesPrompt(doc)

	raw, err := e.client.Complete(ctx, interfaces.AnalysisRequest{
		System:      analysisSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		logger.Fallback(ctx, "themes", err.Error(), "document", doc.ID)
		return fallbackThemes()
	}

	themes, err := ParseThemesResponse(raw)
	if err != nil {
		logger.Fallback(ctx, "themes", err.Error(), "document", doc.ID)
		return fallbackThemes()
	}
	return themes
}

// neutralSentiment is the documented per-field default substituted when an
// analysis call fails.
func neutralSentiment() types.SentimentSignal {
	return types.SentimentSignal{
		Label:      types.SentimentNeutral,
		Score:      0,
		Confidence: 0.5,
		Rationale:  "analysis unavailable, neutral default substituted",
		Fallback:   true,
	}
}

func fallbackThemes() []types.ThemeSignal {
	return []types.ThemeSignal{{
		Name:       FallbackThemeName,
		Mentions:   1,
		Importance: 0.5,
		Category:   types.ThemeCategoryStrategic,
	}}
}

func (e *Extractor) buildSentimentPrompt(doc types.Document, section, text string) string {
	schema := `{
  "sentiment": "positive|neutral|negative",
  "score": -1.0 to 1.0 (float),
  "confidence": 0.0 to 1.0 (float),
  "phrases": ["up to 3 short supporting phrases"],
  "rationale": "one sentence"
}`

	return fmt.Sprintf(`Analyze the sentiment of the %s from %s's %s earnings call.

Transcript excerpt:
%s

Respond ONLY with valid JSON matching this schema:
%s`, section, doc.Company, doc.Quarter, excerpt(text, e.cfg.ExcerptRunes), schema)
}

func (e *Extractor) buildThemesPrompt(doc types.Document) string {
	schema := `{
  "themes": [
    {
      "name": "short theme name",
      "mentions": integer,
      "importance": 0.0 to 1.0,
      "quotes": ["up to 2 short supporting quotes"],
      "category": "product|market|technology|financial|strategic"
    }
  ]
}`

	return fmt.Sprintf(`Identify the 3-5 most important strategic themes discussed in %s's %s earnings call.

Transcript excerpt:
%s

Respond ONLY with valid JSON matching this schema:
%s`, doc.Company, doc.Quarter, excerpt(doc.FullText, e.cfg.ExcerptRunes), schema)
}

// excerpt bounds the text sent to the analysis service, cutting at a rune
// boundary.
func excerpt(text string, maxRunes int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= maxRunes {
		return string(runes)
	}
	return string(runes[:maxRunes]) + "..."
}
