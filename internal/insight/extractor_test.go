package insight

import (
	"context"
	"errors"
	"strings"
	"testing"

	"earnings-insight/internal/interfaces"
	"earnings-insight/internal/types"
)

// fakeClient routes each request through a test-provided function.
type fakeClient struct {
	complete func(req interfaces.AnalysisRequest) (string, error)
}

func (f *fakeClient) Complete(ctx context.Context, req interfaces.AnalysisRequest) (string, error) {
	return f.complete(req)
}

func testDocument() types.Document {
	return types.Document{
		ID:                "q1-2024-2024-03-31",
		Quarter:           "Q1 2024",
		Company:           "NVIDIA",
		ManagementRemarks: "We delivered record revenue of $5.6 billion this quarter driven by strong data center demand.",
		QA:                "Analyst: How durable is the demand? Management: We see sustained strength.",
		FullText:          "We delivered record revenue of $5.6 billion this quarter driven by strong data center demand.\n\nAnalyst: How durable is the demand? Management: We see sustained strength.",
	}
}

func TestNewExtractorPartialConfig(t *testing.T) {
	// Zero fields default individually; explicit fields survive.
	e := NewExtractor(&fakeClient{}, ExtractorConfig{MaxTokens: 800})

	if e.cfg.MaxTokens != 800 {
		t.Errorf("Explicit MaxTokens discarded, got %d", e.cfg.MaxTokens)
	}
	def := DefaultExtractorConfig()
	if e.cfg.ExcerptRunes != def.ExcerptRunes {
		t.Errorf("Expected default excerpt bound %d, got %d", def.ExcerptRunes, e.cfg.ExcerptRunes)
	}
	if e.cfg.Temperature != def.Temperature {
		t.Errorf("Expected default temperature %v, got %v", def.Temperature, e.cfg.Temperature)
	}
}

const sentimentJSON = `{"sentiment": "positive", "score": 0.7, "confidence": 0.9, "phrases": ["record revenue"], "rationale": "strong quarter"}`

const themesJSON = `{"themes": [{"name": "Data Center", "mentions": 4, "importance": 0.9, "quotes": ["strong data center demand"], "category": "market"}]}`

func TestExtractSuccess(t *testing.T) {
	client := &fakeClient{complete: func(req interfaces.AnalysisRequest) (string, error) {
		if strings.Contains(req.Prompt, "strategic themes") {
			return themesJSON, nil
		}
		return sentimentJSON, nil
	}}

	extractor := NewExtractor(client, DefaultExtractorConfig())
	record, err := extractor.Extract(context.Background(), testDocument())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if record.Management.Label != types.SentimentPositive {
		t.Errorf("Expected positive management label, got %s", record.Management.Label)
	}
	if record.Management.Fallback {
		t.Error("Successful extraction must not be marked as fallback")
	}
	if record.Management.Score != 0.7 {
		t.Errorf("Expected score 0.7, got %v", record.Management.Score)
	}
	if len(record.Themes) != 1 || record.Themes[0].Name != "Data Center" {
		t.Errorf("Expected Data Center theme, got %v", record.Themes)
	}
	if record.Themes[0].Category != types.ThemeCategoryMarket {
		t.Errorf("Expected market category, got %s", record.Themes[0].Category)
	}
	if record.Metrics.Revenue == "" {
		t.Error("Expected revenue metric from local scan")
	}
}

func TestExtractAllFallback(t *testing.T) {
	client := &fakeClient{complete: func(req interfaces.AnalysisRequest) (string, error) {
		return "", errors.New("service unavailable")
	}}

	extractor := NewExtractor(client, DefaultExtractorConfig())
	record, err := extractor.Extract(context.Background(), testDocument())
	if err != nil {
		t.Fatalf("Extraction must not fail on service errors, got %v", err)
	}

	for section, sig := range map[string]types.SentimentSignal{
		"management": record.Management,
		"qa":         record.QA,
	} {
		if !sig.Fallback {
			t.Errorf("%s: expected fallback flag", section)
		}
		if sig.Label != types.SentimentNeutral {
			t.Errorf("%s: expected neutral label, got %s", section, sig.Label)
		}
		if sig.Score != 0 {
			t.Errorf("%s: expected score 0, got %v", section, sig.Score)
		}
		if sig.Confidence != 0.5 {
			t.Errorf("%s: expected confidence 0.5, got %v", section, sig.Confidence)
		}
	}

	if len(record.Themes) != 1 || record.Themes[0].Name != FallbackThemeName {
		t.Errorf("Expected single generic fallback theme, got %v", record.Themes)
	}
}

func TestExtractPartialFailure(t *testing.T) {
	// Theme extraction fails while both sentiment calls succeed; the record
	// must still carry the genuine sentiment values.
	client := &fakeClient{complete: func(req interfaces.AnalysisRequest) (string, error) {
		if strings.Contains(req.Prompt, "strategic themes") {
			return "", errors.New("timeout")
		}
		return sentimentJSON, nil
	}}

	extractor := NewExtractor(client, DefaultExtractorConfig())
	record, err := extractor.Extract(context.Background(), testDocument())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if record.Management.Fallback || record.QA.Fallback {
		t.Error("Sentiment extractions must be unaffected by theme failure")
	}
	if len(record.Themes) != 1 || record.Themes[0].Name != FallbackThemeName {
		t.Errorf("Expected fallback theme, got %v", record.Themes)
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	client := &fakeClient{complete: func(req interfaces.AnalysisRequest) (string, error) {
		return sentimentJSON, nil
	}}

	extractor := NewExtractor(client, DefaultExtractorConfig())
	_, err := extractor.Extract(context.Background(), types.Document{ID: "empty"})
	if err == nil {
		t.Fatal("Expected error for document with no text")
	}
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("Expected ErrEmptyDocument, got %v", err)
	}
}

func TestExcerptBounding(t *testing.T) {
	long := strings.Repeat("ab", 3000)
	bounded := excerpt(long, 2000)
	if len([]rune(bounded)) != 2003 {
		t.Errorf("Expected 2000 runes plus ellipsis, got %d", len([]rune(bounded)))
	}
	if !strings.HasSuffix(bounded, "...") {
		t.Error("Expected truncation marker")
	}

	short := "brief remarks"
	if excerpt(short, 2000) != short {
		t.Error("Short text must pass through unchanged")
	}
}
