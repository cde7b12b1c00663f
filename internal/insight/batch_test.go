package insight

import (
	"context"
	"testing"

	"earnings-insight/internal/interfaces"
	"earnings-insight/internal/types"
)

func TestAnalyzeAllPreservesOrderAndSkipsFailures(t *testing.T) {
	client := &fakeClient{complete: func(req interfaces.AnalysisRequest) (string, error) {
		return sentimentJSON, nil
	}}
	extractor := NewExtractor(client, DefaultExtractorConfig())
	batch := NewBatch(extractor, 0)

	docs := []types.Document{
		{ID: "a", Quarter: "Q1 2024", FullText: "remarks a", ManagementRemarks: "remarks a"},
		{ID: "broken", Quarter: "Q2 2024"}, // no text at all: extraction fails
		{ID: "c", Quarter: "Q3 2024", FullText: "remarks c", ManagementRemarks: "remarks c"},
	}

	records := batch.AnalyzeAll(context.Background(), docs)

	if len(records) != 2 {
		t.Fatalf("Expected failed document omitted, got %d records", len(records))
	}
	if records[0].DocumentID != "a" || records[1].DocumentID != "c" {
		t.Errorf("Expected input order preserved, got %s then %s",
			records[0].DocumentID, records[1].DocumentID)
	}
}

func TestAnalyzeAllEmptyInput(t *testing.T) {
	client := &fakeClient{complete: func(req interfaces.AnalysisRequest) (string, error) {
		return sentimentJSON, nil
	}}
	batch := NewBatch(NewExtractor(client, DefaultExtractorConfig()), 0)

	records := batch.AnalyzeAll(context.Background(), nil)
	if len(records) != 0 {
		t.Errorf("Expected no records for empty input, got %d", len(records))
	}
}

func TestAnalyzeAllCancelledContext(t *testing.T) {
	client := &fakeClient{complete: func(req interfaces.AnalysisRequest) (string, error) {
		return sentimentJSON, nil
	}}
	batch := NewBatch(NewExtractor(client, DefaultExtractorConfig()), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	docs := []types.Document{{ID: "a", Quarter: "Q1 2024", FullText: "remarks"}}
	records := batch.AnalyzeAll(ctx, docs)
	if len(records) != 0 {
		t.Errorf("Expected no records after cancellation, got %d", len(records))
	}
}
