package interfaces

import "context"

// AnalysisRequest is one call to the external text-analysis service.
type AnalysisRequest struct {
	System      string  // system instruction
	Prompt      string  // bounded user text plus response-shape instruction
	MaxTokens   int
	Temperature float32
}

// AnalysisClient sends one analysis request and returns the raw response
// text. Callers own parsing and schema validation; a transport error here is
// never fatal to the pipeline.
type AnalysisClient interface {
	Complete(ctx context.Context, req AnalysisRequest) (string, error)
}
