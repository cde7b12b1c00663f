package noop

import (
	"context"
	"errors"

	"earnings-insight/internal/interfaces"
	"earnings-insight/internal/logger"
)

// ErrNotConfigured is returned for every request. Callers resolve it to
// their documented fallback defaults, so an offline run still produces a
// complete (all-fallback) record per document.
var ErrNotConfigured = errors.New("analysis service not configured")

// Client is the fallback analysis client used when no LLM is configured.
type Client struct{}

// NewClient returns a client that fails every request with ErrNotConfigured.
func NewClient() *Client {
	return &Client{}
}

// Complete implements interfaces.AnalysisClient.
func (c *Client) Complete(ctx context.Context, req interfaces.AnalysisRequest) (string, error) {
	logger.Debug(ctx, "Noop analysis client called, caller will use fallback defaults")
	return "", ErrNotConfigured
}
