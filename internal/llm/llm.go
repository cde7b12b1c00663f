package llm

import (
	"strings"

	"earnings-insight/internal/interfaces"
	"earnings-insight/internal/llm/claude"
	"earnings-insight/internal/llm/noop"
	"earnings-insight/internal/llm/openai"
	"earnings-insight/internal/store"
)

// NewClient builds the analysis client selected by configuration. Unknown
// providers fall back to the noop client rather than failing, since the
// pipeline is designed to complete with fallback defaults.
func NewClient(cfg *store.Config) interfaces.AnalysisClient {
	switch strings.ToUpper(cfg.LLM.Provider) {
	case "CLAUDE":
		return claude.NewClient(cfg.LLM.Model)
	case "OPENAI":
		return openai.NewClient(cfg.LLM.Model)
	default:
		return noop.NewClient()
	}
}
