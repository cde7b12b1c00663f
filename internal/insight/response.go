package insight

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"earnings-insight/internal/types"
)

// ErrSchemaViolation marks an analysis response that could not be coerced to
// the expected shape. It is never retried; the caller substitutes its
// documented fallback value instead.
var ErrSchemaViolation = errors.New("analysis response violates expected schema")

type sentimentResponse struct {
	Sentiment  string   `json:"sentiment"`
	Score      float64  `json:"score"`
	Confidence float64  `json:"confidence"`
	Phrases    []string `json:"phrases"`
	Rationale  string   `json:"rationale"`
}

type themesResponse struct {
	Themes []struct {
		Name       string   `json:"name"`
		Mentions   int      `json:"mentions"`
		Importance float64  `json:"importance"`
		Quotes     []string `json:"quotes"`
		Category   string   `json:"category"`
	} `json:"themes"`
}

// repairJSON runs raw model output through json-repair, which strips
// markdown fences and fixes the usual LLM JSON defects (single quotes,
// trailing commas, unclosed brackets).
func repairJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrSchemaViolation)
	}
	repaired, err := jsonrepair.RepairJSON(text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	return repaired, nil
}

// ParseSentimentResponse parses one sentiment response. The label must be
// one of positive/neutral/negative; score and confidence are clamped to
// their documented ranges rather than rejected. Label and score are allowed
// to disagree in direction.
func ParseSentimentResponse(text string) (types.SentimentSignal, error) {
	repaired, err := repairJSON(text)
	if err != nil {
		return types.SentimentSignal{}, err
	}

	var r sentimentResponse
	if err := json.Unmarshal([]byte(repaired), &r); err != nil {
		return types.SentimentSignal{}, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	label := strings.ToLower(strings.TrimSpace(r.Sentiment))
	switch label {
	case types.SentimentPositive, types.SentimentNeutral, types.SentimentNegative:
	default:
		return types.SentimentSignal{}, fmt.Errorf("%w: unknown sentiment label %q", ErrSchemaViolation, r.Sentiment)
	}

	phrases := r.Phrases
	if len(phrases) > 3 {
		phrases = phrases[:3]
	}

	return types.SentimentSignal{
		Label:      label,
		Score:      clamp(r.Score, -1, 1),
		Confidence: clamp(r.Confidence, 0, 1),
		Phrases:    phrases,
		Rationale:  r.Rationale,
	}, nil
}

// ParseThemesResponse parses one theme-extraction response. At least one
// named theme is required; unknown categories are coerced to strategic.
func ParseThemesResponse(text string) ([]types.ThemeSignal, error) {
	repaired, err := repairJSON(text)
	if err != nil {
		return nil, err
	}

	var r themesResponse
	if err := json.Unmarshal([]byte(repaired), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	themes := make([]types.ThemeSignal, 0, len(r.Themes))
	for _, t := range r.Themes {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		themes = append(themes, types.ThemeSignal{
			Name:       name,
			Mentions:   t.Mentions,
			Importance: clamp(t.Importance, 0, 1),
			Quotes:     t.Quotes,
			Category:   normalizeCategory(t.Category),
		})
	}

	if len(themes) == 0 {
		return nil, fmt.Errorf("%w: no named themes in response", ErrSchemaViolation)
	}

	return themes, nil
}

func normalizeCategory(category string) string {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case types.ThemeCategoryProduct:
		return types.ThemeCategoryProduct
	case types.ThemeCategoryMarket:
		return types.ThemeCategoryMarket
	case types.ThemeCategoryTechnology:
		return types.ThemeCategoryTechnology
	case types.ThemeCategoryFinancial:
		return types.ThemeCategoryFinancial
	default:
		return types.ThemeCategoryStrategic
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
