package types

import (
	"fmt"
	"strings"
	"time"
)

// Document is one quarter's earnings-call transcript, split into
// management remarks and the Q&A session.
type Document struct {
	ID                string    `json:"id"`
	Quarter           string    `json:"quarter"` // "Q{1-4} {year}"
	FiscalYear        int       `json:"fiscal_year"`
	SourceURL         string    `json:"source_url"`
	Source            string    `json:"source"`
	Company           string    `json:"company"`
	ManagementRemarks string    `json:"management_remarks"`
	QA                string    `json:"qa"`
	FullText          string    `json:"full_text"`
	Participants      []string  `json:"participants,omitempty"`
	Synthetic         bool      `json:"synthetic"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DocumentID derives a Document's identifier from its quarter label and call
// date. The same quarter and date always produce the same ID, so re-acquiring
// a transcript upserts rather than duplicates.
func DocumentID(quarter string, date time.Time) string {
	q := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(quarter), " ", "-"))
	return fmt.Sprintf("%s-%s", q, date.Format("2006-01-02"))
}

// Candidate is one discovered transcript link, before fetching.
type Candidate struct {
	URL     string    `json:"url"`
	Title   string    `json:"title"`
	Quarter string    `json:"quarter"`
	Date    time.Time `json:"date"`
	Source  string    `json:"source"`
}

// Sentiment labels returned by the analysis service.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// SentimentSignal is the analysis service's read of one transcript section.
// Label and Score are expected to agree in direction but the service may
// legally set them inconsistently; callers must not assume otherwise.
type SentimentSignal struct {
	Label      string   `json:"label"` // positive | neutral | negative
	Score      float64  `json:"score"` // -1.0 to 1.0
	Confidence float64  `json:"confidence"`
	Phrases    []string `json:"phrases,omitempty"`
	Rationale  string   `json:"rationale,omitempty"`
	Fallback   bool     `json:"fallback"` // true when this is a substituted default
}

// Theme categories form a closed set.
const (
	ThemeCategoryProduct    = "product"
	ThemeCategoryMarket     = "market"
	ThemeCategoryTechnology = "technology"
	ThemeCategoryFinancial  = "financial"
	ThemeCategoryStrategic  = "strategic"
)

// ThemeSignal is one strategic theme extracted from a call. Name is the set
// identity used when diffing themes across quarters.
type ThemeSignal struct {
	Name       string   `json:"name"`
	Mentions   int      `json:"mentions"`
	Importance float64  `json:"importance"` // 0.0 to 1.0
	Quotes     []string `json:"quotes,omitempty"`
	Category   string   `json:"category"`
}

// CallMetrics are figures lifted from the transcript text by local regex
// scanning. Empty fields mean no match, not an error.
type CallMetrics struct {
	Revenue   string `json:"revenue,omitempty"`
	Guidance  string `json:"guidance,omitempty"`
	MarketCap string `json:"market_cap,omitempty"`
}

// QuarterRecord holds all extracted signals for one Document. Records are
// immutable once generated; re-analysis supersedes rather than merges.
type QuarterRecord struct {
	DocumentID  string          `json:"document_id"`
	Quarter     string          `json:"quarter"`
	Management  SentimentSignal `json:"management"`
	QA          SentimentSignal `json:"qa"`
	Themes      []ThemeSignal   `json:"themes"`
	Metrics     CallMetrics     `json:"metrics"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// ThemeNames returns the record's theme-name set in list order.
func (r *QuarterRecord) ThemeNames() []string {
	names := make([]string, 0, len(r.Themes))
	for _, t := range r.Themes {
		names = append(names, t.Name)
	}
	return names
}

// Significance tiers for a quarter-over-quarter score change.
const (
	SignificanceMajor    = "major"    // |delta| >= 0.5
	SignificanceModerate = "moderate" // |delta| >= 0.2
	SignificanceMinor    = "minor"
)

// Qualitative shift directions, derived from categorical labels only.
const (
	ShiftImproved = "improved"
	ShiftDeclined = "declined"
	ShiftNoChange = "no change"
)

// SentimentChange describes one section's movement between two quarters.
// ScoreDelta comes from the numeric scores while Shift comes from the ordinal
// label mapping; the two can disagree in direction, in which case Disagrees
// is set and both are preserved.
type SentimentChange struct {
	ScoreDelta   float64 `json:"score_delta"`
	Shift        string  `json:"shift"`
	Significance string  `json:"significance"`
	Disagrees    bool    `json:"disagrees"`
}

// QuarterChange is the full quarter-over-quarter comparison for one adjacent
// pair of quarters.
type QuarterChange struct {
	FromQuarter string          `json:"from_quarter"`
	ToQuarter   string          `json:"to_quarter"`
	Management  SentimentChange `json:"management"`
	QA          SentimentChange `json:"qa"`
}

// ThemeEvolution is the theme-set diff of one quarter against its predecessor.
// The earliest quarter has empty Emerging/Declining and Consistent equal to
// its own theme set.
type ThemeEvolution struct {
	Quarter    string   `json:"quarter"`
	Emerging   []string `json:"emerging"`
	Declining  []string `json:"declining"`
	Consistent []string `json:"consistent"`
}

// Trend directions for the overall summary.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// NoStrategicShift is the sentinel used when no theme ever emerged.
const NoStrategicShift = "no notable strategic shift"

// TrendSummary is the roll-up across all analyzed quarters. KeyChanges is
// never empty.
type TrendSummary struct {
	ManagementTrend string   `json:"management_trend"`
	QATrend         string   `json:"qa_trend"`
	StrategicShift  string   `json:"strategic_shift"`
	KeyChanges      []string `json:"key_changes"`
}

// SentimentSeries carries the per-quarter score series for both sections,
// index-aligned with TrendReport.Quarters.
type SentimentSeries struct {
	Management []float64 `json:"management"`
	QA         []float64 `json:"qa"`
}

// TrendReport is the computed quarter-over-quarter comparison.
//
// Invariants: len(Quarters) == len(SentimentTrend.Management) ==
// len(SentimentTrend.QA), and len(Changes) == max(0, len(Quarters)-1).
type TrendReport struct {
	Quarters       []string         `json:"quarters"`
	SentimentTrend SentimentSeries  `json:"sentiment_trend"`
	Changes        []QuarterChange  `json:"changes"`
	ThemeEvolution []ThemeEvolution `json:"theme_evolution"`
	Summary        TrendSummary     `json:"summary"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// StoreStats reports persistence counts for a pipeline run.
type StoreStats struct {
	DocumentCount int `json:"document_count"`
	RecordCount   int `json:"record_count"`
}
