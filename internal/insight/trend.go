package insight

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"time"

	"earnings-insight/internal/types"
)

// ErrMalformedQuarterLabel is the one precondition violation trend
// computation does not paper over: silently reordering mislabeled quarters
// would corrupt every downstream delta.
var ErrMalformedQuarterLabel = errors.New("malformed quarter label")

// trendThreshold is the first-to-last score movement beyond which an overall
// trend counts as improving or declining.
const trendThreshold = 0.2

// noSignificantChanges is emitted when no key-change condition fires, so the
// key-change list is never empty.
const noSignificantChanges = "No significant changes detected across the analyzed quarters."

var quarterLabelRe = regexp.MustCompile(`^Q([1-4]) (\d{4})$`)

// ParseQuarterLabel validates and decomposes a canonical "Q{1-4} {year}"
// label.
func ParseQuarterLabel(label string) (quarter, year int, err error) {
	m := quarterLabelRe.FindStringSubmatch(label)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedQuarterLabel, label)
	}
	quarter, _ = strconv.Atoi(m[1])
	year, _ = strconv.Atoi(m[2])
	return quarter, year, nil
}

// scoreSlack absorbs float64 subtraction noise at tier bounds: 0.3 - 0.1
// is 0.19999999999999998, which must still read as 0.2. Kept far below the
// smallest score distinction the labels carry.
const scoreSlack = 1e-9

// Significance buckets the magnitude of a score delta. Lower bounds are
// inclusive: exactly 0.5 is major and exactly 0.2 is moderate, including
// deltas within representation noise of those bounds.
func Significance(scoreDelta float64) string {
	abs := math.Abs(scoreDelta)
	switch {
	case abs >= 0.5-scoreSlack:
		return types.SignificanceMajor
	case abs >= 0.2-scoreSlack:
		return types.SignificanceModerate
	default:
		return types.SignificanceMinor
	}
}

// labelOrdinal maps categorical sentiment labels onto an ordinal scale for
// qualitative shift derivation. Unknown labels rank as neutral.
func labelOrdinal(label string) int {
	switch label {
	case types.SentimentNegative:
		return 0
	case types.SentimentPositive:
		return 2
	default:
		return 1
	}
}

// ComputeTrend derives the quarter-over-quarter trend report from all
// available records. Pure: no I/O, no external calls. Quarter labels are a
// hard precondition; any malformed label is a fatal input error.
func ComputeTrend(records []types.QuarterRecord) (*types.TrendReport, error) {
	ordered, err := sortRecords(records)
	if err != nil {
		return nil, err
	}

	report := &types.TrendReport{
		Quarters: make([]string, 0, len(ordered)),
		SentimentTrend: types.SentimentSeries{
			Management: make([]float64, 0, len(ordered)),
			QA:         make([]float64, 0, len(ordered)),
		},
		Changes:        []types.QuarterChange{},
		ThemeEvolution: []types.ThemeEvolution{},
		GeneratedAt:    time.Now(),
	}

	for _, rec := range ordered {
		report.Quarters = append(report.Quarters, rec.Quarter)
		report.SentimentTrend.Management = append(report.SentimentTrend.Management, rec.Management.Score)
		report.SentimentTrend.QA = append(report.SentimentTrend.QA, rec.QA.Score)
	}

	// Fewer than two quarters: nothing to compare, trends fixed to stable.
	if len(ordered) < 2 {
		report.Summary = types.TrendSummary{
			ManagementTrend: types.TrendStable,
			QATrend:         types.TrendStable,
			StrategicShift:  types.NoStrategicShift,
			KeyChanges:      []string{noSignificantChanges},
		}
		return report, nil
	}

	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		report.Changes = append(report.Changes, types.QuarterChange{
			FromQuarter: prev.Quarter,
			ToQuarter:   cur.Quarter,
			Management:  sentimentChange(prev.Management, cur.Management),
			QA:          sentimentChange(prev.QA, cur.QA),
		})
	}

	report.ThemeEvolution = themeEvolution(ordered)
	report.Summary = summarize(report, ordered)

	return report, nil
}

// sortRecords validates every quarter label and returns the records in
// ascending (year, quarter) order without mutating the input.
func sortRecords(records []types.QuarterRecord) ([]types.QuarterRecord, error) {
	type keyed struct {
		rec     types.QuarterRecord
		quarter int
		year    int
	}

	ks := make([]keyed, 0, len(records))
	for _, rec := range records {
		q, y, err := ParseQuarterLabel(rec.Quarter)
		if err != nil {
			return nil, err
		}
		ks = append(ks, keyed{rec: rec, quarter: q, year: y})
	}

	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].year != ks[j].year {
			return ks[i].year < ks[j].year
		}
		return ks[i].quarter < ks[j].quarter
	})

	ordered := make([]types.QuarterRecord, 0, len(ks))
	for _, k := range ks {
		ordered = append(ordered, k.rec)
	}
	return ordered, nil
}

// sentimentChange compares one section's signal across adjacent quarters.
// The qualitative shift comes from the categorical labels alone and can
// disagree in direction with the numeric delta; both are preserved and the
// disagreement flagged for callers who care.
func sentimentChange(prev, cur types.SentimentSignal) types.SentimentChange {
	delta := cur.Score - prev.Score

	shift := types.ShiftNoChange
	switch {
	case labelOrdinal(cur.Label) > labelOrdinal(prev.Label):
		shift = types.ShiftImproved
	case labelOrdinal(cur.Label) < labelOrdinal(prev.Label):
		shift = types.ShiftDeclined
	}

	disagrees := (shift == types.ShiftImproved && delta < 0) ||
		(shift == types.ShiftDeclined && delta > 0)

	return types.SentimentChange{
		ScoreDelta:   delta,
		Shift:        shift,
		Significance: Significance(delta),
		Disagrees:    disagrees,
	}
}

// themeEvolution diffs each quarter's theme-name set against its
// predecessor. The earliest quarter has no predecessor: its consistent set
// is its own theme set, a boundary convention rather than an error.
func themeEvolution(ordered []types.QuarterRecord) []types.ThemeEvolution {
	evolution := make([]types.ThemeEvolution, 0, len(ordered))

	evolution = append(evolution, types.ThemeEvolution{
		Quarter:    ordered[0].Quarter,
		Emerging:   []string{},
		Declining:  []string{},
		Consistent: ordered[0].ThemeNames(),
	})

	for i := 1; i < len(ordered); i++ {
		prevNames := ordered[i-1].ThemeNames()
		curNames := ordered[i].ThemeNames()
		prevSet := toSet(prevNames)
		curSet := toSet(curNames)

		ev := types.ThemeEvolution{
			Quarter:    ordered[i].Quarter,
			Emerging:   []string{},
			Declining:  []string{},
			Consistent: []string{},
		}
		for _, name := range curNames {
			if _, ok := prevSet[name]; ok {
				ev.Consistent = append(ev.Consistent, name)
			} else {
				ev.Emerging = append(ev.Emerging, name)
			}
		}
		for _, name := range prevNames {
			if _, ok := curSet[name]; !ok {
				ev.Declining = append(ev.Declining, name)
			}
		}
		evolution = append(evolution, ev)
	}

	return evolution
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func summarize(report *types.TrendReport, ordered []types.QuarterRecord) types.TrendSummary {
	first, last := ordered[0], ordered[len(ordered)-1]

	summary := types.TrendSummary{
		ManagementTrend: overallTrend(first.Management.Score, last.Management.Score),
		QATrend:         overallTrend(first.QA.Score, last.QA.Score),
		StrategicShift:  dominantEmergingTheme(report.ThemeEvolution),
	}

	var changes []string
	switch summary.ManagementTrend {
	case types.TrendImproving:
		changes = append(changes, fmt.Sprintf("Management sentiment improved from %s to %s.", first.Quarter, last.Quarter))
	case types.TrendDeclining:
		changes = append(changes, fmt.Sprintf("Management sentiment declined from %s to %s.", first.Quarter, last.Quarter))
	}
	switch summary.QATrend {
	case types.TrendImproving:
		changes = append(changes, fmt.Sprintf("Analyst Q&A tone improved from %s to %s.", first.Quarter, last.Quarter))
	case types.TrendDeclining:
		changes = append(changes, fmt.Sprintf("Analyst Q&A tone declined from %s to %s.", first.Quarter, last.Quarter))
	}
	if summary.StrategicShift != types.NoStrategicShift {
		changes = append(changes, fmt.Sprintf("New strategic focus emerging around %s.", summary.StrategicShift))
	}

	if len(changes) == 0 {
		changes = []string{noSignificantChanges}
	}
	summary.KeyChanges = changes

	return summary
}

// overallTrend classifies the first-to-last movement. The bound is
// exclusive: a movement of exactly the threshold, give or take
// representation noise, stays stable.
func overallTrend(firstScore, lastScore float64) string {
	movement := lastScore - firstScore
	switch {
	case movement > trendThreshold+scoreSlack:
		return types.TrendImproving
	case movement < -trendThreshold-scoreSlack:
		return types.TrendDeclining
	default:
		return types.TrendStable
	}
}

// dominantEmergingTheme returns the theme name that emerged most often
// across all transitions, ties broken by first-encountered order.
func dominantEmergingTheme(evolution []types.ThemeEvolution) string {
	counts := make(map[string]int)
	var order []string

	for _, ev := range evolution {
		for _, name := range ev.Emerging {
			if _, seen := counts[name]; !seen {
				order = append(order, name)
			}
			counts[name]++
		}
	}

	if len(order) == 0 {
		return types.NoStrategicShift
	}

	best := order[0]
	for _, name := range order[1:] {
		if counts[name] > counts[best] {
			best = name
		}
	}
	return best
}
