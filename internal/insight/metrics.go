package insight

import (
	"regexp"

	"earnings-insight/internal/types"
)

// Currency amounts like "$5.6 billion", "$480M", "$1,200 million", scanned
// within a short window after the keyword so unrelated figures further down
// the sentence are not picked up.
var (
	revenueRe   = regexp.MustCompile(`(?i)revenue[^.\n$]{0,80}(\$[\d][\d,.]*\s*(?:billion|million|trillion|thousand|[BMKT])?)`)
	guidanceRe  = regexp.MustCompile(`(?i)guidance[^.\n$]{0,80}(\$[\d][\d,.]*(?:\s*(?:to|-)\s*\$?[\d][\d,.]*)?\s*(?:billion|million|trillion|thousand|[BMKT])?)`)
	marketCapRe = regexp.MustCompile(`(?i)market\s+cap(?:italization)?[^.\n$]{0,80}(\$[\d][\d,.]*\s*(?:billion|million|trillion|thousand|[BMKT])?)`)
)

// ExtractMetrics scans transcript text for currency amounts near the words
// revenue, guidance and market cap. This is local and synchronous; a missing
// match leaves the field empty, which is not an error.
func ExtractMetrics(text string) types.CallMetrics {
	var m types.CallMetrics

	if match := revenueRe.FindStringSubmatch(text); match != nil {
		m.Revenue = match[1]
	}
	if match := guidanceRe.FindStringSubmatch(text); match != nil {
		m.Guidance = match[1]
	}
	if match := marketCapRe.FindStringSubmatch(text); match != nil {
		m.MarketCap = match[1]
	}

	return m
}
