package transcript

import (
	"regexp"
	"strings"
)

// sectionMarkers are the Q&A boundary phrases, in precedence order. The
// first marker found in the text wins.
var sectionMarkers = []string{
	"question-and-answer session",
	"questions and answers",
	"question and answer session",
	"q&a session",
	"we will now begin the question",
	"open the line for questions",
	"analyst q&a",
}

// Fixed-ratio fallback split used when no marker matches. The 60/40 ratio is
// a heuristic, not derived from content structure; atypically formatted
// transcripts will be mis-segmented by it.
const managementSplitRatio = 0.6

// SplitSections divides a transcript into management remarks and Q&A using
// case-insensitive marker search, falling back to the fixed-ratio split.
func SplitSections(text string) (management, qa string) {
	lower := strings.ToLower(text)

	for _, marker := range sectionMarkers {
		idx := strings.Index(lower, marker)
		if idx < 0 {
			continue
		}
		return strings.TrimSpace(text[:idx]), strings.TrimSpace(text[idx:])
	}

	// Cut on rune count, not bytes: scraped pages carry smart quotes and
	// other multi-byte characters, and a byte cut can land mid-rune.
	runes := []rune(text)
	cut := int(float64(len(runes)) * managementSplitRatio)
	return strings.TrimSpace(string(runes[:cut])), strings.TrimSpace(string(runes[cut:]))
}

var participantLineRe = regexp.MustCompile(`(?m)^([A-Z][a-zA-Z.'-]+(?: [A-Z][a-zA-Z.'-]+){1,3})\s*(?:--|—|-)\s*[A-Z][\w ,&.-]+$`)

// maxParticipants caps the preamble scan; transcripts list speakers up
// front, so anything beyond this is noise from the body.
const maxParticipants = 12

// ExtractParticipants scans the operator preamble for "Name -- Title" lines.
// Best effort only; an empty result is normal for loosely formatted pages.
func ExtractParticipants(text string) []string {
	// Only the head of the transcript is scanned; speaker lists appear
	// before the prepared remarks.
	head := text
	if len(head) > 4000 {
		head = head[:4000]
	}

	seen := make(map[string]struct{})
	var participants []string

	for _, m := range participantLineRe.FindAllStringSubmatch(head, -1) {
		name := strings.TrimSpace(m[1])
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		participants = append(participants, name)
		if len(participants) >= maxParticipants {
			break
		}
	}

	return participants
}
