package transcript

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitSectionsMarker(t *testing.T) {
	text := "Good afternoon everyone. Prepared remarks about the quarter.\n" +
		"Question-and-Answer Session\n" +
		"Analyst: my first question is about margins."

	management, qa := SplitSections(text)

	if !strings.Contains(management, "Prepared remarks") {
		t.Errorf("Management section missing prepared remarks: %q", management)
	}
	if strings.Contains(management, "Question-and-Answer") {
		t.Error("Marker leaked into management section")
	}
	if !strings.HasPrefix(qa, "Question-and-Answer Session") {
		t.Errorf("Q&A section should start at the marker, got %q", qa)
	}
	if !strings.Contains(qa, "margins") {
		t.Errorf("Q&A section missing analyst question: %q", qa)
	}
}

func TestSplitSectionsMarkerCaseInsensitive(t *testing.T) {
	text := "Remarks here. WE WILL NOW BEGIN THE QUESTION and answer portion. Q: hello?"

	management, qa := SplitSections(text)
	if !strings.Contains(qa, "hello?") {
		t.Errorf("Expected uppercase marker to match, qa = %q", qa)
	}
	if strings.Contains(management, "hello?") {
		t.Error("Question text ended up in management section")
	}
}

func TestSplitSectionsMarkerPrecedence(t *testing.T) {
	// Both markers present; the higher-precedence one decides the cut even
	// though the other appears earlier in the text.
	text := "intro q&a session mention early on, remarks continue, " +
		"question-and-answer session starts here"

	_, qa := SplitSections(text)
	if !strings.HasPrefix(qa, "question-and-answer session") {
		t.Errorf("Expected first-listed marker to win, qa = %q", qa)
	}
}

func TestSplitSectionsRatioFallback(t *testing.T) {
	text := strings.Repeat("a", 60) + strings.Repeat("b", 40)

	management, qa := SplitSections(text)
	if len(management) != 60 {
		t.Errorf("Expected 60-char management section, got %d", len(management))
	}
	if len(qa) != 40 {
		t.Errorf("Expected 40-char qa section, got %d", len(qa))
	}
	if strings.Contains(management, "b") || strings.Contains(qa, "a") {
		t.Error("Ratio split crossed the boundary")
	}
}

func TestSplitSectionsRatioFallbackMultiByte(t *testing.T) {
	// 101 two-byte runes: a byte-indexed 60% cut would land mid-rune.
	text := strings.Repeat("é", 101)

	management, qa := SplitSections(text)
	if !utf8.ValidString(management) || !utf8.ValidString(qa) {
		t.Fatal("Ratio split produced invalid UTF-8 at the boundary")
	}
	if utf8.RuneCountInString(management) != 60 {
		t.Errorf("Expected 60-rune management section, got %d", utf8.RuneCountInString(management))
	}
	if management+qa != text {
		t.Error("Split sections do not reassemble into the input")
	}
}

func TestExtractParticipants(t *testing.T) {
	text := "Operator\n" +
		"Jensen Huang -- President and Chief Executive Officer\n" +
		"Colette Kress -- Executive Vice President\n" +
		"Jensen Huang -- President and Chief Executive Officer\n" +
		"Prepared remarks follow.\n"

	got := ExtractParticipants(text)
	if len(got) != 2 {
		t.Fatalf("Expected 2 unique participants, got %v", got)
	}
	if got[0] != "Jensen Huang" || got[1] != "Colette Kress" {
		t.Errorf("Unexpected participants: %v", got)
	}
}

func TestExtractParticipantsIgnoresBody(t *testing.T) {
	// Speaker lines past the preamble window are not scanned.
	text := strings.Repeat("filler text line\n", 300) +
		"Late Speaker -- Chief Financial Officer\n"

	if got := ExtractParticipants(text); len(got) != 0 {
		t.Errorf("Expected no participants from deep body text, got %v", got)
	}
}

func TestExtractParticipantsEmpty(t *testing.T) {
	if got := ExtractParticipants("no speaker lines at all"); len(got) != 0 {
		t.Errorf("Expected empty result, got %v", got)
	}
}
