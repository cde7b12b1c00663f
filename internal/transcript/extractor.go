package transcript

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// defaultContentSelectors cover the common transcript page layouts, most
// specific first.
var defaultContentSelectors = []string{
	"article",
	"div.article-body",
	"div.content-body",
	"div.transcript-content",
	"div[data-test-id='content-container']",
	"main",
}

// ExtractText parses raw markup and walks the selector list in order,
// returning the first selector whose joined paragraph text clears minLength.
// As a last resort the whole body text is tried.
func ExtractText(raw string, selectors []string, minLength int) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parse markup: %w", err)
	}

	if len(selectors) == 0 {
		selectors = defaultContentSelectors
	}

	for _, selector := range selectors {
		text := collectParagraphs(doc.Find(selector))
		if len(text) >= minLength {
			return text, nil
		}
	}

	// Some providers render the transcript without any recognizable
	// container. Body text is noisy but better than nothing.
	body := strings.TrimSpace(doc.Find("body").Text())
	if len(body) >= minLength {
		return normalizeWhitespace(body), nil
	}

	return "", fmt.Errorf("%w: no selector yielded %d chars", ErrContentTooShort, minLength)
}

func collectParagraphs(sel *goquery.Selection) string {
	var paragraphs []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if len(text) > 20 {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n\n")
}

func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
