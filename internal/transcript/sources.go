package transcript

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"earnings-insight/internal/logger"
	"earnings-insight/internal/types"
)

// CandidateSelectors define the CSS selectors for discovering transcript
// links on one provider's listing page.
type CandidateSelectors struct {
	Container string
	Title     string
	URL       string
	Date      string
}

// SiteAdapter discovers transcript candidates on one provider via its
// listing page. It implements interfaces.SourceAdapter.
type SiteAdapter struct {
	name             string
	baseURL          string
	listPath         string // {ticker} and {company} placeholders
	selectors        CandidateSelectors
	contentSelectors []string
	company          string
	ticker           string
	timeout          time.Duration
}

// DefaultAdapters returns the provider adapters in fixed priority order.
func DefaultAdapters(company, ticker string, timeout time.Duration) []*SiteAdapter {
	return []*SiteAdapter{
		{
			name:     "MotleyFool",
			baseURL:  "https://www.fool.com",
			listPath: "/quote/nasdaq/{ticker}/#quote-earnings-transcripts",
			selectors: CandidateSelectors{
				Container: "div.page a[href*='earnings-call-transcript']",
				Title:     "",
				URL:       "",
				Date:      "",
			},
			contentSelectors: []string{"div.article-body", "article"},
			company:          company,
			ticker:           ticker,
			timeout:          timeout,
		},
		{
			name:     "SeekingAlpha",
			baseURL:  "https://seekingalpha.com",
			listPath: "/symbol/{ticker}/earnings/transcripts",
			selectors: CandidateSelectors{
				Container: "article",
				Title:     "a[data-test-id='post-list-item-title']",
				URL:       "a[data-test-id='post-list-item-title']",
				Date:      "span[data-test-id='post-list-date']",
			},
			contentSelectors: []string{"div[data-test-id='content-container']", "article"},
			company:          company,
			ticker:           ticker,
			timeout:          timeout,
		},
		{
			name:     "InvestorRelations",
			baseURL:  "https://investor.{company}.com",
			listPath: "/events-and-presentations",
			selectors: CandidateSelectors{
				Container: "div.event-item, li.event",
				Title:     "a",
				URL:       "a",
				Date:      "time, span.date",
			},
			contentSelectors: []string{"div.transcript-content", "main"},
			company:          company,
			ticker:           ticker,
			timeout:          timeout,
		},
	}
}

// Name identifies the provider.
func (a *SiteAdapter) Name() string {
	return a.name
}

// ContentSelectors returns the ordered structural selectors for this
// provider's transcript pages.
func (a *SiteAdapter) ContentSelectors() []string {
	return a.contentSelectors
}

// Discover scrapes the provider's listing page for up to n transcript
// candidates. Candidates without a recognizable quarter label in the title
// are dropped here, before any fetch is spent on them.
func (a *SiteAdapter) Discover(ctx context.Context, n int) ([]types.Candidate, error) {
	listURL := a.listURL()

	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(a.expandedBase())),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(a.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgent)
	})

	var candidates []types.Candidate

	c.OnHTML(a.selectors.Container, func(e *colly.HTMLElement) {
		if len(candidates) >= n {
			return
		}

		title, href := a.titleAndURL(e)
		if title == "" || href == "" {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = a.expandedBase() + href
		}

		quarter, ok := ParseQuarterFromTitle(title)
		if !ok {
			return
		}

		date := a.candidateDate(e, quarter)

		candidates = append(candidates, types.Candidate{
			URL:     href,
			Title:   title,
			Quarter: quarter,
			Date:    date,
			Source:  a.name,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Discovery request failed", err, "source", a.name, "url", r.Request.URL.String())
	})

	if err := c.Visit(listURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", listURL, err)
	}
	c.Wait()

	logger.Info(ctx, "Discovery completed", "source", a.name, "candidates", len(candidates))
	return candidates, nil
}

func (a *SiteAdapter) titleAndURL(e *colly.HTMLElement) (string, string) {
	// An empty Title selector means the container itself is the link.
	if a.selectors.Title == "" {
		return strings.TrimSpace(e.Text), e.Attr("href")
	}
	return strings.TrimSpace(e.ChildText(a.selectors.Title)),
		e.ChildAttr(a.selectors.URL, "href")
}

func (a *SiteAdapter) candidateDate(e *colly.HTMLElement, quarter string) time.Time {
	if a.selectors.Date != "" {
		raw := strings.TrimSpace(e.ChildAttr(a.selectors.Date, "datetime"))
		if raw == "" {
			raw = strings.TrimSpace(e.ChildText(a.selectors.Date))
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02", "Jan 2, 2006", "Jan. 2, 2006"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	// No parseable date on the listing. Fall back to the quarter's end date
	// so the derived Document ID stays deterministic.
	return QuarterEndDate(quarter)
}

func (a *SiteAdapter) expandedBase() string {
	base := strings.ReplaceAll(a.baseURL, "{company}", slugify(a.company))
	return strings.ReplaceAll(base, "{ticker}", strings.ToLower(a.ticker))
}

func (a *SiteAdapter) listURL() string {
	path := strings.ReplaceAll(a.listPath, "{ticker}", strings.ToLower(a.ticker))
	path = strings.ReplaceAll(path, "{company}", slugify(a.company))
	return a.expandedBase() + path
}

func slugify(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

func hostOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

var quarterTitleRe = regexp.MustCompile(`(?i)\bQ([1-4])\s*(?:FY\s*)?(\d{4})\b`)

// ParseQuarterFromTitle finds a "Q{n} {year}" quarter label in a listing
// title, normalized to the canonical "Q1 2024" form.
func ParseQuarterFromTitle(title string) (string, bool) {
	m := quarterTitleRe.FindStringSubmatch(title)
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("Q%s %s", m[1], m[2]), true
}

// QuarterEndDate maps a quarter label to the calendar quarter's last day.
// Malformed labels map to the zero time; callers only use this for
// already-validated labels.
func QuarterEndDate(quarter string) time.Time {
	m := quarterTitleRe.FindStringSubmatch(quarter)
	if m == nil {
		return time.Time{}
	}
	q, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	lastMonth := time.Month(q * 3)
	firstOfNext := time.Date(year, lastMonth, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}
