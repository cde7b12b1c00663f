package transcript

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"earnings-insight/internal/interfaces"
	"earnings-insight/internal/logger"
	"earnings-insight/internal/types"
)

// Orchestrator runs source adapters in fixed priority order and turns their
// candidates into split Documents, substituting synthetic placeholders when
// no real content is obtainable.
type Orchestrator struct {
	adapters  []interfaces.SourceAdapter
	selectors map[string][]string
	fetcher   *Fetcher
	synthetic *SyntheticGenerator
	limiter   *rate.Limiter
	company   string
	minText   int
}

// NewOrchestrator creates an orchestrator. fetchDelay bounds the request
// rate against providers; minText is the minimum extracted-text length for a
// candidate to count.
func NewOrchestrator(company string, fetcher *Fetcher, synthetic *SyntheticGenerator, fetchDelay time.Duration, minText int) *Orchestrator {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if fetchDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(fetchDelay), 1)
	}
	return &Orchestrator{
		selectors: make(map[string][]string),
		fetcher:   fetcher,
		synthetic: synthetic,
		limiter:   limiter,
		company:   company,
		minText:   minText,
	}
}

// AddAdapter registers a provider adapter with the content selectors for its
// transcript pages. Registration order is priority order.
func (o *Orchestrator) AddAdapter(adapter interfaces.SourceAdapter, contentSelectors []string) {
	o.adapters = append(o.adapters, adapter)
	o.selectors[adapter.Name()] = contentSelectors
}

// AddSiteAdapter registers a SiteAdapter using its own content selectors.
func (o *Orchestrator) AddSiteAdapter(adapter *SiteAdapter) {
	o.AddAdapter(adapter, adapter.ContentSelectors())
}

// Acquire obtains up to n transcript Documents. It never fails: if every
// adapter and candidate comes up empty, it returns n synthetic Documents
// instead.
func (o *Orchestrator) Acquire(ctx context.Context, n int) []types.Document {
	op := logger.StartOperation(ctx, "acquire-transcripts", "requested", n)
	ctx = op.GetContext()

	candidates := o.discover(ctx, n)
	documents := make([]types.Document, 0, n)

	for _, cand := range candidates {
		if len(documents) >= n {
			break
		}

		if err := o.limiter.Wait(ctx); err != nil {
			break
		}

		doc, err := o.buildDocument(ctx, cand)
		if err != nil {
			logger.ErrorWithErr(ctx, "Skipping candidate", err, "source", cand.Source, "url", cand.URL)
			continue
		}
		documents = append(documents, doc)
	}

	if len(documents) == 0 {
		logger.Fallback(ctx, "acquisition", "no real transcripts obtainable", "requested", n)
		documents = o.synthetic.Generate(n)
	}

	op.End("acquired", len(documents), "synthetic", documents[0].Synthetic)
	return documents
}

// discover accumulates candidates across adapters in priority order until n
// are collected or the adapters are exhausted. A failing adapter is logged
// and skipped, never fatal.
func (o *Orchestrator) discover(ctx context.Context, n int) []types.Candidate {
	var candidates []types.Candidate

	for _, adapter := range o.adapters {
		if len(candidates) >= n {
			break
		}

		found, err := adapter.Discover(ctx, n-len(candidates))
		if err != nil {
			logger.ErrorWithErr(ctx, "Adapter discovery failed", err, "source", adapter.Name())
			continue
		}
		candidates = append(candidates, found...)
	}

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

func (o *Orchestrator) buildDocument(ctx context.Context, cand types.Candidate) (types.Document, error) {
	raw, err := o.fetcher.Fetch(ctx, cand.URL)
	if err != nil {
		return types.Document{}, err
	}

	text, err := ExtractText(raw, o.selectors[cand.Source], o.minText)
	if err != nil {
		return types.Document{}, err
	}

	management, qa := SplitSections(text)
	now := time.Now()

	return types.Document{
		ID:                types.DocumentID(cand.Quarter, cand.Date),
		Quarter:           cand.Quarter,
		FiscalYear:        cand.Date.Year(),
		SourceURL:         cand.URL,
		Source:            cand.Source,
		Company:           o.company,
		ManagementRemarks: management,
		QA:                qa,
		FullText:          text,
		Participants:      ExtractParticipants(text),
		Synthetic:         false,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}
