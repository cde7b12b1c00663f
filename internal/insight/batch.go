package insight

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"earnings-insight/internal/logger"
	"earnings-insight/internal/types"
)

// Batch runs the signal extractor across many documents, strictly
// sequentially, with an enforced minimum delay between the start of
// consecutive analyses. The delay is a deliberate throughput cap against
// the external service, not an optimization target.
type Batch struct {
	extractor *Extractor
	limiter   *rate.Limiter
}

// NewBatch creates a batch analyzer. callDelay is the minimum gap between
// the start of consecutive document analyses; zero disables the cap.
func NewBatch(extractor *Extractor, callDelay time.Duration) *Batch {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if callDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(callDelay), 1)
	}
	return &Batch{extractor: extractor, limiter: limiter}
}

// AnalyzeAll extracts signals for each document in input order. A document
// whose extraction fails is logged and omitted from the result; siblings
// are unaffected. The result may therefore be shorter than the input.
func (b *Batch) AnalyzeAll(ctx context.Context, docs []types.Document) []types.QuarterRecord {
	op := logger.StartOperation(ctx, "analyze-batch", "documents", len(docs))
	ctx = op.GetContext()

	records := make([]types.QuarterRecord, 0, len(docs))

	for _, doc := range docs {
		if err := b.limiter.Wait(ctx); err != nil {
			logger.Warn(ctx, "Batch analysis interrupted", "error", err, "completed", len(records))
			break
		}

		record, err := b.extractor.Extract(ctx, doc)
		if err != nil {
			// No retry here: retry policy belongs to the layers beneath.
			logger.ErrorWithErr(ctx, "Skipping document in batch", err, "document", doc.ID)
			continue
		}
		records = append(records, record)
	}

	op.End("records", len(records), "skipped", len(docs)-len(records))
	return records
}
