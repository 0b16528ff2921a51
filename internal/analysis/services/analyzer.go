// Package services runs a full analysis of one domain: fetch every record,
// evaluate them concurrently and aggregate the outcome.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
	dnsdomain "nathanbeddoewebdev/dnsweeper/internal/dns/domain"
	"nathanbeddoewebdev/dnsweeper/internal/util"
)

// DefaultConcurrency caps how many records are evaluated at once.
const DefaultConcurrency = 5

// RecordSource supplies the zone snapshot for a domain.
type RecordSource interface {
	ListRecords(ctx context.Context, domain string) ([]dnsdomain.Record, error)
}

// RecordEvaluator turns one record into an evaluation. It must not fail;
// errors are expected to be folded into the evaluation itself.
type RecordEvaluator interface {
	Evaluate(ctx context.Context, rec dnsdomain.Record, all []dnsdomain.Record) domain.RecordEvaluation
}

// EvaluatorFactory builds a fresh evaluator for a single analysis run.
type EvaluatorFactory func() (RecordEvaluator, error)

// Analyzer analyses whole domains.
type Analyzer struct {
	source       RecordSource
	newEvaluator EvaluatorFactory
	concurrency  int
	log          logr.Logger
	now          func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithConcurrency sets the evaluation fan-out. Values below 1 keep the default.
func WithConcurrency(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

func WithLogger(log logr.Logger) Option {
	return func(a *Analyzer) {
		a.log = log
	}
}

// WithClock overrides the scan timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

func New(source RecordSource, newEvaluator EvaluatorFactory, opts ...Option) *Analyzer {
	a := &Analyzer{
		source:       source,
		newEvaluator: newEvaluator,
		concurrency:  DefaultConcurrency,
		log:          logr.Discard(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type analyzeOptions struct {
	progress func(float64)
}

// AnalyzeOption configures a single AnalyzeDomain call.
type AnalyzeOption func(*analyzeOptions)

// WithProgress registers a callback that receives the fraction of records
// processed after each one completes. Calls are serialised and the fraction
// never decreases; the last call reports 1.
func WithProgress(fn func(float64)) AnalyzeOption {
	return func(o *analyzeOptions) {
		o.progress = fn
	}
}

// AnalyzeDomain fetches the records for domainName once and evaluates each
// of them. Only a failure to fetch records (or a cancelled ctx) is returned
// as an error; individual record problems end up in the result.
func (a *Analyzer) AnalyzeDomain(ctx context.Context, domainName string, opts ...AnalyzeOption) (*domain.Result, error) {
	var o analyzeOptions
	for _, opt := range opts {
		opt(&o)
	}

	domainName = util.NormalizeHost(domainName)
	if err := util.ValidateDomainName(domainName); err != nil {
		return nil, fmt.Errorf("%w: %w", dnsdomain.ErrInvalidDomain, err)
	}

	started := a.now()
	log := a.log.WithValues("domain", domainName)

	records, err := a.source.ListRecords(ctx, domainName)
	if err != nil {
		return nil, fmt.Errorf("fetch records for %s: %w", domainName, err)
	}
	log.Info("analysing records", "records", len(records), "concurrency", a.concurrency)

	ev, err := a.newEvaluator()
	if err != nil {
		return nil, fmt.Errorf("build evaluator: %w", err)
	}

	var (
		mu        sync.Mutex
		results   = make([]domain.RecordEvaluation, 0, len(records))
		processed int
		total     = len(records)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for _, rec := range records {
		g.Go(func() error {
			res := ev.Evaluate(gctx, rec, records)

			mu.Lock()
			defer mu.Unlock()
			results = append(results, res)
			processed++
			if o.progress != nil {
				o.progress(float64(processed) / float64(total))
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := aggregate(domainName, a.now().UTC(), results)
	log.Info("analysis complete",
		"total", result.Summary.TotalRecords,
		"garbage", result.Summary.GarbageCount,
		"safeToDelete", result.Summary.SafeToDeleteCount,
		"reviewNeeded", result.Summary.ReviewNeededCount,
		"elapsed", a.now().Sub(started).String(),
	)
	return result, nil
}

func aggregate(domainName string, scanDate time.Time, results []domain.RecordEvaluation) *domain.Result {
	out := &domain.Result{
		Domain:     domainName,
		ScanDate:   scanDate,
		Results:    []domain.RecordEvaluation{},
		ExportData: make([]domain.ExportRow, 0, len(results)),
	}
	out.Summary.TotalRecords = len(results)

	for _, r := range results {
		out.ExportData = append(out.ExportData, domain.RowFor(r))
		if !r.IsGarbage {
			continue
		}
		out.Results = append(out.Results, r)
		switch r.Recommendation {
		case domain.RecommendationSafeToDelete:
			out.Summary.SafeToDeleteCount++
		case domain.RecommendationReviewNeeded:
			out.Summary.ReviewNeededCount++
		}
	}
	out.Summary.GarbageCount = len(out.Results)
	out.EstimatedMonthlySavings = domain.Savings(out.Summary.GarbageCount)
	return out
}
