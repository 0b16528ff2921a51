// Package evaluator runs every check against a record and merges the
// verdicts into a single recommendation.
package evaluator

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
	"nathanbeddoewebdev/dnsweeper/internal/analysis/heuristics"
	dnsdomain "nathanbeddoewebdev/dnsweeper/internal/dns/domain"
)

const (
	ReasonOK            = "OK"
	ReasonAnalysisError = "analysis error"
	analysisErrorCheck  = "analysis_error"
)

// DeadChecker is the liveness check for address records.
type DeadChecker interface {
	CheckDead(ctx context.Context, rec dnsdomain.Record) (domain.CheckVerdict, error)
}

// CNAMEChecker is the chain check for CNAME records.
type CNAMEChecker interface {
	CheckBrokenCNAME(ctx context.Context, rec dnsdomain.Record) (domain.CheckVerdict, error)
}

// Evaluator combines the network checks with the heuristics.
type Evaluator struct {
	dead   DeadChecker
	cname  CNAMEChecker
	naming *heuristics.NamingClassifier
	log    logr.Logger
}

type Option func(*Evaluator)

// WithNamingClassifier replaces the built-in naming rules.
func WithNamingClassifier(c *heuristics.NamingClassifier) Option {
	return func(e *Evaluator) {
		if c != nil {
			e.naming = c
		}
	}
}

func WithLogger(log logr.Logger) Option {
	return func(e *Evaluator) {
		e.log = log
	}
}

func New(dead DeadChecker, cname CNAMEChecker, opts ...Option) *Evaluator {
	e := &Evaluator{
		dead:   dead,
		cname:  cname,
		naming: heuristics.DefaultNamingClassifier(),
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs the checks for rec against the zone snapshot all, in order:
// dead subdomain (A/AAAA), broken CNAME (CNAME), naming, duplicate, wildcard.
// It never fails: a check that errors or panics turns the whole record into
// a keep with reason "analysis error".
func (e *Evaluator) Evaluate(ctx context.Context, rec dnsdomain.Record, all []dnsdomain.Record) (ev domain.RecordEvaluation) {
	defer func() {
		if r := recover(); r != nil {
			ev = e.fallback(rec, fmt.Errorf("panic: %v", r))
		}
	}()

	res, err := e.evaluate(ctx, rec, all)
	if err != nil {
		return e.fallback(rec, err)
	}
	return res
}

func (e *Evaluator) evaluate(ctx context.Context, rec dnsdomain.Record, all []dnsdomain.Record) (domain.RecordEvaluation, error) {
	checks := make([]domain.CheckVerdict, 0, 4)
	alive := false

	if rec.Type.IsAddress() {
		v, err := e.dead.CheckDead(ctx, rec)
		if err != nil {
			return domain.RecordEvaluation{}, fmt.Errorf("dead subdomain check: %w", err)
		}
		checks = append(checks, v)
		alive = !v.IsGarbage
	}

	if rec.Type == dnsdomain.RecordTypeCNAME {
		v, err := e.cname.CheckBrokenCNAME(ctx, rec)
		if err != nil {
			return domain.RecordEvaluation{}, fmt.Errorf("broken CNAME check: %w", err)
		}
		checks = append(checks, v)
	}

	checks = append(checks,
		e.naming.Check(rec, alive),
		heuristics.CheckDuplicate(rec, all),
		heuristics.CheckWildcard(rec, all),
	)

	return Merge(rec, checks), nil
}

// Merge picks the highest-confidence garbage verdict. On a tie the earliest
// verdict wins.
func Merge(rec dnsdomain.Record, checks []domain.CheckVerdict) domain.RecordEvaluation {
	var top *domain.CheckVerdict
	for i := range checks {
		c := &checks[i]
		if !c.IsGarbage {
			continue
		}
		if top == nil || c.Confidence > top.Confidence {
			top = c
		}
	}

	ev := domain.RecordEvaluation{
		Record:         rec,
		Reason:         ReasonOK,
		CheckResults:   checks,
		Recommendation: domain.RecommendationKeep,
	}
	if top != nil {
		ev.IsGarbage = true
		ev.Reason = top.Reason
		ev.Confidence = top.Confidence
		ev.Recommendation = domain.RecommendationFor(true, top.Confidence)
	}
	return ev
}

func (e *Evaluator) fallback(rec dnsdomain.Record, err error) domain.RecordEvaluation {
	e.log.Error(err, "record analysis failed", "record", rec.Name, "type", rec.Type)
	return domain.RecordEvaluation{
		Record:     rec,
		IsGarbage:  false,
		Reason:     ReasonAnalysisError,
		Confidence: 0,
		CheckResults: []domain.CheckVerdict{{
			IsGarbage: false,
			Reason:    analysisErrorCheck,
			Details:   map[string]any{"error": err.Error()},
		}},
		Recommendation: domain.RecommendationKeep,
	}
}
