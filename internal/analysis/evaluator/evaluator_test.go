package evaluator

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
	"nathanbeddoewebdev/dnsweeper/internal/analysis/heuristics"
	dnsdomain "nathanbeddoewebdev/dnsweeper/internal/dns/domain"
)

type deadFunc func(context.Context, dnsdomain.Record) (domain.CheckVerdict, error)

func (f deadFunc) CheckDead(ctx context.Context, rec dnsdomain.Record) (domain.CheckVerdict, error) {
	return f(ctx, rec)
}

type cnameFunc func(context.Context, dnsdomain.Record) (domain.CheckVerdict, error)

func (f cnameFunc) CheckBrokenCNAME(ctx context.Context, rec dnsdomain.Record) (domain.CheckVerdict, error) {
	return f(ctx, rec)
}

func verdict(v domain.CheckVerdict) func(context.Context, dnsdomain.Record) (domain.CheckVerdict, error) {
	return func(context.Context, dnsdomain.Record) (domain.CheckVerdict, error) { return v, nil }
}

func alive() deadFunc       { return deadFunc(verdict(domain.Clean())) }
func cleanCNAME() cnameFunc { return cnameFunc(verdict(domain.Clean())) }
func nxdomain() deadFunc    { return deadFunc(verdict(domain.Garbage("NXDOMAIN", 0.95, nil))) }
func unexpected() cnameFunc {
	return cnameFunc(func(context.Context, dnsdomain.Record) (domain.CheckVerdict, error) { panic("unexpected CNAME check") })
}
func unexpectedDead() deadFunc {
	return deadFunc(func(context.Context, dnsdomain.Record) (domain.CheckVerdict, error) { panic("unexpected dead check") })
}

func record(name string, typ dnsdomain.RecordType, content string) dnsdomain.Record {
	return dnsdomain.Record{ID: name, ZoneName: "example.com", Name: name, Type: typ, Content: content}
}

func TestEvaluate_AliveTestRecordNeedsReview(t *testing.T) {
	e := New(alive(), unexpected())
	rec := record("test.example.com", dnsdomain.RecordTypeA, "192.0.2.1")

	ev := e.Evaluate(context.Background(), rec, []dnsdomain.Record{rec})
	assert.True(t, ev.IsGarbage)
	assert.Equal(t, heuristics.ReasonTestRecord, ev.Reason)
	assert.InDelta(t, 0.54, ev.Confidence, 1e-9)
	assert.Equal(t, domain.RecommendationReviewNeeded, ev.Recommendation)
	require.Len(t, ev.CheckResults, 4)
	assert.False(t, ev.CheckResults[0].IsGarbage, "dead check comes first")
}

func TestEvaluate_DeadTestRecordIsNotDiscounted(t *testing.T) {
	e := New(nxdomain(), unexpected())
	rec := record("test.example.com", dnsdomain.RecordTypeA, "192.0.2.1")

	ev := e.Evaluate(context.Background(), rec, []dnsdomain.Record{rec})
	assert.Equal(t, "NXDOMAIN", ev.Reason)
	assert.Equal(t, 0.95, ev.Confidence)
	assert.Equal(t, domain.RecommendationSafeToDelete, ev.Recommendation)
	require.Len(t, ev.CheckResults, 4)
	assert.Equal(t, 0.9, ev.CheckResults[1].Confidence, "naming keeps full confidence when the record is dead")
}

func TestEvaluate_CNAMECycle(t *testing.T) {
	e := New(unexpectedDead(), cnameFunc(verdict(domain.Garbage("CNAME cycle", 1.0, nil))))
	rec := record("loop.example.com", dnsdomain.RecordTypeCNAME, "a.example.net")

	ev := e.Evaluate(context.Background(), rec, []dnsdomain.Record{rec})
	assert.True(t, ev.IsGarbage)
	assert.Equal(t, "CNAME cycle", ev.Reason)
	assert.Equal(t, 1.0, ev.Confidence)
	assert.Equal(t, domain.RecommendationSafeToDelete, ev.Recommendation)
	assert.Len(t, ev.CheckResults, 4)
}

func TestEvaluate_OtherTypesSkipNetworkChecks(t *testing.T) {
	e := New(unexpectedDead(), unexpected())
	rec := record("example.com", dnsdomain.RecordTypeMX, "mail.example.com")

	ev := e.Evaluate(context.Background(), rec, []dnsdomain.Record{rec})
	assert.False(t, ev.IsGarbage)
	assert.Equal(t, ReasonOK, ev.Reason)
	assert.Zero(t, ev.Confidence)
	assert.Equal(t, domain.RecommendationKeep, ev.Recommendation)
	assert.Len(t, ev.CheckResults, 3)
}

func TestEvaluate_WildcardCoverage(t *testing.T) {
	e := New(alive(), unexpected())
	wildcard := record("*.example.com", dnsdomain.RecordTypeA, "1.2.3.4")
	foo := record("foo.example.com", dnsdomain.RecordTypeA, "1.2.3.4")

	ev := e.Evaluate(context.Background(), foo, []dnsdomain.Record{wildcard, foo})
	assert.Equal(t, heuristics.ReasonWildcard, ev.Reason)
	assert.Equal(t, 0.85, ev.Confidence)
	assert.Equal(t, domain.RecommendationSafeToDelete, ev.Recommendation)
}

func TestEvaluate_DuplicateNeedsReview(t *testing.T) {
	e := New(alive(), unexpected())
	apex := record("@", dnsdomain.RecordTypeA, "192.0.2.1")
	old := record("old-host", dnsdomain.RecordTypeA, "192.0.2.1")
	all := []dnsdomain.Record{apex, old}

	// old-host also matches the "old" naming rule, discounted because it is alive.
	ev := e.Evaluate(context.Background(), old, all)
	assert.Equal(t, "duplicate of @", ev.Reason)
	assert.Equal(t, 0.7, ev.Confidence)
	assert.Equal(t, domain.RecommendationReviewNeeded, ev.Recommendation)

	ev = e.Evaluate(context.Background(), apex, all)
	assert.False(t, ev.IsGarbage)
}

func TestEvaluate_PanicFallsBackToKeep(t *testing.T) {
	e := New(unexpectedDead(), unexpected(), WithLogger(testr.New(t)))
	rec := record("www.example.com", dnsdomain.RecordTypeA, "192.0.2.1")

	ev := e.Evaluate(context.Background(), rec, []dnsdomain.Record{rec})
	assert.False(t, ev.IsGarbage)
	assert.Equal(t, ReasonAnalysisError, ev.Reason)
	assert.Equal(t, domain.RecommendationKeep, ev.Recommendation)
	require.Len(t, ev.CheckResults, 1)
	assert.Equal(t, "analysis_error", ev.CheckResults[0].Reason)
	assert.Contains(t, ev.CheckResults[0].Details["error"], "unexpected dead check")
}

func TestEvaluate_ErrorFallsBackToKeep(t *testing.T) {
	failing := deadFunc(func(context.Context, dnsdomain.Record) (domain.CheckVerdict, error) {
		return domain.CheckVerdict{}, errors.New("boom")
	})
	e := New(failing, unexpected(), WithLogger(testr.New(t)))
	rec := record("test.example.com", dnsdomain.RecordTypeA, "192.0.2.1")

	ev := e.Evaluate(context.Background(), rec, []dnsdomain.Record{rec})
	assert.False(t, ev.IsGarbage)
	assert.Equal(t, ReasonAnalysisError, ev.Reason)
	assert.Zero(t, ev.Confidence)
	assert.Contains(t, ev.CheckResults[0].Details["error"], "boom")
}

func TestEvaluate_CustomNamingRules(t *testing.T) {
	c, err := heuristics.NewNamingClassifier([]heuristics.Rule{{Name: "qa", Pattern: `^qa\.`, Confidence: 0.9}})
	require.NoError(t, err)
	e := New(unexpectedDead(), unexpected(), WithNamingClassifier(c))

	rec := record("qa.example.com", dnsdomain.RecordTypeTXT, "v=spf1 -all")
	ev := e.Evaluate(context.Background(), rec, []dnsdomain.Record{rec})
	assert.True(t, ev.IsGarbage)
	assert.Equal(t, domain.RecommendationSafeToDelete, ev.Recommendation)
}

func TestMerge_FirstMaxWins(t *testing.T) {
	rec := record("x.example.com", dnsdomain.RecordTypeTXT, "")
	checks := []domain.CheckVerdict{
		domain.Clean(),
		domain.Garbage("first", 0.85, nil),
		domain.Garbage("lower", 0.7, nil),
		domain.Garbage("second", 0.85, nil),
	}

	ev := Merge(rec, checks)
	assert.Equal(t, "first", ev.Reason)
	assert.Equal(t, 0.85, ev.Confidence)
	assert.Equal(t, checks, ev.CheckResults)
}

func TestMerge_NothingFlagged(t *testing.T) {
	ev := Merge(record("x.example.com", dnsdomain.RecordTypeTXT, ""), []domain.CheckVerdict{domain.Clean()})
	assert.False(t, ev.IsGarbage)
	assert.Equal(t, ReasonOK, ev.Reason)
	assert.Equal(t, domain.RecommendationKeep, ev.Recommendation)
}
