package services

import (
	"github.com/go-logr/logr"

	"nathanbeddoewebdev/dnsweeper/internal/analysis/cname"
	"nathanbeddoewebdev/dnsweeper/internal/analysis/evaluator"
	"nathanbeddoewebdev/dnsweeper/internal/analysis/heuristics"
	"nathanbeddoewebdev/dnsweeper/internal/analysis/probe"
	"nathanbeddoewebdev/dnsweeper/internal/resolver"
)

// Settings drives the evaluator built by NewEvaluatorFactory.
type Settings struct {
	// Upstreams overrides the recursive resolvers. Empty uses the defaults.
	Upstreams []string
	// NamingRules replaces the built-in naming rules when non-empty.
	NamingRules []heuristics.Rule
	Log         logr.Logger
}

// NewEvaluatorFactory returns a factory wiring a DNS client, the liveness
// prober and the CNAME walker into an evaluator. Each call builds a new
// resolver so no lookup state outlives a scan.
func NewEvaluatorFactory(s Settings) EvaluatorFactory {
	return func() (RecordEvaluator, error) {
		log := s.Log
		if log.GetSink() == nil {
			log = logr.Discard()
		}

		naming := heuristics.DefaultNamingClassifier()
		if len(s.NamingRules) > 0 {
			c, err := heuristics.NewNamingClassifier(s.NamingRules)
			if err != nil {
				return nil, err
			}
			naming = c
		}

		r := resolver.New(
			resolver.WithUpstreams(s.Upstreams...),
			resolver.WithLogger(log.WithName("resolver")),
		)
		return evaluator.New(
			probe.New(r, probe.WithLogger(log.WithName("probe"))),
			cname.New(r, cname.WithLogger(log.WithName("cname"))),
			evaluator.WithNamingClassifier(naming),
			evaluator.WithLogger(log.WithName("evaluator")),
		), nil
	}
}
