// Package heuristics holds the record checks that need no network access:
// naming patterns, duplicates and wildcard coverage. Every check is a pure
// function of the record and the zone snapshot it came from.
package heuristics

import (
	"fmt"
	"regexp"
	"strings"

	"nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
	dnsdomain "nathanbeddoewebdev/dnsweeper/internal/dns/domain"
)

const (
	ReasonTestRecord  = "possible test record"
	testSuggestion    = "likely not needed in production"
	AliveDiscount     = 0.6
	maxRuleConfidence = 1.0
)

// Rule is one naming pattern and the confidence a match carries.
type Rule struct {
	Name       string  `yaml:"name"`
	Pattern    string  `yaml:"pattern"`
	Confidence float64 `yaml:"confidence"`
}

// DefaultRules returns the built-in naming rules, in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "test", Pattern: `^test[-.]?`, Confidence: 0.9},
		{Name: "dev", Pattern: `^dev[-.]?`, Confidence: 0.9},
		{Name: "staging", Pattern: `^staging[-.]?`, Confidence: 0.85},
		{Name: "demo", Pattern: `^demo[-.]?`, Confidence: 0.8},
		{Name: "temp", Pattern: `^temp[-.]?`, Confidence: 0.9},
		{Name: "tmp", Pattern: `^tmp[-.]?`, Confidence: 0.9},
		{Name: "old", Pattern: `^old[-.]?`, Confidence: 0.85},
		{Name: "backup", Pattern: `^backup[-.]?`, Confidence: 0.8},
		{Name: "deleted", Pattern: `^deleted?[-.]?`, Confidence: 0.95},
		{Name: "date-stamp", Pattern: `\d{4}[-_]?\d{2}[-_]?\d{2}`, Confidence: 0.7},
		{Name: "versioned-test", Pattern: `v\d+[-.]test`, Confidence: 0.85},
		{Name: "personal-name", Pattern: `^(john|jane|bob|alice|test|admin|user\d+)[-.]`, Confidence: 0.7},
	}
}

type compiledRule struct {
	Rule
	re *regexp.Regexp
}

// NamingClassifier flags records whose names look like leftovers from
// testing or migrations.
type NamingClassifier struct {
	rules []compiledRule
}

// NewNamingClassifier compiles rules. Patterns are matched case-insensitively
// against the full record name.
func NewNamingClassifier(rules []Rule) (*NamingClassifier, error) {
	c := &NamingClassifier{rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		if err := validateRule(r); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): invalid pattern: %w", i+1, ruleName(r), err)
		}
		c.rules = append(c.rules, compiledRule{Rule: r, re: re})
	}
	return c, nil
}

// DefaultNamingClassifier returns a classifier over DefaultRules.
func DefaultNamingClassifier() *NamingClassifier {
	c, err := NewNamingClassifier(DefaultRules())
	if err != nil {
		panic(err)
	}
	return c
}

// Rules returns the rules in evaluation order.
func (c *NamingClassifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.Rule
	}
	return out
}

// Check evaluates the naming rules against rec. Only the single
// highest-confidence match counts; the first rule wins a tie. alive reports
// whether the liveness check found rec answering, which discounts the
// confidence for address records.
func (c *NamingClassifier) Check(rec dnsdomain.Record, alive bool) domain.CheckVerdict {
	var best *compiledRule
	for i := range c.rules {
		r := &c.rules[i]
		if !r.re.MatchString(rec.Name) {
			continue
		}
		if best == nil || r.Confidence > best.Confidence {
			best = r
		}
	}
	if best == nil {
		return domain.Clean()
	}

	confidence := best.Confidence
	if alive && rec.Type.IsAddress() {
		confidence *= AliveDiscount
	}

	v := domain.Garbage(ReasonTestRecord, confidence, map[string]any{
		"matchedPattern": best.Pattern,
		"rule":           best.Name,
	})
	v.Suggestion = testSuggestion
	return v
}

func validateRule(r Rule) error {
	if strings.TrimSpace(r.Pattern) == "" {
		return fmt.Errorf("pattern is required")
	}
	if r.Confidence <= 0 || r.Confidence > maxRuleConfidence {
		return fmt.Errorf("%s: confidence must be in (0, 1], got %v", ruleName(r), r.Confidence)
	}
	return nil
}

func ruleName(r Rule) string {
	if r.Name != "" {
		return r.Name
	}
	return r.Pattern
}
