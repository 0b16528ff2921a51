package heuristics

import (
	"strings"

	"nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
	dnsdomain "nathanbeddoewebdev/dnsweeper/internal/dns/domain"
)

const (
	ReasonWildcard     = "covered by wildcard"
	wildcardConfidence = 0.85
)

// CheckWildcard flags rec when a wildcard record of the same type already
// answers for its name with the same content. Only names exactly one label
// below the wildcard's suffix are covered, and only the first matching
// wildcard is reported. Wildcards are never flagged against each other.
func CheckWildcard(rec dnsdomain.Record, all []dnsdomain.Record) domain.CheckVerdict {
	if rec.IsWildcard() {
		return domain.Clean()
	}
	name := strings.ToLower(rec.Name)

	for _, w := range all {
		if !w.IsWildcard() || w.Type != rec.Type || w.ID == rec.ID {
			continue
		}
		suffix := strings.ToLower(w.Name[2:])
		if !strings.HasSuffix(name, "."+suffix) {
			continue
		}
		label := name[:len(name)-len(suffix)-1]
		if label == "" || strings.Contains(label, ".") {
			continue
		}
		if rec.Content != w.Content {
			continue
		}

		v := domain.Garbage(ReasonWildcard, wildcardConfidence, map[string]any{
			"wildcardRecord":  w.Name,
			"wildcardContent": w.Content,
		})
		v.Suggestion = w.Name + " already answers for this name"
		return v
	}
	return domain.Clean()
}
