package heuristics

import (
	"sort"
	"strings"
	"unicode/utf8"

	"nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
	dnsdomain "nathanbeddoewebdev/dnsweeper/internal/dns/domain"
)

const (
	duplicateConfidence = 0.7
	duplicateSuggestion = "consolidate the duplicate records"
)

// Priority ranks which of several records pointing at the same content is
// the one to keep. Higher wins. Below the fixed tiers the value only breaks
// ties and carries no meaning of its own.
func Priority(rec dnsdomain.Record) float64 {
	name := strings.ToLower(rec.Name)
	zone := strings.ToLower(rec.ZoneName)

	switch {
	case rec.IsApex():
		return 100
	case name == "www" || (zone != "" && name == "www."+zone):
		return 90
	case utf8.RuneCountInString(name) <= 3:
		return 50
	}
	first, _ := utf8.DecodeRuneInString(name)
	return 10 - float64(first)/1000
}

// CheckDuplicate flags rec when another record with the same type and content
// but a different name outranks it. The higher-ranked record of a pair is
// never flagged, so a pair is reported once.
func CheckDuplicate(rec dnsdomain.Record, all []dnsdomain.Record) domain.CheckVerdict {
	own := Priority(rec)

	type ranked struct {
		name     string
		priority float64
	}
	var higher []ranked
	for _, c := range all {
		if c.ID == rec.ID || c.Type != rec.Type || c.Content != rec.Content || strings.EqualFold(c.Name, rec.Name) {
			continue
		}
		if p := Priority(c); p > own {
			higher = append(higher, ranked{name: c.Name, priority: p})
		}
	}
	if len(higher) == 0 {
		return domain.Clean()
	}

	sort.SliceStable(higher, func(i, j int) bool { return higher[i].priority > higher[j].priority })
	names := make([]string, len(higher))
	for i, h := range higher {
		names[i] = h.name
	}

	v := domain.Garbage("duplicate of "+names[0], duplicateConfidence, map[string]any{
		"duplicateWith": names,
	})
	v.Suggestion = duplicateSuggestion
	return v
}
