package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dnsdomain "nathanbeddoewebdev/dnsweeper/internal/dns/domain"
)

func TestCheckWildcard_Covered(t *testing.T) {
	wildcard := rec("w", "*.example.com", dnsdomain.RecordTypeA, "1.2.3.4")
	foo := rec("f", "foo.example.com", dnsdomain.RecordTypeA, "1.2.3.4")

	v := CheckWildcard(foo, []dnsdomain.Record{wildcard, foo})
	assert.True(t, v.IsGarbage)
	assert.Equal(t, ReasonWildcard, v.Reason)
	assert.Equal(t, 0.85, v.Confidence)
	assert.Equal(t, "*.example.com", v.Details["wildcardRecord"])
	assert.Equal(t, "1.2.3.4", v.Details["wildcardContent"])
}

func TestCheckWildcard_NotCovered(t *testing.T) {
	wildcard := rec("w", "*.example.com", dnsdomain.RecordTypeA, "1.2.3.4")

	tests := []struct {
		name string
		rec  dnsdomain.Record
	}{
		{"different content", rec("1", "foo.example.com", dnsdomain.RecordTypeA, "1.2.3.5")},
		{"two labels deep", rec("2", "a.b.example.com", dnsdomain.RecordTypeA, "1.2.3.4")},
		{"different type", rec("3", "foo.example.com", dnsdomain.RecordTypeAAAA, "1.2.3.4")},
		{"apex", rec("4", "example.com", dnsdomain.RecordTypeA, "1.2.3.4")},
		{"suffix without boundary", rec("5", "badexample.com", dnsdomain.RecordTypeA, "1.2.3.4")},
		{"other zone", rec("6", "foo.example.org", dnsdomain.RecordTypeA, "1.2.3.4")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := CheckWildcard(tt.rec, []dnsdomain.Record{wildcard, tt.rec})
			assert.False(t, v.IsGarbage)
		})
	}
}

func TestCheckWildcard_WildcardNotFlaggedAgainstItself(t *testing.T) {
	wildcard := rec("w", "*.example.com", dnsdomain.RecordTypeA, "1.2.3.4")
	nested := rec("n", "*.dev.example.com", dnsdomain.RecordTypeA, "1.2.3.4")
	all := []dnsdomain.Record{wildcard, nested}

	assert.False(t, CheckWildcard(wildcard, all).IsGarbage)
	assert.False(t, CheckWildcard(nested, all).IsGarbage)
}

func TestCheckWildcard_FirstMatchOnly(t *testing.T) {
	first := rec("w1", "*.example.com", dnsdomain.RecordTypeCNAME, "lb.example.net")
	second := rec("w2", "*.EXAMPLE.com", dnsdomain.RecordTypeCNAME, "lb.example.net")
	foo := rec("f", "foo.example.com", dnsdomain.RecordTypeCNAME, "lb.example.net")

	v := CheckWildcard(foo, []dnsdomain.Record{first, second, foo})
	assert.True(t, v.IsGarbage)
	assert.Equal(t, "*.example.com", v.Details["wildcardRecord"])
}
