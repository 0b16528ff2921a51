package domain

import "strings"

// RecordType represents a DNS record type.
type RecordType string

const (
	RecordTypeA     RecordType = "A"
	RecordTypeAAAA  RecordType = "AAAA"
	RecordTypeCNAME RecordType = "CNAME"
	RecordTypeMX    RecordType = "MX"
	RecordTypeTXT   RecordType = "TXT"
	RecordTypeNS    RecordType = "NS"
	RecordTypeSRV   RecordType = "SRV"
	RecordTypeCAA   RecordType = "CAA"
	RecordTypePTR   RecordType = "PTR"
)

// IsAddress reports whether t is an address record (A or AAAA).
func (t RecordType) IsAddress() bool {
	return t == RecordTypeA || t == RecordTypeAAAA
}

// Record represents a single DNS record as supplied by a provider.
// Records are treated as an immutable snapshot once fetched.
type Record struct {
	// ID is the provider-assigned record identifier, unique within a zone.
	ID string `json:"id"`

	// ZoneID is the provider's identifier for the zone, if it has one.
	ZoneID string `json:"zone_id"`

	// ZoneName is the root domain this record belongs to (e.g. "example.com").
	ZoneName string `json:"zone_name"`

	// Name is the fully-qualified record name as returned by the provider
	// (e.g. "www.example.com" or "example.com" for a root record).
	Name string `json:"name"`

	// Type is the DNS record type (A, AAAA, CNAME, etc.).
	Type RecordType `json:"type"`

	// Content is the record value (IP address, hostname, text, etc.).
	Content string `json:"content"`

	// TTL is the time-to-live in seconds. Zero means the provider did not report one.
	TTL int `json:"ttl,omitempty"`

	// Proxied is set when the provider reports a proxy flag (Cloudflare).
	Proxied *bool `json:"proxied,omitempty"`

	// Priority is used for record types that support it (MX, SRV, etc.).
	// Zero means not applicable.
	Priority int `json:"priority,omitempty"`
}

// IsWildcard reports whether the record name starts with "*.".
func (r Record) IsWildcard() bool {
	return strings.HasPrefix(r.Name, "*.")
}

// IsApex reports whether the record sits at the zone root.
func (r Record) IsApex() bool {
	return r.Name == "@" || (r.ZoneName != "" && strings.EqualFold(r.Name, r.ZoneName))
}

// Domain represents a domain name in the provider account.
type Domain struct {
	// Name is the registered domain name (e.g. "example.com").
	Name string `json:"name"`

	// Status is the current domain status (e.g. "ACTIVE").
	Status string `json:"status"`

	// TLD is the top-level domain suffix (e.g. "com").
	TLD string `json:"tld"`

	// CreateDate is when the domain was registered.
	CreateDate string `json:"create_date"`

	// ExpireDate is when the domain registration expires.
	ExpireDate string `json:"expire_date"`
}
