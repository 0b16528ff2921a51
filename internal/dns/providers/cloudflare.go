package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"nathanbeddoewebdev/dnsweeper/internal/auth"
	"nathanbeddoewebdev/dnsweeper/internal/dns/domain"
)

const (
	cloudflareBaseURL    = "https://api.cloudflare.com/client/v4"
	cloudflareTimeout    = 30 * time.Second
	cloudflareTokenStore = "cloudflare"
	cloudflarePageSize   = 100
	cloudflareZonePage   = 50
)

var _ domain.Provider = (*CloudflareProvider)(nil)

// CloudflareProvider reads zones and records through the Cloudflare API v4.
// It authenticates with a scoped API token; Zone:Read and DNS:Read are
// enough since dnsweeper never writes.
type CloudflareProvider struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewCloudflareProvider(token string) *CloudflareProvider {
	return &CloudflareProvider{
		token:   token,
		baseURL: cloudflareBaseURL,
		client:  &http.Client{Timeout: cloudflareTimeout},
	}
}

// RegisterCloudflare registers the Cloudflare provider factory.
func RegisterCloudflare() {
	Register("cloudflare", func(store auth.Store) (domain.Provider, error) {
		token, err := store.GetToken(cloudflareTokenStore)
		if err != nil {
			return nil, fmt.Errorf("cloudflare auth: token not found (set CLOUDFLARE_API_TOKEN or run 'dnsweeper auth login cloudflare'): %w", err)
		}
		return NewCloudflareProvider(token), nil
	})
}

func (c *CloudflareProvider) GetDisplayName() string {
	return "Cloudflare"
}

type cfError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type cfResultInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
	Count      int `json:"count"`
	TotalCount int `json:"total_count"`
}

// cfListEnvelope is the wrapper around every Cloudflare list response.
type cfListEnvelope[T any] struct {
	Success    bool         `json:"success"`
	Errors     []cfError    `json:"errors"`
	Result     []T          `json:"result"`
	ResultInfo cfResultInfo `json:"result_info"`
}

type cfZone struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	CreatedOn string `json:"created_on"`
}

type cfDNSRecord struct {
	ID       string `json:"id"`
	ZoneID   string `json:"zone_id"`
	ZoneName string `json:"zone_name"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	TTL      int    `json:"ttl"`
	Proxied  *bool  `json:"proxied,omitempty"`
	Priority *int   `json:"priority,omitempty"`
}

// envelopeError maps a failed Cloudflare response onto the domain sentinels,
// first by HTTP status and then by API error code.
func envelopeError(success bool, apiErrors []cfError, httpStatus int) error {
	if success {
		return nil
	}

	switch httpStatus {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, cfErrorString(apiErrors))
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, cfErrorString(apiErrors))
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, cfErrorString(apiErrors))
	}

	for _, e := range apiErrors {
		msg := strings.ToLower(e.Message)
		switch {
		case e.Code == 9109 || e.Code == 10000 || strings.Contains(msg, "authentication"):
			return fmt.Errorf("%w: %s", domain.ErrUnauthorized, e.Message)
		case e.Code == 7003 || e.Code == 81044 || strings.Contains(msg, "not found"):
			return fmt.Errorf("%w: %s", domain.ErrNotFound, e.Message)
		case e.Code == 971 || strings.Contains(msg, "rate limit"):
			return fmt.Errorf("%w: %s", domain.ErrRateLimited, e.Message)
		}
	}

	return fmt.Errorf("%w: %s", errUnmapped, cfErrorString(apiErrors))
}

// errUnmapped marks API failures that match no domain sentinel.
var errUnmapped = errors.New("cloudflare")

func cfErrorString(apiErrors []cfError) string {
	if len(apiErrors) == 0 {
		return "unknown error"
	}
	msgs := make([]string, 0, len(apiErrors))
	for _, e := range apiErrors {
		msgs = append(msgs, fmt.Sprintf("[%d] %s", e.Code, e.Message))
	}
	return strings.Join(msgs, "; ")
}

// userAgent identifies dnsweeper to provider APIs.
const userAgent = "dnsweeper"

// getJSON issues an authenticated GET and decodes the body into out. The
// HTTP status is returned alongside so callers can map API errors. Bodies
// that are not JSON (proxies, rate limiters) are classified by status alone.
func (c *CloudflareProvider) getJSON(ctx context.Context, path string, query url.Values, out any) (int, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, fmt.Errorf("cloudflare: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("cloudflare: request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if apiErr := envelopeError(false, nil, resp.StatusCode); resp.StatusCode >= 400 && !errors.Is(apiErr, errUnmapped) {
			return resp.StatusCode, apiErr
		}
		return resp.StatusCode, fmt.Errorf("cloudflare: failed to decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	return resp.StatusCode, nil
}

// listAll follows Cloudflare pagination until the last page.
func listAll[T any](ctx context.Context, c *CloudflareProvider, path string, query url.Values, perPage int) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(perPage))

		var out cfListEnvelope[T]
		status, err := c.getJSON(ctx, path, q, &out)
		if err != nil {
			return nil, err
		}
		if apiErr := envelopeError(out.Success, out.Errors, status); apiErr != nil {
			return nil, apiErr
		}
		all = append(all, out.Result...)

		if page >= out.ResultInfo.TotalPages || len(out.Result) == 0 {
			return all, nil
		}
	}
}

// getZone resolves a domain name to its Cloudflare zone.
func (c *CloudflareProvider) getZone(ctx context.Context, domainName string) (cfZone, error) {
	var out cfListEnvelope[cfZone]
	status, err := c.getJSON(ctx, "/zones", url.Values{"name": {domainName}, "per_page": {"1"}}, &out)
	if err != nil {
		return cfZone{}, fmt.Errorf("failed to look up zone for %q: %w", domainName, err)
	}
	if apiErr := envelopeError(out.Success, out.Errors, status); apiErr != nil {
		return cfZone{}, fmt.Errorf("failed to look up zone for %q: %w", domainName, apiErr)
	}
	if len(out.Result) == 0 {
		return cfZone{}, fmt.Errorf("%w: %s", domain.ErrZoneNotFound, domainName)
	}
	return out.Result[0], nil
}

// ListDomains returns every zone in the account.
func (c *CloudflareProvider) ListDomains(ctx context.Context) ([]domain.Domain, error) {
	zones, err := listAll[cfZone](ctx, c, "/zones", nil, cloudflareZonePage)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}

	domains := make([]domain.Domain, 0, len(zones))
	for _, z := range zones {
		domains = append(domains, domain.Domain{
			Name:       z.Name,
			Status:     z.Status,
			TLD:        extractTLD(z.Name),
			CreateDate: z.CreatedOn,
			ExpireDate: "N/A",
		})
	}
	return domains, nil
}

// ListRecords returns every record in the zone, following all pages.
func (c *CloudflareProvider) ListRecords(ctx context.Context, domainName string) ([]domain.Record, error) {
	zone, err := c.getZone(ctx, domainName)
	if err != nil {
		return nil, err
	}

	raw, err := listAll[cfDNSRecord](ctx, c, "/zones/"+url.PathEscape(zone.ID)+"/dns_records", nil, cloudflarePageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for %q: %w", domainName, err)
	}

	records := make([]domain.Record, 0, len(raw))
	for _, r := range raw {
		records = append(records, cfToDomainRecord(zone, r))
	}
	return records, nil
}

// extractTLD returns everything after the first dot. It does not know about
// multi-label public suffixes.
func extractTLD(name string) string {
	idx := strings.IndexByte(name, '.')
	if idx < 0 || idx >= len(name)-1 {
		return ""
	}
	return name[idx+1:]
}

func cfToDomainRecord(zone cfZone, r cfDNSRecord) domain.Record {
	prio := 0
	if r.Priority != nil {
		prio = *r.Priority
	}
	zoneID, zoneName := r.ZoneID, r.ZoneName
	if zoneID == "" {
		zoneID = zone.ID
	}
	if zoneName == "" {
		zoneName = zone.Name
	}

	return domain.Record{
		ID:       r.ID,
		ZoneID:   zoneID,
		ZoneName: zoneName,
		Name:     r.Name,
		Type:     domain.RecordType(strings.ToUpper(r.Type)),
		Content:  r.Content,
		TTL:      r.TTL,
		Proxied:  r.Proxied,
		Priority: prio,
	}
}
