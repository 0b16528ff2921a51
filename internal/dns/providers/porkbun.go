package providers

import (
	"bytes"
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
	porkbunBaseURL = "https://api.porkbun.com/api/json/v3"
	porkbunTimeout = 30 * time.Second

	// porkbunPageSize is how many domains /domain/listAll returns per call.
	porkbunPageSize = 1000

	porkbunAPIKeyStore = "porkbun-apikey"
	porkbunSecretStore = "porkbun-secretapikey"
)

var _ domain.Provider = (*PorkbunProvider)(nil)

// PorkbunProvider reads domains and records through the Porkbun API v3.
// Porkbun returns a zone's records in a single response.
type PorkbunProvider struct {
	apiKey    string
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewPorkbunProvider(apiKey, secretKey string) *PorkbunProvider {
	return &PorkbunProvider{
		apiKey:    apiKey,
		secretKey: secretKey,
		baseURL:   porkbunBaseURL,
		client:    &http.Client{Timeout: porkbunTimeout},
	}
}

// RegisterPorkbun registers the Porkbun provider factory. Credentials are
// read from the "porkbun" token as "<api-key>:<secret-key>", or failing that
// from the separate porkbun-apikey and porkbun-secretapikey tokens.
func RegisterPorkbun() {
	Register("porkbun", func(store auth.Store) (domain.Provider, error) {
		apiKey, secretKey, err := porkbunCredentials(store)
		if err != nil {
			return nil, fmt.Errorf("porkbun auth: %w (run 'dnsweeper auth login porkbun')", err)
		}
		return NewPorkbunProvider(apiKey, secretKey), nil
	})
}

func porkbunCredentials(store auth.Store) (apiKey, secretKey string, err error) {
	combined, err := store.GetToken("porkbun")
	switch {
	case err == nil:
		key, secret, ok := strings.Cut(combined, ":")
		key, secret = strings.TrimSpace(key), strings.TrimSpace(secret)
		if !ok || key == "" || secret == "" {
			return "", "", errors.New(`token must have the form "<api-key>:<secret-key>"`)
		}
		return key, secret, nil
	case !errors.Is(err, auth.ErrTokenNotFound):
		return "", "", err
	}

	if apiKey, err = store.GetToken(porkbunAPIKeyStore); err != nil {
		return "", "", fmt.Errorf("api key not found: %w", err)
	}
	if secretKey, err = store.GetToken(porkbunSecretStore); err != nil {
		return "", "", fmt.Errorf("secret key not found: %w", err)
	}
	return apiKey, secretKey, nil
}

func (p *PorkbunProvider) GetDisplayName() string {
	return "Porkbun"
}

// porkbunAuth is embedded in every request body.
type porkbunAuth struct {
	APIKey    string `json:"apikey"`
	SecretKey string `json:"secretapikey"`
}

type porkbunResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (r porkbunResponse) err() error {
	if r.Status != "SUCCESS" {
		return fmt.Errorf("porkbun: %s", r.Message)
	}
	return nil
}

type porkbunDomainRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
	TTL     string `json:"ttl"`
	Prio    string `json:"prio"`
}

func (p *PorkbunProvider) post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("porkbun: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("porkbun: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("porkbun: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return fmt.Errorf("%w: porkbun: HTTP %d", domain.ErrRateLimited, resp.StatusCode)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: porkbun: HTTP %d", domain.ErrUnauthorized, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("porkbun: failed to decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	return nil
}

func (p *PorkbunProvider) authBody() porkbunAuth {
	return porkbunAuth{APIKey: p.apiKey, SecretKey: p.secretKey}
}

// mapAPIError converts Porkbun error messages to domain sentinels where recognisable.
func mapAPIError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "invalid api key") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "authentication"):
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, err.Error())
	case strings.Contains(msg, "not found") ||
		strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "invalid domain"):
		return fmt.Errorf("%w: %s", domain.ErrNotFound, err.Error())
	case strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests"):
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, err.Error())
	}
	return err
}

// ListDomains returns every domain in the account, following the listAll
// paging offset until a short page comes back.
func (p *PorkbunProvider) ListDomains(ctx context.Context) ([]domain.Domain, error) {
	type request struct {
		porkbunAuth
		Start string `json:"start,omitempty"`
	}
	type apiDomain struct {
		Domain     string `json:"domain"`
		Status     string `json:"status"`
		TLD        string `json:"tld"`
		CreateDate string `json:"createDate"`
		ExpireDate string `json:"expireDate"`
	}
	type response struct {
		porkbunResponse
		Domains []apiDomain `json:"domains"`
	}

	var domains []domain.Domain
	for start := 0; ; start += porkbunPageSize {
		req := request{porkbunAuth: p.authBody()}
		if start > 0 {
			req.Start = strconv.Itoa(start)
		}

		var out response
		if err := p.post(ctx, "/domain/listAll", req, &out); err != nil {
			return nil, fmt.Errorf("failed to list domains: %w", err)
		}
		if err := mapAPIError(out.err()); err != nil {
			return nil, fmt.Errorf("failed to list domains: %w", err)
		}

		for _, d := range out.Domains {
			domains = append(domains, domain.Domain{
				Name:       d.Domain,
				Status:     d.Status,
				TLD:        d.TLD,
				CreateDate: d.CreateDate,
				ExpireDate: d.ExpireDate,
			})
		}
		if len(out.Domains) < porkbunPageSize {
			break
		}
	}
	if domains == nil {
		domains = []domain.Domain{}
	}
	return domains, nil
}

// ListRecords returns every record for domainName.
func (p *PorkbunProvider) ListRecords(ctx context.Context, domainName string) ([]domain.Record, error) {
	type response struct {
		porkbunResponse
		Records []porkbunDomainRecord `json:"records"`
	}

	var out response
	if err := p.post(ctx, "/dns/retrieve/"+url.PathEscape(domainName), p.authBody(), &out); err != nil {
		return nil, fmt.Errorf("failed to list records for %q: %w", domainName, err)
	}
	if err := mapAPIError(out.err()); err != nil {
		return nil, fmt.Errorf("failed to list records for %q: %w", domainName, err)
	}

	records := make([]domain.Record, 0, len(out.Records))
	for _, r := range out.Records {
		records = append(records, toDomainRecord(domainName, r))
	}
	return records, nil
}

func toDomainRecord(domainName string, r porkbunDomainRecord) domain.Record {
	return domain.Record{
		ID:       r.ID,
		ZoneName: domainName,
		Name:     r.Name,
		Type:     domain.RecordType(strings.ToUpper(r.Type)),
		Content:  r.Content,
		TTL:      parseInt(r.TTL),
		Priority: parseInt(r.Prio),
	}
}

// parseInt converts a string to int, returning 0 on failure.
func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
