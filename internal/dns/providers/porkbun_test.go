package providers

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"net/http"
	"net/http/httptest"
	"testing"

	"nathanbeddoewebdev/dnsweeper/internal/auth"
	"nathanbeddoewebdev/dnsweeper/internal/dns/domain"

	"github.com/google/go-cmp/cmp"
)

func newTestPorkbunProvider(t *testing.T, serverURL string) *PorkbunProvider {
	t.Helper()
	p := NewPorkbunProvider("test-api-key", "test-secret-key")
	p.baseURL = serverURL
	return p
}

func porkbunSuccess(extra map[string]any) map[string]any {
	m := map[string]any{"status": "SUCCESS"}
	maps.Copy(m, extra)
	return m
}

func porkbunError(message string) map[string]any {
	return map[string]any{"status": "ERROR", "message": message}
}

// newPorkbunServer checks credentials on every call and answers with body.
func newPorkbunServer(t *testing.T, wantPath string, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != wantPath {
			t.Errorf("path = %q, want %q", r.URL.Path, wantPath)
		}
		var creds porkbunAuth
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		if creds.APIKey != "test-api-key" || creds.SecretKey != "test-secret-key" {
			t.Errorf("unexpected credentials: %+v", creds)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPorkbun_ListDomains(t *testing.T) {
	srv := newPorkbunServer(t, "/domain/listAll", porkbunSuccess(map[string]any{
		"domains": []any{
			map[string]any{
				"domain":     "example.com",
				"status":     "ACTIVE",
				"tld":        "com",
				"createDate": "2022-01-01 00:00:00",
				"expireDate": "2027-01-01 00:00:00",
			},
		},
	}))

	domains, err := newTestPorkbunProvider(t, srv.URL).ListDomains(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []domain.Domain{{
		Name:       "example.com",
		Status:     "ACTIVE",
		TLD:        "com",
		CreateDate: "2022-01-01 00:00:00",
		ExpireDate: "2027-01-01 00:00:00",
	}}
	if diff := cmp.Diff(want, domains); diff != "" {
		t.Errorf("ListDomains mismatch (-want +got):\n%s", diff)
	}
}

func TestPorkbun_ListRecords(t *testing.T) {
	srv := newPorkbunServer(t, "/dns/retrieve/example.com", porkbunSuccess(map[string]any{
		"records": []any{
			map[string]any{"id": "1", "name": "example.com", "type": "A", "content": "192.0.2.1", "ttl": "600", "prio": "0"},
			map[string]any{"id": "2", "name": "example.com", "type": "MX", "content": "mail.example.com", "ttl": "600", "prio": "10"},
			map[string]any{"id": "3", "name": "*.example.com", "type": "cname", "content": "example.com", "ttl": "", "prio": ""},
		},
	}))

	records, err := newTestPorkbunProvider(t, srv.URL).ListRecords(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []domain.Record{
		{ID: "1", ZoneName: "example.com", Name: "example.com", Type: domain.RecordTypeA, Content: "192.0.2.1", TTL: 600},
		{ID: "2", ZoneName: "example.com", Name: "example.com", Type: domain.RecordTypeMX, Content: "mail.example.com", TTL: 600, Priority: 10},
		{ID: "3", ZoneName: "example.com", Name: "*.example.com", Type: domain.RecordTypeCNAME, Content: "example.com"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("ListRecords mismatch (-want +got):\n%s", diff)
	}
}

func TestPorkbun_ErrorMapping(t *testing.T) {
	tests := []struct {
		message string
		want    error
	}{
		{"Invalid API key. (001)", domain.ErrUnauthorized},
		{"Invalid domain.", domain.ErrNotFound},
		{"Rate limit exceeded", domain.ErrRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			srv := newPorkbunServer(t, "/dns/retrieve/example.com", porkbunError(tt.message))
			_, err := newTestPorkbunProvider(t, srv.URL).ListRecords(context.Background(), "example.com")
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got: %v", tt.want, err)
			}
		})
	}
}

func TestPorkbun_UnknownErrorPassesThrough(t *testing.T) {
	srv := newPorkbunServer(t, "/domain/listAll", porkbunError("something odd"))
	_, err := newTestPorkbunProvider(t, srv.URL).ListDomains(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected an unmapped error, got: %v", err)
	}
}

func TestRegisterPorkbun_Credentials(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	RegisterPorkbun()

	tests := []struct {
		name    string
		tokens  map[string]string
		wantKey string
		wantErr bool
	}{
		{name: "combined token", tokens: map[string]string{"porkbun": " pk1_a : sk1_b "}, wantKey: "pk1_a"},
		{name: "separate keys", tokens: map[string]string{"porkbun-apikey": "pk", "porkbun-secretapikey": "sk"}, wantKey: "pk"},
		{name: "combined wins", tokens: map[string]string{"porkbun": "pk1:sk1", "porkbun-apikey": "pk2", "porkbun-secretapikey": "sk2"}, wantKey: "pk1"},
		{name: "malformed combined", tokens: map[string]string{"porkbun": "no-separator"}, wantErr: true},
		{name: "missing secret", tokens: map[string]string{"porkbun-apikey": "pk"}, wantErr: true},
		{name: "nothing stored", tokens: nil, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := auth.NewMockStore()
			for k, v := range tt.tokens {
				_ = store.SetToken(k, v)
			}
			p, err := Get("porkbun", store)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := p.(*PorkbunProvider).apiKey; got != tt.wantKey {
				t.Errorf("apiKey = %q, want %q", got, tt.wantKey)
			}
		})
	}
}

func TestPorkbun_ListDomains_Pages(t *testing.T) {
	var starts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Start string `json:"start"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		starts = append(starts, req.Start)

		n := porkbunPageSize
		if req.Start != "" {
			n = 2
		}
		domains := make([]any, n)
		for i := range domains {
			domains[i] = map[string]any{"domain": "d.com", "status": "ACTIVE"}
		}
		json.NewEncoder(w).Encode(porkbunSuccess(map[string]any{"domains": domains}))
	}))
	t.Cleanup(srv.Close)

	domains, err := newTestPorkbunProvider(t, srv.URL).ListDomains(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(domains) != porkbunPageSize+2 {
		t.Errorf("got %d domains, want %d", len(domains), porkbunPageSize+2)
	}
	if diff := cmp.Diff([]string{"", "1000"}, starts); diff != "" {
		t.Errorf("start offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestPorkbun_HTTPStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, domain.ErrRateLimited},
		{http.StatusForbidden, domain.ErrUnauthorized},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte("<html>nope</html>"))
		}))
		_, err := newTestPorkbunProvider(t, srv.URL).ListRecords(context.Background(), "example.com")
		srv.Close()
		if !errors.Is(err, tt.want) {
			t.Errorf("HTTP %d: expected %v, got %v", tt.status, tt.want, err)
		}
	}
}

func TestParseInt(t *testing.T) {
	tests := map[string]int{"": 0, "600": 600, " 10 ": 10, "abc": 0}
	for in, want := range tests {
		if got := parseInt(in); got != want {
			t.Errorf("parseInt(%q) = %d, want %d", in, got, want)
		}
	}
}
