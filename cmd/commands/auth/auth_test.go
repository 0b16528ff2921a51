package auth

import (
	"bytes"
	"strings"
	"testing"

	"nathanbeddoewebdev/dnsweeper/internal/auth"
	"nathanbeddoewebdev/dnsweeper/internal/dns/domain"
	dnsproviders "nathanbeddoewebdev/dnsweeper/internal/dns/providers"
)

func setup(t *testing.T, providers ...string) *auth.MockStore {
	t.Helper()

	dnsproviders.Reset()
	t.Cleanup(dnsproviders.Reset)
	for _, name := range providers {
		dnsproviders.Register(name, func(auth.Store) (domain.Provider, error) { return nil, nil })
	}

	store := auth.NewMockStore()
	prev := newStore
	newStore = func() auth.Store { return store }
	t.Cleanup(func() { newStore = prev })
	return store
}

func run(t *testing.T, args ...string) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	_ = cmd.Execute()
	return out.String(), errOut.String()
}

func TestLogin_WithTokenFlag(t *testing.T) {
	store := setup(t, "cloudflare")

	stdout, stderr := run(t, "login", "Cloudflare", "--token", "  cf-token  ")

	if stderr != "" {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "Saved token for provider cloudflare") {
		t.Errorf("unexpected stdout: %s", stdout)
	}
	got, err := store.GetToken("cloudflare")
	if err != nil || got != "cf-token" {
		t.Errorf("stored token = %q, %v; want cf-token", got, err)
	}
}

func TestLogin_UnknownProvider(t *testing.T) {
	store := setup(t, "cloudflare")

	_, stderr := run(t, "login", "route53", "--token", "x")

	if !strings.Contains(stderr, "unknown provider") {
		t.Errorf("expected unknown provider error, got: %s", stderr)
	}
	if _, err := store.GetToken("route53"); err == nil {
		t.Error("expected no token stored for unknown provider")
	}
}

func TestStatus(t *testing.T) {
	store := setup(t, "cloudflare", "porkbun")
	if err := store.SetToken("porkbun", "pk:sk"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	stdout, _ := run(t, "status")

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got:\n%s", stdout)
	}
	if !strings.Contains(lines[1], "cloudflare") || !strings.Contains(lines[1], "not logged in") {
		t.Errorf("unexpected cloudflare row: %q", lines[1])
	}
	if !strings.Contains(lines[1], "CLOUDFLARE_API_TOKEN") {
		t.Errorf("expected env var hint in cloudflare row: %q", lines[1])
	}
	if !strings.Contains(lines[2], "porkbun") || strings.Contains(lines[2], "not logged in") {
		t.Errorf("unexpected porkbun row: %q", lines[2])
	}
}

func TestLogout(t *testing.T) {
	store := setup(t, "cloudflare")
	if err := store.SetToken("cloudflare", "tok"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	stdout, stderr := run(t, "logout", "Cloudflare")
	if stderr != "" {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "Removed token for provider cloudflare") {
		t.Errorf("unexpected stdout: %s", stdout)
	}
	if _, err := store.GetToken("cloudflare"); err == nil {
		t.Error("expected token to be removed")
	}

	stdout, _ = run(t, "logout", "cloudflare")
	if !strings.Contains(stdout, "No stored token") {
		t.Errorf("expected no-token message on second logout, got: %s", stdout)
	}
}
