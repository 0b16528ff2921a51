package scanstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	adomain "nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
	dnsdomain "nathanbeddoewebdev/dnsweeper/internal/dns/domain"
	"nathanbeddoewebdev/dnsweeper/internal/domain"
)

var baseTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func tempRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dnsweeper.db")
	r, err := OpenAt(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	r.now = func() time.Time { return baseTime }
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func sampleResult(domainName string, at time.Time) *adomain.Result {
	ev := adomain.RecordEvaluation{
		Record:         dnsdomain.Record{ID: "r1", Name: "test." + domainName, Type: dnsdomain.RecordTypeA, Content: "192.0.2.1"},
		IsGarbage:      true,
		Reason:         "NXDOMAIN",
		Confidence:     0.95,
		CheckResults:   []adomain.CheckVerdict{adomain.Garbage("NXDOMAIN", 0.95, nil)},
		Recommendation: adomain.RecommendationSafeToDelete,
	}
	return &adomain.Result{
		Domain:   domainName,
		ScanDate: at,
		Summary: adomain.Summary{
			TotalRecords:      3,
			GarbageCount:      1,
			SafeToDeleteCount: 1,
		},
		Results:                 []adomain.RecordEvaluation{ev},
		EstimatedMonthlySavings: 0.01,
		ExportData:              []adomain.ExportRow{adomain.RowFor(ev)},
	}
}

func save(t *testing.T, r *SQLiteRepository, domainName string, at time.Time) *Scan {
	t.Helper()
	scan := NewScan("cloudflare", sampleResult(domainName, at), 1500*time.Millisecond)
	if err := r.Save(context.Background(), scan); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return scan
}

func TestSave_AndGet(t *testing.T) {
	r := tempRepo(t)
	scan := save(t, r, "example.com", baseTime)

	got, err := r.Get(context.Background(), scan.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if diff := cmp.Diff(scan, got); diff != "" {
		t.Errorf("scan mismatch (-want +got):\n%s", diff)
	}
	if got.DurationMs != 1500 {
		t.Errorf("DurationMs = %d, want 1500", got.DurationMs)
	}
}

func TestSave_RequiresResult(t *testing.T) {
	r := tempRepo(t)
	if err := r.Save(context.Background(), &Scan{Domain: "example.com"}); err == nil {
		t.Fatal("expected error for scan without result")
	}
}

func TestGet_ByPrefix(t *testing.T) {
	r := tempRepo(t)
	scan := save(t, r, "example.com", baseTime)

	got, err := r.Get(context.Background(), scan.ShortID())
	if err != nil {
		t.Fatalf("Get by prefix failed: %v", err)
	}
	if got.ID != scan.ID {
		t.Errorf("ID = %q, want %q", got.ID, scan.ID)
	}
}

func TestGet_AmbiguousPrefix(t *testing.T) {
	r := tempRepo(t)
	for _, id := range []string{"abcd0001", "abcd0002"} {
		scan := NewScan("cloudflare", sampleResult("example.com", baseTime), 0)
		scan.ID = id
		if err := r.Save(context.Background(), scan); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	_, err := r.Get(context.Background(), "abcd")
	if !errors.Is(err, ErrAmbiguous) || !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want ErrAmbiguous", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	r := tempRepo(t)
	for _, id := range []string{"", "ab", "does-not-exist"} {
		_, err := r.Get(context.Background(), id)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Get(%q) err = %v, want ErrNotFound", id, err)
		}
	}
}

func TestList_NewestFirst(t *testing.T) {
	r := tempRepo(t)
	for i := range 3 {
		save(t, r, "example.com", baseTime.Add(time.Duration(i)*time.Minute))
	}

	scans, err := r.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(scans) != 2 {
		t.Fatalf("expected 2 scans, got %d", len(scans))
	}
	if !scans[0].ScanDate.After(scans[1].ScanDate) {
		t.Error("expected scans sorted by scan date descending")
	}
	if scans[0].Result != nil {
		t.Error("expected listings to omit the full result")
	}

	all, err := r.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List(0) returned %d scans, want 3", len(all))
	}
}

func TestList_SortsSubsecondTimes(t *testing.T) {
	r := tempRepo(t)
	save(t, r, "example.com", baseTime)
	later := save(t, r, "example.com", baseTime.Add(500*time.Millisecond))

	scans, err := r.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if scans[0].ID != later.ID {
		t.Errorf("newest scan = %s, want %s", scans[0].ID, later.ID)
	}
}

func TestListByDomain(t *testing.T) {
	r := tempRepo(t)
	save(t, r, "example.com", baseTime)
	save(t, r, "example.org", baseTime)
	save(t, r, "example.com", baseTime.Add(time.Hour))

	scans, err := r.ListByDomain(context.Background(), "example.com", 10)
	if err != nil {
		t.Fatalf("ListByDomain failed: %v", err)
	}
	if len(scans) != 2 {
		t.Fatalf("expected 2 scans, got %d", len(scans))
	}
	for _, s := range scans {
		if s.Domain != "example.com" {
			t.Errorf("unexpected domain %q", s.Domain)
		}
	}
}

func TestLatest(t *testing.T) {
	r := tempRepo(t)
	save(t, r, "example.com", baseTime)
	newest := save(t, r, "example.com", baseTime.Add(time.Hour))

	got, err := r.Latest(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got.ID != newest.ID {
		t.Errorf("Latest ID = %s, want %s", got.ID, newest.ID)
	}
	if got.Result == nil || got.Result.Domain != "example.com" {
		t.Errorf("expected Latest to include the result, got %+v", got.Result)
	}

	if _, err := r.Latest(context.Background(), "missing.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest(missing) err = %v, want ErrNotFound", err)
	}
}

func TestSave_NormalisesDomain(t *testing.T) {
	r := tempRepo(t)
	save(t, r, "Example.COM.", baseTime)
	second := save(t, r, "example.com", baseTime.Add(time.Minute))

	got, err := r.Latest(context.Background(), "EXAMPLE.com")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got.ID != second.ID {
		t.Errorf("Latest ID = %s, want %s", got.ID, second.ID)
	}

	scans, err := r.ListByDomain(context.Background(), "example.com.", 0)
	if err != nil {
		t.Fatalf("ListByDomain failed: %v", err)
	}
	if len(scans) != 2 {
		t.Errorf("ListByDomain returned %d scans, want 2", len(scans))
	}

	domains, err := r.Domains(context.Background())
	if err != nil {
		t.Fatalf("Domains failed: %v", err)
	}
	if len(domains) != 1 || domains[0].Name != "example.com" {
		t.Errorf("Domains = %+v, want a single example.com entry", domains)
	}
}

func TestDomains(t *testing.T) {
	r := tempRepo(t)
	save(t, r, "example.com", baseTime.Add(time.Hour))
	save(t, r, "example.com", baseTime)
	save(t, r, "example.org", baseTime.Add(30*time.Minute))

	got, err := r.Domains(context.Background())
	if err != nil {
		t.Fatalf("Domains failed: %v", err)
	}

	want := []DomainEntry{
		{Name: "example.com", Provider: "cloudflare", LastScan: baseTime.Add(time.Hour), ScanCount: 2},
		{Name: "example.org", Provider: "cloudflare", LastScan: baseTime.Add(30 * time.Minute), ScanCount: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("domains mismatch (-want +got):\n%s", diff)
	}
}

func TestPrune(t *testing.T) {
	r := tempRepo(t)
	save(t, r, "old.com", baseTime.Add(-48*time.Hour))
	save(t, r, "example.com", baseTime.Add(-72*time.Hour))
	recent := save(t, r, "example.com", baseTime.Add(-time.Hour))

	n, err := r.Prune(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 pruned, got %d", n)
	}

	scans, err := r.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(scans) != 1 || scans[0].ID != recent.ID {
		t.Errorf("remaining scans = %+v, want only %s", scans, recent.ID)
	}

	domains, err := r.Domains(context.Background())
	if err != nil {
		t.Fatalf("Domains failed: %v", err)
	}
	if len(domains) != 1 || domains[0].Name != "example.com" {
		t.Errorf("remaining domains = %+v, want only example.com", domains)
	}
}
