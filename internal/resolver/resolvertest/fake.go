// Package resolvertest provides an in-memory resolver.Resolver for tests.
package resolvertest

import (
	"context"
	"strings"
	"sync"
	"time"

	"nathanbeddoewebdev/dnsweeper/internal/resolver"
)

// Fake answers lookups from static tables. A name that appears in no table
// and has no configured error is reported as NXDOMAIN; a name that appears in
// some table but not the one queried gets an empty answer.
type Fake struct {
	A     map[string][]string
	AAAA  map[string][]string
	CNAME map[string][]string

	// Errors is keyed by "<TYPE> <name>", e.g. "A www.example.com".
	Errors map[string]error

	// Delay is applied to every lookup to widen concurrency windows.
	Delay time.Duration

	mu          sync.Mutex
	calls       int
	inFlight    int
	maxInFlight int
}

func (f *Fake) LookupA(ctx context.Context, name string) ([]string, error) {
	return f.lookup(ctx, "A", name, f.A)
}

func (f *Fake) LookupAAAA(ctx context.Context, name string) ([]string, error) {
	return f.lookup(ctx, "AAAA", name, f.AAAA)
}

func (f *Fake) LookupCNAME(ctx context.Context, name string) ([]string, error) {
	return f.lookup(ctx, "CNAME", name, f.CNAME)
}

// Calls returns the number of lookups performed.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// MaxInFlight returns the highest number of concurrent lookups observed.
func (f *Fake) MaxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

func (f *Fake) lookup(ctx context.Context, typ, name string, table map[string][]string) ([]string, error) {
	name = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))

	f.mu.Lock()
	f.calls++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.Delay > 0 {
		timer := time.NewTimer(f.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, &resolver.LookupError{Name: name, Type: typ, Kind: resolver.KindTimeout, Err: ctx.Err()}
		case <-timer.C:
		}
	}

	if err, ok := f.Errors[typ+" "+name]; ok {
		return nil, err
	}
	if answers, ok := table[name]; ok {
		return append([]string{}, answers...), nil
	}
	if f.known(name) {
		return []string{}, nil
	}
	return nil, NotFound(name, typ)
}

func (f *Fake) known(name string) bool {
	for _, table := range []map[string][]string{f.A, f.AAAA, f.CNAME} {
		if _, ok := table[name]; ok {
			return true
		}
	}
	return false
}

// NotFound returns the error a real resolver gives for NXDOMAIN.
func NotFound(name, typ string) error {
	return &resolver.LookupError{Name: name, Type: typ, Kind: resolver.KindNotFound}
}

// Timeout returns the error a real resolver gives when no upstream answers.
func Timeout(name, typ string) error {
	return &resolver.LookupError{Name: name, Type: typ, Kind: resolver.KindTimeout, Err: context.DeadlineExceeded}
}
