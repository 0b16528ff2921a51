// Package probe decides whether an address record still points at something
// that answers.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-logr/logr"

	"nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
	dnsdomain "nathanbeddoewebdev/dnsweeper/internal/dns/domain"
	"nathanbeddoewebdev/dnsweeper/internal/resolver"
)

const (
	DefaultHTTPTimeout = 5 * time.Second
	DefaultTCPTimeout  = 2 * time.Second
)

// DefaultTCPPorts are tried in order when no HTTP endpoint answers.
var DefaultTCPPorts = []int{22, 3306, 5432}

const (
	ReasonNXDOMAIN       = "NXDOMAIN"
	ReasonNoAddress      = "DNS resolution failed"
	ReasonNoResponse     = "no response on any protocol"
	confidenceNXDOMAIN   = 0.95
	confidenceNoAddress  = 0.9
	confidenceNoResponse = 0.8
)

// DialFunc opens a network connection.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Prober runs the liveness check for A and AAAA records.
type Prober struct {
	resolver    resolver.Resolver
	client      *http.Client
	dial        DialFunc
	httpTimeout time.Duration
	tcpTimeout  time.Duration
	tcpPorts    []int
	log         logr.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithHTTPClient replaces the client used for HEAD probes.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Prober) {
		if c != nil {
			p.client = c
		}
	}
}

// WithDialer replaces the dialer used for TCP probes.
func WithDialer(dial DialFunc) Option {
	return func(p *Prober) {
		if dial != nil {
			p.dial = dial
		}
	}
}

func WithHTTPTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.httpTimeout = d
		}
	}
}

func WithTCPTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.tcpTimeout = d
		}
	}
}

func WithTCPPorts(ports ...int) Option {
	return func(p *Prober) {
		p.tcpPorts = append([]int(nil), ports...)
	}
}

func WithLogger(log logr.Logger) Option {
	return func(p *Prober) {
		p.log = log
	}
}

// New returns a Prober that resolves names through r.
func New(r resolver.Resolver, opts ...Option) *Prober {
	var d net.Dialer
	p := &Prober{
		resolver:    r,
		client:      &http.Client{},
		dial:        d.DialContext,
		httpTimeout: DefaultHTTPTimeout,
		tcpTimeout:  DefaultTCPTimeout,
		tcpPorts:    append([]int(nil), DefaultTCPPorts...),
		log:         logr.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckDead reports whether rec looks like a dead subdomain. Records other
// than A and AAAA always come back clean. Probe failures are part of the
// verdict; the returned error is only set when ctx is done.
func (p *Prober) CheckDead(ctx context.Context, rec dnsdomain.Record) (domain.CheckVerdict, error) {
	if !rec.Type.IsAddress() {
		return domain.Clean(), nil
	}
	log := p.log.WithValues("record", rec.Name, "type", rec.Type)

	var lastErr error

	var addrs []string
	var err error
	if rec.Type == dnsdomain.RecordTypeA {
		addrs, err = p.resolver.LookupA(ctx, rec.Name)
	} else {
		addrs, err = p.resolver.LookupAAAA(ctx, rec.Name)
	}
	switch {
	case resolver.IsNotFound(err):
		log.V(1).Info("name does not exist")
		return domain.Garbage(ReasonNXDOMAIN, confidenceNXDOMAIN, nil), nil
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.CheckVerdict{}, ctxErr
		}
		log.V(1).Info("forward lookup failed, probing anyway", "error", err.Error())
		lastErr = err
	case len(addrs) == 0:
		log.V(1).Info("name resolved to no addresses")
		return domain.Garbage(ReasonNoAddress, confidenceNoAddress, nil), nil
	}

	if err = p.ProbeHTTP(ctx, rec.Name); err == nil {
		log.V(1).Info("alive over HTTP")
		return domain.Clean(), nil
	}
	lastErr = err

	if rec.Type == dnsdomain.RecordTypeA {
		if port, err := p.ProbeTCP(ctx, rec.Content); err == nil {
			log.V(1).Info("alive over TCP", "port", port)
			return domain.Clean(), nil
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.CheckVerdict{}, ctxErr
	}

	details := map[string]any{}
	if lastErr != nil {
		details["lastError"] = lastErr.Error()
	}
	log.V(1).Info("no response on any protocol", "lastError", details["lastError"])
	return domain.Garbage(ReasonNoResponse, confidenceNoResponse, details), nil
}

// ProbeHTTP sends a HEAD request over HTTPS then HTTP and returns nil on the
// first answer that counts as alive. The returned error describes the last
// failure.
func (p *Prober) ProbeHTTP(ctx context.Context, host string) error {
	var lastErr error
	for _, scheme := range []string{"https", "http"} {
		err := p.head(ctx, scheme+"://"+host)
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return lastErr
}

func (p *Prober) head(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, p.httpTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if Alive(resp.StatusCode) {
		return nil
	}
	return fmt.Errorf("HEAD %s: unexpected status %d", url, resp.StatusCode)
}

// Alive reports whether an HTTP status means something is serving the name.
func Alive(status int) bool {
	return (status >= 200 && status < 400) || status == http.StatusUnauthorized || status == http.StatusForbidden
}

// ProbeTCP tries each configured port on host in order and returns the
// first one that accepts a connection.
func (p *Prober) ProbeTCP(ctx context.Context, host string) (int, error) {
	if len(p.tcpPorts) == 0 {
		return 0, errors.New("no TCP ports configured")
	}

	var lastErr error
	for _, port := range p.tcpPorts {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := p.connect(ctx, host, port); err != nil {
			lastErr = err
			continue
		}
		return port, nil
	}
	return 0, lastErr
}

func (p *Prober) connect(ctx context.Context, host string, port int) error {
	ctx, cancel := context.WithTimeout(ctx, p.tcpTimeout)
	defer cancel()

	conn, err := p.dial(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return err
	}
	return conn.Close()
}
