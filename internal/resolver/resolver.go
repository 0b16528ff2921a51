// Package resolver performs forward DNS lookups against public recursive
// resolvers. It deliberately bypasses the host's stub resolver so that results
// reflect the public view of a zone rather than local overrides.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/miekg/dns"
)

// DefaultUpstreams are queried in order until one answers.
var DefaultUpstreams = []string{"8.8.8.8:53", "1.1.1.1:53"}

const DefaultTimeout = 5 * time.Second

// Resolver is the lookup surface the analysis checks depend on. Every method
// returns an empty slice and nil error when the name exists but carries no
// records of the requested type.
type Resolver interface {
	LookupA(ctx context.Context, name string) ([]string, error)
	LookupAAAA(ctx context.Context, name string) ([]string, error)
	LookupCNAME(ctx context.Context, name string) ([]string, error)
}

// DNSClient is a Resolver backed by github.com/miekg/dns.
type DNSClient struct {
	client    *dns.Client
	upstreams []string
	log       logr.Logger
}

// Option configures a DNSClient.
type Option func(*DNSClient)

// WithUpstreams overrides the upstream servers. Entries without a port get :53.
func WithUpstreams(servers ...string) Option {
	return func(c *DNSClient) {
		var out []string
		for _, s := range servers {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if _, _, err := net.SplitHostPort(s); err != nil {
				s = net.JoinHostPort(s, "53")
			}
			out = append(out, s)
		}
		if len(out) > 0 {
			c.upstreams = out
		}
	}
}

// WithTimeout sets the per-query timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *DNSClient) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

func WithLogger(log logr.Logger) Option {
	return func(c *DNSClient) {
		c.log = log
	}
}

// New returns a DNSClient using UDP against DefaultUpstreams.
func New(opts ...Option) *DNSClient {
	c := &DNSClient{
		client:    &dns.Client{Net: "udp", Timeout: DefaultTimeout},
		upstreams: append([]string(nil), DefaultUpstreams...),
		log:       logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upstreams returns the servers queried, in order.
func (c *DNSClient) Upstreams() []string {
	return append([]string(nil), c.upstreams...)
}

func (c *DNSClient) LookupA(ctx context.Context, name string) ([]string, error) {
	return c.lookup(ctx, name, dns.TypeA)
}

func (c *DNSClient) LookupAAAA(ctx context.Context, name string) ([]string, error) {
	return c.lookup(ctx, name, dns.TypeAAAA)
}

func (c *DNSClient) LookupCNAME(ctx context.Context, name string) ([]string, error) {
	return c.lookup(ctx, name, dns.TypeCNAME)
}

func (c *DNSClient) lookup(ctx context.Context, name string, qtype uint16) ([]string, error) {
	typeName := dns.TypeToString[qtype]
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &LookupError{Name: name, Type: typeName, Kind: KindOther, Err: errors.New("empty name")}
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.RecursionDesired = true

	var lastErr *LookupError
	for _, server := range c.upstreams {
		if err := ctx.Err(); err != nil {
			return nil, &LookupError{Name: name, Type: typeName, Kind: classify(err), Err: err}
		}

		r, _, err := c.client.ExchangeContext(ctx, m, server)
		if err != nil {
			c.log.V(2).Info("upstream exchange failed", "server", server, "name", name, "type", typeName, "error", err.Error())
			lastErr = &LookupError{Name: name, Type: typeName, Kind: classify(err), Err: err}
			continue
		}

		switch r.Rcode {
		case dns.RcodeSuccess:
			return extract(r.Answer, qtype), nil
		case dns.RcodeNameError:
			return nil, &LookupError{Name: name, Type: typeName, Kind: KindNotFound}
		default:
			lastErr = &LookupError{
				Name: name,
				Type: typeName,
				Kind: KindOther,
				Err:  fmt.Errorf("%s from %s", dns.RcodeToString[r.Rcode], server),
			}
		}
	}

	if lastErr == nil {
		lastErr = &LookupError{Name: name, Type: typeName, Kind: KindOther, Err: errors.New("no upstream servers configured")}
	}
	return nil, lastErr
}

func extract(answer []dns.RR, qtype uint16) []string {
	out := make([]string, 0, len(answer))
	for _, rr := range answer {
		switch v := rr.(type) {
		case *dns.A:
			if qtype == dns.TypeA {
				out = append(out, v.A.String())
			}
		case *dns.AAAA:
			if qtype == dns.TypeAAAA {
				out = append(out, v.AAAA.String())
			}
		case *dns.CNAME:
			if qtype == dns.TypeCNAME {
				out = append(out, strings.ToLower(strings.TrimSuffix(v.Target, ".")))
			}
		}
	}
	return out
}

func classify(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindOther
}
