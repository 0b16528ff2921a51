// Package cname follows CNAME chains and flags records whose chain loops or
// ends somewhere that does not resolve.
package cname

import (
	"context"

	"github.com/go-logr/logr"

	"nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
	dnsdomain "nathanbeddoewebdev/dnsweeper/internal/dns/domain"
	"nathanbeddoewebdev/dnsweeper/internal/resolver"
	"nathanbeddoewebdev/dnsweeper/internal/util"
)

const DefaultMaxHops = 5

const (
	ReasonCycle        = "CNAME cycle"
	ReasonUnresolvable = "CNAME target unresolvable"
)

// Walker runs the broken-CNAME check.
type Walker struct {
	resolver resolver.Resolver
	maxHops  int
	log      logr.Logger
}

type Option func(*Walker)

func WithMaxHops(n int) Option {
	return func(w *Walker) {
		if n > 0 {
			w.maxHops = n
		}
	}
}

func WithLogger(log logr.Logger) Option {
	return func(w *Walker) {
		w.log = log
	}
}

func New(r resolver.Resolver, opts ...Option) *Walker {
	w := &Walker{resolver: r, maxHops: DefaultMaxHops, log: logr.Discard()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// CheckBrokenCNAME walks the chain starting at rec.Content. Records other
// than CNAME always come back clean.
func (w *Walker) CheckBrokenCNAME(ctx context.Context, rec dnsdomain.Record) (domain.CheckVerdict, error) {
	if rec.Type != dnsdomain.RecordTypeCNAME {
		return domain.Clean(), nil
	}
	log := w.log.WithValues("record", rec.Name)

	target := util.NormalizeHost(rec.Content)
	current := target
	visited := make(map[string]struct{}, w.maxHops)
	hops := 0

	for hops < w.maxHops {
		if _, seen := visited[current]; seen {
			log.V(1).Info("CNAME cycle", "at", current, "hops", hops)
			return domain.Garbage(ReasonCycle, 1.0, map[string]any{
				"target":  target,
				"cycleAt": current,
				"hops":    hops,
			}), nil
		}
		visited[current] = struct{}{}

		next, err := w.resolver.LookupCNAME(ctx, current)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return domain.CheckVerdict{}, ctxErr
			}
			break
		}
		if len(next) == 0 {
			break
		}
		current = util.NormalizeHost(next[0])
		hops++
	}
	hopLimitReached := hops >= w.maxHops

	addrs, err := w.resolver.LookupA(ctx, current)
	if err == nil && len(addrs) > 0 {
		log.V(1).Info("CNAME chain resolves", "finalTarget", current, "hops", hops)
		return domain.Clean(), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.CheckVerdict{}, ctxErr
	}

	details := map[string]any{
		"target":      target,
		"finalTarget": current,
		"hops":        hops,
	}
	if err != nil {
		details["lastError"] = err.Error()
	}
	if hopLimitReached {
		details["hopLimitReached"] = true
	}
	log.V(1).Info("CNAME target unresolvable", "finalTarget", current, "hops", hops)
	return domain.Garbage(ReasonUnresolvable, 0.95, details), nil
}
