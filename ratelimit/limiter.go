package ratelimit

import (
	"net"
	"net/http"

	"github.com/go-chi/httprate"
)

// Option configures a Limiter.
type Option func(*options)

type options struct {
	limitHandler http.HandlerFunc
	keyFunc      httprate.KeyFunc
}

// WithLimitHandler sets the handler that writes the response once a client
// is over a limit. The default writes a plain text 429.
func WithLimitHandler(h http.HandlerFunc) Option {
	return func(o *options) {
		o.limitHandler = h
	}
}

// WithKeyFunc sets how clients are identified. The default is KeyByRemoteHost.
func WithKeyFunc(fn httprate.KeyFunc) Option {
	return func(o *options) {
		o.keyFunc = fn
	}
}

// Limiter enforces a set of policies. A request passes only when every policy
// allows it. A Limiter with no policies passes everything through.
type Limiter struct {
	policies []Policy
	limiters []*httprate.RateLimiter
}

// New creates a Limiter with independent counters for each policy.
func New(policies []Policy, opts ...Option) *Limiter {
	o := &options{keyFunc: KeyByRemoteHost}
	for _, opt := range opts {
		opt(o)
	}

	l := &Limiter{policies: append([]Policy(nil), policies...)}
	for _, p := range policies {
		rateOpts := []httprate.Option{httprate.WithKeyFuncs(o.keyFunc)}
		if o.limitHandler != nil {
			rateOpts = append(rateOpts, httprate.WithLimitHandler(o.limitHandler))
		}
		l.limiters = append(l.limiters, httprate.NewRateLimiter(p.Limit, p.Window, rateOpts...))
	}

	return l
}

// Policies returns the policies enforced by l.
func (l *Limiter) Policies() []Policy {
	return append([]Policy(nil), l.policies...)
}

// Handler wraps next so that each policy is checked in order before it runs.
func (l *Limiter) Handler(next http.Handler) http.Handler {
	for i := len(l.limiters) - 1; i >= 0; i-- {
		next = l.limiters[i].Handler(next)
	}
	return next
}

// KeyByRemoteHost keys requests by the exact host of r.RemoteAddr. Unlike
// httprate.KeyByIP it does not fold IPv6 addresses into their /64, so every
// address gets its own counter. A RemoteAddr without a port, as left by
// middleware.RealIP, is used as is.
func KeyByRemoteHost(r *http.Request) (string, error) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr, nil
	}
	return host, nil
}
