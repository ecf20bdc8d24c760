// Package ratelimit turns rate-limit policies such as "10 per minute" into
// per-client HTTP middleware.
//
// Counting is delegated to github.com/go-chi/httprate, which keeps one sliding
// window counter per policy and client IP in process memory. Nothing is
// persisted; a restart resets every counter.
package ratelimit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sagarc03/testbed"
)

// Policy allows Limit requests per Window for each client.
type Policy struct {
	Limit  int
	Window time.Duration
}

func (p Policy) String() string {
	return fmt.Sprintf("%d per %s", p.Limit, p.Window)
}

var granularities = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"month":  30 * 24 * time.Hour,
	"year":   12 * 30 * 24 * time.Hour,
}

// <count> per|/ [<multiplier>] <granularity>[s]
var policyPattern = regexp.MustCompile(`^(\d+)\s*(?:per\s+|/\s*)(\d+\s+)?(second|minute|hour|day|month|year)s?$`)

// ParsePolicy parses a single policy string. Accepted forms include
// "10 per minute", "2000 per day", "5 per 10 minutes" and "100/hour".
func ParsePolicy(s string) (Policy, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(s), " "))

	m := policyPattern.FindStringSubmatch(normalized)
	if m == nil {
		return Policy{}, fmt.Errorf("rate limit %q: %w", s, testbed.ErrInvalidInput)
	}

	limit, err := strconv.Atoi(m[1])
	if err != nil || limit < 1 {
		return Policy{}, fmt.Errorf("rate limit %q: count must be positive: %w", s, testbed.ErrInvalidInput)
	}

	multiplier := 1
	if m[2] != "" {
		multiplier, err = strconv.Atoi(strings.TrimSpace(m[2]))
		if err != nil || multiplier < 1 {
			return Policy{}, fmt.Errorf("rate limit %q: period must be positive: %w", s, testbed.ErrInvalidInput)
		}
	}

	return Policy{
		Limit:  limit,
		Window: time.Duration(multiplier) * granularities[m[3]],
	}, nil
}

// ParsePolicies parses a list of policy strings. Each entry may hold several
// policies separated by ";" or ",". Empty entries are ignored.
func ParsePolicies(specs []string) ([]Policy, error) {
	var policies []Policy
	for _, spec := range specs {
		for _, part := range strings.FieldsFunc(spec, func(r rune) bool { return r == ';' || r == ',' }) {
			if strings.TrimSpace(part) == "" {
				continue
			}
			p, err := ParsePolicy(part)
			if err != nil {
				return nil, err
			}
			policies = append(policies, p)
		}
	}
	return policies, nil
}
