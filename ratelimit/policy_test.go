package ratelimit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/testbed"
	"github.com/sagarc03/testbed/ratelimit"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want ratelimit.Policy
	}{
		{in: "10 per minute", want: ratelimit.Policy{Limit: 10, Window: time.Minute}},
		{in: "2000 per day", want: ratelimit.Policy{Limit: 2000, Window: 24 * time.Hour}},
		{in: "2000 per hour", want: ratelimit.Policy{Limit: 2000, Window: time.Hour}},
		{in: "1 per second", want: ratelimit.Policy{Limit: 1, Window: time.Second}},
		{in: "5 per 10 minutes", want: ratelimit.Policy{Limit: 5, Window: 10 * time.Minute}},
		{in: "100/hour", want: ratelimit.Policy{Limit: 100, Window: time.Hour}},
		{in: "100 / hours", want: ratelimit.Policy{Limit: 100, Window: time.Hour}},
		{in: "  3   PER   Day ", want: ratelimit.Policy{Limit: 3, Window: 24 * time.Hour}},
		{in: "7 per month", want: ratelimit.Policy{Limit: 7, Window: 30 * 24 * time.Hour}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ratelimit.ParsePolicy(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePolicy_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"minute",
		"10",
		"10 per",
		"ten per minute",
		"10 per fortnight",
		"0 per minute",
		"-1 per minute",
		"5 per 0 minutes",
		"10 perminute",
		"99999999999999999999 per day",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ratelimit.ParsePolicy(in)
			assert.ErrorIs(t, err, testbed.ErrInvalidInput)
		})
	}
}

func TestParsePolicies(t *testing.T) {
	got, err := ratelimit.ParsePolicies([]string{"2000 per day", "2000 per hour; 100 per minute", ""})
	require.NoError(t, err)

	assert.Equal(t, []ratelimit.Policy{
		{Limit: 2000, Window: 24 * time.Hour},
		{Limit: 2000, Window: time.Hour},
		{Limit: 100, Window: time.Minute},
	}, got)
}

func TestParsePolicies_Empty(t *testing.T) {
	got, err := ratelimit.ParsePolicies(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParsePolicies_Invalid(t *testing.T) {
	_, err := ratelimit.ParsePolicies([]string{"10 per minute, lots per hour"})
	assert.ErrorIs(t, err, testbed.ErrInvalidInput)
}
