package testbed_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/testbed"
)

func TestParseFailureRequest(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    testbed.FailureRequest
		wantErr bool
	}{
		{
			name:  "status and message",
			query: "error=404&msg=notfound",
			want:  testbed.FailureRequest{Status: 404, Message: "notfound"},
		},
		{
			name:  "success status is allowed",
			query: "error=200&msg=fine",
			want:  testbed.FailureRequest{Status: 200, Message: "fine"},
		},
		{
			name:  "upper bound",
			query: "error=599&msg=x",
			want:  testbed.FailureRequest{Status: 599, Message: "x"},
		},
		{
			name:  "surrounding spaces are trimmed",
			query: "error=%20503%20&msg=busy",
			want:  testbed.FailureRequest{Status: 503, Message: "busy"},
		},
		{
			name:  "empty message kept",
			query: "error=418&msg=",
			want:  testbed.FailureRequest{Status: 418, Message: ""},
		},
		{
			name:  "missing message",
			query: "error=502",
			want:  testbed.FailureRequest{Status: 502, Message: testbed.MissingMessage},
		},
		{
			name:  "message with spaces and markup",
			query: "error=400&msg=bad+%3Cinput%3E",
			want:  testbed.FailureRequest{Status: 400, Message: "bad <input>"},
		},
		{name: "no parameters", query: "", wantErr: true},
		{name: "missing status", query: "msg=x", wantErr: true},
		{name: "empty status", query: "error=&msg=x", wantErr: true},
		{name: "non numeric status", query: "error=notanumber&msg=x", wantErr: true},
		{name: "float status", query: "error=404.0&msg=x", wantErr: true},
		{name: "informational status", query: "error=100&msg=x", wantErr: true},
		{name: "below range", query: "error=42&msg=x", wantErr: true},
		{name: "above range", query: "error=600&msg=x", wantErr: true},
		{name: "negative status", query: "error=-500&msg=x", wantErr: true},
		{name: "overflowing status", query: "error=99999999999999999999&msg=x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := testbed.ParseFailureRequest(q)
			if tt.wantErr {
				require.ErrorIs(t, err, testbed.ErrInvalidFailureRequest)
				assert.Equal(t, testbed.FailureRequest{}, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
