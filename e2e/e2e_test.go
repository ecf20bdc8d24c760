package e2e_test

import (
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/testbed/clientcli"
)

var hitLine = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{6} - (.+)$`)

func newClient(t *testing.T, s *server, username, password string) *clientcli.Client {
	t.Helper()

	client, err := clientcli.New(&clientcli.Config{Endpoint: s.URL, Username: username, Password: password})
	require.NoError(t, err)
	return client
}

func hitMessages(s *server) []string {
	var msgs []string
	for _, line := range strings.Split(strings.TrimSpace(s.Hits()), "\n") {
		if m := hitLine.FindStringSubmatch(line); m != nil {
			msgs = append(msgs, m[1])
		}
	}
	return msgs
}

func TestE2E_Endpoints(t *testing.T) {
	s := startServer(t, ServerConfig{})
	ctx := t.Context()

	t.Run("login with default users", func(t *testing.T) {
		res, err := newClient(t, s, "admin", "password").Login(ctx)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.Status)
		assert.Equal(t, "Hello, admin!", res.Body)

		res, err = newClient(t, s, "user", "hunter1").Login(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Hello, user!", res.Body)

		res, err = newClient(t, s, "admin", "wrong").Login(ctx)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, res.Status)
	})

	client := newClient(t, s, "", "")

	t.Run("file", func(t *testing.T) {
		res, err := client.Get(ctx, clientcli.GetOptions{Path: "/file"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.Status)
		assert.Equal(t, "image/jpeg", res.ContentType)
		assert.Equal(t, int64(4), res.Size)

		res, err = client.Get(ctx, clientcli.GetOptions{Path: "/file/img/sand.jpg"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.Status)

		res, err = client.Get(ctx, clientcli.GetOptions{Path: "/file/../config.yaml"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.Status)

		res, err = client.Get(ctx, clientcli.GetOptions{Path: "/file/%2e%2e/config.yaml"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.Status)
	})

	t.Run("html", func(t *testing.T) {
		res, err := client.Get(ctx, clientcli.GetOptions{Path: "/html"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.Status)
		assert.Contains(t, res.ContentType, "text/html")
		assert.Contains(t, res.Body, "<html")
	})

	t.Run("failures", func(t *testing.T) {
		res, err := client.Fail500(ctx)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, res.Status)
		assert.Equal(t, "Server Error", res.Body)

		res, err = client.Fail(ctx, clientcli.FailOptions{Status: "418", Message: "teapot"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusTeapot, res.Status)
		assert.Equal(t, "teapot", res.Body)

		res, err = client.Fail(ctx, clientcli.FailOptions{Status: "abc", Message: "x"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, res.Status)
		assert.Equal(t, "Server Error", res.Body)
	})

	t.Run("test endpoint logs a hit", func(t *testing.T) {
		res, err := client.Ping(ctx)
		require.NoError(t, err)
		assert.Equal(t, "OK", res.Body)

		assert.Eventually(t, func() bool {
			for _, msg := range hitMessages(s) {
				if msg == "/test endpoint hit!" {
					return true
				}
			}
			return false
		}, waitHit, tick)
	})
}

func TestE2E_RateLimit(t *testing.T) {
	s := startServer(t, ServerConfig{RouteLimit: "10 per minute"})
	client := newClient(t, s, "", "")

	res, err := client.Burst(t.Context(), clientcli.BurstOptions{Path: "/rate_limit", Count: 12})
	require.NoError(t, err)
	assert.Equal(t, map[int]int{http.StatusOK: 10, http.StatusTooManyRequests: 2}, res.Statuses)
	assert.Equal(t, 11, res.FirstLimited)

	// Only requests that reached the handler are logged.
	assert.Eventually(t, func() bool {
		n := 0
		for _, msg := range hitMessages(s) {
			if msg == "HTTP Client: 127.0.0.1" {
				n++
			}
		}
		return n == 10
	}, waitHit, tick)

	// Other routes are only bound by the global limits.
	other, err := client.Get(t.Context(), clientcli.GetOptions{Path: "/html"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, other.Status)
}

func TestE2E_GlobalLimit(t *testing.T) {
	s := startServer(t, ServerConfig{Extra: "ratelimit:\n  default: [\"5 per hour\"]\n"})
	client := newClient(t, s, "", "")

	res, err := client.Burst(t.Context(), clientcli.BurstOptions{Path: "/fail500", Count: 7})
	require.NoError(t, err)
	assert.Equal(t, map[int]int{http.StatusInternalServerError: 5, http.StatusTooManyRequests: 2}, res.Statuses)
}
