package http_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sagarc03/testbed"
	"github.com/sagarc03/testbed/filesystem"
	testbedhttp "github.com/sagarc03/testbed/http"
	"github.com/sagarc03/testbed/keybackend"
	"github.com/sagarc03/testbed/ratelimit"
)

// sandJPEG is a stand-in for the default asset; only the extension matters for
// the content type.
var sandJPEG = []byte{0xff, 0xd8, 0xff, 0xe0, 's', 'a', 'n', 'd', 0xff, 0xd9}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testServer struct {
	handler *testbedhttp.Handler
	router  http.Handler
	hits    *syncBuffer
	static  string
}

type serverOption func(*testbedhttp.HandlerConfig, *testbedhttp.Services)

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	static := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(static, "img"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(static, "img", "sand.jpg"), sandJPEG, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "hello.txt"), []byte("hello"), 0o644))

	root, err := os.OpenRoot(static)
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })

	users, err := keybackend.NewCredentialStore(keybackend.UsersConfig{
		Inline:   keybackend.DefaultUsers(),
		HashCost: bcrypt.MinCost,
	})
	require.NoError(t, err)

	renderer, err := testbedhttp.NewRenderer(testbedhttp.DefaultTemplates())
	require.NoError(t, err)

	hits := &syncBuffer{}

	global, err := ratelimit.ParsePolicies([]string{"2000 per day", "2000 per hour"})
	require.NoError(t, err)
	route, err := ratelimit.ParsePolicies([]string{"10 per minute"})
	require.NoError(t, err)

	cfg := testbedhttp.HandlerConfig{
		DefaultAsset:  "img/sand.jpg",
		GlobalLimiter: ratelimit.New(global, ratelimit.WithLimitHandler(testbedhttp.HandleRateLimited)),
		RouteLimiter:  ratelimit.New(route, ratelimit.WithLimitHandler(testbedhttp.HandleRateLimited)),
	}
	services := testbedhttp.Services{
		Users:     users,
		Assets:    filesystem.NewAssetStore(root),
		Templates: renderer,
		Hits:      testbed.NewHitLog(hits, nil),
	}
	for _, opt := range opts {
		opt(&cfg, &services)
	}

	h := testbedhttp.NewHandler(&cfg, services)
	return &testServer{handler: h, router: h.Router(), hits: hits, static: static}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) get(target string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, target, nil))
}

// MockAssetStore is a mock implementation of http.AssetStore
type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) Open(ctx context.Context, name string) (testbed.Asset, io.ReadSeekCloser, error) {
	args := m.Called(ctx, name)
	if args.Get(1) == nil {
		return args.Get(0).(testbed.Asset), nil, args.Error(2)
	}
	return args.Get(0).(testbed.Asset), args.Get(1).(io.ReadSeekCloser), args.Error(2)
}

// MockHitLogger is a mock implementation of http.HitLogger
type MockHitLogger struct {
	mock.Mock
}

func (m *MockHitLogger) Hit(msg string) error {
	args := m.Called(msg)
	return args.Error(0)
}

// readSeekNopCloser wraps an io.ReadSeeker to add a no-op Close method
type readSeekNopCloser struct {
	io.ReadSeeker
}

func (r readSeekNopCloser) Close() error { return nil }

var errDisk = errors.New("disk on fire")

var fixedModTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
