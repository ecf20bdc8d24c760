package http

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sagarc03/testbed"
	"github.com/sagarc03/testbed/ratelimit"
)

// AssetStore opens files below the static root.
type AssetStore interface {
	Open(ctx context.Context, name string) (testbed.Asset, io.ReadSeekCloser, error)
}

// TemplateRenderer renders a named template as a complete response.
type TemplateRenderer interface {
	Render(w http.ResponseWriter, name string, data any) error
}

// HitLogger records a line for endpoints that announce each call.
type HitLogger interface {
	Hit(msg string) error
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled" yaml:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins,omitempty"`
	AllowedMethods   []string `mapstructure:"allowed_methods" yaml:"allowed_methods,omitempty"`
	AllowedHeaders   []string `mapstructure:"allowed_headers" yaml:"allowed_headers,omitempty"`
	ExposedHeaders   []string `mapstructure:"exposed_headers" yaml:"exposed_headers,omitempty"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials,omitempty"`
	MaxAge           int      `mapstructure:"max_age" yaml:"max_age,omitempty" validate:"min=0"`
}

type HandlerConfig struct {
	Realm        string
	DefaultAsset string
	IndexPage    string
	// GlobalLimiter applies to every request; RouteLimiter only to /rate_limit.
	// Nil disables the respective limit.
	GlobalLimiter *ratelimit.Limiter
	RouteLimiter  *ratelimit.Limiter
	AccessLog     bool
	TrustProxy    bool
	CORS          CORSConfig
}

// Services are the collaborators the handlers call into.
type Services struct {
	Users     CredentialVerifier
	Assets    AssetStore
	Templates TemplateRenderer
	Hits      HitLogger
}

// Middleware is a named wrapper applied in front of a route's handler.
type Middleware struct {
	Name string
	Wrap func(http.Handler) http.Handler
}

// Route is one entry of the route table.
type Route struct {
	Name       string
	Method     string
	Pattern    string
	Middleware []Middleware
	Handler    http.HandlerFunc
}

// MiddlewareNames returns the names of the route's middleware in order.
func (rt Route) MiddlewareNames() []string {
	names := make([]string, 0, len(rt.Middleware))
	for _, m := range rt.Middleware {
		names = append(names, m.Name)
	}
	return names
}

// Handler provides the testbed endpoints.
type Handler struct {
	config   HandlerConfig
	services Services
}

// NewHandler creates a new Handler with the given configuration and services.
func NewHandler(config *HandlerConfig, services Services) *Handler {
	cfg := *config
	if cfg.Realm == "" {
		cfg.Realm = DefaultRealm
	}
	if cfg.DefaultAsset == "" {
		cfg.DefaultAsset = "img/sand.jpg"
	}
	if cfg.IndexPage == "" {
		cfg.IndexPage = "index.html"
	}
	return &Handler{
		config:   cfg,
		services: services,
	}
}

// Routes returns the route table.
func (h *Handler) Routes() []Route {
	auth := Middleware{Name: "auth", Wrap: BasicAuthMiddleware(h.services.Users, h.config.Realm)}

	loginMW := []Middleware{auth}
	var rateLimitMW []Middleware
	if h.config.RouteLimiter != nil {
		rateLimitMW = append(rateLimitMW, Middleware{Name: "ratelimit", Wrap: h.config.RouteLimiter.Handler})
	}

	return []Route{
		{Name: "login", Method: http.MethodGet, Pattern: "/login", Middleware: loginMW, Handler: h.handleLogin},
		{Name: "rate_limit", Method: http.MethodGet, Pattern: "/rate_limit", Middleware: rateLimitMW, Handler: h.handleRateLimit},
		{Name: "test", Method: http.MethodPost, Pattern: "/test", Handler: h.handleTest},
		{Name: "file", Method: http.MethodGet, Pattern: "/file", Handler: h.handleDefaultFile},
		{Name: "file_path", Method: http.MethodGet, Pattern: "/file/*", Handler: h.handleFile},
		{Name: "html", Method: http.MethodGet, Pattern: "/html", Handler: h.handleHTML},
		{Name: "fail500", Method: http.MethodGet, Pattern: "/fail500", Handler: h.handleFail500},
		{Name: "fail", Method: http.MethodGet, Pattern: "/fail", Handler: h.handleFail},
	}
}

// Router returns an http.Handler serving the route table behind the global middleware.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.config.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestIDMiddleware)
	if h.config.AccessLog {
		r.Use(AccessLogMiddleware)
	}
	r.Use(middleware.Recoverer)
	// GET routes answer HEAD as well.
	r.Use(middleware.GetHead)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	if h.config.GlobalLimiter != nil {
		r.Use(h.config.GlobalLimiter.Handler)
	}

	r.NotFound(handleNotFound)

	for _, rt := range h.Routes() {
		wraps := make([]func(http.Handler) http.Handler, 0, len(rt.Middleware))
		for _, m := range rt.Middleware {
			wraps = append(wraps, m.Wrap)
		}
		r.With(wraps...).Method(rt.Method, rt.Pattern, rt.Handler)
	}

	return r
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		HandleError(w, testbed.ErrUnauthorized)
		return
	}
	WriteText(w, http.StatusOK, "Hello, "+user+"!")
}

func (h *Handler) handleRateLimit(w http.ResponseWriter, r *http.Request) {
	h.hit("HTTP Client: " + clientIP(r))
	WriteText(w, http.StatusOK, "OK")
}

func (h *Handler) handleTest(w http.ResponseWriter, _ *http.Request) {
	h.hit("/test endpoint hit!")
	WriteText(w, http.StatusOK, "OK")
}

func (h *Handler) handleDefaultFile(w http.ResponseWriter, r *http.Request) {
	h.serveAsset(w, r, h.config.DefaultAsset)
}

func (h *Handler) handleFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	// chi matches against RawPath when the path needed escaping.
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			HandleError(w, testbed.ErrNotFound)
			return
		}
		name = unescaped
	}
	h.serveAsset(w, r, name)
}

func (h *Handler) serveAsset(w http.ResponseWriter, r *http.Request, name string) {
	asset, content, err := h.services.Assets.Open(r.Context(), name)
	if err != nil {
		HandleError(w, err)
		return
	}
	defer func() { _ = content.Close() }()

	if asset.ContentType != "" {
		w.Header().Set("Content-Type", asset.ContentType)
	}

	http.ServeContent(w, r, asset.Path, asset.ModTime, content)
}

func (h *Handler) handleHTML(w http.ResponseWriter, _ *http.Request) {
	if err := h.services.Templates.Render(w, h.config.IndexPage, nil); err != nil {
		HandleError(w, err)
	}
}

func (h *Handler) handleFail500(w http.ResponseWriter, _ *http.Request) {
	WriteServerError(w)
}

func (h *Handler) handleFail(w http.ResponseWriter, r *http.Request) {
	req, err := testbed.ParseFailureRequest(r.URL.Query())
	if err != nil {
		HandleError(w, err)
		return
	}
	WriteText(w, req.Status, req.Message)
}

func (h *Handler) hit(msg string) {
	if h.services.Hits == nil {
		return
	}
	if err := h.services.Hits.Hit(msg); err != nil {
		slog.Warn("failed to write hit log", "error", err)
	}
}

// clientIP returns the host part of the request's remote address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
