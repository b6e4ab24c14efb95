// Package fakeshop is an in-memory implementation of the storefront backend
// REST contract. It backs the behavioural tests and cmd/shopmock.
package fakeshop

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/theAriful7/storefront/pkg/logger"
	"github.com/theAriful7/storefront/pkg/telemetry"
)

// RecordedRequest is one request the server received.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// injectedFailure answers the next matching request with Status.
type injectedFailure struct {
	Method     string
	PathPrefix string
	Status     int
	Message    string
}

// Server is the fake backend.
type Server struct {
	Store *Store

	engine  *gin.Engine
	handler http.Handler
	logger  logger.Logger

	mu       sync.Mutex
	requests []RecordedRequest
	failures []injectedFailure
}

// Option configures a Server.
type Option func(*options)

type options struct {
	seed         bool
	allowOrigins []string
	logger       logger.Logger
	now          func() time.Time
}

// WithoutSeed starts with an empty store.
func WithoutSeed() Option {
	return func(o *options) { o.seed = false }
}

// WithCORS allows browser clients from the given origins.
func WithCORS(origins ...string) Option {
	return func(o *options) { o.allowOrigins = origins }
}

// WithLogger logs every request at debug level.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock fixes the store's clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New builds a seeded fake backend.
func New(opts ...Option) *Server {
	o := options{seed: true}
	for _, opt := range opts {
		opt(&o)
	}

	gin.SetMode(gin.TestMode)

	store := NewStore()
	if o.now != nil {
		store.now = o.now
	}
	if o.seed {
		store.Seed()
	}

	s := &Server{
		Store:  store,
		engine: gin.New(),
		logger: logger.OrNoOp(o.logger),
	}
	s.engine.Use(gin.Recovery())
	if len(o.allowOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = o.allowOrigins
		cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", telemetry.HeaderCorrelationID, telemetry.HeaderRequestID)
		s.engine.Use(cors.New(cfg))
	}
	s.engine.Use(s.recordRequests(), s.injectFailures())
	s.routes()

	s.handler = otelhttp.NewHandler(telemetry.CorrelationMiddleware(s.engine), "fakeshop")
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns the requests with method whose path starts with prefix.
func (s *Server) RequestsTo(method, prefix string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range s.Requests() {
		if r.Method == method && strings.HasPrefix(r.Path, prefix) {
			out = append(out, r)
		}
	}
	return out
}

// ResetRequests clears the request log.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// FailNext makes the next request with method and a path starting with
// pathPrefix fail with status. Failures are consumed in the order added.
func (s *Server) FailNext(method, pathPrefix string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, injectedFailure{
		Method:     method,
		PathPrefix: pathPrefix,
		Status:     status,
		Message:    "injected failure",
	})
}

func (s *Server) recordRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Query:  c.Request.URL.Query(),
			Body:   body,
		})
		s.mu.Unlock()

		start := time.Now()
		c.Next()
		s.logger.Debug("fakeshop request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"correlation_id", telemetry.GetCorrelationID(c.Request.Context()),
		)
	}
}

func (s *Server) injectFailures() gin.HandlerFunc {
	return func(c *gin.Context) {
		if f, ok := s.takeFailure(c.Request.Method, c.Request.URL.Path); ok {
			c.AbortWithStatusJSON(f.Status, gin.H{"message": f.Message})
			return
		}
		c.Next()
	}
}

func (s *Server) takeFailure(method, path string) (injectedFailure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.failures {
		if f.Method == method && strings.HasPrefix(path, f.PathPrefix) {
			s.failures = append(s.failures[:i], s.failures[i+1:]...)
			return f, true
		}
	}
	return injectedFailure{}, false
}
