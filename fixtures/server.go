package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iaalcantara17/webenv/internal/config"
	"github.com/iaalcantara17/webenv/internal/logging"
	"github.com/iaalcantara17/webenv/internal/middleware"
	"github.com/iaalcantara17/webenv/internal/monitoring"
)

// Server serves registered fixtures over loopback HTTP so passthrough
// fetches have something real to talk to.
type Server struct {
	registry *Registry
	cfg      *config.Config
	log      *logging.Logger
	metrics  *monitoring.Metrics
	engine   *gin.Engine

	mu   sync.RWMutex
	srv  *http.Server
	ln   net.Listener
	user string
	hash []byte
}

// Option customizes a Server.
type Option func(*Server)

// WithConfig overrides the environment-derived configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) { s.cfg = cfg }
}

// WithLogger overrides the default logger.
func WithLogger(log *logging.Logger) Option {
	return func(s *Server) { s.log = log }
}

// New creates a fixtures server around reg. A nil reg gets a fresh
// empty registry.
func New(reg *Registry, opts ...Option) *Server {
	s := &Server{
		registry: reg,
		cfg:      config.LoadOrDefault(),
		log:      logging.NewDefault(),
		metrics:  monitoring.New(),
	}
	if s.registry == nil {
		s.registry = NewRegistry()
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.buildEngine()
	return s
}

// Registry returns the registry this server serves from.
func (s *Server) Registry() *Registry { return s.registry }

func (s *Server) buildEngine() *gin.Engine {
	if !s.cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(s.requestLogger())
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if s.cfg.RateLimit.Enabled {
		s.log.Info("rate limiting enabled",
			zap.Int("rps", s.cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", s.cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: s.cfg.RateLimit.RequestsPerSecond,
			Burst:             s.cfg.RateLimit.Burst,
		}))
	}

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	router.POST("/echo", s.handleEcho)
	router.GET("/ws", s.handleWS)

	protected := router.Group("/fixtures", s.basicAuth())
	protected.GET("/*name", s.handleFixture)

	return router
}

// Protect requires HTTP basic auth on the fixture routes. The password
// is kept as a bcrypt hash; echo, health, and metrics stay open.
func (s *Server) Protect(user, pass string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash fixture credentials: %w", err)
	}

	s.mu.Lock()
	s.user, s.hash = user, hash
	s.mu.Unlock()
	return nil
}

// Start binds the configured address (127.0.0.1:0 by default, so every
// server gets its own ephemeral port) and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln != nil {
		return fmt.Errorf("fixtures server already started on %s", s.ln.Addr())
	}

	addr := net.JoinHostPort(s.cfg.Fixtures.Host, s.cfg.Fixtures.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.ln = ln
	s.srv = &http.Server{Handler: s.engine}

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("fixtures server stopped", zap.Error(err))
		}
	}(s.srv)

	s.log.Info("fixtures server listening", zap.String("addr", ln.Addr().String()))
	return nil
}

// URL returns the server's base URL, or "" before Start.
func (s *Server) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close shuts the server down, waiting briefly for in-flight requests.
// Closing a server that never started is a no-op.
func (s *Server) Close() error {
	s.mu.Lock()
	srv := s.srv
	s.srv, s.ln = nil, nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown fixtures server: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"fixtures": s.registry.Len(),
	})
}

func (s *Server) handleFixture(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("name"), "/")
	fx, ok := s.registry.Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no fixture named %q", name)})
		return
	}
	s.metrics.RecordFixtureServe(fx.Name)
	c.Data(http.StatusOK, fx.ContentType, fx.Body)
}

func (s *Server) handleEcho(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read body: " + err.Error()})
		return
	}

	headers := make(map[string]string, len(c.Request.Header))
	for k, v := range c.Request.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"query":      c.Request.URL.RawQuery,
		"headers":    headers,
		"body":       string(body),
		"request_id": c.GetString("request_id"),
	})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // loopback fixtures, any test origin is fine
	},
}

// handleWS upgrades the connection, greets, then echoes every frame.
func (s *Server) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s.metrics.IncWSConnections()
	defer s.metrics.DecWSConnections()

	welcome := map[string]interface{}{
		"type":    "system",
		"message": "connected to fixtures server",
	}
	if err := conn.WriteJSON(welcome); err != nil {
		return
	}

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.metrics.RecordWSMessage("in", wsMessageType(mt))
		if err := conn.WriteMessage(mt, data); err != nil {
			return
		}
		s.metrics.RecordWSMessage("out", wsMessageType(mt))
	}
}

func wsMessageType(mt int) string {
	switch mt {
	case websocket.TextMessage:
		return "text"
	case websocket.BinaryMessage:
		return "binary"
	default:
		return "control"
	}
}

// basicAuth gates fixture routes on the credentials set by Protect.
// Credentials are read per request, so Protect works before or after
// Start.
func (s *Server) basicAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.RLock()
		user, hash := s.user, s.hash
		s.mu.RUnlock()

		if hash == nil {
			c.Next()
			return
		}

		u, p, ok := c.Request.BasicAuth()
		if !ok || u != user || bcrypt.CompareHashAndPassword(hash, []byte(p)) != nil {
			c.Header("WWW-Authenticate", `Basic realm="fixtures"`)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// requestID tags every response so a flaky fixture interaction can be
// matched to server logs.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := uuid.New().String()
		c.Set("request_id", rid)
		c.Header("X-Request-ID", rid)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request served",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}
