// Package admin serves a small read-only HTTP API for operators: health,
// counters, live games, finished game history and a websocket feed of the
// counters.
package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"rats-server/engine"
	"rats-server/history"
	"rats-server/models"
)

// HistoryStore is the part of the ledger the API reads.
type HistoryStore interface {
	RecentGames(limit int) ([]history.GameRecord, error)
	GameWithTricks(gameID string) (*history.GameRecord, []history.TrickRecord, error)
}

type Config struct {
	Addr           string
	AllowedOrigins []string // empty allows any origin
	RateLimit      RateLimiterConfig
	StreamInterval time.Duration
}

type Server struct {
	cfg        Config
	registry   *engine.Registry
	admission  *engine.Admission
	history    HistoryStore
	limiter    *RateLimiter
	router     *gin.Engine
	httpServer *http.Server
	upgrader   websocket.Upgrader
	log        zerolog.Logger
}

type statsResponse struct {
	models.Stats
	SlotsInUse    int `json:"slotsInUse"`
	SlotsCapacity int `json:"slotsCapacity"`
}

// New wires the routes. store may be nil, in which case the history routes
// answer 503.
func New(cfg Config, registry *engine.Registry, admission *engine.Admission, store HistoryStore, logger zerolog.Logger) *Server {
	if cfg.StreamInterval <= 0 {
		cfg.StreamInterval = time.Second
	}
	log := logger.With().Str("component", "admin").Logger()

	s := &Server{
		cfg:       cfg,
		registry:  registry,
		admission: admission,
		history:   store,
		limiter:   NewRateLimiter(cfg.RateLimit, logger),
		log:       log,
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOriginFunc:  s.allowOrigin,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(s.limiter.Middleware())

	router.GET("/healthz", s.handleHealth)
	router.GET("/stats", s.handleStats)
	router.GET("/stats/stream", s.handleStatsStream)
	router.GET("/games", s.handleGames)
	router.GET("/history", s.handleHistory)
	router.GET("/history/:id", s.handleHistoryGame)

	s.router = router
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.cfg.Addr).Msg("admin API listening")
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) allowOrigin(origin string) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// checkOrigin lets non-browser clients (no Origin header) through.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return s.allowOrigin(origin)
}

func (s *Server) stats() statsResponse {
	return statsResponse{
		Stats:         s.registry.Stats(),
		SlotsInUse:    s.admission.InUse(),
		SlotsCapacity: s.admission.Capacity(),
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.stats())
}

func (s *Server) handleGames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"games": s.registry.Games()})
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history is disabled"})
		return
	}

	limit := history.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	games, err := s.history.RecentGames(limit)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func (s *Server) handleHistoryGame(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history is disabled"})
		return
	}

	game, tricks, err := s.history.GameWithTricks(c.Param("id"))
	if errors.Is(err, history.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("game_id", c.Param("id")).Msg("failed to load game")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": game, "tricks": tricks})
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
