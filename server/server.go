package server

import (
	"errors"
	"net/http"
	"time"

	"campus-steps-server/observability"
	"campus-steps-server/preprocessing"
	"campus-steps-server/routing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	store  *preprocessing.Store
	logger *zap.Logger
}

func New(store *preprocessing.Store) *Server {
	return &Server{store: store, logger: observability.GetLogger()}
}

// Router builds the gin engine with every API route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"*"}
	r.Use(cors.New(config))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := r.Group("/api")
	api.GET("/rooms", s.handleRooms)
	api.GET("/rates", s.handleRates)
	api.GET("/distance", s.handleDistance)
	api.POST("/route", s.handleRoute)
	api.POST("/admin/reload", s.handleReload)

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func (s *Server) graph(c *gin.Context) (*routing.Graph, bool) {
	g, err := s.store.Graph()
	if err != nil {
		s.logger.Error("Classroom graph unavailable", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "classroom graph not loaded"})
		return nil, false
	}
	return g, true
}

func (s *Server) handleRooms(c *gin.Context) {
	g, ok := s.graph(c)
	if !ok {
		return
	}
	rooms := g.SortedNodes()
	c.JSON(http.StatusOK, gin.H{"rooms": rooms, "count": len(rooms)})
}

func (s *Server) handleRates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"rates":            routing.Rates(),
		"stairsMultiplier": routing.STAIRS_MULTIPLIER,
	})
}

func (s *Server) handleDistance(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to query parameters are required"})
		return
	}
	g, ok := s.graph(c)
	if !ok {
		return
	}

	steps, err := routing.ShortestDistance(g, from, to)
	if errors.Is(err, routing.ErrNoPath) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "steps": steps})
}

func (s *Server) handleRoute(c *gin.Context) {
	var req routing.RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Warn("Failed to parse route request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, ok := s.graph(c)
	if !ok {
		return
	}

	s.logger.Info("Received route request",
		zap.Strings("rooms", req.Rooms),
		zap.String("intensity", req.Intensity),
		zap.Float64("weight_kg", req.WeightKg))

	resp, err := routing.PlanRoute(g, req)
	if err != nil {
		var invalid *routing.InvalidRouteError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("Route calculation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleReload(c *gin.Context) {
	if err := s.store.Reload(); err != nil {
		s.logger.Error("Graph reload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	rooms, _ := s.store.Rooms()
	c.JSON(http.StatusOK, gin.H{"status": "reloaded", "rooms": len(rooms)})
}
