// Package server exposes the generation proxy endpoint.
package server

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"collegeprep/config"
	"collegeprep/genai"
)

// Server forwards prompts to the configured generation backend so no
// provider credential ever reaches a client.
type Server struct {
	client genai.Client
	cfg    config.ServerConfig
	engine *gin.Engine
}

func New(client genai.Client, cfg config.ServerConfig) (*Server, error) {
	if client == nil {
		return nil, errors.New("generation client required")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	s := &Server{client: client, cfg: cfg, engine: engine}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler returns the root handler for http.ListenAndServe.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupMiddleware() {
	s.engine.Use(gin.Recovery())
	s.engine.Use(RequestID())
	s.engine.Use(RequestLogger())

	corsCfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", RequestIDHeader},
	}
	if allowsAll(s.cfg.AllowedOrigins) {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.cfg.AllowedOrigins
	}
	s.engine.Use(cors.New(corsCfg))

	if s.cfg.MetricsEnabled {
		s.engine.Use(Metrics())
	}
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.POST("/generate", s.handleGenerate)
	if s.cfg.MetricsEnabled {
		s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

type generateRequest struct {
	PromptText string `json:"promptText"`
}

type generateResponse struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PromptText == "" {
		generationsTotal.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Missing promptText"})
		return
	}

	result := s.client.Generate(c.Request.Context(), req.PromptText)
	if !result.OK() {
		generationsTotal.WithLabelValues(string(result.Failure.Kind)).Inc()
		if result.Failure.Kind == genai.KindNoUsableContent {
			c.JSON(http.StatusInternalServerError, errorResponse{Error: "AI returned no candidates"})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error:   "Server error",
			Details: result.Failure.Message,
		})
		return
	}

	generationsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, generateResponse{Text: result.Text})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func allowsAll(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}
