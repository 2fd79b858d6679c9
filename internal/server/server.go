// Package server exposes the verification engine over a small HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/factlens/factlens/internal/model"
	"github.com/factlens/factlens/internal/registry"
	"github.com/factlens/factlens/internal/retrieve"
)

// Verifier is the part of the pipeline the server depends on.
type Verifier interface {
	VerifyClaim(ctx context.Context, claim, providerHint string) (*model.FactCheckResult, error)
}

// Server handles the HTTP API: claim verification, provider switching and
// the reasoning toggle. Stateless beyond the provider registry.
type Server struct {
	verifier       Verifier
	registry       *registry.Registry
	requestTimeout time.Duration
	engine         *gin.Engine
}

// New creates a server around the given pipeline and registry.
func New(verifier Verifier, reg *registry.Registry, cfg model.ServerConfig) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		verifier:       verifier,
		registry:       reg,
		requestTimeout: cfg.RequestTimeout,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", s.handleHealth)

	api := engine.Group("/api")
	api.POST("/check", s.handleCheck)
	api.GET("/provider", s.handleGetProvider)
	api.POST("/provider", s.handleSwitchProvider)
	api.POST("/reasoning", s.handleSetReasoning)

	s.engine = engine
	return s
}

// Handler returns the underlying HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves the API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

type checkRequest struct {
	Claim    string `json:"claim"`
	Provider string `json:"provider,omitempty"` // Optional per-request override
}

type switchRequest struct {
	Provider string `json:"provider"`
}

type reasoningRequest struct {
	Enabled *bool `json:"enabled"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleCheck runs one verification request. The response is always a
// well-formed result object: validation failures return 400 before any
// external call, and retrieval failure returns 502 with an Error-verdict
// result body.
func (s *Server) handleCheck(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	result, err := s.verifier.VerifyClaim(ctx, req.Claim, req.Provider)
	switch {
	case errors.Is(err, model.ErrEmptyClaim):
		c.JSON(http.StatusBadRequest, errorResponse{Error: model.ErrEmptyClaim.Error()})
	case errors.Is(err, retrieve.ErrRetrievalFailed):
		c.JSON(http.StatusBadGateway, result)
	case err != nil:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusOK, result)
	}
}

func (s *Server) handleGetProvider(c *gin.Context) {
	c.JSON(http.StatusOK, s.registry.GetActive())
}

// handleSwitchProvider atomically switches the active provider. An unknown
// identifier is rejected with the state unchanged; requests already in
// flight keep their snapshot.
func (s *Server) handleSwitchProvider(c *gin.Context) {
	var req switchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	state, err := s.registry.SwitchProvider(req.Provider)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleSetReasoning(c *gin.Context) {
	var req reasoningRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "request must carry an \"enabled\" boolean"})
		return
	}

	state := s.registry.SetReasoning(*req.Enabled)
	c.JSON(http.StatusOK, gin.H{"reasoning_enabled": state.ReasoningEnabled})
}
