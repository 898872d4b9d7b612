// Package api provides the HTTP interface of the prompt builder.
//
// SYSTEM ARCHITECTURE ROLE:
// This module is the server half of the generator relay and the HTTP face of the
// builder core. Every endpoint runs through the unified command layer so the CLI and
// HTTP interfaces share decoding, validation and error semantics.
//
// KEY RESPONSIBILITIES:
// - Expose generation, composition and analysis over JSON endpoints (gin)
// - Apply the middleware stack: recovery, access logging, CORS, per-IP rate limiting
// - Map AppErrors to status codes and the {error, message} failure body
// - Serve the OpenAPI document and a Swagger UI page
//
// INTEGRATION POINTS:
// - internal/commands/types.go: Server.executor executes every operation
// - internal/errors/handlers.go: Server.errorHandler (HTTPErrorHandler) writes failures
// - internal/validation/binding.go: request bodies are bound and validated before execution
// - internal/relay/relay.go: the relay is the executor's generator in server mode
// - internal/config/config.go: ServerConfig supplies port, origins, rate limit and timeouts
// - internal/api/openapi.go: self-documenting API at /api/docs and /api/openapi.json
//
// MIDDLEWARE STACK:
// - Recovery: panics become INTERNAL_ERROR responses
// - Logging: one zap line per request, leveled by status
// - CORS: exact origins plus regular expression patterns, no credentials
// - Rate limiting: token bucket per client IP, RATE_LIMITED when exhausted
// - Body limit: request bodies are capped at MaxBodyBytes
//
// ENDPOINT STRUCTURE:
// - POST /api/generate-prompt: one generated prompt
// - GET  /api/health: liveness
// - POST /api/compose, POST /api/analyze: builder core
// - GET  /api/templates, GET /api/constraint-kinds: catalog data
// - GET  /api/docs, GET /api/openapi.json: documentation
package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dpshade/prompt-builder/internal/commands"
	"github.com/dpshade/prompt-builder/internal/config"
	"github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/logger"
	"github.com/dpshade/prompt-builder/internal/service"
	"github.com/dpshade/prompt-builder/internal/validation"
)

// MaxBodyBytes caps the size of a request body
const MaxBodyBytes = 1 << 20

// Options configures a Server
type Options struct {
	Config    config.ServerConfig
	Generator service.Generator
	Logger    *logger.Logger
	// IncludeDetails adds error details to every failure message
	IncludeDetails bool
}

// Server is the HTTP API server
type Server struct {
	cfg          config.ServerConfig
	executor     *commands.CommandExecutor
	errorHandler *errors.HTTPErrorHandler
	validator    *validation.Validator
	log          *logger.Logger
	engine       *gin.Engine
	server       *http.Server
}

// NewServer creates a server with its routes and middleware installed
func NewServer(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}

	s := &Server{
		cfg: opts.Config,
		executor: commands.NewCommandExecutor(commands.Options{
			Generator: opts.Generator,
			Logger:    opts.Logger,
		}),
		errorHandler: errors.NewHTTPErrorHandler(opts.IncludeDetails, opts.Logger),
		validator:    validation.NewValidator(),
		log:          opts.Logger,
	}

	cors, err := CORS(opts.Config.AllowedOrigins, opts.Config.AllowedOriginPatterns)
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(
		gin.CustomRecovery(s.recover),
		RequestLogger(opts.Logger),
		cors,
		NewRateLimiter(opts.Config.RateLimit.Requests, opts.Config.RateLimit.Window, s.errorHandler).Middleware(),
		limitBody(MaxBodyBytes),
	)
	engine.NoRoute(func(c *gin.Context) {
		s.writeError(c, errors.NotFoundError(fmt.Sprintf("route %s %s", c.Request.Method, c.Request.URL.Path)))
	})

	api := engine.Group("/api")
	api.POST("/generate-prompt", s.handleGeneratePrompt)
	api.GET("/health", s.handleHealth)
	api.POST("/compose", s.handleCompose)
	api.POST("/analyze", s.handleAnalyze)
	api.GET("/templates", s.handleTemplates)
	api.GET("/constraint-kinds", s.handleConstraintKinds)
	api.GET("/docs", s.handleOpenAPI)
	api.GET("/openapi.json", s.handleOpenAPISpec)

	s.engine = engine
	return s, nil
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured port until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("API server starting",
			"addr", fmt.Sprintf("http://localhost:%d", s.cfg.Port),
			"docs", fmt.Sprintf("http://localhost:%d/api/docs", s.cfg.Port),
		)
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("API server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// execute runs a command and writes the failure when there is one. It reports
// whether the handler should continue.
func (s *Server) execute(c *gin.Context, name string, params map[string]interface{}) (*commands.CommandResult, bool) {
	result, err := s.executor.Execute(c.Request.Context(), name, params)
	if err != nil {
		s.writeError(c, err)
		return nil, false
	}
	if !result.Success {
		s.writeError(c, result.Err())
		return nil, false
	}
	return result, true
}

// writeError writes the failure body using the error handler
func (s *Server) writeError(c *gin.Context, err error) {
	status, body := s.errorHandler.Respond(err)
	c.AbortWithStatusJSON(status, body)
}

func (s *Server) recover(c *gin.Context, recovered interface{}) {
	s.log.Error("panic in handler", "panic", fmt.Sprint(recovered), "path", c.Request.URL.Path)
	s.writeError(c, errors.InternalError("Internal server error"))
}
