// Package api exposes the engine's operations over HTTP for the command
// dispatch layer. It carries no business logic of its own; every route maps
// onto one engine operation.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/aegis-watch/aegisd/pkg/engine"
	"github.com/aegis-watch/aegisd/pkg/quarantine"
	"github.com/aegis-watch/aegisd/pkg/scanner"
	"github.com/aegis-watch/aegisd/pkg/threatlog"
)

// SecurityEngine is the slice of the engine the API dispatches to.
type SecurityEngine interface {
	Start(interval time.Duration)
	Stop()
	IsRunning() bool
	ScanFile(path string) (*scanner.FileScanResult, error)
	QuarantineFile(path string) (*quarantine.Record, error)
	QuarantinedFiles() ([]string, error)
	Status() engine.SecurityStatus
	ThreatSummary(hours int) threatlog.Summary
	AddWhitelist(name string)
	RemoveWhitelist(name string) bool
	WhitelistedProcesses() []string
	ExportThreatLog(filename string) (string, error)
}

// Server is the HTTP front of the engine.
type Server struct {
	engine     SecurityEngine
	router     *gin.Engine
	httpServer *http.Server
	logger     zerolog.Logger
}

// NewServer builds the router over the given engine.
func NewServer(eng SecurityEngine, port string, logLevel string, logger zerolog.Logger) *Server {
	if logLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		engine: eng,
		router: router,
		logger: logger.With().Str("component", "api").Logger(),
	}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.healthz)

	api := s.router.Group("/api")
	{
		api.POST("/monitor/start", s.startMonitoring)
		api.POST("/monitor/stop", s.stopMonitoring)
		api.POST("/scan", s.scanFile)
		api.POST("/quarantine", s.quarantineFile)
		api.GET("/quarantine", s.listQuarantine)
		api.GET("/status", s.getStatus)
		api.GET("/threats/summary", s.getThreatSummary)
		api.POST("/threats/export", s.exportThreatLog)
		api.GET("/whitelist", s.getWhitelist)
		api.POST("/whitelist", s.addWhitelist)
		api.DELETE("/whitelist/:process", s.removeWhitelist)
	}
}

// Run starts serving and blocks until the server stops.
func (s *Server) Run() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("API server starting")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
