package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aegis-watch/aegisd/pkg/errors"
)

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

type startRequest struct {
	IntervalSeconds int `json:"interval_seconds"`
}

func (s *Server) startMonitoring(c *gin.Context) {
	var req startRequest
	// An empty body means the configured default interval.
	_ = c.ShouldBindJSON(&req)

	s.engine.Start(time.Duration(req.IntervalSeconds) * time.Second)
	c.JSON(http.StatusOK, gin.H{"monitoring_active": s.engine.IsRunning()})
}

func (s *Server) stopMonitoring(c *gin.Context) {
	s.engine.Stop()
	c.JSON(http.StatusOK, gin.H{"monitoring_active": s.engine.IsRunning()})
}

type pathRequest struct {
	Path string `json:"path" binding:"required"`
}

func (s *Server) scanFile(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	result, err := s.engine.ScanFile(req.Path)
	if err != nil {
		s.writeOperationError(c, "Scan", req.Path, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) quarantineFile(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	record, err := s.engine.QuarantineFile(req.Path)
	if err != nil {
		s.writeOperationError(c, "Quarantine", req.Path, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "record": record})
}

func (s *Server) listQuarantine(c *gin.Context) {
	files, err := s.engine.QuarantinedFiles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   err.Error(),
			"message": "Failed to list quarantined files",
		})
		return
	}
	if files == nil {
		files = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Status())
}

func (s *Server) getThreatSummary(c *gin.Context) {
	hours := 24
	if raw := c.Query("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be a positive integer"})
			return
		}
		hours = parsed
	}

	c.JSON(http.StatusOK, s.engine.ThreatSummary(hours))
}

type exportRequest struct {
	Filename string `json:"filename"`
}

func (s *Server) exportThreatLog(c *gin.Context) {
	var req exportRequest
	_ = c.ShouldBindJSON(&req)

	path, err := s.engine.ExportThreatLog(req.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   err.Error(),
			"message": "Failed to export threat log",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": path})
}

func (s *Server) getWhitelist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"whitelist": s.engine.WhitelistedProcesses()})
}

type whitelistRequest struct {
	Process string `json:"process" binding:"required"`
}

func (s *Server) addWhitelist(c *gin.Context) {
	var req whitelistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "process is required"})
		return
	}

	s.engine.AddWhitelist(req.Process)
	c.JSON(http.StatusOK, gin.H{"whitelist": s.engine.WhitelistedProcesses()})
}

func (s *Server) removeWhitelist(c *gin.Context) {
	process := c.Param("process")
	if !s.engine.RemoveWhitelist(process) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("process not whitelisted: %s", process)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"whitelist": s.engine.WhitelistedProcesses()})
}

// writeOperationError maps the error taxonomy onto HTTP statuses and
// synthesizes the human-readable notice the caller shows the user.
func (s *Server) writeOperationError(c *gin.Context, op, path string, err error) {
	status := http.StatusInternalServerError
	message := fmt.Sprintf("%s failed for %s", op, path)

	switch {
	case errors.IsNotFound(err):
		status = http.StatusNotFound
		message = fmt.Sprintf("%s failed: %s does not exist", op, path)
	case errors.IsIO(err):
		message = fmt.Sprintf("%s failed: %s could not be read", op, path)
	}

	s.logger.Error().Err(err).Str("op", op).Str("path", path).Msg("Operation failed")
	c.JSON(status, gin.H{"error": err.Error(), "message": message})
}
