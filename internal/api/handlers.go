package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopfloorstack/shopfloor-qre/internal/models"
	"github.com/shopfloorstack/shopfloor-qre/internal/utils"
)

// evaluationRequest is the payload for a full batch evaluation.
type evaluationRequest struct {
	Records     []models.Record `json:"records"`
	Gages       []models.Gage   `json:"gages"`
	AsOf        string          `json:"as_of"`
	MinSeverity string          `json:"min_severity"`
}

type gageStatusRequest struct {
	Gages []models.Gage `json:"gages"`
	AsOf  string        `json:"as_of"`
}

type repeatSummaryRequest struct {
	Records  []models.Record `json:"records"`
	MinCount int             `json:"min_count"`
	AsOf     string          `json:"as_of"`
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req evaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fmt.Errorf("invalid request body: %w", err))
		return
	}

	asOf, err := resolveAsOf(req.AsOf)
	if err != nil {
		badRequest(c, err)
		return
	}

	var minSeverity models.Severity
	if raw := strings.TrimSpace(req.MinSeverity); raw != "" {
		sev, ok := models.ParseSeverity(raw)
		if !ok {
			badRequest(c, fmt.Errorf("unknown min_severity %q", raw))
			return
		}
		minSeverity = sev
	}

	result := s.service.Evaluate(c.Request.Context(), req.Records, req.Gages, asOf, minSeverity)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGageStatus(c *gin.Context) {
	var req gageStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fmt.Errorf("invalid request body: %w", err))
		return
	}

	asOf, err := resolveAsOf(req.AsOf)
	if err != nil {
		badRequest(c, err)
		return
	}

	statuses := s.service.GageStatuses(req.Gages, asOf)
	c.JSON(http.StatusOK, gin.H{"as_of": asOf, "statuses": statuses})
}

func (s *Server) handleRepeatSummary(c *gin.Context) {
	var req repeatSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fmt.Errorf("invalid request body: %w", err))
		return
	}

	asOf, err := resolveAsOf(req.AsOf)
	if err != nil {
		badRequest(c, err)
		return
	}
	if req.MinCount < 0 {
		badRequest(c, fmt.Errorf("min_count must not be negative"))
		return
	}

	summary := s.service.SummarizeRepeats(req.Records, req.MinCount, asOf)
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleTables(c *gin.Context) {
	c.JSON(http.StatusOK, s.service.Tables())
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// resolveAsOf parses the optional as_of day, defaulting to today. Accepts the
// same loose date formats the capture layer produces plus RFC 3339.
func resolveAsOf(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, ok := utils.ParseLooseDate(raw); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparseable as_of %q", raw)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
