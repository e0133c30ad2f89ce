package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carprice/internal/errors"
	"carprice/internal/metrics"
)

// handleHealth reports availability and the expected feature schema.
// A degraded service still answers 200 with an error-status body.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Health())
}

// handlePredict runs one feature mapping through the pipeline.
// Request errors map to 400; unavailable artifacts map to 500.
func (s *Server) handlePredict(c *gin.Context) {
	start := time.Now()

	var features map[string]interface{}
	if err := c.ShouldBindJSON(&features); err != nil {
		metrics.ObservePrediction(time.Since(start), metrics.OutcomeClientError)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return
	}

	price, err := s.svc.Predict(features)
	if err != nil {
		switch errors.GetCode(err) {
		case errors.CodePredictionFailed, errors.CodeInvalidInput, errors.CodeSchemaInvalid:
			metrics.ObservePrediction(time.Since(start), metrics.OutcomeClientError)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			metrics.ObservePrediction(time.Since(start), metrics.OutcomeServerError)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	metrics.ObservePrediction(time.Since(start), metrics.OutcomeSuccess)

	if s.predLog != nil {
		go func(features map[string]interface{}, price float64) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.predLog.Insert(ctx, features, price); err != nil {
				log.Printf("[api] prediction audit log failed: %v", err)
			}
		}(features, price)
	}

	c.JSON(http.StatusOK, gin.H{"price": price})
}

// handleReload drops the cached artifacts and loads them fresh, so a newly
// trained model can be picked up without a restart.
func (s *Server) handleReload(c *gin.Context) {
	if err := s.svc.Reload(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}
