package api

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"carprice/app"
)

// PredictionLogger records served predictions; nil disables auditing.
type PredictionLogger interface {
	Insert(ctx context.Context, features map[string]interface{}, price float64) error
}

// Server is the prediction API over a trained pipeline.
type Server struct {
	router  *gin.Engine
	svc     *app.PredictionService
	predLog PredictionLogger
}

// NewServer wires the routes around a prediction service.
func NewServer(svc *app.PredictionService, predLog PredictionLogger) *Server {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// The form UI is served from a different origin.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
	}))

	s := &Server{router: router, svc: svc, predLog: predLog}

	router.GET("/health", s.handleHealth)
	router.POST("/predict", s.handlePredict)
	router.POST("/reload", s.handleReload)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the server on the given address until it fails.
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
