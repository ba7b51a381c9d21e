package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Health check",
		Description: "Pings the database",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// HealthResponse contains health check data.
type HealthResponse struct {
	Status   string `json:"status" doc:"healthy or unhealthy"`
	Database string `json:"database" doc:"Database status"`
	Latency  string `json:"latency,omitempty" doc:"Database ping time"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Status int
	Body   HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	if s.health == nil {
		return &HealthOutput{Status: http.StatusOK, Body: HealthResponse{Status: "healthy", Database: "not configured"}}, nil
	}

	start := time.Now()
	err := s.health.Ping(ctx)
	latency := time.Since(start).String()

	if err != nil {
		s.logger.Error("health check failed", "error", err)
		return &HealthOutput{
			Status: http.StatusServiceUnavailable,
			Body:   HealthResponse{Status: "unhealthy", Database: "unreachable", Latency: latency},
		}, nil
	}
	return &HealthOutput{
		Status: http.StatusOK,
		Body:   HealthResponse{Status: "healthy", Database: "ok", Latency: latency},
	}, nil
}
