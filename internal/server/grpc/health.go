package grpcserver

import (
	"context"

	lodexv1 "github.com/rzbill/lodex/api/lodex/v1"
)

func (s *rangeQuerySvc) Health(ctx context.Context, _ *lodexv1.HealthCheckRequest) (*lodexv1.HealthCheckResponse, error) {
	if err := s.svc.Health(ctx); err != nil {
		return &lodexv1.HealthCheckResponse{Status: "not_serving"}, nil
	}
	return &lodexv1.HealthCheckResponse{Status: "ok"}, nil
}
