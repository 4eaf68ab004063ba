package server

import (
	"context"
	"net/http"

	goahttp "goa.design/goa/v3/http"
	goa "goa.design/goa/v3/pkg"

	"j2systems/internal/domain"
	"j2systems/internal/services"
)

const rootGreeting = "Hello World"

// mountStatus configures the mux to serve the status and root endpoints
func (s *Server) mountStatus(svc *services.StatusService) {
	s.mount("status", "create", "POST", "/api/status",
		NewCreateStatusEndpoint(svc), DecodeCreateStatusRequest(s.decoder), EncodeStatusCheckResponse(s.encoder))
	s.mount("status", "list", "GET", "/api/status",
		NewListStatusEndpoint(svc), nil, EncodeStatusCheckListResponse(s.encoder))

	for _, pattern := range []string{"/api", "/api/"} {
		s.mount("root", "greet", "GET", pattern, greetEndpoint, nil, EncodeRootResponse(s.encoder))
	}
}

// mountHealth configures the mux to serve the health endpoint
func (s *Server) mountHealth(svc *services.HealthService) {
	s.mount("health", "check", "GET", "/health", NewHealthEndpoint(svc), nil, s.encodeHealthResponse)
}

// NewCreateStatusEndpoint returns an endpoint function that calls the method
// "create" of service "status".
func NewCreateStatusEndpoint(s *services.StatusService) goa.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		return s.Create(ctx, req.(string))
	}
}

// NewListStatusEndpoint returns an endpoint function that calls the method
// "list" of service "status".
func NewListStatusEndpoint(s *services.StatusService) goa.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		return s.List(ctx)
	}
}

func greetEndpoint(context.Context, any) (any, error) {
	return &RootResponseBody{Message: rootGreeting}, nil
}

// healthCheck is the health endpoint result. The endpoint never fails;
// an unreachable database is reported through the status code.
type healthCheck struct {
	result *services.HealthResult
	err    error
}

// NewHealthEndpoint returns an endpoint function that calls the method
// "check" of service "health".
func NewHealthEndpoint(s *services.HealthService) goa.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		res, err := s.Check(ctx)
		return &healthCheck{result: res, err: err}, nil
	}
}

// DecodeCreateStatusRequest returns a decoder for requests sent to the status
// create endpoint.
func DecodeCreateStatusRequest(decoder func(*http.Request) goahttp.Decoder) func(*http.Request) (any, error) {
	return func(r *http.Request) (any, error) {
		var body CreateStatusRequestBody
		if err := decodeBody(decoder(r), &body); err != nil {
			return nil, err
		}
		if err := ValidateCreateStatusRequestBody(&body); err != nil {
			return nil, err
		}
		return *body.ClientName, nil
	}
}

// EncodeStatusCheckResponse returns an encoder for responses returned by the
// status create endpoint.
func EncodeStatusCheckResponse(encoder func(context.Context, http.ResponseWriter) goahttp.Encoder) func(context.Context, http.ResponseWriter, any) error {
	return func(ctx context.Context, w http.ResponseWriter, v any) error {
		res, _ := v.(*domain.StatusCheck)
		enc := encoder(ctx, w)
		body := NewStatusCheckResponseBody(res)
		w.WriteHeader(http.StatusOK)
		return enc.Encode(body)
	}
}

// EncodeStatusCheckListResponse returns an encoder for responses returned by
// the status list endpoint.
func EncodeStatusCheckListResponse(encoder func(context.Context, http.ResponseWriter) goahttp.Encoder) func(context.Context, http.ResponseWriter, any) error {
	return func(ctx context.Context, w http.ResponseWriter, v any) error {
		res, _ := v.([]*domain.StatusCheck)
		enc := encoder(ctx, w)
		body := NewStatusCheckListResponseBody(res)
		w.WriteHeader(http.StatusOK)
		return enc.Encode(body)
	}
}

// EncodeRootResponse returns an encoder for the API root greeting
func EncodeRootResponse(encoder func(context.Context, http.ResponseWriter) goahttp.Encoder) func(context.Context, http.ResponseWriter, any) error {
	return func(ctx context.Context, w http.ResponseWriter, v any) error {
		enc := encoder(ctx, w)
		w.WriteHeader(http.StatusOK)
		return enc.Encode(v)
	}
}

func (s *Server) encodeHealthResponse(ctx context.Context, w http.ResponseWriter, v any) error {
	res := v.(*healthCheck)
	status := http.StatusOK
	if res.err != nil {
		s.log.Warnw("Health check failed", "error", res.err)
		status = http.StatusServiceUnavailable
	}
	enc := s.encoder(ctx, w)
	w.WriteHeader(status)
	return enc.Encode(res.result)
}
