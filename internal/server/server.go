// Package server is the HTTP transport of the contact API. Routing, request
// decoding and response encoding run on the goa HTTP runtime.
package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	goahttp "goa.design/goa/v3/http"
	"goa.design/goa/v3/http/middleware"
	goa "goa.design/goa/v3/pkg"

	"j2systems/internal/config"
	"j2systems/internal/metrics"
	"j2systems/internal/services"
)

// Services groups the application services exposed over HTTP
type Services struct {
	Contacts *services.ContactService
	Status   *services.StatusService
	Health   *services.HealthService
}

// MountPoint holds information about the mounted endpoints.
type MountPoint struct {
	// Method is the name of the service method served by the mounted HTTP handler.
	Method string
	// Verb is the HTTP method used to match requests to the mounted handler.
	Verb string
	// Pattern is the HTTP request path pattern used to match requests to the
	// mounted handler.
	Pattern string
}

// Server serves every API route behind the middleware chain
type Server struct {
	Mounts []*MountPoint

	mux       goahttp.Muxer
	handler   http.Handler
	decoder   func(*http.Request) goahttp.Decoder
	encoder   func(context.Context, http.ResponseWriter) goahttp.Encoder
	formatter func(context.Context, error) goahttp.Statuser
	log       *zap.SugaredLogger
}

// New mounts all endpoints and builds the middleware chain:
// Security -> CORS -> RequestID -> Logging -> Prometheus -> Mux
func New(cfg *config.Config, svc Services, log *zap.SugaredLogger) *Server {
	s := &Server{
		mux:       goahttp.NewMuxer(),
		decoder:   goahttp.RequestDecoder,
		encoder:   goahttp.ResponseEncoder,
		formatter: NewErrorResponseBody,
		log:       log.Named("http"),
	}

	s.mountContact(svc.Contacts)
	s.mountStatus(svc.Status)
	s.mountHealth(svc.Health)
	s.mux.Handle("GET", "/metrics", promhttp.Handler().ServeHTTP)
	s.Mounts = append(s.Mounts, &MountPoint{Method: "metrics", Verb: "GET", Pattern: "/metrics"})

	for _, m := range s.Mounts {
		s.log.Debugw("Mounted endpoint", "method", m.Method, "verb", m.Verb, "pattern", m.Pattern)
	}

	var handler http.Handler = s.mux
	handler = metrics.PrometheusMiddleware(handler)
	handler = requestLogging(s.log)(handler)
	handler = middleware.PopulateRequestContext()(handler)
	handler = middleware.RequestID()(handler)
	handler = corsHandler(cfg.CORS)(handler)
	handler = securityHeaders(cfg.App.Debug)(handler)
	s.handler = handler

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// mount registers an endpoint under verb and pattern. A nil decode means the
// endpoint takes no payload.
func (s *Server) mount(
	service, method, verb, pattern string,
	endpoint goa.Endpoint,
	decode func(*http.Request) (any, error),
	encode func(context.Context, http.ResponseWriter, any) error,
) {
	s.mux.Handle(verb, pattern, s.newHandler(service, method, endpoint, decode, encode))
	s.Mounts = append(s.Mounts, &MountPoint{Method: service + "." + method, Verb: verb, Pattern: pattern})
}

// newHandler creates a HTTP handler which loads the HTTP request, calls
// endpoint and encodes its result or error.
func (s *Server) newHandler(
	service, method string,
	endpoint goa.Endpoint,
	decode func(*http.Request) (any, error),
	encode func(context.Context, http.ResponseWriter, any) error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), goa.MethodKey, method)
		ctx = context.WithValue(ctx, goa.ServiceKey, service)

		var payload any
		if decode != nil {
			p, err := decode(r)
			if err != nil {
				s.encodeError(ctx, w, err)
				return
			}
			payload = p
		}

		res, err := endpoint(ctx, payload)
		if err != nil {
			s.encodeError(ctx, w, err)
			return
		}
		if err := encode(ctx, w, res); err != nil {
			s.errhandler(ctx, w, err)
		}
	}
}
