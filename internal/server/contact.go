package server

import (
	"context"
	"net/http"

	goahttp "goa.design/goa/v3/http"
	goa "goa.design/goa/v3/pkg"

	"j2systems/internal/domain"
	"j2systems/internal/services"
)

const contactServiceName = "contact"

// mountContact configures the mux to serve the contact endpoints
func (s *Server) mountContact(svc *services.ContactService) {
	s.mount(contactServiceName, "create", "POST", "/api/contact",
		NewCreateContactEndpoint(svc), DecodeCreateContactRequest(s.decoder), EncodeContactMessageResponse(s.encoder, http.StatusCreated))
	s.mount(contactServiceName, "list", "GET", "/api/contact",
		NewListContactsEndpoint(svc), nil, EncodeContactMessageListResponse(s.encoder))
	s.mount(contactServiceName, "get", "GET", "/api/contact/{id}",
		NewGetContactEndpoint(svc), DecodeContactIDRequest(s.mux), EncodeContactMessageResponse(s.encoder, http.StatusOK))
	s.mount(contactServiceName, "update_status", "PATCH", "/api/contact/{id}",
		NewUpdateStatusEndpoint(svc), DecodeUpdateStatusRequest(s.mux, s.decoder), EncodeContactMessageResponse(s.encoder, http.StatusOK))
}

// NewCreateContactEndpoint returns an endpoint function that calls the method
// "create" of service "contact".
func NewCreateContactEndpoint(s *services.ContactService) goa.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		return s.Create(ctx, req.(*services.ContactPayload))
	}
}

// NewListContactsEndpoint returns an endpoint function that calls the method
// "list" of service "contact".
func NewListContactsEndpoint(s *services.ContactService) goa.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		return s.List(ctx)
	}
}

// NewGetContactEndpoint returns an endpoint function that calls the method
// "get" of service "contact".
func NewGetContactEndpoint(s *services.ContactService) goa.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		return s.Get(ctx, req.(string))
	}
}

// NewUpdateStatusEndpoint returns an endpoint function that calls the method
// "update_status" of service "contact".
func NewUpdateStatusEndpoint(s *services.ContactService) goa.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		p := req.(*updateStatusPayload)
		return s.UpdateStatus(ctx, p.ID, p.Update)
	}
}

// DecodeCreateContactRequest returns a decoder for requests sent to the
// contact create endpoint.
func DecodeCreateContactRequest(decoder func(*http.Request) goahttp.Decoder) func(*http.Request) (any, error) {
	return func(r *http.Request) (any, error) {
		var body CreateContactRequestBody
		if err := decodeBody(decoder(r), &body); err != nil {
			return nil, err
		}
		body.Normalize()
		if err := ValidateCreateContactRequestBody(&body); err != nil {
			return nil, err
		}
		return NewContactPayload(&body), nil
	}
}

// DecodeContactIDRequest returns a decoder extracting the message id path
// parameter.
func DecodeContactIDRequest(mux goahttp.Muxer) func(*http.Request) (any, error) {
	return func(r *http.Request) (any, error) {
		return mux.Vars(r)["id"], nil
	}
}

// DecodeUpdateStatusRequest returns a decoder for requests sent to the
// contact update_status endpoint.
func DecodeUpdateStatusRequest(mux goahttp.Muxer, decoder func(*http.Request) goahttp.Decoder) func(*http.Request) (any, error) {
	return func(r *http.Request) (any, error) {
		var body UpdateStatusRequestBody
		if err := decodeBody(decoder(r), &body); err != nil {
			return nil, err
		}
		return &updateStatusPayload{
			ID:     mux.Vars(r)["id"],
			Update: domain.StatusUpdate{Read: body.Read, Replied: body.Replied},
		}, nil
	}
}

// EncodeContactMessageResponse returns an encoder for responses carrying a
// single contact message.
func EncodeContactMessageResponse(encoder func(context.Context, http.ResponseWriter) goahttp.Encoder, status int) func(context.Context, http.ResponseWriter, any) error {
	return func(ctx context.Context, w http.ResponseWriter, v any) error {
		res, _ := v.(*domain.ContactMessage)
		enc := encoder(ctx, w)
		body := NewContactMessageResponseBody(res)
		w.WriteHeader(status)
		return enc.Encode(body)
	}
}

// EncodeContactMessageListResponse returns an encoder for responses returned
// by the contact list endpoint.
func EncodeContactMessageListResponse(encoder func(context.Context, http.ResponseWriter) goahttp.Encoder) func(context.Context, http.ResponseWriter, any) error {
	return func(ctx context.Context, w http.ResponseWriter, v any) error {
		res, _ := v.([]*domain.ContactMessage)
		enc := encoder(ctx, w)
		body := NewContactMessageListResponseBody(res)
		w.WriteHeader(http.StatusOK)
		return enc.Encode(body)
	}
}
