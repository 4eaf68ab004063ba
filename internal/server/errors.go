package server

import (
	"context"
	"errors"
	"net/http"

	goahttp "goa.design/goa/v3/http"

	apperrors "j2systems/pkg/errors"
)

// ErrorResponseBody is the body of every failed API response
type ErrorResponseBody struct {
	Code    apperrors.ErrorCode    `json:"code"`
	Message string                 `json:"message"`
	Fields  []apperrors.FieldError `json:"fields,omitempty"`

	status int
}

// StatusCode implements goahttp.Statuser
func (b *ErrorResponseBody) StatusCode() int {
	return b.status
}

// NewErrorResponseBody maps err to its HTTP status and body. Storage and
// internal failures are reported without detail.
func NewErrorResponseBody(_ context.Context, err error) goahttp.Statuser {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.ErrCodeValidation:
			return &ErrorResponseBody{Code: appErr.Code, Message: appErr.Message, Fields: appErr.Fields, status: http.StatusUnprocessableEntity}
		case apperrors.ErrCodeNotFound:
			return &ErrorResponseBody{Code: appErr.Code, Message: appErr.Message, status: http.StatusNotFound}
		case apperrors.ErrCodeBadRequest:
			return &ErrorResponseBody{Code: appErr.Code, Message: appErr.Message, status: http.StatusBadRequest}
		}
	}
	return &ErrorResponseBody{
		Code:    apperrors.ErrCodeInternalError,
		Message: "internal server error",
		status:  http.StatusInternalServerError,
	}
}

// encodeError writes the formatted error response for err
func (s *Server) encodeError(ctx context.Context, w http.ResponseWriter, err error) {
	res := s.formatter(ctx, err)
	status := res.StatusCode()
	if status >= http.StatusInternalServerError {
		s.log.Errorw("Request failed", "error", err, "request_id", requestID(ctx))
	} else {
		s.log.Debugw("Request rejected", "status", status, "error", err, "request_id", requestID(ctx))
	}

	enc := s.encoder(ctx, w)
	w.WriteHeader(status)
	if err := enc.Encode(res); err != nil {
		s.errhandler(ctx, w, err)
	}
}

// errhandler logs failures that happen after the response has started
func (s *Server) errhandler(ctx context.Context, _ http.ResponseWriter, err error) {
	s.log.Errorw("Failed to encode response", "error", err, "request_id", requestID(ctx))
}
