package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	goahttp "goa.design/goa/v3/http"
	goa "goa.design/goa/v3/pkg"

	"j2systems/internal/domain"
	"j2systems/internal/services"
	apperrors "j2systems/pkg/errors"
)

const (
	nameMaxLength    = 200
	emailMaxLength   = 320
	companyMaxLength = 200
	messageMaxLength = 2000

	clientNameMaxLength = 200

	emailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`
)

// CreateContactRequestBody is the type of the "contact" service "create"
// endpoint HTTP request body.
type CreateContactRequestBody struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Company *string `json:"company"`
	Message *string `json:"message"`
}

// UpdateStatusRequestBody is the type of the "contact" service
// "update_status" endpoint HTTP request body.
type UpdateStatusRequestBody struct {
	Read    *bool `json:"read"`
	Replied *bool `json:"replied"`
}

// CreateStatusRequestBody is the type of the "status" service "create"
// endpoint HTTP request body.
type CreateStatusRequestBody struct {
	ClientName *string `json:"client_name"`
}

// ContactMessageResponseBody is the JSON representation of a contact message
type ContactMessageResponseBody struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   *string   `json:"company"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
	Replied   bool      `json:"replied"`
}

// StatusCheckResponseBody is the JSON representation of a status check
type StatusCheckResponseBody struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// RootResponseBody is the body of the API root greeting
type RootResponseBody struct {
	Message string `json:"message"`
}

// updateStatusPayload carries the path id together with the decoded flags
type updateStatusPayload struct {
	ID     string
	Update domain.StatusUpdate
}

// NewContactPayload builds the service payload from a normalized, validated body
func NewContactPayload(body *CreateContactRequestBody) *services.ContactPayload {
	return &services.ContactPayload{
		Name:    *body.Name,
		Email:   *body.Email,
		Company: body.Company,
		Message: *body.Message,
	}
}

// NewContactMessageResponseBody builds the response body from a stored message
func NewContactMessageResponseBody(res *domain.ContactMessage) *ContactMessageResponseBody {
	return &ContactMessageResponseBody{
		ID:        res.ID,
		Name:      res.Name,
		Email:     res.Email,
		Company:   res.Company,
		Message:   res.Message,
		CreatedAt: res.CreatedAt,
		Read:      res.Read,
		Replied:   res.Replied,
	}
}

// NewContactMessageListResponseBody builds the list body. An empty result
// encodes as an empty array.
func NewContactMessageListResponseBody(res []*domain.ContactMessage) []*ContactMessageResponseBody {
	body := make([]*ContactMessageResponseBody, len(res))
	for i, msg := range res {
		body[i] = NewContactMessageResponseBody(msg)
	}
	return body
}

// NewStatusCheckResponseBody builds the response body from a stored status check
func NewStatusCheckResponseBody(res *domain.StatusCheck) *StatusCheckResponseBody {
	return &StatusCheckResponseBody{
		ID:         res.ID,
		ClientName: res.ClientName,
		Timestamp:  res.Timestamp,
	}
}

// NewStatusCheckListResponseBody builds the status check list body
func NewStatusCheckListResponseBody(res []*domain.StatusCheck) []*StatusCheckResponseBody {
	body := make([]*StatusCheckResponseBody, len(res))
	for i, check := range res {
		body[i] = NewStatusCheckResponseBody(check)
	}
	return body
}

// Normalize trims name, email and message and lowercases email
func (body *CreateContactRequestBody) Normalize() {
	trim := func(s *string) {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	trim(body.Name)
	trim(body.Message)
	if body.Email != nil {
		*body.Email = strings.ToLower(strings.TrimSpace(*body.Email))
	}
}

// ValidateCreateContactRequestBody runs the validations defined on the
// contact form. Every offending field is reported.
func ValidateCreateContactRequestBody(body *CreateContactRequestBody) error {
	var errs fieldErrors

	if body.Name == nil {
		errs.add("name", goa.MissingFieldError("name", "body"))
	} else {
		errs.add("name", validateLength("name", *body.Name, 1, nameMaxLength))
	}

	if body.Email == nil {
		errs.add("email", goa.MissingFieldError("email", "body"))
	} else if err := goa.ValidateFormat("body.email", *body.Email, goa.FormatEmail); err != nil {
		errs.add("email", err)
	} else if err := goa.ValidatePattern("body.email", *body.Email, emailPattern); err != nil {
		errs.add("email", err)
	} else {
		errs.add("email", validateLength("email", *body.Email, 1, emailMaxLength))
	}

	if body.Company != nil {
		errs.add("company", validateLength("company", *body.Company, 0, companyMaxLength))
	}

	if body.Message == nil {
		errs.add("message", goa.MissingFieldError("message", "body"))
	} else {
		errs.add("message", validateLength("message", *body.Message, 1, messageMaxLength))
	}

	return errs.err()
}

// ValidateCreateStatusRequestBody runs the validations defined on the status
// check body.
func ValidateCreateStatusRequestBody(body *CreateStatusRequestBody) error {
	var errs fieldErrors
	if body.ClientName == nil {
		errs.add("client_name", goa.MissingFieldError("client_name", "body"))
	} else {
		errs.add("client_name", validateLength("client_name", *body.ClientName, 0, clientNameMaxLength))
	}
	return errs.err()
}

// validateLength checks the rune count of val against [minLen, maxLen]
func validateLength(field, val string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(val)
	if n < minLen {
		return goa.InvalidLengthError("body."+field, val, n, minLen, true)
	}
	if n > maxLen {
		return goa.InvalidLengthError("body."+field, val, n, maxLen, false)
	}
	return nil
}

type fieldErrors []apperrors.FieldError

func (fe *fieldErrors) add(field string, err error) {
	if err != nil {
		*fe = append(*fe, apperrors.FieldError{Field: field, Message: err.Error()})
	}
}

func (fe fieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return apperrors.Validation(fe)
}

// decodeBody decodes the request body into v. An empty body leaves v
// untouched, values of the wrong JSON type are reported against their field
// and anything else that is not JSON is a bad request.
func decodeBody(dec goahttp.Decoder, v any) error {
	err := dec.Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return apperrors.Validation([]apperrors.FieldError{{
			Field:   field,
			Message: fmt.Sprintf("%s must be of type %s", field, typeErr.Type),
		}})
	}

	return apperrors.Wrap(apperrors.ErrCodeBadRequest, "malformed request body", goa.DecodePayloadError(err.Error()))
}
