// Package smoke exercises a running contact API over HTTP and reports which
// behaviors hold.
package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultSettleDelay = time.Second
)

// Result is the outcome of one check
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Report collects the results of a run
type Report struct {
	BaseURL string
	Results []Result
	Created []string
}

// Passed returns the number of passing checks
func (r *Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed {
			n++
		}
	}
	return n
}

// Failed returns the number of failing checks
func (r *Report) Failed() int {
	return len(r.Results) - r.Passed()
}

// OK reports whether every check passed
func (r *Report) OK() bool {
	return len(r.Results) > 0 && r.Failed() == 0
}

// Print writes a human readable summary to w
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "Contact API smoke test against %s\n\n", r.BaseURL)
	for _, res := range r.Results {
		mark := "PASS"
		if !res.Passed {
			mark = "FAIL"
		}
		fmt.Fprintf(w, "[%s] %s: %s\n", mark, res.Name, res.Detail)
	}

	total := len(r.Results)
	rate := 0.0
	if total > 0 {
		rate = float64(r.Passed()) / float64(total) * 100
	}
	fmt.Fprintf(w, "\nTotal: %d  Passed: %d  Failed: %d  Success rate: %.1f%%\n", total, r.Passed(), r.Failed(), rate)
	if len(r.Created) > 0 {
		fmt.Fprintf(w, "Created messages: %s\n", strings.Join(r.Created, ", "))
	}
}

// contactMessage mirrors the API representation of a stored message
type contactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   *string   `json:"company"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
	Replied   bool      `json:"replied"`
}

// Runner executes the smoke checks in order. Later checks reuse the messages
// created by earlier ones.
type Runner struct {
	// SettleDelay is waited before the final persistence check
	SettleDelay time.Duration

	client  *resty.Client
	log     *zap.SugaredLogger
	report  *Report
	created []string
}

// NewRunner creates a runner against baseURL, e.g. http://localhost:8000/api
func NewRunner(baseURL string, log *zap.SugaredLogger) *Runner {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Runner{
		SettleDelay: defaultSettleDelay,
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		log:    log.Named("smoke"),
		report: &Report{BaseURL: baseURL},
	}
}

// Run executes every check and returns the report
func (r *Runner) Run(ctx context.Context) *Report {
	r.log.Infow("Starting smoke test", "base_url", r.report.BaseURL)

	r.createWithCompany(ctx)
	r.createWithoutCompany(ctx)
	r.createInvalidEmail(ctx)
	r.createMissingFields(ctx)
	r.listSorted(ctx)
	r.getByID(ctx)
	r.getUnknown(ctx)
	r.updateStatus(ctx)
	r.updateUnknown(ctx)
	r.persistence(ctx)

	r.report.Created = slices.Clone(r.created)
	r.log.Infow("Smoke test finished", "passed", r.report.Passed(), "failed", r.report.Failed())
	return r.report
}

func (r *Runner) record(name string, passed bool, format string, args ...any) {
	res := Result{Name: name, Passed: passed, Detail: fmt.Sprintf(format, args...)}
	r.report.Results = append(r.report.Results, res)
	if passed {
		r.log.Infow("Check passed", "check", name, "detail", res.Detail)
	} else {
		r.log.Errorw("Check failed", "check", name, "detail", res.Detail)
	}
}

func (r *Runner) createWithCompany(ctx context.Context) {
	const name = "Create Contact Valid"
	payload := map[string]any{
		"name":    "Juan Carlos Pérez",
		"email":   "juan.perez@empresa.com",
		"company": "Empresa Tech Solutions",
		"message": "Necesito integración de sistemas para mi empresa. Tenemos un ERP legacy que necesita conectarse con nuevas APIs.",
	}

	resp, err := r.client.R().SetContext(ctx).SetBody(payload).Post("/contact")
	if err != nil {
		r.record(name, false, "request failed: %v", err)
		return
	}
	if resp.StatusCode() != 201 {
		r.record(name, false, "expected 201, got %d: %s", resp.StatusCode(), resp.String())
		return
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		r.record(name, false, "invalid response body: %v", err)
		return
	}
	var missing []string
	for _, field := range []string{"id", "name", "email", "company", "message", "created_at", "read", "replied"} {
		if _, ok := raw[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		r.record(name, false, "missing fields in response: %v", missing)
		return
	}

	var msg contactMessage
	if err := json.Unmarshal(resp.Body(), &msg); err != nil {
		r.record(name, false, "invalid response body: %v", err)
		return
	}
	if msg.Name != payload["name"] || msg.Email != payload["email"] || msg.Message != payload["message"] ||
		msg.Company == nil || *msg.Company != payload["company"] || msg.Read || msg.Replied {
		r.record(name, false, "response data doesn't match input data")
		return
	}

	r.created = append(r.created, msg.ID)
	r.record(name, true, "message created with id %s", msg.ID)
}

func (r *Runner) createWithoutCompany(ctx context.Context) {
	const name = "Create Contact No Company"
	payload := map[string]any{
		"name":    "María González",
		"email":   "maria.gonzalez@gmail.com",
		"message": "Hola, soy desarrolladora freelance y me interesa conocer más sobre sus servicios de integración.",
	}

	var msg contactMessage
	resp, err := r.client.R().SetContext(ctx).SetBody(payload).SetResult(&msg).Post("/contact")
	if err != nil {
		r.record(name, false, "request failed: %v", err)
		return
	}
	if resp.StatusCode() != 201 {
		r.record(name, false, "expected 201, got %d: %s", resp.StatusCode(), resp.String())
		return
	}
	if msg.Name != payload["name"] || msg.Email != payload["email"] || msg.Message != payload["message"] || msg.Company != nil {
		r.record(name, false, "response data validation failed")
		return
	}

	r.created = append(r.created, msg.ID)
	r.record(name, true, "message created without company with id %s", msg.ID)
}

func (r *Runner) createInvalidEmail(ctx context.Context) {
	const name = "Invalid Email Validation"
	payload := map[string]any{
		"name":    "Test User",
		"email":   "invalid-email-format",
		"message": "This should fail due to invalid email",
	}
	r.expectStatus(ctx, name, "POST", "/contact", payload, 422, "rejected invalid email format")
}

func (r *Runner) createMissingFields(ctx context.Context) {
	cases := []map[string]any{
		{"email": "test@example.com", "message": "Missing name"},
		{"name": "Test User", "message": "Missing email"},
		{"name": "Test User", "email": "test@example.com"},
		{},
	}
	for i, payload := range cases {
		keys := make([]string, 0, len(payload))
		for k := range payload {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		r.expectStatus(ctx, fmt.Sprintf("Missing Fields Test %d", i+1), "POST", "/contact", payload, 422,
			fmt.Sprintf("rejected incomplete data %v", keys))
	}
}

func (r *Runner) listSorted(ctx context.Context) {
	const name = "Get All Contacts"
	msgs, err := r.list(ctx)
	if err != nil {
		r.record(name, false, "%v", err)
		return
	}

	for i := 1; i < len(msgs); i++ {
		if msgs[i-1].CreatedAt.Before(msgs[i].CreatedAt) {
			r.record(name, false, "messages not sorted by created_at descending")
			return
		}
	}
	r.record(name, true, "retrieved %d messages sorted newest first, found %d/%d created messages",
		len(msgs), countPresent(msgs, r.created), len(r.created))
}

func (r *Runner) getByID(ctx context.Context) {
	const name = "Get Contact By ID"
	if len(r.created) == 0 {
		r.record(name, false, "no created messages to test with")
		return
	}
	id := r.created[0]

	var msg contactMessage
	resp, err := r.client.R().SetContext(ctx).SetResult(&msg).Get("/contact/" + id)
	if err != nil {
		r.record(name, false, "request failed: %v", err)
		return
	}
	if resp.StatusCode() != 200 {
		r.record(name, false, "expected 200, got %d: %s", resp.StatusCode(), resp.String())
		return
	}
	if msg.ID != id {
		r.record(name, false, "id mismatch: expected %s, got %s", id, msg.ID)
		return
	}
	r.record(name, true, "retrieved message %s", id)
}

func (r *Runner) getUnknown(ctx context.Context) {
	r.expectStatus(ctx, "Get Nonexistent Contact", "GET", "/contact/"+uuid.NewString(), nil, 404, "returned 404 for unknown id")
}

func (r *Runner) updateStatus(ctx context.Context) {
	if len(r.created) == 0 {
		r.record("Update Contact Status", false, "no created messages to test with")
		return
	}
	id := r.created[0]

	msg, ok := r.patch(ctx, "Update Read Status", id, map[string]any{"read": true})
	if !ok {
		return
	}
	if !msg.Read || msg.ID != id {
		r.record("Update Read Status", false, "read status update failed: read=%t id=%s", msg.Read, msg.ID)
		return
	}
	r.record("Update Read Status", true, "updated read status to true")

	msg, ok = r.patch(ctx, "Update Replied Status", id, map[string]any{"replied": true})
	if !ok {
		return
	}
	if !msg.Replied || !msg.Read {
		r.record("Update Replied Status", false, "status update failed: read=%t, replied=%t", msg.Read, msg.Replied)
		return
	}
	r.record("Update Replied Status", true, "updated replied status to true")
}

func (r *Runner) updateUnknown(ctx context.Context) {
	r.expectStatus(ctx, "Update Nonexistent Contact", "PATCH", "/contact/"+uuid.NewString(),
		map[string]any{"read": true}, 404, "returned 404 for unknown id")
}

func (r *Runner) persistence(ctx context.Context) {
	const name = "Persistence"
	if len(r.created) == 0 {
		r.record(name, false, "no created messages to verify persistence")
		return
	}

	select {
	case <-ctx.Done():
		r.record(name, false, "canceled: %v", ctx.Err())
		return
	case <-time.After(r.SettleDelay):
	}

	msgs, err := r.list(ctx)
	if err != nil {
		r.record(name, false, "%v", err)
		return
	}
	if n := countPresent(msgs, r.created); n != len(r.created) {
		r.record(name, false, "only %d/%d messages persisted", n, len(r.created))
		return
	}
	r.record(name, true, "all %d created messages persisted", len(r.created))
}

func (r *Runner) list(ctx context.Context) ([]contactMessage, error) {
	var msgs []contactMessage
	resp, err := r.client.R().SetContext(ctx).SetResult(&msgs).Get("/contact")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("expected 200, got %d: %s", resp.StatusCode(), resp.String())
	}
	if msgs == nil {
		return nil, fmt.Errorf("response is not a list")
	}
	return msgs, nil
}

func (r *Runner) patch(ctx context.Context, name, id string, payload map[string]any) (*contactMessage, bool) {
	var msg contactMessage
	resp, err := r.client.R().SetContext(ctx).SetBody(payload).SetResult(&msg).Patch("/contact/" + id)
	if err != nil {
		r.record(name, false, "request failed: %v", err)
		return nil, false
	}
	if resp.StatusCode() != 200 {
		r.record(name, false, "expected 200, got %d: %s", resp.StatusCode(), resp.String())
		return nil, false
	}
	return &msg, true
}

func (r *Runner) expectStatus(ctx context.Context, name, method, path string, payload any, want int, detail string) {
	req := r.client.R().SetContext(ctx)
	if payload != nil {
		req.SetBody(payload)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		r.record(name, false, "request failed: %v", err)
		return
	}
	if resp.StatusCode() != want {
		r.record(name, false, "expected %d, got %d: %s", want, resp.StatusCode(), resp.String())
		return
	}
	r.record(name, true, "%s", detail)
}

func countPresent(msgs []contactMessage, ids []string) int {
	n := 0
	for _, id := range ids {
		if slices.ContainsFunc(msgs, func(m contactMessage) bool { return m.ID == id }) {
			n++
		}
	}
	return n
}
