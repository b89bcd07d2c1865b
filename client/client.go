// Package client calls the clinic registry HTTP API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lizet96/clinic-registry/models"
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// Health is the body of GET /health.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
	Storage string `json:"storage"`
}

type doctorEnvelope struct {
	Message string        `json:"message"`
	Doctor  models.Doctor `json:"doctor"`
}

type deleteEnvelope struct {
	Message string `json:"message"`
	Deleted int    `json:"deleted"`
}

// Client sends one request per call. It never retries.
type Client struct {
	baseURL string
	timeout time.Duration
}

type Option func(*Client)

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/")}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.do(ctx, fiber.MethodGet, "/health", nil, &out)
	return out, err
}

// ListDoctors fetches the whole list.
func (c *Client) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	return c.doctors(ctx, "/db")
}

// ReplaceDoctors overwrites the whole list on the server.
func (c *Client) ReplaceDoctors(ctx context.Context, doctors []models.Doctor) error {
	if doctors == nil {
		doctors = []models.Doctor{}
	}
	return c.do(ctx, fiber.MethodPost, "/db", doctors, nil)
}

func (c *Client) AddDoctor(ctx context.Context, doctor models.Doctor) (models.Doctor, error) {
	var out doctorEnvelope
	err := c.do(ctx, fiber.MethodPost, "/doctors/add", doctor, &out)
	return out.Doctor, err
}

// DeleteDoctor removes every doctor with this surname and name and returns how many went.
func (c *Client) DeleteDoctor(ctx context.Context, surname, name string) (int, error) {
	var out deleteEnvelope
	err := c.do(ctx, fiber.MethodDelete, "/doctors/delete", models.DoctorKey{Surname: surname, Name: name}, &out)
	return out.Deleted, err
}

// EditDoctor applies updates to the first doctor with this surname and name.
func (c *Client) EditDoctor(ctx context.Context, surname, name string, updates models.DoctorUpdate) (models.Doctor, error) {
	body := models.EditDoctorRequest{
		DoctorKey: models.DoctorKey{Surname: surname, Name: name},
		Updates:   updates,
	}
	var out doctorEnvelope
	err := c.do(ctx, fiber.MethodPut, "/doctors/edit", body, &out)
	return out.Doctor, err
}

func (c *Client) GetDoctor(ctx context.Context, id uuid.UUID) (models.Doctor, error) {
	var out models.Doctor
	err := c.do(ctx, fiber.MethodGet, "/doctors/"+id.String(), nil, &out)
	return out, err
}

func (c *Client) UpdateDoctor(ctx context.Context, id uuid.UUID, update models.DoctorUpdate) (models.Doctor, error) {
	var out doctorEnvelope
	err := c.do(ctx, fiber.MethodPut, "/doctors/"+id.String(), update, &out)
	return out.Doctor, err
}

func (c *Client) DeleteDoctorByID(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, fiber.MethodDelete, "/doctors/"+id.String(), nil, nil)
}

func (c *Client) DoctorsBySpecialty(ctx context.Context, specialty string) ([]models.Doctor, error) {
	return c.doctors(ctx, "/specialty/"+url.PathEscape(specialty))
}

func (c *Client) DoctorsByPatient(ctx context.Context, lastName string) ([]models.Doctor, error) {
	return c.doctors(ctx, "/patient/"+url.PathEscape(lastName))
}

func (c *Client) DoctorsByRoom(ctx context.Context, room models.Room) ([]models.Doctor, error) {
	return c.doctors(ctx, "/room/"+url.PathEscape(room.String()))
}

func (c *Client) RoomsBySpecialty(ctx context.Context, specialty string) ([]models.Room, error) {
	var out []models.Room
	err := c.do(ctx, fiber.MethodGet, "/rooms/"+url.PathEscape(specialty), nil, &out)
	return out, err
}

func (c *Client) TopSpecialties(ctx context.Context) ([]models.SpecialtyLoad, error) {
	var out []models.SpecialtyLoad
	err := c.do(ctx, fiber.MethodGet, "/top-specialties", nil, &out)
	return out, err
}

// TopDoctors fetches doctors with more than five patients.
func (c *Client) TopDoctors(ctx context.Context) ([]models.Doctor, error) {
	return c.doctors(ctx, "/top-doctors")
}

func (c *Client) LeastBusyDoctors(ctx context.Context) ([]models.Doctor, error) {
	return c.doctors(ctx, "/least-busy")
}

func (c *Client) Statistics(ctx context.Context) (models.Statistics, error) {
	var out models.Statistics
	err := c.do(ctx, fiber.MethodGet, "/statistics", nil, &out)
	return out, err
}

func (c *Client) doctors(ctx context.Context, path string) ([]models.Doctor, error) {
	var out []models.Doctor
	if err := c.do(ctx, fiber.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Doctor{}
	}
	return out, nil
}

// do sends one request and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	req.SetRequestURI(c.baseURL + path)
	if in != nil {
		a.JSON(in)
	}
	if timeout := c.requestTimeout(ctx); timeout > 0 {
		a.Timeout(timeout)
	}
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errs[0])
	}
	if code < 200 || code > 299 {
		return &APIError{StatusCode: code, Message: errorMessage(body)}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// requestTimeout is the configured timeout, shortened to the context deadline if sooner.
func (c *Client) requestTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			remaining = time.Millisecond
		}
		if timeout == 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

// errorMessage pulls the server's message out of an error body.
// Handlers send {"error": "..."}; the Fiber error handler sends {"error": true, "message": "..."}.
func errorMessage(body []byte) string {
	var payload struct {
		Error   interface{} `json:"error"`
		Message string      `json:"message"`
		Details string      `json:"details"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}

	msg := payload.Message
	if s, ok := payload.Error.(string); ok && s != "" {
		msg = s
	}
	switch {
	case payload.Details == "":
	case msg == "":
		msg = payload.Details
	default:
		msg += ": " + payload.Details
	}
	return msg
}
