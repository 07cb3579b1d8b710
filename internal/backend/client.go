package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/hackgods/clinic-admin/internal/clinic"
)

const (
	ResourcePatients     = "patients"
	ResourceDoctors      = "doctors"
	ResourceAppointments = "appointments"
)

// TokenSource yields the bearer credential for each outgoing request. An
// empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Envelope is the response shape every backend endpoint answers with.
type Envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

const StatusSuccess = "success"

// Error is a failed backend call: either a non-2xx HTTP status or an
// envelope whose status is not "success".
type Error struct {
	StatusCode int
	Message    string
	Err        error // optional domain cause
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend responded with status %d", e.StatusCode)
}

func (e *Error) Is(target error) bool {
	switch target {
	case clinic.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case clinic.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

func (e *Error) Unwrap() error { return e.Err }

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
	}
}

// do sends one request and decodes the envelope's data into out when out is
// non-nil.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("read session token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("method=%s path=%s error=%q", method, path, err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response envelope: %w", decodeErr)
	}
	if env.Status != StatusSuccess {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("unexpected response status %q", env.Status)
		}
		return &Error{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

func (c *Client) Login(ctx context.Context, creds clinic.Credentials) (clinic.LoginResult, error) {
	var res clinic.LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &res); err != nil {
		var berr *Error
		if errors.As(err, &berr) && berr.StatusCode == http.StatusUnauthorized {
			berr.Err = clinic.ErrInvalidCredentials
			return clinic.LoginResult{}, berr
		}
		return clinic.LoginResult{}, err
	}
	if res.Token == "" {
		return clinic.LoginResult{}, errors.New("login response carried no token")
	}
	return res, nil
}

func (c *Client) Register(ctx context.Context, req clinic.RegisterRequest) (clinic.Identity, error) {
	var id clinic.Identity
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &id); err != nil {
		return clinic.Identity{}, err
	}
	return id, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Resource is the HTTP implementation of clinic.Resource for one collection.
type Resource[T any] struct {
	client *Client
	name   string
}

func NewResource[T any](client *Client, name string) *Resource[T] {
	return &Resource[T]{client: client, name: name}
}

func (r *Resource[T]) path(id int64) string {
	return "/" + r.name + "/" + strconv.FormatInt(id, 10)
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.client.do(ctx, http.MethodGet, "/"+r.name, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r *Resource[T]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	err := r.client.do(ctx, http.MethodGet, r.path(id), nil, &out)
	return out, err
}

func (r *Resource[T]) Create(ctx context.Context, rec T) (T, error) {
	var out T
	err := r.client.do(ctx, http.MethodPost, "/"+r.name, rec, &out)
	return out, err
}

func (r *Resource[T]) Update(ctx context.Context, id int64, rec T) (T, error) {
	var out T
	err := r.client.do(ctx, http.MethodPut, r.path(id), rec, &out)
	return out, err
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.client.do(ctx, http.MethodDelete, r.path(id), nil, nil)
}

func (c *Client) Patients() *Resource[clinic.Patient] {
	return NewResource[clinic.Patient](c, ResourcePatients)
}

func (c *Client) Doctors() *Resource[clinic.Doctor] {
	return NewResource[clinic.Doctor](c, ResourceDoctors)
}

func (c *Client) Appointments() *Resource[clinic.Appointment] {
	return NewResource[clinic.Appointment](c, ResourceAppointments)
}
