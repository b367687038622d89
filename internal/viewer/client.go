package viewer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/HarshG200/neuron-edtech/internal/models"
)

// ErrUnauthorized means the bearer token is missing or expired. Callers
// redirect to the sign-in flow instead of rendering an empty catalog.
var ErrUnauthorized = errors.New("unauthorized")

// ForbiddenError carries the server's human-readable rejection reason from a
// 403 on the materials endpoint.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

// TokenSource supplies the bearer token for each request. Returning an empty
// string means the user is signed out.
type TokenSource interface {
	Token() string
}

// Client is the portal API client used by the dashboard and viewer flows.
// Every request is decorated with the bearer token from the token source.
type Client struct {
	baseURL string
	tokens  TokenSource
	httpc   *http.Client
}

// NewClient creates a Client for the given API base URL.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// envelope mirrors the server's response shape.
type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

// Subjects fetches the visible catalog.
func (c *Client) Subjects(ctx context.Context) ([]models.Subject, error) {
	var data struct {
		Subjects []models.Subject `json:"subjects"`
	}
	if err := c.get(ctx, "/subjects", &data); err != nil {
		return nil, err
	}
	return data.Subjects, nil
}

// MySubscriptions fetches the signed-in user's subscriptions, all statuses.
func (c *Client) MySubscriptions(ctx context.Context) ([]models.Subscription, error) {
	var data struct {
		Subscriptions []models.Subscription `json:"subscriptions"`
	}
	if err := c.get(ctx, "/subscriptions/my", &data); err != nil {
		return nil, err
	}
	return data.Subscriptions, nil
}

// Materials fetches the subject's material list. A 403 comes back as a
// *ForbiddenError carrying the server's reason.
func (c *Client) Materials(ctx context.Context, subjectID string) ([]models.Material, error) {
	var data struct {
		Materials []models.Material `json:"materials"`
	}
	if err := c.get(ctx, "/materials/"+subjectID, &data); err != nil {
		return nil, err
	}
	return data.Materials, nil
}

// Updates fetches the active announcement feed.
func (c *Client) Updates(ctx context.Context) ([]models.Update, error) {
	var data struct {
		Updates []models.Update `json:"updates"`
	}
	if err := c.get(ctx, "/updates", &data); err != nil {
		return nil, err
	}
	return data.Updates, nil
}

// CreateOrder opens a gateway order for the subject.
func (c *Client) CreateOrder(ctx context.Context, subjectID string) (orderID string, amount int, err error) {
	var data struct {
		OrderID string `json:"order_id"`
		Amount  int    `json:"amount"`
	}
	body := map[string]string{"subject_id": subjectID}
	if err := c.post(ctx, "/payments/create-order", body, &data); err != nil {
		return "", 0, err
	}
	return data.OrderID, data.Amount, nil
}

// VerifyPayment submits the gateway checkout result. On success the caller
// re-fetches subscriptions to refresh the access map.
func (c *Client) VerifyPayment(ctx context.Context, req models.DummyVerify) error {
	return c.post(ctx, "/payments/verify", req, nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	const op = "viewer.Client.do"

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("%s: unexpected response: %w", op, err)
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return &ForbiddenError{Reason: env.Error}
	case resp.StatusCode >= 400:
		if env.Error != "" {
			return fmt.Errorf("%s: %s", op, env.Error)
		}
		return fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
