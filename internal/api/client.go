package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"courierdash/internal/apierr"
	"courierdash/internal/model"
)

// Courier is the surface of the remote courier API that the dashboards use.
type Courier interface {
	Login(ctx context.Context, email, password string) (*model.AuthResult, error)
	RegisterCustomer(ctx context.Context, reg model.Registration) error
	RegisterAdmin(ctx context.Context, token string, reg model.Registration) error
	Track(ctx context.Context, trackingID string) (*model.TrackResult, error)
	Stats(ctx context.Context, token string) (*model.Stats, error)
	ListShipments(ctx context.Context, token string) ([]model.Shipment, error)
	CreateShipment(ctx context.Context, token string, s model.NewShipment) (*model.CreatedShipment, error)
	UpdateStatus(ctx context.Context, token string, shipmentID uint, upd model.StatusUpdate) error
	DeleteShipment(ctx context.Context, token string, shipmentID uint) error
	History(ctx context.Context, token string, shipmentID uint) ([]model.TrackingEvent, error)
	ListUsers(ctx context.Context, token string) ([]model.User, error)
	ToggleUser(ctx context.Context, token string, userID uint) error
	UpdateUser(ctx context.Context, token string, userID uint, upd model.UserUpdate) error
	DeleteUser(ctx context.Context, token string, userID uint) error
}

// Client talks to the courier REST API. Every method issues exactly one
// request and never retries; the caller decides what happens next.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ Courier = (*Client)(nil)

// NewClient creates a client for the given API root, e.g. "http://host:5002/api".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Do issues one request against the API. A non-empty token is attached as a
// bearer credential. On a non-2xx response the JSON body's "error" field is
// surfaced when present, with a generic fallback otherwise.
func (c *Client) Do(ctx context.Context, method, path string, body interface{}, token string) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", apierr.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp.StatusCode, raw)
	}
	return raw, nil
}

func decodeError(status int, raw []byte) error {
	var body struct {
		Error string `json:"error"`
	}
	message := apierr.GenericMessage
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		message = body.Error
	}
	return &apierr.APIError{Status: status, Message: message}
}

func (c *Client) get(ctx context.Context, path, token string, out interface{}) error {
	raw, err := c.Do(ctx, http.MethodGet, path, nil, token)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Login authenticates against the API and returns the issued token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (*model.AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	raw, err := c.Do(ctx, http.MethodPost, "/login", body, "")
	if err != nil {
		return nil, err
	}
	var result model.AuthResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	return &result, nil
}

// RegisterCustomer creates a customer account. No credential is required.
func (c *Client) RegisterCustomer(ctx context.Context, reg model.Registration) error {
	_, err := c.Do(ctx, http.MethodPost, "/register/customer", reg, "")
	return err
}

// RegisterAdmin creates an admin account on behalf of a superadmin.
func (c *Client) RegisterAdmin(ctx context.Context, token string, reg model.Registration) error {
	_, err := c.Do(ctx, http.MethodPost, "/register/admin", reg, token)
	return err
}

// Track performs the public tracking lookup for a tracking ID.
func (c *Client) Track(ctx context.Context, trackingID string) (*model.TrackResult, error) {
	var result model.TrackResult
	if err := c.get(ctx, "/track/"+trackingID, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Stats fetches the overview counters scoped to the caller's role.
func (c *Client) Stats(ctx context.Context, token string) (*model.Stats, error) {
	var stats model.Stats
	if err := c.get(ctx, "/stats", token, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListShipments fetches the shipments visible to the caller, newest first.
func (c *Client) ListShipments(ctx context.Context, token string) ([]model.Shipment, error) {
	var shipments []model.Shipment
	if err := c.get(ctx, "/shipments", token, &shipments); err != nil {
		return nil, err
	}
	return shipments, nil
}

// CreateShipment submits a new shipment and returns the generated tracking ID.
func (c *Client) CreateShipment(ctx context.Context, token string, s model.NewShipment) (*model.CreatedShipment, error) {
	raw, err := c.Do(ctx, http.MethodPost, "/shipments", s, token)
	if err != nil {
		return nil, err
	}
	var created model.CreatedShipment
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("decode create response: %w", err)
	}
	return &created, nil
}

// UpdateStatus proposes a status change; the server validates the transition.
func (c *Client) UpdateStatus(ctx context.Context, token string, shipmentID uint, upd model.StatusUpdate) error {
	_, err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/shipments/%d/status", shipmentID), upd, token)
	return err
}

// DeleteShipment removes a shipment and its history.
func (c *Client) DeleteShipment(ctx context.Context, token string, shipmentID uint) error {
	_, err := c.Do(ctx, http.MethodDelete, fmt.Sprintf("/shipments/%d", shipmentID), nil, token)
	return err
}

// History fetches a shipment's tracking events, oldest first.
func (c *Client) History(ctx context.Context, token string, shipmentID uint) ([]model.TrackingEvent, error) {
	var events []model.TrackingEvent
	if err := c.get(ctx, fmt.Sprintf("/shipments/%d/history", shipmentID), token, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListUsers fetches all user accounts. Superadmin only.
func (c *Client) ListUsers(ctx context.Context, token string) ([]model.User, error) {
	var users []model.User
	if err := c.get(ctx, "/users", token, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ToggleUser flips a user's active flag.
func (c *Client) ToggleUser(ctx context.Context, token string, userID uint) error {
	_, err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/users/%d/toggle", userID), nil, token)
	return err
}

// UpdateUser changes a user's editable profile fields.
func (c *Client) UpdateUser(ctx context.Context, token string, userID uint, upd model.UserUpdate) error {
	_, err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", userID), upd, token)
	return err
}

// DeleteUser permanently removes a user account.
func (c *Client) DeleteUser(ctx context.Context, token string, userID uint) error {
	_, err := c.Do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", userID), nil, token)
	return err
}
