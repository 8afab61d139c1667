package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"restaurant-client/internal/logger"
	"restaurant-client/internal/models"
)

// ErrNotFound is returned when the remote reports an empty result set or
// an unknown identifier.
var ErrNotFound = errors.New("not found")

// APIError is a server-reported failure: the remote answered with a
// non-2xx status and an error payload.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error (%d)", e.StatusCode)
}

// TokenSource supplies the current bearer credential. An empty string
// means "guest": the request goes out unauthenticated.
type TokenSource func() string

// Client talks to the remote restaurant/menu/order/auth service. One
// instance is shared by all commands; it holds no mutable state of its
// own beyond the injected token source.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	logger  *logger.Logger
}

// New creates an API client. token may be nil for a guest-only client.
func New(baseURL string, httpClient *http.Client, token TokenSource, log *logger.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		token:   token,
		logger:  log,
	}
}

// Restaurants lists restaurants, optionally filtered by name.
func (c *Client) Restaurants(ctx context.Context, nameFilter string) ([]models.Restaurant, error) {
	path := "/api/restaurants"
	if nameFilter != "" {
		path += "?name=" + url.QueryEscape(nameFilter)
	}
	var out []models.Restaurant
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Restaurant fetches one restaurant by id.
func (c *Client) Restaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	var out models.Restaurant
	if err := c.get(ctx, "/api/restaurants/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Menu fetches the menu items of one restaurant.
func (c *Client) Menu(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	var out []models.MenuItem
	if err := c.get(ctx, "/api/menu/"+url.PathEscape(restaurantID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

type authResponse struct {
	Token string `json:"token"`
	Role  string `json:"role,omitempty"`
}

// Login exchanges credentials for a bearer token and role.
func (c *Client) Login(ctx context.Context, email, password string) (token, role string, err error) {
	if err := ValidateCredentials(email, password); err != nil {
		return "", "", err
	}
	body := map[string]string{"email": email, "password": password}
	var out authResponse
	if err := c.post(ctx, "/api/auth/login", body, &out); err != nil {
		return "", "", err
	}
	if out.Token == "" {
		return "", "", &APIError{StatusCode: http.StatusOK, Message: "no token in response"}
	}
	return out.Token, out.Role, nil
}

// Register creates an account and returns a bearer token and role.
// Role is "customer" or "restaurantOwner".
func (c *Client) Register(ctx context.Context, name, email, password, role string) (token string, err error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("please fill in all fields")
	}
	if err := ValidateCredentials(email, password); err != nil {
		return "", err
	}
	body := map[string]string{"name": name, "email": email, "password": password, "role": role}
	var out authResponse
	if err := c.post(ctx, "/api/auth/register", body, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &APIError{StatusCode: http.StatusOK, Message: "no token in response"}
	}
	return out.Token, nil
}

// Profile fetches the bearer-authenticated user profile.
func (c *Client) Profile(ctx context.Context) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.get(ctx, "/api/auth/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile writes profile changes. An empty password means "keep
// the current one" and is omitted from the request body.
func (c *Client) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) error {
	return c.do(ctx, http.MethodPut, "/api/auth/profile", upd, nil)
}

// OrderStatus fetches the current status snapshot of one order. A
// response without a status field maps to ErrNotFound.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (*models.OrderStatusView, error) {
	var out models.OrderStatusView
	if err := c.get(ctx, "/api/orders/"+url.PathEscape(orderID)+"/status", &out); err != nil {
		return nil, err
	}
	if out.Status == "" {
		return nil, ErrNotFound
	}
	if out.OrderID == "" {
		out.OrderID = orderID
	}
	return &out, nil
}

type paymentHistoryResponse struct {
	Payments []models.Payment `json:"payments"`
}

// PaymentHistory lists past charges for the authenticated user.
func (c *Client) PaymentHistory(ctx context.Context) ([]models.Payment, error) {
	var out paymentHistoryResponse
	if err := c.get(ctx, "/api/payments/history", &out); err != nil {
		return nil, err
	}
	return out.Payments, nil
}

type paymentIntentResponse struct {
	PaymentIntent models.PaymentIntent `json:"paymentIntent"`
}

// CreatePaymentIntent creates a payment intent for the given amount in
// minor units and returns it together with the created order id.
func (c *Client) CreatePaymentIntent(ctx context.Context, amountMinor int64) (*models.PaymentIntent, error) {
	if amountMinor <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", amountMinor)
	}
	body := map[string]any{"amount": amountMinor, "savePaymentMethod": true}
	var out paymentIntentResponse
	if err := c.post(ctx, "/api/payments/intent", body, &out); err != nil {
		return nil, err
	}
	return &out.PaymentIntent, nil
}

// CreateReview submits a restaurant review. Rating is 1..5.
func (c *Client) CreateReview(ctx context.Context, restaurantID string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}
	body := map[string]any{"restaurantId": restaurantID, "rating": rating, "comment": comment}
	return c.post(ctx, "/api/reviews/create", body, nil)
}

// CreateRestaurant registers a new restaurant. Name and description are
// both required.
func (c *Client) CreateRestaurant(ctx context.Context, name, description string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(description) == "" {
		return errors.New("please fill in all fields")
	}
	body := map[string]string{"name": name, "description": description}
	return c.post(ctx, "/api/restaurants", body, nil)
}

// UpdateRestaurant rewrites a restaurant's name and description.
func (c *Client) UpdateRestaurant(ctx context.Context, id, name, description string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(description) == "" {
		return errors.New("please fill in all fields")
	}
	body := map[string]string{"name": name, "description": description}
	return c.do(ctx, http.MethodPut, "/api/restaurants/"+url.PathEscape(id), body, nil)
}

// DeleteRestaurant removes a restaurant.
func (c *Client) DeleteRestaurant(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/restaurants/"+url.PathEscape(id), nil, nil)
}

// RestaurantProfile fetches the bearer-authenticated owner's restaurant.
func (c *Client) RestaurantProfile(ctx context.Context) (*models.Restaurant, error) {
	var out models.Restaurant
	if err := c.get(ctx, "/api/restaurants/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRestaurantProfile writes the owner-editable description of the
// owner's restaurant. The server expects this endpoint as a form upload.
func (c *Client) UpdateRestaurantProfile(ctx context.Context, restaurantID, description string) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("description", description); err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}

	path := "/api/restaurants/update/" + url.PathEscape(restaurantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	return c.send(req, nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	if c.logger != nil {
		c.logger.Debug("api_request", "", fmt.Sprintf("%s %s", req.Method, req.URL.Path))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: decodeErrorMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeErrorMessage pulls the message field out of a server error
// payload, tolerating bodies that are not JSON.
func decodeErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(data))
}
