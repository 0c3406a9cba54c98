package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/example/bookstore-storefront/internal/catalog"
)

// OrderRequest is the payload POSTed to /api/orders. Field names follow the
// backend's wire contract.
type OrderRequest struct {
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phone_number"`
	Address     string   `json:"address"`
	Product     []string `json:"product"`
	Status      string   `json:"status"`
	Total       float64  `json:"total"`
}

// Order is the record the backend returns after creating an order.
type Order struct {
	OrderID     string   `json:"order_id"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phone_number"`
	Address     string   `json:"address"`
	Product     []string `json:"product"`
	Status      string   `json:"status"`
	Total       float64  `json:"total"`
}

// APIError is a non-2xx response from the backend. Errors carries the
// field-keyed validation messages a 422 response includes.
type APIError struct {
	StatusCode int
	Message    string              `json:"message"`
	Errors     map[string][]string `json:"errors"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend: unexpected status %d", e.StatusCode)
}

// EmailTaken reports whether the error is the duplicate-email conflict the
// orders endpoint signals with a 422 carrying an email validation entry.
func (e *APIError) EmailTaken() bool {
	return e.StatusCode == http.StatusUnprocessableEntity && len(e.Errors["email"]) > 0
}

// Client is the typed REST client for the bookstore backend.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// ListBooks fetches the catalog for a category.
func (c *Client) ListBooks(ctx context.Context, categoryID int) ([]catalog.Book, error) {
	q := url.Values{"category_id": {strconv.Itoa(categoryID)}}
	var books []catalog.Book
	if err := c.getJSON(ctx, "/api/books?"+q.Encode(), &books); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// SearchBooks queries the backend's title/author search within a category.
func (c *Client) SearchBooks(ctx context.Context, title string, categoryID int) ([]catalog.Book, error) {
	q := url.Values{
		"title":       {title},
		"category_id": {strconv.Itoa(categoryID)},
	}
	var books []catalog.Book
	if err := c.getJSON(ctx, "/api/books/search?"+q.Encode(), &books); err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return books, nil
}

// BookContent fetches the description record for a single book.
func (c *Client) BookContent(ctx context.Context, bookID int) (catalog.Content, error) {
	var content catalog.Content
	if err := c.getJSON(ctx, fmt.Sprintf("/api/books/%d/content", bookID), &content); err != nil {
		return catalog.Content{}, fmt.Errorf("book content: %w", err)
	}
	return content, nil
}

// CreatePaymentIntent asks the backend for a payment authorization. The amount
// is in minor units.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64) (string, error) {
	var resp struct {
		ClientSecret string `json:"clientSecret"`
	}
	body := map[string]int64{"amount": amount}
	if err := c.postJSON(ctx, "/api/create-payment-intent", body, &resp, nil); err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	if resp.ClientSecret == "" {
		return "", fmt.Errorf("create payment intent: empty client secret")
	}
	return resp.ClientSecret, nil
}

// CreateOrder submits the order record. Each attempt carries a fresh
// Idempotency-Key header so a retry after a transient failure can be
// de-duplicated server-side without re-payment.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	headers := http.Header{"Idempotency-Key": {uuid.NewString()}}
	var order Order
	if err := c.postJSON(ctx, "/api/orders", req, &order, headers); err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// CreateFeedback submits a feedback message.
func (c *Client) CreateFeedback(ctx context.Context, message, email string) error {
	body := map[string]string{"message": message, "email": email}
	if err := c.postJSON(ctx, "/api/feedbacks", body, nil, nil); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any, headers http.Header) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		// Body is best-effort; a bare status is still a usable error.
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		json.Unmarshal(data, apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
