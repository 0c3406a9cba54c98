package stub

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bookstore-storefront/internal/backend"
	"github.com/example/bookstore-storefront/internal/catalog"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer().Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func postJSON(t *testing.T, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	return resp, buf.Bytes()
}

func TestServer_ListBooks_FiltersByCategory(t *testing.T) {
	srv := newTestServer(t)

	var books []catalog.Book
	getJSON(t, srv.URL+"/api/books?category_id=2", &books)

	require.Len(t, books, 2)
	for _, b := range books {
		assert.Equal(t, 2, b.Category)
	}
}

func TestServer_SearchBooks(t *testing.T) {
	srv := newTestServer(t)

	var books []catalog.Book
	getJSON(t, srv.URL+"/api/books/search?title=hawking&category_id=2", &books)

	require.Len(t, books, 1)
	assert.Equal(t, "A Brief History of Time", books[0].Title)
}

func TestServer_BookContent(t *testing.T) {
	srv := newTestServer(t)

	var content catalog.Content
	getJSON(t, srv.URL+"/api/books/1/content", &content)
	assert.Equal(t, 101, content.ContentID)
	assert.NotEmpty(t, content.Description)

	resp, err := http.Get(srv.URL + "/api/books/999/content")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_CreatePaymentIntent(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/create-payment-intent", map[string]int64{"amount": 50000}, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Contains(t, out["clientSecret"], "_secret_")
}

func TestServer_CreatePaymentIntent_RejectsNonPositiveAmount(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/api/create-payment-intent", map[string]int64{"amount": 0}, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestServer_CreateOrder_DuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	order := backend.OrderRequest{
		Email:       "a@x.com",
		PhoneNumber: "11111111111",
		Address:     "1 Rd",
		Product:     []string{"The Kite Runner"},
		Status:      "pending",
		Total:       585,
	}

	resp, _ := postJSON(t, srv.URL+"/api/orders", order, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := postJSON(t, srv.URL+"/api/orders", order, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var apiErr backend.APIError
	require.NoError(t, json.Unmarshal(body, &apiErr))
	assert.NotEmpty(t, apiErr.Errors["email"])
}

func TestServer_CreateOrder_IdempotencyReplay(t *testing.T) {
	srv := newTestServer(t)
	order := backend.OrderRequest{Email: "b@x.com", Status: "pending", Total: 100}
	headers := map[string]string{"Idempotency-Key": "key-1"}

	_, body1 := postJSON(t, srv.URL+"/api/orders", order, headers)
	resp2, body2 := postJSON(t, srv.URL+"/api/orders", order, headers)

	// Replaying the same key returns the original order instead of the
	// duplicate-email conflict.
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
	var o1, o2 backend.Order
	require.NoError(t, json.Unmarshal(body1, &o1))
	require.NoError(t, json.Unmarshal(body2, &o2))
	assert.Equal(t, o1.OrderID, o2.OrderID)
}

func TestServer_CreateFeedback(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/api/feedbacks", map[string]string{
		"message": "love the app",
		"email":   "someone@gmail.com",
	}, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = postJSON(t, srv.URL+"/api/feedbacks", map[string]string{"message": " "}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
