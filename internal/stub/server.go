// Package stub is an in-memory stand-in for the bookstore backend, used for
// local development and end-to-end tests of the client.
package stub

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/example/bookstore-storefront/internal/backend"
	"github.com/example/bookstore-storefront/internal/catalog"
)

// Server holds the fixture catalog and the orders accepted so far.
type Server struct {
	mu         sync.Mutex
	books      []catalog.Book
	contents   map[int]catalog.Content
	orders     map[string]backend.Order // keyed by Idempotency-Key
	usedEmails map[string]bool
}

func NewServer() *Server {
	return &Server{
		books:      seedBooks(),
		contents:   seedContents(),
		orders:     make(map[string]backend.Order),
		usedEmails: make(map[string]bool),
	}
}

// Handler builds the HTTP router for the stub backend.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/books", s.listBooks)
		r.Get("/books/search", s.searchBooks)
		r.Get("/books/{id}/content", s.bookContent)
		r.Post("/create-payment-intent", s.createPaymentIntent)
		r.Post("/orders", s.createOrder)
		r.Post("/feedbacks", s.createFeedback)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	categoryID, _ := strconv.Atoi(r.URL.Query().Get("category_id"))

	var books []catalog.Book
	for _, b := range s.books {
		if categoryID == 0 || b.Category == categoryID {
			books = append(books, b)
		}
	}
	respondJSON(w, http.StatusOK, books)
}

func (s *Server) searchBooks(w http.ResponseWriter, r *http.Request) {
	categoryID, _ := strconv.Atoi(r.URL.Query().Get("category_id"))
	title := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("title")))

	var books []catalog.Book
	for _, b := range s.books {
		if categoryID != 0 && b.Category != categoryID {
			continue
		}
		if title == "" ||
			strings.Contains(strings.ToLower(b.Title), title) ||
			strings.Contains(strings.ToLower(b.Author), title) {
			books = append(books, b)
		}
	}
	respondJSON(w, http.StatusOK, books)
}

func (s *Server) bookContent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid book id", http.StatusBadRequest)
		return
	}
	content, ok := s.contents[id]
	if !ok {
		http.Error(w, "Book not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, content)
}

func (s *Server) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Amount <= 0 {
		http.Error(w, "amount must be positive", http.StatusUnprocessableEntity)
		return
	}

	secret := fmt.Sprintf("pi_stub_%s_secret_%s", uuid.NewString(), uuid.NewString())
	respondJSON(w, http.StatusOK, map[string]string{"clientSecret": secret})
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req backend.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Replay of a known idempotency key returns the original order.
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		if order, ok := s.orders[key]; ok {
			respondJSON(w, http.StatusOK, order)
			return
		}
	}

	if s.usedEmails[req.Email] {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The given data was invalid.",
			"errors":  map[string][]string{"email": {"The email has already been taken."}},
		})
		return
	}

	order := backend.Order{
		OrderID:     uuid.NewString(),
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Product:     req.Product,
		Status:      req.Status,
		Total:       req.Total,
	}
	s.usedEmails[req.Email] = true
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		s.orders[key] = order
	}

	respondJSON(w, http.StatusCreated, order)
}

func (s *Server) createFeedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
		Email   string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusUnprocessableEntity)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Feedback received"})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[STUB] %s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func seedBooks() []catalog.Book {
	return []catalog.Book{
		{BookID: 1, Title: "The Kite Runner", Author: "Khaled Hosseini", Price: 650, Disc: 10, Path: "covers/kite-runner.jpg", Category: 1},
		{BookID: 2, Title: "To Kill a Mockingbird", Author: "Harper Lee", Price: 500, Path: "covers/mockingbird.jpg", Category: 1},
		{BookID: 3, Title: "A Brief History of Time", Author: "Stephen Hawking", Price: 900, Disc: 25, Path: "covers/brief-history.jpg", Category: 2},
		{BookID: 4, Title: "The Selfish Gene", Author: "Richard Dawkins", Price: 750, Path: "covers/selfish-gene.jpg", Category: 2},
		{BookID: 5, Title: "Clean Code", Author: "Robert C. Martin", Price: 1200, Disc: 15, Path: "covers/clean-code.jpg", Category: 3},
	}
}

func seedContents() map[int]catalog.Content {
	return map[int]catalog.Content{
		1: {ContentID: 101, Description: "An unforgettable story of friendship and redemption set in Kabul."},
		2: {ContentID: 102, Description: "A classic of modern American literature on justice and childhood."},
		3: {ContentID: 103, Description: "From the Big Bang to black holes, cosmology for the general reader."},
		4: {ContentID: 104, Description: "The gene-centred view of evolution that reshaped biology."},
		5: {ContentID: 105, Description: "A handbook of agile software craftsmanship."},
	}
}
