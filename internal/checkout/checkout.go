package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/example/bookstore-storefront/internal/backend"
	"github.com/example/bookstore-storefront/internal/cart"
	"github.com/example/bookstore-storefront/internal/payment"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrCheckoutInFlight = errors.New("checkout already in progress")

	// ErrCardIncomplete replaces the original flow's silent abort when the
	// card widget reported incomplete input.
	ErrCardIncomplete = &ValidationError{Reason: "card incomplete"}

	phonePattern = regexp.MustCompile(`^[0-9]{11}$`)
)

// Contact is the shipping/contact form input.
type Contact struct {
	Email   string
	Phone   string
	Address string
}

// ValidationError is a local, pre-network failure; the user can fix the form
// and retry.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// PaymentError means authorization or confirmation failed; no charge was
// captured and the order endpoint was never reached.
type PaymentError struct {
	Reason string
}

func (e *PaymentError) Error() string { return "payment failed: " + e.Reason }

// OrderError means order submission failed after the payment was captured.
// The cart is kept so the user can retry submission without re-paying.
type OrderError struct {
	Reason     string
	EmailTaken bool
}

func (e *OrderError) Error() string { return "order failed: " + e.Reason }

// Receipt is returned on a fully completed checkout.
type Receipt struct {
	OrderID  string
	Products []string
	Total    float64
}

// PaymentIntents requests a payment authorization from the backend. The
// amount is in minor units.
type PaymentIntents interface {
	CreatePaymentIntent(ctx context.Context, amount int64) (string, error)
}

// Orders submits the durable order record to the backend.
type Orders interface {
	CreateOrder(ctx context.Context, req backend.OrderRequest) (backend.Order, error)
}

// Orchestrator runs the checkout sequence: validate, authorize, confirm,
// submit order, clear cart. At most one checkout runs at a time.
type Orchestrator struct {
	intents   PaymentIntents
	orders    Orders
	confirmer payment.Confirmer
	cart      *cart.Cart

	inFlight atomic.Bool
}

func NewOrchestrator(intents PaymentIntents, orders Orders, confirmer payment.Confirmer, c *cart.Cart) *Orchestrator {
	return &Orchestrator{
		intents:   intents,
		orders:    orders,
		confirmer: confirmer,
		cart:      c,
	}
}

// ValidateContact checks the form fields: all three non-empty after trimming,
// phone exactly 11 digits.
func ValidateContact(c Contact) error {
	if strings.TrimSpace(c.Email) == "" ||
		strings.TrimSpace(c.Phone) == "" ||
		strings.TrimSpace(c.Address) == "" {
		return &ValidationError{Reason: "All fields must be filled."}
	}
	if !phonePattern.MatchString(strings.TrimSpace(c.Phone)) {
		return &ValidationError{Reason: "Please enter a valid phone number (11 digits)."}
	}
	return nil
}

// SubmitOrder runs the checkout sequence. No step is retried; a failure
// before confirmation leaves the cart untouched, and a failure after
// confirmation keeps the cart so order submission can be retried without
// re-payment.
func (o *Orchestrator) SubmitOrder(ctx context.Context, contact Contact, card payment.Card) (*Receipt, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, ErrCheckoutInFlight
	}
	defer o.inFlight.Store(false)

	// 1. Local validation, before any network call
	if err := ValidateContact(contact); err != nil {
		return nil, err
	}
	if !card.Complete() {
		return nil, ErrCardIncomplete
	}
	if o.cart.Len() == 0 {
		return nil, ErrEmptyCart
	}

	total := o.cart.Total()
	amount := int64(math.Round(total * 100))

	// 2. Payment authorization from the backend
	clientSecret, err := o.intents.CreatePaymentIntent(ctx, amount)
	if err != nil {
		return nil, &PaymentError{Reason: err.Error()}
	}

	// 3. Confirmation with the payment processor
	if err := o.confirmer.Confirm(ctx, clientSecret, card); err != nil {
		return nil, &PaymentError{Reason: err.Error()}
	}

	// 4. Order submission, only after confirmed payment
	titles := o.cart.Titles()
	order, err := o.orders.CreateOrder(ctx, backend.OrderRequest{
		Email:       strings.TrimSpace(contact.Email),
		PhoneNumber: strings.TrimSpace(contact.Phone),
		Address:     strings.TrimSpace(contact.Address),
		Product:     titles,
		Status:      "pending",
		Total:       total,
	})
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.EmailTaken() {
			return nil, &OrderError{Reason: "email already used", EmailTaken: true}
		}
		return nil, &OrderError{Reason: err.Error()}
	}

	// 5. Cart is cleared only once the backend acknowledged the order
	o.cart.Clear()
	log.Printf("[Checkout] order %s placed, total %s", order.OrderID, FormatPrice(total))

	return &Receipt{
		OrderID:  order.OrderID,
		Products: titles,
		Total:    total,
	}, nil
}

// FormatPrice renders a rupee amount the way the storefront displays it.
func FormatPrice(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("Rs. %.0f", v)
	}
	return fmt.Sprintf("Rs. %.2f", v)
}
