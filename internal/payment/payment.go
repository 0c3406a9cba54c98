package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrBadClientSecret = errors.New("malformed client secret")

// Card is the card input collected by the checkout form.
type Card struct {
	Number   string
	ExpMonth string
	ExpYear  string
	CVC      string
}

// Complete reports whether every card field has been filled in, the readiness
// flag the mobile card widget used to expose.
func (c Card) Complete() bool {
	return strings.TrimSpace(c.Number) != "" &&
		strings.TrimSpace(c.ExpMonth) != "" &&
		strings.TrimSpace(c.ExpYear) != "" &&
		strings.TrimSpace(c.CVC) != ""
}

// Confirmer consumes a payment authorization. A confirmation error means no
// charge was captured.
type Confirmer interface {
	Confirm(ctx context.Context, clientSecret string, card Card) error
}

// StripeConfirmer confirms payment intents against a Stripe-style API.
type StripeConfirmer struct {
	baseURL string
	key     string
	http    *http.Client
}

func NewStripeConfirmer(baseURL, key string, timeout time.Duration) *StripeConfirmer {
	return &StripeConfirmer{
		baseURL: baseURL,
		key:     key,
		http:    &http.Client{Timeout: timeout},
	}
}

// Confirm posts a card confirmation for the intent named by the client secret.
func (s *StripeConfirmer) Confirm(ctx context.Context, clientSecret string, card Card) error {
	intentID, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("client_secret", clientSecret)
	form.Set("payment_method_data[type]", "card")
	form.Set("payment_method_data[card][number]", card.Number)
	form.Set("payment_method_data[card][exp_month]", card.ExpMonth)
	form.Set("payment_method_data[card][exp_year]", card.ExpYear)
	form.Set("payment_method_data[card][cvc]", card.CVC)

	endpoint := fmt.Sprintf("%s/v1/payment_intents/%s/confirm", s.baseURL, intentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.key)

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		json.Unmarshal(data, &body)
		if body.Error.Message != "" {
			return fmt.Errorf("payment confirmation: %s", body.Error.Message)
		}
		return fmt.Errorf("payment confirmation: unexpected status %d", resp.StatusCode)
	}

	var intent struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &intent); err != nil {
		return fmt.Errorf("payment confirmation: %w", err)
	}
	if intent.Status != "succeeded" && intent.Status != "requires_capture" {
		return fmt.Errorf("payment confirmation: intent status %q", intent.Status)
	}
	return nil
}

// intentIDFromSecret extracts "pi_xxx" from a "pi_xxx_secret_yyy" token.
func intentIDFromSecret(secret string) (string, error) {
	id, _, ok := strings.Cut(secret, "_secret_")
	if !ok || id == "" {
		return "", ErrBadClientSecret
	}
	return id, nil
}
