package feedback

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`\S+@gmail\.com`)

// ValidationError is a local failure; the user can fix the form and resubmit.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Sender posts a feedback message to the backend.
type Sender interface {
	CreateFeedback(ctx context.Context, message, email string) error
}

// Service validates and submits feedback.
type Service struct {
	sender Sender
}

func NewService(sender Sender) *Service {
	return &Service{sender: sender}
}

// Validate checks the feedback form: message non-empty, email accepted by the
// storefront's address pattern.
func Validate(message, email string) error {
	if strings.TrimSpace(message) == "" {
		return &ValidationError{Reason: "All The Fields Must Be Filled."}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Reason: "Please enter a valid email address."}
	}
	return nil
}

// Submit validates the form and posts it.
func (s *Service) Submit(ctx context.Context, message, email string) error {
	if err := Validate(message, email); err != nil {
		return err
	}
	if err := s.sender.CreateFeedback(ctx, message, email); err != nil {
		return fmt.Errorf("submit feedback: %w", err)
	}
	return nil
}
