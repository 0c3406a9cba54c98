package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) CreateFeedback(ctx context.Context, message, email string) error {
	args := m.Called(ctx, message, email)
	return args.Error(0)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		message string
		email   string
		reason  string
	}{
		{"valid", "love the app", "someone@gmail.com", ""},
		{"empty message", "   ", "someone@gmail.com", "All The Fields Must Be Filled."},
		{"non-gmail address", "love the app", "someone@example.com", "Please enter a valid email address."},
		{"missing domain", "love the app", "someone", "Please enter a valid email address."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.message, tt.email)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.reason, vErr.Reason)
		})
	}
}

func TestService_Submit(t *testing.T) {
	sender := new(MockSender)
	sender.On("CreateFeedback", mock.Anything, "love the app", "someone@gmail.com").Return(nil)

	svc := NewService(sender)
	err := svc.Submit(context.Background(), "love the app", "someone@gmail.com")

	assert.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestService_Submit_ValidationFailsBeforeNetwork(t *testing.T) {
	sender := new(MockSender)

	svc := NewService(sender)
	err := svc.Submit(context.Background(), "", "someone@gmail.com")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	sender.AssertNotCalled(t, "CreateFeedback", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Submit_BackendError(t *testing.T) {
	sender := new(MockSender)
	sender.On("CreateFeedback", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection refused"))

	svc := NewService(sender)
	err := svc.Submit(context.Background(), "love the app", "someone@gmail.com")

	assert.ErrorContains(t, err, "connection refused")
}
