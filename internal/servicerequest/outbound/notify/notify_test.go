package notify

import (
	"context"
	"testing"

	notification "github.com/shandysiswandi/greenvista/internal/notification/usecase"
	"github.com/shandysiswandi/greenvista/internal/pkg/instrument"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyServiceRequest(ctx context.Context, destination string, p notification.ServiceRequestPayload) error {
	return m.Called(ctx, destination, p).Error(0)
}

func TestNotify_RequestSubmitted(t *testing.T) {
	n := &mockNotifier{}
	n.On("NotifyServiceRequest", mock.Anything, "alice@example.com", notification.ServiceRequestPayload{
		OwnerName: "Alice",
		RequestID: "1234567890123",
		Type:      "plumbing",
		Details:   "Sink",
		Status:    "pending",
	}).Return(nil).Once()

	err := New(n, instrument.NewNoop()).RequestSubmitted(context.Background(),
		entity.Owner{ID: 7, Name: "Alice", Email: "alice@example.com"},
		entity.ServiceRequest{ID: 1234567890123, Type: "plumbing", Details: "Sink", Status: entity.StatusPending},
	)
	assert.NoError(t, err)
	n.AssertExpectations(t)
}
