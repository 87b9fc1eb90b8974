package notifier_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace/internal/adapters/out/notifier"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) ListUnpublished(
	ctx context.Context, limit, maxAttempts int,
) ([]*notification.Notification, error) {
	args := m.Called(ctx, limit, maxAttempts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.Notification), args.Error(1)
}

type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func newDraft() notification.Draft {
	return notification.Draft{
		OrderID:     kernel.NewUUID(),
		RecipientID: kernel.NewUUID(),
		ActorID:     kernel.NewUUID(),
		Type:        notification.TypeDeliveryStarted,
		Message:     "Your order is on its way",
	}
}

func newStored(t *testing.T) *notification.Notification {
	t.Helper()
	n, err := notification.New(kernel.NewUUID(), newDraft(), fixedNow)
	require.NoError(t, err)
	return n
}

func newDispatcher(t *testing.T, repo *MockNotificationRepository, pub *MockMessagePublisher) *notifier.Dispatcher {
	t.Helper()
	d, err := notifier.NewDispatcher(repo, pub, nil)
	require.NoError(t, err)
	return d.WithClock(func() time.Time { return fixedNow }).WithMaxAttempts(3)
}

func TestNewDispatcher_RequiresDependencies(t *testing.T) {
	_, err := notifier.NewDispatcher(nil, &MockMessagePublisher{}, nil)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = notifier.NewDispatcher(&MockNotificationRepository{}, nil, nil)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestDispatcher_Publish_StoresThenPublishes(t *testing.T) {
	ctx := context.Background()
	repo := &MockNotificationRepository{}
	pub := &MockMessagePublisher{}
	draft := newDraft()

	stored := mock.MatchedBy(func(n *notification.Notification) bool {
		return n.OrderID() == draft.OrderID && n.CreatedAt().Equal(fixedNow)
	})
	published := mock.MatchedBy(func(n *notification.Notification) bool {
		return n.Published() && n.Attempts() == 1
	})

	mock.InOrder(
		repo.On("Add", ctx, stored).Return(nil).Once(),
		pub.On("Publish", ctx, stored).Return(nil).Once(),
		repo.On("Update", ctx, published).Return(nil).Once(),
	)

	err := newDispatcher(t, repo, pub).Publish(ctx, draft)

	require.NoError(t, err)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestDispatcher_Publish_BrokerDownKeepsRowForRelay(t *testing.T) {
	ctx := context.Background()
	repo := &MockNotificationRepository{}
	pub := &MockMessagePublisher{}

	repo.On("Add", ctx, mock.Anything).Return(nil).Once()
	pub.On("Publish", ctx, mock.Anything).Return(errors.New("connection refused")).Once()
	repo.On("Update", ctx, mock.MatchedBy(func(n *notification.Notification) bool {
		return !n.Published() && n.Attempts() == 1 && n.LastError() == "connection refused"
	})).Return(nil).Once()

	err := newDispatcher(t, repo, pub).Publish(ctx, newDraft())

	require.NoError(t, err)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestDispatcher_Publish_StoreFailure(t *testing.T) {
	ctx := context.Background()
	repo := &MockNotificationRepository{}
	pub := &MockMessagePublisher{}

	repo.On("Add", ctx, mock.Anything).Return(errors.New("db down")).Once()

	err := newDispatcher(t, repo, pub).Publish(ctx, newDraft())

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNotificationFailed)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestDispatcher_Publish_InvalidDraft(t *testing.T) {
	repo := &MockNotificationRepository{}
	pub := &MockMessagePublisher{}
	draft := newDraft()
	draft.Message = ""

	err := newDispatcher(t, repo, pub).Publish(context.Background(), draft)

	assert.ErrorIs(t, err, errs.ErrNotificationFailed)
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestDispatcher_Relay(t *testing.T) {
	ctx := context.Background()
	repo := &MockNotificationRepository{}
	pub := &MockMessagePublisher{}
	first, second := newStored(t), newStored(t)

	repo.On("ListUnpublished", ctx, 20, 3).
		Return([]*notification.Notification{first, second}, nil).Once()
	pub.On("Publish", ctx, first).Return(nil).Once()
	pub.On("Publish", ctx, second).Return(errors.New("channel closed")).Once()
	repo.On("Update", ctx, first).Return(nil).Once()
	repo.On("Update", ctx, second).Return(nil).Once()

	sent, err := newDispatcher(t, repo, pub).Relay(ctx, 20)

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.True(t, first.Published())
	assert.False(t, second.Published())
	assert.Equal(t, 1, second.Attempts())
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestDispatcher_Relay_ListFailure(t *testing.T) {
	ctx := context.Background()
	repo := &MockNotificationRepository{}
	repo.On("ListUnpublished", ctx, 5, 3).Return(nil, errors.New("db down")).Once()

	sent, err := newDispatcher(t, repo, &MockMessagePublisher{}).Relay(ctx, 5)

	require.Error(t, err)
	assert.Zero(t, sent)
}
