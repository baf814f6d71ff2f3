package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-push-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockRegistry struct{ mock.Mock }

func (m *mockRegistry) Lookup(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}
func (m *mockRegistry) ListAll(ctx context.Context) ([]domain.PushToken, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.PushToken), args.Error(1)
}

type mockLog struct {
	mock.Mock
	records []*domain.Notification
}

func (m *mockLog) Put(ctx context.Context, n *domain.Notification) error {
	m.records = append(m.records, n)
	return m.Called(ctx, n).Error(0)
}

type mockTransport struct{ mock.Mock }

func (m *mockTransport) Send(ctx context.Context, msg domain.PushMessage) (*domain.PushReceipt, error) {
	args := m.Called(ctx, msg)
	if r, _ := args.Get(0).(*domain.PushReceipt); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func okReceipt() *domain.PushReceipt {
	return &domain.PushReceipt{Data: domain.PushReceiptData{Status: "ok", ID: "receipt-1"}}
}

func notRegistered(userID string) error {
	return fmt.Errorf("no push token for user %s: %w", userID, domain.ErrNotRegistered)
}

func newDispatcher(reg *mockRegistry, log *mockLog, tr *mockTransport) Service {
	return NewService(reg, log, tr, 5*time.Second)
}

// --- SendOne tests ---

func TestSendOne_Success_LogsSentAndReturnsReceipt(t *testing.T) {
	reg := &mockRegistry{}
	reg.On("Lookup", mock.Anything, "userA").Return("tokA", nil)

	tr := &mockTransport{}
	var sentMsg domain.PushMessage
	tr.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sentMsg = args.Get(1).(domain.PushMessage)
	}).Return(okReceipt(), nil)

	log := &mockLog{}
	log.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := newDispatcher(reg, log, tr)
	receipt, err := svc.SendOne(context.Background(), "userA", "Hi", "Body", nil)

	require.NoError(t, err)
	assert.True(t, receipt.OK())

	// Envelope carries the resolved address plus the fixed delivery options.
	assert.Equal(t, "tokA", sentMsg.To)
	assert.Equal(t, "Hi", sentMsg.Title)
	assert.Equal(t, "Body", sentMsg.Body)
	assert.Equal(t, "default", sentMsg.Sound)
	assert.Equal(t, "high", sentMsg.Priority)
	assert.Equal(t, "default", sentMsg.ChannelID)
	assert.NotNil(t, sentMsg.Data)

	require.Len(t, log.records, 1)
	rec := log.records[0]
	assert.Equal(t, "userA", rec.RecipientID)
	assert.Equal(t, domain.StatusSent, rec.Status)
	assert.NotEmpty(t, rec.NotificationID)
	assert.Positive(t, rec.SentAt)
	assert.Nil(t, rec.ReadAt)
}

func TestSendOne_UnregisteredRecipient_NoRecordWritten(t *testing.T) {
	reg := &mockRegistry{}
	reg.On("Lookup", mock.Anything, "userZ").Return("", notRegistered("userZ"))

	tr := &mockTransport{}
	log := &mockLog{}

	svc := newDispatcher(reg, log, tr)
	_, err := svc.SendOne(context.Background(), "userZ", "Hi", "Body", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotRegistered))
	tr.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	log.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	assert.Empty(t, log.records)
}

func TestSendOne_TransportError_LogsFailedThenSurfaces(t *testing.T) {
	reg := &mockRegistry{}
	reg.On("Lookup", mock.Anything, "userA").Return("tokA", nil)

	tr := &mockTransport{}
	tr.On("Send", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	log := &mockLog{}
	log.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := newDispatcher(reg, log, tr)
	_, err := svc.SendOne(context.Background(), "userA", "Hi", "Body", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransport))

	// The failure is logged before the error surfaces.
	require.Len(t, log.records, 1)
	assert.Equal(t, domain.StatusFailed, log.records[0].Status)
}

func TestSendOne_NonOKReceipt_LogsFailedWithoutError(t *testing.T) {
	reg := &mockRegistry{}
	reg.On("Lookup", mock.Anything, "userA").Return("tokA", nil)

	rejected := &domain.PushReceipt{Data: domain.PushReceiptData{Status: "error", Message: "DeviceNotRegistered"}}
	tr := &mockTransport{}
	tr.On("Send", mock.Anything, mock.Anything).Return(rejected, nil)

	log := &mockLog{}
	log.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := newDispatcher(reg, log, tr)
	receipt, err := svc.SendOne(context.Background(), "userA", "Hi", "Body", nil)

	// The raw receipt goes back to the caller even though the log says failed.
	require.NoError(t, err)
	assert.False(t, receipt.OK())
	require.Len(t, log.records, 1)
	assert.Equal(t, domain.StatusFailed, log.records[0].Status)
}

// --- SendBulk tests ---

func TestSendBulk_PositionalOutcomes_FailureDoesNotAbort(t *testing.T) {
	reg := &mockRegistry{}
	reg.On("Lookup", mock.Anything, "a").Return("tokA", nil)
	reg.On("Lookup", mock.Anything, "b").Return("", notRegistered("b"))
	reg.On("Lookup", mock.Anything, "c").Return("tokC", nil)

	tr := &mockTransport{}
	tr.On("Send", mock.Anything, mock.Anything).Return(okReceipt(), nil)

	log := &mockLog{}
	log.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := newDispatcher(reg, log, tr)
	results := svc.SendBulk(context.Background(), []string{"a", "b", "c"}, "Hi", "Body", nil)

	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].RecipientID)
	assert.True(t, results[0].Success)
	assert.NotNil(t, results[0].Result)

	assert.Equal(t, "b", results[1].RecipientID)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "recipient not registered")

	assert.Equal(t, "c", results[2].RecipientID)
	assert.True(t, results[2].Success)

	// Only the two registered recipients produced log records.
	assert.Len(t, log.records, 2)
}

func TestSendBulk_EmptyInput_EmptyOutput(t *testing.T) {
	svc := newDispatcher(&mockRegistry{}, &mockLog{}, &mockTransport{})
	results := svc.SendBulk(context.Background(), nil, "Hi", "Body", nil)
	assert.Empty(t, results)
}

// --- SendToAll tests ---

func TestSendToAll_SummaryTotalsAlwaysAddUp(t *testing.T) {
	reg := &mockRegistry{}
	reg.On("ListAll", mock.Anything).Return([]domain.PushToken{
		{UserID: "a", Token: "tokA"},
		{UserID: "b", Token: "tokB"},
		{UserID: "c", Token: "tokC"},
	}, nil)
	reg.On("Lookup", mock.Anything, "a").Return("tokA", nil)
	reg.On("Lookup", mock.Anything, "b").Return("tokB", nil)
	reg.On("Lookup", mock.Anything, "c").Return("tokC", nil)

	tr := &mockTransport{}
	tr.On("Send", mock.Anything, mock.MatchedBy(func(m domain.PushMessage) bool {
		return m.To == "tokB"
	})).Return(nil, errors.New("boom"))
	tr.On("Send", mock.Anything, mock.Anything).Return(okReceipt(), nil)

	log := &mockLog{}
	log.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := newDispatcher(reg, log, tr)
	summary, err := svc.SendToAll(context.Background(), "Hi", "Body", nil)

	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, summary.Total, summary.Successful+summary.Failed)
	require.Len(t, summary.Results, 3)
	assert.True(t, summary.Results[0].Success)
	assert.False(t, summary.Results[1].Success)
	assert.True(t, summary.Results[2].Success)

	// One record per recipient, including the failed one.
	require.Len(t, log.records, 3)
	statuses := map[string]string{}
	for _, r := range log.records {
		statuses[r.RecipientID] = r.Status
	}
	assert.Equal(t, domain.StatusSent, statuses["a"])
	assert.Equal(t, domain.StatusFailed, statuses["b"])
	assert.Equal(t, domain.StatusSent, statuses["c"])
}

func TestSendToAll_EmptyRegistry(t *testing.T) {
	reg := &mockRegistry{}
	reg.On("ListAll", mock.Anything).Return([]domain.PushToken{}, nil)

	svc := newDispatcher(reg, &mockLog{}, &mockTransport{})
	summary, err := svc.SendToAll(context.Background(), "Hi", "Body", nil)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Empty(t, summary.Results)
}
