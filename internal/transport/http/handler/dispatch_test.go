package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-push-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDispatcherService struct{ mock.Mock }

func (m *mockDispatcherService) SendOne(ctx context.Context, recipientID, title, body string, data map[string]interface{}) (*domain.PushReceipt, error) {
	args := m.Called(ctx, recipientID, title, body, data)
	if r := args.Get(0); r != nil {
		return r.(*domain.PushReceipt), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockDispatcherService) SendBulk(ctx context.Context, recipientIDs []string, title, body string, data map[string]interface{}) []domain.Outcome {
	args := m.Called(ctx, recipientIDs, title, body, data)
	return args.Get(0).([]domain.Outcome)
}
func (m *mockDispatcherService) SendToAll(ctx context.Context, title, body string, data map[string]interface{}) (*domain.BroadcastSummary, error) {
	args := m.Called(ctx, title, body, data)
	if s := args.Get(0); s != nil {
		return s.(*domain.BroadcastSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRegistryService struct{ mock.Mock }

func (m *mockRegistryService) Register(ctx context.Context, userID string, req domain.RegisterTokenRequest) (string, error) {
	args := m.Called(ctx, userID, req)
	return args.String(0), args.Error(1)
}
func (m *mockRegistryService) Lookup(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}
func (m *mockRegistryService) ReverseLookup(ctx context.Context, token string) (*domain.PushToken, error) {
	args := m.Called(ctx, token)
	if t := args.Get(0); t != nil {
		return t.(*domain.PushToken), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRegistryService) ListAll(ctx context.Context) ([]domain.PushToken, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.PushToken), args.Error(1)
}

type mockExportService struct{ mock.Mock }

func (m *mockExportService) Export(ctx context.Context, recipientID string) (string, int, error) {
	args := m.Called(ctx, recipientID)
	return args.String(0), args.Int(1), args.Error(2)
}

func newDispatchHandler() (*DispatchHandler, *mockDispatcherService, *mockRegistryService, *mockExportService) {
	d := &mockDispatcherService{}
	r := &mockRegistryService{}
	e := &mockExportService{}
	return NewDispatchHandler(d, r, e), d, r, e
}

func TestSendHandler_OK(t *testing.T) {
	h, d, _, _ := newDispatchHandler()
	receipt := &domain.PushReceipt{Data: domain.PushReceiptData{Status: "ok", ID: "r1"}}
	d.On("SendOne", mock.Anything, "userA", "Title", "Body", mock.Anything).Return(receipt, nil)

	body := `{"recipient_id":"userA","title":"Title","body":"Body"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/notifications/send", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Send(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.PushReceipt
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.True(t, got.OK())
	assert.Equal(t, "r1", got.Data.ID)
}

func TestSendHandler_InvalidJSON(t *testing.T) {
	h, d, _, _ := newDispatchHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/notifications/send", strings.NewReader(`{`))
	rr := httptest.NewRecorder()
	h.Send(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	d.AssertNotCalled(t, "SendOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendHandler_MissingFields(t *testing.T) {
	h, d, _, _ := newDispatchHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/notifications/send", strings.NewReader(`{"title":"no recipient"}`))
	rr := httptest.NewRecorder()
	h.Send(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	d.AssertNotCalled(t, "SendOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendHandler_UnregisteredRecipient_NotFound(t *testing.T) {
	h, d, _, _ := newDispatchHandler()
	d.On("SendOne", mock.Anything, "ghost", "Title", "Body", mock.Anything).
		Return(nil, fmt.Errorf("no push token for user ghost: %w", domain.ErrNotRegistered))

	body := `{"recipient_id":"ghost","title":"Title","body":"Body"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/notifications/send", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Send(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSendHandler_TransportFailure_BadGateway(t *testing.T) {
	h, d, _, _ := newDispatchHandler()
	d.On("SendOne", mock.Anything, "userA", "Title", "Body", mock.Anything).
		Return(nil, fmt.Errorf("send to userA: connection refused: %w", domain.ErrTransport))

	body := `{"recipient_id":"userA","title":"Title","body":"Body"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/notifications/send", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Send(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestSendBulkHandler_PositionalResults(t *testing.T) {
	h, d, _, _ := newDispatchHandler()
	outcomes := []domain.Outcome{
		{RecipientID: "a", Success: true},
		{RecipientID: "b", Success: false, Error: "no push token"},
	}
	d.On("SendBulk", mock.Anything, []string{"a", "b"}, "T", "B", mock.Anything).Return(outcomes)

	body := `{"recipient_ids":["a","b"],"title":"T","body":"B"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/notifications/send-bulk", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.SendBulk(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got []domain.Outcome
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].RecipientID)
	assert.True(t, got[0].Success)
	assert.False(t, got[1].Success)
}

func TestBroadcastHandler_SummaryPassthrough(t *testing.T) {
	h, d, _, _ := newDispatchHandler()
	summary := &domain.BroadcastSummary{Total: 5, Successful: 4, Failed: 1}
	d.On("SendToAll", mock.Anything, "T", "B", mock.Anything).Return(summary, nil)

	body := `{"title":"T","body":"B"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/notifications/broadcast", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Broadcast(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.BroadcastSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 5, got.Total)
	assert.Equal(t, 4, got.Successful)
	assert.Equal(t, 1, got.Failed)
}

func TestExportHandler_EmptyBody_ExportsEverything(t *testing.T) {
	h, _, _, e := newDispatchHandler()
	e.On("Export", mock.Anything, "").Return("notification-exports/01ABC.json", 12, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/notifications/export", strings.NewReader(""))
	rr := httptest.NewRecorder()
	h.Export(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"key":"notification-exports/01ABC.json","count":12}`, rr.Body.String())
}

func TestExportHandler_SingleRecipient(t *testing.T) {
	h, _, _, e := newDispatchHandler()
	e.On("Export", mock.Anything, "userA").Return("notification-exports/01DEF.json", 2, nil)

	body := `{"recipient_id":"userA"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/notifications/export", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Export(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"key":"notification-exports/01DEF.json","count":2}`, rr.Body.String())
}

func TestLookupTokenHandler_Unregistered_NotFound(t *testing.T) {
	h, _, reg, _ := newDispatchHandler()
	reg.On("Lookup", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("no push token for user ghost: %w", domain.ErrNotRegistered))

	req := httptest.NewRequest(http.MethodGet, "/v1/internal/push-tokens/ghost", nil)
	rr := httptest.NewRecorder()
	h.LookupToken(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReverseLookupHandler_ResolvesOwner(t *testing.T) {
	h, _, reg, _ := newDispatchHandler()
	reg.On("ReverseLookup", mock.Anything, "tokA").Return(&domain.PushToken{
		UserID: "userA", RegistrationID: "REG1", Token: "tokA",
	}, nil)

	r := chi.NewRouter()
	r.Get("/v1/internal/push-tokens/by-token/{token}", h.ReverseLookup)

	req := httptest.NewRequest(http.MethodGet, "/v1/internal/push-tokens/by-token/tokA", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.PushToken
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "userA", got.UserID)
}

func TestListTokensHandler_NilBecomesEmptyList(t *testing.T) {
	h, _, reg, _ := newDispatchHandler()
	reg.On("ListAll", mock.Anything).Return([]domain.PushToken(nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/internal/push-tokens", nil)
	rr := httptest.NewRecorder()
	h.ListTokens(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}
