package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-push-api/internal/domain"
	"github.com/go-push-api/internal/pkg/id"
)

// Transport is the external push-delivery collaborator. Implementations live
// in internal/infrastructure (Expo HTTP client, SNS mobile push).
type Transport interface {
	Send(ctx context.Context, msg domain.PushMessage) (*domain.PushReceipt, error)
}

// Service orchestrates push dispatch: registry lookup, transport call, and
// the append-only notification log write, for one, many, or all recipients.
type Service interface {
	SendOne(ctx context.Context, recipientID, title, body string, data map[string]interface{}) (*domain.PushReceipt, error)
	SendBulk(ctx context.Context, recipientIDs []string, title, body string, data map[string]interface{}) []domain.Outcome
	SendToAll(ctx context.Context, title, body string, data map[string]interface{}) (*domain.BroadcastSummary, error)
}

type tokenRegistry interface {
	Lookup(ctx context.Context, userID string) (string, error)
	ListAll(ctx context.Context) ([]domain.PushToken, error)
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
}

type service struct {
	registry  tokenRegistry
	log       notificationStore
	transport Transport
	timeout   time.Duration
}

// NewService wires the dispatcher. timeout bounds each transport call so a
// hung send cannot stall the rest of a batch; <= 0 disables the bound.
func NewService(registry tokenRegistry, log notificationStore, transport Transport, timeout time.Duration) Service {
	return &service{registry: registry, log: log, transport: transport, timeout: timeout}
}

// SendOne looks up the recipient's push address, invokes the transport, and
// writes exactly one log record after the call — whether it succeeded or not.
// An unregistered recipient fails before the transport call with no record.
//
// The log write is deliberately after, not atomic with, the send: if the
// process dies in between, the external send happened with no log entry.
// Callers treating the log as an audit trail must tolerate under-reporting.
func (s *service) SendOne(ctx context.Context, recipientID, title, body string, data map[string]interface{}) (*domain.PushReceipt, error) {
	token, err := s.registry.Lookup(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	msg := domain.PushMessage{
		To:        token,
		Title:     title,
		Body:      body,
		Data:      data,
		Sound:     "default",
		Priority:  "high",
		ChannelID: "default",
	}
	if msg.Data == nil {
		msg.Data = map[string]interface{}{}
	}

	sendCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	receipt, sendErr := s.transport.Send(sendCtx, msg)

	// A transport error and a non-ok receipt both log as failed; only the
	// former is surfaced to the caller.
	status := domain.StatusFailed
	if sendErr == nil && receipt.OK() {
		status = domain.StatusSent
	}
	record := &domain.Notification{
		NotificationID: id.New(),
		RecipientID:    recipientID,
		Title:          title,
		Body:           body,
		Data:           data,
		Status:         status,
		SentAt:         time.Now().UnixMilli(),
	}
	if logErr := s.log.Put(ctx, record); logErr != nil {
		slog.Error("could not log notification", "recipient", recipientID, "err", logErr)
	}

	if sendErr != nil {
		return nil, fmt.Errorf("send to %s: %w: %w", recipientID, sendErr, domain.ErrTransport)
	}
	return receipt, nil
}

// SendBulk sends to each recipient strictly in input order, sequentially.
// One recipient's failure never aborts the batch; the returned slice always
// has one outcome per input recipient, positionally aligned.
func (s *service) SendBulk(ctx context.Context, recipientIDs []string, title, body string, data map[string]interface{}) []domain.Outcome {
	results := make([]domain.Outcome, 0, len(recipientIDs))
	for _, rid := range recipientIDs {
		receipt, err := s.SendOne(ctx, rid, title, body, data)
		if err != nil {
			results = append(results, domain.Outcome{RecipientID: rid, Success: false, Error: err.Error()})
			continue
		}
		results = append(results, domain.Outcome{RecipientID: rid, Success: true, Result: receipt})
	}
	return results
}

// SendToAll snapshots the registry at call time and sends to every recipient
// in it. Registrations created after the snapshot are not included.
func (s *service) SendToAll(ctx context.Context, title, body string, data map[string]interface{}) (*domain.BroadcastSummary, error) {
	tokens, err := s.registry.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.BroadcastSummary{
		Total:   len(tokens),
		Results: make([]domain.Outcome, 0, len(tokens)),
	}
	for _, t := range tokens {
		if _, err := s.SendOne(ctx, t.UserID, title, body, data); err != nil {
			summary.Failed++
			summary.Results = append(summary.Results, domain.Outcome{RecipientID: t.UserID, Success: false, Error: err.Error()})
			continue
		}
		summary.Successful++
		summary.Results = append(summary.Results, domain.Outcome{RecipientID: t.UserID, Success: true})
	}
	return summary, nil
}
