package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/go-push-api/internal/config"
	"github.com/go-push-api/internal/domain"
)

// Sender delivers push messages through AWS SNS mobile push. The push
// address stored in the registry is the device's platform endpoint ARN.
type Sender struct {
	client *sns.Client
}

func NewSender(cfg *config.Config) (*Sender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &Sender{client: sns.NewFromConfig(awsCfg)}, nil
}

func (s *Sender) Send(ctx context.Context, msg domain.PushMessage) (*domain.PushReceipt, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"title": msg.Title,
		"body":  msg.Body,
		"data":  msg.Data,
		"sound": msg.Sound,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal sns payload: %w", err)
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TargetArn: aws.String(msg.To),
		Message:   aws.String(string(payload)),
	})
	if err != nil {
		return nil, fmt.Errorf("sns publish: %w", err)
	}

	// SNS has no per-message status in the reply; a successful publish is "ok".
	return &domain.PushReceipt{
		Data: domain.PushReceiptData{Status: "ok", ID: aws.ToString(out.MessageId)},
	}, nil
}
