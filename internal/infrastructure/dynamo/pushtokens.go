package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-push-api/internal/domain"
)

// PushTokenRepo provides typed DynamoDB operations for the push_tokens table.
type PushTokenRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPushTokenRepo(client *dynamodb.Client, tableName string) *PushTokenRepo {
	return &PushTokenRepo{client: client, tableName: tableName}
}

// Put writes the registration. The table is keyed by user_id, so writing a
// second registration for the same user replaces the first.
func (r *PushTokenRepo) Put(ctx context.Context, t *domain.PushToken) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal push token: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PushTokenRepo) GetByUser(ctx context.Context, userID string) (*domain.PushToken, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("push token not found: %w", domain.ErrNotFound)
	}
	var t domain.PushToken
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByToken resolves a registration by push address via the push_token GSI.
// Reverse lookup only — uniqueness of the address is not enforced.
func (r *PushTokenRepo) GetByToken(ctx context.Context, token string) (*domain.PushToken, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("push_token-index"),
		KeyConditionExpression: aws.String("push_token = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: token},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("push token not found: %w", domain.ErrNotFound)
	}
	var t domain.PushToken
	if err := attributevalue.UnmarshalMap(out.Items[0], &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Scan returns every registration. Used by the broadcast path to snapshot
// the full recipient set.
func (r *PushTokenRepo) Scan(ctx context.Context) ([]domain.PushToken, error) {
	var tokens []domain.PushToken
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.PushToken
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		tokens = append(tokens, page...)
		if out.LastEvaluatedKey == nil {
			return tokens, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
