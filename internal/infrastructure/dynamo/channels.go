package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-notify-links/internal/domain"
)

const channelKey = "channel_id"

// ChannelRepo stores channel descriptors in the catalog table. It doubles as
// a channel.Source so the registry can be seeded from it at startup.
type ChannelRepo struct {
	client    API
	tableName string
}

func NewChannelRepo(client API, tableName string) *ChannelRepo {
	return &ChannelRepo{client: client, tableName: tableName}
}

func (r *ChannelRepo) Name() string { return "dynamodb:" + r.tableName }

// Put writes d unless a descriptor with the same id already exists; the
// catalog never rewrites a channel.
func (r *ChannelRepo) Put(ctx context.Context, d domain.ChannelDescriptor) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal channel: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": channelKey},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("channel %s already in catalog: %w", d.ID, domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *ChannelRepo) Get(ctx context.Context, channelID string) (*domain.ChannelDescriptor, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(channelKey, channelID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("channel %s: %w", channelID, domain.ErrNotFound)
	}
	var d domain.ChannelDescriptor
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, fmt.Errorf("unmarshal channel: %w", err)
	}
	return &d, nil
}

// Channels scans the whole table, following pagination.
func (r *ChannelRepo) Channels(ctx context.Context) ([]domain.ChannelDescriptor, error) {
	var (
		all   []domain.ChannelDescriptor
		start map[string]types.AttributeValue
	)
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.ChannelDescriptor
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal channels: %w", err)
		}
		all = append(all, page...)
		if len(out.LastEvaluatedKey) == 0 {
			return all, nil
		}
		start = out.LastEvaluatedKey
	}
}

// Ensure stores d, accepting an identical descriptor already in the catalog.
// A different descriptor under the same id is a ConfigConflict.
func (r *ChannelRepo) Ensure(ctx context.Context, d domain.ChannelDescriptor) (created bool, err error) {
	err = r.Put(ctx, d)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return false, err
	}
	existing, err := r.Get(ctx, d.ID)
	if err != nil {
		return false, err
	}
	if !existing.Equal(d) {
		return false, fmt.Errorf("channel %s differs from catalog: %w", d.ID, domain.ErrConfigConflict)
	}
	return false, nil
}
