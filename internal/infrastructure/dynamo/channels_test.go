package dynamo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-notify-links/internal/config"
	"github.com/go-notify-links/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockAPI struct{ mock.Mock }

func (m *mockAPI) CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.CreateTableOutput)
	return out, args.Error(1)
}
func (m *mockAPI) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.GetItemOutput)
	return out, args.Error(1)
}
func (m *mockAPI) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.PutItemOutput)
	return out, args.Error(1)
}
func (m *mockAPI) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.ScanOutput)
	return out, args.Error(1)
}

// --- helpers ---

func promo() domain.ChannelDescriptor {
	return domain.ChannelDescriptor{
		ID:                "promo",
		Name:              "Promotions",
		InterruptionLevel: domain.LevelDefault,
		LightColor:        "#00FF00",
		VibrationPattern:  []time.Duration{0, 200 * time.Millisecond},
		EnableVibration:   true,
	}
}

func item(t *testing.T, d domain.ChannelDescriptor) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(d)
	require.NoError(t, err)
	return av
}

func TestChannelRepo_PutConditional(t *testing.T) {
	api := &mockAPI{}
	api.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		id, ok := in.Item[channelKey].(*types.AttributeValueMemberS)
		return *in.TableName == "channels" &&
			ok && id.Value == "promo" &&
			*in.ConditionExpression == "attribute_not_exists(#id)"
	})).Return(&dynamodb.PutItemOutput{}, nil)

	require.NoError(t, NewChannelRepo(api, "channels").Put(context.Background(), promo()))
	api.AssertExpectations(t)
}

func TestChannelRepo_PutExisting_Conflict(t *testing.T) {
	api := &mockAPI{}
	api.On("PutItem", mock.Anything, mock.Anything).
		Return(nil, &types.ConditionalCheckFailedException{Message: new(string)})

	err := NewChannelRepo(api, "channels").Put(context.Background(), promo())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestChannelRepo_Get(t *testing.T) {
	api := &mockAPI{}
	api.On("GetItem", mock.Anything, mock.Anything).
		Return(&dynamodb.GetItemOutput{Item: item(t, promo())}, nil)

	got, err := NewChannelRepo(api, "channels").Get(context.Background(), "promo")
	require.NoError(t, err)
	assert.True(t, promo().Equal(*got))
}

func TestChannelRepo_Get_NotFound(t *testing.T) {
	api := &mockAPI{}
	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	_, err := NewChannelRepo(api, "channels").Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChannelRepo_Channels_Paginates(t *testing.T) {
	second := promo()
	second.ID = "promo2"
	cursor := map[string]types.AttributeValue{channelKey: &types.AttributeValueMemberS{Value: "promo"}}

	api := &mockAPI{}
	api.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool { return in.ExclusiveStartKey == nil })).
		Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{item(t, promo())}, LastEvaluatedKey: cursor}, nil).Once()
	api.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool { return in.ExclusiveStartKey != nil })).
		Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{item(t, second)}}, nil).Once()

	repo := NewChannelRepo(api, "channels")
	got, err := repo.Channels(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "promo", got[0].ID)
	assert.Equal(t, "promo2", got[1].ID)
	assert.Equal(t, "dynamodb:channels", repo.Name())
	api.AssertExpectations(t)
}

func TestChannelRepo_Channels_ScanError(t *testing.T) {
	api := &mockAPI{}
	api.On("Scan", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	_, err := NewChannelRepo(api, "channels").Channels(context.Background())
	assert.ErrorContains(t, err, "throttled")
}

func TestBootstrap_ExistingTableIsFine(t *testing.T) {
	api := &mockAPI{}
	api.On("CreateTable", mock.Anything, mock.Anything).
		Return(nil, &types.ResourceInUseException{Message: new(string)})

	err := Bootstrap(context.Background(), api, config.DynamoTables{Channels: "channels"}, zerolog.Nop())
	assert.NoError(t, err)
}

func TestBootstrap_CreatesTable(t *testing.T) {
	api := &mockAPI{}
	api.On("CreateTable", mock.Anything, mock.MatchedBy(func(in *dynamodb.CreateTableInput) bool {
		return *in.TableName == "channels" && *in.KeySchema[0].AttributeName == channelKey
	})).Return(&dynamodb.CreateTableOutput{}, nil)

	require.NoError(t, Bootstrap(context.Background(), api, config.DynamoTables{Channels: "channels"}, zerolog.Nop()))
	api.AssertExpectations(t)
}

func TestBootstrap_OtherError(t *testing.T) {
	api := &mockAPI{}
	api.On("CreateTable", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	err := Bootstrap(context.Background(), api, config.DynamoTables{Channels: "channels"}, zerolog.Nop())
	assert.ErrorContains(t, err, "access denied")
}

func TestChannelRepo_Ensure(t *testing.T) {
	conflict := &types.ConditionalCheckFailedException{Message: new(string)}
	changed := promo()
	changed.Name = "Deals"

	cases := []struct {
		name        string
		putErr      error
		stored      *domain.ChannelDescriptor
		wantCreated bool
		wantErr     error
	}{
		{name: "new", wantCreated: true},
		{name: "identical", putErr: conflict, stored: ptr(promo())},
		{name: "differs", putErr: conflict, stored: &changed, wantErr: domain.ErrConfigConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &mockAPI{}
			if tc.putErr != nil {
				api.On("PutItem", mock.Anything, mock.Anything).Return(nil, tc.putErr)
			} else {
				api.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)
			}
			if tc.stored != nil {
				api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: item(t, *tc.stored)}, nil)
			}

			created, err := NewChannelRepo(api, "channels").Ensure(context.Background(), promo())
			assert.Equal(t, tc.wantCreated, created)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func ptr[T any](v T) *T { return &v }
