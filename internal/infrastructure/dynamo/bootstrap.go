package dynamo

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-notify-links/internal/config"
	"github.com/rs/zerolog"
)

// Bootstrap creates the channel catalog table if it does not exist yet.
// Safe to call on every startup.
func Bootstrap(ctx context.Context, client API, tables config.DynamoTables, log zerolog.Logger) error {
	return createTable(ctx, client, log, &dynamodb.CreateTableInput{
		TableName:   aws.String(tables.Channels),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(channelKey), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(channelKey), KeyType: types.KeyTypeHash},
		},
	})
}

func createTable(ctx context.Context, client API, log zerolog.Logger, input *dynamodb.CreateTableInput) error {
	_, err := client.CreateTable(ctx, input)
	if err != nil {
		// ResourceInUseException means the table already exists.
		var riue *types.ResourceInUseException
		if errors.As(err, &riue) {
			return nil
		}
		log.Warn().Err(err).Str("table", *input.TableName).Msg("could not create table")
		return err
	}
	log.Info().Str("table", *input.TableName).Msg("created table")
	return nil
}
