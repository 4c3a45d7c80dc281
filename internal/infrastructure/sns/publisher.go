package sns

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/bytedance/sonic"
	"github.com/go-notify-links/internal/config"
	"github.com/go-notify-links/internal/domain"
	"github.com/go-notify-links/internal/infrastructure/awscfg"
)

// API is the subset of the SNS client the publisher uses.
type API interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher sends action events to an SNS topic. The action id is copied
// into a message attribute so subscriptions can filter on it.
type Publisher struct {
	client   API
	topicARN string
}

func NewPublisher(client API, topicARN string) *Publisher {
	return &Publisher{client: client, topicARN: topicARN}
}

// NewClient creates an SNS client in cfg.SNSRegion.
func NewClient(ctx context.Context, cfg *config.Config) (*sns.Client, error) {
	awsCfg, err := awscfg.Load(ctx, cfg, cfg.SNSRegion)
	if err != nil {
		return nil, err
	}
	var clientOpts []func(*sns.Options)
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return sns.NewFromConfig(awsCfg, clientOpts...), nil
}

func (p *Publisher) Publish(ctx context.Context, ev domain.ActionEvent) error {
	body, err := sonic.MarshalString(ev)
	if err != nil {
		return fmt.Errorf("marshal action event: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(body),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"action_id": {DataType: aws.String("String"), StringValue: aws.String(ev.ActionID)},
			"screen":    {DataType: aws.String("String"), StringValue: aws.String(ev.Screen)},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}
