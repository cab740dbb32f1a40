package messaging

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"

	"partysense/infrastructure/logger"
)

// PubSubBroker implements IBroker on Google Cloud Pub/Sub with one topic per
// user channel. Topics and subscriptions are created lazily on first use.
type PubSubBroker struct {
	client *pubsub.Client
	signer *GrantSigner
}

func NewPubSubBroker(ctx context.Context, projectID string, signer *GrantSigner) (*PubSubBroker, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("pubsub client: %w", err)
	}
	return &PubSubBroker{client: client, signer: signer}, nil
}

func (b *PubSubBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	topic, err := b.ensureTopic(ctx, channel)
	if err != nil {
		return err
	}
	_, err = topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	return nil
}

func (b *PubSubBroker) Subscribe(ctx context.Context, channel, group string, handler Handler) error {
	topic, err := b.ensureTopic(ctx, channel)
	if err != nil {
		return err
	}
	subID := fmt.Sprintf("%s-%s", channel, group)
	sub := b.client.Subscription(subID)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return fmt.Errorf("subscription %s: %w", subID, err)
	}
	if !exists {
		sub, err = b.client.CreateSubscription(ctx, subID, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 10 * time.Second,
		})
		if err != nil {
			return fmt.Errorf("create subscription %s: %w", subID, err)
		}
	}
	// Sequential handling keeps per-publisher ordering intact.
	sub.ReceiveSettings.MaxOutstandingMessages = 1
	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		handler(ctx, msg.Data)
		msg.Ack()
	})
}

func (b *PubSubBroker) GrantToken(ctx context.Context, channels []string, ttl time.Duration) (string, time.Time, error) {
	return b.signer.Sign(channels, ttl)
}

func (b *PubSubBroker) Close() error {
	return b.client.Close()
}

func (b *PubSubBroker) ensureTopic(ctx context.Context, channel string) (*pubsub.Topic, error) {
	topic := b.client.Topic(channel)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("topic %s: %w", channel, err)
	}
	if !exists {
		logger.GetLogger().WithField("topic", channel).Info("Topic does not exist - creating it")
		topic, err = b.client.CreateTopic(ctx, channel)
		if err != nil {
			return nil, fmt.Errorf("create topic %s: %w", channel, err)
		}
	}
	return topic, nil
}
