package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"

	"partysense/infrastructure/logger"
)

// ServiceBusBroker implements IBroker on Azure Service Bus with one queue per
// user channel. Queues are expected to be provisioned out of band; the group
// argument is ignored because a queue already has competing-consumer
// semantics.
type ServiceBusBroker struct {
	client *azservicebus.Client
	signer *GrantSigner

	mu      sync.Mutex
	senders map[string]*azservicebus.Sender
}

func NewServiceBusBroker(_ context.Context, namespace string, signer *GrantSigner) (*ServiceBusBroker, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	client, err := azservicebus.NewClient(namespace, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("servicebus client: %w", err)
	}
	return &ServiceBusBroker{
		client:  client,
		signer:  signer,
		senders: make(map[string]*azservicebus.Sender),
	}, nil
}

func (b *ServiceBusBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	sender, err := b.sender(channel)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := sender.SendMessage(ctx, &azservicebus.Message{Body: payload}, nil); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	return nil
}

func (b *ServiceBusBroker) Subscribe(ctx context.Context, channel, _ string, handler Handler) error {
	receiver, err := b.client.NewReceiverForQueue(channel, nil)
	if err != nil {
		return fmt.Errorf("receiver for %s: %w", channel, err)
	}
	defer receiver.Close(context.Background())

	for {
		messages, err := receiver.ReceiveMessages(ctx, 1, nil)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.GetLogger().
				WithField("channel", channel).
				WithField("error", err).
				Warn("Receive failed, backing off")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(2 * time.Second):
			}
			continue
		}
		for _, msg := range messages {
			handler(ctx, msg.Body)
			if err := receiver.CompleteMessage(ctx, msg, nil); err != nil {
				logger.GetLogger().
					WithField("channel", channel).
					WithField("error", err).
					Warn("Failed to complete message")
			}
		}
	}
}

func (b *ServiceBusBroker) GrantToken(ctx context.Context, channels []string, ttl time.Duration) (string, time.Time, error) {
	return b.signer.Sign(channels, ttl)
}

func (b *ServiceBusBroker) sender(channel string) (*azservicebus.Sender, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.senders[channel]; ok {
		return s, nil
	}
	s, err := b.client.NewSender(channel, nil)
	if err != nil {
		return nil, fmt.Errorf("sender for %s: %w", channel, err)
	}
	b.senders[channel] = s
	return s, nil
}
