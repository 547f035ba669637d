package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"example.com/edueat/services/cafeteria/config"
	"example.com/edueat/services/cafeteria/internal/models"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Order event types published on the queue.
const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderCancelled     = "order_cancelled"
)

// OrderEvent is published whenever an order is created or its status moves
type OrderEvent struct {
	EventType     string             `json:"event_type"`
	OrderID       uuid.UUID          `json:"order_id"`
	ParentID      uuid.UUID          `json:"parent_id"`
	ChildName     string             `json:"child_name"`
	Status        models.OrderStatus `json:"status"`
	Total         float64            `json:"total"`
	ScheduledDate time.Time          `json:"scheduled_date"`
	Time          time.Time          `json:"time"`
}

// Publisher sends order events to the message bus
type Publisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
	Close() error
}

// serviceBusClient implements Publisher on Azure Service Bus
type serviceBusClient struct {
	client    *azservicebus.Client
	sender    *azservicebus.Sender
	queueName string
}

// NewServiceBusPublisher creates a Service Bus publisher for the
// configured queue.
func NewServiceBusPublisher(cfg config.AzureConfig) (Publisher, error) {
	if cfg.QueueConnStr == "" {
		return nil, fmt.Errorf("Azure Service Bus connection string is empty")
	}

	client, err := azservicebus.NewClientFromConnectionString(cfg.QueueConnStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Service Bus client: %w", err)
	}

	sender, err := client.NewSender(cfg.QueueName, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Service Bus sender: %w", err)
	}

	return &serviceBusClient{
		client:    client,
		sender:    sender,
		queueName: cfg.QueueName,
	}, nil
}

// PublishOrderEvent sends an order event to the queue
func (s *serviceBusClient) PublishOrderEvent(ctx context.Context, event OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := &azservicebus.Message{
		Body: data,
		ApplicationProperties: map[string]interface{}{
			"event_type": event.EventType,
			"time":       time.Now().UTC().Format(time.RFC3339),
		},
	}

	return s.sender.SendMessage(ctx, msg, nil)
}

// Close closes the Service Bus client
func (s *serviceBusClient) Close() error {
	if s.sender != nil {
		if err := s.sender.Close(context.Background()); err != nil {
			return err
		}
	}

	if s.client != nil {
		return s.client.Close(context.Background())
	}

	return nil
}

// Consumer receives order events from the queue
type Consumer struct {
	client    *azservicebus.Client
	receiver  *azservicebus.Receiver
	queueName string
}

// NewServiceBusConsumer creates a Service Bus consumer for the configured
// queue.
func NewServiceBusConsumer(cfg config.AzureConfig) (*Consumer, error) {
	if cfg.QueueConnStr == "" {
		return nil, fmt.Errorf("Azure Service Bus connection string is empty")
	}

	client, err := azservicebus.NewClientFromConnectionString(cfg.QueueConnStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Service Bus client: %w", err)
	}

	receiver, err := client.NewReceiverForQueue(cfg.QueueName, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Service Bus receiver: %w", err)
	}

	return &Consumer{
		client:    client,
		receiver:  receiver,
		queueName: cfg.QueueName,
	}, nil
}

// ProcessMessages receives order events and hands them to the handler
// until the context is cancelled. Messages whose handler fails are
// abandoned so the bus redelivers them.
func (c *Consumer) ProcessMessages(ctx context.Context, handler func(ctx context.Context, event OrderEvent) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		messages, err := c.receiver.ReceiveMessages(ctx, 10, nil)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error().Err(err).Str("queue", c.queueName).Msg("Failed to receive messages")
			continue
		}

		for _, msg := range messages {
			var event OrderEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				log.Error().Err(err).Msg("Discarding undecodable order event")
				// Poison message, do not redeliver
				if err := c.receiver.CompleteMessage(ctx, msg, nil); err != nil {
					log.Error().Err(err).Msg("Failed to complete poison message")
				}
				continue
			}

			if err := handler(ctx, event); err != nil {
				log.Error().Err(err).Str("order_id", event.OrderID.String()).Msg("Order event handler failed")
				if err := c.receiver.AbandonMessage(ctx, msg, nil); err != nil {
					log.Error().Err(err).Msg("Failed to abandon message")
				}
				continue
			}

			if err := c.receiver.CompleteMessage(ctx, msg, nil); err != nil {
				log.Error().Err(err).Msg("Failed to complete message")
			}
		}
	}
}

// Close closes the consumer
func (c *Consumer) Close() error {
	if c.receiver != nil {
		if err := c.receiver.Close(context.Background()); err != nil {
			return err
		}
	}

	if c.client != nil {
		return c.client.Close(context.Background())
	}

	return nil
}
