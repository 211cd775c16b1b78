package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/minhle/folioforge/internal/config"
)

const (
	TopicPortfolioEvents = "portfolio.events"
)

type PortfolioEventType string

const (
	PortfolioEventTypeCreated PortfolioEventType = "portfolio.created"
)

type PortfolioEventPayload struct {
	EventType   PortfolioEventType `json:"event_type"`
	PortfolioID uuid.UUID          `json:"portfolio_id"`
	OwnerID     uuid.UUID          `json:"owner_id"`
	Slug        string             `json:"slug"`
}

// PortfolioEventPublisher lets use cases publish without holding the
// concrete Kafka client.
type PortfolioEventPublisher interface {
	PublishPortfolioEvent(ctx context.Context, payload PortfolioEventPayload) error
}

type KafkaProducerClient struct {
	PortfolioEventsWriter *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	portfolioWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicPortfolioEvents,
		Balancer: &kafka.LeastBytes{},
	}

	fmt.Println("Initialize Kafka Producers successfully.")

	return &KafkaProducerClient{
		PortfolioEventsWriter: portfolioWriter,
	}, nil
}

func (c *KafkaProducerClient) PublishPortfolioEvent(ctx context.Context, payload PortfolioEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal portfolio event failed: %w", err)
	}

	err = c.PortfolioEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(payload.Slug),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("write portfolio event failed: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.PortfolioEventsWriter != nil {
		c.PortfolioEventsWriter.Close()
	}
	fmt.Println("Closed Kafka Producers")
}
