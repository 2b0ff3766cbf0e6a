package reminder

//go:generate go run go.uber.org/mock/mockgen -source=./dispatcher.go -destination=./mocks/dispatcher_mock.go -package=mocks

import (
	"context"
	"fmt"

	"scheduleright/config"
	"scheduleright/infras/kafka"
)

type Dispatcher interface {
	PublishBookingCreated(ctx context.Context, event BookingCreatedEvent) error
}

type kafkaDispatcher struct {
	client kafka.Client
	topic  string
}

func NewDispatcher(client kafka.Client, cfg *config.Config) Dispatcher {
	return &kafkaDispatcher{
		client: client,
		topic:  cfg.Kafka.ReminderTopic,
	}
}

func (d *kafkaDispatcher) PublishBookingCreated(ctx context.Context, event BookingCreatedEvent) error {
	message := kafka.Message{
		Key:   event.BookingID,
		Value: event,
	}

	if err := d.client.SendMessages(ctx, d.topic, message); err != nil {
		return fmt.Errorf("failed to publish booking created event: %w", err)
	}

	return nil
}
