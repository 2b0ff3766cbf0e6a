package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"scheduleright/config"
	"scheduleright/infras/kafka"
	"scheduleright/infras/otel"
	notificationModel "scheduleright/internal/domains/notification/model"
	notificationRepository "scheduleright/internal/domains/notification/repository"
	userRepository "scheduleright/internal/domains/user/repository"
	"scheduleright/internal/store"
	"scheduleright/shared/constant"
	"scheduleright/shared/timezone"
)

// Worker consumes booking created events and sends SMS reminders ahead of
// the booked slot, honoring each client's notification preference.
type Worker struct {
	client   kafka.Client
	sender   Sender
	userRepo userRepository.User
	prefRepo notificationRepository.Preference
	cfg      *config.Config
	otel     otel.Otel
}

func NewWorker(client kafka.Client, sender Sender, userRepo userRepository.User, prefRepo notificationRepository.Preference, cfg *config.Config, otel otel.Otel) *Worker {
	return &Worker{
		client:   client,
		sender:   sender,
		userRepo: userRepo,
		prefRepo: prefRepo,
		cfg:      cfg,
		otel:     otel,
	}
}

// Run blocks consuming the reminder topic until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	log.Info().Str("topic", w.cfg.Kafka.ReminderTopic).Msg("Reminder worker started")

	w.client.Consume(ctx, w.cfg.Kafka.ConsumerGroup, w.cfg.Kafka.ReminderTopic, func(msg kafkaGo.Message) {
		event, err := kafka.DecodeKafkaMessage[BookingCreatedEvent](msg)
		if err != nil {
			log.Error().Err(err).Str("key", string(msg.Key)).Msg("Dropping undecodable reminder event")

			return
		}

		if err := w.Handle(ctx, event); err != nil {
			log.Error().Err(err).Str("booking_id", event.BookingID).Msg("Failed to handle reminder event")
		}
	})
}

// Handle waits until the reminder lead time before the slot and sends the
// SMS. Events whose send time already passed are sent immediately.
func (w *Worker) Handle(ctx context.Context, event BookingCreatedEvent) (err error) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".reminder.Handle")
	defer scope.End()
	defer scope.TraceIfError(err)

	pref, err := w.preferenceFor(ctx, event.ClientEmail)
	if err != nil {
		return err
	}

	if !pref.SMSEnabled {
		log.Info().Str("booking_id", event.BookingID).Msg("SMS reminders disabled for client, skipping")

		return nil
	}

	if event.ClientPhone == "" {
		log.Info().Str("booking_id", event.BookingID).Msg("No phone number on booking, skipping SMS reminder")

		return nil
	}

	lead := time.Duration(pref.ReminderLeadMinutes) * time.Minute

	if err = w.waitUntil(ctx, event.StartTime.Add(-lead)); err != nil {
		return err
	}

	message := fmt.Sprintf("Reminder: your appointment starts at %s.", event.StartTime.Format("Mon Jan 2 15:04 MST"))

	if err = w.sender.SendSMS(ctx, event.ClientPhone, message); err != nil {
		return fmt.Errorf("failed to send reminder sms for booking %s: %w", event.BookingID, err)
	}

	log.Info().Str("booking_id", event.BookingID).Msg("Reminder SMS sent")

	return nil
}

// preferenceFor resolves the client's notification preference. Clients
// without an account fall back to the defaults.
func (w *Worker) preferenceFor(ctx context.Context, email string) (notificationModel.Preference, error) {
	user, err := w.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return notificationModel.Default(""), nil
	}

	if err != nil {
		return notificationModel.Preference{}, fmt.Errorf("failed to look up client account: %w", err)
	}

	pref, err := w.prefRepo.GetByUser(ctx, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return notificationModel.Default(user.ID), nil
	}

	if err != nil {
		return notificationModel.Preference{}, fmt.Errorf("failed to look up notification preference: %w", err)
	}

	return pref, nil
}

func (w *Worker) waitUntil(ctx context.Context, at time.Time) error {
	delay := at.Sub(timezone.Now().UTC())
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err() // nolint:wrapcheck
	case <-timer.C:
		return nil
	}
}
