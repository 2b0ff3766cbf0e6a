package reminder_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"scheduleright/config"
	"scheduleright/infras/otel/mocks"
	notificationModel "scheduleright/internal/domains/notification/model"
	notificationRepository "scheduleright/internal/domains/notification/repository"
	userModel "scheduleright/internal/domains/user/model"
	userRepository "scheduleright/internal/domains/user/repository"
	"scheduleright/internal/reminder"
	reminderMocks "scheduleright/internal/reminder/mocks"
	"scheduleright/internal/store/memstore"
)

type workerFixture struct {
	worker   *reminder.Worker
	sender   *reminderMocks.MockSender
	userRepo userRepository.User
	prefRepo notificationRepository.Preference
}

func newWorkerFixture(t *testing.T) workerFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockOtel := mocks.NewOtel()
	docStore := memstore.New()
	sender := reminderMocks.NewMockSender(ctrl)

	userRepo := userRepository.New(docStore, mockOtel)
	prefRepo := notificationRepository.New(docStore, mockOtel)

	cfg := &config.Config{}

	return workerFixture{
		worker:   reminder.NewWorker(nil, sender, userRepo, prefRepo, cfg, mockOtel),
		sender:   sender,
		userRepo: userRepo,
		prefRepo: prefRepo,
	}
}

func pastEvent() reminder.BookingCreatedEvent {
	start := time.Now().UTC().Add(-time.Minute)

	return reminder.BookingCreatedEvent{
		BookingID:   "booking-1",
		ClientName:  "Ada Lovelace",
		ClientEmail: "ada@example.com",
		ClientPhone: "+15550100",
		StartTime:   start,
		EndTime:     start.Add(30 * time.Minute),
	}
}

func TestWorkerHandle(t *testing.T) {
	t.Run("sends an sms for a due reminder", func(t *testing.T) {
		f := newWorkerFixture(t)

		f.sender.EXPECT().
			SendSMS(gomock.Any(), "+15550100", gomock.Any()).
			Return(nil)

		err := f.worker.Handle(context.Background(), pastEvent())
		require.NoError(t, err)
	})

	t.Run("clients without an account get the default preference", func(t *testing.T) {
		f := newWorkerFixture(t)

		f.sender.EXPECT().
			SendSMS(gomock.Any(), "+15550100", gomock.Any()).
			Return(nil)

		event := pastEvent()
		event.ClientEmail = "stranger@example.com"

		err := f.worker.Handle(context.Background(), event)
		require.NoError(t, err)
	})

	t.Run("skips when the client disabled sms", func(t *testing.T) {
		f := newWorkerFixture(t)

		ctx := context.Background()

		err := f.userRepo.Insert(ctx, userModel.User{
			ID:    userModel.DocID("ada@example.com"),
			Email: "ada@example.com",
		})
		require.NoError(t, err)

		pref := notificationModel.Default(userModel.DocID("ada@example.com"))
		pref.SMSEnabled = false

		require.NoError(t, f.prefRepo.Upsert(ctx, pref))

		err = f.worker.Handle(ctx, pastEvent())
		require.NoError(t, err)
	})

	t.Run("skips when the booking has no phone number", func(t *testing.T) {
		f := newWorkerFixture(t)

		event := pastEvent()
		event.ClientPhone = ""

		err := f.worker.Handle(context.Background(), event)
		require.NoError(t, err)
	})

	t.Run("cancellation interrupts a waiting reminder", func(t *testing.T) {
		f := newWorkerFixture(t)

		event := pastEvent()
		event.StartTime = time.Now().UTC().Add(48 * time.Hour)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := f.worker.Handle(ctx, event)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestHTTPSender(t *testing.T) {
	var got struct {
		To      string `json:"to"`
		From    string `json:"from"`
		Message string `json:"message"`
	}

	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.SMS.Endpoint = server.URL
	cfg.SMS.APIKey = "secret"
	cfg.SMS.Sender = "ScheduleRight"

	sender := reminder.NewSender(cfg)

	err := sender.SendSMS(context.Background(), "+15550100", "see you soon")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "+15550100", got.To)
	assert.Equal(t, "ScheduleRight", got.From)
	assert.Equal(t, "see you soon", got.Message)
}

func TestHTTPSenderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.SMS.Endpoint = server.URL

	sender := reminder.NewSender(cfg)

	err := sender.SendSMS(context.Background(), "+15550100", "see you soon")
	require.Error(t, err)
}
