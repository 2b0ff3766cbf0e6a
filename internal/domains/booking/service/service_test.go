package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"scheduleright/config"
	"scheduleright/infras/otel/mocks"
	auditRepository "scheduleright/internal/domains/audit/repository"
	auditService "scheduleright/internal/domains/audit/service"
	slotModel "scheduleright/internal/domains/availability/model"
	slotRepository "scheduleright/internal/domains/availability/repository"
	"scheduleright/internal/domains/booking/model"
	"scheduleright/internal/domains/booking/model/dto"
	"scheduleright/internal/domains/booking/repository"
	"scheduleright/internal/domains/booking/service"
	reminderMocks "scheduleright/internal/reminder/mocks"
	"scheduleright/internal/store"
	"scheduleright/internal/store/memstore"
	cacheMocks "scheduleright/shared/cache/mocks"
	"scheduleright/shared/failure"
	gModel "scheduleright/shared/model"
	"scheduleright/shared/timezone"
)

type fixture struct {
	svc        service.Booking
	slotRepo   slotRepository.Slot
	store      store.Store
	dispatcher *reminderMocks.MockDispatcher
}

func newFixture(t *testing.T, capacity int) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.App.Booking.MaxCapacityRetries = 5

	mockOtel := mocks.NewOtel()
	docStore := memstore.New()

	slotRepo := slotRepository.New(docStore, mockOtel)
	bookingRepo := repository.New(docStore, mockOtel)
	audit := auditService.New(auditRepository.New(docStore, mockOtel), mockOtel)
	dispatcher := reminderMocks.NewMockDispatcher(ctrl)

	slot := slotModel.Slot{
		ID:        "slot-1",
		Type:      slotModel.DocType,
		SiteID:    "site-1",
		OrgID:     "org-1",
		StartTime: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Capacity:  capacity,
		Status:    slotModel.StatusActive,
		Metadata:  gModel.NewMetadata(timezone.Now().UTC(), "staff-1"),
	}

	_, err := docStore.Insert(context.Background(), slot.ID, slot)
	require.NoError(t, err)

	return fixture{
		svc:        service.New(bookingRepo, slotRepo, audit, dispatcher, cfg, cacheMocks.NewRedisCache(), mockOtel),
		slotRepo:   slotRepo,
		store:      docStore,
		dispatcher: dispatcher,
	}
}

func validRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		SiteID:      "site-1",
		SlotID:      "slot-1",
		ClientName:  "Ada Li",
		ClientEmail: "ada@example.org",
	}
}

func TestBookingService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("successful booking reserves the slot", func(t *testing.T) {
		f := newFixture(t, 3)
		f.dispatcher.EXPECT().PublishBookingCreated(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Create(ctx, validRequest())

		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, res.Status)
		assert.Equal(t, "org-1", res.OrgID)

		slot, err := f.slotRepo.Get(ctx, "slot-1")
		require.NoError(t, err)
		assert.Equal(t, 1, slot.CurrentBookings)
	})

	t.Run("unknown slot", func(t *testing.T) {
		f := newFixture(t, 3)

		req := validRequest()
		req.SlotID = "ghost"

		_, err := f.svc.Create(ctx, req)

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.Equal(t, failure.CodeSlotNotFound, failure.GetErrCode(err))
	})

	t.Run("site mismatch is a bad request", func(t *testing.T) {
		f := newFixture(t, 3)

		req := validRequest()
		req.SiteID = "site-2"

		_, err := f.svc.Create(ctx, req)

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("full slot is a conflict", func(t *testing.T) {
		f := newFixture(t, 1)
		f.dispatcher.EXPECT().PublishBookingCreated(gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.Create(ctx, validRequest())
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, validRequest())

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.Equal(t, failure.CodeSlotUnavailable, failure.GetErrCode(err))
	})

	t.Run("deactivated slot is a conflict", func(t *testing.T) {
		f := newFixture(t, 3)

		slot, err := f.slotRepo.Get(ctx, "slot-1")
		require.NoError(t, err)

		slot.Status = slotModel.StatusDeactivated
		require.NoError(t, f.slotRepo.Update(ctx, slot))

		_, err = f.svc.Create(ctx, validRequest())

		require.Error(t, err)
		assert.Equal(t, failure.CodeSlotUnavailable, failure.GetErrCode(err))
	})

	t.Run("booking survives a broker outage", func(t *testing.T) {
		f := newFixture(t, 3)
		f.dispatcher.EXPECT().
			PublishBookingCreated(gomock.Any(), gomock.Any()).
			Return(errors.New("broker unreachable"))

		_, err := f.svc.Create(ctx, validRequest())

		assert.NoError(t, err)
	})
}

func TestBookingService_Create_Race(t *testing.T) {
	ctx := context.Background()

	t.Run("two racing requests on a capacity one slot", func(t *testing.T) {
		f := newFixture(t, 1)
		f.dispatcher.EXPECT().PublishBookingCreated(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		var wg sync.WaitGroup

		errs := make([]error, 2)

		for i := range errs {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, errs[i] = f.svc.Create(ctx, validRequest())
			}()
		}

		wg.Wait()

		successes, conflicts := 0, 0

		for _, err := range errs {
			switch {
			case err == nil:
				successes++
			case failure.GetCode(err) == http.StatusConflict:
				conflicts++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}

		assert.Equal(t, 1, successes)
		assert.Equal(t, 1, conflicts)
	})

	t.Run("counter never exceeds capacity under load", func(t *testing.T) {
		const attempts = 16

		f := newFixture(t, 4)
		f.dispatcher.EXPECT().PublishBookingCreated(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		var wg sync.WaitGroup

		errs := make([]error, attempts)

		for i := range errs {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, errs[i] = f.svc.Create(ctx, validRequest())
			}()
		}

		wg.Wait()

		successes := 0
		for _, err := range errs {
			if err == nil {
				successes++
			}
		}

		slot, err := f.slotRepo.Get(ctx, "slot-1")
		require.NoError(t, err)

		assert.Equal(t, successes, slot.CurrentBookings)
		assert.LessOrEqual(t, slot.CurrentBookings, slot.Capacity)
	})
}

func TestBookingService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, f fixture) string {
		t.Helper()

		f.dispatcher.EXPECT().PublishBookingCreated(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Create(ctx, validRequest())
		require.NoError(t, err)

		return res.ID
	}

	t.Run("valid transitions", func(t *testing.T) {
		f := newFixture(t, 3)
		id := create(t, f)

		res, err := f.svc.UpdateStatus(ctx, id, model.StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, res.Status)

		res, err = f.svc.UpdateStatus(ctx, id, model.StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, res.Status)
	})

	t.Run("invalid transition", func(t *testing.T) {
		f := newFixture(t, 3)
		id := create(t, f)

		_, err := f.svc.UpdateStatus(ctx, id, model.StatusCompleted)

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("cancellation releases the seat", func(t *testing.T) {
		f := newFixture(t, 1)
		id := create(t, f)

		slot, err := f.slotRepo.Get(ctx, "slot-1")
		require.NoError(t, err)
		require.Equal(t, 1, slot.CurrentBookings)

		_, err = f.svc.UpdateStatus(ctx, id, model.StatusCancelled)
		require.NoError(t, err)

		slot, err = f.slotRepo.Get(ctx, "slot-1")
		require.NoError(t, err)
		assert.Equal(t, 0, slot.CurrentBookings)
	})

	t.Run("release never drops below zero", func(t *testing.T) {
		f := newFixture(t, 1)
		id := create(t, f)

		// Drain the counter out of band before cancelling.
		slot, err := f.slotRepo.Get(ctx, "slot-1")
		require.NoError(t, err)

		slot.CurrentBookings = 0
		require.NoError(t, f.slotRepo.Update(ctx, slot))

		_, err = f.svc.UpdateStatus(ctx, id, model.StatusCancelled)
		require.NoError(t, err)

		slot, err = f.slotRepo.Get(ctx, "slot-1")
		require.NoError(t, err)
		assert.Equal(t, 0, slot.CurrentBookings)
	})
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{model.StatusPending, model.StatusConfirmed, true},
		{model.StatusPending, model.StatusCancelled, true},
		{model.StatusPending, model.StatusNoShow, true},
		{model.StatusPending, model.StatusCompleted, false},
		{model.StatusConfirmed, model.StatusCompleted, true},
		{model.StatusConfirmed, model.StatusCancelled, true},
		{model.StatusConfirmed, model.StatusPending, false},
		{model.StatusCompleted, model.StatusCancelled, false},
		{model.StatusCancelled, model.StatusConfirmed, false},
		{model.StatusNoShow, model.StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanTransition(tt.from, tt.to))
		})
	}
}

// failingStore errors on every write so audit persistence failures can be
// exercised.
type failingStore struct {
	store.Store
}

func (f failingStore) Insert(context.Context, string, any) (store.Result, error) {
	return store.Result{}, errors.New("store unavailable")
}

func TestBookingService_AuditFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.App.Booking.MaxCapacityRetries = 5

	mockOtel := mocks.NewOtel()
	docStore := memstore.New()

	slotRepo := slotRepository.New(docStore, mockOtel)
	bookingRepo := repository.New(docStore, mockOtel)
	audit := auditService.New(auditRepository.New(failingStore{Store: docStore}, mockOtel), mockOtel)

	dispatcher := reminderMocks.NewMockDispatcher(ctrl)
	dispatcher.EXPECT().PublishBookingCreated(gomock.Any(), gomock.Any()).Return(nil)

	_, err := docStore.Insert(ctx, "slot-1", slotModel.Slot{
		ID:       "slot-1",
		Type:     slotModel.DocType,
		SiteID:   "site-1",
		OrgID:    "org-1",
		Capacity: 2,
		Status:   slotModel.StatusActive,
	})
	require.NoError(t, err)

	svc := service.New(bookingRepo, slotRepo, audit, dispatcher, cfg, cacheMocks.NewRedisCache(), mockOtel)

	res, err := svc.Create(ctx, validRequest())

	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, res.Status)
}
