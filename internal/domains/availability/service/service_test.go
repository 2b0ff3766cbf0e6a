package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheduleright/config"
	"scheduleright/infras/otel/mocks"
	auditRepository "scheduleright/internal/domains/audit/repository"
	auditService "scheduleright/internal/domains/audit/service"
	"scheduleright/internal/domains/availability/model"
	"scheduleright/internal/domains/availability/model/dto"
	slotRepository "scheduleright/internal/domains/availability/repository"
	"scheduleright/internal/domains/availability/service"
	siteModel "scheduleright/internal/domains/site/model"
	siteRepository "scheduleright/internal/domains/site/repository"
	"scheduleright/internal/store"
	"scheduleright/internal/store/memstore"
	cacheMocks "scheduleright/shared/cache/mocks"
	"scheduleright/shared/constant"
	"scheduleright/shared/failure"
	gDto "scheduleright/shared/dto"
)

type fixture struct {
	svc      service.Availability
	slotRepo slotRepository.Slot
	store    store.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockOtel := mocks.NewOtel()
	docStore := memstore.New()

	slotRepo := slotRepository.New(docStore, mockOtel)
	siteRepo := siteRepository.New(docStore, mockOtel)
	audit := auditService.New(auditRepository.New(docStore, mockOtel), mockOtel)

	_, err := docStore.Insert(context.Background(), "site-1", siteModel.Site{
		ID:       "site-1",
		Type:     siteModel.DocType,
		OrgID:    "org-1",
		Name:     "Downtown Pantry",
		Timezone: "UTC",
	})
	require.NoError(t, err)

	return fixture{
		svc:      service.New(slotRepo, siteRepo, audit, cfg, cacheMocks.NewRedisCache(), mockOtel),
		slotRepo: slotRepo,
		store:    docStore,
	}
}

func testContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-1")
}

func TestSlotAvailable(t *testing.T) {
	tests := []struct {
		name string
		slot model.Slot
		want bool
	}{
		{
			name: "active with room",
			slot: model.Slot{Status: model.StatusActive, Capacity: 5, CurrentBookings: 4},
			want: true,
		},
		{
			name: "active and full",
			slot: model.Slot{Status: model.StatusActive, Capacity: 5, CurrentBookings: 5},
			want: false,
		},
		{
			name: "deactivated with room",
			slot: model.Slot{Status: model.StatusDeactivated, Capacity: 5, CurrentBookings: 0},
			want: false,
		},
		{
			name: "active with zero bookings",
			slot: model.Slot{Status: model.StatusActive, Capacity: 1, CurrentBookings: 0},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.slot.Available())
		})
	}
}

func TestAvailabilityService_CreateSlots(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	t.Run("rejects inverted time range", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateSlots(testContext(), dto.CreateSlotRequest{
			StartTime: start,
			EndTime:   start.Add(-time.Hour),
			Capacity:  5,
		}, "site-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("rejects equal start and end", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateSlots(testContext(), dto.CreateSlotRequest{
			StartTime: start,
			EndTime:   start,
			Capacity:  5,
		}, "site-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unknown site", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateSlots(testContext(), dto.CreateSlotRequest{
			StartTime: start,
			EndTime:   start.Add(time.Hour),
			Capacity:  5,
		}, "ghost")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("single slot covers the window", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.svc.CreateSlots(testContext(), dto.CreateSlotRequest{
			StartTime: start,
			EndTime:   start.Add(time.Hour),
			Capacity:  5,
		}, "site-1")

		require.NoError(t, err)
		require.Len(t, res.Slots, 1)
		assert.Equal(t, model.StatusActive, res.Slots[0].Status)
		assert.Equal(t, 0, res.Slots[0].CurrentBookings)
	})

	t.Run("duration carves the window with buffer", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.svc.CreateSlots(testContext(), dto.CreateSlotRequest{
			StartTime:       start,
			EndTime:         start.Add(2 * time.Hour),
			Capacity:        3,
			DurationMinutes: 30,
			BufferMinutes:   15,
		}, "site-1")

		require.NoError(t, err)
		// 09:00, 09:45, 10:30 fit; 11:15 would end past 11:00.
		assert.Len(t, res.Slots, 3)
	})

	t.Run("daily recurrence repeats the window", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.svc.CreateSlots(testContext(), dto.CreateSlotRequest{
			StartTime:  start,
			EndTime:    start.Add(time.Hour),
			Capacity:   2,
			Recurrence: &dto.Recurrence{Frequency: dto.RecurrenceDaily, Count: 3},
		}, "site-1")

		require.NoError(t, err)
		require.Len(t, res.Slots, 3)
		assert.Equal(t, "2026-09-03T09:00:00Z", res.Slots[2].StartTime)
	})
}

func TestAvailabilityService_GetAvailableSlots(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	f := newFixture(t)

	_, err := f.svc.CreateSlots(testContext(), dto.CreateSlotRequest{
		StartTime:       start,
		EndTime:         start.Add(time.Hour),
		Capacity:        1,
		DurationMinutes: 30,
	}, "site-1")
	require.NoError(t, err)

	slots, err := f.slotRepo.GetByDateRange(testContext(), "site-1", start, start.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, slots, 2)

	// Fill the first slot so it drops out of the listing.
	slots[0].CurrentBookings = 1
	require.NoError(t, f.slotRepo.Update(testContext(), slots[0]))

	res, err := f.svc.GetAvailableSlots(testContext(), "site-1", start, start.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, res.Slots, 1)
	assert.Equal(t, slots[1].ID, res.Slots[0].ID)
}

func TestAvailabilityService_DeactivateSlot(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	t.Run("nonexistent slot returns slot specific code", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.DeactivateSlot(testContext(), "ghost")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.Equal(t, failure.CodeSlotNotFound, failure.GetErrCode(err))
	})

	t.Run("deactivation is a soft delete", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.svc.CreateSlots(testContext(), dto.CreateSlotRequest{
			StartTime: start,
			EndTime:   start.Add(time.Hour),
			Capacity:  5,
		}, "site-1")
		require.NoError(t, err)

		slotID := res.Slots[0].ID

		require.NoError(t, f.svc.DeactivateSlot(testContext(), slotID))

		slot, err := f.slotRepo.Get(testContext(), slotID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusDeactivated, slot.Status)

		// Second deactivation is a no-op.
		require.NoError(t, f.svc.DeactivateSlot(testContext(), slotID))
	})

	t.Run("full listing still includes deactivated slots", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.svc.CreateSlots(testContext(), dto.CreateSlotRequest{
			StartTime: start,
			EndTime:   start.Add(time.Hour),
			Capacity:  5,
		}, "site-1")
		require.NoError(t, err)

		require.NoError(t, f.svc.DeactivateSlot(testContext(), res.Slots[0].ID))

		listing, err := f.svc.GetSlotsForSite(testContext(), gDto.QueryParams{Page: 1, Limit: 10}, "site-1")
		require.NoError(t, err)
		assert.Equal(t, 1, listing.TotalData)
	})
}
