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
	slotModel "scheduleright/internal/domains/availability/model"
	slotRepository "scheduleright/internal/domains/availability/repository"
	availabilityService "scheduleright/internal/domains/availability/service"
	"scheduleright/internal/domains/embed/model"
	"scheduleright/internal/domains/embed/model/dto"
	embedRepository "scheduleright/internal/domains/embed/repository"
	"scheduleright/internal/domains/embed/service"
	siteModel "scheduleright/internal/domains/site/model"
	siteRepository "scheduleright/internal/domains/site/repository"
	"scheduleright/internal/store"
	"scheduleright/internal/store/memstore"
	cacheMocks "scheduleright/shared/cache/mocks"
	"scheduleright/shared/constant"
	"scheduleright/shared/failure"
)

type fixture struct {
	svc   service.Embed
	store store.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockOtel := mocks.NewOtel()
	docStore := memstore.New()
	redisCache := cacheMocks.NewRedisCache()

	embedRepo := embedRepository.New(docStore, mockOtel)
	siteRepo := siteRepository.New(docStore, mockOtel)
	slotRepo := slotRepository.New(docStore, mockOtel)
	audit := auditService.New(auditRepository.New(docStore, mockOtel), mockOtel)
	availability := availabilityService.New(slotRepo, siteRepo, audit, cfg, redisCache, mockOtel)

	_, err := docStore.Insert(context.Background(), "site-1", siteModel.Site{
		ID:       "site-1",
		Type:     siteModel.DocType,
		OrgID:    "org-1",
		Name:     "Downtown Pantry",
		Timezone: "UTC",
	})
	require.NoError(t, err)

	return fixture{
		svc:   service.New(embedRepo, siteRepo, availability, audit, cfg, redisCache, mockOtel),
		store: docStore,
	}
}

func testContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-1")
}

func TestEmbedCreate(t *testing.T) {
	t.Run("generates a token and derives the org from the site", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.svc.Create(testContext(), dto.CreateEmbedConfigRequest{
			SiteID:       "site-1",
			AllowDomains: []string{"example.com"},
		})
		require.NoError(t, err)

		assert.Len(t, res.Token, 32)
		assert.Equal(t, "org-1", res.OrgID)
		assert.Equal(t, model.StatusActive, res.Status)
	})

	t.Run("rejects an unknown site", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(testContext(), dto.CreateEmbedConfigRequest{SiteID: "ghost"})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("tokens are unique per config", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.svc.Create(testContext(), dto.CreateEmbedConfigRequest{SiteID: "site-1"})
		require.NoError(t, err)

		second, err := f.svc.Create(testContext(), dto.CreateEmbedConfigRequest{SiteID: "site-1"})
		require.NoError(t, err)

		assert.NotEqual(t, first.Token, second.Token)
	})
}

func TestEmbedArchive(t *testing.T) {
	t.Run("archives an active config", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.svc.Create(testContext(), dto.CreateEmbedConfigRequest{SiteID: "site-1"})
		require.NoError(t, err)

		res, err := f.svc.Archive(testContext(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusArchived, res.Status)
	})

	t.Run("archiving twice is a no-op", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.svc.Create(testContext(), dto.CreateEmbedConfigRequest{SiteID: "site-1"})
		require.NoError(t, err)

		_, err = f.svc.Archive(testContext(), created.ID)
		require.NoError(t, err)

		res, err := f.svc.Archive(testContext(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusArchived, res.Status)
	})

	t.Run("unknown config returns not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Archive(testContext(), "ghost")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestEmbedGetPublicSlots(t *testing.T) {
	seedSlot := func(t *testing.T, f fixture, id string) {
		t.Helper()

		start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
		_, err := f.store.Insert(context.Background(), id, slotModel.Slot{
			ID:        id,
			Type:      slotModel.DocType,
			SiteID:    "site-1",
			OrgID:     "org-1",
			StartTime: start,
			EndTime:   start.Add(30 * time.Minute),
			Capacity:  4,
			Status:    slotModel.StatusActive,
		})
		require.NoError(t, err)
	}

	window := func() (time.Time, time.Time) {
		now := time.Now().UTC()

		return now, now.Add(7 * 24 * time.Hour)
	}

	t.Run("serves slots for an allowed origin", func(t *testing.T) {
		f := newFixture(t)
		seedSlot(t, f, "slot-1")

		created, err := f.svc.Create(testContext(), dto.CreateEmbedConfigRequest{
			SiteID:       "site-1",
			AllowDomains: []string{"example.com"},
		})
		require.NoError(t, err)

		from, to := window()

		res, err := f.svc.GetPublicSlots(context.Background(), created.Token, "https://booking.example.com", from, to)
		require.NoError(t, err)
		assert.Len(t, res.Slots, 1)
	})

	t.Run("rejects an origin outside the allow list", func(t *testing.T) {
		f := newFixture(t)
		seedSlot(t, f, "slot-1")

		created, err := f.svc.Create(testContext(), dto.CreateEmbedConfigRequest{
			SiteID:       "site-1",
			AllowDomains: []string{"example.com"},
		})
		require.NoError(t, err)

		from, to := window()

		_, err = f.svc.GetPublicSlots(context.Background(), created.Token, "https://evil.test", from, to)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("empty allow list admits any origin", func(t *testing.T) {
		f := newFixture(t)
		seedSlot(t, f, "slot-1")

		created, err := f.svc.Create(testContext(), dto.CreateEmbedConfigRequest{SiteID: "site-1"})
		require.NoError(t, err)

		from, to := window()

		res, err := f.svc.GetPublicSlots(context.Background(), created.Token, "https://anywhere.test", from, to)
		require.NoError(t, err)
		assert.Len(t, res.Slots, 1)
	})

	t.Run("archived config behaves as unknown", func(t *testing.T) {
		f := newFixture(t)
		seedSlot(t, f, "slot-1")

		created, err := f.svc.Create(testContext(), dto.CreateEmbedConfigRequest{SiteID: "site-1"})
		require.NoError(t, err)

		_, err = f.svc.Archive(testContext(), created.ID)
		require.NoError(t, err)

		from, to := window()

		_, err = f.svc.GetPublicSlots(context.Background(), created.Token, "https://anywhere.test", from, to)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("bad token returns not found", func(t *testing.T) {
		f := newFixture(t)

		from, to := window()

		_, err := f.svc.GetPublicSlots(context.Background(), "nope", "https://anywhere.test", from, to)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestOriginAllowed(t *testing.T) {
	cfgWith := func(domains ...string) model.EmbedConfig {
		return model.EmbedConfig{AllowDomains: domains}
	}

	tests := []struct {
		name   string
		cfg    model.EmbedConfig
		origin string
		want   bool
	}{
		{name: "exact match", cfg: cfgWith("example.com"), origin: "https://example.com", want: true},
		{name: "subdomain match", cfg: cfgWith("example.com"), origin: "https://app.example.com", want: true},
		{name: "suffix without dot is not a subdomain", cfg: cfgWith("example.com"), origin: "https://badexample.com", want: false},
		{name: "unlisted host", cfg: cfgWith("example.com"), origin: "https://other.test", want: false},
		{name: "empty list admits all", cfg: cfgWith(), origin: "https://anywhere.test", want: true},
		{name: "empty origin rejected when listed", cfg: cfgWith("example.com"), origin: "", want: false},
		{name: "case insensitive host", cfg: cfgWith("example.com"), origin: "https://APP.EXAMPLE.COM", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.OriginAllowed(tt.origin))
		})
	}
}
