package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheduleright/config"
	"scheduleright/infras/otel/mocks"
	auditRepository "scheduleright/internal/domains/audit/repository"
	auditService "scheduleright/internal/domains/audit/service"
	orgModel "scheduleright/internal/domains/organization/model"
	orgRepository "scheduleright/internal/domains/organization/repository"
	"scheduleright/internal/domains/site/model/dto"
	siteRepository "scheduleright/internal/domains/site/repository"
	"scheduleright/internal/domains/site/service"
	"scheduleright/internal/store"
	"scheduleright/internal/store/memstore"
	cacheMocks "scheduleright/shared/cache/mocks"
	"scheduleright/shared/constant"
	gDto "scheduleright/shared/dto"
	"scheduleright/shared/failure"
)

type fixture struct {
	svc   service.Site
	store store.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockOtel := mocks.NewOtel()
	docStore := memstore.New()
	redisCache := cacheMocks.NewRedisCache()

	siteRepo := siteRepository.New(docStore, mockOtel)
	orgRepo := orgRepository.New(docStore, mockOtel)
	audit := auditService.New(auditRepository.New(docStore, mockOtel), mockOtel)

	_, err := docStore.Insert(context.Background(), "org-1", orgModel.Organization{
		ID:       "org-1",
		Type:     orgModel.DocType,
		Name:     "Community Kitchen",
		Status:   orgModel.StatusActive,
		Settings: orgModel.Settings{Timezone: "America/New_York"},
	})
	require.NoError(t, err)

	return fixture{
		svc:   service.New(siteRepo, orgRepo, audit, cfg, redisCache, mockOtel),
		store: docStore,
	}
}

func testContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-1")
}

func TestSiteCreate(t *testing.T) {
	t.Run("inherits the organization timezone when none given", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.svc.Create(testContext(), dto.CreateSiteRequest{Name: "Downtown Pantry"}, "org-1")

		require.NoError(t, err)
		assert.Equal(t, "Downtown Pantry", res.Name)
		assert.Equal(t, "org-1", res.OrgID)
		assert.Equal(t, "America/New_York", res.Timezone)
		assert.NotEmpty(t, res.ID)
	})

	t.Run("keeps an explicit timezone", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.svc.Create(testContext(), dto.CreateSiteRequest{
			Name:     "Harbor Clinic",
			Timezone: "Europe/Berlin",
		}, "org-1")

		require.NoError(t, err)
		assert.Equal(t, "Europe/Berlin", res.Timezone)
	})

	t.Run("unknown organization maps to not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(testContext(), dto.CreateSiteRequest{Name: "Ghost Site"}, "ghost-org")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("archived organization rejects new sites", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.store.Insert(context.Background(), "org-2", orgModel.Organization{
			ID:     "org-2",
			Type:   orgModel.DocType,
			Name:   "Closed Charity",
			Status: orgModel.StatusArchived,
		})
		require.NoError(t, err)

		_, err = f.svc.Create(testContext(), dto.CreateSiteRequest{Name: "Late Site"}, "org-2")

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestSiteGet(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(testContext(), dto.CreateSiteRequest{Name: "Downtown Pantry"}, "org-1")
	require.NoError(t, err)

	t.Run("returns the stored site", func(t *testing.T) {
		res, err := f.svc.Get(testContext(), created.ID)

		require.NoError(t, err)
		assert.Equal(t, created.Name, res.Name)
		assert.Equal(t, created.OrgID, res.OrgID)
	})

	t.Run("unknown site maps to not found", func(t *testing.T) {
		_, err := f.svc.Get(testContext(), "ghost-site")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestSiteGetAllByOrg(t *testing.T) {
	f := newFixture(t)

	for _, name := range []string{"Downtown Pantry", "Harbor Clinic", "Northside Shelter"} {
		_, err := f.svc.Create(testContext(), dto.CreateSiteRequest{Name: name}, "org-1")
		require.NoError(t, err)
	}

	res, err := f.svc.GetAllByOrg(testContext(), gDto.QueryParams{Page: 1, Limit: 10}, "org-1")

	require.NoError(t, err)
	assert.Len(t, res.Sites, 3)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)

	empty, err := f.svc.GetAllByOrg(testContext(), gDto.QueryParams{Page: 1, Limit: 10}, "other-org")

	require.NoError(t, err)
	assert.Empty(t, empty.Sites)
	assert.Equal(t, 0, empty.TotalData)
}

func TestSiteUpdate(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(testContext(), dto.CreateSiteRequest{Name: "Downtown Pantry"}, "org-1")
	require.NoError(t, err)

	t.Run("applies partial update", func(t *testing.T) {
		name := "Renamed Pantry"
		address := "42 Main St"

		res, err := f.svc.Update(testContext(), dto.UpdateSiteRequest{Name: &name, Address: &address}, created.ID)

		require.NoError(t, err)
		assert.Equal(t, name, res.Name)
		assert.Equal(t, address, res.Address)
		assert.Equal(t, created.Timezone, res.Timezone)
	})

	t.Run("unknown site maps to not found", func(t *testing.T) {
		name := "Nowhere"

		_, err := f.svc.Update(testContext(), dto.UpdateSiteRequest{Name: &name}, "ghost-site")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
