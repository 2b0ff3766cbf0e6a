package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheduleright/infras/otel/mocks"
	"scheduleright/internal/domains/audit/model"
	"scheduleright/internal/domains/audit/repository"
	"scheduleright/internal/domains/audit/service"
	"scheduleright/internal/store/memstore"
	"scheduleright/shared/constant"
	gDto "scheduleright/shared/dto"
)

func newService(t *testing.T) service.Audit {
	t.Helper()

	mockOtel := mocks.NewOtel()

	return service.New(repository.New(memstore.New(), mockOtel), mockOtel)
}

func testContext(userID, orgID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyOrgID, orgID)
}

func TestAuditRecordAndGetAll(t *testing.T) {
	svc := newService(t)
	ctx := testContext("staff-1", "org-1")

	svc.Record(ctx, constant.AuditActionCreate, "booking", "booking-1", map[string]any{"slot_id": "slot-1"})
	svc.Record(ctx, constant.AuditActionStatus, "booking", "booking-1", map[string]any{"status": "confirmed"})
	svc.Record(testContext("admin-1", "org-1"), constant.AuditActionArchive, "organization", "org-1", nil)

	t.Run("lists all entries for the org", func(t *testing.T) {
		res, err := svc.GetAll(ctx, gDto.QueryParams{Page: 1, Limit: 10}, model.Filter{OrgID: "org-1"})

		require.NoError(t, err)
		assert.Len(t, res.Entries, 3)
		assert.Equal(t, 3, res.TotalData)
	})

	t.Run("filters by action", func(t *testing.T) {
		res, err := svc.GetAll(ctx, gDto.QueryParams{Page: 1, Limit: 10}, model.Filter{
			OrgID:  "org-1",
			Action: constant.AuditActionStatus,
		})

		require.NoError(t, err)
		require.Len(t, res.Entries, 1)
		assert.Equal(t, "booking-1", res.Entries[0].ResourceID)
	})

	t.Run("filters by user", func(t *testing.T) {
		res, err := svc.GetAll(ctx, gDto.QueryParams{Page: 1, Limit: 10}, model.Filter{UserID: "admin-1"})

		require.NoError(t, err)
		require.Len(t, res.Entries, 1)
		assert.Equal(t, constant.AuditActionArchive, res.Entries[0].Action)
	})

	t.Run("actor and org are stamped from context", func(t *testing.T) {
		res, err := svc.GetAll(ctx, gDto.QueryParams{Page: 1, Limit: 10}, model.Filter{
			Action: constant.AuditActionCreate,
		})

		require.NoError(t, err)
		require.Len(t, res.Entries, 1)
		assert.Equal(t, "staff-1", res.Entries[0].UserID)
		assert.Equal(t, "org-1", res.Entries[0].OrgID)
	})
}

func TestAuditGetResourceTrail(t *testing.T) {
	svc := newService(t)
	ctx := testContext("staff-1", "org-1")

	svc.Record(ctx, constant.AuditActionCreate, "booking", "booking-1", nil)
	svc.Record(ctx, constant.AuditActionStatus, "booking", "booking-1", nil)
	svc.Record(ctx, constant.AuditActionCreate, "booking", "booking-2", nil)

	res, err := svc.GetResourceTrail(ctx, "booking", "booking-1")

	require.NoError(t, err)
	assert.Len(t, res.Entries, 2)
	for _, entry := range res.Entries {
		assert.Equal(t, "booking-1", entry.ResourceID)
		assert.Equal(t, "booking", entry.ResourceType)
	}
}

type failingRepo struct{}

func (failingRepo) Insert(context.Context, model.Entry) error {
	return errors.New("store unavailable")
}

func (failingRepo) GetAll(context.Context, gDto.QueryParams, model.Filter) ([]model.Entry, error) {
	return nil, errors.New("store unavailable")
}

func (failingRepo) Count(context.Context, model.Filter) (int, error) {
	return 0, errors.New("store unavailable")
}

func TestAuditRecordSwallowsPersistenceErrors(t *testing.T) {
	svc := service.New(failingRepo{}, mocks.NewOtel())

	// Must not panic or propagate the failure.
	svc.Record(testContext("staff-1", "org-1"), constant.AuditActionCreate, "booking", "booking-1", nil)
}
