package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"scheduleright/config"
	"scheduleright/infras/otel/mocks"
	auditRepository "scheduleright/internal/domains/audit/repository"
	auditService "scheduleright/internal/domains/audit/service"
	orgMocks "scheduleright/internal/domains/organization/mocks"
	"scheduleright/internal/domains/organization/model"
	"scheduleright/internal/domains/organization/model/dto"
	"scheduleright/internal/domains/organization/service"
	"scheduleright/internal/store"
	"scheduleright/internal/store/memstore"
	cacheMocks "scheduleright/shared/cache/mocks"
	"scheduleright/shared/constant"
	"scheduleright/shared/failure"
	gModel "scheduleright/shared/model"
	"scheduleright/shared/timezone"
)

func newService(t *testing.T, repo *orgMocks.MockOrganization) service.Organization {
	t.Helper()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockOtel := mocks.NewOtel()
	audit := auditService.New(auditRepository.New(memstore.New(), mockOtel), mockOtel)

	return service.New(repo, audit, cfg, cacheMocks.NewRedisCache(), mockOtel)
}

func testContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")

	return context.WithValue(ctx, constant.ContextKeyOrgID, "test-org-id")
}

func TestOrganizationService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := orgMocks.NewMockOrganization(ctrl)
	svc := newService(t, mockRepo)

	tests := []struct {
		name      string
		req       dto.CreateOrganizationRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful creation",
			req: dto.CreateOrganizationRequest{
				Name: "Community Kitchen",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "repository error",
			req: dto.CreateOrganizationRequest{
				Name: "Community Kitchen",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Create(testContext(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.req.Name, res.Name)
				assert.Equal(t, model.StatusActive, res.Status)
				assert.NotEmpty(t, res.TenantID)
			}
		})
	}
}

func TestOrganizationService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := orgMocks.NewMockOrganization(ctrl)
	svc := newService(t, mockRepo)

	t.Run("found", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), "org-1").
			Return(model.Organization{
				ID:       "org-1",
				Name:     "Community Kitchen",
				Status:   model.StatusActive,
				Metadata: gModel.NewMetadata(timezone.Now(), "tester"),
			}, nil)

		res, err := svc.Get(testContext(), "org-1")

		require.NoError(t, err)
		assert.Equal(t, "Community Kitchen", res.Name)
	})

	t.Run("not found maps to failure", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), "ghost").
			Return(model.Organization{}, store.ErrNotFound)

		_, err := svc.Get(testContext(), "ghost")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestOrganizationService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := orgMocks.NewMockOrganization(ctrl)
	svc := newService(t, mockRepo)

	name := "Updated Kitchen"

	t.Run("applies partial update", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), "org-1").
			Return(model.Organization{ID: "org-1", Name: "Community Kitchen", Status: model.StatusActive}, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, org model.Organization) error {
				assert.Equal(t, name, org.Name)

				return nil
			})

		res, err := svc.Update(testContext(), dto.UpdateOrganizationRequest{Name: &name}, "org-1")

		require.NoError(t, err)
		assert.Equal(t, name, res.Name)
	})

	t.Run("concurrent modification maps to conflict", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), "org-1").
			Return(model.Organization{ID: "org-1", Name: "Community Kitchen"}, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			Return(store.ErrConflict)

		_, err := svc.Update(testContext(), dto.UpdateOrganizationRequest{Name: &name}, "org-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestOrganizationService_Archive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := orgMocks.NewMockOrganization(ctrl)
	svc := newService(t, mockRepo)

	t.Run("archives active organization", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), "org-1").
			Return(model.Organization{ID: "org-1", Status: model.StatusActive}, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, org model.Organization) error {
				assert.Equal(t, model.StatusArchived, org.Status)

				return nil
			})

		assert.NoError(t, svc.Archive(testContext(), "org-1"))
	})

	t.Run("archiving an archived organization is a no-op", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), "org-1").
			Return(model.Organization{ID: "org-1", Status: model.StatusArchived}, nil)

		assert.NoError(t, svc.Archive(testContext(), "org-1"))
	})
}
