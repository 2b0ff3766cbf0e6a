package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"scheduleright/infras/otel"
	auditService "scheduleright/internal/domains/audit/service"
	"scheduleright/internal/domains/notification/model"
	"scheduleright/internal/domains/notification/model/dto"
	"scheduleright/internal/domains/notification/repository"
	"scheduleright/internal/store"
	"scheduleright/shared/constant"
	"scheduleright/shared/failure"
	gModel "scheduleright/shared/model"
	"scheduleright/shared/timezone"
)

type Notification interface {
	GetPreference(ctx context.Context, userID string) (dto.PreferenceResponse, error)
	UpdatePreference(ctx context.Context, userID string, req dto.UpdatePreferenceRequest) (dto.PreferenceResponse, error)
}

type serviceImpl struct {
	repo  repository.Preference
	audit auditService.Audit
	otel  otel.Otel
}

func New(repo repository.Preference, audit auditService.Audit, otel otel.Otel) Notification {
	return &serviceImpl{
		repo:  repo,
		audit: audit,
		otel:  otel,
	}
}

// GetPreference returns the user's saved preference, or the defaults if the
// user never saved one.
func (s *serviceImpl) GetPreference(ctx context.Context, userID string) (res dto.PreferenceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.GetPreference")
	defer scope.End()
	defer scope.TraceIfError(err)

	pref, err := s.repo.GetByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		res.FromModel(model.Default(userID))

		return res, nil
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to get notification preference")

		return res, fmt.Errorf("failed to get notification preference: %w", err)
	}

	res.FromModel(pref)

	return res, nil
}

func (s *serviceImpl) UpdatePreference(ctx context.Context, userID string, req dto.UpdatePreferenceRequest) (res dto.PreferenceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.UpdatePreference")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now().UTC()

	pref, err := s.repo.GetByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		pref = model.Default(userID)
		pref.Metadata = gModel.NewMetadata(now, userID)
	} else if err != nil {
		log.Error().Err(err).Msg("failed to get notification preference")

		return res, fmt.Errorf("failed to get notification preference: %w", err)
	}

	req.Apply(&pref)
	pref.Touch(now, userID)

	err = s.repo.Upsert(ctx, pref)
	if errors.Is(err, store.ErrConflict) {
		return res, failure.Conflict("notification preference was modified concurrently") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to save notification preference")

		return res, fmt.Errorf("failed to save notification preference: %w", err)
	}

	s.audit.Record(ctx, constant.AuditActionUpdate, model.DocType, pref.ID, map[string]any{
		"sms_enabled":           pref.SMSEnabled,
		"email_enabled":         pref.EmailEnabled,
		"reminder_lead_minutes": pref.ReminderLeadMinutes,
	})

	res.FromModel(pref)

	return res, nil
}
