package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"scheduleright/infras/otel"
	"scheduleright/internal/domains/audit/model"
	"scheduleright/internal/domains/audit/model/dto"
	"scheduleright/internal/domains/audit/repository"
	"scheduleright/shared/constant"
	gDto "scheduleright/shared/dto"
	"scheduleright/shared/timezone"
)

type Audit interface {
	// Record appends an audit entry. It never returns an error: persistence
	// failures are logged and the triggering operation proceeds.
	Record(ctx context.Context, action, resourceType, resourceID string, details any)
	GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) (dto.GetEntriesResponse, error)
	GetResourceTrail(ctx context.Context, resourceType, resourceID string) (dto.GetEntriesResponse, error)
}

type serviceImpl struct {
	repo repository.Audit
	otel otel.Otel
}

func New(repo repository.Audit, otl otel.Otel) Audit {
	return &serviceImpl{
		repo: repo,
		otel: otl,
	}
}

func (s *serviceImpl) Record(ctx context.Context, action, resourceType, resourceID string, details any) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.Record")
	defer scope.End()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	orgID, _ := ctx.Value(constant.ContextKeyOrgID).(string)

	entry := model.Entry{
		ID:           uuid.NewString(),
		Action:       action,
		UserID:       userID,
		OrgID:        orgID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		Timestamp:    timezone.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		log.Error().Err(err).
			Str("action", action).
			Str("resourceType", resourceType).
			Str("resourceID", resourceID).
			Msg("failed to record audit entry")
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) (res dto.GetEntriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count audit entries")

		return res, fmt.Errorf("failed to count audit entries: %w", err)
	}

	entries, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get audit entries")

		return res, fmt.Errorf("failed to get audit entries: %w", err)
	}

	res.FromModels(entries, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) GetResourceTrail(ctx context.Context, resourceType, resourceID string) (res dto.GetEntriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.GetResourceTrail")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := model.Filter{
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}

	entries, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get resource audit trail")

		return res, fmt.Errorf("failed to get resource audit trail: %w", err)
	}

	res.FromModels(entries, len(entries), 0)

	return res, nil
}
