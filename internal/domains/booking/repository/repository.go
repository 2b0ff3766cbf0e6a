package repository

import (
	"context"
	"errors"
	"fmt"

	"scheduleright/infras/otel"
	"scheduleright/internal/domains/booking/model"
	"scheduleright/internal/store"
	"scheduleright/shared/constant"
	gDto "scheduleright/shared/dto"
)

type Booking interface {
	Insert(ctx context.Context, booking model.Booking) error
	Get(ctx context.Context, id string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Booking, error)
	Count(ctx context.Context, filter model.Filter) (int, error)
	Update(ctx context.Context, booking model.Booking) error
}

type repositoryImpl struct {
	store store.Store
	otel  otel.Otel
}

func New(docStore store.Store, otl otel.Otel) Booking {
	return &repositoryImpl{
		store: docStore,
		otel:  otl,
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Insert")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking.Type = model.DocType

	if _, err = r.store.Insert(ctx, booking.ID, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

func (r *repositoryImpl) Get(ctx context.Context, id string) (booking model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	doc, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return booking, err
		}

		return booking, fmt.Errorf("failed to get booking %s: %w", id, err)
	}

	if err = doc.Unmarshal(&booking); err != nil {
		return booking, fmt.Errorf("failed to decode booking %s: %w", id, err)
	}

	if booking.Type != model.DocType {
		return model.Booking{}, store.ErrNotFound
	}

	booking.Rev = doc.Rev

	return booking, nil
}

func (r *repositoryImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) (bookings []model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := store.Query{
		Selector: filter.Selector(),
		Sort:     []store.Sort{{Field: constant.FieldCreatedAt, Descending: true}},
	}
	query.Limit, query.Skip = params.LimitSkip()

	docs, err := r.store.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}

	bookings = make([]model.Booking, len(docs))
	for i, doc := range docs {
		if err = doc.Unmarshal(&bookings[i]); err != nil {
			return nil, fmt.Errorf("failed to decode booking %s: %w", doc.ID, err)
		}

		bookings[i].Rev = doc.Rev
	}

	return bookings, nil
}

func (r *repositoryImpl) Count(ctx context.Context, filter model.Filter) (count int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	count, err = r.store.Count(ctx, filter.Selector())
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

func (r *repositoryImpl) Update(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking.Type = model.DocType

	if _, err = r.store.Put(ctx, booking.ID, booking.Rev, booking); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrConflict) {
			return err
		}

		return fmt.Errorf("failed to update booking %s: %w", booking.ID, err)
	}

	return nil
}
