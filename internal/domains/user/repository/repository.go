package repository

import (
	"context"
	"errors"
	"fmt"

	"scheduleright/infras/otel"
	"scheduleright/internal/domains/user/model"
	"scheduleright/internal/store"
	"scheduleright/shared/constant"
)

type User interface {
	Insert(ctx context.Context, user model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	Update(ctx context.Context, user model.User) error
}

type repositoryImpl struct {
	store store.Store
	otel  otel.Otel
}

func New(docStore store.Store, otl otel.Otel) User {
	return &repositoryImpl{
		store: docStore,
		otel:  otl,
	}
}

// Insert stores the user under its email derived id. A duplicate email
// surfaces as store.ErrConflict.
func (r *repositoryImpl) Insert(ctx context.Context, user model.User) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.Insert")
	defer scope.End()
	defer scope.TraceIfError(err)

	user.Type = model.DocType

	if _, err = r.store.Insert(ctx, user.ID, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return err
		}

		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *repositoryImpl) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.GetByID(ctx, model.DocID(email))
}

func (r *repositoryImpl) GetByID(ctx context.Context, id string) (user model.User, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.GetByID")
	defer scope.End()
	defer scope.TraceIfError(err)

	doc, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return user, err
		}

		return user, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	if err = doc.Unmarshal(&user); err != nil {
		return user, fmt.Errorf("failed to decode user %s: %w", id, err)
	}

	if user.Type != model.DocType {
		return model.User{}, store.ErrNotFound
	}

	user.Rev = doc.Rev

	return user, nil
}

func (r *repositoryImpl) Update(ctx context.Context, user model.User) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user.Type = model.DocType

	if _, err = r.store.Put(ctx, user.ID, user.Rev, user); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrConflict) {
			return err
		}

		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}

	return nil
}
