// File: internal/repository/postgres.go
package repository

import (
	"context"
	"fmt"

	"user-api/internal/database"
	"user-api/internal/model"
	"user-api/internal/pagination"
	"user-api/internal/store"
)

// PostgresUserRepository 以 pgx 實作 UserRepository
type PostgresUserRepository struct {
	db database.DB
	q  database.Querier
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db, q: db}
}

func (r *PostgresUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	return store.ListUsers(ctx, r.q)
}

func (r *PostgresUserRepository) Paginate(ctx context.Context, page, perPage int) (*pagination.Page[model.User], error) {
	page, perPage = pagination.Normalize(page, perPage)
	total, err := store.CountUsers(ctx, r.q)
	if err != nil {
		return nil, err
	}
	users, err := store.ListUsersPage(ctx, r.q, perPage, pagination.Offset(page, perPage))
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(users, page, perPage, total), nil
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	return store.GetUserByID(ctx, r.q, id)
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return store.GetUserByEmail(ctx, r.q, email)
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	return store.CreateUser(ctx, r.q, u)
}

func (r *PostgresUserRepository) Update(ctx context.Context, id int, upd model.UserUpdate) (bool, error) {
	return store.UpdateUser(ctx, r.q, id, upd)
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id int) (bool, error) {
	return store.DeleteUser(ctx, r.q, id)
}

// WithTx 已在交易中時直接沿用目前的交易
func (r *PostgresUserRepository) WithTx(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) (err error) {
	if r.db == nil {
		return fn(ctx, r)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			return
		}
		if cerr := tx.Commit(ctx); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()

	return fn(ctx, &PostgresUserRepository{q: tx})
}

func (r *PostgresUserRepository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.Ping(ctx)
}
