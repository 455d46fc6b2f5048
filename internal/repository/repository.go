// File: internal/repository/repository.go
package repository

import (
	"context"

	"user-api/internal/model"
	"user-api/internal/pagination"
	"user-api/internal/store"
)

// ErrDuplicateEmail 所有實作在 email 唯一性衝突時回傳此錯誤
var ErrDuplicateEmail = store.ErrDuplicateEmail

// UserRepository 使用者持久化操作
// FindByID / FindByEmail 查無資料時回傳 nil, nil
// Update / Delete 回傳是否有資料被影響
type UserRepository interface {
	FindAll(ctx context.Context) ([]model.User, error)
	Paginate(ctx context.Context, page, perPage int) (*pagination.Page[model.User], error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Update(ctx context.Context, id int, upd model.UserUpdate) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	// WithTx 在同一交易內執行 fn，fn 回傳錯誤時整筆交易退回
	WithTx(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error
}
