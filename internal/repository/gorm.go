// File: internal/repository/gorm.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"user-api/internal/model"
	"user-api/internal/pagination"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const mysqlDuplicateEntry = 1062

// gormOpen 測試可覆寫
var gormOpen = gorm.Open

// NewMySQL 建立 GORM 連線並同步 users 資料表結構
// 強制 clientFoundRows，讓內容未變的 UPDATE 仍回報符合的筆數
func NewMySQL(dsn string) (*gorm.DB, error) {
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ClientFoundRows = true
	cfg.ParseTime = true

	db, err := gormOpen(mysql.Open(cfg.FormatDSN()), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		return nil, fmt.Errorf("migrate mysql: %w", err)
	}
	return db, nil
}

// GormUserRepository 以 GORM (MySQL) 實作 UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func gormErr(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *GormUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, gormErr("FindAll", err)
	}
	return users, nil
}

func (r *GormUserRepository) Paginate(ctx context.Context, page, perPage int) (*pagination.Page[model.User], error) {
	page, perPage = pagination.Normalize(page, perPage)

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, gormErr("Paginate count", err)
	}

	users := []model.User{}
	if err := r.db.WithContext(ctx).
		Order("id").
		Limit(perPage).
		Offset(pagination.Offset(page, perPage)).
		Find(&users).Error; err != nil {
		return nil, gormErr("Paginate", err)
	}
	return pagination.NewPage(users, page, perPage, total), nil
}

func (r *GormUserRepository) first(ctx context.Context, op string, query string, arg any) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, gormErr(op, err)
	}
	return &user, nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	return r.first(ctx, "FindByID", "id = ?", id)
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "FindByEmail", "email = ?", email)
}

func (r *GormUserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, gormErr("Create", err)
	}
	return u, nil
}

func (r *GormUserRepository) Update(ctx context.Context, id int, upd model.UserUpdate) (bool, error) {
	if upd.IsEmpty() {
		u, err := r.FindByID(ctx, id)
		return u != nil, err
	}

	values := map[string]any{}
	if upd.Name != nil {
		values["name"] = *upd.Name
	}
	if upd.Email != nil {
		values["email"] = *upd.Email
	}
	if upd.PasswordHash != nil {
		values["password_hash"] = *upd.PasswordHash
	}

	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return false, gormErr("Update", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormUserRepository) Delete(ctx context.Context, id int) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return false, gormErr("Delete", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormUserRepository) WithTx(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &GormUserRepository{db: tx})
	})
}

func (r *GormUserRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
