// File: internal/service/user.go
package service

import (
	"context"
	"fmt"

	"user-api/internal/jobs"
	"user-api/internal/logging"
	"user-api/internal/model"
	"user-api/internal/pagination"
	"user-api/internal/queue"
	"user-api/internal/repository"
)

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateUserInput nil 欄位不變更
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error)
	UpdateUser(ctx context.Context, id int, in UpdateUserInput) (bool, error)
	DeleteUser(ctx context.Context, id int) (bool, error)
	GetUserByID(ctx context.Context, id int) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUsersPaginated(ctx context.Context, page, perPage int) (*pagination.Page[model.User], error)
	GetAllUsers(ctx context.Context) ([]model.User, error)
}

type userService struct {
	repo            repository.UserRepository
	dispatcher      queue.Dispatcher
	logger          logging.Logger
	includePassword bool
}

// NewUserService includePassword 為 true 時，通知 job 會帶入明文密碼
func NewUserService(repo repository.UserRepository, dispatcher queue.Dispatcher, logger logging.Logger, includePassword bool) UserService {
	return &userService{
		repo:            repo,
		dispatcher:      dispatcher,
		logger:          logger,
		includePassword: includePassword,
	}
}

// CreateUser 寫入與 enqueue 在同一交易內，任一失敗都不留下資料
func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var created *model.User
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		u, err := repo.Create(ctx, &model.User{
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: hash,
		})
		if err != nil {
			return err
		}

		submitted := &jobs.SubmittedFields{Name: in.Name, Email: in.Email}
		if s.includePassword {
			submitted.Password = in.Password
		}
		if err := s.dispatcher.Dispatch(ctx, jobs.TypeUserCreated, jobs.UserCreatedPayload{
			User:      *u,
			Submitted: submitted,
		}); err != nil {
			return err
		}

		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user created", "user_id", created.ID)
	return created, nil
}

func (s *userService) UpdateUser(ctx context.Context, id int, in UpdateUserInput) (bool, error) {
	upd := model.UserUpdate{Name: in.Name, Email: in.Email}
	if in.Password != nil {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return false, fmt.Errorf("hash password: %w", err)
		}
		upd.PasswordHash = &hash
	}

	ok, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info(ctx, "user updated", "user_id", id)
	}
	return ok, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info(ctx, "user deleted", "user_id", id)
	}
	return ok, nil
}

func (s *userService) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *userService) GetUsersPaginated(ctx context.Context, page, perPage int) (*pagination.Page[model.User], error) {
	return s.repo.Paginate(ctx, page, perPage)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.FindAll(ctx)
}
