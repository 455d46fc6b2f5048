// File: internal/repository/memory.go
package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"user-api/internal/model"
	"user-api/internal/pagination"
)

// MemoryUserRepository 行程內的 UserRepository，供開發與測試使用
type MemoryUserRepository struct {
	mu     *sync.Mutex
	state  *memoryState
	locked bool
}

type memoryState struct {
	users  map[int]model.User
	nextID int
}

func (s *memoryState) clone() *memoryState {
	c := &memoryState{users: make(map[int]model.User, len(s.users)), nextID: s.nextID}
	for id, u := range s.users {
		c.users[id] = u
	}
	return c
}

var nowFn = func() time.Time { return time.Now().UTC() }

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		mu:    &sync.Mutex{},
		state: &memoryState{users: map[int]model.User{}, nextID: 1},
	}
}

// lock 交易中已持有鎖，不再重複加鎖
func (r *MemoryUserRepository) lock() func() {
	if r.locked {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func (r *MemoryUserRepository) sorted() []model.User {
	users := make([]model.User, 0, len(r.state.users))
	for _, u := range r.state.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (r *MemoryUserRepository) emailTaken(email string, exceptID int) bool {
	for id, u := range r.state.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func (r *MemoryUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	defer r.lock()()
	return r.sorted(), nil
}

func (r *MemoryUserRepository) Paginate(ctx context.Context, page, perPage int) (*pagination.Page[model.User], error) {
	defer r.lock()()
	page, perPage = pagination.Normalize(page, perPage)

	all := r.sorted()
	start := pagination.Offset(page, perPage)
	if start > len(all) {
		start = len(all)
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	items := append([]model.User{}, all[start:end]...)
	return pagination.NewPage(items, page, perPage, int64(len(all))), nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	defer r.lock()()
	u, ok := r.state.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	defer r.lock()()
	for _, u := range r.state.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	defer r.lock()()
	if r.emailTaken(u.Email, 0) {
		return nil, fmt.Errorf("Create: %w", ErrDuplicateEmail)
	}
	now := nowFn()
	u.ID = r.state.nextID
	u.CreatedAt = now
	u.UpdatedAt = now
	r.state.nextID++
	r.state.users[u.ID] = *u
	return u, nil
}

func (r *MemoryUserRepository) Update(ctx context.Context, id int, upd model.UserUpdate) (bool, error) {
	defer r.lock()()
	u, ok := r.state.users[id]
	if !ok {
		return false, nil
	}
	if upd.IsEmpty() {
		return true, nil
	}
	if upd.Email != nil && r.emailTaken(*upd.Email, id) {
		return false, fmt.Errorf("Update: %w", ErrDuplicateEmail)
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	u.UpdatedAt = nowFn()
	r.state.users[id] = u
	return true, nil
}

func (r *MemoryUserRepository) Delete(ctx context.Context, id int) (bool, error) {
	defer r.lock()()
	if _, ok := r.state.users[id]; !ok {
		return false, nil
	}
	delete(r.state.users, id)
	return true, nil
}

// WithTx 在副本上執行 fn，成功才寫回；交易期間其他呼叫會等待
func (r *MemoryUserRepository) WithTx(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error {
	if r.locked {
		return fn(ctx, r)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	txRepo := &MemoryUserRepository{mu: r.mu, state: r.state.clone(), locked: true}
	if err := fn(ctx, txRepo); err != nil {
		return err
	}
	r.state = txRepo.state
	return nil
}

func (r *MemoryUserRepository) Ping(ctx context.Context) error { return nil }
