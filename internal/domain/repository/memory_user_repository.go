package repository

import (
	"context"
	"sync"
	"time"

	"baseline_academy/internal/common"
	"baseline_academy/internal/domain/model"
)

// memoryUserRepository keeps users in process memory. Every mutation takes
// the write lock, so the uniqueness check and the insert cannot interleave.
type memoryUserRepository struct {
	mu     sync.RWMutex
	users  []model.User
	nextID int64
}

// NewMemoryUserRepository returns a store preloaded with seed. IDs for new
// users continue after the highest seeded id.
func NewMemoryUserRepository(seed ...model.User) UserRepository {
	r := &memoryUserRepository{nextID: 1}
	for _, u := range seed {
		r.users = append(r.users, u)
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
	}
	return r
}

func (r *memoryUserRepository) Insert(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username {
			return common.ErrDuplicateUsername
		}
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return common.ErrDuplicateEmail
		}
	}

	now := time.Now().UTC()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.nextID++
	r.users = append(r.users, *user)
	return nil
}

func (r *memoryUserRepository) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Username == username })
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Email == email })
}

func (r *memoryUserRepository) FindByID(_ context.Context, id int64) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

func (r *memoryUserRepository) UpdateRole(_ context.Context, id int64, role model.Role) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].Role = role
			r.users[i].UpdatedAt = time.Now().UTC()
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, common.ErrUserNotFound
}

func (r *memoryUserRepository) find(match func(*model.User) bool) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.users {
		if match(&r.users[i]) {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, common.ErrUserNotFound
}
