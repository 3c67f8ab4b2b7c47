package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/pkg/apperror"
	"github.com/google/uuid"
)

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*entity.User
	seq   map[uuid.UUID]int
	next  int
}

// NewMemoryUserRepository returns a UserRepository held in process memory.
// It enforces the same unique email rule as the database schema.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users: make(map[uuid.UUID]*entity.User),
		seq:   make(map[uuid.UUID]int),
	}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return apperror.Conflict(msgEmailTaken)
		}
	}

	if user.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		user.ID = id
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	stored := *user
	r.users[user.ID] = &stored
	r.next++
	r.seq[user.ID] = r.next
	return nil
}

func (r *memoryUserRepository) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return apperror.NotFound(msgUserNotFound)
	}
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return apperror.Conflict(msgEmailTaken)
		}
	}

	stored := *user
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	r.users[user.ID] = &stored
	return nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperror.NotFound(msgUserNotFound)
	}
	out := *u
	return &out, nil
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, apperror.NotFound(msgUserNotFound)
}

func (r *memoryUserRepository) FindAll(ctx context.Context, status string) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.User
	for _, u := range r.users {
		if status == "" || u.Status == status {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	return out, nil
}

func (r *memoryUserRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := map[string]int64{
		entity.StatusPending:  0,
		entity.StatusApproved: 0,
		entity.StatusRejected: 0,
	}
	for _, u := range r.users {
		counts[u.Status]++
	}
	return counts, nil
}
