package memory

import (
	"context"
	"errors"
	"sync"

	"animeRecommendator/domain"
)

// UserRepository keeps accounts in process memory. It backs the CSV data
// source, where no relational database is configured.
type UserRepository struct {
	mu     sync.RWMutex
	nextID uint
	byID   map[uint]domain.User
	byName map[string]uint
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		nextID: 1,
		byID:   make(map[uint]domain.User),
		byName: make(map[string]uint),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[user.Username]; exists {
		return errors.New("username already exists")
	}

	user.ID = r.nextID
	r.nextID++
	r.byID[user.ID] = *user
	r.byName[user.Username] = user.ID

	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, errors.New("user not found")
	}
	return user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return domain.User{}, errors.New("user not found")
	}
	return r.byID[id], nil
}
