package repositories

import (
	"fmt"
	"sync"
	"time"

	"sweetspro/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return fmt.Errorf("failed to create user: %w", models.ErrUsernameTaken)
		}
		if u.Email == user.Email {
			return fmt.Errorf("failed to create user: %w", models.ErrEmailTaken)
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = cloneUser(*user)
	return nil
}

// GetByUsername returns the user with the given username.
func (r *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username }, "username "+username)
}

// GetByEmail returns the user with the given email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email }, "email "+email)
}

// GetByID returns the user with the given ID.
func (r *MockUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, models.ErrUserNotFound)
	}
	user = cloneUser(user)
	return &user, nil
}

// Update replaces an existing user.
func (r *MockUserRepository) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user with ID %s for update: %w", user.ID, models.ErrUserNotFound)
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *MockUserRepository) find(match func(models.User) bool, what string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with %s: %w", what, models.ErrUserNotFound)
}

// cloneUser copies the slice fields so callers cannot mutate stored state.
func cloneUser(u models.User) models.User {
	u.FavoriteProductIDs = append([]string(nil), u.FavoriteProductIDs...)
	u.CouponIDs = append([]string(nil), u.CouponIDs...)
	return u
}
