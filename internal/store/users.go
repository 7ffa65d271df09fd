package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is a registered account
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserStore keeps accounts in memory, keyed by username
type UserStore struct {
	mu     sync.RWMutex
	byName map[string]*User
	byID   map[string]*User
}

// NewUserStore creates an empty user store
func NewUserStore() *UserStore {
	return &UserStore{
		byName: make(map[string]*User),
		byID:   make(map[string]*User),
	}
}

// Register creates an account with a bcrypt-hashed password
func (s *UserStore) Register(username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, NewInvalidInputError("username is required")
	}
	if len(password) < 6 {
		return nil, NewInvalidInputError("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(username)
	if _, exists := s.byName[key]; exists {
		return nil, NewAlreadyExistsError("user", username)
	}

	user := &User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	s.byName[key] = user
	s.byID[user.ID] = user

	return user, nil
}

// Authenticate verifies the password and returns the account
func (s *UserStore) Authenticate(username, password string) (*User, error) {
	s.mu.RLock()
	user, ok := s.byName[strings.ToLower(strings.TrimSpace(username))]
	s.mu.RUnlock()

	if !ok {
		return nil, NewUnauthorizedError("incorrect username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, NewUnauthorizedError("incorrect username or password")
	}
	return user, nil
}

// Get returns an account by id
func (s *UserStore) Get(id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, NewNotFoundError("user", id)
	}
	return user, nil
}
