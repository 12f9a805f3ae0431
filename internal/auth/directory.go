package auth

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// User is one registered account
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Directory is the in-memory account store backing the session provider
type Directory struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]*User
}

func NewDirectory() *Directory {
	return &Directory{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

// Register creates a new account with a bcrypt-hashed password
func (d *Directory) Register(name, email, password string) (*User, error) {
	email = normalizeEmail(email)

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byEmail[email]; exists {
		return nil, ErrEmailTaken
	}

	u := &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	d.byID[u.ID] = u
	d.byEmail[email] = u
	return u, nil
}

// Authenticate checks the credentials and returns the matching user
func (d *Directory) Authenticate(email, password string) (*User, error) {
	d.mu.RLock()
	u, ok := d.byEmail[normalizeEmail(email)]
	d.mu.RUnlock()

	if !ok || !CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns the user with the given id
func (d *Directory) Get(id string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
