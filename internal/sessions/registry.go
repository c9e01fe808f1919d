package sessions

import (
	"fmt"
	"strings"
	"sync"

	"github.com/docdesk/docdesk/backend/go-services/internal/apperr"
	"github.com/docdesk/docdesk/backend/go-services/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// hashCost is lowered in tests.
var hashCost = bcrypt.DefaultCost

type credential struct {
	user models.CurrentUser
	hash []byte
}

// Registry holds the accounts that can log in. It is separate from the
// administrated user list; emails are unique within the registry only.
type Registry struct {
	mu    sync.RWMutex
	creds []credential
}

func NewRegistry() *Registry {
	return &Registry{}
}

// NewSeededRegistry returns a registry with the two demo accounts, both with
// password "password".
func NewSeededRegistry() *Registry {
	r := NewRegistry()
	for _, u := range []models.CurrentUser{
		{ID: "1", Name: "Admin User", Email: "admin@example.com", Role: models.RoleAdmin},
		{ID: "2", Name: "Regular User", Email: "user@example.com", Role: models.RoleUser},
	} {
		if err := r.add(u, "password"); err != nil {
			panic(err)
		}
	}
	return r
}

// Authenticate scans for an exact email match and checks the password.
func (r *Registry) Authenticate(email, password string) (models.CurrentUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.creds {
		if c.user.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword(c.hash, []byte(password)) == nil {
			return c.user, nil
		}
		break
	}
	return models.CurrentUser{}, fmt.Errorf("%w: invalid email or password", apperr.ErrInvalidCredentials)
}

// Register adds a new account with role user.
func (r *Registry) Register(name, email, password string) (models.CurrentUser, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	switch {
	case name == "":
		return models.CurrentUser{}, fmt.Errorf("%w: name is required", apperr.ErrValidation)
	case !strings.Contains(email, "@"):
		return models.CurrentUser{}, fmt.Errorf("%w: a valid email is required", apperr.ErrValidation)
	case password == "":
		return models.CurrentUser{}, fmt.Errorf("%w: password is required", apperr.ErrValidation)
	}
	u := models.CurrentUser{ID: uuid.NewString(), Name: name, Email: email, Role: models.RoleUser}
	if err := r.add(u, password); err != nil {
		return models.CurrentUser{}, err
	}
	return u, nil
}

func (r *Registry) add(u models.CurrentUser, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.creds {
		if c.user.Email == u.Email {
			return fmt.Errorf("%w: user %s", apperr.ErrAlreadyExists, u.Email)
		}
	}
	r.creds = append(r.creds, credential{user: u, hash: hash})
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.creds)
}
