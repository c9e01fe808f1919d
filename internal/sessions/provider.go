package sessions

import (
	"context"
	"fmt"
	"sync"

	"github.com/docdesk/docdesk/backend/go-services/internal/models"
	"github.com/docdesk/docdesk/backend/go-services/pkg/logger"
)

// GoogleUser is the canned identity returned by LoginWithGoogle.
var GoogleUser = models.CurrentUser{
	ID:      "3",
	Name:    "Google User",
	Email:   "google@example.com",
	Role:    models.RoleUser,
	Picture: "https://randomuser.me/api/portraits/men/1.jpg",
}

// View is the read-only session state exposed to callers.
type View struct {
	User            *models.CurrentUser `json:"user"`
	IsAuthenticated bool                `json:"isAuthenticated"`
	IsAdmin         bool                `json:"isAdmin"`
}

// Provider holds at most one current user and mirrors it to the repository
// under a fixed key.
type Provider struct {
	registry *Registry
	repo     Repository
	key      string

	mu      sync.RWMutex
	current *models.CurrentUser
}

func NewProvider(reg *Registry, repo Repository, key string) *Provider {
	if key == "" {
		key = DefaultKey
	}
	return &Provider{registry: reg, repo: repo, key: key}
}

// Restore loads the persisted user, if any. A stored value that does not
// parse as a valid user counts as no session and is removed.
func (p *Provider) Restore(ctx context.Context) (View, error) {
	b, err := p.repo.Load(ctx, p.key)
	if err != nil {
		return View{}, fmt.Errorf("load session: %w", err)
	}
	if b == nil {
		p.set(nil)
		return p.View(), nil
	}
	u, err := decode(b)
	if err != nil {
		logger.Warnf("discarding stored session: %v", err)
		p.set(nil)
		if derr := p.repo.Delete(ctx, p.key); derr != nil {
			logger.Errorf("failed to remove stored session: %v", derr)
		}
		return p.View(), nil
	}
	p.set(&u)
	logger.Infof("session restored for %s", u.Email)
	return p.View(), nil
}

func (p *Provider) Login(ctx context.Context, email, password string) (models.CurrentUser, error) {
	u, err := p.registry.Authenticate(email, password)
	if err != nil {
		logger.Infof("login failed for %s", email)
		return models.CurrentUser{}, err
	}
	if err := p.persist(ctx, u); err != nil {
		return models.CurrentUser{}, err
	}
	logger.Infof("login succeeded for %s", email)
	return u, nil
}

func (p *Provider) LoginWithGoogle(ctx context.Context) (models.CurrentUser, error) {
	u := GoogleUser
	if err := p.persist(ctx, u); err != nil {
		return models.CurrentUser{}, err
	}
	logger.Infof("google login for %s", u.Email)
	return u, nil
}

// Register creates an account and logs it in. A duplicate email fails with
// apperr.ErrAlreadyExists and leaves the registry untouched.
func (p *Provider) Register(ctx context.Context, name, email, password string) (models.CurrentUser, error) {
	u, err := p.registry.Register(name, email, password)
	if err != nil {
		return models.CurrentUser{}, err
	}
	if err := p.persist(ctx, u); err != nil {
		return models.CurrentUser{}, err
	}
	logger.Infof("registered %s", u.Email)
	return u, nil
}

func (p *Provider) Logout(ctx context.Context) error {
	p.set(nil)
	if err := p.repo.Delete(ctx, p.key); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Current returns the logged-in user.
func (p *Provider) Current() (models.CurrentUser, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return models.CurrentUser{}, false
	}
	return *p.current, true
}

func (p *Provider) IsAuthenticated() bool {
	_, ok := p.Current()
	return ok
}

func (p *Provider) IsAdmin() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current.IsAdmin()
}

func (p *Provider) View() View {
	u, ok := p.Current()
	if !ok {
		return View{}
	}
	return View{User: &u, IsAuthenticated: true, IsAdmin: u.IsAdmin()}
}

func (p *Provider) persist(ctx context.Context, u models.CurrentUser) error {
	b, err := encode(u)
	if err != nil {
		return err
	}
	if err := p.repo.Save(ctx, p.key, b); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	p.set(&u)
	return nil
}

func (p *Provider) set(u *models.CurrentUser) {
	p.mu.Lock()
	p.current = u
	p.mu.Unlock()
}
