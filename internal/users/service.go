package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/docdesk/docdesk/backend/go-services/internal/apperr"
	"github.com/docdesk/docdesk/backend/go-services/internal/latency"
	"github.com/docdesk/docdesk/backend/go-services/internal/models"
	"github.com/docdesk/docdesk/backend/go-services/internal/store"
	"github.com/docdesk/docdesk/backend/go-services/pkg/logger"
	"github.com/docdesk/docdesk/backend/go-services/pkg/metrics"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// CreateRequest holds the fields accepted when an admin adds a user.
// Role defaults to user and Status to active.
type CreateRequest struct {
	Name   string            `json:"name"`
	Email  string            `json:"email"`
	Role   models.Role       `json:"role,omitempty"`
	Status models.UserStatus `json:"status,omitempty"`
}

// Patch is a partial update; nil fields are left alone.
type Patch struct {
	Name   *string            `json:"name,omitempty"`
	Email  *string            `json:"email,omitempty"`
	Role   *models.Role       `json:"role,omitempty"`
	Status *models.UserStatus `json:"status,omitempty"`
}

// Service encapsulates user-related business logic
type Service struct {
	repo  Repository
	sim   *latency.Simulator
	clock clockwork.Clock
}

func NewService(r Repository, sim *latency.Simulator, clock clockwork.Clock) *Service {
	return &Service{repo: r, sim: sim, clock: clock}
}

func observe(op string, err error) {
	metrics.ServiceCalls.WithLabelValues("user", op, metrics.Outcome(err)).Inc()
}

func notFound(id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: user %s", apperr.ErrNotFound, id)
	}
	return err
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.Search(ctx, "")
}

// Search matches term against name or email, case-insensitively.
func (s *Service) Search(ctx context.Context, term string) ([]models.User, error) {
	err := s.sim.Wait(ctx, latency.OpList)
	observe("list", err)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	return s.repo.Filter(func(u models.User) bool {
		return term == "" ||
			strings.Contains(strings.ToLower(u.Name), term) ||
			strings.Contains(strings.ToLower(u.Email), term)
	}), nil
}

func (s *Service) Get(ctx context.Context, id string) (models.User, error) {
	err := s.sim.Wait(ctx, latency.OpGet)
	var u models.User
	if err == nil {
		u, err = s.repo.Get(id)
		err = notFound(id, err)
	}
	observe("get", err)
	return u, err
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (models.User, error) {
	u, err := s.create(ctx, req)
	observe("create", err)
	return u, err
}

func (s *Service) create(ctx context.Context, req CreateRequest) (models.User, error) {
	u := models.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Role:      req.Role,
		Status:    req.Status,
		CreatedAt: s.clock.Now(),
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.Status == "" {
		u.Status = models.UserActive
	}
	if err := validate(u); err != nil {
		return models.User{}, err
	}
	if err := s.sim.Wait(ctx, latency.OpCreate); err != nil {
		return models.User{}, err
	}
	if err := s.repo.Insert(u); err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	logger.Infof("user %s (%s) created with role %s", u.ID, u.Email, u.Role)
	return u, nil
}

func (s *Service) Update(ctx context.Context, id string, p Patch) (models.User, error) {
	u, err := s.update(ctx, id, p)
	observe("update", err)
	return u, err
}

func (s *Service) update(ctx context.Context, id string, p Patch) (models.User, error) {
	if err := s.sim.Wait(ctx, latency.OpUpdate); err != nil {
		return models.User{}, err
	}
	u, err := s.repo.Update(id, func(u *models.User) error {
		if p.Name != nil {
			u.Name = strings.TrimSpace(*p.Name)
		}
		if p.Email != nil {
			u.Email = strings.TrimSpace(*p.Email)
		}
		if p.Role != nil {
			u.Role = *p.Role
		}
		if p.Status != nil {
			u.Status = *p.Status
		}
		return validate(*u)
	})
	return u, notFound(id, err)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.sim.Wait(ctx, latency.OpDelete)
	if err == nil {
		err = notFound(id, s.repo.Delete(id))
	}
	if err == nil {
		logger.Infof("user %s deleted", id)
	}
	observe("delete", err)
	return err
}

func validate(u models.User) error {
	switch {
	case u.Name == "":
		return fmt.Errorf("%w: name is required", apperr.ErrValidation)
	case u.Email == "" || !strings.Contains(u.Email, "@"):
		return fmt.Errorf("%w: a valid email is required", apperr.ErrValidation)
	case !u.Role.Valid():
		return fmt.Errorf("%w: unknown role %q", apperr.ErrValidation, u.Role)
	case !u.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, u.Status)
	}
	return nil
}
