package users

import (
	"github.com/docdesk/docdesk/backend/go-services/internal/models"
)

// Repository is the persistence surface the user service needs.
// *store.Collection[models.User] satisfies it.
type Repository interface {
	Filter(keep func(models.User) bool) []models.User
	Get(id string) (models.User, error)
	Insert(u models.User) error
	Update(id string, mutate func(*models.User) error) (models.User, error)
	Delete(id string) error
}
