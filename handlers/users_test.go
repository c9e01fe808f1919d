package handlers

import (
	"net/http"
	"testing"

	"github.com/docdesk/docdesk/backend/go-services/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersRequireAdmin(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, "/api/users", nil, "").Code)

	userToken := app.login(t, "user@example.com")
	assert.Equal(t, http.StatusForbidden, app.do(t, http.MethodGet, "/api/users", nil, userToken).Code)
}

func TestUsersCRUD(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, "admin@example.com")

	list := decode[[]models.User](t, app.do(t, http.MethodGet, "/api/users", nil, token))
	assert.Len(t, list, 5)

	w := app.do(t, http.MethodPost, "/api/users", gin.H{"name": "Eve Editor", "email": "eve@example.com", "role": "editor"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.User](t, w)
	assert.Equal(t, models.RoleEditor, created.Role)
	assert.Equal(t, models.UserActive, created.Status)

	w = app.do(t, http.MethodPatch, "/api/users/"+created.ID, gin.H{"status": "inactive"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.UserInactive, decode[models.User](t, w).Status)

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPatch, "/api/users/"+created.ID, gin.H{"role": "root"}, token).Code)
	assert.Equal(t, http.StatusNoContent, app.do(t, http.MethodDelete, "/api/users/"+created.ID, nil, token).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/users/"+created.ID, nil, token).Code)
}
