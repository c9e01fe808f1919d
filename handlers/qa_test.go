package handlers

import (
	"net/http"
	"testing"

	"github.com/docdesk/docdesk/backend/go-services/internal/dashboard"
	"github.com/docdesk/docdesk/backend/go-services/internal/qa"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsk(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, http.MethodPost, "/api/qa", gin.H{"query": "financial performance"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	a := decode[qa.Answer](t, w)
	require.NotEmpty(t, a.Sources)
	assert.Equal(t, "1", a.Sources[0].ID)

	a = decode[qa.Answer](t, app.do(t, http.MethodPost, "/api/qa", gin.H{"query": "zzz-no-match"}, ""))
	assert.Empty(t, a.Sources)
	assert.Equal(t, qa.NoMatchAnswer, a.Answer)

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/qa", gin.H{"query": ""}, "").Code)
}

func TestDashboard(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, http.MethodGet, "/api/dashboard", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	sum := decode[dashboard.Summary](t, w)
	assert.Equal(t, 5, sum.TotalDocuments)
	assert.Equal(t, 3, sum.ProcessedDocuments)
	assert.Equal(t, 1, sum.ActiveIngestions)
	require.Len(t, sum.RecentIngestions, 5)
	assert.Equal(t, "4", sum.RecentIngestions[0].ID)
}
