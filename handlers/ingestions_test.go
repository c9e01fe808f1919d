package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/docdesk/docdesk/backend/go-services/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestionRetryFlow(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/ingestions/4/retry", nil, "")
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	ing := decode[models.Ingestion](t, w)
	assert.Equal(t, models.IngestionInProgress, ing.Status)
	assert.Equal(t, 0, ing.ProcessedPages)
	assert.Nil(t, ing.EndTime)

	app.clock.BlockUntil(1)
	app.clock.Advance(5 * time.Second)
	require.Eventually(t, func() bool {
		got, err := app.store.Ingestions.Get("4")
		return err == nil && got.Status == models.IngestionCompleted && got.ProcessedPages == got.TotalPages
	}, time.Second, 5*time.Millisecond)

	done := decode[models.Ingestion](t, app.do(t, http.MethodGet, "/api/ingestions/4", nil, ""))
	assert.NotNil(t, done.EndTime)
	doc := decode[models.Document](t, app.do(t, http.MethodGet, "/api/documents/4", nil, ""))
	assert.Equal(t, models.DocumentProcessed, doc.Status)
}

func TestIngestionRetryErrors(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, http.StatusConflict, app.do(t, http.MethodPost, "/api/ingestions/1/retry", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodPost, "/api/ingestions/nope/retry", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/ingestions/nope", nil, "").Code)
}

func TestIngestionListFilter(t *testing.T) {
	app := newTestApp(t)
	all := decode[[]models.Ingestion](t, app.do(t, http.MethodGet, "/api/ingestions", nil, ""))
	assert.Len(t, all, 5)
	some := decode[[]models.Ingestion](t, app.do(t, http.MethodGet, "/api/ingestions?q=handbook", nil, ""))
	require.Len(t, some, 1)
	assert.Equal(t, "3", some[0].ID)
}

func TestUploadUsesCallerName(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, "user@example.com")
	w := app.do(t, http.MethodPost, "/api/documents", map[string]string{"title": "Roadmap", "type": "PDF"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[struct {
		Document models.Document `json:"document"`
	}](t, w)
	assert.Equal(t, "Regular User", resp.Document.UploadedBy)
}
