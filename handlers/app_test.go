package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/docdesk/docdesk/backend/go-services/internal/config"
	"github.com/docdesk/docdesk/backend/go-services/internal/dashboard"
	docservice "github.com/docdesk/docdesk/backend/go-services/internal/document/service"
	"github.com/docdesk/docdesk/backend/go-services/internal/ingestion"
	"github.com/docdesk/docdesk/backend/go-services/internal/latency"
	"github.com/docdesk/docdesk/backend/go-services/internal/qa"
	"github.com/docdesk/docdesk/backend/go-services/internal/sessions"
	"github.com/docdesk/docdesk/backend/go-services/internal/store"
	"github.com/docdesk/docdesk/backend/go-services/internal/users"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeClock interface {
	clockwork.Clock
	Advance(time.Duration)
	BlockUntil(int)
}

type testApp struct {
	router   *gin.Engine
	store    *store.Store
	engine   *ingestion.Engine
	clock    fakeClock
	mini     *mr.Miniredis
	provider *sessions.Provider
}

func newTestApp(t *testing.T, opts ...func(*config.Config)) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.Secret = "handlers-test-secret-32-bytes-xxxxxx"
	cfg.JWT.AccessTokenTTL = time.Hour
	for _, o := range opts {
		o(cfg)
	}

	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	rc := redis.NewClient(&redis.Options{Addr: m.Addr()})

	var clock fakeClock = clockwork.NewFakeClock()
	st := store.NewSeeded()
	sim := latency.New(clock, config.LatencyConfig{}, nil)
	eng := ingestion.NewEngine(st, sim, clock, ingestion.Options{CompletionDelay: 5 * time.Second, MinPages: 5, MaxPages: 54})
	t.Cleanup(eng.Close)

	docs := docservice.NewService(st, eng, sim, clock)
	provider := sessions.NewProvider(sessions.NewSeededRegistry(), sessions.NewFileRepository(filepath.Join(t.TempDir(), "session.json")), "user")

	r := gin.New()
	RegisterRoutes(r, Deps{
		Config:    cfg,
		Documents: docs,
		Engine:    eng,
		Users:     users.NewService(st.Users, sim, clock),
		QA:        qa.NewService(st.Documents, sim),
		Dashboard: dashboard.NewService(docs, eng),
		Sessions:  provider,
		Blacklist: sessions.NewBlacklist(rc),
		Redis:     rc,
	})
	return &testApp{router: r, store: st, engine: eng, clock: clock, mini: m, provider: provider}
}

func (a *testApp) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) login(t *testing.T, email string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/auth/login", gin.H{"email": email, "password": "password"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
