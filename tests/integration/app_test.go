package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pizzeria-api/config"
	"github.com/kendall-kelly/pizzeria-api/controllers"
	"github.com/kendall-kelly/pizzeria-api/middleware"
	"github.com/kendall-kelly/pizzeria-api/repository"
	"github.com/kendall-kelly/pizzeria-api/services"
	"github.com/kendall-kelly/pizzeria-api/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	adminUsername = "admin"
	adminPassword = "admin-password"
)

// app is the API wired the way main wires it, with in-memory collaborators
type app struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	svc    *services.Services
	events *services.MockEventPublisher
	images *services.MockS3Service
}

func newApp(t *testing.T) *app {
	t.Helper()

	os.Setenv("GO_ENV", "test")
	testutil.RequireTestEnvironment(t)
	gin.SetMode(gin.TestMode)

	cfg := testutil.TestConfig()
	db := testutil.NewTestDB(t)
	events := services.NewMockEventPublisher()
	images := services.NewMockS3Service()
	svc := services.New(services.Dependencies{
		Store:  repository.NewStore(db),
		Config: cfg,
		Events: events,
		Images: services.NewS3ImageService(images),
		Logger: zap.NewNop(),
	})

	_, err := svc.Users.SeedAdmin(t.Context(), adminUsername, "admin@pizzeria.test", adminPassword)
	require.NoError(t, err)

	router := gin.New()
	router.Use(gin.Recovery())
	controllers.RegisterRoutes(router.Group("/api"), controllers.NewHandlers(svc), middleware.EnsureValidToken(cfg))

	return &app{router: router, db: db, cfg: cfg, svc: svc, events: events, images: images}
}

// request sends a JSON request with an optional bearer token and decodes the response body
func (a *app) request(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if len(w.Body.Bytes()) > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

// register creates an account and logs it in, returning its id and token
func (a *app) register(t *testing.T, username string) (string, string) {
	t.Helper()

	w, response := a.request(t, http.MethodPost, "/api/PizzeriaUser/Register", map[string]interface{}{
		"username": username,
		"email":    username + "@pizzeria.test",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "register %s: %v", username, response)
	id := data(t, response)["id"].(string)

	return id, a.login(t, username, "secret123")
}

func (a *app) login(t *testing.T, username, password string) string {
	t.Helper()

	w, response := a.request(t, http.MethodPost, "/api/PizzeriaUser/Login", map[string]interface{}{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "login %s: %v", username, response)
	return data(t, response)["token"].(string)
}

func (a *app) adminToken(t *testing.T) string {
	t.Helper()
	return a.login(t, adminUsername, adminPassword)
}

func data(t *testing.T, response map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := response["data"].(map[string]interface{})
	require.True(t, ok, "data should be an object: %v", response)
	return d
}

func errorCode(response map[string]interface{}) string {
	errObj, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errObj["code"].(string)
	return code
}
