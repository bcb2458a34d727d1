package acceptance

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
)

// server runs the API over a real listener
type server struct {
	*httptest.Server
	cfg    *config.Config
	svc    *services.Services
	images *services.MockS3Service
}

// newServer starts the API; auth replaces token validation when non-nil
func newServer(t *testing.T, auth gin.HandlerFunc) *server {
	t.Helper()

	os.Setenv("GO_ENV", "test")
	testutil.RequireTestEnvironment(t)
	if testing.Verbose() {
		testutil.PrintEnvironmentInfo()
	}
	gin.SetMode(gin.TestMode)

	cfg := testutil.TestConfig()
	db := testutil.NewTestDB(t)
	images := services.NewMockS3Service()
	svc := services.New(services.Dependencies{
		Store:  repository.NewStore(db),
		Config: cfg,
		Events: services.NewMockEventPublisher(),
		Images: services.NewS3ImageService(images),
		Logger: zap.NewNop(),
	})

	if auth == nil {
		auth = middleware.EnsureValidToken(cfg)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	controllers.RegisterRoutes(router.Group("/api"), controllers.NewHandlers(svc), auth)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &server{Server: srv, cfg: cfg, svc: svc, images: images}
}

// makeRequest sends a JSON request and decodes a JSON response
func (s *server) makeRequest(t *testing.T, method, path string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var result map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &result))
	}
	return resp, result
}

func dataOf(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := result["data"].(map[string]interface{})
	require.True(t, ok, "data should be an object: %v", result)
	return d
}
