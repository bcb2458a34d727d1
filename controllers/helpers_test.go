package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/kendall-kelly/pizzeria-api/repository"
	"github.com/kendall-kelly/pizzeria-api/services"
	"github.com/kendall-kelly/pizzeria-api/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Headers read by headerAuth to pick the caller of a request
const (
	testUserHeader = "X-Test-User"
	testRoleHeader = "X-Test-Role"
)

// headerAuth stands in for token validation: the identity comes from test headers
func headerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(testUserHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false})
			return
		}
		testutil.SetMockAuthContext(c, userID, "tester", models.Role(c.GetHeader(testRoleHeader)))
		c.Next()
	}
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	svc    *services.Services
	images *services.MockS3Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	images := services.NewMockS3Service()
	svc := services.New(services.Dependencies{
		Store:  repository.NewStore(db),
		Config: testutil.TestConfig(),
		Events: services.NewMockEventPublisher(),
		Images: services.NewS3ImageService(images),
		Logger: zap.NewNop(),
	})

	router := gin.New()
	RegisterRoutes(router.Group("/api"), NewHandlers(svc), headerAuth())
	return &testEnv{router: router, db: db, svc: svc, images: images}
}

// do sends a JSON request as user (nil for anonymous) and decodes the envelope
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, user *models.User) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set(testUserHeader, user.ID)
		req.Header.Set(testRoleHeader, user.Role.String())
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

func (e *testEnv) user(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) dish(t *testing.T, name, price string) *models.Dish {
	t.Helper()
	var category models.Category
	require.NoError(t, e.db.FirstOrCreate(&category, models.Category{Name: "Pizza"}).Error)
	d := &models.Dish{Name: name, Price: decimal.RequireFromString(price), CategoryID: category.ID}
	require.NoError(t, e.db.Create(d).Error)
	return d
}

// errorCode extracts error.code from a failure envelope
func errorCode(response map[string]interface{}) string {
	errObj, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errObj["code"].(string)
	return code
}

func dataMap(t *testing.T, response map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok, "data should be an object: %v", response)
	return data
}
