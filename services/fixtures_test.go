package services

import (
	"testing"

	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/kendall-kelly/pizzeria-api/repository"
	"github.com/kendall-kelly/pizzeria-api/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fixture wires every service to a fresh in-memory database
type fixture struct {
	db     *gorm.DB
	store  *repository.Store
	events *MockEventPublisher
	images *MockS3Service
	svc    *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	store := repository.NewStore(db)
	events := NewMockEventPublisher()
	images := NewMockS3Service()

	svc := New(Dependencies{
		Store:  store,
		Config: testutil.TestConfig(),
		Events: events,
		Images: NewS3ImageService(images),
		Logger: zap.NewNop(),
	})
	return &fixture{db: db, store: store, events: events, images: images, svc: svc}
}

func (f *fixture) user(t *testing.T, username string, role models.Role, bonus int) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         role,
		BonusPoints:  bonus,
	}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) category(t *testing.T, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	require.NoError(t, f.db.Create(c).Error)
	return c
}

func (f *fixture) dish(t *testing.T, name, price string, categoryID uint) *models.Dish {
	t.Helper()
	d := &models.Dish{Name: name, Price: decimal.RequireFromString(price), CategoryID: categoryID}
	require.NoError(t, f.db.Create(d).Error)
	return d
}

func (f *fixture) ingredient(t *testing.T, name, price string) *models.Ingredient {
	t.Helper()
	i := &models.Ingredient{Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, f.db.Create(i).Error)
	return i
}

// order loads an order straight from the database
func (f *fixture) order(t *testing.T, id uint) *models.Order {
	t.Helper()
	var o models.Order
	require.NoError(t, f.db.First(&o, id).Error)
	return &o
}

func (f *fixture) reloadUser(t *testing.T, id string) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, f.db.First(&u, "id = ?", id).Error)
	return &u
}

// requireCode asserts that err is a ServiceError with the given code
func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	se, ok := AsServiceError(err)
	require.True(t, ok, "expected a service error, got %v", err)
	require.Equal(t, code, se.Code)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
