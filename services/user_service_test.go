package services

import (
	"context"
	"strings"
	"testing"

	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// UserServiceTestSuite covers accounts, credentials and bonus points
type UserServiceTestSuite struct {
	suite.Suite
	f   *fixture
	ctx context.Context
}

func (s *UserServiceTestSuite) SetupTest() {
	s.f = newFixture(s.T())
	s.ctx = context.Background()
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) register(username string) *models.User {
	user, err := s.f.svc.Users.Register(s.ctx, RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	s.Require().NoError(err)
	return user
}

func (s *UserServiceTestSuite) TestRegister() {
	phone := " +39 055 123456 "
	user, err := s.f.svc.Users.Register(s.ctx, RegisterInput{
		Username:    "mario",
		Email:       "mario@example.com",
		PhoneNumber: &phone,
		Password:    "secret123",
	})
	s.Require().NoError(err)

	s.NotEmpty(user.ID)
	s.Equal(models.RoleRegularUser, user.Role)
	s.Equal(0, user.BonusPoints)
	s.Require().NotNil(user.PhoneNumber)
	s.Equal("+39 055 123456", *user.PhoneNumber)
	s.NotEqual("secret123", user.PasswordHash)
}

func (s *UserServiceTestSuite) TestRegister_Validation() {
	s.register("luigi")

	testCases := []struct {
		name  string
		input RegisterInput
		code  string
	}{
		{"username taken", RegisterInput{Username: "luigi", Email: "other@example.com", Password: "secret123"}, "USERNAME_TAKEN"},
		{"email taken", RegisterInput{Username: "other", Email: "luigi@example.com", Password: "secret123"}, "EMAIL_TAKEN"},
		{"invalid email", RegisterInput{Username: "other", Email: "not-an-email", Password: "secret123"}, "VALIDATION_ERROR"},
		{"short password", RegisterInput{Username: "other", Email: "other@example.com", Password: "12345"}, "VALIDATION_ERROR"},
		{"long password", RegisterInput{Username: "other", Email: "other@example.com", Password: strings.Repeat("p", 101)}, "VALIDATION_ERROR"},
		{"missing username", RegisterInput{Email: "other@example.com", Password: "secret123"}, "VALIDATION_ERROR"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.f.svc.Users.Register(s.ctx, tc.input)
			requireCode(s.T(), err, tc.code)
		})
	}
}

func (s *UserServiceTestSuite) TestLogin() {
	user := s.register("peach")

	result, err := s.f.svc.Users.Login(s.ctx, "peach", "secret123")
	s.Require().NoError(err)
	s.NotEmpty(result.Token)
	s.Equal(user.ID, result.User.ID)

	claims, err := s.f.svc.Tokens.Parse(result.Token)
	s.Require().NoError(err)
	s.Equal(user.ID, claims.Subject)
	s.Equal([]string{"RegularUser"}, claims.Roles)

	_, err = s.f.svc.Users.Login(s.ctx, "peach", "wrong-password")
	requireCode(s.T(), err, "INVALID_CREDENTIALS")

	_, err = s.f.svc.Users.Login(s.ctx, "nobody", "secret123")
	requireCode(s.T(), err, "INVALID_CREDENTIALS")
}

func (s *UserServiceTestSuite) TestUpdate() {
	user := s.register("toad")
	s.register("yoshi")

	email := "toad@castle.example"
	password := "newsecret"
	updated, err := s.f.svc.Users.Update(s.ctx, user.ID, UserPatch{Email: &email, Password: &password})
	s.Require().NoError(err)
	s.Equal(email, updated.Email)

	_, err = s.f.svc.Users.Login(s.ctx, "toad", "newsecret")
	s.NoError(err)

	taken := "yoshi@example.com"
	_, err = s.f.svc.Users.Update(s.ctx, user.ID, UserPatch{Email: &taken})
	requireCode(s.T(), err, "EMAIL_TAKEN")

	_, err = s.f.svc.Users.Update(s.ctx, user.ID, UserPatch{})
	requireCode(s.T(), err, "VALIDATION_ERROR")
}

func (s *UserServiceTestSuite) TestDelete_RemovesOrders() {
	user := s.register("wario")
	dish := s.f.dish(s.T(), "Diavola", "11", s.f.category(s.T(), "Pizza").ID)
	order, err := s.f.svc.Orders.Create(s.ctx, user.ID)
	s.Require().NoError(err)
	_, err = s.f.svc.OrderItems.AddOne(s.ctx, user.ID, order.ID, OrderItemInput{DishID: dish.ID, Quantity: 1})
	s.Require().NoError(err)

	s.Require().NoError(s.f.svc.Users.Delete(s.ctx, user.ID))

	_, err = s.f.svc.Users.GetByID(s.ctx, user.ID)
	requireCode(s.T(), err, "USER_NOT_FOUND")
	_, err = s.f.svc.Orders.GetByID(s.ctx, order.ID)
	requireCode(s.T(), err, "ORDER_NOT_FOUND")
}

func (s *UserServiceTestSuite) TestAdminIsProtected() {
	created, err := s.f.svc.Users.SeedAdmin(s.ctx, "admin", "admin@example.com", "adminpass")
	s.Require().NoError(err)
	s.True(created)

	created, err = s.f.svc.Users.SeedAdmin(s.ctx, "admin", "admin@example.com", "adminpass")
	s.Require().NoError(err)
	s.False(created, "seeding is idempotent")

	admin, err := s.f.svc.Users.GetByUsername(s.ctx, "admin")
	s.Require().NoError(err)
	s.Equal(models.RoleAdmin, admin.Role)

	requireCode(s.T(), s.f.svc.Users.Delete(s.ctx, admin.ID), "ADMIN_IMMUTABLE")
	_, err = s.f.svc.Users.UpdateRole(s.ctx, admin.ID, "PremiumUser")
	requireCode(s.T(), err, "ADMIN_IMMUTABLE")
}

func (s *UserServiceTestSuite) TestUpdateRole() {
	user := s.register("daisy")

	premium, err := s.f.svc.Users.UpdateRole(s.ctx, user.ID, "premiumuser")
	s.Require().NoError(err)
	s.Equal(models.RolePremiumUser, premium.Role)

	_, err = s.f.svc.Users.UpdateRole(s.ctx, user.ID, "Admin")
	requireCode(s.T(), err, "VALIDATION_ERROR")

	premiums, err := s.f.svc.Users.ListByRole(s.ctx, models.RolePremiumUser)
	s.Require().NoError(err)
	s.Len(premiums, 1)
}

func (s *UserServiceTestSuite) TestBonus() {
	user := s.f.user(s.T(), "rosalina", models.RolePremiumUser, 0)

	_, err := s.f.svc.Users.SetBonus(s.ctx, user.ID, -1)
	requireCode(s.T(), err, "VALIDATION_ERROR")

	_, err = s.f.svc.Users.SetBonus(s.ctx, user.ID, 120)
	s.Require().NoError(err)
	points, err := s.f.svc.Users.Bonus(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(120, points)

	can, err := s.f.svc.Users.CanUseBonus(s.ctx, user.ID)
	s.Require().NoError(err)
	s.False(can, "no pending order yet")

	_, err = s.f.svc.Orders.Create(s.ctx, user.ID)
	s.Require().NoError(err)
	can, err = s.f.svc.Users.CanUseBonus(s.ctx, user.ID)
	s.Require().NoError(err)
	s.True(can)
}

func (s *UserServiceTestSuite) TestOrderBasedListings() {
	buyer := s.register("buyer")
	s.register("browser")
	_, err := s.f.svc.Orders.Create(s.ctx, buyer.ID)
	s.Require().NoError(err)

	with, err := s.f.svc.Users.ListWithOrders(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(with, 1)
	s.Equal("buyer", with[0].Username)

	without, err := s.f.svc.Users.ListWithoutOrders(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(without, 1)
	s.Equal("browser", without[0].Username)

	pending, err := s.f.svc.Users.ListByOrderStatus(s.ctx, "Pending")
	s.Require().NoError(err)
	s.Len(pending, 1)

	_, err = s.f.svc.Users.ListByOrderStatus(s.ctx, "Shipped")
	requireCode(s.T(), err, "VALIDATION_ERROR")
}

func TestUserService_EmailLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "koopa", models.RoleRegularUser, 0)

	found, err := f.svc.Users.GetByEmail(ctx, "koopa@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = f.svc.Users.GetByEmail(ctx, "nobody@example.com")
	requireCode(t, err, "USER_NOT_FOUND")
}
