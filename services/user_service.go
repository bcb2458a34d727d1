package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/kendall-kelly/pizzeria-api/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxUsernameLength    = 256
	maxEmailLength       = 256
	maxPhoneNumberLength = 30
	minPasswordLength    = 6
	maxPasswordLength    = 100
)

// RegisterInput is the data needed to open an account
type RegisterInput struct {
	Username    string
	Email       string
	PhoneNumber *string
	Password    string
}

// UserPatch carries the optional self-service fields of an account
type UserPatch struct {
	Email       *string
	PhoneNumber *string
	Password    *string
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// UserService manages accounts, credentials and bonus points
type UserService struct {
	store    *repository.Store
	tokens   *TokenService
	validate *validator.Validate
	log      *zap.Logger
}

func NewUserService(store *repository.Store, tokens *TokenService, log *zap.Logger) *UserService {
	return &UserService{store: store, tokens: tokens, validate: validator.New(), log: log}
}

func (s *UserService) normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", validationError("Email is required")
	}
	if len(email) > maxEmailLength {
		return "", validationError("Email cannot exceed %d characters", maxEmailLength)
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return "", validationError("Email is not a valid address")
	}
	return email, nil
}

func normalizePhone(phone *string) (*string, error) {
	if phone == nil {
		return nil, nil
	}
	p := strings.TrimSpace(*phone)
	if p == "" {
		return nil, nil
	}
	if len(p) > maxPhoneNumberLength {
		return nil, validationError("Phone number cannot exceed %d characters", maxPhoneNumberLength)
	}
	return &p, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return "", validationError("Password must be between %d and %d characters", minPasswordLength, maxPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Register creates a RegularUser account
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username, err := validateName("Username", in.Username, maxUsernameLength)
	if err != nil {
		return nil, err
	}
	email, err := s.normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	phone, err := normalizePhone(in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: hash,
		Role:         models.RoleRegularUser,
	}
	if err := s.create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *UserService) create(ctx context.Context, user *models.User) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		taken, err := tx.Users.UsernameTaken(ctx, user.Username)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameTaken
		}
		taken, err = tx.Users.EmailTaken(ctx, user.Email, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}
		if err := tx.Users.Create(ctx, user); err != nil {
			if repository.IsDuplicateKey(err) {
				return ErrUsernameTaken
			}
			return err
		}
		return nil
	})
}

// Login checks credentials and issues an access token
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, validationError("Username and password are required")
	}

	user, err := s.store.Users.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			s.log.Warn("login rejected", zap.String("username", username), zap.String("reason", "unknown user"))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("login rejected", zap.String("username", username), zap.String("reason", "bad password"))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Update applies the caller's own profile changes
func (s *UserService) Update(ctx context.Context, userID string, patch UserPatch) (*models.User, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if patch.Email == nil && patch.PhoneNumber == nil && patch.Password == nil {
		return nil, validationError("Nothing to update")
	}

	var user *models.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		user, err = tx.Users.FindByIDForUpdate(ctx, userID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}

		if patch.Email != nil {
			email, err := s.normalizeEmail(*patch.Email)
			if err != nil {
				return err
			}
			taken, err := tx.Users.EmailTaken(ctx, email, userID)
			if err != nil {
				return err
			}
			if taken {
				return ErrEmailTaken
			}
			user.Email = email
		}
		if patch.PhoneNumber != nil {
			phone, err := normalizePhone(patch.PhoneNumber)
			if err != nil {
				return err
			}
			user.PhoneNumber = phone
		}
		if patch.Password != nil {
			hash, err := hashPassword(*patch.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}
		return tx.Users.Save(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a non-admin account together with its orders and items
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		user, err := tx.Users.FindByIDForUpdate(ctx, userID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}
		if user.Role == models.RoleAdmin {
			return ErrAdminImmutable
		}

		orderIDs, err := tx.Orders.IDsByUser(ctx, userID)
		if err != nil {
			return err
		}
		if err := tx.OrderItems.DeleteByOrders(ctx, orderIDs); err != nil {
			return err
		}
		if err := tx.Orders.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return tx.Users.Delete(ctx, userID)
	})
	if err != nil {
		return err
	}
	s.log.Info("user deleted", zap.String("user_id", userID))
	return nil
}

func (s *UserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validationError("Username is required")
	}
	user, err := s.store.Users.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := s.store.Users.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.store.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	users, err := s.store.Users.ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}

func (s *UserService) ListWithOrders(ctx context.Context) ([]models.User, error) {
	users, err := s.store.Users.ListWithOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users with orders: %w", err)
	}
	return users, nil
}

func (s *UserService) ListWithoutOrders(ctx context.Context) ([]models.User, error) {
	users, err := s.store.Users.ListWithoutOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users without orders: %w", err)
	}
	return users, nil
}

// ListByOrderStatus returns users with at least one order in the named status
func (s *UserService) ListByOrderStatus(ctx context.Context, status string) ([]models.User, error) {
	parsed, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}
	users, err := s.store.Users.ListByOrderStatus(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("list users by order status: %w", err)
	}
	return users, nil
}

// Bonus returns a user's current bonus balance
func (s *UserService) Bonus(ctx context.Context, userID string) (int, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.BonusPoints, nil
}

// SetBonus overwrites a user's bonus balance
func (s *UserService) SetBonus(ctx context.Context, userID string, points int) (*models.User, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if points < 0 {
		return nil, validationError("Bonus points cannot be negative")
	}

	var user *models.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		user, err = tx.Users.FindByIDForUpdate(ctx, userID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}
		if err := tx.Users.SetBonus(ctx, userID, points); err != nil {
			return err
		}
		user.BonusPoints = points
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CanUseBonus reports whether the user is premium, holds enough points and
// has a pending order to spend them on
func (s *UserService) CanUseBonus(ctx context.Context, userID string) (bool, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	pending, err := s.store.Orders.CountByUserAndStatus(ctx, userID, models.OrderStatusPending)
	if err != nil {
		return false, fmt.Errorf("count pending orders: %w", err)
	}
	return BonusEligible(user, pending > 0), nil
}

// UpdateRole switches a customer between RegularUser and PremiumUser
func (s *UserService) UpdateRole(ctx context.Context, userID string, role string) (*models.User, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	parsed, err := models.ParseRole(role)
	if err != nil || !parsed.IsCustomer() {
		return nil, validationError("Role must be RegularUser or PremiumUser")
	}

	var user *models.User
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		user, err = tx.Users.FindByIDForUpdate(ctx, userID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}
		if user.Role == models.RoleAdmin {
			return ErrAdminImmutable
		}
		if err := tx.Users.SetRole(ctx, userID, parsed); err != nil {
			return err
		}
		user.Role = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user role changed", zap.String("user_id", userID), zap.String("role", parsed.String()))
	return user, nil
}

// SeedAdmin creates the admin account when no user has its username yet.
// It returns true when a user was created.
func (s *UserService) SeedAdmin(ctx context.Context, username, email, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, nil
	}

	_, err := s.store.Users.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !repository.IsNotFound(err) {
		return false, fmt.Errorf("find admin: %w", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	admin := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := s.create(ctx, admin); err != nil {
		return false, err
	}
	s.log.Info("admin user seeded", zap.String("username", username))
	return true, nil
}
