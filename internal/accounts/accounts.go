// Package accounts manages the operators allowed to sign in to FichApp.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fichapp/internal/ledger"
	applog "fichapp/internal/log"
	"fichapp/models"
)

var (
	ErrNoDatabase         = errors.New("accounts: database not configured")
	ErrEmailTaken         = errors.New("accounts: email already registered")
	ErrInvalidCredentials = errors.New("accounts: invalid email or password")
)

// Registration is the sign-up form.
type Registration struct {
	Name     string `form:"name" validate:"max=128"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"min=8"`
	Confirm  string `form:"confirm_password" validate:"eqfield=Password"`
}

var registrationMessages = map[string]string{
	"name":             "Name must be at most 128 characters.",
	"email":            "Please provide a valid email address.",
	"password":         "Password must be at least 8 characters long.",
	"confirm_password": "Passwords do not match.",
}

// Credentials is the sign-in form.
type Credentials struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

var credentialMessages = map[string]string{
	"email":    "Email and password are required.",
	"password": "Email and password are required.",
}

// Service reads and writes operator accounts.
type Service struct {
	db   *gorm.DB
	cost int
}

// New returns a Service backed by db. A nil db yields a Service whose operations
// fail with ErrNoDatabase.
func New(db *gorm.DB) *Service {
	return &Service{db: db, cost: bcrypt.DefaultCost}
}

// Available reports whether the service has a database.
func (s *Service) Available() bool {
	return s != nil && s.db != nil
}

// Register validates in and creates the operator with a hashed password.
func (s *Service) Register(ctx context.Context, in Registration) (*models.User, error) {
	if !s.Available() {
		return nil, ErrNoDatabase
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := ledger.Check(in, registrationMessages); err != nil {
		return nil, err
	}

	if _, err := s.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hashed),
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	applog.Info(ctx, "operator registered", "userID", user.ID)
	return user, nil
}

// Authenticate returns the operator matching in, or ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, in Credentials) (*models.User, error) {
	if !s.Available() {
		return nil, ErrNoDatabase
	}
	in.Email = normalizeEmail(in.Email)
	if err := ledger.Check(in, credentialMessages); err != nil {
		return nil, err
	}

	user, err := s.FindByEmail(ctx, in.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindByEmail looks an operator up ignoring case.
func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if !s.Available() {
		return nil, ErrNoDatabase
	}
	user := &models.User{}
	err := s.db.WithContext(ctx).Where("lower(email) = ?", normalizeEmail(email)).First(user).Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
