package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/umalmyha/insurance-crm/internal/auth"
	"github.com/umalmyha/insurance-crm/internal/model"
	"github.com/umalmyha/insurance-crm/internal/repository"
	"github.com/umalmyha/insurance-crm/pkg/db/transactor"
)

// NewUser is data required to register user
type NewUser struct {
	Email       string
	Password    string
	FullName    string
	Role        model.Role
	PhoneNumber string
	Avatar      string
	CreatedBy   string
}

// UserService represents behavior of user service
type UserService interface {
	Create(context.Context, NewUser) (*model.User, error)
	FindAll(context.Context, string) ([]*model.User, error)
	FindByID(context.Context, string) (*model.User, error)
	EnsureAdmin(context.Context, string, string, string) error
}

type userService struct {
	transactor transactor.Transactor
	userRps    repository.UserRepository
}

// NewUserService builds new UserService
func NewUserService(transactor transactor.Transactor, userRps repository.UserRepository) UserService {
	return &userService{transactor: transactor, userRps: userRps}
}

// Create registers user, email must be unique
func (s *userService) Create(ctx context.Context, nu NewUser) (*model.User, error) {
	hash, err := auth.GeneratePasswordHash(nu.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password hash - %w", err)
	}

	u := &model.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(nu.Email)),
		FullName:     nu.FullName,
		Role:         nu.Role,
		PhoneNumber:  nu.PhoneNumber,
		Avatar:       nu.Avatar,
		CreatedBy:    nu.CreatedBy,
		CreatedAt:    time.Now().UTC(),
		PasswordHash: hash,
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.userRps.FindByEmail(ctx, u.Email)
		if err != nil {
			return err
		}

		if existing != nil {
			return echo.NewHTTPError(http.StatusConflict, fmt.Sprintf("user with email %s already exists", u.Email))
		}

		return s.userRps.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	return u, nil
}

// FindAll returns users whose name, email or role contains query
func (s *userService) FindAll(ctx context.Context, query string) ([]*model.User, error) {
	users, err := s.userRps.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read users - %w", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return users, nil
	}

	found := make([]*model.User, 0)
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.FullName), query) ||
			strings.Contains(u.Email, query) ||
			strings.Contains(strings.ToLower(string(u.Role)), query) {
			found = append(found, u)
		}
	}
	return found, nil
}

// FindByID returns user or nil if user doesn't exist
func (s *userService) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, err := s.userRps.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read user %s - %w", id, err)
	}
	return u, nil
}

// EnsureAdmin creates administrator with provided credentials unless user with such email exists
func (s *userService) EnsureAdmin(ctx context.Context, email, password, fullName string) error {
	existing, err := s.userRps.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return fmt.Errorf("failed to read administrator - %w", err)
	}

	if existing != nil {
		return nil
	}

	u, err := s.Create(ctx, NewUser{
		Email:    email,
		Password: password,
		FullName: fullName,
		Role:     model.RoleAdmin,
	})
	if err != nil {
		return err
	}

	logrus.Infof("administrator %s has been created", u.Email)
	return nil
}
