package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Skotchmaster/incident_service/internal/models"
	"github.com/Skotchmaster/incident_service/internal/repo"
	"github.com/Skotchmaster/incident_service/pkg/events"
	"github.com/Skotchmaster/incident_service/pkg/hash"
	"github.com/Skotchmaster/incident_service/pkg/logging"
	"github.com/Skotchmaster/incident_service/pkg/tokens"
)

type AuthService struct {
	Repo     *repo.GormRepo
	Tokens   *tokens.Service
	UserTTL  time.Duration
	AdminTTL time.Duration
	Events   events.Publisher
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *models.User
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required: %w", ErrValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email %q is not valid: %w", email, ErrValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required: %w", ErrValidation)
	}
	if len(password) > hash.MaxPasswordLen {
		return fmt.Errorf("password must be at most %d bytes: %w", hash.MaxPasswordLen, ErrValidation)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: pwHash,
		IsAdmin:      false,
		AdminLevel:   models.LevelUser,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, fmt.Errorf("email %s: %w", email, ErrConflict)
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	publishUser(ctx, s.Events, events.TypeUserRegistered, user)
	return user, nil
}

// authenticate never tells an unknown email apart from a wrong password.
func (s *AuthService) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, exp, err := s.Tokens.Issue(tokens.Claims{
		Subject:    user.Email,
		Admin:      user.IsAdmin,
		AdminLevel: user.AdminLevel,
	}, s.UserTTL)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, err
	}

	publishUser(ctx, s.Events, events.TypeUserLoggedIn, user)
	return &LoginResult{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

// AdminLogin issues a longer-lived token to accounts flagged as admins.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.admin_login")

	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, ErrNotAdmin
	}

	ttl := s.AdminTTL
	if ttl <= 0 {
		ttl = tokens.DefaultAdminTTL
	}
	token, exp, err := s.Tokens.Issue(tokens.Claims{
		Subject:    user.Email,
		Admin:      true,
		AdminLevel: user.AdminLevel,
	}, ttl)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, err
	}

	publishUser(ctx, s.Events, events.TypeUserLoggedIn, user)
	return &LoginResult{AccessToken: token, ExpiresAt: exp, User: user}, nil
}
