package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/incident_service/internal/models"
	"github.com/Skotchmaster/incident_service/internal/repo"
	"github.com/Skotchmaster/incident_service/internal/search"
	"github.com/Skotchmaster/incident_service/pkg/events"
	"github.com/Skotchmaster/incident_service/pkg/hash"
	"github.com/Skotchmaster/incident_service/pkg/logging"
)

type AdminService struct {
	Repo      *repo.GormRepo
	Incidents *IncidentService
	Events    events.Publisher
	Search    *search.Indexer

	// Now is the clock used for stats windows and report names.
	Now func() time.Time
}

func (s *AdminService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// ListIncidents returns every incident, newest first. An empty status or
// "all" disables the status filter.
func (s *AdminService) ListIncidents(ctx context.Context, status string) ([]models.Incident, error) {
	f := repo.IncidentFilter{}
	if status != "" && status != "all" {
		f.Status = status
	}
	return s.Repo.ListIncidents(ctx, f)
}

func (s *AdminService) GetIncident(ctx context.Context, id uint) (*models.Incident, error) {
	return s.Incidents.get(ctx, id)
}

// IncidentUpdate carries optional changes; nil fields are left as they are.
type IncidentUpdate struct {
	Status       *string
	AdminRemarks *string
}

func (s *AdminService) UpdateIncident(ctx context.Context, id uint, upd IncidentUpdate) (*models.Incident, error) {
	if upd.Status != nil && !models.ValidStatus(*upd.Status) {
		return nil, fmt.Errorf("status %q: %w", *upd.Status, ErrValidation)
	}

	inc, err := s.Incidents.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Status != nil {
		inc.Status = *upd.Status
	}
	if upd.AdminRemarks != nil {
		remarks := *upd.AdminRemarks
		inc.AdminRemarks = &remarks
	}
	if err := s.Repo.SaveIncident(ctx, inc); err != nil {
		return nil, err
	}

	publishIncident(ctx, s.Events, events.TypeIncidentUpdated, inc)
	indexIncident(ctx, s.Search, inc)
	return inc, nil
}

func (s *AdminService) IncidentFile(ctx context.Context, id uint) (string, error) {
	return s.Incidents.MediaPath(ctx, id)
}

func (s *AdminService) IncidentVideo(ctx context.Context, id uint) (string, error) {
	return s.Incidents.VideoPath(ctx, id)
}

// SearchIncidents queries the full-text index and loads the hits from the
// store, so deleted incidents never surface.
func (s *AdminService) SearchIncidents(ctx context.Context, q string, page, size int) (int64, []models.Incident, error) {
	if !s.Search.Enabled() {
		return 0, nil, ErrUnavailable
	}
	offset, limit := search.Calculate(page, size)

	total, ids, err := s.Search.Search(ctx, q, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	items, err := s.Repo.GetIncidents(ctx, ids)
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// UserInput is the admin-side account form. An empty Password keeps the
// current one on update.
type UserInput struct {
	Email      string
	Password   string
	IsAdmin    bool
	AdminLevel int
}

func (in UserInput) validate() error {
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if in.AdminLevel < models.LevelUser || in.AdminLevel > models.LevelAdmin {
		return fmt.Errorf("admin_level must be between %d and %d: %w", models.LevelUser, models.LevelAdmin, ErrValidation)
	}
	if in.AdminLevel > models.LevelUser && !in.IsAdmin {
		return fmt.Errorf("admin_level requires is_admin: %w", ErrValidation)
	}
	if in.Password != "" {
		return validatePassword(in.Password)
	}
	return nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *AdminService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (s *AdminService) CreateUser(ctx context.Context, in UserInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "admin.create_user")

	in.Email = strings.TrimSpace(in.Email)
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, fmt.Errorf("password is required: %w", ErrValidation)
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        in.Email,
		PasswordHash: pwHash,
		IsAdmin:      in.IsAdmin,
		AdminLevel:   in.AdminLevel,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, fmt.Errorf("email %s: %w", in.Email, ErrConflict)
		}
		return nil, err
	}

	l.Info("user_created", "user_id", user.ID, "admin_level", user.AdminLevel)
	publishUser(ctx, s.Events, events.TypeUserRegistered, user)
	return user, nil
}

func (s *AdminService) UpdateUser(ctx context.Context, id uint, in UserInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "admin.update_user")

	in.Email = strings.TrimSpace(in.Email)
	if err := in.validate(); err != nil {
		return nil, err
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Email = in.Email
	if in.Password != "" {
		pwHash, err := hash.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = pwHash
	}
	user.IsAdmin = in.IsAdmin
	user.AdminLevel = in.AdminLevel

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, fmt.Errorf("email %s: %w", in.Email, ErrConflict)
		}
		return nil, err
	}

	l.Info("user_updated", "user_id", user.ID, "is_admin", user.IsAdmin, "admin_level", user.AdminLevel)
	return user, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return err
	}
	logging.FromContext(ctx).Info("user_deleted", "user_id", id)
	return nil
}
