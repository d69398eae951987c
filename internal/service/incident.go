package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"github.com/Skotchmaster/incident_service/internal/models"
	"github.com/Skotchmaster/incident_service/internal/repo"
	"github.com/Skotchmaster/incident_service/internal/search"
	"github.com/Skotchmaster/incident_service/internal/storage"
	"github.com/Skotchmaster/incident_service/pkg/events"
	"github.com/Skotchmaster/incident_service/pkg/logging"
)

type IncidentService struct {
	Repo   *repo.GormRepo
	Media  *storage.LocalStore
	Events events.Publisher
	Search *search.Indexer
}

// IncidentInput holds the fields a reporter submits.
type IncidentInput struct {
	Title       string
	Description string
	Latitude    float64
	Longitude   float64
}

func (in IncidentInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("title is required: %w", ErrValidation)
	}
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("description is required: %w", ErrValidation)
	}
	if math.IsNaN(in.Latitude) || in.Latitude < -90 || in.Latitude > 90 {
		return fmt.Errorf("latitude out of range: %w", ErrValidation)
	}
	if math.IsNaN(in.Longitude) || in.Longitude < -180 || in.Longitude > 180 {
		return fmt.Errorf("longitude out of range: %w", ErrValidation)
	}
	return nil
}

func (in IncidentInput) incident(owner *models.User) *models.Incident {
	return &models.Incident{
		UserID:      owner.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Status:      models.StatusSubmitted,
	}
}

func incidentKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (s *IncidentService) create(ctx context.Context, inc *models.Incident) (*models.Incident, error) {
	if err := s.Repo.CreateIncident(ctx, inc); err != nil {
		return nil, err
	}
	publishIncident(ctx, s.Events, events.TypeIncidentCreated, inc)
	indexIncident(ctx, s.Search, inc)
	return inc, nil
}

// discard removes uploads of a report that was never stored.
func (s *IncidentService) discard(stored ...string) {
	for _, p := range stored {
		_ = s.Media.Remove(p)
	}
}

// CreateIncident stores a report with an optional attachment. A failed
// upload is logged and the report is kept without media.
func (s *IncidentService) CreateIncident(ctx context.Context, owner *models.User, in IncidentInput, media *multipart.FileHeader) (*models.Incident, error) {
	l := logging.FromContext(ctx).With("svc", "incident.create")

	if err := in.validate(); err != nil {
		return nil, err
	}
	inc := in.incident(owner)

	if media != nil && media.Filename != "" {
		stored, err := s.Media.Save(media)
		if err != nil {
			l.Error("media_save_failed", "filename", media.Filename, "error", err)
		} else {
			inc.MediaURL = &stored
		}
	}

	created, err := s.create(ctx, inc)
	if err != nil {
		if inc.MediaURL != nil {
			s.discard(*inc.MediaURL)
		}
		return nil, err
	}
	return created, nil
}

// CreateWithFiles stores the first file as the main media and the rest as
// additional media. Any failed upload aborts the report.
func (s *IncidentService) CreateWithFiles(ctx context.Context, owner *models.User, in IncidentInput, files []*multipart.FileHeader) (*models.Incident, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	inc := in.incident(owner)

	saved := make([]string, 0, len(files))
	for _, fh := range files {
		if fh == nil || fh.Filename == "" {
			continue
		}
		stored, err := s.Media.Save(fh)
		if err != nil {
			s.discard(saved...)
			return nil, fmt.Errorf("save %s: %w", fh.Filename, err)
		}
		saved = append(saved, stored)
	}

	if len(saved) > 0 {
		inc.MediaURL = &saved[0]
		inc.AdditionalMedia = saved[1:]
	}

	created, err := s.create(ctx, inc)
	if err != nil {
		s.discard(saved...)
		return nil, err
	}
	return created, nil
}

func validateStreamURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return fmt.Errorf("livestream_url is not a valid url: %w", ErrValidation)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "rtmp", "rtmps":
		return nil
	default:
		return fmt.Errorf("livestream_url scheme %q not supported: %w", u.Scheme, ErrValidation)
	}
}

func (s *IncidentService) CreateLivestream(ctx context.Context, owner *models.User, in IncidentInput, streamURL string) (*models.Incident, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := validateStreamURL(streamURL); err != nil {
		return nil, err
	}
	inc := in.incident(owner)
	stream := strings.TrimSpace(streamURL)
	inc.LivestreamURL = &stream

	return s.create(ctx, inc)
}

func (s *IncidentService) ListUserIncidents(ctx context.Context, owner *models.User) ([]models.Incident, error) {
	return s.Repo.ListUserIncidents(ctx, owner.ID)
}

func (s *IncidentService) get(ctx context.Context, id uint) (*models.Incident, error) {
	inc, err := s.Repo.GetIncident(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrIncidentNotFound) {
			return nil, fmt.Errorf("incident %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return inc, nil
}

func (s *IncidentService) resolve(stored *string) (string, error) {
	if stored == nil || *stored == "" {
		return "", ErrNotFound
	}
	full, err := s.Media.Path(*stored)
	if err != nil {
		return "", fmt.Errorf("%s: %w", *stored, ErrNotFound)
	}
	return full, nil
}

// MediaPath returns the on-disk path of the incident's main attachment.
func (s *IncidentService) MediaPath(ctx context.Context, id uint) (string, error) {
	inc, err := s.get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.resolve(inc.MediaURL)
}

func (s *IncidentService) VideoPath(ctx context.Context, id uint) (string, error) {
	inc, err := s.get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.resolve(inc.VideoURL)
}

func (s *IncidentService) AdditionalMediaPath(ctx context.Context, id uint, index int) (string, error) {
	inc, err := s.get(ctx, id)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(inc.AdditionalMedia) {
		return "", ErrNotFound
	}
	return s.resolve(&inc.AdditionalMedia[index])
}
