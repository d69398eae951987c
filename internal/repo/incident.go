package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/incident_service/internal/models"
	"gorm.io/gorm"
)

// IncidentFilter narrows incident listings. Zero values mean no constraint;
// To is exclusive.
type IncidentFilter struct {
	Status string
	From   time.Time
	To     time.Time
}

func (f IncidentFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}
	return q
}

func (r *GormRepo) CreateIncident(ctx context.Context, inc *models.Incident) error {
	return r.DB.WithContext(ctx).Create(inc).Error
}

func (r *GormRepo) GetIncident(ctx context.Context, id uint) (*models.Incident, error) {
	var inc models.Incident
	if err := r.DB.WithContext(ctx).First(&inc, id).Error; err != nil {
		return nil, notFound(err, ErrIncidentNotFound)
	}
	return &inc, nil
}

// GetIncidents loads the given ids, keeping the order of ids and skipping
// rows that no longer exist.
func (r *GormRepo) GetIncidents(ctx context.Context, ids []uint) ([]models.Incident, error) {
	if len(ids) == 0 {
		return []models.Incident{}, nil
	}
	var rows []models.Incident
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Incident, len(rows))
	for _, inc := range rows {
		byID[inc.ID] = inc
	}
	out := make([]models.Incident, 0, len(rows))
	for _, id := range ids {
		if inc, ok := byID[id]; ok {
			out = append(out, inc)
		}
	}
	return out, nil
}

// ListIncidents returns matching incidents, newest first.
func (r *GormRepo) ListIncidents(ctx context.Context, f IncidentFilter) ([]models.Incident, error) {
	items := make([]models.Incident, 0)
	q := f.apply(r.DB.WithContext(ctx).Model(&models.Incident{}))
	if err := q.Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListUserIncidents(ctx context.Context, userID uint) ([]models.Incident, error) {
	items := make([]models.Incident, 0)
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) RecentIncidents(ctx context.Context, limit int) ([]models.Incident, error) {
	items := make([]models.Incident, 0, limit)
	if err := r.DB.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) SaveIncident(ctx context.Context, inc *models.Incident) error {
	return r.DB.WithContext(ctx).Save(inc).Error
}

func (r *GormRepo) CountIncidents(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Incident{}).Count(&n).Error
	return n, err
}

func (r *GormRepo) CountIncidentsByStatus(ctx context.Context, statuses ...string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Incident{}).Where("status IN ?", statuses).Count(&n).Error
	return n, err
}

func (r *GormRepo) CountIncidentsSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Incident{}).Where("created_at >= ?", since).Count(&n).Error
	return n, err
}
