package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/incident_service/internal/models"
	"github.com/Skotchmaster/incident_service/internal/search"
	"github.com/Skotchmaster/incident_service/pkg/events"
	"github.com/Skotchmaster/incident_service/pkg/logging"
)

// Side effects below are best effort: a broker or index outage is logged
// and never fails the request that triggered it.

func publishUser(ctx context.Context, pub events.Publisher, typ string, u *models.User) {
	if pub == nil {
		return
	}
	ev := events.UserEvent{
		Type:       typ,
		UserID:     u.ID,
		Email:      u.Email,
		AdminLevel: u.AdminLevel,
		At:         time.Now().UTC(),
	}
	if err := pub.PublishEvent(ctx, events.TopicUsers, u.Email, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "event", typ, "user_id", u.ID, "error", err)
	}
}

func publishIncident(ctx context.Context, pub events.Publisher, typ string, inc *models.Incident) {
	if pub == nil {
		return
	}
	ev := events.IncidentEvent{
		Type:       typ,
		IncidentID: inc.ID,
		UserID:     inc.UserID,
		Status:     inc.Status,
		Title:      inc.Title,
		At:         time.Now().UTC(),
	}
	if err := pub.PublishEvent(ctx, events.TopicIncidents, incidentKey(inc.ID), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "event", typ, "incident_id", inc.ID, "error", err)
	}
}

func indexIncident(ctx context.Context, ix *search.Indexer, inc *models.Incident) {
	if !ix.Enabled() {
		return
	}
	if err := ix.IndexIncident(ctx, inc); err != nil {
		logging.FromContext(ctx).Warn("index_failed", "incident_id", inc.ID, "error", err)
	}
}
