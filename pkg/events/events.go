package events

import "time"

const (
	TypeUserRegistered  = "user_registered"
	TypeUserLoggedIn    = "user_logged_in"
	TypeIncidentCreated = "incident_created"
	TypeIncidentUpdated = "incident_updated"
)

type UserEvent struct {
	Type       string    `json:"type"`
	UserID     uint      `json:"userID"`
	Email      string    `json:"email"`
	AdminLevel int       `json:"admin_level"`
	At         time.Time `json:"at"`
}

type IncidentEvent struct {
	Type       string    `json:"type"`
	IncidentID uint      `json:"incidentID"`
	UserID     uint      `json:"userID"`
	Status     string    `json:"status"`
	Title      string    `json:"title"`
	At         time.Time `json:"at"`
}
