package models

import (
	"time"
)

// Admin tiers. A higher tier satisfies every lower requirement.
const (
	LevelUser     = 0
	LevelOperator = 1
	LevelAdmin    = 2
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"      json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string    `gorm:"column:password;not null"      json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false"        json:"is_admin"`
	AdminLevel   int       `gorm:"not null;default:0"            json:"admin_level"`
	CreatedAt    time.Time `gorm:"index"                         json:"created_at"`
}

// Incident statuses accepted from administrators.
const (
	StatusSubmitted    = "submitted"
	StatusUnderProcess = "under_process"
	StatusResolved     = "resolved"
	StatusRejected     = "rejected"

	// Legacy values still present in older rows.
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
)

var Statuses = []string{StatusSubmitted, StatusUnderProcess, StatusResolved, StatusRejected}

func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

type Incident struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"         json:"id"`
	UserID          uint      `gorm:"index;not null"                   json:"user_id"`
	Title           string    `gorm:"not null;size:255"                json:"title"`
	Description     string    `gorm:"type:text;not null"               json:"description"`
	Latitude        float64   `gorm:"not null"                         json:"latitude"`
	Longitude       float64   `gorm:"not null"                         json:"longitude"`
	MediaURL        *string   `gorm:"size:512"                         json:"media_url"`
	VideoURL        *string   `gorm:"size:512"                         json:"video_url"`
	LivestreamURL   *string   `gorm:"size:512"                         json:"livestream_url"`
	AdditionalMedia []string  `gorm:"serializer:json;type:text"        json:"additional_media"`
	Status          string    `gorm:"index;not null;default:submitted" json:"status"`
	AdminRemarks    *string   `gorm:"type:text"                        json:"admin_remarks"`
	CreatedAt       time.Time `gorm:"index"                            json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
