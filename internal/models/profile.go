package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile is the per-user profile document. Skills, Social and Experience are
// stored as JSON columns so the profile row stays a single document: merges
// and experience edits are one read-modify-write guarded by Version.
type Profile struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	User           *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Company        string         `json:"company"`
	Website        string         `json:"website"`
	Location       string         `json:"location"`
	Status         string         `gorm:"not null" json:"status"`
	Bio            string         `json:"bio"`
	GithubUsername string         `json:"github_username"`
	Skills         []string       `gorm:"serializer:json" json:"skills"`
	Social         Social         `gorm:"serializer:json" json:"social"`
	Experience     []Experience   `gorm:"serializer:json" json:"experience"`
	Version        int            `gorm:"not null;default:0" json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Social holds the profile's social media links. Each link is independently
// settable; empty string means the link is unset.
type Social struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Experience is one entry in the profile's work-experience list. Entries are
// ordered newest first; IDs are assigned at insertion and unique within the
// owning profile.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}
