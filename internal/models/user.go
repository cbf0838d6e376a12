package models

import (
	"time"
)

// User represents an employee account in the portal
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	Name           string     `gorm:"size:255;not null" json:"name"`
	PasswordHash   string     `gorm:"size:255;not null" json:"-"`
	Beans          int        `gorm:"default:0" json:"beans"`
	IsReviewer     bool       `gorm:"default:false;index" json:"is_reviewer"`
	IsAdmin        bool       `gorm:"default:false" json:"is_admin"`
	ReviewCount    int        `gorm:"default:0" json:"review_count"`
	SubmittedIdeas StringList `gorm:"type:text" json:"submitted_ideas"`
	ReviewIdeas    StringList `gorm:"type:text" json:"review_ideas"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// LoginRequest is the credential payload for /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest provisions a new account (admin only)
type CreateUserRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name" binding:"required"`
	Password   string `json:"password" binding:"required,min=8"`
	IsReviewer bool   `json:"is_reviewer"`
	IsAdmin    bool   `json:"is_admin"`
}

// UserSummary holds the per-user counters shown on the dashboard
type UserSummary struct {
	BeansEarned   int `json:"beansEarned"`
	IdeasShared   int `json:"ideasShared"`
	IdeasAccepted int `json:"ideasAccepted"`
	ReviewPending int `json:"reviewPending"`
	IdeasTried    int `json:"ideasTried"`
}

// SubmitterRank is one leaderboard row
type SubmitterRank struct {
	Name  string `json:"name"`
	Beans int    `json:"beans"`
}
