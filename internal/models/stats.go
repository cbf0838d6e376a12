package models

import (
	"time"
)

// PortalStats stores a periodic snapshot of platform totals for the admin
// dashboard
type PortalStats struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Date               time.Time `gorm:"uniqueIndex;not null" json:"date"`
	TotalUsers         int       `gorm:"default:0" json:"total_users"`
	TotalReviewers     int       `gorm:"default:0" json:"total_reviewers"`
	TotalIdeas         int       `gorm:"default:0" json:"total_ideas"`
	IdeasSubmitted     int       `gorm:"default:0" json:"ideas_submitted"`
	IdeasPendingReview int       `gorm:"default:0" json:"ideas_pending_review"`
	IdeasApproved      int       `gorm:"default:0" json:"ideas_approved"`
	IdeasRejected      int       `gorm:"default:0" json:"ideas_rejected"`
	IdeasDone          int       `gorm:"default:0" json:"ideas_done"`
	TotalBeansAwarded  int       `gorm:"default:0" json:"total_beans_awarded"`
	CreatedAt          time.Time `json:"created_at"`
}

// TableName specifies the table name for PortalStats model
func (PortalStats) TableName() string {
	return "portal_stats"
}
