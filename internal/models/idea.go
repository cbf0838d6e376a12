package models

import (
	"time"

	"github.com/google/uuid"
)

type IdeaStatus string

const (
	StatusSubmitted       IdeaStatus = "Submitted"
	StatusPendingApproval IdeaStatus = "Pending approval"
	StatusApproved        IdeaStatus = "Approved"
	StatusRejected        IdeaStatus = "Rejected"
	StatusDone            IdeaStatus = "Done"
)

// SubmissionBeans is the fixed bean bonus granted when an idea is submitted.
const SubmissionBeans = 100

// IsResolved reports whether the status is one of the two review outcomes.
func (s IdeaStatus) IsResolved() bool {
	return s == StatusApproved || s == StatusRejected
}

// IsValid reports whether the status is a known lifecycle state.
func (s IdeaStatus) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusPendingApproval, StatusApproved, StatusRejected, StatusDone:
		return true
	}
	return false
}

// ProgressStep maps a status to its 1-based checkpoint on the four-stage
// progress bar. Unknown statuses fall back to step 1 so imported records with
// free-form statuses still render.
func ProgressStep(s IdeaStatus) int {
	switch s {
	case StatusSubmitted:
		return 1
	case StatusPendingApproval:
		return 2
	case StatusApproved, StatusRejected:
		return 3
	case StatusDone:
		return 4
	default:
		return 1
	}
}

// Idea represents a submitted innovation idea
type Idea struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"idea_id"`
	SubmitterName         string     `gorm:"size:255;not null" json:"name"`
	SubmitterEmail        string     `gorm:"size:255;not null;index" json:"email"`
	Title                 string     `gorm:"size:255;not null" json:"ideaTitle"`
	Description           string     `gorm:"type:text;not null" json:"ideaDescription"`
	ValueAdd              string     `gorm:"type:text" json:"valueAdd"`
	Categories            StringList `gorm:"type:text" json:"ideaCategory"`
	ToolsTechnologies     StringList `gorm:"type:text" json:"toolsTechnologies"`
	PrimaryBeneficiaries  StringList `gorm:"type:text" json:"primaryBeneficiary"`
	Contributors          StringList `gorm:"type:text" json:"contributors"`
	Complexity            string     `gorm:"size:50" json:"complexity"`
	ResourceLink          string     `gorm:"size:500" json:"googleLink"`
	Status                IdeaStatus `gorm:"size:50;not null;default:Submitted;index" json:"status"`
	AssignedReviewerEmail *string    `gorm:"size:255;index" json:"assigned_reviewer_email"`
	GradingScore          *int       `json:"grading"`
	Comments              string     `gorm:"type:text" json:"comments"`
	BeansAwarded          int        `gorm:"not null" json:"beansEarned"`
	DateSubmitted         time.Time  `gorm:"not null" json:"dateSubmitted"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Idea model
func (Idea) TableName() string {
	return "ideas"
}

// SubmitIdeaRequest is the submission form payload
type SubmitIdeaRequest struct {
	Title                string   `json:"ideaTitle" binding:"required"`
	Description          string   `json:"ideaDescription" binding:"required"`
	ValueAdd             string   `json:"valueAdd"`
	Categories           []string `json:"ideaCategory"`
	ToolsTechnologies    []string `json:"toolsTechnologies"`
	PrimaryBeneficiaries []string `json:"primaryBeneficiary"`
	Contributors         []string `json:"contributors"`
	Complexity           string   `json:"complexity"`
	ResourceLink         string   `json:"googleLink"`
}

// TransitionRequest moves an idea to the next lifecycle state. GradingScore
// and Comments are only honored when the actor is the assigned reviewer.
type TransitionRequest struct {
	TargetStatus IdeaStatus `json:"target_status" binding:"required"`
	GradingScore *int       `json:"grading"`
	Comments     *string    `json:"comments"`
}

// UpdateIdeaRequest carries the allow-listed mutable submission fields.
// Nil fields are left untouched.
type UpdateIdeaRequest struct {
	Title                *string   `json:"ideaTitle"`
	Description          *string   `json:"ideaDescription"`
	ValueAdd             *string   `json:"valueAdd"`
	Categories           *[]string `json:"ideaCategory"`
	ToolsTechnologies    *[]string `json:"toolsTechnologies"`
	PrimaryBeneficiaries *[]string `json:"primaryBeneficiary"`
	Contributors         *[]string `json:"contributors"`
	Complexity           *string   `json:"complexity"`
	ResourceLink         *string   `json:"googleLink"`
	GradingScore         *int      `json:"grading"`
	Comments             *string   `json:"comments"`
}

// AssignReviewerRequest binds a reviewer to an idea
type AssignReviewerRequest struct {
	ReviewerEmail string `json:"reviewer_email" binding:"required,email"`
}

// IdeaResponse is an idea in API responses, with the derived progress step
type IdeaResponse struct {
	Idea
	ProgressStep int `json:"progress_step"`
}

// NewIdeaResponse wraps an idea with its display step.
func NewIdeaResponse(idea Idea) IdeaResponse {
	return IdeaResponse{Idea: idea, ProgressStep: ProgressStep(idea.Status)}
}
