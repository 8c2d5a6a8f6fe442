package models

import "time"

// Role is the access tier attached to a user account. Mutating risk
// operations are gated on it; see the router for the exact matrix.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleAnalyst Role = "Analyst"
	RoleViewer  Role = "Viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAnalyst, RoleViewer:
		return true
	}
	return false
}

// Status is the treatment state of a risk. New risks start Open.
type Status string

const (
	StatusOpen        Status = "Open"
	StatusMitigated   Status = "Mitigated"
	StatusAccepted    Status = "Accepted"
	StatusTransferred Status = "Transferred"
	StatusAvoided     Status = "Avoided"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusMitigated, StatusAccepted, StatusTransferred, StatusAvoided:
		return true
	}
	return false
}

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Risk struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Asset         string    `json:"asset"`
	Threat        string    `json:"threat"`
	Vulnerability string    `json:"vulnerability"`
	Likelihood    int       `gorm:"not null" json:"likelihood"`
	Impact        int       `gorm:"not null" json:"impact"`
	Score         int       `gorm:"not null" json:"score"`
	Level         Level     `gorm:"type:varchar(10);not null" json:"level"`
	Owner         string    `json:"owner"`
	Status        Status    `gorm:"type:varchar(15);not null;default:Open" json:"status"`
	TreatmentPlan string    `json:"treatmentPlan"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"size:36;index" json:"userId"`
	Action    string    `gorm:"not null" json:"action"`
	Metadata  JSONB     `gorm:"type:jsonb" json:"metadata"`
	CreatedAt time.Time `json:"createdAt"`
}

// RiskStatistics is the aggregate view the dashboard renders.
type RiskStatistics struct {
	Total        int            `json:"total"`
	Open         int            `json:"open"`
	AverageScore float64        `json:"averageScore"`
	ByLevel      map[Level]int  `json:"byLevel"`
	ByStatus     map[Status]int `json:"byStatus"`
}
