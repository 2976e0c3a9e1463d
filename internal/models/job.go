package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
)

func ValidJobStatus(s JobStatus) bool {
	switch s {
	case JobStatusOpen, JobStatusInProgress, JobStatusCompleted:
		return true
	}
	return false
}

type Job struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`

	ClientID   uuid.UUID `gorm:"type:uuid;not null;index" json:"clientId"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index" json:"categoryId"`

	// JSON-encoded array of skill strings, e.g. ["react","node"].
	SkillsRequired datatypes.JSON `json:"skillsRequired"`
	Budget         *float64       `json:"budget"`
	Status         JobStatus      `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`

	// Settlement tracking, written by the external escrow process.
	EscrowAddress        *string    `gorm:"type:varchar(64)" json:"escrowAddress,omitempty"`
	SettlementStatus     *string    `gorm:"type:varchar(30)" json:"settlementStatus,omitempty"`
	FundedAmount         *float64   `json:"fundedAmount,omitempty"`
	AssignedFreelancerID *uuid.UUID `gorm:"type:uuid;index" json:"assignedFreelancerId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Client             *User     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Category           *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	AssignedFreelancer *User     `gorm:"foreignKey:AssignedFreelancerID" json:"assignedFreelancer,omitempty"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
