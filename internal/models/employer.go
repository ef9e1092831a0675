package models

import (
	"time"

	"github.com/google/uuid"
)

type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
)

// Employer is the posting account. Only verified employers may submit a
// job for approval; unverified accounts can still save drafts.
type Employer struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CompanyName        string             `gorm:"type:text;not null" json:"company_name"`
	ContactEmail       string             `gorm:"type:text" json:"contact_email"`
	VerificationStatus VerificationStatus `gorm:"not null;default:'unverified'" json:"verification_status"`
	CreatedAt          time.Time          `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Employer) TableName() string {
	return "employers"
}

// CanPublishJobs reports whether the account passed verification.
func (e *Employer) CanPublishJobs() bool {
	return e.VerificationStatus == VerificationVerified
}
