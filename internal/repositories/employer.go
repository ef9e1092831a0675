package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"talentbridge/job-intake/internal/models"
)

type EmployerRepository interface {
	FindByID(id uuid.UUID) (*models.Employer, error)
	CanPublishJobs(id uuid.UUID) (bool, error)
}

type employerRepository struct {
	db *gorm.DB
}

func NewEmployerRepository(db *gorm.DB) EmployerRepository {
	return &employerRepository{db: db}
}

func (r *employerRepository) FindByID(id uuid.UUID) (*models.Employer, error) {
	var employer models.Employer
	if err := r.db.Where("id = ?", id).First(&employer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("employer not found")
		}
		return nil, fmt.Errorf("failed to find employer: %w", err)
	}
	return &employer, nil
}

// CanPublishJobs is the verification check consulted by the publish
// gate before a pending_approval submit.
func (r *employerRepository) CanPublishJobs(id uuid.UUID) (bool, error) {
	employer, err := r.FindByID(id)
	if err != nil {
		return false, err
	}
	return employer.CanPublishJobs(), nil
}
