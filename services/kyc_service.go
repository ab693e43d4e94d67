// services/kyc_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"rental-backend/models"

	"gorm.io/gorm"
)

type KYCService struct {
	DB *gorm.DB
}

func NewKYCService(db *gorm.DB) *KYCService {
	return &KYCService{DB: db}
}

type SubmitKYCInput struct {
	UserID           uint
	VerificationType string
	SSN              string
	PassportNumber   string
	PassportDocument string
	VisaDocument     string
}

// Submit files a verification application. One application per user; a
// rejected one may be re-submitted and goes back to Pending.
func (s *KYCService) Submit(in SubmitKYCInput) (*models.KYC, error) {
	switch in.VerificationType {
	case models.KYCTypeSSN:
		if strings.TrimSpace(in.SSN) == "" {
			return nil, fmt.Errorf("%w: ssn is required for ssn verification", ErrInvalidInput)
		}
	case models.KYCTypePassport:
		if strings.TrimSpace(in.PassportNumber) == "" || strings.TrimSpace(in.PassportDocument) == "" {
			return nil, fmt.Errorf("%w: passport number and document are required", ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: verification type must be ssn or passport", ErrInvalidInput)
	}

	var existing models.KYC
	err := s.DB.Where("user_id = ?", in.UserID).First(&existing).Error
	switch {
	case err == nil:
		if existing.Status != models.KYCRejected {
			return nil, ErrKYCExists
		}
		existing.VerificationType = in.VerificationType
		existing.SSN = in.SSN
		existing.PassportNumber = in.PassportNumber
		existing.PassportDocument = in.PassportDocument
		existing.VisaDocument = in.VisaDocument
		existing.Status = models.KYCPending
		if err := s.DB.Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to update kyc: %w", err)
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to create
	default:
		return nil, err
	}

	kyc := models.KYC{
		UserID:           in.UserID,
		VerificationType: in.VerificationType,
		SSN:              in.SSN,
		PassportNumber:   in.PassportNumber,
		PassportDocument: in.PassportDocument,
		VisaDocument:     in.VisaDocument,
		Status:           models.KYCPending,
	}
	if err := s.DB.Create(&kyc).Error; err != nil {
		return nil, fmt.Errorf("failed to create kyc: %w", err)
	}
	return &kyc, nil
}

func (s *KYCService) GetForUser(userID uint) (*models.KYC, error) {
	var kyc models.KYC
	if err := s.DB.Where("user_id = ?", userID).First(&kyc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKYCNotFound
		}
		return nil, err
	}
	return &kyc, nil
}

// ListPending returns applications awaiting review, oldest first.
func (s *KYCService) ListPending() ([]models.KYC, error) {
	var kycs []models.KYC
	err := s.DB.Preload("User").
		Where("status = ?", models.KYCPending).
		Order("created_at ASC").
		Find(&kycs).Error
	return kycs, err
}

// Review records the admin decision on an application.
func (s *KYCService) Review(kycID uint, approve bool) (*models.KYC, error) {
	var kyc models.KYC
	if err := s.DB.First(&kyc, kycID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKYCNotFound
		}
		return nil, err
	}

	status := models.KYCRejected
	if approve {
		status = models.KYCVerified
	}
	if err := s.DB.Model(&kyc).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update kyc status: %w", err)
	}
	kyc.Status = status
	return &kyc, nil
}
