package services

import (
	"testing"

	"rental-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitKYC(t *testing.T) {
	db := newTestDB(t)
	svc := NewKYCService(db)
	user := seedUser(t, db, "tenant@test.io", models.RoleTenant)

	kyc, err := svc.Submit(SubmitKYCInput{
		UserID:           user.ID,
		VerificationType: models.KYCTypeSSN,
		SSN:              "123-45-6789",
	})
	require.NoError(t, err)
	assert.Equal(t, models.KYCPending, kyc.Status)

	// One application per user while not rejected.
	_, err = svc.Submit(SubmitKYCInput{
		UserID: user.ID, VerificationType: models.KYCTypeSSN, SSN: "123-45-6789",
	})
	assert.ErrorIs(t, err, ErrKYCExists)
}

func TestSubmitKYCValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewKYCService(db)
	user := seedUser(t, db, "tenant@test.io", models.RoleTenant)

	_, err := svc.Submit(SubmitKYCInput{UserID: user.ID, VerificationType: models.KYCTypeSSN})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Submit(SubmitKYCInput{UserID: user.ID, VerificationType: models.KYCTypePassport})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Submit(SubmitKYCInput{UserID: user.ID, VerificationType: "carrier-pigeon"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReviewKYCAndResubmit(t *testing.T) {
	db := newTestDB(t)
	svc := NewKYCService(db)
	user := seedUser(t, db, "tenant@test.io", models.RoleTenant)

	kyc, err := svc.Submit(SubmitKYCInput{
		UserID:           user.ID,
		VerificationType: models.KYCTypePassport,
		PassportNumber:   "P1234567",
		PassportDocument: "https://docs.test/p.pdf",
	})
	require.NoError(t, err)

	pending, err := svc.ListPending()
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	rejected, err := svc.Review(kyc.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.KYCRejected, rejected.Status)

	// A rejected application may be re-filed and goes back to pending.
	resubmitted, err := svc.Submit(SubmitKYCInput{
		UserID:           user.ID,
		VerificationType: models.KYCTypeSSN,
		SSN:              "987-65-4321",
	})
	require.NoError(t, err)
	assert.Equal(t, models.KYCPending, resubmitted.Status)
	assert.Equal(t, kyc.ID, resubmitted.ID)

	verified, err := svc.Review(kyc.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.KYCVerified, verified.Status)

	status, err := svc.GetForUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.KYCVerified, status.Status)

	_, err = svc.Review(9999, true)
	assert.ErrorIs(t, err, ErrKYCNotFound)
}
