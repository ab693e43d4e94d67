package services

import (
	"context"
	"testing"

	"rental-backend/models"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// recorderMailer captures outgoing mail instead of sending it.
type recorderMailer struct {
	sent []struct{ To, Subject, Body string }
}

func (m *recorderMailer) Send(to, subject, body string) error {
	m.sent = append(m.sent, struct{ To, Subject, Body string }{to, subject, body})
	return nil
}

func newUserFixture(t *testing.T) (*UserService, redismock.ClientMock, *recorderMailer) {
	t.Helper()
	db := newTestDB(t)
	rdb, mock := redismock.NewClientMock()
	mailer := &recorderMailer{}
	return NewUserService(db, rdb, mailer), mock, mailer
}

func TestSendOTP(t *testing.T) {
	svc, mock, mailer := newUserFixture(t)
	ctx := context.Background()

	mock.Regexp().ExpectSetNX(otpKey("new@test.io"), `^[0-9a-f]{64}$`, otpTTL).SetVal(true)

	require.NoError(t, svc.SendOTP(ctx, "New@Test.io"))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "new@test.io", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Body, "OTP")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendOTPAlreadyOutstanding(t *testing.T) {
	svc, mock, mailer := newUserFixture(t)

	mock.Regexp().ExpectSetNX(otpKey("new@test.io"), `^[0-9a-f]{64}$`, otpTTL).SetVal(false)

	err := svc.SendOTP(context.Background(), "new@test.io")
	assert.ErrorIs(t, err, ErrOTPAlreadySent)
	assert.Empty(t, mailer.sent)
}

func TestSendOTPEmailTaken(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	seedUser(t, svc.DB, "taken@test.io", models.RoleTenant)

	err := svc.SendOTP(context.Background(), "taken@test.io")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestVerifyOTPCreatesUser(t *testing.T) {
	svc, mock, _ := newUserFixture(t)
	ctx := context.Background()

	mock.ExpectGet(otpKey("new@test.io")).SetVal(hashOTP("4821"))
	mock.ExpectDel(otpKey("new@test.io")).SetVal(1)

	user, err := svc.VerifyOTP(ctx, RegisterInput{
		Email:    "new@test.io",
		OTP:      "4821",
		Name:     "New Tenant",
		Password: "s3cret-pass",
		Role:     models.RoleTenant,
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, models.RoleTenant, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret-pass")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyOTPRejectsWrongCode(t *testing.T) {
	svc, mock, _ := newUserFixture(t)
	ctx := context.Background()

	mock.ExpectGet(otpKey("new@test.io")).SetVal(hashOTP("4821"))
	_, err := svc.VerifyOTP(ctx, RegisterInput{
		Email: "new@test.io", OTP: "0000", Name: "N", Password: "s3cret-pass", Role: models.RoleTenant,
	})
	assert.ErrorIs(t, err, ErrOTPInvalid)

	// Expired or never issued.
	mock.ExpectGet(otpKey("gone@test.io")).RedisNil()
	_, err = svc.VerifyOTP(ctx, RegisterInput{
		Email: "gone@test.io", OTP: "4821", Name: "N", Password: "s3cret-pass", Role: models.RoleTenant,
	})
	assert.ErrorIs(t, err, ErrOTPInvalid)
}

func TestVerifyOTPRejectsAdminRole(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	_, err := svc.VerifyOTP(context.Background(), RegisterInput{
		Email: "new@test.io", OTP: "4821", Name: "N", Password: "s3cret-pass", Role: models.RoleAdmin,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("right-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, svc.DB.Create(&models.User{
		Name: "U", Email: "login@test.io", Password: string(hash), Role: models.RoleTenant,
	}).Error)

	user, err := svc.Login("Login@Test.io", "right-pass")
	require.NoError(t, err)
	assert.Equal(t, "login@test.io", user.Email)

	_, err = svc.Login("login@test.io", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@test.io", "right-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResetPassword(t *testing.T) {
	svc, mock, _ := newUserFixture(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("old-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{Name: "U", Email: "reset@test.io", Password: string(hash), Role: models.RoleTenant}
	require.NoError(t, svc.DB.Create(&user).Error)

	mock.ExpectGet(resetKey("tok123")).SetVal("1")
	mock.ExpectDel(resetKey("tok123")).SetVal(1)

	require.NoError(t, svc.ResetPassword(ctx, "tok123", "new-pass"))

	updated, err := svc.GetByID(user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("new-pass")))

	mock.ExpectGet(resetKey("expired")).RedisNil()
	assert.ErrorIs(t, svc.ResetPassword(ctx, "expired", "x-pass"), ErrResetTokenInvalid)
}
