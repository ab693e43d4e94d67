// services/user_service.go
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"rental-backend/models"
	"rental-backend/utils"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	otpTTL        = 10 * time.Minute
	resetTokenTTL = 15 * time.Minute
)

// UserService handles registration (email OTP), login and password
// resets. OTP codes and reset tokens live in redis with explicit TTLs so
// multiple instances share them.
type UserService struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Mailer utils.Mailer
}

func NewUserService(db *gorm.DB, rdb *redis.Client, mailer utils.Mailer) *UserService {
	return &UserService{DB: db, Redis: rdb, Mailer: mailer}
}

func otpKey(email string) string   { return "otp:" + strings.ToLower(email) }
func resetKey(token string) string { return "pwreset:" + token }
func hashOTP(otp string) string {
	sum := sha256.Sum256([]byte(otp))
	return hex.EncodeToString(sum[:])
}

// SendOTP issues a 4-digit registration code. At most one code per email
// is outstanding; redis TTL evicts it after ten minutes.
func (s *UserService) SendOTP(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	var existing models.User
	err := s.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("db error checking user: %w", err)
	}

	// SETNX keeps a second request inside the TTL from rotating the code.
	otp, err := utils.GenerateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}
	ok, err := s.Redis.SetNX(ctx, otpKey(email), hashOTP(otp), otpTTL).Result()
	if err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	if !ok {
		return ErrOTPAlreadySent
	}

	if err := s.Mailer.Send(email, "Email Verification OTP",
		fmt.Sprintf("Your OTP for email verification is: %s. It is valid for 10 minutes.", otp)); err != nil {
		// Roll back so the user can request again immediately.
		_ = s.Redis.Del(ctx, otpKey(email)).Err()
		return fmt.Errorf("failed to send otp email: %w", err)
	}
	return nil
}

type RegisterInput struct {
	Email    string
	OTP      string
	Name     string
	Password string
	Role     string
}

// VerifyOTP checks the code and creates the account.
func (s *UserService) VerifyOTP(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || in.OTP == "" || in.Name == "" || in.Password == "" || in.Role == "" {
		return nil, fmt.Errorf("%w: email, otp, name, password and role are required", ErrInvalidInput)
	}
	if in.Role != models.RoleTenant && in.Role != models.RoleLandlord {
		return nil, fmt.Errorf("%w: role must be tenant or landlord", ErrInvalidInput)
	}

	stored, err := s.Redis.Get(ctx, otpKey(in.Email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrOTPInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read otp: %w", err)
	}
	if stored != hashOTP(in.OTP) {
		return nil, ErrOTPInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hash),
		Role:     in.Role,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if IsDuplicateKey(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	_ = s.Redis.Del(ctx, otpKey(in.Email)).Err()
	return &user, nil
}

func (s *UserService) Login(email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("db error loading user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

type UpdateUserInput struct {
	Name           *string
	AvatarPublicID *string
	AvatarURL      *string
}

func (s *UserService) Update(id uint, in UpdateUserInput) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.AvatarPublicID != nil {
		updates["avatar_public_id"] = *in.AvatarPublicID
	}
	if in.AvatarURL != nil {
		updates["avatar_url"] = *in.AvatarURL
	}
	if len(updates) > 0 {
		if err := s.DB.Model(user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}
	return user, nil
}

func (s *UserService) Delete(id uint) error {
	res := s.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ForgotPassword issues a reset token keyed in redis. The response is the
// same whether or not the email exists.
func (s *UserService) ForgotPassword(ctx context.Context, email, resetBaseURL string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil // do not reveal whether the account exists
	}

	token, err := utils.GenerateSecureToken(24)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	if err := s.Redis.Set(ctx, resetKey(token), user.ID, resetTokenTTL).Err(); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := strings.TrimRight(resetBaseURL, "/") + "/reset-password/" + token
	return s.Mailer.Send(email, "Password Reset",
		fmt.Sprintf("Reset your password using this link (valid for 15 minutes): %s", link))
}

func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return fmt.Errorf("%w: token and password are required", ErrInvalidInput)
	}

	idStr, err := s.Redis.Get(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrResetTokenInvalid
	}
	if err != nil {
		return fmt.Errorf("failed to read reset token: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.DB.Model(&models.User{}).Where("id = ?", idStr).
		Update("password", string(hash)).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	_ = s.Redis.Del(ctx, resetKey(token)).Err()
	return nil
}
