// controllers/user_controller.go
package controllers

import (
	"net/http"

	"rental-backend/middleware"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	Email    string `json:"email" binding:"required,email"`
	OTP      string `json:"otp" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	Name           *string `json:"name"`
	AvatarPublicID *string `json:"avatar_public_id"`
	AvatarURL      *string `json:"avatar_url"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

const authCookieMaxAge = 72 * 60 * 60

// ---------------------------
// Controller
// ---------------------------

type UserController struct {
	UserSvc     *services.UserService
	FrontendURL string
}

func NewUserController(svc *services.UserService, frontendURL string) *UserController {
	return &UserController{UserSvc: svc, FrontendURL: frontendURL}
}

func setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("token", token, authCookieMaxAge, "/", "", false, true)
}

// SendOTP — POST /user/send-otp
func (ctl *UserController) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := ctl.UserSvc.SendOTP(c.Request.Context(), req.Email); err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"sent": utils.MaskEmail(req.Email)})
}

// VerifyOTP — POST /user/verify-otp (completes registration)
func (ctl *UserController) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := ctl.UserSvc.VerifyOTP(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		OTP:      req.OTP,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}

	token, err := utils.SignAuthToken(user.ID, user.Role)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to issue token")
		return
	}
	setAuthCookie(c, token)
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login — POST /user/login
func (ctl *UserController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := ctl.UserSvc.Login(req.Email, req.Password)
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}

	token, err := utils.SignAuthToken(user.ID, user.Role)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to issue token")
		return
	}
	setAuthCookie(c, token)
	utils.JSONSuccess(c, http.StatusOK, gin.H{"user": user, "token": token})
}

// Logout — POST /user/logout
func (ctl *UserController) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	utils.JSONSuccess(c, http.StatusOK, gin.H{"loggedOut": true})
}

// Me — GET /user/me
func (ctl *UserController) Me(c *gin.Context) {
	user, err := ctl.UserSvc.GetByID(middleware.UserID(c))
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

// Update — PUT /user/update
func (ctl *UserController) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	user, err := ctl.UserSvc.Update(middleware.UserID(c), services.UpdateUserInput{
		Name:           req.Name,
		AvatarPublicID: req.AvatarPublicID,
		AvatarURL:      req.AvatarURL,
	})
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

// Delete — DELETE /user/delete
func (ctl *UserController) Delete(c *gin.Context) {
	if err := ctl.UserSvc.Delete(middleware.UserID(c)); err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	c.SetCookie("token", "", -1, "/", "", false, true)
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// ForgotPassword — POST /user/forgot-password
func (ctl *UserController) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := ctl.UserSvc.ForgotPassword(c.Request.Context(), req.Email, ctl.FrontendURL); err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"sent": true})
}

// ResetPassword — POST /user/reset-password/:token
func (ctl *UserController) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := ctl.UserSvc.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"reset": true})
}
