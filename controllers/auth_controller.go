// controllers/auth_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resort-backend/middleware"
	"resort-backend/services"
	"resort-backend/utils"
)

// OTP purposes. Each purpose keeps its own code per email so a registration
// code cannot be replayed for a password reset.
const (
	purposeRegister      = "register"
	purposePasswordReset = "password_reset"
)

const accessTokenTTL = 24 * time.Hour

type AuthController struct {
	Users        *services.UserService
	Verification *services.VerificationService
	Notifier     OTPSender
}

// OTPSender delivers a one-time code out of band. In production this is the
// email queue; tests plug in a recorder.
type OTPSender interface {
	SendOTP(email, purpose, code string) error
}

func NewAuthController(users *services.UserService, verification *services.VerificationService, notifier OTPSender) *AuthController {
	return &AuthController{Users: users, Verification: verification, Notifier: notifier}
}

type requestOTPPayload struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose"`
}

// RequestOTP issues (or re-issues) a verification code for the given email.
func (ac *AuthController) RequestOTP(c *gin.Context) {
	var payload requestOTPPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload")
		return
	}

	purpose := payload.Purpose
	if purpose == "" {
		purpose = purposeRegister
	}
	if purpose != purposeRegister && purpose != purposePasswordReset {
		utils.JSONError(c, http.StatusBadRequest, "invalid_purpose")
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	code, err := ac.Verification.IssueOTP(c.Request.Context(), email, purpose)
	if errors.Is(err, services.ErrOTPAlreadySent) {
		// Resend returns the outstanding code instead of minting a new one,
		// so a double-submit does not invalidate the first email.
		code, err = ac.Verification.ResendOTP(c.Request.Context(), email, purpose)
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "otp_issue_failed")
		return
	}

	if ac.Notifier != nil {
		if err := ac.Notifier.SendOTP(email, purpose, code); err != nil {
			log.Printf("auth: sending otp to %s failed: %v", email, err)
		}
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "otp_sent"})
}

type registerPayload struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone_number"`
	OTP       string `json:"otp" binding:"required"`
}

// Register verifies the OTP then creates the guest account.
func (ac *AuthController) Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	if err := ac.Verification.VerifyOTP(c.Request.Context(), email, purposeRegister, payload.OTP); err != nil {
		switch {
		case errors.Is(err, services.ErrOTPExpired):
			utils.JSONError(c, http.StatusBadRequest, "otp_expired")
		case errors.Is(err, services.ErrOTPMismatch):
			utils.JSONError(c, http.StatusBadRequest, "otp_mismatch")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "otp_verify_failed")
		}
		return
	}

	user, err := ac.Users.Register(services.RegisterRequest{
		Email:     email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			utils.JSONError(c, http.StatusConflict, "email_taken")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "register_failed")
		return
	}

	token, err := utils.NewAccessToken(user.ID, user.Role, accessTokenTTL)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "token_failed")
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, gin.H{"user": user, "token": token})
}

type loginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload")
		return
	}

	user, err := ac.Users.Authenticate(strings.ToLower(strings.TrimSpace(payload.Email)), payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "login_failed")
		return
	}

	token, err := utils.NewAccessToken(user.ID, user.Role, accessTokenTTL)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "token_failed")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"user": user, "token": token})
}

// Logout acknowledges the client discarding its token. Access tokens are
// stateless, so there is nothing to revoke server-side.
func (ac *AuthController) Logout(c *gin.Context) {
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "logged_out"})
}

// Me returns the authenticated user's profile.
func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.Users.GetUser(middleware.CurrentUserID(c))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "user_not_found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

type changePasswordPayload struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (ac *AuthController) ChangePassword(c *gin.Context) {
	var payload changePasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload")
		return
	}

	err := ac.Users.ChangePassword(middleware.CurrentUserID(c), payload.OldPassword, payload.NewPassword)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "change_password_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "password_changed"})
}

type resetPasswordPayload struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ResetPassword completes the forgot-password flow: OTP proves ownership of
// the mailbox, then the password is replaced.
func (ac *AuthController) ResetPassword(c *gin.Context) {
	var payload resetPasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	if err := ac.Verification.VerifyOTP(c.Request.Context(), email, purposePasswordReset, payload.OTP); err != nil {
		switch {
		case errors.Is(err, services.ErrOTPExpired):
			utils.JSONError(c, http.StatusBadRequest, "otp_expired")
		case errors.Is(err, services.ErrOTPMismatch):
			utils.JSONError(c, http.StatusBadRequest, "otp_mismatch")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "otp_verify_failed")
		}
		return
	}

	if err := ac.Users.ResetPassword(email, payload.NewPassword); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.JSONError(c, http.StatusNotFound, "user_not_found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "reset_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "password_reset"})
}
