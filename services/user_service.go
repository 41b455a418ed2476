package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"resort-backend/models"
)

// UserService covers accounts: registration, credentials, guest management
// and valid-ID verification decisions.
type UserService struct {
	DB            *gorm.DB
	Notifications *NotificationService
}

func NewUserService(db *gorm.DB, notifications *NotificationService) *UserService {
	return &UserService{DB: db, Notifications: notifications}
}

type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// Register creates a guest account. OTP verification happens before this is
// called; see the auth controller.
func (s *UserService) Register(req RegisterRequest) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return models.User{}, fmt.Errorf("failed to check email: %w", err)
	}
	if existing > 0 {
		return models.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:       email,
		Password:    string(hash),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		PhoneNumber: strings.TrimSpace(req.Phone),
		Role:        models.RoleGuest,
		IsVerified:  models.VerifyUnverified,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate checks credentials and returns the account. Archived accounts
// cannot log in.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("failed to find user: %w", err)
	}
	if user.IsArchived {
		return models.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetUser(userID uint) (models.User, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ChangePassword verifies the old password before setting the new one.
func (s *UserService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}
	return s.setPassword(&user, newPassword)
}

// ResetPassword sets a new password after an OTP-verified reset flow.
func (s *UserService) ResetPassword(email, newPassword string) error {
	var user models.User
	err := s.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	return s.setPassword(&user, newPassword)
}

func (s *UserService) setPassword(user *models.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.DB.Model(user).Update("password", string(hash)).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// ListGuests pages through non-archived guest accounts.
func (s *UserService) ListGuests(page, pageSize int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	var total int64
	base := s.DB.Model(&models.User{}).
		Where("role = ? AND is_archived = ?", models.RoleGuest, false)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	var users []models.User
	err := base.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// ApproveValidID marks the guest verified and notifies them.
func (s *UserService) ApproveValidID(userID uint) (models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return models.User{}, err
	}
	updates := map[string]any{
		"is_verified":               models.VerifyVerified,
		"valid_id_rejection_reason": nil,
	}
	if err := s.DB.Model(&user).Updates(updates).Error; err != nil {
		return models.User{}, fmt.Errorf("failed to approve valid ID: %w", err)
	}
	if s.Notifications != nil {
		if _, err := s.Notifications.CreateAccountNotification(user.ID, "verified",
			"Your account has been verified! You may now enjoy unlimited bookings."); err != nil {
			log.Printf("user: verification notification failed: %v", err)
		}
	}
	return user, nil
}

// RejectValidID records the rejection reason and notifies the guest.
func (s *UserService) RejectValidID(userID uint, reason string) (models.User, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.User{}, ErrReasonRequiredForID
	}
	user, err := s.GetUser(userID)
	if err != nil {
		return models.User{}, err
	}
	updates := map[string]any{
		"is_verified":               models.VerifyRejected,
		"valid_id_rejection_reason": reason,
	}
	if err := s.DB.Model(&user).Updates(updates).Error; err != nil {
		return models.User{}, fmt.Errorf("failed to reject valid ID: %w", err)
	}
	if s.Notifications != nil {
		if _, err := s.Notifications.CreateAccountNotification(user.ID, "rejected",
			fmt.Sprintf("Your ID was rejected: %s", reason)); err != nil {
			log.Printf("user: rejection notification failed: %v", err)
		}
	}
	return user, nil
}

// ArchiveUser soft-retires an account; archived users keep their history but
// cannot log in.
func (s *UserService) ArchiveUser(userID uint) error {
	res := s.DB.Model(&models.User{}).Where("id = ?", userID).Update("is_archived", true)
	if res.Error != nil {
		return fmt.Errorf("failed to archive user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
