package services

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"resort-backend/models"
	"resort-backend/realtime"
)

// NotificationService owns the notification rows and their fan-out to the
// per-user realtime groups. Every publish is best-effort; a dropped push is
// recovered by the socket's pull path.
type NotificationService struct {
	DB     *gorm.DB
	Broker realtime.Broker
}

func NewNotificationService(db *gorm.DB, broker realtime.Broker) *NotificationService {
	return &NotificationService{DB: db, Broker: broker}
}

// CreateBookingNotification writes the row and pushes it, with the owner's
// fresh unread count, to notifications_{user_id}.
func (s *NotificationService) CreateBookingNotification(userID uint, notificationType string, bookingID uint, message string) (models.Notification, error) {
	notification := models.Notification{
		UserID:           userID,
		BookingID:        &bookingID,
		NotificationType: notificationType,
		Message:          message,
	}
	if err := s.DB.Create(&notification).Error; err != nil {
		return models.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}
	s.pushNew(notification)
	return notification, nil
}

// CreateAccountNotification is the booking-less variant used by account
// verification decisions.
func (s *NotificationService) CreateAccountNotification(userID uint, notificationType, message string) (models.Notification, error) {
	notification := models.Notification{
		UserID:           userID,
		NotificationType: notificationType,
		Message:          message,
	}
	if err := s.DB.Create(&notification).Error; err != nil {
		return models.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}
	s.pushNew(notification)
	return notification, nil
}

func (s *NotificationService) pushNew(notification models.Notification) {
	if s.Broker == nil {
		return
	}
	unread, err := s.UnreadCount(notification.UserID)
	if err != nil {
		log.Printf("notification: unread count failed: %v", err)
		return
	}
	s.Broker.Publish(realtime.UserGroup(notification.UserID), realtime.NewNotification(notification, unread))
}

// List returns a user's notifications newest-first with the unread count.
func (s *NotificationService) List(userID uint, limit int) ([]models.Notification, int64, error) {
	q := s.DB.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var notifications []models.Notification
	if err := q.Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	unread, err := s.UnreadCount(userID)
	if err != nil {
		return nil, 0, err
	}
	return notifications, unread, nil
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips one notification owned by userID and republishes the new
// unread count to the owner's group.
func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	var notification models.Notification
	err := s.DB.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to find notification: %w", err)
	}
	if err := s.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	s.pushUnread(userID)
	return nil
}

// MarkAllRead flips every unread notification for the user and publishes the
// zeroed unread count.
func (s *NotificationService) MarkAllRead(userID uint) error {
	err := s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	if s.Broker != nil {
		s.Broker.Publish(realtime.UserGroup(userID), realtime.NewUnreadUpdate(0))
	}
	return nil
}

func (s *NotificationService) pushUnread(userID uint) {
	if s.Broker == nil {
		return
	}
	count, err := s.UnreadCount(userID)
	if err != nil {
		log.Printf("notification: unread count failed: %v", err)
		return
	}
	s.Broker.Publish(realtime.UserGroup(userID), realtime.NewUnreadUpdate(count))
}

// UserExists backs the websocket authenticate flow.
func (s *NotificationService) UserExists(userID uint) (bool, error) {
	var count int64
	err := s.DB.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	return count > 0, nil
}
