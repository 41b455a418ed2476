// controllers/notification_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resort-backend/middleware"
	"resort-backend/services"
	"resort-backend/utils"
)

type NotificationController struct {
	Notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: notifications}
}

// List returns the caller's notifications plus the unread count.
func (nc *NotificationController) List(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	notifications, unread, err := nc.Notifications.List(userID, limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "list_failed")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkRead flips one notification owned by the caller.
func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := nc.Notifications.MarkRead(middleware.CurrentUserID(c), id)
	if err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			utils.JSONError(c, http.StatusNotFound, "notification_not_found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "mark_read_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "marked_read"})
}

// MarkAllRead zeroes the caller's unread count.
func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	if err := nc.Notifications.MarkAllRead(middleware.CurrentUserID(c)); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "mark_all_read_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "all_marked_read"})
}
