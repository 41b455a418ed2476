// controllers/admin_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resort-backend/models"
	"resort-backend/services"
	"resort-backend/utils"
)

// AdminController covers the staff dashboard: booking oversight, reports and
// guest account management.
type AdminController struct {
	Bookings *services.BookingService
	Reports  *services.ReportService
	Users    *services.UserService
}

func NewAdminController(bookings *services.BookingService, reports *services.ReportService, users *services.UserService) *AdminController {
	return &AdminController{Bookings: bookings, Reports: reports, Users: users}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func monthParams(c *gin.Context) (int, int) {
	now := time.Now()
	year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	month, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if month < 1 || month > 12 {
		month = int(now.Month())
	}
	if year < 2000 {
		year = now.Year()
	}
	return year, month
}

// Dashboard returns the monthly stats block for the admin landing page.
func (ac *AdminController) Dashboard(c *gin.Context) {
	year, month := monthParams(c)
	stats, err := ac.Reports.Dashboard(year, month)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "dashboard_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}

// StatusCounts returns per-status booking counts for the month.
func (ac *AdminController) StatusCounts(c *gin.Context) {
	year, month := monthParams(c)
	counts, err := ac.Reports.StatusCounts(year, month)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "status_counts_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, counts)
}

// ListBookings pages through all bookings, optionally filtered by status.
func (ac *AdminController) ListBookings(c *gin.Context) {
	page, pageSize := pageParams(c)

	query := ac.Bookings.DB.Model(&models.Booking{}).
		Preload("User").Preload("Room").Preload("Area")

	if status := c.Query("status"); status != "" {
		if !models.IsValidStatus(status) {
			utils.JSONError(c, http.StatusBadRequest, "invalid_status")
			return
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "list_failed")
		return
	}

	var bookings []models.Booking
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&bookings).Error
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "list_failed")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"bookings":   bookings,
		"pagination": utils.NewPagination(total, page, pageSize),
	})
}

type updateStatusPayload struct {
	Status       string   `json:"status" binding:"required"`
	DownPayment  *float64 `json:"down_payment"`
	Reason       string   `json:"reason"`
	SetAvailable *bool    `json:"set_available"`
}

// UpdateStatus applies a booking transition with its unit side effects.
func (ac *AdminController) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var payload updateStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload")
		return
	}

	booking, err := ac.Bookings.UpdateStatus(id, payload.Status, services.StatusOptions{
		DownPayment:  payload.DownPayment,
		Reason:       payload.Reason,
		SetAvailable: payload.SetAvailable,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			utils.JSONError(c, http.StatusNotFound, "booking_not_found")
		case errors.Is(err, services.ErrInvalidStatus):
			utils.JSONError(c, http.StatusBadRequest, "invalid_status")
		case errors.Is(err, services.ErrReasonRequired):
			utils.JSONError(c, http.StatusBadRequest, "reason_required")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "update_failed")
		}
		return
	}

	utils.JSONSuccess(c, http.StatusOK, booking)
}

type recordPaymentPayload struct {
	Amount any    `json:"amount" binding:"required"`
	Type   string `json:"type"`
}

// RecordPayment settles a booking and appends the transaction row.
func (ac *AdminController) RecordPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var payload recordPaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload")
		return
	}

	txn, err := ac.Bookings.RecordPayment(id, payload.Amount, payload.Type)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			utils.JSONError(c, http.StatusNotFound, "booking_not_found")
		case errors.Is(err, services.ErrInvalidAmount):
			utils.JSONError(c, http.StatusBadRequest, "invalid_amount")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "payment_failed")
		}
		return
	}

	utils.JSONSuccess(c, http.StatusOK, txn)
}

// DeleteBooking hard-removes a booking record.
func (ac *AdminController) DeleteBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ac.Bookings.DeleteBooking(id); err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, "booking_not_found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "delete_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "booking_deleted"})
}

// ---------------------------
// Guest account management
// ---------------------------

func (ac *AdminController) ListGuests(c *gin.Context) {
	page, pageSize := pageParams(c)
	guests, total, err := ac.Users.ListGuests(page, pageSize)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "list_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"users":      guests,
		"pagination": utils.NewPagination(total, page, pageSize),
	})
}

func (ac *AdminController) ApproveValidID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := ac.Users.ApproveValidID(id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.JSONError(c, http.StatusNotFound, "user_not_found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "approve_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

type rejectValidIDPayload struct {
	Reason string `json:"reason" binding:"required"`
}

func (ac *AdminController) RejectValidID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload rejectValidIDPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "reason_required")
		return
	}
	user, err := ac.Users.RejectValidID(id, payload.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			utils.JSONError(c, http.StatusNotFound, "user_not_found")
		case errors.Is(err, services.ErrReasonRequiredForID):
			utils.JSONError(c, http.StatusBadRequest, "reason_required")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "reject_failed")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

func (ac *AdminController) ArchiveUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ac.Users.ArchiveUser(id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.JSONError(c, http.StatusNotFound, "user_not_found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "archive_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "user_archived"})
}
