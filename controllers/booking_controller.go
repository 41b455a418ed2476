// controllers/booking_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resort-backend/middleware"
	"resort-backend/models"
	"resort-backend/services"
	"resort-backend/utils"
)

const dateLayout = "2006-01-02"

type BookingController struct {
	Bookings     *services.BookingService
	AvailabilitySvc *services.AvailabilityService
	Users        *services.UserService
}

func NewBookingController(bookings *services.BookingService, availability *services.AvailabilityService, users *services.UserService) *BookingController {
	return &BookingController{Bookings: bookings, AvailabilitySvc: availability, Users: users}
}

func parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, raw, time.Local)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid_id")
		return 0, false
	}
	return uint(id), true
}

// Availability returns rooms and areas free for [start_date, end_date).
func (bc *BookingController) Availability(c *gin.Context) {
	start, err := parseDate(c.Query("start_date"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_start_date")
		return
	}
	end, err := parseDate(c.Query("end_date"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_end_date")
		return
	}

	rooms, areas, err := bc.AvailabilitySvc.FindAvailable(start, end)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRange) {
			utils.JSONError(c, http.StatusBadRequest, "invalid_range")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "availability_failed")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"rooms": rooms, "areas": areas})
}

type createBookingPayload struct {
	RoomID         *uint   `json:"room_id"`
	AreaID         *uint   `json:"area_id"`
	CheckInDate    string  `json:"check_in_date" binding:"required"`
	CheckOutDate   string  `json:"check_out_date" binding:"required"`
	StartTime      *string `json:"start_time"`
	EndTime        *string `json:"end_time"`
	TimeOfArrival  *string `json:"time_of_arrival"`
	PhoneNumber    string  `json:"phone_number"`
	SpecialRequest string  `json:"special_request"`
	NumberOfGuests int     `json:"number_of_guests"`
	PaymentMethod  string  `json:"payment_method"`
	PaymentProof   string  `json:"payment_proof"`
	TotalPrice     float64 `json:"total_price"`
}

// Create submits a new pending booking for the authenticated user.
func (bc *BookingController) Create(c *gin.Context) {
	var payload createBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload")
		return
	}

	if (payload.RoomID == nil) == (payload.AreaID == nil) {
		utils.JSONError(c, http.StatusBadRequest, "one_unit_required")
		return
	}

	checkIn, err := parseDate(payload.CheckInDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_check_in_date")
		return
	}
	checkOut, err := parseDate(payload.CheckOutDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_check_out_date")
		return
	}

	booking, err := bc.Bookings.CreateBooking(services.CreateBookingRequest{
		UserID:         middleware.CurrentUserID(c),
		RoomID:         payload.RoomID,
		AreaID:         payload.AreaID,
		IsVenueBooking: payload.AreaID != nil,
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		StartTime:      payload.StartTime,
		EndTime:        payload.EndTime,
		TimeOfArrival:  payload.TimeOfArrival,
		PhoneNumber:    payload.PhoneNumber,
		SpecialRequest: payload.SpecialRequest,
		NumberOfGuests: payload.NumberOfGuests,
		PaymentMethod:  payload.PaymentMethod,
		PaymentProof:   payload.PaymentProof,
		TotalPrice:     payload.TotalPrice,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRange):
			utils.JSONError(c, http.StatusBadRequest, "invalid_range")
		case errors.Is(err, services.ErrRoomNotFound):
			utils.JSONError(c, http.StatusNotFound, "room_not_found")
		case errors.Is(err, services.ErrAreaNotFound):
			utils.JSONError(c, http.StatusNotFound, "area_not_found")
		case errors.Is(err, services.ErrUnitUnavailable):
			utils.JSONError(c, http.StatusConflict, "unit_unavailable")
		case errors.Is(err, services.ErrUnitOccupied):
			utils.JSONError(c, http.StatusConflict, "unit_occupied")
		case errors.Is(err, services.ErrBookingLimit):
			utils.JSONError(c, http.StatusTooManyRequests, "booking_limit_reached")
		case errors.Is(err, services.ErrGuestCountInvalid):
			utils.JSONError(c, http.StatusBadRequest, "guest_count_invalid")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "create_failed")
		}
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// MyBookings lists the authenticated user's bookings, most recent first.
func (bc *BookingController) MyBookings(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var bookings []models.Booking
	err := bc.Bookings.DB.
		Preload("Room").Preload("Area").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "list_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// Detail returns one booking. Guests may only read their own.
func (bc *BookingController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := bc.Bookings.GetBooking(id)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, "booking_not_found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "fetch_failed")
		return
	}

	role := c.GetString("role")
	if role != models.RoleAdmin && role != models.RoleStaff && booking.UserID != middleware.CurrentUserID(c) {
		utils.JSONError(c, http.StatusForbidden, "forbidden")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, booking)
}

type cancelPayload struct {
	Reason string `json:"reason" binding:"required"`
}

// Cancel cancels a booking on behalf of the caller. The service enforces
// ownership and status rules.
func (bc *BookingController) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var payload cancelPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "reason_required")
		return
	}

	actor, err := bc.Users.GetUser(middleware.CurrentUserID(c))
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "user_not_found")
		return
	}

	booking, err := bc.Bookings.CancelBooking(id, actor, payload.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			utils.JSONError(c, http.StatusNotFound, "booking_not_found")
		case errors.Is(err, services.ErrForbidden):
			utils.JSONError(c, http.StatusForbidden, "forbidden")
		case errors.Is(err, services.ErrNotCancellable):
			utils.JSONError(c, http.StatusConflict, "not_cancellable")
		case errors.Is(err, services.ErrReasonRequired):
			utils.JSONError(c, http.StatusBadRequest, "reason_required")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "cancel_failed")
		}
		return
	}

	utils.JSONSuccess(c, http.StatusOK, booking)
}
