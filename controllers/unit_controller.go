// controllers/unit_controller.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"resort-backend/models"
	"resort-backend/services"
	"resort-backend/utils"
)

// UnitController serves the room/area/amenity catalog and the staff-side
// inventory CRUD.
type UnitController struct {
	DB           *gorm.DB
	Availability *services.AvailabilityService
}

func NewUnitController(db *gorm.DB, availability *services.AvailabilityService) *UnitController {
	return &UnitController{DB: db, Availability: availability}
}

// ---------------------------
// Rooms
// ---------------------------

func (uc *UnitController) ListRooms(c *gin.Context) {
	var rooms []models.Room
	if err := uc.DB.Preload("Amenities").Order("room_name").Find(&rooms).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "list_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (uc *UnitController) GetRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var room models.Room
	if err := uc.DB.Preload("Amenities").First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "room_not_found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "fetch_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

type roomPayload struct {
	RoomName        string  `json:"room_name" binding:"required"`
	RoomType        string  `json:"room_type"`
	BedType         string  `json:"bed_type"`
	Status          string  `json:"status"`
	RoomPrice       float64 `json:"room_price"`
	Description     string  `json:"description"`
	MaxGuests       int     `json:"max_guests"`
	DiscountPercent int     `json:"discount_percent"`
	ImageURL        string  `json:"room_image"`
	AmenityIDs      []uint  `json:"amenity_ids"`
}

func (uc *UnitController) CreateRoom(c *gin.Context) {
	var payload roomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload")
		return
	}

	room := models.Room{
		RoomName:        payload.RoomName,
		RoomType:        payload.RoomType,
		BedType:         payload.BedType,
		RoomPrice:       payload.RoomPrice,
		Description:     payload.Description,
		MaxGuests:       payload.MaxGuests,
		DiscountPercent: payload.DiscountPercent,
		ImageURL:        payload.ImageURL,
	}
	if payload.Status != "" {
		room.Status = payload.Status
	}

	if err := uc.DB.Create(&room).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "create_failed")
		return
	}
	if len(payload.AmenityIDs) > 0 {
		uc.replaceAmenities(&room, payload.AmenityIDs)
	}

	utils.JSONSuccess(c, http.StatusCreated, room)
}

func (uc *UnitController) UpdateRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var room models.Room
	if err := uc.DB.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "room_not_found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "fetch_failed")
		return
	}

	var payload roomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload")
		return
	}

	// A room with upcoming bookings cannot be pulled into maintenance.
	if payload.Status == models.UnitMaintenance && room.Status != models.UnitMaintenance {
		upcoming, err := uc.Availability.HasUpcoming(false, room.ID)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "update_failed")
			return
		}
		if upcoming {
			utils.JSONError(c, http.StatusConflict, "has_upcoming_bookings")
			return
		}
	}

	room.RoomName = payload.RoomName
	room.RoomType = payload.RoomType
	room.BedType = payload.BedType
	room.RoomPrice = payload.RoomPrice
	room.Description = payload.Description
	room.MaxGuests = payload.MaxGuests
	room.DiscountPercent = payload.DiscountPercent
	room.ImageURL = payload.ImageURL
	if payload.Status != "" {
		room.Status = payload.Status
	}

	if err := uc.DB.Save(&room).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "update_failed")
		return
	}
	if payload.AmenityIDs != nil {
		uc.replaceAmenities(&room, payload.AmenityIDs)
	}

	utils.JSONSuccess(c, http.StatusOK, room)
}

// DeleteRoom refuses while the room still has upcoming active bookings.
func (uc *UnitController) DeleteRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	upcoming, err := uc.Availability.HasUpcoming(false, id)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "delete_failed")
		return
	}
	if upcoming {
		utils.JSONError(c, http.StatusConflict, "has_upcoming_bookings")
		return
	}

	result := uc.DB.Delete(&models.Room{}, id)
	if result.Error != nil {
		utils.JSONError(c, http.StatusInternalServerError, "delete_failed")
		return
	}
	if result.RowsAffected == 0 {
		utils.JSONError(c, http.StatusNotFound, "room_not_found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "room_deleted"})
}

func (uc *UnitController) replaceAmenities(room *models.Room, ids []uint) {
	var amenities []models.Amenity
	if err := uc.DB.Find(&amenities, ids).Error; err != nil {
		return
	}
	_ = uc.DB.Model(room).Association("Amenities").Replace(amenities)
	room.Amenities = amenities
}

// ---------------------------
// Areas
// ---------------------------

func (uc *UnitController) ListAreas(c *gin.Context) {
	var areas []models.Area
	if err := uc.DB.Order("area_name").Find(&areas).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "list_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, areas)
}

func (uc *UnitController) GetArea(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var area models.Area
	if err := uc.DB.First(&area, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "area_not_found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "fetch_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, area)
}

type areaPayload struct {
	AreaName        string  `json:"area_name" binding:"required"`
	Description     string  `json:"description"`
	Capacity        int     `json:"capacity"`
	PricePerHour    float64 `json:"price_per_hour"`
	Status          string  `json:"status"`
	DiscountPercent int     `json:"discount_percent"`
	ImageURL        string  `json:"area_image"`
}

func (uc *UnitController) CreateArea(c *gin.Context) {
	var payload areaPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload")
		return
	}

	area := models.Area{
		AreaName:        payload.AreaName,
		Description:     payload.Description,
		Capacity:        payload.Capacity,
		PricePerHour:    payload.PricePerHour,
		DiscountPercent: payload.DiscountPercent,
		ImageURL:        payload.ImageURL,
	}
	if payload.Status != "" {
		area.Status = payload.Status
	}

	if err := uc.DB.Create(&area).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "create_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, area)
}

func (uc *UnitController) UpdateArea(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var area models.Area
	if err := uc.DB.First(&area, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "area_not_found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "fetch_failed")
		return
	}

	var payload areaPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload")
		return
	}

	if payload.Status == models.UnitMaintenance && area.Status != models.UnitMaintenance {
		upcoming, err := uc.Availability.HasUpcoming(true, area.ID)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "update_failed")
			return
		}
		if upcoming {
			utils.JSONError(c, http.StatusConflict, "has_upcoming_bookings")
			return
		}
	}

	area.AreaName = payload.AreaName
	area.Description = payload.Description
	area.Capacity = payload.Capacity
	area.PricePerHour = payload.PricePerHour
	area.DiscountPercent = payload.DiscountPercent
	area.ImageURL = payload.ImageURL
	if payload.Status != "" {
		area.Status = payload.Status
	}

	if err := uc.DB.Save(&area).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "update_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, area)
}

func (uc *UnitController) DeleteArea(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	upcoming, err := uc.Availability.HasUpcoming(true, id)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "delete_failed")
		return
	}
	if upcoming {
		utils.JSONError(c, http.StatusConflict, "has_upcoming_bookings")
		return
	}

	result := uc.DB.Delete(&models.Area{}, id)
	if result.Error != nil {
		utils.JSONError(c, http.StatusInternalServerError, "delete_failed")
		return
	}
	if result.RowsAffected == 0 {
		utils.JSONError(c, http.StatusNotFound, "area_not_found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "area_deleted"})
}

// ---------------------------
// Amenities
// ---------------------------

func (uc *UnitController) ListAmenities(c *gin.Context) {
	var amenities []models.Amenity
	if err := uc.DB.Order("name").Find(&amenities).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "list_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, amenities)
}

type amenityPayload struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (uc *UnitController) CreateAmenity(c *gin.Context) {
	var payload amenityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload")
		return
	}
	amenity := models.Amenity{Name: payload.Name, Description: payload.Description}
	if err := uc.DB.Create(&amenity).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "create_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, amenity)
}

func (uc *UnitController) DeleteAmenity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	result := uc.DB.Delete(&models.Amenity{}, id)
	if result.Error != nil {
		utils.JSONError(c, http.StatusInternalServerError, "delete_failed")
		return
	}
	if result.RowsAffected == 0 {
		utils.JSONError(c, http.StatusNotFound, "amenity_not_found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "amenity_deleted"})
}

// ---------------------------
// Calendars
// ---------------------------

// RoomCalendar lists bookings touching a room, optionally windowed by
// start_date/end_date query params.
func (uc *UnitController) RoomCalendar(c *gin.Context) {
	uc.unitCalendar(c, false)
}

// AreaCalendar is RoomCalendar for venues.
func (uc *UnitController) AreaCalendar(c *gin.Context) {
	uc.unitCalendar(c, true)
}

func (uc *UnitController) unitCalendar(c *gin.Context, isVenue bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var start, end *time.Time
	if raw := c.Query("start_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid_start_date")
			return
		}
		start = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid_end_date")
			return
		}
		end = &t
	}

	entries, err := uc.Availability.UnitBookings(isVenue, id, start, end)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "calendar_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, entries)
}
