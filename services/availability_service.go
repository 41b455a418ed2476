package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"resort-backend/models"
)

// CreationBlockStatuses are the booking statuses that block a new booking on
// the same unit at creation time. Unlike the availability search, pending
// bookings count here.
var CreationBlockStatuses = []string{
	models.StatusPending, models.StatusReserved, models.StatusConfirmed, models.StatusCheckedIn,
}

// AvailabilityService answers date-range availability questions. All overlap
// checks use the half-open predicate: [a,b) and [c,d) overlap iff a < d and
// c < b, so a booking checking out on a given day does not collide with one
// checking in the same day.
type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

// FindAvailable returns the rooms and areas free over [start, end). A unit
// is free when its static status is available and no active booking of the
// matching kind overlaps the range.
func (s *AvailabilityService) FindAvailable(start, end time.Time) ([]models.Room, []models.Area, error) {
	if !end.After(start) {
		return nil, nil, ErrInvalidRange
	}

	bookedRooms := s.DB.Model(&models.Booking{}).
		Select("room_id").
		Where("is_venue_booking = ?", false).
		Where("room_id IS NOT NULL").
		Where("status NOT IN ?", models.InactiveStatuses).
		Where("check_in_date < ? AND check_out_date > ?", end, start)

	var rooms []models.Room
	if err := s.DB.Preload("Amenities").
		Where("status = ?", models.UnitAvailable).
		Where("id NOT IN (?)", bookedRooms).
		Find(&rooms).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to query rooms: %w", err)
	}

	bookedAreas := s.DB.Model(&models.Booking{}).
		Select("area_id").
		Where("is_venue_booking = ?", true).
		Where("area_id IS NOT NULL").
		Where("status NOT IN ?", models.InactiveStatuses).
		Where("check_in_date < ? AND check_out_date > ?", end, start)

	var areas []models.Area
	if err := s.DB.
		Where("status = ?", models.UnitAvailable).
		Where("id NOT IN (?)", bookedAreas).
		Find(&areas).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to query areas: %w", err)
	}

	return rooms, areas, nil
}

// HasOverlap reports whether the unit has any booking in one of the given
// statuses overlapping [start, end). Used at creation time and as the admin
// edit guard before a unit is pulled from service.
func (s *AvailabilityService) HasOverlap(isVenue bool, unitID uint, start, end time.Time, statuses []string) (bool, error) {
	q := s.DB.Model(&models.Booking{}).
		Where("is_venue_booking = ?", isVenue).
		Where("status IN ?", statuses).
		Where("check_in_date < ? AND check_out_date > ?", end, start)
	if isVenue {
		q = q.Where("area_id = ?", unitID)
	} else {
		q = q.Where("room_id = ?", unitID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check overlap: %w", err)
	}
	return count > 0, nil
}

// HasUpcoming reports whether the unit holds any reserved, confirmed or
// checked-in booking at all, regardless of dates. Guards unit edits and
// deletion.
func (s *AvailabilityService) HasUpcoming(isVenue bool, unitID uint) (bool, error) {
	q := s.DB.Model(&models.Booking{}).
		Where("is_venue_booking = ?", isVenue).
		Where("status IN ?", models.OccupyingStatuses)
	if isVenue {
		q = q.Where("area_id = ?", unitID)
	} else {
		q = q.Where("room_id = ?", unitID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check upcoming bookings: %w", err)
	}
	return count > 0, nil
}

// UnitBookingEntry is one row of a unit's booking calendar.
type UnitBookingEntry struct {
	ID           uint      `json:"id"`
	CheckInDate  time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`
	Status       string    `json:"status"`
	StartTime    *string   `json:"start_time,omitempty"`
	EndTime      *string   `json:"end_time,omitempty"`
}

// UnitBookings lists a single unit's bookings, excluding cancelled and
// rejected ones, optionally narrowed to a closed date window.
func (s *AvailabilityService) UnitBookings(isVenue bool, unitID uint, start, end *time.Time) ([]UnitBookingEntry, error) {
	q := s.DB.Model(&models.Booking{}).
		Where("status NOT IN ?", []string{models.StatusCancelled, models.StatusRejected})
	if isVenue {
		q = q.Where("area_id = ?", unitID)
	} else {
		q = q.Where("room_id = ?", unitID)
	}
	if start != nil && end != nil {
		q = q.Where("check_in_date <= ? AND check_out_date >= ?", *end, *start)
	}

	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list unit bookings: %w", err)
	}

	entries := make([]UnitBookingEntry, 0, len(bookings))
	for _, b := range bookings {
		entry := UnitBookingEntry{
			ID:           b.ID,
			CheckInDate:  b.CheckInDate,
			CheckOutDate: b.CheckOutDate,
			Status:       b.Status,
		}
		if isVenue {
			entry.StartTime = b.StartTime
			entry.EndTime = b.EndTime
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
