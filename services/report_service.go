package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"resort-backend/models"
)

// ReportService computes the admin dashboard aggregates. Everything here is
// read-only.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

// DashboardStats is the month-scoped overview panel.
type DashboardStats struct {
	TotalRooms           int64   `json:"total_rooms"`
	AvailableRooms       int64   `json:"available_rooms"`
	OccupiedRooms        int64   `json:"occupied_rooms"`
	MaintenanceRooms     int64   `json:"maintenance_rooms"`
	ActiveBookings       int64   `json:"active_bookings"`
	PendingBookings      int64   `json:"pending_bookings"`
	UnpaidBookings       int64   `json:"unpaid_bookings"`
	CheckedInCount       int64   `json:"checked_in_count"`
	TotalBookings        int64   `json:"total_bookings"`
	UpcomingReservations int64   `json:"upcoming_reservations"`
	Revenue              float64 `json:"revenue"`
	RoomRevenue          float64 `json:"room_revenue"`
	VenueRevenue         float64 `json:"venue_revenue"`
	FormattedRevenue     string  `json:"formatted_revenue"`
	Month                int     `json:"month"`
	Year                 int     `json:"year"`
}

// monthWindow returns the inclusive bounds of a calendar month.
func monthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}

// Dashboard assembles the stats for one month.
func (s *ReportService) Dashboard(year, month int) (DashboardStats, error) {
	start, end := monthWindow(year, month)
	stats := DashboardStats{Month: month, Year: year}

	if err := s.DB.Model(&models.Room{}).Count(&stats.TotalRooms).Error; err != nil {
		return stats, fmt.Errorf("failed to count rooms: %w", err)
	}

	checkedInRooms := s.DB.Model(&models.Booking{}).
		Select("room_id").
		Where("status = ? AND is_venue_booking = ?", models.StatusCheckedIn, false).
		Where("room_id IS NOT NULL").
		Where("check_in_date <= ? AND check_out_date >= ?", end, start)

	if err := s.DB.Model(&models.Room{}).
		Where("status = ?", models.UnitAvailable).
		Where("id NOT IN (?)", checkedInRooms).
		Count(&stats.AvailableRooms).Error; err != nil {
		return stats, fmt.Errorf("failed to count available rooms: %w", err)
	}

	if err := s.DB.Model(&models.Booking{}).
		Where("status = ? AND is_venue_booking = ?", models.StatusCheckedIn, false).
		Where("check_in_date <= ? AND check_out_date >= ?", end, start).
		Count(&stats.OccupiedRooms).Error; err != nil {
		return stats, fmt.Errorf("failed to count occupied rooms: %w", err)
	}

	if err := s.DB.Model(&models.Room{}).
		Where("status = ?", models.UnitMaintenance).
		Count(&stats.MaintenanceRooms).Error; err != nil {
		return stats, fmt.Errorf("failed to count maintenance rooms: %w", err)
	}

	created := "created_at BETWEEN ? AND ?"
	if err := s.DB.Model(&models.Booking{}).
		Where("status IN ?", models.OccupyingStatuses).
		Where(created, start, end).
		Count(&stats.ActiveBookings).Error; err != nil {
		return stats, fmt.Errorf("failed to count active bookings: %w", err)
	}
	if err := s.DB.Model(&models.Booking{}).
		Where("status = ?", models.StatusPending).
		Where(created, start, end).
		Count(&stats.PendingBookings).Error; err != nil {
		return stats, fmt.Errorf("failed to count pending bookings: %w", err)
	}
	if err := s.DB.Model(&models.Booking{}).
		Where("payment_status = ?", models.PaymentUnpaid).
		Where(created, start, end).
		Count(&stats.UnpaidBookings).Error; err != nil {
		return stats, fmt.Errorf("failed to count unpaid bookings: %w", err)
	}
	if err := s.DB.Model(&models.Booking{}).
		Where("status = ?", models.StatusCheckedIn).
		Where("check_in_date BETWEEN ? AND ?", start, end).
		Count(&stats.CheckedInCount).Error; err != nil {
		return stats, fmt.Errorf("failed to count check-ins: %w", err)
	}
	if err := s.DB.Model(&models.Booking{}).
		Where(created, start, end).
		Count(&stats.TotalBookings).Error; err != nil {
		return stats, fmt.Errorf("failed to count bookings: %w", err)
	}
	if err := s.DB.Model(&models.Booking{}).
		Where("is_venue_booking = ?", true).
		Where("status IN ?", []string{models.StatusConfirmed, models.StatusReserved}).
		Where("check_in_date >= ?", start).
		Count(&stats.UpcomingReservations).Error; err != nil {
		return stats, fmt.Errorf("failed to count upcoming reservations: %w", err)
	}

	completed := s.DB.Model(&models.Transaction{}).
		Where("transactions.status = ?", models.TxnCompleted).
		Where("transaction_date BETWEEN ? AND ?", start, end)

	if err := completed.Session(&gorm.Session{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.Revenue).Error; err != nil {
		return stats, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if err := completed.Session(&gorm.Session{}).
		Joins("JOIN bookings ON bookings.id = transactions.booking_id").
		Where("bookings.is_venue_booking = ?", false).
		Select("COALESCE(SUM(transactions.amount), 0)").
		Scan(&stats.RoomRevenue).Error; err != nil {
		return stats, fmt.Errorf("failed to sum room revenue: %w", err)
	}
	if err := completed.Session(&gorm.Session{}).
		Joins("JOIN bookings ON bookings.id = transactions.booking_id").
		Where("bookings.is_venue_booking = ?", true).
		Select("COALESCE(SUM(transactions.amount), 0)").
		Scan(&stats.VenueRevenue).Error; err != nil {
		return stats, fmt.Errorf("failed to sum venue revenue: %w", err)
	}

	stats.FormattedRevenue = fmt.Sprintf("₱%.2f", stats.Revenue)
	return stats, nil
}

// StatusCounts buckets the month's bookings by status for the dashboard
// chart.
func (s *ReportService) StatusCounts(year, month int) (map[string]int64, error) {
	start, end := monthWindow(year, month)

	counts := make(map[string]int64, len(models.ValidStatuses))
	for _, status := range models.ValidStatuses {
		if status == models.StatusConfirmed {
			// The chart tracks the seven operational buckets; confirmed
			// bookings surface through the active count instead.
			continue
		}
		var count int64
		err := s.DB.Model(&models.Booking{}).
			Where("status = ?", status).
			Where("created_at BETWEEN ? AND ?", start, end).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count %s bookings: %w", status, err)
		}
		counts[status] = count
	}
	return counts, nil
}
