package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"resort-backend/models"
)

// ReviewService handles guest reviews. A review is only accepted for a
// checked-out booking and each guest reviews a booking at most once.
type ReviewService struct {
	DB *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{DB: db}
}

func (s *ReviewService) Create(userID, bookingID uint, rating int, text string) (models.Review, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Review{}, ErrBookingNotFound
		}
		return models.Review{}, fmt.Errorf("failed to find booking: %w", err)
	}

	if booking.UserID != userID {
		return models.Review{}, ErrForbidden
	}
	if booking.Status != models.StatusCheckedOut {
		return models.Review{}, ErrNotCheckedOut
	}
	if rating < 1 || rating > 5 {
		return models.Review{}, ErrRatingOutOfRange
	}

	var existing int64
	if err := s.DB.Model(&models.Review{}).
		Where("booking_id = ? AND user_id = ?", bookingID, userID).
		Count(&existing).Error; err != nil {
		return models.Review{}, fmt.Errorf("failed to check existing review: %w", err)
	}
	if existing > 0 {
		return models.Review{}, ErrAlreadyReviewed
	}

	review := models.Review{
		UserID:     userID,
		BookingID:  &bookingID,
		Rating:     rating,
		ReviewText: text,
	}
	if booking.IsVenueBooking {
		review.AreaID = booking.AreaID
	} else {
		review.RoomID = booking.RoomID
	}

	if err := s.DB.Create(&review).Error; err != nil {
		return models.Review{}, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

func (s *ReviewService) Get(reviewID uint) (models.Review, error) {
	var review models.Review
	if err := s.DB.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Review{}, ErrReviewNotFound
		}
		return models.Review{}, fmt.Errorf("failed to find review: %w", err)
	}
	return review, nil
}

// Update edits rating and text; ownership is checked by the caller.
func (s *ReviewService) Update(reviewID uint, rating int, text string) (models.Review, error) {
	review, err := s.Get(reviewID)
	if err != nil {
		return models.Review{}, err
	}
	if rating != 0 {
		if rating < 1 || rating > 5 {
			return models.Review{}, ErrRatingOutOfRange
		}
		review.Rating = rating
	}
	if text != "" {
		review.ReviewText = text
	}
	if err := s.DB.Save(&review).Error; err != nil {
		return models.Review{}, fmt.Errorf("failed to update review: %w", err)
	}
	return review, nil
}

func (s *ReviewService) Delete(reviewID uint) error {
	res := s.DB.Delete(&models.Review{}, reviewID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (s *ReviewService) ListByUser(userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) ListByBooking(bookingID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.DB.Where("booking_id = ?", bookingID).Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// ListByUnit pages reviews for one room or area, newest first.
func (s *ReviewService) ListByUnit(isVenue bool, unitID uint, page, pageSize int) ([]models.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	column := "room_id"
	if isVenue {
		column = "area_id"
	}
	base := s.DB.Model(&models.Review{}).Where(column+" = ?", unitID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	var reviews []models.Review
	err := base.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}
