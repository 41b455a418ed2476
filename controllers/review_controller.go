// controllers/review_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resort-backend/middleware"
	"resort-backend/models"
	"resort-backend/services"
	"resort-backend/utils"
)

type ReviewController struct {
	Reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{Reviews: reviews}
}

type createReviewPayload struct {
	BookingID  uint   `json:"booking_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	ReviewText string `json:"review_text"`
}

// Create posts a review for a checked-out booking owned by the caller.
func (rc *ReviewController) Create(c *gin.Context) {
	var payload createReviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload")
		return
	}

	review, err := rc.Reviews.Create(middleware.CurrentUserID(c), payload.BookingID, payload.Rating, payload.ReviewText)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			utils.JSONError(c, http.StatusNotFound, "booking_not_found")
		case errors.Is(err, services.ErrForbidden):
			utils.JSONError(c, http.StatusForbidden, "forbidden")
		case errors.Is(err, services.ErrNotCheckedOut):
			utils.JSONError(c, http.StatusConflict, "booking_not_checked_out")
		case errors.Is(err, services.ErrAlreadyReviewed):
			utils.JSONError(c, http.StatusConflict, "already_reviewed")
		case errors.Is(err, services.ErrRatingOutOfRange):
			utils.JSONError(c, http.StatusBadRequest, "invalid_rating")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "create_failed")
		}
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, review)
}

type updateReviewPayload struct {
	Rating     int    `json:"rating" binding:"required"`
	ReviewText string `json:"review_text"`
}

// Update edits the caller's own review.
func (rc *ReviewController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	existing, err := rc.Reviews.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrReviewNotFound) {
			utils.JSONError(c, http.StatusNotFound, "review_not_found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "fetch_failed")
		return
	}
	if existing.UserID != middleware.CurrentUserID(c) {
		utils.JSONError(c, http.StatusForbidden, "forbidden")
		return
	}

	var payload updateReviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload")
		return
	}

	review, err := rc.Reviews.Update(id, payload.Rating, payload.ReviewText)
	if err != nil {
		if errors.Is(err, services.ErrRatingOutOfRange) {
			utils.JSONError(c, http.StatusBadRequest, "invalid_rating")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "update_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, review)
}

// Delete removes a review. Owners and staff may delete.
func (rc *ReviewController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	existing, err := rc.Reviews.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrReviewNotFound) {
			utils.JSONError(c, http.StatusNotFound, "review_not_found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "fetch_failed")
		return
	}

	role := c.GetString("role")
	if existing.UserID != middleware.CurrentUserID(c) && role == models.RoleGuest {
		utils.JSONError(c, http.StatusForbidden, "forbidden")
		return
	}

	if err := rc.Reviews.Delete(id); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "delete_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "review_deleted"})
}

// Mine lists the caller's reviews.
func (rc *ReviewController) Mine(c *gin.Context) {
	reviews, err := rc.Reviews.ListByUser(middleware.CurrentUserID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "list_failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reviews)
}

// ForRoom pages reviews for one room.
func (rc *ReviewController) ForRoom(c *gin.Context) {
	rc.forUnit(c, false)
}

// ForArea pages reviews for one venue.
func (rc *ReviewController) ForArea(c *gin.Context) {
	rc.forUnit(c, true)
}

func (rc *ReviewController) forUnit(c *gin.Context, isVenue bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 || pageSize > 50 {
		pageSize = 10
	}

	reviews, total, err := rc.Reviews.ListByUnit(isVenue, id, page, pageSize)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "list_failed")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"reviews":    reviews,
		"pagination": utils.NewPagination(total, page, pageSize),
	})
}
