package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"resort-backend/controllers"
	"resort-backend/middleware"
	"resort-backend/realtime"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Controllers bundles everything SetupRouter wires up.
type Controllers struct {
	Auth          *controllers.AuthController
	Bookings      *controllers.BookingController
	Units         *controllers.UnitController
	Admin         *controllers.AdminController
	Notifications *controllers.NotificationController
	Reviews       *controllers.ReviewController

	AdminSocket        *realtime.AdminSocket
	NotificationSocket *realtime.NotificationSocket
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())
	r.Static("/uploads", "./uploads")

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Websocket endpoints. The notification socket authenticates in-band
	// (or via ?token=), the admin feed is joined on connect.
	ws := r.Group("/ws")
	{
		ws.GET("/admin", gin.WrapH(ctrl.AdminSocket))
		ws.GET("/notifications", gin.WrapH(ctrl.NotificationSocket))
	}

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/otp", ctrl.Auth.RequestOTP)
			auth.POST("/register", ctrl.Auth.Register)
			auth.POST("/login", ctrl.Auth.Login)
			auth.POST("/reset-password", ctrl.Auth.ResetPassword)

			authed := auth.Group("", middleware.RequireAuth())
			{
				authed.GET("/me", ctrl.Auth.Me)
				authed.POST("/logout", ctrl.Auth.Logout)
				authed.POST("/change-password", ctrl.Auth.ChangePassword)
			}
		}

		// Public catalog
		rooms := api.Group("/rooms")
		{
			rooms.GET("", ctrl.Units.ListRooms)
			rooms.GET("/:id", ctrl.Units.GetRoom)
			rooms.GET("/:id/bookings", ctrl.Units.RoomCalendar)
			rooms.GET("/:id/reviews", ctrl.Reviews.ForRoom)
		}
		areas := api.Group("/areas")
		{
			areas.GET("", ctrl.Units.ListAreas)
			areas.GET("/:id", ctrl.Units.GetArea)
			areas.GET("/:id/bookings", ctrl.Units.AreaCalendar)
			areas.GET("/:id/reviews", ctrl.Reviews.ForArea)
		}
		api.GET("/amenities", ctrl.Units.ListAmenities)
		api.GET("/availability", ctrl.Bookings.Availability)

		// Guest endpoints
		bookings := api.Group("/bookings", middleware.RequireAuth())
		{
			bookings.POST("", ctrl.Bookings.Create)
			bookings.GET("/mine", ctrl.Bookings.MyBookings)
			bookings.GET("/:id", ctrl.Bookings.Detail)
			bookings.POST("/:id/cancel", ctrl.Bookings.Cancel)
		}

		notifications := api.Group("/notifications", middleware.RequireAuth())
		{
			notifications.GET("", ctrl.Notifications.List)
			notifications.PATCH("/:id/read", ctrl.Notifications.MarkRead)
			notifications.PATCH("/read-all", ctrl.Notifications.MarkAllRead)
		}

		reviews := api.Group("/reviews", middleware.RequireAuth())
		{
			reviews.POST("", ctrl.Reviews.Create)
			reviews.GET("/mine", ctrl.Reviews.Mine)
			reviews.PUT("/:id", ctrl.Reviews.Update)
			reviews.DELETE("/:id", ctrl.Reviews.Delete)
		}

		// Staff endpoints
		admin := api.Group("/admin", middleware.RequireAuth(), middleware.RequireStaff())
		{
			admin.GET("/dashboard", ctrl.Admin.Dashboard)
			admin.GET("/dashboard/status-counts", ctrl.Admin.StatusCounts)

			admin.GET("/bookings", ctrl.Admin.ListBookings)
			admin.PATCH("/bookings/:id/status", ctrl.Admin.UpdateStatus)
			admin.POST("/bookings/:id/payment", ctrl.Admin.RecordPayment)
			admin.DELETE("/bookings/:id", ctrl.Admin.DeleteBooking)

			admin.POST("/rooms", ctrl.Units.CreateRoom)
			admin.PUT("/rooms/:id", ctrl.Units.UpdateRoom)
			admin.DELETE("/rooms/:id", ctrl.Units.DeleteRoom)
			admin.POST("/areas", ctrl.Units.CreateArea)
			admin.PUT("/areas/:id", ctrl.Units.UpdateArea)
			admin.DELETE("/areas/:id", ctrl.Units.DeleteArea)
			admin.POST("/amenities", ctrl.Units.CreateAmenity)
			admin.DELETE("/amenities/:id", ctrl.Units.DeleteAmenity)

			admin.GET("/users", ctrl.Admin.ListGuests)
			admin.PATCH("/users/:id/approve-id", ctrl.Admin.ApproveValidID)
			admin.PATCH("/users/:id/reject-id", ctrl.Admin.RejectValidID)
			admin.PATCH("/users/:id/archive", ctrl.Admin.ArchiveUser)
		}
	}

	return r
}
