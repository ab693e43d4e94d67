package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rental-backend/controllers"
	"rental-backend/middleware"
	"rental-backend/models"
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

// SetupRouter wires controller instances into the route tree.
func SetupRouter(
	uc *controllers.UserController,
	lc *controllers.ListingController,
	bc *controllers.BookingController,
	pc *controllers.PaymentController,
	rc *controllers.ReviewController,
	kc *controllers.KYCController,
	mc *controllers.MessageController,
	ac *controllers.AdminController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(), middleware.Metrics())

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
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		user := api.Group("/user")
		{
			user.POST("/send-otp", uc.SendOTP)
			user.POST("/verify-otp", uc.VerifyOTP)
			user.POST("/register", uc.VerifyOTP) // alias, same OTP-completing flow
			user.POST("/login", uc.Login)
			user.POST("/forgot-password", uc.ForgotPassword)
			user.POST("/reset-password/:token", uc.ResetPassword)

			authed := user.Group("", middleware.Protect())
			{
				authed.POST("/logout", uc.Logout)
				authed.GET("/me", uc.Me)
				authed.PUT("/update", uc.Update)
				authed.DELETE("/delete", uc.Delete)
			}
		}

		listings := api.Group("/listings")
		{
			listings.GET("/all", lc.GetAll)

			authed := listings.Group("", middleware.Protect())
			{
				authed.GET("/get", lc.ListOwn)
				authed.GET("/search", lc.Search)
				authed.GET("/nearby", lc.Nearby)
				authed.POST("/create", lc.Create)
				authed.PUT("/update/:id", lc.Update)
				authed.DELETE("/delete/:id", lc.Delete)
			}

			// numeric id last so /all, /get etc. do not collide
			listings.GET("/:id", lc.GetByID)
		}

		bookings := api.Group("/bookings", middleware.Protect())
		{
			bookings.POST("/createBooking", bc.Create)
			bookings.PUT("/updateBooking/:id", bc.Update)
			bookings.GET("/getBookingByUser", bc.ListForUser)
			bookings.GET("/landlord/bookings", bc.ListForLandlord)
			bookings.GET("/checkStatus", bc.CheckStatus)
			bookings.GET("/get/:id", bc.GetByID)
			bookings.GET("/allBookings", middleware.RequireRole(models.RoleAdmin), bc.GetAll)
			bookings.DELETE("/deleteBooking/:id", middleware.RequireRole(models.RoleAdmin), bc.Delete)
		}

		payments := api.Group("/payments")
		{
			payments.GET("/paypal/success", pc.PayPalSuccess)
			payments.GET("/paypal/cancel", pc.PayPalCancel)

			authed := payments.Group("", middleware.Protect())
			{
				authed.POST("/stripe", pc.Stripe)
				authed.POST("/stripe/verify", pc.StripeVerify)
				authed.POST("/razorpay", pc.Razorpay)
				authed.POST("/razorpay/verify", pc.RazorpayVerify)
				authed.POST("/paypal", pc.PayPal)
				authed.GET("/landlord/revenue", pc.LandlordRevenue)
			}
		}

		reviews := api.Group("/reviews")
		{
			reviews.GET("/:listingId", rc.ListForListing)

			authed := reviews.Group("", middleware.Protect())
			{
				authed.GET("", rc.ListOwn)
				authed.POST("", rc.Create)
				authed.DELETE("/:reviewId", rc.Delete)
			}
		}

		messages := api.Group("/messages", middleware.Protect())
		{
			messages.POST("/sendMessage/:id", mc.Send)
			messages.GET("/:id", mc.Conversation)
		}

		kyc := api.Group("/kyc", middleware.Protect())
		{
			kyc.POST("/application", kc.Submit)
			kyc.GET("/status", kc.Status)
			kyc.PUT("/:id/verify", middleware.RequireRole(models.RoleAdmin), kc.Review)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/login", uc.Login)

			authed := admin.Group("", middleware.Protect(), middleware.RequireRole(models.RoleAdmin))
			{
				authed.POST("/create", ac.Create)
				authed.GET("/stats", ac.Stats)
				authed.GET("/users", ac.ListUsers)
				authed.PUT("/users/:id/role", ac.SetUserRole)
				authed.DELETE("/users/:id", ac.DeleteUser)
				authed.GET("/listings", ac.ListListings)
				authed.PUT("/listings/:id/status", ac.SetListingStatus)
				authed.GET("/bookings", ac.ListBookings)
				authed.PUT("/bookings/:id/status", ac.SetBookingStatus)
				authed.GET("/payments", ac.ListPayments)
				authed.GET("/kyc", kc.ListPending)
				authed.PUT("/kyc/:id/verify", kc.Review)
				authed.POST("/payouts", ac.CreatePayout)
				authed.GET("/payouts", ac.ListPayouts)
			}
		}
	}

	return r
}
