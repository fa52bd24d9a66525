package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/aladdinbruv/docproche-sub000/config"
	"github.com/aladdinbruv/docproche-sub000/handlers"
	"github.com/aladdinbruv/docproche-sub000/middleware"
	"github.com/aladdinbruv/docproche-sub000/models"
)

// Services groups what the HTTP API is built from.
type Services struct {
	Auth          handlers.AuthService
	Profiles      handlers.ProfileService
	Doctors       handlers.DoctorDirectory
	TimeSlots     handlers.TimeSlotService
	Appointments  handlers.AppointmentService
	Prescriptions handlers.PrescriptionService
	HealthRecords handlers.HealthRecordService
	Messages      handlers.MessageService
	Payments      handlers.PaymentService
	Video         handlers.VideoService
	Admin         handlers.AdminService
}

type Middleware struct {
	Tokens  middleware.TokenParser
	Limiter *middleware.RateLimiter
	Metrics *middleware.Metrics
}

func SetupRoutes(router *gin.Engine, cfg *config.Config, svc Services, mw Middleware) {
	authHandler := handlers.NewAuthHandler(svc.Auth, cfg)
	profileHandler := handlers.NewProfileHandler(svc.Profiles)
	doctorHandler := handlers.NewDoctorHandler(svc.Doctors)
	slotHandler := handlers.NewTimeSlotHandler(svc.TimeSlots)
	appointmentHandler := handlers.NewAppointmentHandler(svc.Appointments)
	prescriptionHandler := handlers.NewPrescriptionHandler(svc.Prescriptions)
	recordHandler := handlers.NewHealthRecordHandler(svc.HealthRecords)
	messageHandler := handlers.NewMessageHandler(svc.Messages)
	paymentHandler := handlers.NewPaymentHandler(svc.Payments)
	videoHandler := handlers.NewVideoHandler(svc.Video)
	adminHandler := handlers.NewAdminHandler(svc.Admin, svc.Appointments)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"success": true,
			"message": "Server is running",
		})
	})
	if mw.Metrics != nil {
		router.GET("/metrics", gin.WrapH(mw.Metrics.Handler()))
	}

	requireAuth := middleware.AuthMiddleware(mw.Tokens)
	doctorOnly := middleware.RoleMiddleware(models.RoleDoctor)
	patientOnly := middleware.RoleMiddleware(models.RolePatient)
	adminOnly := middleware.RoleMiddleware(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		if mw.Limiter != nil {
			auth.Use(mw.Limiter.Middleware())
		}
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/request-otp", authHandler.RequestOTP)
			auth.POST("/verify-otp", authHandler.VerifyOTP)
			auth.POST("/logout", requireAuth, authHandler.Logout)
		}

		// Public routes - doctor directory and slots
		v1.GET("/doctors", doctorHandler.GetDoctors)
		v1.GET("/doctors/:id", doctorHandler.GetDoctorByID)
		v1.GET("/timeslots", slotHandler.GetTimeSlots)
		v1.GET("/timeslots/available", slotHandler.GetAvailableSlots)

		protected := v1.Group("")
		protected.Use(requireAuth)
		{
			protected.GET("/profile", profileHandler.GetProfile)
			protected.PUT("/profile", profileHandler.UpdateProfile)
			protected.PUT("/profile/doctor", doctorOnly, profileHandler.UpdateDoctorProfile)
			protected.POST("/profile/avatar", profileHandler.UploadAvatar)

			slots := protected.Group("/timeslots")
			slots.Use(doctorOnly)
			{
				slots.POST("/generate", slotHandler.GenerateSlots)
				slots.PATCH("/:id", slotHandler.UpdateTimeSlot)
				slots.DELETE("/:id", slotHandler.DeleteTimeSlot)
			}

			appointments := protected.Group("/appointments")
			{
				appointments.POST("", patientOnly, appointmentHandler.CreateAppointment)
				appointments.GET("", appointmentHandler.GetAppointments)
				appointments.GET("/:id", appointmentHandler.GetAppointmentByID)
				appointments.PATCH("/:id/status", appointmentHandler.UpdateStatus)
				appointments.PUT("/:id/reschedule", patientOnly, appointmentHandler.Reschedule)
			}
			protected.GET("/doctor/dashboard", doctorOnly, appointmentHandler.GetDashboard)

			prescriptions := protected.Group("/prescriptions")
			{
				prescriptions.POST("", doctorOnly, prescriptionHandler.CreatePrescription)
				prescriptions.GET("", prescriptionHandler.GetPrescriptions)
				prescriptions.GET("/:id", prescriptionHandler.GetPrescriptionByID)
				prescriptions.PATCH("/:id/status", doctorOnly, prescriptionHandler.UpdateStatus)
				prescriptions.GET("/:id/pdf", prescriptionHandler.DownloadPDF)
			}

			records := protected.Group("/health-records")
			{
				records.POST("", recordHandler.CreateRecord)
				records.GET("", recordHandler.GetRecords)
				records.GET("/:id", recordHandler.GetRecordByID)
				records.DELETE("/:id", recordHandler.DeleteRecord)
				records.POST("/:id/file", recordHandler.UploadFile)
				records.GET("/:id/file", recordHandler.GetFileURL)
			}

			messages := protected.Group("/messages")
			{
				messages.POST("", messageHandler.SendMessage)
				messages.GET("/conversations", messageHandler.GetConversations)
				messages.GET("/unread-count", messageHandler.GetUnreadCount)
				messages.GET("/:user_id", messageHandler.GetThread)
				messages.POST("/:user_id/read", messageHandler.MarkRead)
			}

			payments := protected.Group("/payments")
			{
				payments.POST("/order", patientOnly, paymentHandler.CreateOrder)
				payments.POST("/verify", paymentHandler.VerifyPayment)
				payments.GET("", paymentHandler.GetPayments)
			}

			protected.POST("/video/token", videoHandler.CreateToken)

			admin := protected.Group("/admin")
			admin.Use(adminOnly)
			{
				admin.GET("/users", adminHandler.GetAllUsers)
				admin.PATCH("/users/:id/status", adminHandler.UpdateUserStatus)
				admin.GET("/appointments", adminHandler.GetAllAppointments)
			}
		}
	}
}
