package routes

import (
	"log/slog"
	"slices"

	"crml-backend/config"
	"crml-backend/controllers"
	"crml-backend/repository"
	"crml-backend/services"
	"crml-backend/storage"
	"crml-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

type Options struct {
	AllowedOrigins []string
	AttachmentRoot string
	Logger         *slog.Logger
}

func SetupRouter(db *gorm.DB, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(utils.RequestID())
	r.Use(config.PerformanceLogger(opts.Logger))
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	customerRepo := repository.NewCustomerRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	motifRepo := repository.NewMotifRepository(db)

	attachmentService := services.NewAttachmentService(
		motifRepo, storage.NewAttachmentStore(opts.AttachmentRoot), opts.Logger)

	customerController := controllers.NewCustomerController(customerRepo)
	appointmentController := controllers.NewAppointmentController(appointmentRepo)
	motifController := controllers.NewMotifController(motifRepo, attachmentService)
	reminderController := controllers.NewReminderController(db)
	healthController := controllers.NewHealthController(db)

	r.GET("/healthz", healthController.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Customer routes
		customers := api.Group("/customer")
		{
			customers.GET("", customerController.GetCustomers)
			customers.GET("/:id", customerController.GetCustomer)
			customers.POST("", customerController.CreateCustomer)
			customers.PUT("/:id", customerController.UpdateCustomer)
			customers.DELETE("/:id", customerController.DeleteCustomer)
		}

		// Appointment routes, updates carry the id in the body
		appointments := api.Group("/appointment")
		{
			appointments.GET("", appointmentController.GetAppointments)
			appointments.GET("/:id", appointmentController.GetAppointment)
			appointments.POST("", appointmentController.CreateAppointment)
			appointments.PUT("", appointmentController.UpdateAppointment)
			appointments.DELETE("/:id", appointmentController.DeleteAppointment)
		}

		// Motif routes
		motifs := api.Group("/motif")
		{
			motifs.GET("", motifController.GetMotifs)
			motifs.GET("/:id", motifController.GetMotif)
			motifs.POST("", motifController.CreateMotif)
			motifs.PUT("", motifController.UpdateMotif)
			motifs.DELETE("/:id", motifController.DeleteMotif)

			motifs.GET("/attachment/:id/:filename", motifController.DownloadAttachment)
			motifs.POST("/attachment/:id", motifController.UploadAttachments)
			motifs.DELETE("/attachment/:id/:filename", motifController.DeleteAttachment)
		}

		// Reminder history, written by the reminder job
		api.GET("/reminder", reminderController.GetReminderLogs)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", utils.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", utils.RequestIDHeader},
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
