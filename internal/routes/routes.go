package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/garage-manager/internal/audit"
	"github.com/BruksfildServices01/garage-manager/internal/cache"
	"github.com/BruksfildServices01/garage-manager/internal/config"
	"github.com/BruksfildServices01/garage-manager/internal/handlers"
	infraRepo "github.com/BruksfildServices01/garage-manager/internal/infra/repository"
	"github.com/BruksfildServices01/garage-manager/internal/middleware"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/payments"
	"github.com/BruksfildServices01/garage-manager/internal/storage"
	ucDashboard "github.com/BruksfildServices01/garage-manager/internal/usecase/dashboard"
	ucPhoto "github.com/BruksfildServices01/garage-manager/internal/usecase/photo"
	ucService "github.com/BruksfildServices01/garage-manager/internal/usecase/service"
	ucVehicle "github.com/BruksfildServices01/garage-manager/internal/usecase/vehicle"
)

// Deps are the process-wide singletons built by the serve command.
// Notifier stays nil when push is not configured.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    *logrus.Logger
	Cache  cache.Cache
	Audit  audit.Recorder

	Notifier      handlers.PushNotifier
	PushPublicKey string

	Photos  storage.ObjectStore
	Gateway payments.PixGateway
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	serviceRepo := infraRepo.NewServiceGormRepository(d.DB)
	vehicleRepo := infraRepo.NewVehicleGormRepository(d.DB)
	dashboardRepo := infraRepo.NewDashboardGormRepository(d.DB)
	pushRepo := infraRepo.NewPushGormRepository(d.DB)
	userRepo := infraRepo.NewUserGormRepository(d.DB)

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	serviceDeps := ucService.Deps{
		Repo:           serviceRepo,
		Audit:          d.Audit,
		Cache:          d.Cache,
		Log:            d.Log,
		ReminderOffset: cfg.ReminderOffset,
	}

	deleteVehicleUC := ucVehicle.NewDeleteVehicle(vehicleRepo, d.Audit, d.Cache, d.Log)
	dashboardUC := ucDashboard.NewDashboard(dashboardRepo, d.Cache, cfg.DashboardCacheTTL, d.Log)
	photosUC := ucPhoto.NewPhotos(serviceRepo, d.Photos, d.Audit, d.Log)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(d.DB, d.Cache)
	authHandler := handlers.NewAuthHandler(d.DB, cfg, d.Audit)
	meHandler := handlers.NewMeHandler(d.DB)

	customerHandler := handlers.NewCustomerHandler(d.DB, d.Audit, d.Cache, d.Log)
	vehicleHandler := handlers.NewVehicleHandler(d.DB, d.Audit, d.Cache, deleteVehicleUC, d.Log)
	serviceTypeHandler := handlers.NewServiceTypeHandler(d.DB, d.Audit)

	serviceHandler := handlers.NewServiceHandler(serviceDeps)
	paymentHandler := handlers.NewPaymentHandler(serviceDeps, d.Gateway)
	photoHandler := handlers.NewPhotoHandler(photosUC)

	dashboardHandler := handlers.NewDashboardHandler(dashboardUC, userRepo)
	pushHandler := handlers.NewPushHandler(pushRepo, d.Notifier, d.PushPublicKey)

	userHandler := handlers.NewUserHandler(d.DB, d.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	can := func(name string) gin.HandlerFunc {
		return middleware.RequirePermission(userRepo, name)
	}

	r.GET("/health", healthHandler.Check)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// CUSTOMERS / VEHICLES
			// ------------------------------
			secured.GET("/customers", customerHandler.List)
			secured.GET("/customers/:id", customerHandler.Get)
			secured.POST("/customers", can("customers.write"), customerHandler.Create)
			secured.PUT("/customers/:id", can("customers.write"), customerHandler.Update)
			secured.DELETE("/customers/:id", can("customers.write"), customerHandler.Delete)

			secured.GET("/vehicles", vehicleHandler.List)
			secured.GET("/vehicles/:id", vehicleHandler.Get)
			secured.POST("/vehicles", can("customers.write"), vehicleHandler.Create)
			secured.PUT("/vehicles/:id", can("customers.write"), vehicleHandler.Update)
			secured.DELETE("/vehicles/:id", can("customers.write"), vehicleHandler.Delete)

			// ------------------------------
			// CATALOG
			// ------------------------------
			secured.GET("/service-types", serviceTypeHandler.List)
			secured.POST("/service-types", can("service_types.write"), serviceTypeHandler.Create)
			secured.PUT("/service-types/:id", can("service_types.write"), serviceTypeHandler.Update)
			secured.DELETE("/service-types/:id", can("service_types.write"), serviceTypeHandler.Delete)

			// ------------------------------
			// SERVICES
			// ------------------------------
			secured.GET("/services", serviceHandler.List)
			secured.GET("/services/:id", serviceHandler.Get)
			secured.POST("/services", can("services.write"), serviceHandler.Create)
			secured.PUT("/services/:id", can("services.write"), serviceHandler.Update)
			secured.PATCH("/services/:id/start", can("services.write"), serviceHandler.Start)
			secured.PATCH("/services/:id/complete", can("services.write"), serviceHandler.Complete)
			secured.PATCH("/services/:id/cancel", can("services.write"), serviceHandler.Cancel)
			secured.DELETE("/services/:id", can("services.delete"), serviceHandler.Delete)

			// ------------------------------
			// PAYMENTS
			// ------------------------------
			secured.GET("/services/:id/payments", paymentHandler.List)
			secured.POST("/services/:id/payments", can("payments.write"), paymentHandler.Register)
			secured.DELETE("/services/:id/payments/:paymentId", can("payments.write"), paymentHandler.Delete)
			secured.POST("/services/:id/pix", can("payments.write"), paymentHandler.CreatePix)
			secured.POST("/services/:id/payments/:paymentId/pix/refresh", can("payments.write"), paymentHandler.RefreshPix)

			// ------------------------------
			// PHOTOS
			// ------------------------------
			secured.GET("/services/:id/photos", photoHandler.List)
			secured.POST("/services/:id/photos", can("services.write"), photoHandler.Upload)
			secured.DELETE("/services/:id/photos/:photoId", can("services.write"), photoHandler.Delete)

			// ------------------------------
			// DASHBOARD
			// ------------------------------
			dash := secured.Group("/dashboard")
			{
				dash.GET("/stats", dashboardHandler.Stats)
				dash.GET("/revenue", dashboardHandler.Revenue)
				dash.GET("/top-services", dashboardHandler.TopServices)
				dash.GET("/recent-services", dashboardHandler.RecentServices)
				dash.GET("/upcoming-appointments", dashboardHandler.UpcomingAppointments)
				dash.GET("/customers", dashboardHandler.Customers)
				dash.GET("/vehicles", dashboardHandler.Vehicles)
			}

			// ------------------------------
			// PUSH
			// ------------------------------
			push := secured.Group("/push")
			{
				push.GET("/vapid-key", pushHandler.VapidKey)
				push.POST("/subscribe", pushHandler.Subscribe)
				push.POST("/unsubscribe", pushHandler.Unsubscribe)
				push.POST("/test", pushHandler.Test)
			}

			// ------------------------------
			// 🛡️ ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", userHandler.List)
				admin.POST("/users", userHandler.Create)
				admin.PUT("/users/:id", userHandler.Update)
				admin.DELETE("/users/:id", userHandler.Delete)
				admin.PUT("/users/:id/permissions", userHandler.SetPermissions)
				admin.GET("/permissions", userHandler.ListPermissions)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
