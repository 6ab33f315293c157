package router

import (
	"time"

	"shoptrack/internal/config"
	"shoptrack/internal/handler"
	"shoptrack/internal/middleware"
	"shoptrack/internal/repository"
	"shoptrack/internal/service"
	"shoptrack/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// New wires repositories, services and handlers onto the gin engine.
// The dispatcher may be nil when the job queue is disabled.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(),
	)

	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)

	saleSvc := service.NewSaleService(saleRepo, productRepo, dispatcher)
	catalogSvc := service.NewCatalogService(productRepo, supplierRepo, categoryRepo)
	dashboardSvc := service.NewDashboardService(saleRepo, productRepo, categoryRepo, supplierRepo, employeeRepo, rdb)
	inventorySvc := service.NewInventoryService(productRepo)
	reportSvc := service.NewReportService(saleRepo)
	authSvc := service.NewAuthService(employeeRepo, cfg)

	sales := handler.NewSaleHandler(saleSvc)
	products := handler.NewProductHandler(catalogSvc)
	catalog := handler.NewCatalogHandler(catalogSvc)
	dashboard := handler.NewDashboardHandler(dashboardSvc, inventorySvc)
	reports := handler.NewReportHandler(reportSvc)
	auth := handler.NewAuthHandler(authSvc)
	health := handler.NewHealthHandler(db, rdb)

	r.GET("/healthz", health.Live)
	r.GET("/readyz", health.Ready)

	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/v1")
	v1.Use(middleware.RateLimit(rdb, "api", 300, time.Minute))
	{
		authGroup := v1.Group("/auth")
		authGroup.POST("/login", middleware.RateLimit(rdb, "login", 10, time.Minute), auth.Login)
		authGroup.POST("/refresh", auth.Refresh)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(cfg.JWTSecret))
		{
			protected.POST("/sales", sales.Create)
			protected.GET("/sales", sales.List)
			protected.GET("/sales/:id", sales.Get)
			protected.POST("/sales/:id/recalculate", middleware.RequireRole("manager"), sales.Recalculate)

			protected.GET("/products", products.List)
			protected.GET("/products/:id", products.Get)
			protected.POST("/products", middleware.RequireRole("manager"), products.Create)
			protected.PATCH("/products/:id", middleware.RequireRole("manager"), products.Update)

			protected.GET("/suppliers", catalog.ListSuppliers)
			protected.POST("/suppliers", middleware.RequireRole("manager"), catalog.CreateSupplier)
			protected.GET("/categories", catalog.ListCategories)
			protected.POST("/categories", middleware.RequireRole("manager"), catalog.CreateCategory)

			protected.GET("/dashboard", dashboard.Dashboard)
			protected.GET("/dashboard/inventory", dashboard.InventorySummary)
			protected.GET("/dashboard/profit-analytics", dashboard.ProfitAnalytics)
			protected.GET("/dashboard/activities", dashboard.RecentActivities)
			protected.GET("/reports/sales", middleware.RequireRole("manager"), reports.SalesReport)

			protected.GET("/employees", middleware.RequireRole("manager"), auth.ListEmployees)
			protected.POST("/employees", middleware.RequireRole("admin"), auth.CreateEmployee)
			protected.DELETE("/employees/:id", middleware.RequireRole("admin"), auth.DeactivateEmployee)
		}
	}
	return r
}
