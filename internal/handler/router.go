package handler

import (
	"fitledger/internal/config"
	"fitledger/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// SetupRouter wires middleware and routes.
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	h := NewHandler(db, rdb, cfg)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(JWTAuthMiddleware(cfg.Auth.JWTSecret))
	{
		bookings := api.Group("/bookings")
		{
			bookings.POST("/:id/checkin", h.Checkin)
		}

		admin := api.Group("/admin/credits")
		admin.Use(RequireRole(model.RoleFranquia, model.RoleFranqueadora, model.RoleAdmin, model.RoleSuperAdmin))
		{
			admin.POST("/grant", h.GrantCredit)
			admin.GET("/search-user", h.SearchUser)
		}

		account := api.Group("/account")
		{
			account.GET("/professor/balance", h.GetProfessorBalance)
			account.GET("/student/balance", h.GetStudentBalance)
		}

		ledger := api.Group("/ledger")
		{
			ledger.GET("/transactions", h.ListTransactions)
		}
	}

	return r
}
