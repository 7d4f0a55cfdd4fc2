package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tripled/backend/internal/domain/identity"
	"github.com/tripled/backend/internal/infrastructure/auth"
	"github.com/tripled/backend/internal/infrastructure/logger"
	"github.com/tripled/backend/internal/interfaces/http/handler"
	"github.com/tripled/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the handlers wired into the router
type Handlers struct {
	System      *handler.SystemHandler
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Branch      *handler.BranchHandler
	Category    *handler.CategoryHandler
	Transaction *handler.TransactionHandler
	Allocation  *handler.AllocationHandler
	Realtor     *handler.RealtorHandler
	Sale        *handler.SaleHandler
	Commission  *handler.CommissionHandler
}

// Config holds router dependencies
type Config struct {
	Handlers       Handlers
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	Logger         *zap.Logger
}

// Role shorthands for route guards
var (
	admin      = string(identity.RoleAdmin)
	secretary  = string(identity.RoleSecretary)
	accountant = string(identity.RoleChiefAccountant)
	branchAdm  = string(identity.RoleBranchAdmin)
)

// New builds the gin engine with the full middleware stack and all
// API routes registered
func New(cfg Config) *gin.Engine {
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.SecurityHeaders())
	engine.Use(middleware.CORS(cfg.CORS))
	engine.Use(middleware.BodySizeLimit(cfg.MaxBodySize))
	engine.Use(middleware.JWTAuth(cfg.JWTService, cfg.TokenBlacklist, cfg.Logger))

	h := cfg.Handlers

	engine.GET("/health", h.System.Health)

	api := engine.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", h.Auth.Logout)
		authGroup.GET("/me", h.Auth.Me)
		authGroup.POST("/change-password", h.Auth.ChangePassword)
	}

	users := api.Group("/users", middleware.RequireRole(admin))
	{
		users.POST("", h.User.Create)
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/role", h.User.ChangeRole)
		users.POST("/:id/deactivate", h.User.Deactivate)
		users.POST("/:id/activate", h.User.Activate)
		users.POST("/:id/unlock", h.User.Unlock)
		users.POST("/:id/reset-password", h.User.ResetPassword)
		users.DELETE("/:id", h.User.Delete)
	}

	branches := api.Group("/branches")
	{
		branches.GET("", h.Branch.List)
		branches.GET("/:id", h.Branch.Get)
		branches.GET("/:id/balance", h.Branch.GetBalance)
		branches.POST("", middleware.RequireRole(admin), h.Branch.Create)
		branches.PUT("/:id", middleware.RequireRole(admin), h.Branch.Update)
		branches.POST("/:id/deactivate", middleware.RequireRole(admin), h.Branch.Deactivate)
		branches.DELETE("/:id", middleware.RequireRole(admin), h.Branch.Delete)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.GET("/:id", h.Category.Get)
		categories.POST("", middleware.RequireRole(admin, accountant), h.Category.Create)
		categories.PUT("/:id", middleware.RequireRole(admin, accountant), h.Category.Update)
		categories.POST("/:id/deactivate", middleware.RequireRole(admin, accountant), h.Category.Deactivate)
		categories.DELETE("/:id", middleware.RequireRole(admin), h.Category.Delete)
	}

	transactions := api.Group("/transactions")
	{
		transactions.GET("", h.Transaction.List)
		transactions.GET("/:id", h.Transaction.Get)
		transactions.POST("", middleware.RequireRole(admin, accountant, branchAdm), h.Transaction.Record)
		transactions.PUT("/:id", middleware.RequireRole(admin, accountant, branchAdm), h.Transaction.Update)
		transactions.DELETE("/:id", middleware.RequireRole(admin, accountant), h.Transaction.Delete)
	}

	allocations := api.Group("/allocations")
	{
		allocations.GET("", h.Allocation.List)
		allocations.GET("/:id", h.Allocation.Get)
		allocations.POST("", middleware.RequireRole(admin, accountant), h.Allocation.Allocate)
		allocations.POST("/:id/reverse", middleware.RequireRole(admin, accountant), h.Allocation.Reverse)
		allocations.DELETE("/:id", middleware.RequireRole(admin), h.Allocation.Delete)
	}

	realtors := api.Group("/realtors")
	{
		realtors.GET("", h.Realtor.List)
		realtors.GET("/:id", h.Realtor.Get)
		realtors.GET("/by-code/:code", h.Realtor.GetByCode)
		realtors.GET("/:id/downline", h.Realtor.Downline)
		realtors.GET("/:id/sales", h.Sale.ListByRealtor)
		realtors.GET("/:id/commissions/summary", h.Commission.Summary)
		realtors.POST("", middleware.RequireRole(admin, secretary), h.Realtor.Create)
		realtors.PUT("/:id/contact", middleware.RequireRole(admin, secretary), h.Realtor.UpdateContact)
		realtors.PUT("/:id/bank-details", middleware.RequireRole(admin, secretary), h.Realtor.UpdateBankDetails)
		realtors.PUT("/:id/sponsor", middleware.RequireRole(admin), h.Realtor.ChangeSponsor)
		realtors.POST("/:id/promote", middleware.RequireRole(admin), h.Realtor.Promote)
		realtors.POST("/:id/demote", middleware.RequireRole(admin), h.Realtor.Demote)
		realtors.POST("/:id/deactivate", middleware.RequireRole(admin), h.Realtor.Deactivate)
		realtors.POST("/:id/commissions/pay-all", middleware.RequireRole(admin, accountant), h.Commission.PayAll)
	}

	sales := api.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
		sales.GET("/by-reference/:reference", h.Sale.GetByReference)
		sales.GET("/:id/payments", h.Sale.ListPayments)
		sales.POST("", middleware.RequireRole(admin, secretary), h.Sale.Create)
		sales.POST("/:id/discount", middleware.RequireRole(admin, accountant), h.Sale.ApplyDiscount)
		sales.POST("/:id/payments", middleware.RequireRole(admin, secretary, accountant), h.Sale.RecordPayment)
	}

	commissions := api.Group("/commissions")
	{
		commissions.GET("", h.Commission.List)
		commissions.GET("/:id", h.Commission.Get)
		commissions.POST("/:id/pay", middleware.RequireRole(admin, accountant), h.Commission.MarkPaid)
	}

	return engine
}
