package v1

import (
	"net/http"
	"time"

	"go-jobmatch-backend/config"
	"go-jobmatch-backend/internal/delivery/http/middleware"
	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/internal/usecase"
	"go-jobmatch-backend/pkg/audit"
	"go-jobmatch-backend/pkg/auth"
	"go-jobmatch-backend/pkg/resume"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	JobUC        domain.JobUsecase
	MatchUC      domain.MatchUsecase
	ProfileUC    domain.ProfileUsecase
	ResumeUC     domain.ResumeUsecase
	AdminUC      domain.AdminUsecase
	HealthUC     usecase.HealthUsecase
	Roles        middleware.RoleSource
	RateLimiter  *middleware.RateLimiter
	Audit        *audit.Logger
	JWKSProvider *auth.Provider
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	// Handlers pass *gin.Context as context.Context; let it carry the request's cancellation
	r.ContextWithFallback = true
	r.MaxMultipartMemory = resume.MaxFileSize + 1<<20

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second

	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // must run before anything can abort
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(deps.RateLimiter.Middleware(middleware.GlobalRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		status, ok := deps.HealthUC.Check(c)
		if !ok {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	protected := v1.Group("")
	protected.Use(middleware.CSRFMiddleware())
	protected.Use(middleware.AuthMiddleware(deps.JWKSProvider, deps.Config, deps.Roles))
	{
		NewJobHandler(protected, deps.JobUC)
		NewMatchHandler(protected, deps.MatchUC)
		NewProfileHandler(protected, deps.ProfileUC)
		NewResumeHandler(protected, deps.ResumeUC,
			deps.RateLimiter.Middleware(middleware.UploadRateLimitConfig(deps.Config.RateLimitUploadThreshold, window)))
		NewAdminHandler(protected, deps.AdminUC,
			middleware.AdminOnly(deps.Audit),
			deps.RateLimiter.Middleware(middleware.AdminActionRateLimitConfig()))
	}

	return r
}
