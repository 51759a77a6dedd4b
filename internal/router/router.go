package router

import (
	"fmt"
	"strings"

	"github.com/loyalty-next/internal/cache"
	"github.com/loyalty-next/internal/config"
	businesshandlers "github.com/loyalty-next/internal/http/handlers/business"
	customerhandlers "github.com/loyalty-next/internal/http/handlers/customer"
	"github.com/loyalty-next/internal/http/response"
	"github.com/loyalty-next/internal/logger"
	"github.com/loyalty-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	customerHandler := customerhandlers.New(c)
	businessHandler := businesshandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "lc"
	}
	redisClient := cache.Client()
	stampRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:stamp", redisPrefix),
		WindowSeconds: cfg.Security.StampRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.StampRateLimit.MaxAttempts,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/health", func(c *gin.Context) {
				response.Success(c, gin.H{"status": "ok"})
			})
		}

		// 客户接口（需鉴权）
		me := apiV1.Group("/me")
		me.Use(CustomerJWTAuthMiddleware(cfg.CustomerJWT.SecretKey, c.UserRepo))
		{
			me.POST("/cards", customerHandler.JoinCard)
			me.GET("/cards", customerHandler.ListCards)
			me.GET("/cards/:id", customerHandler.GetCard)
			me.DELETE("/cards/:id", customerHandler.DeleteCard)
			me.GET("/discovery", customerHandler.Discovery)
			me.GET("/stats", customerHandler.Stats)
		}

		// 商家接口（需商家鉴权）
		biz := apiV1.Group("/business")
		biz.Use(OwnerJWTAuthMiddleware(cfg.BusinessJWT.SecretKey, c.UserRepo))
		{
			biz.POST("/businesses", businessHandler.CreateBusiness)
			biz.PUT("/businesses/:id", businessHandler.UpdateBusiness)
			biz.GET("/businesses", businessHandler.ListBusinesses)
			biz.POST("/programs", businessHandler.CreateProgram)
			biz.PUT("/programs/:id", businessHandler.UpdateProgram)
			biz.GET("/programs", businessHandler.ListPrograms)
			biz.DELETE("/programs/:id", businessHandler.DeleteProgram)
			biz.GET("/memberships", businessHandler.ListMemberships)
			biz.POST("/stamps", RateLimitMiddleware(redisClient, stampRule, KeyByIPAndJSONField("card_code")), businessHandler.AddStamp)
			biz.POST("/claims", RateLimitMiddleware(redisClient, stampRule, KeyByIPAndJSONField("card_code")), businessHandler.ClaimReward)
			biz.GET("/activity", businessHandler.ListActivity)
			biz.GET("/rewards", businessHandler.ListRewards)
		}
	}

	return r
}
