package route

import (
	"pixvault/backend/api/handler"
	"pixvault/backend/api/middleware"

	"github.com/gin-gonic/gin"
)

func SetApiRouter(route *gin.Engine) {
	apiRouter := route.Group("/api")
	apiRouter.Use(middleware.GzipDecodeMiddleware())
	apiRouter.Use(middleware.GzipEncodeMiddleware())
	apiRouter.Use(middleware.GlobalAPIRateLimit())
	{
		// Authentication routes
		authRoutes := apiRouter.Group("/auth")
		{
			authRoutes.POST("/register", middleware.CriticalRateLimit(), handler.Register)
			authRoutes.POST("/login", middleware.CriticalRateLimit(), handler.Login)
			authRoutes.POST("/refresh", middleware.CriticalRateLimit(), handler.RefreshToken)
			authRoutes.POST("/logout", handler.Logout)
		}

		// Self-service routes, bearer token only
		selfRoute := apiRouter.Group("/user")
		selfRoute.Use(middleware.JWTAuth())
		{
			selfRoute.GET("/self", handler.GetSelf)
			selfRoute.PUT("/self", handler.UpdateSelf)
			selfRoute.DELETE("/self", handler.DeleteSelf)
		}

		// Admin user management
		adminUserRoute := apiRouter.Group("/user")
		adminUserRoute.Use(middleware.UserAuth(), middleware.AdminAuth())
		{
			adminUserRoute.GET("/", handler.GetAllUsers)
			adminUserRoute.GET("/search", handler.SearchUsers)
			adminUserRoute.GET("/:id", handler.GetUser)
			adminUserRoute.POST("/", handler.CreateUser)
			adminUserRoute.PUT("/", handler.UpdateUser)
			adminUserRoute.DELETE("/:id", handler.DeleteUser)
		}

		// Tier reference data: admins may read, only root may change it
		tierRoute := apiRouter.Group("/tiers")
		tierRoute.Use(middleware.UserAuth(), middleware.AdminAuth())
		{
			tierRoute.GET("/", handler.GetAllTiers)
			tierRoute.GET("/:id", handler.GetTier)

			rootTierRoute := tierRoute.Group("/")
			rootTierRoute.Use(middleware.RootAuth())
			{
				rootTierRoute.POST("/", handler.CreateTier)
				rootTierRoute.PUT("/", handler.UpdateTier)
				rootTierRoute.DELETE("/:id", handler.DeleteTier)
			}
		}

		// Image records, scoped to the owner
		imageRoute := apiRouter.Group("/images")
		imageRoute.Use(middleware.UserAuth())
		{
			imageRoute.GET("/", handler.GetMyImages)
			imageRoute.POST("/", handler.CreateImage)
			imageRoute.GET("/:id", handler.GetImage)
			imageRoute.PUT("/:id", handler.UpdateImage)
			imageRoute.DELETE("/:id", handler.DeleteImage)
			imageRoute.POST("/:id/upload", handler.UploadImage)
			imageRoute.GET("/:id/thumbnail", handler.GetThumbnail)
			imageRoute.GET("/:id/generate-link", middleware.CriticalRateLimit(), handler.GenerateLink)
		}
	}
}

// SetMediaRouter registers the raw-bytes route. It sits outside /api: no
// gzip (the payloads are already compressed), no auth requirement (a link
// token may be the only credential), only TryAuth to pick up a session or
// bearer identity when present.
func SetMediaRouter(route *gin.Engine) {
	route.GET("/media/*path", middleware.GlobalAPIRateLimit(), middleware.TryAuth(), handler.ServeMedia)
}
