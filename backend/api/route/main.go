package route

import (
	"pixvault/backend/api/middleware"

	"github.com/gin-gonic/gin"
)

func SetRouter(route *gin.Engine) {
	route.Use(middleware.LangMiddleware())
	SetApiRouter(route)
	SetMediaRouter(route)
}
