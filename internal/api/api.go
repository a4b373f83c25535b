package api

import (
	"net/http"

	userHandler "data-processor/internal/users/handler"
	webhookHandler "data-processor/internal/webhooks/handler"

	"github.com/gin-gonic/gin"
)

type API struct {
	router         *gin.RouterGroup
	webhookHandler *webhookHandler.Handler
	userHandler    *userHandler.Handler
}

func New(router *gin.RouterGroup, webhookHandler *webhookHandler.Handler, userHandler *userHandler.Handler) API {
	return API{
		router:         router,
		webhookHandler: webhookHandler,
		userHandler:    userHandler,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api")
	{
		apiGroup.POST("/webhooks", a.webhookHandler.HandleProcessWebhook)
		apiGroup.GET("/users/:id", a.userHandler.HandleGetUser)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
