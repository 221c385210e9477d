package settings

import (
	"codeberg.org/openkombai/client/internal/settings"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, store *settings.Store, notifier ChangeNotifier) {
	group := router.Group("/settings")
	{
		group.GET("", GetSettingsHandler(store))
		group.PUT("", UpdateSettingsHandler(store, notifier))
		group.POST("/preset", ApplyPresetHandler(store, notifier))
	}
}
